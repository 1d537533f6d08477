package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"linkroute/config"
	"linkroute/export"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const threeShapes = `{
  "metadata": {"name": "three"},
  "shapes": [
    {"id": "r1", "bbox": {"x": 20, "y": 30, "width": 120, "height": 80}},
    {"id": "r2", "bbox": {"x": 320, "y": 30, "width": 120, "height": 80}},
    {"id": "r3", "bbox": {"x": 620, "y": 30, "width": 120, "height": 80}}
  ],
  "links": [
    {"id": "l1", "source": {"id": "r1"}, "target": {"id": "r3"}}
  ]
}`

func writeScene(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), append([]string{"-log-level", "error"}, args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRun_ASCII(t *testing.T) {
	scene := writeScene(t, "scene.json", threeShapes)
	out, _, err := runCLI(t, scene)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for _, want := range []string{"r1", "r2", "r3", "▶", "┐"} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestRun_JSONToFile(t *testing.T) {
	scene := writeScene(t, "scene.json", threeShapes)
	outPath := filepath.Join(t.TempDir(), "routes.json")

	stdout, stderr, err := runCLI(t, "-format", "json", "-o", outPath, scene)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want nothing", stdout)
	}
	if !strings.Contains(stderr, "routed 1 links (0 fallback)") || !strings.Contains(stderr, "wrote") {
		t.Errorf("summary = %q", stderr)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Name   string `json:"name"`
		Routes []struct {
			Link   string `json:"link"`
			Points []struct{ X, Y float64 }
		} `json:"routes"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.Name != "three" || len(doc.Routes) != 1 || doc.Routes[0].Link != "l1" {
		t.Fatalf("decoded %+v", doc)
	}
	// the route goes around r2 below it
	want := [][2]float64{{300, 70}, {300, 130}, {600, 130}, {600, 70}}
	got := doc.Routes[0].Points
	if len(got) != len(want) {
		t.Fatalf("points = %v, want %v", got, want)
	}
	for i, p := range want {
		if got[i].X != p[0] || got[i].Y != p[1] {
			t.Errorf("point %d = %v, want %v", i, got[i], p)
		}
	}
}

func TestRun_Validate(t *testing.T) {
	scene := writeScene(t, "scene.yaml", `shapes:
  - {id: r1, bbox: {x: 20, y: 30, width: 120, height: 80}}
  - {id: r2, bbox: {x: 320, y: 30, width: 120, height: 80}}
  - {id: r3, bbox: {x: 620, y: 30, width: 120, height: 80}}
links:
  - {id: l1, source: {id: r1}, target: {id: r3}}
`)
	_, stderr, err := runCLI(t, "-validate", "-workers", "2", scene)
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, stderr)
	}
	if !strings.Contains(stderr, "validation passed: 1 routes") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRun_Debug(t *testing.T) {
	scene := writeScene(t, "scene.json", threeShapes)
	_, stderr, err := runCLI(t, "-debug", "-format", "json", scene)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for _, want := range []string{"Legend", "█", "S", "T", "Obstacle 2:"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr does not contain %q:\n%s", want, stderr)
		}
	}
}

func TestRun_Config(t *testing.T) {
	scene := writeScene(t, "scene.json", threeShapes)
	cfg := writeScene(t, "linkroute.toml", `
[router]
step = 20.0
maximum_loops = 2000
precision = 1
max_direction_change = 90.0
padding = 0.0
cache_size = 16

[render]
scale = 20.0
margin = 0.0
`)
	out, _, err := runCLI(t, "-config", cfg, "-format", "json", scene)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	// without padding the detour runs along the top edge of the row
	if !strings.Contains(out, `"y": 10`) {
		t.Errorf("output = %s", out)
	}
}

func TestRun_Errors(t *testing.T) {
	scene := writeScene(t, "scene.json", threeShapes)
	tests := []struct {
		name string
		args []string
		is   error
		msg  string
	}{
		{name: "no scene", args: nil, msg: "exactly one scene file"},
		{name: "unknown format", args: []string{"-format", "pdf", scene}, is: export.ErrUnsupportedFormat},
		{name: "missing file", args: []string{filepath.Join(t.TempDir(), "nope.json")}, is: os.ErrNotExist},
		{name: "bad config", args: []string{"-config", writeScene(t, "c.ini", ""), scene}, is: config.ErrUnsupportedFormat},
		{name: "help", args: []string{"-h"}, is: flag.ErrHelp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("error = %v, want %v", err, tt.is)
			}
			if tt.msg != "" && !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error = %v, want %q", err, tt.msg)
			}
		})
	}
}
