package importer

import (
	"errors"
	"linkroute/geometry"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const jsonScene = `{
  "shapes": [
    {"id": "a", "type": "standard.Rectangle", "bbox": {"x": 20, "y": 30, "width": 120, "height": 80}},
    {"id": "b", "bbox": {"x": 620, "y": 30, "width": 120, "height": 80}, "parent": "g"},
    {"id": "g", "bbox": {"x": 600, "y": 0, "width": 200, "height": 200}}
  ],
  "links": [
    {"id": "ab", "source": {"id": "a"}, "target": {"id": "b", "anchor": {"x": 640, "y": 70}}, "vertices": [{"x": 300, "y": 200}]},
    {"source": {"id": "a"}, "target": {"point": {"x": 10, "y": 400}}}
  ]
}`

const yamlScene = `shapes:
  - id: a
    bbox: {x: 20, y: 30, width: 120, height: 80}
  - id: b
    bbox: {x: 620, y: 30, width: 120, height: 80}
links:
  - source: {id: a}
    target: {id: b}
    vertices:
      - {x: 300, y: 200}
`

func TestJSONImporter(t *testing.T) {
	scene, err := NewJSONImporter().Import(jsonScene)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(scene.Shapes) != 3 || len(scene.Links) != 2 {
		t.Fatalf("got %d shapes, %d links", len(scene.Shapes), len(scene.Links))
	}
	if scene.Shapes[1].Parent != "g" {
		t.Errorf("parent = %q", scene.Shapes[1].Parent)
	}
	ab := scene.Links[0]
	if ab.Target.Anchor == nil || *ab.Target.Anchor != geometry.Pt(640, 70) {
		t.Errorf("target anchor = %v", ab.Target.Anchor)
	}
	if len(ab.Vertices) != 1 || ab.Vertices[0] != geometry.Pt(300, 200) {
		t.Errorf("vertices = %v", ab.Vertices)
	}
	free := scene.Links[1]
	if !free.Target.IsFree() || free.Target.Point == nil || *free.Target.Point != geometry.Pt(10, 400) {
		t.Errorf("free target = %+v", free.Target)
	}
	if free.ID == "" {
		t.Error("anonymous link did not get an id")
	}
}

func TestJSONImporter_Schema(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"missing shapes", `{"links": []}`, "shapes"},
		{"negative width", `{"shapes": [{"id": "a", "bbox": {"x": 0, "y": 0, "width": -1, "height": 5}}]}`, "width"},
		{"shape without bbox", `{"shapes": [{"id": "a"}]}`, "bbox"},
		{"end without id or point", `{"shapes": [], "links": [{"source": {}, "target": {"id": "a"}}]}`, "source"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewJSONImporter().Import(tt.content)
			if !errors.Is(err, ErrSchema) {
				t.Fatalf("Import() = %v, want ErrSchema", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestImport_ReferentialErrors(t *testing.T) {
	content := `{"shapes": [{"id": "a", "bbox": {"x": 0, "y": 0, "width": 1, "height": 1}}],
		"links": [{"id": "l", "source": {"id": "a"}, "target": {"id": "zzz"}}]}`
	_, err := NewJSONImporter().Import(content)
	if err == nil || !strings.Contains(err.Error(), "zzz") {
		t.Errorf("Import() = %v, want unknown shape error", err)
	}
}

func TestYAMLImporter(t *testing.T) {
	scene, err := NewYAMLImporter().Import(yamlScene)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(scene.Shapes) != 2 || scene.Shapes[1].BBox != geometry.R(620, 30, 120, 80) {
		t.Errorf("shapes = %+v", scene.Shapes)
	}
	if len(scene.Links) != 1 || scene.Links[0].ID == "" {
		t.Errorf("links = %+v", scene.Links)
	}

	if _, err := NewYAMLImporter().Import("shapes: []\ncolour: red\n"); err == nil {
		t.Error("unknown field accepted")
	}
}

func TestAssignLinkIDs_Stable(t *testing.T) {
	first, err := NewYAMLImporter().Import(yamlScene)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewYAMLImporter().Import(yamlScene)
	if err != nil {
		t.Fatal(err)
	}
	if first.Links[0].ID != second.Links[0].ID {
		t.Errorf("ids differ: %s vs %s", first.Links[0].ID, second.Links[0].ID)
	}
}

func TestRegistry(t *testing.T) {
	r := NewImporterRegistry()

	if imp, err := r.DetectFormat(jsonScene); err != nil || imp.GetFormatName() != "JSON" {
		t.Errorf("DetectFormat(json) = %v, %v", imp, err)
	}
	if imp, err := r.DetectFormat(yamlScene); err != nil || imp.GetFormatName() != "YAML" {
		t.Errorf("DetectFormat(yaml) = %v, %v", imp, err)
	}
	if _, err := r.Import("graph TD; A-->B"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Import(mermaid) = %v, want ErrUnknownFormat", err)
	}
	if _, err := r.ImportWithFormat(yamlScene, "yaml"); err != nil {
		t.Errorf("ImportWithFormat(yaml) failed: %v", err)
	}
	if _, err := r.ImportWithFormat(yamlScene, "dot"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ImportWithFormat(dot) = %v, want ErrUnknownFormat", err)
	}
	if got := r.GetAvailableFormats(); len(got) != 2 {
		t.Errorf("GetAvailableFormats() = %v", got)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yml")
	if err := os.WriteFile(path, []byte(yamlScene), 0o644); err != nil {
		t.Fatal(err)
	}
	if scene, err := r.ImportFile(path); err != nil || len(scene.Shapes) != 2 {
		t.Errorf("ImportFile(yml) = %v, %v", scene, err)
	}
	noExt := filepath.Join(dir, "scene")
	if err := os.WriteFile(noExt, []byte(jsonScene), 0o644); err != nil {
		t.Fatal(err)
	}
	if scene, err := r.ImportFile(noExt); err != nil || len(scene.Shapes) != 3 {
		t.Errorf("ImportFile(detect) = %v, %v", scene, err)
	}
}
