package terminal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

// row returns the text of screen row y with trailing spaces removed.
func row(s tcell.SimulationScreen, y int) string {
	cells, w, _ := s.GetContents()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			sb.WriteRune(' ')
			continue
		}
		sb.WriteRune(c.Runes[0])
	}
	return strings.TrimRight(sb.String(), " ")
}

func staticFrame(lines ...string) RenderFunc {
	return func() (Frame, error) {
		return Frame{Lines: lines, Summary: "2 links"}, nil
	}
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestViewer_Draw(t *testing.T) {
	s := newScreen(t, 40, 4)
	v := NewViewer(s, "scene.json", staticFrame("┌─┐", "└─┘"))
	v.Reload()
	v.Draw()

	if got := row(s, 0); got != "┌─┐" {
		t.Errorf("row 0 = %q", got)
	}
	if got := row(s, 1); got != "└─┘" {
		t.Errorf("row 1 = %q", got)
	}
	if got := row(s, 3); !strings.Contains(got, "scene.json  2 links") {
		t.Errorf("status line = %q", got)
	}
}

func TestViewer_Pan(t *testing.T) {
	s := newScreen(t, 5, 3)
	v := NewViewer(s, "t", staticFrame("abcdefgh", "ijklmnop", "qrstuvwx"))
	v.Reload()
	v.Draw()

	tests := []struct {
		name  string
		event tcell.Event
		row0  string
	}{
		{"right", key(tcell.KeyRight), "bcdef"},
		{"l", runeKey('l'), "cdefg"},
		{"clamped right", key(tcell.KeyRight), "defgh"},
		{"clamped again", key(tcell.KeyRight), "defgh"},
		{"down", key(tcell.KeyDown), "lmnop"},
		{"clamped down", runeKey('j'), "lmnop"},
		{"home", key(tcell.KeyHome), "abcde"},
		{"clamped left", key(tcell.KeyLeft), "abcde"},
	}
	for _, tt := range tests {
		if v.HandleEvent(tt.event) {
			t.Fatalf("%s: viewer quit", tt.name)
		}
		if got := row(s, 0); got != tt.row0 {
			t.Errorf("%s: row 0 = %q, want %q", tt.name, got, tt.row0)
		}
	}
}

func TestViewer_Quit(t *testing.T) {
	s := newScreen(t, 10, 3)
	v := NewViewer(s, "t", staticFrame("x"))
	for _, ev := range []tcell.Event{runeKey('q'), key(tcell.KeyEscape), key(tcell.KeyCtrlC)} {
		if !v.HandleEvent(ev) {
			t.Errorf("%v did not quit", ev.(*tcell.EventKey).Name())
		}
	}
}

func TestViewer_ReloadError(t *testing.T) {
	s := newScreen(t, 60, 3)
	fail := false
	v := NewViewer(s, "scene.json", func() (Frame, error) {
		if fail {
			return Frame{}, errors.New("unknown shape \"x\"")
		}
		return Frame{Lines: []string{"ok"}}, nil
	})
	v.Reload()
	fail = true
	v.HandleEvent(runeKey('r'))

	if got := row(s, 0); got != "ok" {
		t.Errorf("previous frame lost: row 0 = %q", got)
	}
	if got := row(s, 2); !strings.Contains(got, `unknown shape "x"`) {
		t.Errorf("status line = %q", got)
	}
	if v.Renders() != 2 {
		t.Errorf("Renders() = %d", v.Renders())
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestViewer_RunReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.txt")
	if err := os.WriteFile(path, []byte("first"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := newScreen(t, 20, 3)
	v := NewViewer(s, "scene", func() (Frame, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return Frame{}, err
		}
		return Frame{Lines: strings.Split(string(data), "\n")}, nil
	})

	done := make(chan error, 1)
	go func() { done <- v.Run(context.Background(), path) }()

	waitFor(t, func() bool { return row(s, 0) == "first" })
	if err := os.WriteFile(path, []byte("second"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return row(s, 0) == "second" })

	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after q")
	}
}

func TestViewer_RunStopsOnCancel(t *testing.T) {
	s := newScreen(t, 20, 3)
	v := NewViewer(s, "scene", staticFrame("x"))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- v.Run(ctx, "") }()
	waitFor(t, func() bool { return v.Renders() == 1 })
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
