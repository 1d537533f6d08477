// Package terminal shows a rendered scene full screen and redraws it when
// the scene file changes.
package terminal

import (
	"fmt"
	"linkroute/log"
	"log/slog"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Frame is one rendering of the scene.
type Frame struct {
	Lines   []string
	Summary string // shown in the status line
}

// RenderFunc produces a fresh frame, typically by re-reading and re-routing
// the scene file.
type RenderFunc func() (Frame, error)

// Viewer draws frames on a tcell screen and pans over them.
type Viewer struct {
	screen tcell.Screen
	render RenderFunc
	title  string

	frame   Frame
	err     error
	offX    int
	offY    int
	renders atomic.Int64

	logger *slog.Logger
}

var (
	styleDefault = tcell.StyleDefault
	styleStatus  = tcell.StyleDefault.Reverse(true)
	styleError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Reverse(true)
)

// NewViewer creates a viewer drawing on an initialised screen.
func NewViewer(screen tcell.Screen, title string, render RenderFunc) *Viewer {
	return &Viewer{
		screen: screen,
		render: render,
		title:  title,
		logger: log.WithComponent("terminal"),
	}
}

// Reload renders a new frame. On failure the previous frame stays on screen
// and the error is shown in the status line.
func (v *Viewer) Reload() {
	frame, err := v.render()
	n := v.renders.Add(1)
	v.err = err
	if err != nil {
		v.logger.Warn("render failed", slog.String("err", err.Error()))
		return
	}
	v.frame = frame
	v.clamp()
	v.logger.Debug("frame rendered", slog.Int("lines", len(frame.Lines)), slog.Int64("renders", n))
}

// Renders returns how many times the frame was rendered.
func (v *Viewer) Renders() int {
	return int(v.renders.Load())
}

// viewport returns the size of the drawing area above the status line.
func (v *Viewer) viewport() (int, int) {
	w, h := v.screen.Size()
	return w, max(0, h-1)
}

func (v *Viewer) frameWidth() int {
	width := 0
	for _, line := range v.frame.Lines {
		width = max(width, runewidth.StringWidth(line))
	}
	return width
}

// clamp keeps the offsets within the frame.
func (v *Viewer) clamp() {
	w, h := v.viewport()
	v.offX = min(v.offX, max(0, v.frameWidth()-w))
	v.offY = min(v.offY, max(0, len(v.frame.Lines)-h))
	v.offX = max(v.offX, 0)
	v.offY = max(v.offY, 0)
}

// Pan moves the viewport by dx columns and dy rows.
func (v *Viewer) Pan(dx, dy int) {
	v.offX += dx
	v.offY += dy
	v.clamp()
}

// Draw paints the visible part of the frame and the status line.
func (v *Viewer) Draw() {
	v.screen.Clear()
	w, h := v.viewport()

	for row := 0; row < h; row++ {
		i := v.offY + row
		if i >= len(v.frame.Lines) {
			break
		}
		col := -v.offX
		for _, r := range v.frame.Lines[i] {
			rw := runewidth.RuneWidth(r)
			if col >= w {
				break
			}
			if col >= 0 && col+rw <= w {
				v.screen.SetContent(col, row, r, nil, styleDefault)
			}
			col += rw
		}
	}

	status, style := v.statusLine()
	v.drawText(0, h, w, status, style)
	v.screen.Show()
}

func (v *Viewer) statusLine() (string, tcell.Style) {
	if v.err != nil {
		return fmt.Sprintf(" %s: %v", v.title, v.err), styleError
	}
	s := " " + v.title
	if v.frame.Summary != "" {
		s += "  " + v.frame.Summary
	}
	return s + "  [arrows pan, r reload, q quit]", styleStatus
}

// drawText fills row y with text, padding with spaces to width.
func (v *Viewer) drawText(x, y, width int, text string, style tcell.Style) {
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if x+rw > width {
			return
		}
		v.screen.SetContent(x, y, r, nil, style)
		x += rw
	}
	for ; x < width; x++ {
		v.screen.SetContent(x, y, ' ', nil, style)
	}
}

// HandleEvent applies a key or resize event and reports whether the viewer
// should quit.
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.clamp()
		v.screen.Sync()
	case *tcell.EventKey:
		_, h := v.viewport()
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyUp:
			v.Pan(0, -1)
		case tcell.KeyDown:
			v.Pan(0, 1)
		case tcell.KeyLeft:
			v.Pan(-1, 0)
		case tcell.KeyRight:
			v.Pan(1, 0)
		case tcell.KeyPgUp:
			v.Pan(0, -h)
		case tcell.KeyPgDn:
			v.Pan(0, h)
		case tcell.KeyHome:
			v.offX, v.offY = 0, 0
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return true
			case 'r':
				v.Reload()
			case 'h':
				v.Pan(-1, 0)
			case 'j':
				v.Pan(0, 1)
			case 'k':
				v.Pan(0, -1)
			case 'l':
				v.Pan(1, 0)
			}
		}
	}
	v.Draw()
	return false
}
