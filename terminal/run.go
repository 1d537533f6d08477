package terminal

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/gdamore/tcell/v2"
)

// Run shows the viewer until the user quits or ctx is done. When watchPath
// is set the frame is re-rendered every time that file is written.
func (v *Viewer) Run(ctx context.Context, watchPath string) error {
	var (
		changes <-chan fsnotify.Event
		errs    <-chan error
	)
	if watchPath != "" {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("watch %s: %w", watchPath, err)
		}
		defer watcher.Close()
		// Editors often replace the file, so watch its directory.
		if err := watcher.Add(filepath.Dir(watchPath)); err != nil {
			return fmt.Errorf("watch %s: %w", watchPath, err)
		}
		changes, errs = watcher.Events, watcher.Errors
	}
	target := filepath.Clean(watchPath)

	done := make(chan struct{})
	defer close(done)
	events := make(chan tcell.Event)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	v.Reload()
	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if v.HandleEvent(ev) {
				return nil
			}
		case ev, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			v.logger.Debug("scene changed", slog.String("file", ev.Name), slog.String("op", ev.Op.String()))
			v.Reload()
			v.Draw()
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			v.logger.Warn("watch error", slog.String("err", err.Error()))
		}
	}
}

// Show opens the terminal, runs a viewer on it and restores the terminal
// on return.
func Show(ctx context.Context, title, watchPath string, render RenderFunc) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	defer screen.Fini()

	return NewViewer(screen, title, render).Run(ctx, watchPath)
}
