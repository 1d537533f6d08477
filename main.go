// Command linkroute routes the links of a scene around its shapes and
// writes the result as text art, JSON, SVG or PNG.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"linkroute/config"
	"linkroute/export"
	"linkroute/log"
	"linkroute/terminal"
	"linkroute/validation"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

// errValidation is returned when -validate finds problems.
var errValidation = errors.New("validation failed")

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("linkroute", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		format      = fs.String("format", "ascii", "Export format: ascii, json, svg, png")
		outputFile  = fs.String("o", "", "Output file (default: stdout)")
		configFile  = fs.String("config", "", "Configuration file (.yaml, .yml or .toml)")
		validate    = fs.Bool("validate", false, "Check the routes and their text rendering")
		interactive = fs.Bool("i", false, "Show the scene in the terminal, redrawing on file changes")
		workers     = fs.Int("workers", 0, "Links routed in parallel (default: from config, else all CPUs)")
		scale       = fs.Float64("scale", 0, "Scene units per text cell (default: from config)")
		logLevel    = fs.String("log-level", "", "Log level: debug, info, warn, error")
		showObst    = fs.Bool("show-obstacles", false, "Draw padded obstacle boxes in svg and png output")
		debug       = fs.Bool("debug", false, "Print the obstacle map to stderr")
	)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: linkroute [options] scene.(json|yaml)\n\n")
		fmt.Fprintf(stderr, "Routes the links of a scene around its shapes.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  linkroute scene.json                    # Draw the routed scene\n")
		fmt.Fprintf(stderr, "  linkroute -format svg -o out.svg scene.yaml\n")
		fmt.Fprintf(stderr, "  linkroute -format json -validate scene.json\n")
		fmt.Fprintf(stderr, "  linkroute -i scene.json                 # Watch and redraw\n")
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("exactly one scene file is required")
	}
	scenePath := fs.Arg(0)

	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *workers > 0 {
		cfg.Router.Workers = *workers
	}
	if *scale > 0 {
		cfg.Render.Scale = *scale
	}
	if *showObst {
		cfg.Render.Obstacles = true
	}
	if cfg.Logging.Output == nil {
		cfg.Logging.Output = stderr
	}
	log.Init(cfg.Logging)
	defer log.Close()
	logger := log.WithOperation(log.WithComponent("cli"), "run")

	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}

	if *interactive {
		return terminal.Show(ctx, filepath.Base(scenePath), scenePath, func() (terminal.Frame, error) {
			return p.frame(ctx, scenePath)
		})
	}

	exportFormat, err := export.ParseFormat(*format)
	if err != nil {
		return err
	}
	exporter, err := export.NewExporter(exportFormat, p.exportOptions())
	if err != nil {
		return err
	}

	res, err := p.run(ctx, scenePath)
	if err != nil {
		return err
	}
	logger.Debug("scene routed",
		slog.String("file", scenePath),
		slog.Int("links", len(res.doc.Routes)),
		slog.Duration("elapsed", res.elapsed))

	if *debug {
		p.debugMap(res, stderr)
	}

	var buf bytes.Buffer
	if err := exporter.Export(&buf, res.doc); err != nil {
		return fmt.Errorf("export %s: %w", exportFormat, err)
	}
	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(stderr, "%s, wrote %s to %s\n", p.summary(res), humanize.Bytes(uint64(buf.Len())), *outputFile)
	} else if _, err := stdout.Write(buf.Bytes()); err != nil {
		return err
	}

	if *validate {
		return p.validate(res, stderr)
	}
	return nil
}

// summary describes a routed scene in one line.
func (p *pipeline) summary(res result) string {
	s := fmt.Sprintf("routed %s links (%s fallback) in %s",
		humanize.Comma(int64(len(res.doc.Routes))),
		humanize.Comma(int64(res.fallbacks)),
		res.elapsed.Round(10*time.Microsecond))
	if p.cache != nil {
		hits, misses, _, _ := p.cache.Stats()
		s += fmt.Sprintf(", cache %d/%d hits", hits, hits+misses)
	}
	return s
}

// frame routes the scene and draws it for the terminal viewer.
func (p *pipeline) frame(ctx context.Context, path string) (terminal.Frame, error) {
	res, err := p.run(ctx, path)
	if err != nil {
		return terminal.Frame{}, err
	}
	c, err := export.NewASCIIExporter(p.exportOptions()).Render(res.doc)
	if err != nil {
		return terminal.Frame{}, err
	}
	return terminal.Frame{Lines: c.Lines(), Summary: p.summary(res)}, nil
}

// validate reports route problems and line drawing errors of the text
// rendering on w.
func (p *pipeline) validate(res result, w io.Writer) error {
	issues := validation.NewRouteValidator(p.opts).Validate(res.doc.Scene, res.doc.Routes)
	for _, issue := range issues {
		fmt.Fprintf(w, "route: %s\n", issue)
	}

	c, err := export.NewASCIIExporter(p.exportOptions()).Render(res.doc)
	if err != nil {
		return err
	}
	lineErrs := validation.NewLineValidator().Validate(c.String())
	for _, e := range lineErrs {
		fmt.Fprintf(w, "drawing: %s\n", e)
	}

	if n := len(issues) + len(lineErrs); n > 0 {
		return fmt.Errorf("%w: %d problems", errValidation, n)
	}
	fmt.Fprintf(w, "validation passed: %d routes\n", len(res.doc.Routes))
	return nil
}
