package main

import (
	"context"
	"fmt"
	"io"
	"linkroute/config"
	"linkroute/connections"
	"linkroute/core"
	"linkroute/export"
	"linkroute/geometry"
	"linkroute/importer"
	"linkroute/obstacles"
	"linkroute/pathfinding"
	"time"
)

// pipeline turns scene files into routed documents. The route cache
// outlives single runs so the viewer only re-routes links that changed.
type pipeline struct {
	cfg      config.Config
	opts     pathfinding.Options
	router   *connections.Router
	cache    *connections.RouteCache
	registry *importer.ImporterRegistry
}

// result is one routed scene.
type result struct {
	doc       export.Document
	fallbacks int
	elapsed   time.Duration
}

func newPipeline(cfg config.Config) (*pipeline, error) {
	opts, err := cfg.Router.Options()
	if err != nil {
		return nil, fmt.Errorf("router config: %w", err)
	}

	if cfg.Router.CellSize <= 0 {
		cfg.Router.CellSize = obstacles.DefaultCellSize
	}
	routerOpts := []connections.Option{
		connections.WithWorkers(cfg.Router.Workers),
		connections.WithCellSize(cfg.Router.CellSize),
	}
	var cache *connections.RouteCache
	if cfg.Router.CacheSize > 0 {
		cache = connections.NewRouteCache(cfg.Router.CacheSize)
		routerOpts = append(routerOpts, connections.WithCache(cache))
	}
	router, err := connections.NewRouter(opts, routerOpts...)
	if err != nil {
		return nil, err
	}

	return &pipeline{
		cfg:      cfg,
		opts:     opts,
		router:   router,
		cache:    cache,
		registry: importer.NewImporterRegistry(),
	}, nil
}

// run imports and routes the scene at path.
func (p *pipeline) run(ctx context.Context, path string) (result, error) {
	start := time.Now()
	scene, err := p.registry.ImportFile(path)
	if err != nil {
		return result{}, fmt.Errorf("import %s: %w", path, err)
	}
	routes, err := p.router.RouteScene(ctx, scene)
	if err != nil {
		return result{}, fmt.Errorf("route %s: %w", path, err)
	}

	res := result{
		doc:     export.Document{Scene: scene, Routes: routes},
		elapsed: time.Since(start),
	}
	for _, r := range routes {
		if r.Fallback {
			res.fallbacks++
		}
	}
	if p.cfg.Render.Obstacles {
		res.doc.Obstacles = p.obstacleBoxes(scene)
	}
	return res, nil
}

// obstacleBoxes returns the padded box of every shape, the way a link
// between two unrelated points would see them.
func (p *pipeline) obstacleBoxes(scene *core.Scene) []geometry.Rect {
	m := obstacles.Build(scene.Shapes, obstacles.Exclusions{}, p.opts.PaddingRect(), p.cfg.Router.CellSize)
	return m.Obstacles()
}

// debugMap writes the obstacle map of a routed scene to w, sampled once per
// text cell, with the anchors and bends of every route marked.
func (p *pipeline) debugMap(res result, w io.Writer) {
	if res.doc.Scene == nil {
		return
	}
	m := obstacles.Build(res.doc.Scene.Shapes, obstacles.Exclusions{}, p.opts.PaddingRect(), p.cfg.Router.CellSize)
	marks := make(map[geometry.Point]rune)
	for _, r := range res.doc.Routes {
		for _, pt := range r.Points {
			marks[pt] = 'o'
		}
		marks[r.Source] = 'S'
		marks[r.Target] = 'T'
	}
	dv := &obstacles.DebugVisualizer{Step: p.exportOptions().Scale}
	fmt.Fprintln(w, dv.GetLegend())
	fmt.Fprint(w, dv.VisualizeMap(m, export.Bounds(res.doc, 0), marks))
	fmt.Fprint(w, obstacles.ExportObstacleData(m))
}

// exportOptions maps the render config onto the exporters, keeping the
// defaults for unset scales.
func (p *pipeline) exportOptions() export.Options {
	opts := export.DefaultOptions()
	if r := p.cfg.Render; r.Scale > 0 {
		opts.Scale = r.Scale
	}
	if r := p.cfg.Render; r.PixelScale > 0 {
		opts.PixelScale = r.PixelScale
	}
	opts.Margin = max(0, p.cfg.Render.Margin)
	return opts
}
