package connections

import (
	"context"
	"linkroute/core"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// RouteScene routes every link of scene concurrently and returns the routes
// in link order. Links never share mutable state, so the result is the same
// as routing them one by one. The first error cancels the remaining links.
func (r *Router) RouteScene(ctx context.Context, scene *core.Scene) ([]core.Route, error) {
	routes := make([]core.Route, len(scene.Links))

	workers := r.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, link := range scene.Links {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			route, err := r.RouteLink(scene, link)
			if err != nil {
				return err
			}
			routes[i] = route
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fallbacks := 0
	for _, route := range routes {
		if route.Fallback {
			fallbacks++
		}
	}
	r.logger.Info("scene routed",
		slog.Int("links", len(routes)),
		slog.Int("fallbacks", fallbacks),
		slog.Int("workers", workers))
	return routes, nil
}
