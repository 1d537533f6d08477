package connections

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"linkroute/core"
	"linkroute/geometry"
	"linkroute/pathfinding"
	"maps"
	"math"
	"slices"
	"sync"
	"sync/atomic"
)

// RouteCache stores computed routes keyed by a fingerprint of everything the
// search depends on: ends, anchors, vertices, obstacle rectangles and router
// options. Routers sharing a cache must also share their fallback and
// dragging routers, which the fingerprint cannot see. It is safe for
// concurrent use.
type RouteCache struct {
	mu        sync.RWMutex
	routes    map[uint64]core.Route
	maxSize   int
	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// NewRouteCache creates a cache holding at most maxSize routes. A
// non-positive maxSize means unbounded.
func NewRouteCache(maxSize int) *RouteCache {
	return &RouteCache{
		routes:  make(map[uint64]core.Route),
		maxSize: maxSize,
	}
}

// Get returns a copy of the cached route for key.
func (c *RouteCache) Get(key uint64) (core.Route, bool) {
	c.mu.RLock()
	route, found := c.routes[key]
	c.mu.RUnlock()

	if !found {
		c.misses.Add(1)
		return core.Route{}, false
	}
	c.hits.Add(1)
	route.Points = slices.Clone(route.Points)
	return route, true
}

// Put stores route under key, evicting an arbitrary entry when full.
func (c *RouteCache) Put(key uint64, route core.Route) {
	route.Points = slices.Clone(route.Points)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.routes[key]; !exists && c.maxSize > 0 && len(c.routes) >= c.maxSize {
		for k := range c.routes {
			delete(c.routes, k)
			c.evictions.Add(1)
			break
		}
	}
	c.routes[key] = route
}

// Clear removes all entries and resets the counters.
func (c *RouteCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.routes = make(map[uint64]core.Route)
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}

// Stats returns cache statistics.
func (c *RouteCache) Stats() (hits, misses, evictions, size int) {
	c.mu.RLock()
	size = len(c.routes)
	c.mu.RUnlock()

	return int(c.hits.Load()), int(c.misses.Load()), int(c.evictions.Load()), size
}

func (c *RouteCache) String() string {
	hits, misses, evictions, size := c.Stats()
	hitRate := 0.0
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	return fmt.Sprintf("RouteCache[size=%d/%d, hits=%d, misses=%d, hitRate=%.1f%%, evictions=%d]",
		size, c.maxSize, hits, misses, hitRate, evictions)
}

// fingerprint hashes a routing problem together with the options it is
// solved under.
func fingerprint(req pathfinding.Request, opts pathfinding.Options, obstacleRects []geometry.Rect, freeEnd bool, bounds *geometry.Rect) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	write := func(vs ...float64) {
		for _, v := range vs {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			h.Write(buf[:])
		}
	}
	rect := func(r geometry.Rect) { write(r.X, r.Y, r.Width, r.Height) }

	rect(req.SourceBBox)
	rect(req.TargetBBox)
	write(req.SourceAnchor.X, req.SourceAnchor.Y, req.TargetAnchor.X, req.TargetAnchor.Y)
	write(float64(len(req.Vertices)))
	for _, v := range req.Vertices {
		write(v.X, v.Y)
	}
	write(float64(len(obstacleRects)))
	for _, r := range obstacleRects {
		rect(r)
	}
	if freeEnd {
		write(1)
	} else {
		write(0)
	}
	if bounds != nil {
		rect(*bounds)
	}

	write(opts.Step, float64(opts.MaximumLoops), float64(opts.Precision), opts.MaxAllowedDirectionChange)
	rect(opts.PaddingRect())
	pad := opts.ElementPadding()
	write(pad.Top, pad.Right, pad.Bottom, pad.Left)
	for _, dirs := range [][]core.Direction{opts.StartDirections, opts.EndDirections} {
		write(float64(len(dirs)))
		for _, d := range dirs {
			write(float64(d))
		}
	}
	if opts.Penalties == nil {
		write(-1)
	} else {
		angles := slices.Sorted(maps.Keys(opts.Penalties))
		write(float64(len(angles)))
		for _, a := range angles {
			write(a, opts.Penalties[a])
		}
	}
	write(float64(len(opts.ExcludeEnds)))
	for _, e := range opts.ExcludeEnds {
		write(float64(e))
	}
	write(float64(len(opts.ExcludeTypes)))
	for _, t := range opts.ExcludeTypes {
		write(float64(len(t)))
		h.Write([]byte(t))
	}
	return h.Sum64()
}
