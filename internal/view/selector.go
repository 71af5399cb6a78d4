// internal/view/selector.go - Discrete zoom level and tile selection
package view

import (
	"math"

	"tileblend/internal/config"
	"tileblend/internal/geometry"
	"tileblend/internal/logging"
	"tileblend/internal/tile"
)

// Crossfade band edges over the fractional zoom. Below the band only the
// lower level renders, above it only the higher one; inside it both levels
// render with eased weights.
const (
	fadeLow  = 0.25
	fadeHigh = 0.75
)

// Level is one discrete zoom level needed for a view, with the opacity
// weight the renderer should apply to its tiles.
type Level struct {
	Zoom   uint32
	Weight float64
}

// Selector resolves continuous views into discrete zoom levels and tile
// address sets for a fixed viewport.
type Selector struct {
	width    float64
	height   float64
	tileSize float64
	maxZoom  uint32
}

// NewSelector creates a selector for the configured viewport
func NewSelector(cfg *config.ViewportConfig) *Selector {
	return &Selector{
		width:    float64(cfg.Width),
		height:   float64(cfg.Height),
		tileSize: float64(cfg.TileSize),
		maxZoom:  cfg.MaxZoom,
	}
}

// MaxZoom returns the deepest discrete level the selector will request
func (s *Selector) MaxZoom() uint32 {
	return s.maxZoom
}

// Levels returns the one or two discrete zoom levels a view needs. The
// fade weights use a cubic smoothstep spanning the whole crossfade band,
// so the pair sums to 1 everywhere and both weights are strictly inside
// (0,1) mid-band. Above the maximum zoom the view clamps to the deepest
// available level.
func (s *Selector) Levels(v View) []Level {
	if v.Zoom < 0 {
		return []Level{{Zoom: 0, Weight: 1}}
	}

	floor := math.Floor(v.Zoom)
	if floor >= float64(s.maxZoom) {
		return []Level{{Zoom: s.maxZoom, Weight: 1}}
	}

	lower := uint32(floor)
	frac := v.Zoom - floor
	switch {
	case frac < fadeLow:
		return []Level{{Zoom: lower, Weight: 1}}
	case frac < fadeHigh:
		in := fadeInWeight(frac)
		return []Level{
			{Zoom: lower, Weight: 1 - in},
			{Zoom: lower + 1, Weight: in},
		}
	default:
		return []Level{{Zoom: lower + 1, Weight: 1}}
	}
}

// Tiles enumerates every tile at the given discrete zoom whose footprint
// intersects the view's visible world rectangle, clamped to the tile grid.
func (s *Selector) Tiles(v View, zoom uint32) []tile.Address {
	toWorld := s.ScreenToWorld(v)
	worldMin := toWorld.Apply(geometry.Vec{X: 0, Y: 0})
	worldMax := toWorld.Apply(geometry.Vec{X: s.width, Y: s.height})

	n := float64(uint64(1) << zoom)
	minCol := clampTile(math.Floor(worldMin.X*n), n)
	maxCol := clampTile(math.Floor(worldMax.X*n), n)
	minRow := clampTile(math.Floor(worldMin.Y*n), n)
	maxRow := clampTile(math.Floor(worldMax.Y*n), n)

	var addrs []tile.Address
	for col := minCol; col <= maxCol; col++ {
		for row := minRow; row <= maxRow; row++ {
			addr := tile.NewAddress(zoom, uint32(col), uint32(row))
			if !addr.IsValid() {
				logging.L().Errorf("skipping invalid tile address %s", addr)
				continue
			}
			addrs = append(addrs, addr)
		}
	}
	return addrs
}

// ScreenToWorld maps viewport pixel coordinates to world coordinates for
// a view
func (s *Selector) ScreenToWorld(v View) geometry.Transform {
	scale := math.Exp2(-v.Zoom) / s.tileSize
	screenCenter := geometry.Vec{X: s.width / 2, Y: s.height / 2}
	return geometry.NewTransform(scale, v.Center.Sub(screenCenter.Scale(scale)))
}

// WorldToScreen maps world coordinates to viewport pixel coordinates for
// a view
func (s *Selector) WorldToScreen(v View) geometry.Transform {
	scale := math.Exp2(v.Zoom) * s.tileSize
	screenCenter := geometry.Vec{X: s.width / 2, Y: s.height / 2}
	return geometry.NewTransform(scale, screenCenter.Sub(v.Center.Scale(scale)))
}

// TileToScreen maps a tile's unit-square local coordinates to viewport
// pixels, for consumers compositing normalized tile geometry.
func (s *Selector) TileToScreen(v View, addr tile.Address) geometry.Transform {
	scale := s.tileSize * math.Exp2(v.Zoom-float64(addr.Zoom))
	tileOrigin := geometry.Vec{X: float64(addr.Col), Y: float64(addr.Row)}.Scale(scale)
	worldShift := v.Center.Scale(s.tileSize * math.Exp2(v.Zoom))
	screenCenter := geometry.Vec{X: s.width / 2, Y: s.height / 2}
	return geometry.NewTransform(scale, tileOrigin.Sub(worldShift).Add(screenCenter))
}

// fadeInWeight eases the higher-resolution level in across the crossfade
// band: cubic smoothstep, zero slope at both band edges, clamped to [0,1].
// The lower level's weight is the complement.
func fadeInWeight(frac float64) float64 {
	t := (frac - fadeLow) / (fadeHigh - fadeLow)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

// clampTile clamps a tile index to [0, n-1]
func clampTile(idx, n float64) int64 {
	if idx < 0 {
		return 0
	}
	if idx > n-1 {
		return int64(n - 1)
	}
	return int64(idx)
}
