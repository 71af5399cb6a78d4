// internal/view/selector_test.go - Unit tests for level and tile selection
package view

import (
	"math"
	"testing"

	"tileblend/internal/config"
	"tileblend/internal/geometry"
	"tileblend/internal/tile"
)

func testSelector() *Selector {
	return NewSelector(&config.ViewportConfig{
		Width:    512,
		Height:   512,
		TileSize: 256,
		MaxZoom:  14,
	})
}

func centeredView(zoom float64) View {
	return View{Center: geometry.Vec{X: 0.5, Y: 0.5}, Zoom: zoom}
}

func TestLevelsSingleOutsideCrossfadeBand(t *testing.T) {
	s := testSelector()

	tests := []struct {
		name     string
		zoom     float64
		wantZoom uint32
	}{
		{"integer zoom", 2.0, 2},
		{"just below band", 2.24, 2},
		{"at band upper edge", 2.75, 3},
		{"above band", 2.9, 3},
		{"negative zoom clamps to root", -1.5, 0},
		{"at maximum zoom", 14.0, 14},
		{"beyond maximum zoom", 20.3, 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			levels := s.Levels(centeredView(tt.zoom))
			if len(levels) != 1 {
				t.Fatalf("Expected 1 level, got %d", len(levels))
			}
			if levels[0].Zoom != tt.wantZoom {
				t.Errorf("Level zoom = %d, want %d", levels[0].Zoom, tt.wantZoom)
			}
			if levels[0].Weight != 1 {
				t.Errorf("Single level weight = %g, want 1", levels[0].Weight)
			}
		})
	}
}

func TestLevelsCrossfadePair(t *testing.T) {
	s := testSelector()

	levels := s.Levels(centeredView(2.5))
	if len(levels) != 2 {
		t.Fatalf("Expected 2 levels mid-band, got %d", len(levels))
	}
	if levels[0].Zoom != 2 || levels[1].Zoom != 3 {
		t.Fatalf("Expected levels 2 and 3, got %d and %d", levels[0].Zoom, levels[1].Zoom)
	}
	for _, level := range levels {
		if level.Weight <= 0 || level.Weight >= 1 {
			t.Errorf("Mid-band weight for level %d = %g, want strictly inside (0,1)",
				level.Zoom, level.Weight)
		}
	}
	if sum := levels[0].Weight + levels[1].Weight; math.Abs(sum-1) > 1e-12 {
		t.Errorf("Weights sum to %g, want 1", sum)
	}
	if math.Abs(levels[0].Weight-0.5) > 1e-12 {
		t.Errorf("Band midpoint must split evenly, lower weight = %g", levels[0].Weight)
	}
}

func TestLevelsWeightsMonotoneAcrossBand(t *testing.T) {
	s := testSelector()

	prev := -1.0
	for frac := 0.25; frac < 0.75; frac += 0.01 {
		levels := s.Levels(centeredView(5 + frac))
		if len(levels) != 2 {
			t.Fatalf("Expected 2 levels at frac %.2f, got %d", frac, len(levels))
		}
		in := levels[1].Weight
		if in < prev {
			t.Fatalf("Fade-in weight decreased at frac %.2f: %g < %g", frac, in, prev)
		}
		if sum := levels[0].Weight + levels[1].Weight; math.Abs(sum-1) > 1e-12 {
			t.Fatalf("Weights at frac %.2f sum to %g", frac, sum)
		}
		prev = in
	}
}

func TestTilesCoversViewport(t *testing.T) {
	s := testSelector()

	// At zoom 1 the 512px viewport spans the whole 2x2 grid
	addrs := s.Tiles(centeredView(1), 1)
	if len(addrs) != 4 {
		t.Fatalf("Expected 4 tiles, got %d", len(addrs))
	}
	seen := make(map[tile.Address]struct{})
	for _, addr := range addrs {
		if !addr.IsValid() {
			t.Errorf("Enumerated invalid address %s", addr)
		}
		if _, dup := seen[addr]; dup {
			t.Errorf("Duplicate address %s", addr)
		}
		seen[addr] = struct{}{}
	}
}

func TestTilesClampsToGrid(t *testing.T) {
	s := testSelector()

	// At zoom 0 the viewport hangs over the world edge on all sides
	addrs := s.Tiles(centeredView(0), 0)
	if len(addrs) != 1 {
		t.Fatalf("Expected the single root tile, got %d tiles", len(addrs))
	}
	if addrs[0] != tile.NewAddress(0, 0, 0) {
		t.Errorf("Expected 0/0/0, got %s", addrs[0])
	}

	// A center far outside the world still clamps into the grid
	edge := View{Center: geometry.Vec{X: 2, Y: -1}, Zoom: 3}
	for _, addr := range s.Tiles(edge, 3) {
		if !addr.IsValid() {
			t.Errorf("Clamped enumeration produced invalid address %s", addr)
		}
	}
}

func TestScreenWorldRoundTrip(t *testing.T) {
	s := testSelector()
	v := View{Center: geometry.Vec{X: 0.31, Y: 0.74}, Zoom: 6.4}

	toWorld := s.ScreenToWorld(v)
	toScreen := s.WorldToScreen(v)

	points := []geometry.Vec{{X: 0, Y: 0}, {X: 256, Y: 256}, {X: 512, Y: 100}, {X: 13.5, Y: 499.25}}
	for _, p := range points {
		got := toScreen.Apply(toWorld.Apply(p))
		if math.Abs(got.X-p.X) > 1e-6 || math.Abs(got.Y-p.Y) > 1e-6 {
			t.Errorf("Round trip of %v produced %v", p, got)
		}
	}

	// The view center projects to the viewport center
	center := toScreen.Apply(v.Center)
	if math.Abs(center.X-256) > 1e-6 || math.Abs(center.Y-256) > 1e-6 {
		t.Errorf("View center projected to %v, want {256 256}", center)
	}
}

func TestTileToScreenAgreesWithWorldToScreen(t *testing.T) {
	s := testSelector()
	v := View{Center: geometry.Vec{X: 0.52, Y: 0.48}, Zoom: 4.3}
	addr := tile.NewAddress(4, 8, 7)

	toScreen := s.WorldToScreen(v)
	tileToScreen := s.TileToScreen(v, addr)

	locals := []geometry.Vec{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 0.5, Y: 0.25}}
	for _, local := range locals {
		n := math.Exp2(float64(addr.Zoom))
		world := geometry.Vec{
			X: (float64(addr.Col) + local.X) / n,
			Y: (float64(addr.Row) + local.Y) / n,
		}
		want := toScreen.Apply(world)
		got := tileToScreen.Apply(local)
		if math.Abs(got.X-want.X) > 1e-6 || math.Abs(got.Y-want.Y) > 1e-6 {
			t.Errorf("Tile-local %v maps to %v, want %v", local, got, want)
		}
	}
}

func TestLatLonToWorld(t *testing.T) {
	origin := LatLonToWorld(0, 0)
	if math.Abs(origin.X-0.5) > 1e-12 || math.Abs(origin.Y-0.5) > 1e-12 {
		t.Errorf("Equator/meridian intersection = %v, want {0.5 0.5}", origin)
	}

	east := LatLonToWorld(0, 90)
	if math.Abs(east.X-0.75) > 1e-12 {
		t.Errorf("Longitude 90E maps to x=%g, want 0.75", east.X)
	}

	north := LatLonToWorld(60, 0)
	if north.Y >= 0.5 {
		t.Errorf("Northern latitude must map above the equator, got y=%g", north.Y)
	}
}
