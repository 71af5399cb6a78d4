// internal/geometry/normalize.go - Raw feature geometry normalization
package geometry

import (
	"github.com/paulmach/orb"
)

// Normalizer converts raw tile feature geometry, expressed on the tile's
// integer extent grid, into unit-square paths and areas. A single
// Normalizer accumulates the geometry of one style bucket.
type Normalizer struct {
	Paths []Path
	Areas []Area

	repairs int
}

// NewNormalizer creates an empty normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Add converts one raw geometry and appends the result. Every coordinate
// is divided by extent so the output lies in [0,1]x[0,1] regardless of the
// source resolution. Points carry no drawable path and are dropped;
// geometry collections recurse.
func (n *Normalizer) Add(geom orb.Geometry, extent float64) {
	switch g := geom.(type) {
	case orb.LineString:
		n.Paths = append(n.Paths, normalizeLine(g, extent))
	case orb.MultiLineString:
		for _, line := range g {
			n.Paths = append(n.Paths, normalizeLine(line, extent))
		}
	case orb.Polygon:
		n.addPolygon(g, extent)
	case orb.MultiPolygon:
		for _, polygon := range g {
			n.addPolygon(polygon, extent)
		}
	case orb.Bound:
		n.addPolygon(g.ToPolygon(), extent)
	case orb.Collection:
		for _, member := range g {
			n.Add(member, extent)
		}
	case orb.Point, orb.MultiPoint:
		// not drawable in this pipeline
	}
}

// Finish enforces the winding invariant once on every accumulated area and
// returns the number of rings repaired.
func (n *Normalizer) Finish() int {
	for i := range n.Areas {
		if n.Areas[i].EnforceWinding() {
			n.repairs++
		}
	}
	return n.repairs
}

// Empty reports whether nothing drawable was accumulated
func (n *Normalizer) Empty() bool {
	return len(n.Paths) == 0 && len(n.Areas) == 0
}

func (n *Normalizer) addPolygon(polygon orb.Polygon, extent float64) {
	if len(polygon) == 0 {
		return
	}
	area := Area{Outer: normalizeRing(polygon[0], extent)}
	for _, hole := range polygon[1:] {
		area.Inner = append(area.Inner, normalizeRing(hole, extent))
	}
	n.Areas = append(n.Areas, area)
}

func normalizeLine(line orb.LineString, extent float64) Path {
	path := make(Path, len(line))
	for i, pt := range line {
		path[i] = Vec{X: pt[0] / extent, Y: pt[1] / extent}
	}
	return path
}

func normalizeRing(ring orb.Ring, extent float64) Path {
	path := make(Path, len(ring))
	for i, pt := range ring {
		path[i] = Vec{X: pt[0] / extent, Y: pt[1] / extent}
	}
	return path
}
