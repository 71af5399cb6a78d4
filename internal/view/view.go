// internal/view/view.go - Continuous map views and coordinate transforms
package view

import (
	"math"

	"tileblend/internal/geometry"
)

// View is a continuous camera position over the world: a center in world
// coordinates (the unit square covering the whole map) and a fractional
// zoom level.
type View struct {
	Center geometry.Vec
	Zoom   float64
}

// LatLonToWorld projects latitude and longitude in degrees onto world
// coordinates in the unit square (Web Mercator).
func LatLonToWorld(lat, lon float64) geometry.Vec {
	x := 0.5 + lon/360
	y := (math.Pi - math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))) / (2 * math.Pi)
	return geometry.Vec{X: x, Y: y}
}
