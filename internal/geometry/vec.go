// internal/geometry/vec.go - Planar vector and affine transform math
package geometry

import "math"

// Vec is a point or displacement in 2D space
type Vec struct {
	X float64
	Y float64
}

// NewVec creates a vector from its components
func NewVec(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// Add returns the component-wise sum
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns the component-wise difference
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns the vector scaled by s
func (v Vec) Scale(s float64) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

// Norm returns the Euclidean length
func (v Vec) Norm() float64 {
	return math.Hypot(v.X, v.Y)
}

// Transform is a uniform scale followed by a translation. It maps between
// the nested coordinate spaces of the tile pyramid (screen, world, tile).
type Transform struct {
	Scale       float64
	Translation Vec
}

// NewTransform creates a transform from scale and translation
func NewTransform(scale float64, translation Vec) Transform {
	return Transform{Scale: scale, Translation: translation}
}

// Apply maps a point through the transform
func (t Transform) Apply(v Vec) Vec {
	return v.Scale(t.Scale).Add(t.Translation)
}

// Invert returns the inverse transform
func (t Transform) Invert() Transform {
	return Transform{
		Scale:       1 / t.Scale,
		Translation: t.Translation.Scale(-1 / t.Scale),
	}
}

// Compose returns the transform equivalent to applying o first, then t
func (t Transform) Compose(o Transform) Transform {
	return Transform{
		Scale:       t.Scale * o.Scale,
		Translation: o.Translation.Scale(t.Scale).Add(t.Translation),
	}
}
