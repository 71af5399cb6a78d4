// internal/geometry/path.go - Normalized paths and areas with winding enforcement
package geometry

// Path is an ordered sequence of points in unit-square tile-local
// coordinates, open or implicitly closed. Immutable once built.
type Path []Vec

// SignedArea returns twice the shoelace signed area of the implicitly
// closed path. Under the y-down convention a counter-clockwise ring yields
// a positive value. Rings with fewer than 3 points have zero area.
func (p Path) SignedArea() float64 {
	n := len(p)
	if n < 3 {
		return 0
	}

	var sum float64
	for i := 0; i < n; i++ {
		a := p[i]
		b := p[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum
}

// Reverse flips the point order in place
func (p Path) Reverse() {
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
}

// Area is one outer ring plus zero or more hole rings. The winding
// invariant (outer positive, holes negative) is established once by
// EnforceWinding and holds for the rest of the area's life.
type Area struct {
	Outer Path
	Inner []Path
}

// EnforceWinding repairs ring orientation so the outer ring has positive
// signed area and every hole has negative signed area. It reports whether
// any ring had to be reversed, so callers can surface data-quality
// regressions. Re-running on a correct area changes nothing; degenerate
// rings have zero signed area and are left alone.
func (a *Area) EnforceWinding() bool {
	repaired := false
	if a.Outer.SignedArea() < 0 {
		a.Outer.Reverse()
		repaired = true
	}
	for _, hole := range a.Inner {
		if hole.SignedArea() > 0 {
			hole.Reverse()
			repaired = true
		}
	}
	return repaired
}
