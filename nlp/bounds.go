// Package nlp holds the variable, constraint and cost machinery that a
// nonlinear-program solver consumes: named variable blocks assembled into one
// flat decision vector, a sparse Jacobian type, and a composite of
// constraint/cost sets with a stable row and column layout.
package nlp

import "math"

// Bounds is an inclusive interval on a single optimization scalar or
// constraint row. Equality rows set Lower == Upper.
type Bounds struct {
	Lower float64
	Upper float64
}

var (
	// BoundsNone leaves a scalar unconstrained.
	BoundsNone = Bounds{math.Inf(-1), math.Inf(1)}
	// BoundsZero pins a scalar to zero.
	BoundsZero = Bounds{0, 0}
	// BoundsGreaterZero admits only non-negative values.
	BoundsGreaterZero = Bounds{0, math.Inf(1)}
	// BoundsSmallerZero admits only non-positive values.
	BoundsSmallerZero = Bounds{math.Inf(-1), 0}
)

// BoundsEqual pins a scalar to the given value.
func BoundsEqual(v float64) Bounds {
	return Bounds{v, v}
}

// BoundsRange bounds a scalar to [lower, upper].
func BoundsRange(lower, upper float64) Bounds {
	return Bounds{lower, upper}
}

// IsEquality reports whether the interval has collapsed to a single value.
func (b Bounds) IsEquality() bool {
	return b.Lower == b.Upper
}

// Contains reports whether v satisfies the bounds to within tol.
func (b Bounds) Contains(v, tol float64) bool {
	return v >= b.Lower-tol && v <= b.Upper+tol
}
