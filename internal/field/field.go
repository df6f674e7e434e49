// Package field generates synthetic test fields for exercising colormaps.
package field

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrSize is returned for grids smaller than 2x2.
var ErrSize = errors.New("field: size must be at least 2")

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrSize, n)
	}
	return floats.Span(make([]float64, n), lo, hi), nil
}

// Ripple returns an n x n scalar field sin(8*pi*x) * y over the unit square,
// with values in [-1, 1]. Row i corresponds to y = i/(n-1).
func Ripple(n int) (*mat.Dense, error) {
	x, err := Linspace(0, 1, n)
	if err != nil {
		return nil, err
	}
	s := make([]float64, n)
	for j, v := range x {
		s[j] = math.Sin(v * 8 * math.Pi)
	}
	// outer product y * sin(x)
	var m mat.Dense
	m.Outer(1, mat.NewVecDense(n, x), mat.NewVecDense(n, s))
	return &m, nil
}

// Polar returns the radius and fractional angle fields of an n x n grid
// spanning [-1, 1] on both axes. Angles are atan2(y, x) / 2pi, in [-0.5, 0.5].
func Polar(n int) (radius, angle *mat.Dense, err error) {
	v, err := Linspace(-1, 1, n)
	if err != nil {
		return nil, nil, err
	}
	radius = mat.NewDense(n, n, nil)
	angle = mat.NewDense(n, n, nil)
	for i, y := range v {
		for j, x := range v {
			radius.Set(i, j, math.Hypot(x, y))
			angle.Set(i, j, math.Atan2(y, x)/(2*math.Pi))
		}
	}
	return radius, angle, nil
}

// Range returns the minimum and maximum of m, ignoring NaNs. Both are NaN
// if every element is NaN.
func Range(m mat.Matrix) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return math.NaN(), math.NaN()
	}
	return lo, hi
}
