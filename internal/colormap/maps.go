package colormap

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/colorgrad"
	"gonum.org/v1/gonum/mat"

	"github.com/wlenthe/UniformBicone/internal/field"
)

// Symmetry selects an inversion symmetry for disk maps.
type Symmetry int

const (
	SymNone      Symmetry = iota
	SymAzimuthal          // double the angle
	SymPolar              // fold the radius about its midpoint
)

// ParseSymmetry accepts "", "none", "a" / "azimuthal" and "p" / "polar".
func ParseSymmetry(s string) (Symmetry, error) {
	switch s {
	case "", "none":
		return SymNone, nil
	case "a", "azimuthal":
		return SymAzimuthal, nil
	case "p", "polar":
		return SymPolar, nil
	default:
		return 0, fmt.Errorf("unknown symmetry %q", s)
	}
}

// Options configures a map or legend call.
type Options struct {
	Map         string   // palette name, empty for the default
	Fill        *float64 // value for NaN and out of range samples, nil for 0
	Scale       bool     // rescale input to [0,1] before coloring
	Alpha       bool     // add an alpha channel
	WhiteCenter bool     // disk maps: white instead of black center
	Symmetry    Symmetry // disk maps only

	// Warn receives a message when samples were filled with the default fill
	// value. Nil discards warnings.
	Warn func(msg string)
}

// FillWith returns a pointer suitable for Options.Fill.
func FillWith(v float64) *float64 {
	return &v
}

func (o Options) fill() (v float64, explicit bool, err error) {
	if o.Fill == nil {
		return 0, false, nil
	}
	v = *o.Fill
	if math.IsNaN(v) || v < 0 || v > 1 {
		return 0, true, fmt.Errorf("%w: got %v", ErrFillRange, v)
	}
	return v, true, nil
}

func (o Options) warnFilled(nans, outside int, explicit bool) {
	if o.Warn == nil || explicit {
		return
	}
	if nans > 0 {
		o.Warn(fmt.Sprintf("%d NaN values were colored with the default fill value", nans))
	}
	if outside > 0 {
		o.Warn(fmt.Sprintf("%d values outside of [0,1] colored with the default fill value", outside))
	}
}

// normalizer maps raw samples into [0,1] when scaling is requested. NaNs
// pass through.
func normalizer(m mat.Matrix, scale bool) func(float64) float64 {
	if !scale {
		return func(v float64) float64 { return v }
	}
	lo, hi := field.Range(m)
	s := 1.0
	if hi > lo {
		s = 1 / (hi - lo)
	}
	return func(v float64) float64 {
		return math.Min(math.Max((v-lo)*s, 0), 1)
	}
}

// Ramp colors a scalar field with a linear palette.
func Ramp(values mat.Matrix, opts Options) (*Image, error) {
	g, err := gradient(KindRamp, opts.Map)
	if err != nil {
		return nil, err
	}
	return mapScalars(values, g, opts)
}

// Cyclic colors a scalar field with a periodic palette, so the lowest and
// highest values share a color.
func Cyclic(values mat.Matrix, opts Options) (*Image, error) {
	g, err := gradient(KindCyclic, opts.Map)
	if err != nil {
		return nil, err
	}
	return mapScalars(values, g, opts)
}

func mapScalars(values mat.Matrix, g colorgrad.Gradient, opts Options) (*Image, error) {
	fill, explicit, err := opts.fill()
	if err != nil {
		return nil, err
	}
	rows, cols := values.Dims()
	img := newImage(rows, cols, opts.Alpha)
	norm := normalizer(values, opts.Scale)

	var nans, outside int
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			idx := i*cols + j
			t := norm(values.At(i, j))
			switch {
			case math.IsNaN(t):
				nans++
				img.fill(idx, fill)
			case t < 0 || t > 1:
				outside++
				img.fill(idx, fill)
			default:
				img.set(idx, g.At(t))
			}
		}
	}
	opts.warnFilled(nans, outside, explicit)
	return img, nil
}

// Disk colors (radius, angle) pairs. Radii run from 0 at the center to 1 at
// the rim; angles are fractions of a turn and wrap, so only radii can fall
// out of range. The angle picks a color from the cyclic palette of the same
// name and the radius blends from the center color toward it.
func Disk(radii, angles mat.Matrix, opts Options) (*Image, error) {
	rows, cols := radii.Dims()
	if ar, ac := angles.Dims(); ar != rows || ac != cols {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, rows, cols, ar, ac)
	}
	g, err := gradient(KindDisk, opts.Map)
	if err != nil {
		return nil, err
	}
	fill, explicit, err := opts.fill()
	if err != nil {
		return nil, err
	}

	img := newImage(rows, cols, opts.Alpha)
	normR := normalizer(radii, opts.Scale)
	normA := normalizer(angles, opts.Scale)
	center := colorful.Color{}
	if opts.WhiteCenter {
		center = colorful.Color{R: 1, G: 1, B: 1}
	}

	var nans, outside int
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			idx := i*cols + j
			r := normR(radii.At(i, j))
			a := normA(angles.At(i, j))
			switch {
			case math.IsNaN(r) || math.IsNaN(a):
				nans++
				img.fill(idx, fill)
			case r < 0 || r > 1:
				outside++
				img.fill(idx, fill)
			default:
				img.set(idx, diskColor(g, center, r, a, opts.Symmetry))
			}
		}
	}
	opts.warnFilled(nans, outside, explicit)
	return img, nil
}

func diskColor(g colorgrad.Gradient, center colorful.Color, r, a float64, sym Symmetry) colorful.Color {
	switch sym {
	case SymAzimuthal:
		a *= 2
	case SymPolar:
		r = 1 - math.Abs(1-2*r)
	}
	a -= math.Floor(a)
	return center.BlendLab(g.At(a), r)
}
