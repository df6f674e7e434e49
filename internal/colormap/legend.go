package colormap

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Default legend dimensions in pixels.
const (
	DefaultLegendWidth  = 512
	DefaultLegendHeight = 128
)

// A sine of rippleAmplitude and rippleWavelength pixels is superimposed on
// ramp legends, growing from nothing at the bottom to full strength at the
// top; cyclic legends ripple by cyclicRippleAmp turns, cyclicRippleCycles
// times around, growing outward. Flat spots and bands in a palette show up
// as uneven ripple contrast.
const (
	rippleAmplitude    = 0.05
	rippleWavelength   = 8.0
	cyclicRippleAmp    = 0.01
	cyclicRippleCycles = 64.0
	annulusInner       = 0.5
)

func checkSize(width, height int) error {
	if width < 2 || height < 2 {
		return fmt.Errorf("legend must be at least 2x2 pixels, got %dx%d", width, height)
	}
	return nil
}

// RampLegend renders a width x height strip of a ramp palette running from 0
// on the left to 1 on the right. With ripple set, the test ripple is added.
func RampLegend(width, height int, ripple bool, opts Options) (*Image, error) {
	if err := checkSize(width, height); err != nil {
		return nil, err
	}
	m := mat.NewDense(height, width, nil)
	for i := 0; i < height; i++ {
		amp := 0.0
		if ripple {
			amp = rippleAmplitude * float64(i) / float64(height-1)
		}
		for j := 0; j < width; j++ {
			t := float64(j) / float64(width-1)
			t += amp * math.Sin(2*math.Pi*float64(j)/rippleWavelength)
			m.Set(i, j, math.Min(math.Max(t, 0), 1))
		}
	}
	opts.Scale = false
	return Ramp(m, opts)
}

// CyclicLegend renders a width x width annulus of a cyclic palette with angle
// increasing counter-clockwise from +x. Pixels off the annulus get the fill
// value, so with Alpha set the background is transparent.
func CyclicLegend(width int, ripple bool, opts Options) (*Image, error) {
	if err := checkSize(width, width); err != nil {
		return nil, err
	}
	m := mat.NewDense(width, width, nil)
	polarGrid(width, func(i, j int, r, a float64) {
		if r < annulusInner || r > 1 {
			m.Set(i, j, math.NaN())
			return
		}
		if ripple {
			depth := (r - annulusInner) / (1 - annulusInner)
			a += cyclicRippleAmp * depth * math.Sin(2*math.Pi*cyclicRippleCycles*a)
			a -= math.Floor(a)
		}
		m.Set(i, j, a)
	})
	opts.Scale = false
	opts.Warn = nil
	return Cyclic(m, opts)
}

// DiskLegend renders a width x width disk map legend. Pixels outside the
// unit circle get the fill value.
func DiskLegend(width int, opts Options) (*Image, error) {
	if err := checkSize(width, width); err != nil {
		return nil, err
	}
	radii := mat.NewDense(width, width, nil)
	angles := mat.NewDense(width, width, nil)
	polarGrid(width, func(i, j int, r, a float64) {
		if r > 1 {
			r = math.NaN()
		}
		radii.Set(i, j, r)
		angles.Set(i, j, a)
	})
	opts.Scale = false
	opts.Warn = nil
	return Disk(radii, angles, opts)
}

// polarGrid visits every pixel of a width x width grid spanning [-1, 1] with
// its radius and angle in [0, 1) turns.
func polarGrid(width int, visit func(i, j int, r, a float64)) {
	step := 2 / float64(width-1)
	for i := 0; i < width; i++ {
		y := -1 + float64(i)*step
		for j := 0; j < width; j++ {
			x := -1 + float64(j)*step
			a := math.Atan2(y, x) / (2 * math.Pi)
			visit(i, j, math.Hypot(x, y), a-math.Floor(a))
		}
	}
}
