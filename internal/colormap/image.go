package colormap

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/wlenthe/UniformBicone/internal/raster"
)

// Image is the output of a map or legend: Height rows of Width pixels with
// Channels samples each (3 for RGB, 4 with alpha), all in [0, 1]. Row order
// matches the input field, so row 0 is the bottom of the picture.
type Image struct {
	Width    int
	Height   int
	Channels int
	Values   []float64
}

func newImage(height, width int, alpha bool) *Image {
	ch := 3
	if alpha {
		ch = 4
	}
	return &Image{
		Width:    width,
		Height:   height,
		Channels: ch,
		Values:   make([]float64, width*height*ch),
	}
}

// set stores an opaque color at pixel index i.
func (m *Image) set(i int, c colorful.Color) {
	c = c.Clamped()
	px := m.Values[i*m.Channels : (i+1)*m.Channels]
	px[0], px[1], px[2] = c.R, c.G, c.B
	if m.Channels == 4 {
		px[3] = 1
	}
}

// fill stores v in every channel of pixel i, alpha included.
func (m *Image) fill(i int, v float64) {
	px := m.Values[i*m.Channels : (i+1)*m.Channels]
	for k := range px {
		px[k] = v
	}
}

// Pixel returns the samples of the pixel in row y, column x.
func (m *Image) Pixel(x, y int) []float64 {
	i := y*m.Width + x
	return m.Values[i*m.Channels : (i+1)*m.Channels]
}

func (m *Image) shape() []int {
	return []int{m.Height, m.Width, m.Channels}
}

// Float returns the samples as a float array of shape [Height, Width,
// Channels]. The array shares storage with m. Float arrays cannot be saved
// directly; convert with Uint8 or Uint16 first.
func (m *Image) Float() *raster.Array[float64] {
	return &raster.Array[float64]{Shape: m.shape(), Data: m.Values}
}

// Uint8 quantizes the samples to 0..255.
func (m *Image) Uint8() *raster.Array[uint8] {
	a := raster.Zeros[uint8](m.shape()...)
	for i, v := range m.Values {
		a.Data[i] = uint8(math.Round(v * math.MaxUint8))
	}
	return a
}

// Uint16 quantizes the samples to 0..65535.
func (m *Image) Uint16() *raster.Array[uint16] {
	a := raster.Zeros[uint16](m.shape()...)
	for i, v := range m.Values {
		a.Data[i] = uint16(math.Round(v * math.MaxUint16))
	}
	return a
}
