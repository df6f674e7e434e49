package raster

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/wlenthe/UniformBicone/internal/png"
)

// geometry returns width, height and samples per pixel for a validated array.
func geometry(shape []int) (width, height, channels int) {
	switch len(shape) {
	case 1:
		return shape[0], 1, 1
	case 2:
		return shape[1], shape[0], 1
	default:
		return shape[1], shape[0], shape[2]
	}
}

// Pixels validates a and returns its samples as PNG scanline bytes, top row
// first, together with the image width, height and format. Rank 2 and 3
// arrays have their rows reversed; a rank 1 array is a single row.
func Pixels[T Element](a *Array[T]) (pix []byte, width, height int, f Format, err error) {
	f, err = Inspect(a)
	if err != nil {
		return nil, 0, 0, 0, err
	}
	width, height, channels := geometry(a.Shape)
	stride := width * channels
	pix = make([]byte, len(a.Data)*f.BytesPerSample())
	for y := 0; y < height; y++ {
		src := a.Data[(height-1-y)*stride : (height-y)*stride]
		if f.BitDepth() == 8 {
			dst := pix[y*stride : (y+1)*stride]
			for i, v := range src {
				dst[i] = uint8(v)
			}
			continue
		}
		dst := pix[2*y*stride : 2*(y+1)*stride]
		for i, v := range src {
			s := uint16(v)
			dst[2*i] = byte(s >> 8)
			dst[2*i+1] = byte(s)
		}
	}
	return pix, width, height, f, nil
}

// Encode writes a as a PNG stream to w.
func Encode[T Element](w io.Writer, a *Array[T]) (Format, error) {
	pix, width, height, f, err := Pixels(a)
	if err != nil {
		return 0, err
	}
	cfg := png.Config{Channels: f.Channels(), BitDepth: f.BitDepth()}
	if err := png.Encode(w, pix, width, height, cfg); err != nil {
		return 0, err
	}
	return f, nil
}

// Save writes a to path as a PNG, replacing any existing file. The array is
// validated before the file is created, so a rejected array leaves the
// filesystem untouched.
func Save[T Element](a *Array[T], path string) error {
	_, err := SaveFormat(a, path)
	return err
}

// SaveFormat is Save, also returning the pixel format that was written.
func SaveFormat[T Element](a *Array[T], path string) (Format, error) {
	if _, err := Inspect(a); err != nil {
		return 0, err
	}

	out, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", path, err)
	}
	bw := bufio.NewWriter(out)
	f, err := Encode(bw, a)
	if err != nil {
		out.Close()
		return 0, fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		out.Close()
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return f, nil
}

// Load reads a PNG and returns its samples in Cartesian row order. Single
// channel images come back as rank 2 arrays, all others as rank 3.
func Load(path string) (*Array[uint16], Format, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer in.Close()
	return Decode(bufio.NewReader(in))
}

// Decode is Load for an already open stream.
func Decode(r io.Reader) (*Array[uint16], Format, error) {
	d, err := png.Decode(r)
	if err != nil {
		return nil, 0, err
	}
	f, err := FormatFor(d.Channels, d.BitDepth)
	if err != nil {
		return nil, 0, err
	}

	shape := []int{d.Height, d.Width, d.Channels}
	if d.Channels == 1 {
		shape = shape[:2]
	}
	a := Zeros[uint16](shape...)
	stride := d.Width * d.Channels
	for y := 0; y < d.Height; y++ {
		dst := a.Data[(d.Height-1-y)*stride : (d.Height-y)*stride]
		if d.BitDepth == 8 {
			for i, b := range d.Pix[y*stride : (y+1)*stride] {
				dst[i] = uint16(b)
			}
			continue
		}
		src := d.Pix[2*y*stride : 2*(y+1)*stride]
		for i := range dst {
			dst[i] = uint16(src[2*i])<<8 | uint16(src[2*i+1])
		}
	}
	return a, f, nil
}
