package raster

import (
	"errors"
	"fmt"
)

var (
	ErrNonIntegerData          = errors.New("only integer data types are supported")
	ErrUnsupportedRank         = errors.New("only 1D, 2D, and 3D arrays are supported")
	ErrUnsupportedChannelCount = errors.New("only 1, 2, 3, or 4 samples per pixel are supported")
	ErrUnsupportedBitDepth     = errors.New("only 8 and 16 bit samples are supported")
	ErrInvalidShape            = errors.New("shape does not match the sample data")
)

// Format is the pixel layout and sample depth of an encoded raster.
type Format int

const (
	Gray8 Format = iota
	Gray16
	GrayAlpha8
	GrayAlpha16
	RGB8
	RGB16
	RGBA8
	RGBA16
)

var formatNames = [...]string{
	Gray8:       "Gray8",
	Gray16:      "Gray16",
	GrayAlpha8:  "GrayAlpha8",
	GrayAlpha16: "GrayAlpha16",
	RGB8:        "RGB8",
	RGB16:       "RGB16",
	RGBA8:       "RGBA8",
	RGBA16:      "RGBA16",
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f]
}

// Channels returns the number of samples per pixel.
func (f Format) Channels() int {
	return int(f)/2 + 1
}

// BitDepth returns the number of bits per sample.
func (f Format) BitDepth() int {
	if f%2 == 0 {
		return 8
	}
	return 16
}

// BytesPerSample returns 1 or 2.
func (f Format) BytesPerSample() int {
	return f.BitDepth() / 8
}

// FormatFor maps a channel count and bit depth to a Format.
func FormatFor(channels, bitDepth int) (Format, error) {
	if channels < 1 || channels > 4 {
		return 0, fmt.Errorf("%w: got %d", ErrUnsupportedChannelCount, channels)
	}
	f := Format((channels - 1) * 2)
	switch bitDepth {
	case 8:
	case 16:
		f++
	default:
		return 0, fmt.Errorf("%w: got %d-bit", ErrUnsupportedBitDepth, bitDepth)
	}
	return f, nil
}

// InferFormat derives the pixel format from an array's rank, the size of its
// trailing dimension and the byte width of its samples. Rank 1 and 2 arrays
// are grayscale; for rank 3 the trailing dimension is the number of samples
// per pixel and trailing is ignored otherwise.
func InferFormat(rank, trailing, byteWidth int) (Format, error) {
	channels := 1
	switch rank {
	case 1, 2:
	case 3:
		channels = trailing
		if channels < 1 || channels > 4 {
			return 0, fmt.Errorf("%w: trailing dimension is %d", ErrUnsupportedChannelCount, trailing)
		}
	default:
		return 0, fmt.Errorf("%w: got rank %d", ErrUnsupportedRank, rank)
	}
	switch byteWidth {
	case 1, 2:
	default:
		return 0, fmt.Errorf("%w: got %d-byte samples", ErrUnsupportedBitDepth, byteWidth)
	}
	return FormatFor(channels, byteWidth*8)
}

// Inspect validates a and returns the format it would be saved with.
func Inspect[T Element](a *Array[T]) (Format, error) {
	integer, width, name := elementInfo[T]()
	if !integer {
		return 0, fmt.Errorf("%w: got %s", ErrNonIntegerData, name)
	}
	rank := a.Rank()
	if rank < 1 || rank > 3 {
		return 0, fmt.Errorf("%w: got rank %d", ErrUnsupportedRank, rank)
	}
	n := 1
	for _, d := range a.Shape {
		if d < 0 {
			return 0, fmt.Errorf("%w: negative dimension in %v", ErrInvalidShape, a.Shape)
		}
		n *= d
	}
	if n != len(a.Data) {
		return 0, fmt.Errorf("%w: shape %v needs %d samples, got %d", ErrInvalidShape, a.Shape, n, len(a.Data))
	}
	if a.Empty() {
		return 0, fmt.Errorf("%w: shape %v has a zero-length dimension", ErrUnsupportedChannelCount, a.Shape)
	}
	return InferFormat(rank, a.Shape[rank-1], width)
}
