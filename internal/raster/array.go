// Package raster converts integer sample grids into PNG files.
//
// Arrays are stored in Cartesian order: row 0 is the bottom of the picture.
// Save flips rows on the way out so the written image has row 0 at the top,
// and Load flips them back.
package raster

import (
	"fmt"
	"reflect"
)

// Element is the set of sample types an Array can hold. Only 8 and 16 bit
// integer kinds can be saved; the rest exist so callers can hand any numeric
// grid to Save and get a precise error back.
type Element interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 |
		~int | ~uint | ~float32 | ~float64
}

// Array is a dense row-major grid of samples.
type Array[T Element] struct {
	Shape []int
	Data  []T
}

// New wraps data in an Array of the given shape. len(data) must equal the
// product of the dimensions. An empty shape describes a rank-0 scalar.
func New[T Element](data []T, shape ...int) (*Array[T], error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return nil, fmt.Errorf("negative dimension in shape %v", shape)
		}
		n *= d
	}
	if len(data) != n {
		return nil, fmt.Errorf("shape %v needs %d samples, got %d", shape, n, len(data))
	}
	return &Array[T]{Shape: append([]int(nil), shape...), Data: data}, nil
}

// Zeros allocates a zero-filled Array.
func Zeros[T Element](shape ...int) *Array[T] {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return &Array[T]{Shape: append([]int(nil), shape...), Data: make([]T, n)}
}

// FromRows builds a rank-2 array from equal-length rows.
func FromRows[T Element](rows [][]T) (*Array[T], error) {
	h := len(rows)
	w := 0
	if h > 0 {
		w = len(rows[0])
	}
	data := make([]T, 0, h*w)
	for i, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("ragged rows: row %d has %d samples, row 0 has %d", i, len(row), w)
		}
		data = append(data, row...)
	}
	return &Array[T]{Shape: []int{h, w}, Data: data}, nil
}

// FromPixels builds a rank-3 array from rows of pixels, each pixel holding
// the same number of samples.
func FromPixels[T Element](rows [][][]T) (*Array[T], error) {
	h := len(rows)
	w, k := 0, 0
	if h > 0 {
		w = len(rows[0])
		if w > 0 {
			k = len(rows[0][0])
		}
	}
	data := make([]T, 0, h*w*k)
	for i, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("ragged rows: row %d has %d pixels, row 0 has %d", i, len(row), w)
		}
		for j, px := range row {
			if len(px) != k {
				return nil, fmt.Errorf("ragged pixels: pixel (%d,%d) has %d samples, want %d", i, j, len(px), k)
			}
			data = append(data, px...)
		}
	}
	return &Array[T]{Shape: []int{h, w, k}, Data: data}, nil
}

// FromNested accepts a []T, [][]T or [][][]T and returns the matching
// rank 1, 2 or 3 array.
func FromNested[T Element](v any) (*Array[T], error) {
	switch v := v.(type) {
	case []T:
		return &Array[T]{Shape: []int{len(v)}, Data: append([]T(nil), v...)}, nil
	case [][]T:
		return FromRows(v)
	case [][][]T:
		return FromPixels(v)
	case *Array[T]:
		return v, nil
	default:
		var zero T
		return nil, fmt.Errorf("cannot build %T array from %T", zero, v)
	}
}

// Rank returns the number of dimensions.
func (a *Array[T]) Rank() int {
	return len(a.Shape)
}

// Len returns the number of samples.
func (a *Array[T]) Len() int {
	return len(a.Data)
}

// Empty reports whether any dimension has zero length.
func (a *Array[T]) Empty() bool {
	for _, d := range a.Shape {
		if d == 0 {
			return true
		}
	}
	return false
}

// Row returns the samples of row y of a rank 2 or 3 array. The slice aliases
// the array's storage.
func (a *Array[T]) Row(y int) []T {
	stride := a.rowStride()
	return a.Data[y*stride : (y+1)*stride]
}

// At returns the sample at the given index.
func (a *Array[T]) At(idx ...int) T {
	return a.Data[a.offset(idx)]
}

// Set stores v at the given index.
func (a *Array[T]) Set(v T, idx ...int) {
	a.Data[a.offset(idx)] = v
}

func (a *Array[T]) offset(idx []int) int {
	if len(idx) != len(a.Shape) {
		panic(fmt.Sprintf("raster: index %v has rank %d, array has rank %d", idx, len(idx), len(a.Shape)))
	}
	off := 0
	for i, d := range a.Shape {
		if idx[i] < 0 || idx[i] >= d {
			panic(fmt.Sprintf("raster: index %v out of range for shape %v", idx, a.Shape))
		}
		off = off*d + idx[i]
	}
	return off
}

func (a *Array[T]) rowStride() int {
	stride := 1
	for _, d := range a.Shape[1:] {
		stride *= d
	}
	return stride
}

// elementInfo reports whether T is an integer kind and its size in bytes.
func elementInfo[T Element]() (integer bool, width int, name string) {
	t := reflect.TypeFor[T]()
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		return false, int(t.Size()), t.String()
	default:
		return true, int(t.Size()), t.String()
	}
}
