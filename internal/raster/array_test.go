package raster

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewChecksLength(t *testing.T) {
	if _, err := New(make([]uint8, 5), 2, 3); err == nil {
		t.Error("expected an error for 5 samples in a 2x3 shape")
	}
	if _, err := New(make([]uint8, 0), -1, 0); err == nil {
		t.Error("expected an error for a negative dimension")
	}
	a, err := New(make([]uint16, 24), 2, 3, 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.Rank() != 3 || a.Len() != 24 {
		t.Errorf("got rank %d len %d, want 3 and 24", a.Rank(), a.Len())
	}
}

func TestNewCopiesShape(t *testing.T) {
	shape := []int{2, 2}
	a, _ := New(make([]uint8, 4), shape...)
	shape[0] = 9
	if a.Shape[0] != 2 {
		t.Errorf("shape aliased caller slice: %v", a.Shape)
	}
}

func TestFromRowsRagged(t *testing.T) {
	if _, err := FromRows([][]uint8{{1, 2}, {3}}); err == nil {
		t.Error("expected an error for ragged rows")
	}
	if _, err := FromPixels([][][]uint8{{{1, 2, 3}, {4, 5}}}); err == nil {
		t.Error("expected an error for ragged pixels")
	}
}

func TestFromNested(t *testing.T) {
	tests := []struct {
		in    any
		shape []int
		data  []uint8
	}{
		{[]uint8{1, 2, 3}, []int{3}, []uint8{1, 2, 3}},
		{[][]uint8{{1, 2}, {3, 4}, {5, 6}}, []int{3, 2}, []uint8{1, 2, 3, 4, 5, 6}},
		{[][][]uint8{{{1, 2}, {3, 4}}}, []int{1, 2, 2}, []uint8{1, 2, 3, 4}},
	}
	for _, tc := range tests {
		a, err := FromNested[uint8](tc.in)
		if err != nil {
			t.Fatalf("FromNested(%v): %v", tc.in, err)
		}
		if diff := cmp.Diff(tc.shape, a.Shape); diff != "" {
			t.Errorf("shape (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(tc.data, a.Data); diff != "" {
			t.Errorf("data (-want +got):\n%s", diff)
		}
	}

	if _, err := FromNested[uint8]([]int{1, 2}); err == nil {
		t.Error("expected an error for a mismatched element type")
	}
	if _, err := FromNested[uint8]("not an array"); err == nil {
		t.Error("expected an error for a string")
	}
}

func TestAtSetRow(t *testing.T) {
	a := Zeros[uint8](2, 3, 2)
	a.Set(9, 1, 2, 1)
	if got := a.At(1, 2, 1); got != 9 {
		t.Errorf("At: got %d, want 9", got)
	}
	if got := a.Data[len(a.Data)-1]; got != 9 {
		t.Errorf("row-major layout: last sample is %d, want 9", got)
	}
	if diff := cmp.Diff([]uint8{0, 0, 0, 0, 0, 9}, a.Row(1)); diff != "" {
		t.Errorf("Row(1) (-want +got):\n%s", diff)
	}
}
