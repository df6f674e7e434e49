package raster

import (
	"bytes"
	"errors"
	"image"
	stdpng "image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wlenthe/UniformBicone/internal/png"
)

func readInfo(t *testing.T, path string) *png.ImageInfo {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	info, err := png.GetInfo(data)
	if err != nil {
		t.Fatalf("GetInfo: %v", err)
	}
	return info
}

func decodeStd(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer f.Close()
	img, err := stdpng.Decode(f)
	if err != nil {
		t.Fatalf("image/png decode: %v", err)
	}
	return img
}

func TestSaveGray2x2FlipsRows(t *testing.T) {
	a, err := FromRows([][]uint8{{0, 255}, {128, 64}})
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	path := filepath.Join(t.TempDir(), "gray.png")
	if err := Save(a, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info := readInfo(t, path)
	if info.ColorType != png.ColorGray || info.BitDepth != 8 {
		t.Errorf("got color type %s depth %d, want Grayscale depth 8", info.ColorSpace, info.BitDepth)
	}
	if info.Width != 2 || info.Height != 2 {
		t.Errorf("got %dx%d, want 2x2", info.Width, info.Height)
	}

	img, ok := decodeStd(t, path).(*image.Gray)
	if !ok {
		t.Fatalf("decoded image is not *image.Gray")
	}
	want := [][]uint8{{128, 64}, {0, 255}}
	for y, row := range want {
		for x, v := range row {
			if got := img.GrayAt(x, y).Y; got != v {
				t.Errorf("pixel (%d,%d): got %d, want %d", x, y, got, v)
			}
		}
	}

	// the caller's array is untouched
	if diff := cmp.Diff([]uint8{0, 255, 128, 64}, a.Data); diff != "" {
		t.Errorf("input mutated (-want +got):\n%s", diff)
	}
}

func TestSaveRGBASinglePixel(t *testing.T) {
	a, err := FromPixels([][][]uint8{{{10, 20, 30, 40}}})
	if err != nil {
		t.Fatalf("FromPixels: %v", err)
	}
	path := filepath.Join(t.TempDir(), "rgba.png")
	if err := Save(a, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info := readInfo(t, path)
	if info.ColorType != png.ColorRGBA || info.Width != 1 || info.Height != 1 {
		t.Fatalf("got %s %dx%d, want RGBA 1x1", info.ColorSpace, info.Width, info.Height)
	}
	img, ok := decodeStd(t, path).(*image.NRGBA)
	if !ok {
		t.Fatalf("decoded image is not *image.NRGBA")
	}
	if diff := cmp.Diff([]uint8{10, 20, 30, 40}, img.Pix[:4]); diff != "" {
		t.Errorf("pixel mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveRank1IsSingleRow(t *testing.T) {
	a, err := FromNested[uint8]([]uint8{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("FromNested: %v", err)
	}
	path := filepath.Join(t.TempDir(), "line.png")
	if err := Save(a, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	img := decodeStd(t, path).(*image.Gray)
	if b := img.Bounds(); b.Dx() != 5 || b.Dy() != 1 {
		t.Fatalf("got %dx%d, want 5x1", b.Dx(), b.Dy())
	}
	if diff := cmp.Diff([]uint8{1, 2, 3, 4, 5}, img.Pix); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveChannelsAndDepth(t *testing.T) {
	wantColor := map[int]byte{1: png.ColorGray, 2: png.ColorGrayAlpha, 3: png.ColorRGB, 4: png.ColorRGBA}
	dir := t.TempDir()
	for k := 1; k <= 4; k++ {
		for _, depth := range []int{8, 16} {
			path := filepath.Join(dir, "img.png")
			var err error
			if depth == 8 {
				err = Save(Zeros[uint8](3, 5, k), path)
			} else {
				err = Save(Zeros[uint16](3, 5, k), path)
			}
			if err != nil {
				t.Fatalf("k=%d depth=%d: Save: %v", k, depth, err)
			}
			info := readInfo(t, path)
			if info.Channels != k || info.ColorType != wantColor[k] {
				t.Errorf("k=%d depth=%d: got %d channels (%s), want %d", k, depth, info.Channels, info.ColorSpace, k)
			}
			if info.BitDepth != depth {
				t.Errorf("k=%d depth=%d: got bit depth %d", k, depth, info.BitDepth)
			}
			if info.Width != 5 || info.Height != 3 {
				t.Errorf("k=%d depth=%d: got %dx%d, want 5x3", k, depth, info.Width, info.Height)
			}
		}
	}
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for k := 1; k <= 4; k++ {
		a8 := Zeros[uint8](7, 9, k)
		a16 := Zeros[uint16](7, 9, k)
		for i := range a8.Data {
			a8.Data[i] = uint8(i * 37)
			a16.Data[i] = uint16(i * 4099)
		}

		path := filepath.Join(dir, "rt8.png")
		if err := Save(a8, path); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got, f, err := Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if f.Channels() != k || f.BitDepth() != 8 {
			t.Errorf("k=%d: loaded format %s", k, f)
		}
		want := make([]uint16, len(a8.Data))
		for i, v := range a8.Data {
			want[i] = uint16(v)
		}
		if diff := cmp.Diff(want, got.Data); diff != "" {
			t.Errorf("k=%d 8-bit round trip (-want +got):\n%s", k, diff)
		}

		path = filepath.Join(dir, "rt16.png")
		if err := Save(a16, path); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got, f, err = Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if f.Channels() != k || f.BitDepth() != 16 {
			t.Errorf("k=%d: loaded format %s", k, f)
		}
		if diff := cmp.Diff(a16.Data, got.Data); diff != "" {
			t.Errorf("k=%d 16-bit round trip (-want +got):\n%s", k, diff)
		}
	}
}

func TestRoundTripGray16AgainstStdlib(t *testing.T) {
	a, _ := FromRows([][]uint16{{0, 1, 65535}, {300, 40000, 7}})
	path := filepath.Join(t.TempDir(), "g16.png")
	if err := Save(a, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	img, ok := decodeStd(t, path).(*image.Gray16)
	if !ok {
		t.Fatalf("decoded image is not *image.Gray16")
	}
	// top row of the image is the last Cartesian row
	want := [][]uint16{{300, 40000, 7}, {0, 1, 65535}}
	for y, row := range want {
		for x, v := range row {
			if got := img.Gray16At(x, y).Y; got != v {
				t.Errorf("pixel (%d,%d): got %d, want %d", x, y, got, v)
			}
		}
	}
}

func TestSignedSamplesKeepBitPattern(t *testing.T) {
	a, _ := New([]int8{-1, 0, 127, -128}, 1, 4)
	got, _, err := decodeArray(t, a)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if diff := cmp.Diff([]uint16{255, 0, 127, 128}, got.Data); diff != "" {
		t.Errorf("samples (-want +got):\n%s", diff)
	}
}

func decodeArray[T Element](t *testing.T, a *Array[T]) (*Array[uint16], Format, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "a.png")
	if err := Save(a, path); err != nil {
		return nil, 0, err
	}
	return Load(path)
}

func TestEncodeStream(t *testing.T) {
	a, err := FromPixels([][][]uint16{{{1000, 65535}, {0, 1}}})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	f, err := Encode(&buf, a)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if f != GrayAlpha16 {
		t.Errorf("got %s, want GrayAlpha16", f)
	}
	got, gf, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if gf != f {
		t.Errorf("decoded %s, encoded %s", gf, f)
	}
	if diff := cmp.Diff(a, got); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}

	if _, err := Encode(&buf, &Array[uint8]{Shape: []int{3}, Data: []uint8{1}}); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("got %v, want ErrInvalidShape", err)
	}
}

func TestSaveRejects(t *testing.T) {
	dir := t.TempDir()
	scalar, _ := New([]uint8{7})
	tests := []struct {
		name string
		save func(path string) error
		want error
	}{
		{"float64", func(p string) error { return Save(Zeros[float64](2, 2), p) }, ErrNonIntegerData},
		{"float32 rank 5", func(p string) error { return Save(Zeros[float32](1, 1, 1, 1, 1), p) }, ErrNonIntegerData},
		{"rank 0", func(p string) error { return Save(scalar, p) }, ErrUnsupportedRank},
		{"rank 4", func(p string) error { return Save(Zeros[uint8](2, 2, 2, 2), p) }, ErrUnsupportedRank},
		{"five samples", func(p string) error { return Save(Zeros[uint8](2, 2, 5), p) }, ErrUnsupportedChannelCount},
		{"zero samples", func(p string) error { return Save(Zeros[uint8](2, 2, 0), p) }, ErrUnsupportedChannelCount},
		{"empty rows", func(p string) error { return Save(Zeros[uint16](0, 4), p) }, ErrUnsupportedChannelCount},
		{"int32", func(p string) error { return Save(Zeros[int32](2, 2), p) }, ErrUnsupportedBitDepth},
		{"uint64 rgb", func(p string) error { return Save(Zeros[uint64](2, 2, 3), p) }, ErrUnsupportedBitDepth},
		{"short data", func(p string) error { return Save(&Array[uint8]{Shape: []int{2, 2}, Data: []uint8{1, 2, 3}}, p) }, ErrInvalidShape},
		{"negative dim", func(p string) error { return Save(&Array[uint8]{Shape: []int{-2, -2}, Data: make([]uint8, 4)}, p) }, ErrInvalidShape},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name+".png")
			err := tc.save(path)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
			if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
				t.Errorf("rejected array left a file behind (stat: %v)", statErr)
			}
		})
	}
}

func TestSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	if err := os.WriteFile(path, make([]byte, 1<<16), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Save(Zeros[uint8](4, 4), path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, f, err := Load(path)
	if err != nil {
		t.Fatalf("Load after overwrite: %v", err)
	}
	if f != Gray8 || len(got.Data) != 16 {
		t.Errorf("got %s with %d samples, want Gray8 with 16", f, len(got.Data))
	}
}

func TestSaveMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.png")
	err := Save(Zeros[uint8](1, 1), path)
	if err == nil {
		t.Fatal("expected an error for a missing directory")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v, want wrapped os.ErrNotExist", err)
	}
}
