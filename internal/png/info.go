package png

import (
	"encoding/binary"
	"fmt"
)

// colorTypeName returns a string for a PNG color type.
func colorTypeName(ct byte) string {
	switch ct {
	case ColorGray:
		return "Grayscale"
	case ColorRGB:
		return "RGB"
	case ColorPalette:
		return "Palette"
	case ColorGrayAlpha:
		return "Grayscale+Alpha"
	case ColorRGBA:
		return "RGBA"
	default:
		return fmt.Sprintf("ColorType(%d)", ct)
	}
}

// channelsFor returns the samples per pixel of a color type, or 0 if unknown.
func channelsFor(ct byte) int {
	switch ct {
	case ColorGray, ColorPalette:
		return 1
	case ColorGrayAlpha:
		return 2
	case ColorRGB:
		return 3
	case ColorRGBA:
		return 4
	default:
		return 0
	}
}

// ImageInfo contains the header fields of a PNG file.
type ImageInfo struct {
	Width      int
	Height     int
	BitDepth   int
	ColorType  byte
	ColorSpace string
	Channels   int
	Interlaced bool
}

// GetInfo reads the PNG signature and IHDR chunk without decoding pixels.
func GetInfo(data []byte) (*ImageInfo, error) {
	if len(data) < len(signature) || string(data[:len(signature)]) != signature {
		return nil, fmt.Errorf("png: invalid signature")
	}
	rest := data[len(signature):]
	if len(rest) < 8+13+4 {
		return nil, fmt.Errorf("png: data too short for IHDR")
	}
	n := binary.BigEndian.Uint32(rest[0:4])
	if string(rest[4:8]) != "IHDR" || n != 13 {
		return nil, fmt.Errorf("png: first chunk is %q (%d bytes), want IHDR", rest[4:8], n)
	}
	if err := checkCRC(rest[4:8], rest[8:21], rest[21:25]); err != nil {
		return nil, err
	}
	return parseIHDR(rest[8:21])
}

func parseIHDR(b []byte) (*ImageInfo, error) {
	w := binary.BigEndian.Uint32(b[0:4])
	h := binary.BigEndian.Uint32(b[4:8])
	if w == 0 || h == 0 || w > 1<<31-1 || h > 1<<31-1 {
		return nil, fmt.Errorf("png: invalid dimensions %dx%d", w, h)
	}
	if b[10] != 0 || b[11] != 0 {
		return nil, fmt.Errorf("png: unknown compression (%d) or filter method (%d)", b[10], b[11])
	}
	if b[12] > 1 {
		return nil, fmt.Errorf("png: unknown interlace method %d", b[12])
	}
	return &ImageInfo{
		Width:      int(w),
		Height:     int(h),
		BitDepth:   int(b[8]),
		ColorType:  b[9],
		ColorSpace: colorTypeName(b[9]),
		Channels:   channelsFor(b[9]),
		Interlaced: b[12] == 1,
	}, nil
}
