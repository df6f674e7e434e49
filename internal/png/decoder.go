package png

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Decoded holds raw samples read back from a PNG.
type Decoded struct {
	Width    int
	Height   int
	Channels int
	BitDepth int
	Pix      []byte // top row first, 16-bit samples big-endian
}

// maxDecodedBytes caps the filtered scanline buffer Decode allocates.
const maxDecodedBytes = 1 << 30

var ErrTooLarge = errors.New("png: image too large")

// Decode reads a non-interlaced 8 or 16 bit gray, gray+alpha, RGB or RGBA
// PNG into raw interleaved samples.
func Decode(r io.Reader) (*Decoded, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("png: reading: %w", err)
	}
	info, err := GetInfo(data)
	if err != nil {
		return nil, err
	}
	if info.Interlaced {
		return nil, fmt.Errorf("png: interlaced images are not supported")
	}
	if info.Channels == 0 || info.ColorType == ColorPalette {
		return nil, fmt.Errorf("png: unsupported color type %s", info.ColorSpace)
	}
	if info.BitDepth != 8 && info.BitDepth != 16 {
		return nil, fmt.Errorf("png: unsupported bit depth %d", info.BitDepth)
	}

	cfg := Config{Channels: info.Channels, BitDepth: info.BitDepth}
	bpp := cfg.BytesPerPixel()
	row := uint64(info.Width)*uint64(bpp) + 1
	if row > maxDecodedBytes || uint64(info.Height) > maxDecodedBytes/row {
		return nil, fmt.Errorf("%w: %dx%d %s", ErrTooLarge, info.Width, info.Height, info.ColorSpace)
	}
	stride := info.Width * bpp

	idat, err := collectIDAT(data[len(signature):])
	if err != nil {
		return nil, err
	}

	zr, err := zlib.NewReader(bytes.NewReader(idat))
	if err != nil {
		return nil, fmt.Errorf("png: image data: %w", err)
	}
	defer zr.Close()

	raw := make([]byte, info.Height*(stride+1))
	if _, err := io.ReadFull(zr, raw); err != nil {
		return nil, fmt.Errorf("png: image data: %w", err)
	}

	pix := make([]byte, info.Height*stride)
	prev := make([]byte, stride)
	for y := 0; y < info.Height; y++ {
		line := raw[y*(stride+1) : (y+1)*(stride+1)]
		cur := pix[y*stride : (y+1)*stride]
		copy(cur, line[1:])
		if err := unfilter(line[0], cur, prev, bpp); err != nil {
			return nil, fmt.Errorf("png: row %d: %w", y, err)
		}
		prev = cur
	}

	return &Decoded{
		Width:    info.Width,
		Height:   info.Height,
		Channels: info.Channels,
		BitDepth: info.BitDepth,
		Pix:      pix,
	}, nil
}

// collectIDAT walks the chunk list after the signature, verifying CRCs, and
// concatenates the IDAT payloads.
func collectIDAT(b []byte) ([]byte, error) {
	var idat []byte
	for {
		if len(b) < 12 {
			return nil, fmt.Errorf("png: truncated chunk stream")
		}
		n := int(binary.BigEndian.Uint32(b[0:4]))
		if n < 0 || len(b) < 12+n {
			return nil, fmt.Errorf("png: truncated %q chunk", b[4:8])
		}
		name := b[4:8]
		body := b[8 : 8+n]
		if err := checkCRC(name, body, b[8+n:12+n]); err != nil {
			return nil, err
		}
		switch string(name) {
		case "IDAT":
			idat = append(idat, body...)
		case "IEND":
			if idat == nil {
				return nil, fmt.Errorf("png: no IDAT chunk")
			}
			return idat, nil
		}
		b = b[12+n:]
	}
}

func checkCRC(name, body, sum []byte) error {
	crc := crc32.NewIEEE()
	crc.Write(name)
	crc.Write(body)
	if got, want := crc.Sum32(), binary.BigEndian.Uint32(sum); got != want {
		return fmt.Errorf("png: %q chunk checksum mismatch (0x%08x != 0x%08x)", name, got, want)
	}
	return nil
}

// unfilter reverses the row filter in place.
func unfilter(ft byte, cur, prev []byte, bpp int) error {
	switch ft {
	case ftNone:
	case ftSub:
		for i := bpp; i < len(cur); i++ {
			cur[i] += cur[i-bpp]
		}
	case ftUp:
		for i := range cur {
			cur[i] += prev[i]
		}
	case ftAverage:
		for i := range cur {
			var left int
			if i >= bpp {
				left = int(cur[i-bpp])
			}
			cur[i] += byte((left + int(prev[i])) / 2)
		}
	case ftPaeth:
		for i := range cur {
			var left, upLeft byte
			if i >= bpp {
				left = cur[i-bpp]
				upLeft = prev[i-bpp]
			}
			cur[i] += paeth(left, prev[i], upLeft)
		}
	default:
		return fmt.Errorf("bad filter type %d", ft)
	}
	return nil
}
