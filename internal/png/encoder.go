// Package png writes and reads 8 and 16 bit gray, gray+alpha, RGB and RGBA
// PNG files from raw interleaved samples.
package png

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"

	"github.com/klauspost/compress/zlib"
)

const signature = "\x89PNG\r\n\x1a\n"

// PNG color type codes.
const (
	ColorGray      = 0
	ColorRGB       = 2
	ColorPalette   = 3
	ColorGrayAlpha = 4
	ColorRGBA      = 6
)

// Row filter types.
const (
	ftNone = iota
	ftSub
	ftUp
	ftAverage
	ftPaeth
	nFilter
)

var errChunkTooLarge = errors.New("png: chunk exceeds 2^31-1 bytes")

// Config selects the layout of the samples passed to Encode.
type Config struct {
	Channels int // 1 gray, 2 gray+alpha, 3 RGB, 4 RGBA
	BitDepth int // 8 or 16
}

// ColorType returns the PNG color type for the channel count.
func (c Config) ColorType() (byte, error) {
	switch c.Channels {
	case 1:
		return ColorGray, nil
	case 2:
		return ColorGrayAlpha, nil
	case 3:
		return ColorRGB, nil
	case 4:
		return ColorRGBA, nil
	default:
		return 0, fmt.Errorf("png: unsupported channel count %d", c.Channels)
	}
}

// BytesPerPixel returns the filter unit: channels times bytes per sample.
func (c Config) BytesPerPixel() int {
	return c.Channels * c.BitDepth / 8
}

func (c Config) validate() error {
	if _, err := c.ColorType(); err != nil {
		return err
	}
	if c.BitDepth != 8 && c.BitDepth != 16 {
		return fmt.Errorf("png: unsupported bit depth %d", c.BitDepth)
	}
	return nil
}

// Encode writes a non-interlaced PNG. pix holds height rows of width pixels,
// top row first, with cfg.Channels interleaved samples per pixel. 16-bit
// samples are big-endian.
func Encode(w io.Writer, pix []byte, width, height int, cfg Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("png: invalid dimensions %dx%d", width, height)
	}
	if width > math.MaxInt32 || height > math.MaxInt32 {
		return fmt.Errorf("png: dimensions %dx%d too large", width, height)
	}
	stride := width * cfg.BytesPerPixel()
	if len(pix) != stride*height {
		return fmt.Errorf("png: expected %d sample bytes for %dx%d, got %d", stride*height, width, height, len(pix))
	}

	ct, _ := cfg.ColorType()
	e := &encoder{w: bufio.NewWriter(w)}
	if _, err := io.WriteString(e.w, signature); err != nil {
		return err
	}

	var ihdr [13]byte
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(width))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(height))
	ihdr[8] = byte(cfg.BitDepth)
	ihdr[9] = ct
	// compression, filter method and interlace are all 0
	e.writeChunk("IHDR", ihdr[:])

	idat, err := compressRows(pix, stride, height, cfg.BytesPerPixel())
	if err != nil {
		return fmt.Errorf("png: compressing image data: %w", err)
	}
	e.writeChunk("IDAT", idat)
	e.writeChunk("IEND", nil)
	if e.err != nil {
		return e.err
	}
	return e.w.Flush()
}

type encoder struct {
	w   *bufio.Writer
	err error
}

func (e *encoder) writeChunk(name string, data []byte) {
	if e.err != nil {
		return
	}
	if len(data) > math.MaxInt32 {
		e.err = errChunkTooLarge
		return
	}
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(len(data)))
	copy(hdr[4:8], name)

	crc := crc32.NewIEEE()
	crc.Write(hdr[4:8])
	crc.Write(data)
	var tail [4]byte
	binary.BigEndian.PutUint32(tail[:], crc.Sum32())

	if _, e.err = e.w.Write(hdr[:]); e.err != nil {
		return
	}
	if _, e.err = e.w.Write(data); e.err != nil {
		return
	}
	_, e.err = e.w.Write(tail[:])
}

// compressRows filters every row and deflates the result into a zlib stream.
func compressRows(pix []byte, stride, height, bpp int) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.DefaultCompression)
	if err != nil {
		return nil, err
	}

	prev := make([]byte, stride)
	var cand [nFilter][]byte
	for i := range cand {
		cand[i] = make([]byte, stride+1)
	}
	for y := 0; y < height; y++ {
		cur := pix[y*stride : (y+1)*stride]
		best := filterRow(&cand, cur, prev, bpp)
		if _, err := zw.Write(cand[best]); err != nil {
			return nil, err
		}
		prev = cur
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// filterRow fills every candidate with a filtered copy of cur (filter type
// byte first) and returns the one with the smallest sum of absolute signed
// differences.
func filterRow(cand *[nFilter][]byte, cur, prev []byte, bpp int) int {
	for f := range cand {
		cand[f][0] = byte(f)
	}
	copy(cand[ftNone][1:], cur)
	for i := range cur {
		var left, upLeft byte
		if i >= bpp {
			left = cur[i-bpp]
			upLeft = prev[i-bpp]
		}
		up := prev[i]
		cand[ftSub][i+1] = cur[i] - left
		cand[ftUp][i+1] = cur[i] - up
		cand[ftAverage][i+1] = cur[i] - byte((int(left)+int(up))/2)
		cand[ftPaeth][i+1] = cur[i] - paeth(left, up, upLeft)
	}

	best, bestSum := ftNone, math.MaxInt
	for f := range cand {
		sum := 0
		for _, b := range cand[f][1:] {
			sum += absInt(int(int8(b)))
			if sum >= bestSum {
				break
			}
		}
		if sum < bestSum {
			best, bestSum = f, sum
		}
	}
	return best
}

// paeth implements the Paeth predictor.
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := absInt(p - int(a))
	pb := absInt(p - int(b))
	pc := absInt(p - int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
