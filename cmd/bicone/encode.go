package main

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wlenthe/UniformBicone/internal/raster"
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode raw interleaved samples to PNG",
	Long: `Encode raw interleaved samples to PNG.

Rows in the input are in Cartesian order (bottom row first) and 16-bit
samples are big-endian. The pixel format follows from --channels and --depth.`,
	RunE: runEncode,
}

func init() {
	encodeCmd.Flags().StringP("input", "i", "", "Input raw sample file")
	encodeCmd.Flags().StringP("output", "o", "", "Output PNG file")
	encodeCmd.Flags().Int("width", 0, "Image width")
	encodeCmd.Flags().Int("height", 0, "Image height")
	encodeCmd.Flags().Int("channels", 1, "Samples per pixel (1-4)")
	encodeCmd.Flags().Int("depth", 8, "Bits per sample (8 or 16)")
	encodeCmd.MarkFlagRequired("input")
	encodeCmd.MarkFlagRequired("output")
	encodeCmd.MarkFlagRequired("width")
	encodeCmd.MarkFlagRequired("height")
	rootCmd.AddCommand(encodeCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	channels, _ := cmd.Flags().GetInt("channels")
	depth, _ := cmd.Flags().GetInt("depth")

	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	f, err := encodeRaw(raw, outputPath, width, height, channels, depth)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Encoded %dx%d %s → %s\n", width, height, f, outputPath)
	return nil
}

// rawShape is [height, width] for single channel input, else
// [height, width, channels].
func rawShape(width, height, channels int) []int {
	if channels == 1 {
		return []int{height, width}
	}
	return []int{height, width, channels}
}

func encodeRaw(raw []byte, path string, width, height, channels, depth int) (raster.Format, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	if channels < 1 {
		return 0, fmt.Errorf("%w: --channels %d", raster.ErrUnsupportedChannelCount, channels)
	}
	shape := rawShape(width, height, channels)
	n := width * height * channels

	switch depth {
	case 8:
		if len(raw) != n {
			return 0, fmt.Errorf("expected %d bytes for %dx%dx%d at 8 bits, got %d", n, width, height, channels, len(raw))
		}
		a, err := raster.New(raw, shape...)
		if err != nil {
			return 0, err
		}
		return raster.SaveFormat(a, path)
	case 16:
		if len(raw) != 2*n {
			return 0, fmt.Errorf("expected %d bytes for %dx%dx%d at 16 bits, got %d", 2*n, width, height, channels, len(raw))
		}
		data := make([]uint16, n)
		for i := range data {
			data[i] = binary.BigEndian.Uint16(raw[2*i:])
		}
		a, err := raster.New(data, shape...)
		if err != nil {
			return 0, err
		}
		return raster.SaveFormat(a, path)
	default:
		return 0, fmt.Errorf("%w: --depth %d", raster.ErrUnsupportedBitDepth, depth)
	}
}
