package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wlenthe/UniformBicone/internal/png"
	"github.com/wlenthe/UniformBicone/internal/raster"
)

var identifyCmd = &cobra.Command{
	Use:   "identify [file]",
	Short: "Inspect PNG header info",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentify,
}

func init() {
	rootCmd.AddCommand(identifyCmd)
}

func runIdentify(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	info, err := png.GetInfo(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File:        %s\n", path)
	fmt.Fprintf(out, "Dimensions:  %d x %d\n", info.Width, info.Height)
	fmt.Fprintf(out, "Color type:  %s (%d)\n", info.ColorSpace, info.ColorType)
	fmt.Fprintf(out, "Bit depth:   %d\n", info.BitDepth)
	fmt.Fprintf(out, "Channels:    %d\n", info.Channels)
	if info.ColorType == png.ColorPalette {
		fmt.Fprintln(out, "Format:      unsupported (palette)")
	} else if f, err := raster.FormatFor(info.Channels, info.BitDepth); err == nil {
		fmt.Fprintf(out, "Format:      %s\n", f)
	} else {
		fmt.Fprintf(out, "Format:      unsupported (%v)\n", err)
	}
	if info.Interlaced {
		fmt.Fprintln(out, "Interlaced:  yes")
	}
	fmt.Fprintf(out, "File size:   %d bytes (%.1f KB)\n", len(data), float64(len(data))/1024)
	return nil
}
