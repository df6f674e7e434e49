package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/wlenthe/UniformBicone/internal/colormap"
	"github.com/wlenthe/UniformBicone/internal/pipeline"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Render colormaps applied to test fields, and legends, as PNG files",
	RunE:  runDemo,
}

func init() {
	demoCmd.Flags().StringP("out", "o", ".", "Output directory")
	demoCmd.Flags().Bool("ramps", false, "Apply ramp maps to a test field")
	demoCmd.Flags().Bool("cycles", false, "Apply a cyclic map to a test field")
	demoCmd.Flags().Bool("disks", false, "Apply a disk map to polar test fields")
	demoCmd.Flags().Bool("ramp-legends", false, "Render a legend for every ramp map")
	demoCmd.Flags().Bool("cyclic-legends", false, "Render a legend for every cyclic map")
	demoCmd.Flags().Bool("disk-legends", false, "Render a legend for every disk map")
	demoCmd.Flags().Bool("all", false, "Render everything")
	demoCmd.Flags().Int("size", 256, "Test field size in pixels")
	demoCmd.Flags().Int("legend-width", colormap.DefaultLegendWidth, "Legend width in pixels")
	demoCmd.Flags().Int("jobs", runtime.NumCPU(), "Images rendered concurrently")
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	outDir, _ := flags.GetString("out")
	all, _ := flags.GetBool("all")
	size, _ := flags.GetInt("size")
	legendWidth, _ := flags.GetInt("legend-width")
	jobs, _ := flags.GetInt("jobs")
	selected := func(name string) bool {
		v, _ := flags.GetBool(name)
		return all || v
	}

	stderr := cmd.ErrOrStderr()
	opts := pipeline.Options{
		OutDir:        outDir,
		Size:          size,
		Jobs:          jobs,
		Ramps:         selected("ramps"),
		Cycles:        selected("cycles"),
		Disks:         selected("disks"),
		RampLegends:   selected("ramp-legends"),
		CyclicLegends: selected("cyclic-legends"),
		DiskLegends:   selected("disk-legends"),
		LegendWidth:   legendWidth,
		Warn:          func(msg string) { fmt.Fprintf(stderr, "warning: %s\n", msg) },
	}

	out := cmd.OutOrStdout()
	if !opts.Any() {
		printMaps(out)
		return nil
	}

	res, err := pipeline.Run(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("demo: %w", err)
	}
	for _, o := range res.Outputs {
		fmt.Fprintf(out, "%-12s %4dx%-4d %-7s %s\n", o.Name, o.Width, o.Height, o.Format, o.Path)
	}
	fmt.Fprintf(out, "Wrote %d images, manifest: %s\n", len(res.Outputs), res.Manifest)
	return nil
}

// printMaps lists every palette, shown when no demo group is selected.
func printMaps(w io.Writer) {
	fmt.Fprintln(w, "No demo selected; available maps:")
	for _, k := range []colormap.Kind{colormap.KindRamp, colormap.KindCyclic, colormap.KindDisk} {
		fmt.Fprintf(w, "%s:\n", k)
		for _, name := range colormap.Names(k) {
			fmt.Fprintf(w, "  %-6s %s\n", name, colormap.Describe(k, name))
		}
	}
	fmt.Fprintln(w, "Select groups with --ramps, --cycles, --disks, --ramp-legends, --cyclic-legends, --disk-legends or --all.")
}
