// Package pipeline renders the colormap demo set: test fields pushed through
// every map and legend, each saved as a PNG, plus a JSON manifest.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/wlenthe/UniformBicone/internal/colormap"
	"github.com/wlenthe/UniformBicone/internal/field"
	"github.com/wlenthe/UniformBicone/internal/raster"
)

// ManifestName is the file Run writes next to the images.
const ManifestName = "manifest.json"

// Options selects which groups of images to render.
type Options struct {
	OutDir string
	Size   int // edge length of the test fields, default 256
	Jobs   int // concurrent renders, <= 0 means one per job

	Ramps, Cycles, Disks                    bool // maps applied to test fields
	RampLegends, CyclicLegends, DiskLegends bool

	LegendWidth int // default colormap.DefaultLegendWidth

	// Warn receives fill warnings prefixed with the image name. Calls are
	// serialized.
	Warn func(msg string)
}

// Any reports whether at least one group is selected.
func (o Options) Any() bool {
	return o.Ramps || o.Cycles || o.Disks || o.RampLegends || o.CyclicLegends || o.DiskLegends
}

func (o Options) size() int {
	if o.Size <= 0 {
		return 256
	}
	return o.Size
}

func (o Options) legendWidth() int {
	if o.LegendWidth <= 0 {
		return colormap.DefaultLegendWidth
	}
	return o.LegendWidth
}

// Job is one image to render. Render receives the warning hook to pass on
// to the colormap call.
type Job struct {
	Name   string
	Render func(warn func(string)) (*colormap.Image, error)
}

// File returns the output file name for the job.
func (j Job) File() string {
	return j.Name + ".png"
}

// Output describes one written image.
type Output struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Result holds the outputs of a Run in plan order.
type Result struct {
	Outputs  []Output
	Manifest string // empty when nothing was rendered
}

// fields holds the test data shared by every job. Jobs only read it.
type fields struct {
	ripple        *mat.Dense
	radius, angle *mat.Dense
}

func newFields(n int) (*fields, error) {
	ripple, err := field.Ripple(n)
	if err != nil {
		return nil, fmt.Errorf("ripple field: %w", err)
	}
	r, a, err := field.Polar(n)
	if err != nil {
		return nil, fmt.Errorf("polar field: %w", err)
	}
	return &fields{ripple: ripple, radius: r, angle: a}, nil
}

func withWarn(opts colormap.Options, warn func(string)) colormap.Options {
	opts.Warn = warn
	return opts
}

// Plan lists the jobs selected by opts in a fixed order.
func Plan(opts Options) ([]Job, error) {
	var jobs []Job
	if opts.Ramps || opts.Cycles || opts.Disks {
		f, err := newFields(opts.size())
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, fieldJobs(f, opts)...)
	}
	if opts.RampLegends || opts.CyclicLegends || opts.DiskLegends {
		jobs = append(jobs, legendJobs(opts)...)
	}
	return jobs, nil
}

func fieldJobs(f *fields, opts Options) []Job {
	ramp := func(name string, m mat.Matrix, o colormap.Options) Job {
		return Job{Name: name, Render: func(warn func(string)) (*colormap.Image, error) {
			return colormap.Ramp(m, withWarn(o, warn))
		}}
	}

	var jobs []Job
	if opts.Ramps {
		jobs = append(jobs,
			ramp("ramp_raw", f.ripple, colormap.Options{}),
			ramp("ramp_alpha", f.ripple, colormap.Options{Alpha: true}),
			ramp("ramp_white", f.ripple, colormap.Options{Fill: colormap.FillWith(1)}),
			ramp("ramp_scaled", f.ripple, colormap.Options{Scale: true}),
			ramp("ramp_div", f.ripple, colormap.Options{Map: "div", Scale: true}),
		)
	}
	if opts.Cycles {
		jobs = append(jobs, Job{Name: "cyclic", Render: func(warn func(string)) (*colormap.Image, error) {
			return colormap.Cyclic(f.ripple, colormap.Options{Scale: true, Warn: warn})
		}})
	}
	if opts.Disks {
		jobs = append(jobs,
			ramp("r", f.radius, colormap.Options{Map: "gray", Scale: true}),
			ramp("a", f.angle, colormap.Options{Map: "gray", Scale: true}),
			Job{Name: "disk", Render: func(warn func(string)) (*colormap.Image, error) {
				return colormap.Disk(f.radius, f.angle, colormap.Options{Scale: true, Warn: warn})
			}},
		)
	}
	return jobs
}

func legendJobs(opts Options) []Job {
	width := opts.legendWidth()
	height := width * colormap.DefaultLegendHeight / colormap.DefaultLegendWidth

	var jobs []Job
	if opts.RampLegends {
		jobs = append(jobs, lo.Map(colormap.Names(colormap.KindRamp), func(m string, _ int) Job {
			return Job{Name: "r_" + m, Render: func(func(string)) (*colormap.Image, error) {
				return colormap.RampLegend(width, height, true, colormap.Options{Map: m})
			}}
		})...)
	}
	if opts.CyclicLegends {
		jobs = append(jobs, lo.Map(colormap.Names(colormap.KindCyclic), func(m string, _ int) Job {
			return Job{Name: "c_" + m, Render: func(func(string)) (*colormap.Image, error) {
				return colormap.CyclicLegend(width, true, colormap.Options{Map: m, Alpha: true})
			}}
		})...)
	}
	if opts.DiskLegends {
		disk := func(name string, o colormap.Options) Job {
			return Job{Name: name, Render: func(func(string)) (*colormap.Image, error) {
				return colormap.DiskLegend(width, o)
			}}
		}
		jobs = append(jobs, lo.Map(colormap.Names(colormap.KindDisk), func(m string, _ int) Job {
			return disk("d_"+m, colormap.Options{Map: m, Alpha: true})
		})...)
		jobs = append(jobs,
			disk("d_four_w", colormap.Options{Map: "four", Alpha: true, WhiteCenter: true}),
			disk("d_four_a", colormap.Options{Map: "four", Alpha: true, Symmetry: colormap.SymAzimuthal}),
			disk("d_four_p", colormap.Options{Map: "four", Alpha: true, Symmetry: colormap.SymPolar}),
		)
	}
	return jobs
}

// Run renders every planned job into opts.OutDir and writes the manifest.
// The first failing job cancels the jobs that have not started yet.
func Run(ctx context.Context, opts Options) (*Result, error) {
	jobs, err := Plan(opts)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return &Result{}, nil
	}
	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var mu sync.Mutex
	warnFor := func(name string) func(string) {
		if opts.Warn == nil {
			return nil
		}
		return func(msg string) {
			mu.Lock()
			defer mu.Unlock()
			opts.Warn(name + ": " + msg)
		}
	}

	outputs := make([]Output, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	if opts.Jobs > 0 {
		g.SetLimit(opts.Jobs)
	}
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := render(job, opts.OutDir, warnFor(job.Name))
			if err != nil {
				return fmt.Errorf("%s: %w", job.Name, err)
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	manifest := filepath.Join(opts.OutDir, ManifestName)
	data, err := json.MarshalIndent(outputs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(manifest, append(data, '\n'), 0644); err != nil {
		return nil, fmt.Errorf("writing manifest: %w", err)
	}
	return &Result{Outputs: outputs, Manifest: manifest}, nil
}

func render(job Job, dir string, warn func(string)) (Output, error) {
	img, err := job.Render(warn)
	if err != nil {
		return Output{}, err
	}
	path := filepath.Join(dir, job.File())
	f, err := raster.SaveFormat(img.Uint8(), path)
	if err != nil {
		return Output{}, err
	}
	return Output{
		Name:   job.Name,
		Path:   path,
		Format: f.String(),
		Width:  img.Width,
		Height: img.Height,
	}, nil
}

// ReadManifest loads a manifest written by Run.
func ReadManifest(path string) ([]Output, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var outputs []Output
	if err := json.Unmarshal(data, &outputs); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return outputs, nil
}
