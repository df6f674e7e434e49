// Package colormap turns scalar and polar fields into color images.
//
// Palettes are keypoint gradients built with colorgrad; disk maps blend a
// cyclic palette toward a black or white center with go-colorful. Every map
// produces an Image of float samples in [0, 1] that converts to 8 or 16 bit
// raster arrays.
package colormap

import (
	"errors"
	"fmt"
	"slices"

	"github.com/mazznoer/colorgrad"
)

var (
	ErrUnknownMap    = errors.New("unknown color map")
	ErrShapeMismatch = errors.New("radius and angle fields must have the same shape")
	ErrFillRange     = errors.New("fill value must fall in [0,1]")
)

// Kind groups palettes by the mapping they are meant for.
type Kind int

const (
	KindRamp Kind = iota
	KindCyclic
	KindDisk
)

func (k Kind) String() string {
	switch k {
	case KindRamp:
		return "ramp"
	case KindCyclic:
		return "cyclic"
	case KindDisk:
		return "disk"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// palette describes one named map.
type palette struct {
	colors      []string
	description string
}

var palettes = map[Kind]map[string]palette{
	KindRamp: {
		"gray":  {[]string{"#000000", "#ffffff"}, "black -> white"},
		"fire":  {[]string{"#000000", "#5b1a8c", "#e3338f", "#ffd23c", "#ffffff"}, "black -> purple -> magenta -> yellow -> white"},
		"ocean": {[]string{"#000000", "#1f3da8", "#1a9a5a", "#e8e13c", "#ffffff"}, "black -> blue -> green -> yellow -> white"},
		"ice":   {[]string{"#000000", "#4b2a8f", "#2f6fd6", "#3fd6e0", "#ffffff"}, "black -> purple -> blue -> cyan -> white"},
		"div":   {[]string{"#2b5fd9", "#ffffff", "#d9342b"}, "blue -> white -> red"},
	},
	KindCyclic: {
		"gray": {[]string{"#000000", "#ffffff", "#000000"}, "black -> white -> black"},
		"four": {[]string{"#e0312b", "#2b5fd9", "#2ba84a", "#e8d23c", "#e0312b"}, "red -> blue -> green -> yellow -> red"},
		"six":  {[]string{"#e0312b", "#d23cc8", "#2b5fd9", "#26a3a3", "#2ba84a", "#e8d23c", "#e0312b"}, "red -> magenta -> blue -> teal -> green -> yellow -> red"},
		"div":  {[]string{"#2b5fd9", "#8c8c8c", "#d9342b", "#2b5fd9"}, "blue -> gray -> red -> blue"},
	},
}

// disk maps use the cyclic palette of the same name around their perimeter
var diskNames = []string{"four", "six"}

var defaults = map[Kind]string{
	KindRamp:   "fire",
	KindCyclic: "four",
	KindDisk:   "four",
}

// Names returns the sorted palette names available for k.
func Names(k Kind) []string {
	if k == KindDisk {
		return slices.Clone(diskNames)
	}
	names := make([]string, 0, len(palettes[k]))
	for name := range palettes[k] {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Describe returns a one-line description of a named map.
func Describe(k Kind, name string) string {
	if k == KindDisk {
		return palettes[KindCyclic][name].description + " (perimeter)"
	}
	return palettes[k][name].description
}

// gradient builds the colorgrad gradient for a named map of kind k. An empty
// name selects the default for k.
func gradient(k Kind, name string) (g colorgrad.Gradient, err error) {
	if name == "" {
		name = defaults[k]
	}
	lookup := k
	if k == KindDisk {
		if !slices.Contains(diskNames, name) {
			return g, fmt.Errorf("%w: %s map %q (have %v)", ErrUnknownMap, k, name, diskNames)
		}
		lookup = KindCyclic
	}
	p, ok := palettes[lookup][name]
	if !ok {
		return g, fmt.Errorf("%w: %s map %q (have %v)", ErrUnknownMap, k, name, Names(k))
	}
	g, err = colorgrad.NewGradient().
		HtmlColors(p.colors...).
		Mode(colorgrad.BlendLab).
		Build()
	if err != nil {
		return g, fmt.Errorf("building %s map %q: %w", k, name, err)
	}
	return g, nil
}
