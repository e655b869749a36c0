// Package preset holds the fixed set of brochure layouts. Each preset is a
// pure function from a subject to a fully composed canvas; the registry is
// built once at package initialization and never modified.
package preset

import (
	"image"
	"sort"

	"github.com/ysfklc/DigitalBrochure-sub001/pkg/canvas"
	"github.com/ysfklc/DigitalBrochure-sub001/pkg/subject"
	"github.com/ysfklc/DigitalBrochure-sub001/pkg/types"
)

// Name identifies a preset
type Name string

// Known presets
const (
	CleanCenter     Name = "clean_center"
	CleanOffset     Name = "clean_offset"
	EditorialLeft   Name = "editorial_left"
	EditorialRight  Name = "editorial_right"
	ProductDuoDepth Name = "product_duo_depth"
	MinimalMotion   Name = "minimal_motion"
	SideBySide      Name = "side_by_side"
	OverlapLeft     Name = "overlap_left"
	OverlapRight    Name = "overlap_right"
)

// Fixed canvas sizes
const (
	duoDepthWidth  = 1200
	duoDepthHeight = 900
	motionWidth    = 1200
	motionHeight   = 800
)

// Motion ghost parameters
const (
	motionBlur       = 2.0
	motionBrightness = 0.5
)

// Layout is the canvas size and layer placement a preset produces for a subject
type Layout struct {
	Width  int
	Height int
	Layers []canvas.Layer
}

// entry sizes the canvas from the subject dimensions and places layers on it
type entry struct {
	size   func(sw, sh float64) (int, int)
	layers func(s subject.Subject, w, h int) []canvas.Layer
}

var registry = map[Name]entry{
	CleanCenter:     {size: scaled(1.6, 1.4), layers: cleanCenter},
	CleanOffset:     {size: scaled(1.8, 1.4), layers: cleanOffset},
	EditorialLeft:   {size: scaled(2, 1.4), layers: editorialLeft},
	EditorialRight:  {size: scaled(2, 1.4), layers: editorialRight},
	ProductDuoDepth: {size: fixed(duoDepthWidth, duoDepthHeight), layers: productDuoDepth},
	MinimalMotion:   {size: fixed(motionWidth, motionHeight), layers: minimalMotion},
	SideBySide:      {size: scaled(2, 1), layers: sideBySide},
	OverlapLeft:     {size: scaled(2, 1), layers: overlapLeft},
	OverlapRight:    {size: scaled(2, 1), layers: overlapRight},
}

func scaled(fw, fh float64) func(sw, sh float64) (int, int) {
	return func(sw, sh float64) (int, int) {
		return canvas.Round(fw * sw), canvas.Round(fh * sh)
	}
}

func fixed(w, h int) func(sw, sh float64) (int, int) {
	return func(float64, float64) (int, int) {
		return w, h
	}
}

// Parse validates a preset name
func Parse(name string) (Name, error) {
	n := Name(name)
	if _, ok := registry[n]; !ok {
		return "", &types.UnknownPresetError{Name: name}
	}
	return n, nil
}

// Names returns every preset name in lexical order
func Names() []Name {
	names := make([]Name, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Strings returns Names as plain strings
func Strings() []string {
	names := Names()
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}

// Plan computes the layout of a preset for a subject
func Plan(name Name, s subject.Subject) (Layout, error) {
	p, ok := registry[name]
	if !ok {
		return Layout{}, &types.UnknownPresetError{Name: string(name)}
	}
	w, h := p.size(dims(s))
	return Layout{Width: w, Height: h, Layers: p.layers(s, w, h)}, nil
}

// Size returns the canvas dimensions a preset uses for a subject of sw x sh pixels
func Size(name Name, sw, sh int) (int, int, error) {
	p, ok := registry[name]
	if !ok {
		return 0, 0, &types.UnknownPresetError{Name: string(name)}
	}
	w, h := p.size(float64(sw), float64(sh))
	return w, h, nil
}

// Apply renders a preset for a subject
func Apply(name Name, s subject.Subject) (*image.NRGBA, error) {
	layout, err := Plan(name, s)
	if err != nil {
		return nil, err
	}
	return canvas.Composite(canvas.Allocate(layout.Width, layout.Height), layout.Layers...), nil
}

func dims(s subject.Subject) (float64, float64) {
	return float64(s.Width), float64(s.Height)
}

func cleanCenter(s subject.Subject, w, h int) []canvas.Layer {
	sw, sh := dims(s)
	x := float64(w)/2 - sw/2
	y := float64(h)/2 - sh/2

	shadow := canvas.Shadow(s.Image, canvas.DefaultShadowOpacity, canvas.DefaultShadowBlur)
	return []canvas.Layer{
		canvas.At(shadow, x+10, y+20),
		canvas.At(s.Image, x, y),
	}
}

func cleanOffset(s subject.Subject, w, h int) []canvas.Layer {
	_, sh := dims(s)
	return []canvas.Layer{
		canvas.At(s.Image, 0.15*float64(w), float64(h)/2-sh/2),
	}
}

func editorialLeft(s subject.Subject, _, _ int) []canvas.Layer {
	sw, sh := dims(s)
	return []canvas.Layer{canvas.At(s.Image, 0.15*sw, 0.2*sh)}
}

func editorialRight(s subject.Subject, _, _ int) []canvas.Layer {
	sw, sh := dims(s)
	return []canvas.Layer{canvas.At(s.Image, 0.8*sw, 0.2*sh)}
}

func productDuoDepth(s subject.Subject, _, _ int) []canvas.Layer {
	sw, _ := dims(s)
	back := canvas.ScaleToWidth(s.Image, canvas.Round(0.92*sw))
	return []canvas.Layer{
		{Image: back, X: 80, Y: 120},
		{Image: s.Image, X: 140, Y: 60},
	}
}

func minimalMotion(s subject.Subject, _, _ int) []canvas.Layer {
	ghost := canvas.Dim(canvas.Blur(s.Image, motionBlur), motionBrightness)
	return []canvas.Layer{
		{Image: ghost, X: 40, Y: 40},
		{Image: s.Image, X: 120, Y: 40},
	}
}

func sideBySide(s subject.Subject, _, _ int) []canvas.Layer {
	return pair(s, 1.0)
}

func overlapLeft(s subject.Subject, _, _ int) []canvas.Layer {
	return pair(s, 0.6)
}

func overlapRight(s subject.Subject, _, _ int) []canvas.Layer {
	return pair(s, 0.4)
}

// pair places the subject at the origin and a second copy shifted right by shift*sw
func pair(s subject.Subject, shift float64) []canvas.Layer {
	sw, _ := dims(s)
	return []canvas.Layer{
		{Image: s.Image, X: 0, Y: 0},
		canvas.At(s.Image, shift*sw, 0),
	}
}
