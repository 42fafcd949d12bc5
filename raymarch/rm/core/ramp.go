package core

import (
	"image"
	"image/color"
	"math"
	"sort"

	"golang.org/x/image/colornames"
	xdraw "golang.org/x/image/draw"
)

// RampStop pins a color at a position in [0, 1].
type RampStop struct {
	At    float32
	Color color.RGBA
}

// ColorRamp is a piecewise-linear gradient baked into 1D lookup textures.
type ColorRamp struct {
	stops []RampStop
}

func NewColorRamp(stops ...RampStop) *ColorRamp {
	r := &ColorRamp{stops: append([]RampStop(nil), stops...)}
	sort.SliceStable(r.stops, func(i, j int) bool { return r.stops[i].At < r.stops[j].At })
	return r
}

// Sample interpolates the ramp at t, clamping to the end stops.
func (r *ColorRamp) Sample(t float32) color.RGBA {
	if len(r.stops) == 0 {
		return color.RGBA{}
	}
	if t <= r.stops[0].At {
		return r.stops[0].Color
	}
	last := r.stops[len(r.stops)-1]
	if t >= last.At {
		return last.Color
	}
	for i := 1; i < len(r.stops); i++ {
		if t > r.stops[i].At {
			continue
		}
		a, b := r.stops[i-1], r.stops[i]
		span := b.At - a.At
		if span <= 0 {
			return b.Color
		}
		f := (t - a.At) / span
		return color.RGBA{
			R: lerpByte(a.Color.R, b.Color.R, f),
			G: lerpByte(a.Color.G, b.Color.G, f),
			B: lerpByte(a.Color.B, b.Color.B, f),
			A: lerpByte(a.Color.A, b.Color.A, f),
		}
	}
	return last.Color
}

func lerpByte(a, b uint8, f float32) uint8 {
	return uint8(math.Round(float64(float32(a) + (float32(b)-float32(a))*f)))
}

// Texels bakes the ramp into a width x 1 RGBA pixel row.
func (r *ColorRamp) Texels(width int) []uint8 {
	out := make([]uint8, 0, width*4)
	for x := 0; x < width; x++ {
		t := float32(0)
		if width > 1 {
			t = float32(x) / float32(width-1)
		}
		c := r.Sample(t)
		out = append(out, c.R, c.G, c.B, c.A)
	}
	return out
}

// RampTexelsFromImage resamples the middle row of img into a width x 1 RGBA
// lookup row, so ramps can be authored as small PNG strips.
func RampTexelsFromImage(img image.Image, width int) []uint8 {
	row := image.NewRGBA(image.Rect(0, 0, width, 1))
	b := img.Bounds()
	mid := b.Min.Y + b.Dy()/2
	src := image.Rect(b.Min.X, mid, b.Max.X, mid+1)
	xdraw.ApproxBiLinear.Scale(row, row.Bounds(), img, src, xdraw.Src, nil)
	return row.Pix
}

// MaterialRamp is the stock surface shading ramp.
func MaterialRamp() *ColorRamp {
	return NewColorRamp(
		RampStop{At: 0.0, Color: colornames.Midnightblue},
		RampStop{At: 0.35, Color: colornames.Steelblue},
		RampStop{At: 0.7, Color: colornames.Lightsalmon},
		RampStop{At: 1.0, Color: colornames.Oldlace},
	)
}

// HeatRamp is the iteration heatmap for the performance debug view.
func HeatRamp() *ColorRamp {
	return NewColorRamp(
		RampStop{At: 0.0, Color: color.RGBA{A: 255}},
		RampStop{At: 0.4, Color: colornames.Crimson},
		RampStop{At: 0.75, Color: colornames.Gold},
		RampStop{At: 1.0, Color: colornames.White},
	)
}
