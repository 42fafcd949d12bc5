package core

import (
	"image"
	"image/color"
	"testing"
)

func TestColorRamp_SampleEndpointsAndMidpoints(t *testing.T) {
	ramp := NewColorRamp(
		RampStop{At: 0, Color: color.RGBA{R: 0, G: 0, B: 0, A: 255}},
		RampStop{At: 1, Color: color.RGBA{R: 255, G: 255, B: 255, A: 255}},
	)

	tests := []struct {
		t    float32
		want color.RGBA
	}{
		{-0.5, color.RGBA{0, 0, 0, 255}},
		{0, color.RGBA{0, 0, 0, 255}},
		{0.25, color.RGBA{64, 64, 64, 255}},
		{0.5, color.RGBA{128, 128, 128, 255}},
		{1, color.RGBA{255, 255, 255, 255}},
		{2, color.RGBA{255, 255, 255, 255}},
	}

	for _, tt := range tests {
		if got := ramp.Sample(tt.t); got != tt.want {
			t.Errorf("Sample(%v): expected %v, got %v", tt.t, tt.want, got)
		}
	}
}

func TestColorRamp_StopsSortedOnConstruction(t *testing.T) {
	ramp := NewColorRamp(
		RampStop{At: 1, Color: color.RGBA{R: 255, A: 255}},
		RampStop{At: 0, Color: color.RGBA{B: 255, A: 255}},
	)

	if got := ramp.Sample(0); got.B != 255 || got.R != 0 {
		t.Errorf("low end should be blue, got %v", got)
	}
	if got := ramp.Sample(1); got.R != 255 || got.B != 0 {
		t.Errorf("high end should be red, got %v", got)
	}
}

func TestColorRamp_Texels(t *testing.T) {
	ramp := NewColorRamp(
		RampStop{At: 0, Color: color.RGBA{R: 10, G: 20, B: 30, A: 255}},
		RampStop{At: 1, Color: color.RGBA{R: 210, G: 220, B: 230, A: 255}},
	)

	texels := ramp.Texels(64)
	if len(texels) != 64*4 {
		t.Fatalf("expected %d bytes, got %d", 64*4, len(texels))
	}
	if texels[0] != 10 || texels[1] != 20 || texels[2] != 30 {
		t.Errorf("first texel should be the first stop, got %v", texels[:4])
	}
	last := texels[len(texels)-4:]
	if last[0] != 210 || last[1] != 220 || last[2] != 230 {
		t.Errorf("last texel should be the last stop, got %v", last)
	}
}

func TestRampTexelsFromImage(t *testing.T) {
	strip := image.NewRGBA(image.Rect(0, 0, 2, 1))
	strip.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	strip.SetRGBA(1, 0, color.RGBA{B: 255, A: 255})

	texels := RampTexelsFromImage(strip, 8)
	if len(texels) != 8*4 {
		t.Fatalf("expected %d bytes, got %d", 8*4, len(texels))
	}
	if texels[0] <= texels[2] {
		t.Errorf("left edge should stay red dominant, got R=%d B=%d", texels[0], texels[2])
	}
	tail := texels[len(texels)-4:]
	if tail[2] <= tail[0] {
		t.Errorf("right edge should stay blue dominant, got R=%d B=%d", tail[0], tail[2])
	}
	for x := 0; x < 8; x++ {
		if a := texels[x*4+3]; a != 255 {
			t.Errorf("texel %d lost alpha: %d", x, a)
		}
	}
}

func TestStockRamps(t *testing.T) {
	for _, tt := range []struct {
		name string
		ramp *ColorRamp
	}{
		{"material", MaterialRamp()},
		{"heat", HeatRamp()},
	} {
		texels := tt.ramp.Texels(256)
		if len(texels) != 256*4 {
			t.Errorf("%s: expected a 256 texel row, got %d bytes", tt.name, len(texels))
		}
	}
}
