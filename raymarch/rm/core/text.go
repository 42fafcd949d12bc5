package core

import (
	"fmt"
	"image"
	"image/draw"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const atlasSize = 512

// TextVertex is the wire format of the text overlay pipeline: clip-space
// position, atlas UV, premultiplied color.
type TextVertex struct {
	Pos   [2]float32
	UV    [2]float32
	Color [4]float32
}

// Glyph is one baked glyph: atlas UVs, pixel size, bearing and advance.
type Glyph struct {
	UVMin [2]float32
	UVMax [2]float32
	Size  [2]float32
	Off   [2]float32
	Adv   float32
}

// TextAtlas bakes the printable ASCII range of an OpenType font into an
// alpha atlas for the overlay pass.
type TextAtlas struct {
	Image  *image.Alpha
	Glyphs map[rune]Glyph

	ascent float32
	lineH  float32
}

func NewTextAtlas(fontPath string, fontSize float64) (*TextAtlas, error) {
	raw, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	parsed, err := opentype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	defer face.Close()

	atlas := &TextAtlas{
		Image:  image.NewAlpha(image.Rect(0, 0, atlasSize, atlasSize)),
		Glyphs: make(map[rune]Glyph),
	}
	metrics := face.Metrics()
	atlas.ascent = float32(metrics.Ascent.Ceil())
	atlas.lineH = float32(metrics.Height.Ceil())

	x, y := 2, 2
	rowH := 0
	for r := rune(32); r < 127; r++ {
		bounds, mask, _, adv, ok := face.Glyph(fixed.Point26_6{}, r)
		if !ok {
			continue
		}
		w := mask.Bounds().Dx()
		h := mask.Bounds().Dy()
		if x+w >= atlasSize {
			x = 2
			y += rowH + 4
			rowH = 0
		}
		if y+h >= atlasSize {
			break
		}
		draw.Draw(atlas.Image, image.Rect(x, y, x+w, y+h), mask, mask.Bounds().Min, draw.Src)
		atlas.Glyphs[r] = Glyph{
			UVMin: [2]float32{float32(x) / atlasSize, float32(y) / atlasSize},
			UVMax: [2]float32{float32(x+w) / atlasSize, float32(y+h) / atlasSize},
			Size:  [2]float32{float32(w), float32(h)},
			Off:   [2]float32{float32(bounds.Min.X), float32(bounds.Min.Y)},
			Adv:   float32(adv) / 64.0, // fixed 26.6 to pixels
		}
		x += w + 4
		if h > rowH {
			rowH = h
		}
	}
	return atlas, nil
}

func (a *TextAtlas) LineHeight(scale float32) float32 {
	if a == nil {
		return 0
	}
	return a.lineH * scale
}

// Append lays out text at pixel position (px, py), top-left anchored, and
// appends two triangles per glyph to dst in clip space.
func (a *TextAtlas) Append(dst []TextVertex, text string, px, py, scale float32, col [4]float32, screenW, screenH int) []TextVertex {
	if a == nil {
		return dst
	}
	sw := float32(screenW)
	sh := float32(screenH)
	posX := px
	posY := py + a.ascent*scale

	for _, r := range text {
		if r == '\n' {
			posX = px
			posY += a.lineH * scale
			continue
		}
		g, ok := a.Glyphs[r]
		if !ok {
			continue
		}

		x0 := (posX+g.Off[0]*scale)/sw*2.0 - 1.0
		y0 := 1.0 - (posY+g.Off[1]*scale)/sh*2.0
		x1 := (posX+(g.Off[0]+g.Size[0])*scale)/sw*2.0 - 1.0
		y1 := 1.0 - (posY+(g.Off[1]+g.Size[1])*scale)/sh*2.0

		dst = append(dst,
			TextVertex{Pos: [2]float32{x0, y0}, UV: [2]float32{g.UVMin[0], g.UVMin[1]}, Color: col},
			TextVertex{Pos: [2]float32{x1, y0}, UV: [2]float32{g.UVMax[0], g.UVMin[1]}, Color: col},
			TextVertex{Pos: [2]float32{x0, y1}, UV: [2]float32{g.UVMin[0], g.UVMax[1]}, Color: col},
			TextVertex{Pos: [2]float32{x1, y0}, UV: [2]float32{g.UVMax[0], g.UVMin[1]}, Color: col},
			TextVertex{Pos: [2]float32{x1, y1}, UV: [2]float32{g.UVMax[0], g.UVMax[1]}, Color: col},
			TextVertex{Pos: [2]float32{x0, y1}, UV: [2]float32{g.UVMin[0], g.UVMax[1]}, Color: col},
		)
		posX += g.Adv * scale
	}
	return dst
}
