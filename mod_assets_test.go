package mirage

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/mirage3d/mirage/raymarch/rm/core"
)

func TestAssetServer_Install(t *testing.T) {
	app := NewApp()
	app.UseModules(AssetServerModule{})

	server := GetResource[AssetServer](app)
	if server == nil {
		t.Fatal("AssetServer resource missing after install")
	}
}

func TestAssetServer_CreateRampTexture(t *testing.T) {
	app := NewApp()
	app.UseModules(AssetServerModule{})
	server := GetResource[AssetServer](app)

	id := server.CreateRampTexture(8,
		core.RampStop{At: 0, Color: color.RGBA{A: 255}},
		core.RampStop{At: 1, Color: color.RGBA{R: 255, G: 255, B: 255, A: 255}},
	)

	tex, ok := server.Texture(id)
	if !ok {
		t.Fatal("Ramp texture not registered")
	}
	if tex.Width() != 8 || tex.Height() != 1 {
		t.Errorf("Expected an 8x1 ramp, got %dx%d", tex.Width(), tex.Height())
	}
	if tex.Format() != TextureFormatRGBA8Unorm {
		t.Errorf("Expected RGBA8 format, got %v", tex.Format())
	}

	texels := tex.Texels()
	if len(texels) != 8*4 {
		t.Fatalf("Expected 32 bytes of texels, got %d", len(texels))
	}
	if texels[0] != 0 || texels[len(texels)-4] != 255 {
		t.Errorf("Ramp endpoints wrong: first R=%d, last R=%d", texels[0], texels[len(texels)-4])
	}
}

func TestAssetServer_LoadShader(t *testing.T) {
	app := NewApp()
	app.UseModules(AssetServerModule{})
	server := GetResource[AssetServer](app)

	path := filepath.Join(t.TempDir(), "effect.wgsl")
	const src = "@fragment fn fs_main() {}"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	shader, err := server.LoadShader(path)
	if err != nil {
		t.Fatalf("LoadShader failed: %v", err)
	}

	got, ok := server.ShaderSource(shader)
	if !ok {
		t.Fatal("Shader source not registered")
	}
	if got != src {
		t.Errorf("Expected source %q, got %q", src, got)
	}
}

func TestAssetServer_LoadShaderMissingFile(t *testing.T) {
	app := NewApp()
	app.UseModules(AssetServerModule{})
	server := GetResource[AssetServer](app)

	if _, err := server.LoadShader(filepath.Join(t.TempDir(), "nope.wgsl")); err == nil {
		t.Error("Expected an error for a missing shader file")
	}
}

func TestAssetServer_TextureLookupMiss(t *testing.T) {
	app := NewApp()
	app.UseModules(AssetServerModule{})
	server := GetResource[AssetServer](app)

	if _, ok := server.Texture("no-such-id"); ok {
		t.Error("Expected a miss for an unknown texture id")
	}
}

func TestAssetServer_LoadRampTexture(t *testing.T) {
	// Author a small PNG strip with a dark-to-bright gradient.
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			v := uint8(x * 85)
			img.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "ramp.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	app := NewApp()
	app.UseModules(AssetServerModule{})
	server := GetResource[AssetServer](app)

	id, err := server.LoadRampTexture(path, 16)
	if err != nil {
		t.Fatalf("LoadRampTexture failed: %v", err)
	}

	tex, ok := server.Texture(id)
	if !ok {
		t.Fatal("Ramp texture not registered")
	}
	if tex.Width() != 16 || tex.Height() != 1 {
		t.Errorf("Expected a 16x1 ramp, got %dx%d", tex.Width(), tex.Height())
	}

	texels := tex.Texels()
	if len(texels) != 16*4 {
		t.Fatalf("Expected 64 bytes of texels, got %d", len(texels))
	}
	// The gradient direction must survive the resample.
	if texels[0] >= texels[len(texels)-4] {
		t.Errorf("Expected a dark-to-bright row, got first R=%d, last R=%d", texels[0], texels[len(texels)-4])
	}
}

func TestAssetServer_CreateSampler(t *testing.T) {
	app := NewApp()
	app.UseModules(AssetServerModule{})
	server := GetResource[AssetServer](app)

	id1 := server.CreateSampler()
	id2 := server.CreateSampler()

	if id1 == "" || id2 == "" || id1 == id2 {
		t.Errorf("Expected two distinct sampler ids, got %q and %q", id1, id2)
	}
}
