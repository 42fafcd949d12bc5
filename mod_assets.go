package mirage

import (
	"image"
	"image/png"
	"os"

	"github.com/google/uuid"

	"github.com/mirage3d/mirage/raymarch/rm/core"
)

type AssetId string

type TextureFormat uint32

// Values mirror the WebGPU texture format enum.
const (
	TextureFormatR8Unorm    TextureFormat = 0x00000001
	TextureFormatRGBA8Unorm TextureFormat = 0x00000012
)

type AssetServer struct {
	shaders  map[AssetId]ShaderAsset
	textures map[AssetId]TextureAsset
	samplers map[AssetId]SamplerAsset
}

type AssetServerModule struct{}

type Shader struct {
	assetId AssetId
}

type ShaderAsset struct {
	version uint
	name    string
	source  string
}

type TextureAsset struct {
	version uint
	texels  []uint8
	width   uint32
	height  uint32
	format  TextureFormat
}

type SamplerAsset struct {
	version uint
	assetId AssetId
}

func (a TextureAsset) Texels() []uint8       { return a.texels }
func (a TextureAsset) Width() uint32         { return a.width }
func (a TextureAsset) Height() uint32        { return a.height }
func (a TextureAsset) Format() TextureFormat { return a.format }

// LoadShader reads a WGSL source file. A missing file is not fatal: the
// renderer treats an absent effect as "not ready yet" and keeps presenting
// the passthrough path, so the error is reported to the caller instead.
func (server AssetServer) LoadShader(filename string) (Shader, error) {
	shaderData, err := os.ReadFile(filename)
	if err != nil {
		return Shader{}, err
	}

	id := makeAssetId()

	server.shaders[id] = ShaderAsset{
		version: 0,
		name:    filename,
		source:  string(shaderData),
	}

	return Shader{assetId: id}, nil
}

// ShaderSource returns the WGSL listing for a loaded shader.
func (server AssetServer) ShaderSource(shader Shader) (string, bool) {
	asset, ok := server.shaders[shader.assetId]
	if !ok {
		return "", false
	}
	return asset.source, true
}

func (server AssetServer) CreateTexture(texels []uint8, texWidth uint32, texHeight uint32, format TextureFormat) AssetId {
	id := makeAssetId()

	server.textures[id] = TextureAsset{
		version: 0,
		texels:  texels,
		width:   texWidth,
		height:  texHeight,
		format:  format,
	}

	return id
}

// CreateRampTexture bakes a color ramp into a width x 1 RGBA texture.
func (server AssetServer) CreateRampTexture(width int, stops ...core.RampStop) AssetId {
	ramp := core.NewColorRamp(stops...)
	texels := ramp.Texels(width)
	return server.CreateTexture(texels, uint32(width), 1, TextureFormatRGBA8Unorm)
}

// LoadRampTexture resamples a PNG strip into a width x 1 ramp.
func (server AssetServer) LoadRampTexture(filename string, width int) (AssetId, error) {
	file, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return "", err
	}

	texels := core.RampTexelsFromImage(img, width)
	return server.CreateTexture(texels, uint32(width), 1, TextureFormatRGBA8Unorm), nil
}

func (server AssetServer) LoadTexture(filename string) AssetId {
	id := makeAssetId()

	file, err := os.Open(filename)
	if err != nil {
		panic(err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		panic(err)
	}

	bounds := img.Bounds()

	rgbaImg, ok := img.(*image.RGBA)
	if !ok {
		rgbaImg = image.NewRGBA(bounds)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				rgbaImg.Set(x, y, img.At(x, y))
			}
		}
	}

	server.textures[id] = TextureAsset{
		version: 0,
		texels:  rgbaImg.Pix,
		width:   uint32(bounds.Max.X - bounds.Min.X),
		height:  uint32(bounds.Max.Y - bounds.Min.Y),
		format:  TextureFormatRGBA8Unorm,
	}

	return id
}

// Texture returns a previously created or loaded texture asset.
func (server AssetServer) Texture(id AssetId) (TextureAsset, bool) {
	asset, ok := server.textures[id]
	return asset, ok
}

func (server AssetServer) CreateSampler() AssetId {
	id := makeAssetId()

	server.samplers[id] = SamplerAsset{
		version: 0,
		assetId: id,
	}

	return id
}

func (AssetServerModule) Install(app *App, cmd *Commands) {
	app.addResources(&AssetServer{
		shaders:  make(map[AssetId]ShaderAsset),
		textures: make(map[AssetId]TextureAsset),
		samplers: make(map[AssetId]SamplerAsset),
	})
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
