package gpu

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mirage3d/mirage/raymarch/rm/core"
)

// FrameUniformsSize is the packed size of the effect uniform block.
const FrameUniformsSize = 256

// UniformField names one field of the packed block. The names are a contract
// with existing shader text, so they are spelled exactly.
type UniformField struct {
	Name   string
	Offset uint32
	Size   uint32
}

// FrameUniformLayout is the authoritative layout of the effect uniform block.
// Pack writes to these offsets and the WGSL struct declares the same fields
// in the same order.
var FrameUniformLayout = []UniformField{
	{Name: "_FrustumCornersES", Offset: 0, Size: 64},
	{Name: "_CameraInvViewMatrix", Offset: 64, Size: 64},
	{Name: "_MatTorus_InvModel", Offset: 128, Size: 64},
	{Name: "_CameraWS", Offset: 192, Size: 16},
	{Name: "_LightDir", Offset: 208, Size: 16},
	{Name: "_DrawDistance", Offset: 224, Size: 4},
}

// TextureBinding names one texture of the effect bind group (group 1).
type TextureBinding struct {
	Name    string
	Binding uint32
}

var EffectTextures = []TextureBinding{
	{Name: "_MainTex", Binding: 0},
	{Name: "_ColorRamp_Material", Binding: 1},
	{Name: "_ColorRamp_PerfMap", Binding: 2},
}

// PerfDebugFlag selects the iteration-heatmap fragment variant.
const PerfDebugFlag = "DEBUG_PERFORMANCE"

// FrameUniforms carries everything the effect shader reads per frame.
type FrameUniforms struct {
	FrustumRays   core.CornerBasis
	InvView       mgl32.Mat4
	TorusInvModel mgl32.Mat4
	CameraWS      mgl32.Vec3
	LightDir      mgl32.Vec3
	DrawDistance  float32
}

// Pack lays the values out per FrameUniformLayout. Corner i of the frustum
// basis lands in the 16-byte slot i of _FrustumCornersES with w=0.
func (u *FrameUniforms) Pack() []byte {
	buf := make([]byte, FrameUniformsSize)

	writeMat := func(offset int, mat mgl32.Mat4) {
		for i, v := range mat {
			binary.LittleEndian.PutUint32(buf[offset+i*4:], math.Float32bits(v))
		}
	}
	writeVec := func(offset int, v mgl32.Vec3) {
		binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v.X()))
		binary.LittleEndian.PutUint32(buf[offset+4:], math.Float32bits(v.Y()))
		binary.LittleEndian.PutUint32(buf[offset+8:], math.Float32bits(v.Z()))
		binary.LittleEndian.PutUint32(buf[offset+12:], 0)
	}

	writeMat(0, u.FrustumRays.Mat4())
	writeMat(64, u.InvView)
	writeMat(128, u.TorusInvModel)
	writeVec(192, u.CameraWS)
	writeVec(208, u.LightDir)
	binary.LittleEndian.PutUint32(buf[224:], math.Float32bits(u.DrawDistance))

	return buf
}
