package gpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mirage3d/mirage/raymarch/rm/core"
)

func f32At(t *testing.T, b []byte, off uint32) float32 {
	t.Helper()
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off : off+4]))
}

func TestFrameUniformLayout_NamesAndOffsets(t *testing.T) {
	want := []UniformField{
		{Name: "_FrustumCornersES", Offset: 0, Size: 64},
		{Name: "_CameraInvViewMatrix", Offset: 64, Size: 64},
		{Name: "_MatTorus_InvModel", Offset: 128, Size: 64},
		{Name: "_CameraWS", Offset: 192, Size: 16},
		{Name: "_LightDir", Offset: 208, Size: 16},
		{Name: "_DrawDistance", Offset: 224, Size: 4},
	}

	if len(FrameUniformLayout) != len(want) {
		t.Fatalf("layout has %d fields, want %d", len(FrameUniformLayout), len(want))
	}
	for i, w := range want {
		got := FrameUniformLayout[i]
		if got != w {
			t.Errorf("field %d: got %+v, want %+v", i, got, w)
		}
	}
	for _, f := range FrameUniformLayout {
		if f.Offset+f.Size > FrameUniformsSize {
			t.Errorf("field %s overruns the %d-byte block", f.Name, FrameUniformsSize)
		}
	}
}

func TestEffectTextures_SlotOrder(t *testing.T) {
	want := []TextureBinding{
		{Name: "_MainTex", Binding: 0},
		{Name: "_ColorRamp_Material", Binding: 1},
		{Name: "_ColorRamp_PerfMap", Binding: 2},
	}
	if len(EffectTextures) != len(want) {
		t.Fatalf("got %d texture bindings, want %d", len(EffectTextures), len(want))
	}
	for i, w := range want {
		if EffectTextures[i] != w {
			t.Errorf("binding %d: got %+v, want %+v", i, EffectTextures[i], w)
		}
	}
}

func TestFrameUniforms_PackSize(t *testing.T) {
	u := FrameUniforms{}
	b := u.Pack()
	if len(b) != FrameUniformsSize {
		t.Fatalf("packed %d bytes, want %d", len(b), FrameUniformsSize)
	}
}

func TestFrameUniforms_PackCornerSlots(t *testing.T) {
	rays, err := core.CornerRays(90, 1)
	if err != nil {
		t.Fatal(err)
	}
	u := FrameUniforms{FrustumRays: rays}
	b := u.Pack()

	// Column-major mat4: corner i occupies 16 bytes starting at 16*i.
	for i := 0; i < 4; i++ {
		base := uint32(i) * 16
		got := mgl32.Vec3{f32At(t, b, base), f32At(t, b, base+4), f32At(t, b, base+8)}
		if got != rays[i] {
			t.Errorf("corner %d packed as %v, want %v", i, got, rays[i])
		}
		if w := f32At(t, b, base+12); w != 0 {
			t.Errorf("corner %d w component = %v, want 0", i, w)
		}
	}
}

func TestFrameUniforms_PackPlacesFields(t *testing.T) {
	inv := mgl32.Translate3D(1, 2, 3)
	torusInv := mgl32.HomogRotate3DZ(mgl32.DegToRad(30)).Inv()
	u := FrameUniforms{
		InvView:       inv,
		TorusInvModel: torusInv,
		CameraWS:      mgl32.Vec3{7, 8, 9},
		LightDir:      mgl32.Vec3{0, -1, 0},
		DrawDistance:  150,
	}
	b := u.Pack()

	for i := 0; i < 16; i++ {
		if got := f32At(t, b, 64+uint32(i)*4); got != inv[i] {
			t.Errorf("_CameraInvViewMatrix[%d] = %v, want %v", i, got, inv[i])
		}
		if got := f32At(t, b, 128+uint32(i)*4); got != torusInv[i] {
			t.Errorf("_MatTorus_InvModel[%d] = %v, want %v", i, got, torusInv[i])
		}
	}

	if got := (mgl32.Vec3{f32At(t, b, 192), f32At(t, b, 196), f32At(t, b, 200)}); got != u.CameraWS {
		t.Errorf("_CameraWS = %v, want %v", got, u.CameraWS)
	}
	if got := (mgl32.Vec3{f32At(t, b, 208), f32At(t, b, 212), f32At(t, b, 216)}); got != u.LightDir {
		t.Errorf("_LightDir = %v, want %v", got, u.LightDir)
	}
	if got := f32At(t, b, 224); got != 150 {
		t.Errorf("_DrawDistance = %v, want 150", got)
	}
}

func TestFrameUniforms_PackZeroesPadding(t *testing.T) {
	u := FrameUniforms{
		CameraWS: mgl32.Vec3{1, 1, 1},
		LightDir: mgl32.Vec3{1, 1, 1},
	}
	b := u.Pack()

	// Pad words after the vec3 fields and the whole tail past _DrawDistance.
	if got := f32At(t, b, 204); got != 0 {
		t.Errorf("_CameraWS pad = %v, want 0", got)
	}
	if got := f32At(t, b, 220); got != 0 {
		t.Errorf("_LightDir pad = %v, want 0", got)
	}
	for off := uint32(228); off < FrameUniformsSize; off += 4 {
		if got := binary.LittleEndian.Uint32(b[off : off+4]); got != 0 {
			t.Errorf("tail word at %d = %#x, want 0", off, got)
		}
	}
}
