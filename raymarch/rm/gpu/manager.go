package gpu

import (
	"bytes"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mirage3d/mirage/raymarch/rm/core"
)

// GpuBufferManager owns the long-lived buffers of the effect renderer and
// the create-or-grow policy for the dynamic ones.
type GpuBufferManager struct {
	Device *wgpu.Device

	FrameBuf         *wgpu.Buffer // packed FrameUniforms block
	OverlayCameraBuf *wgpu.Buffer // raster camera block for the gizmo overlay
	QuadVB           *wgpu.Buffer
	QuadIB           *wgpu.Buffer
	TextVB           *wgpu.Buffer

	stagedFrames int
}

func NewGpuBufferManager(device *wgpu.Device) *GpuBufferManager {
	return &GpuBufferManager{Device: device}
}

func (m *GpuBufferManager) ensureBuffer(name string, buf **wgpu.Buffer, data []byte, usage wgpu.BufferUsage, headroom int) bool {
	neededSize := uint64(len(data) + headroom)
	if neededSize%4 != 0 {
		neededSize += 4 - (neededSize % 4)
	}

	current := *buf
	if current == nil || current.GetSize() < neededSize {
		if current != nil {
			current.Release()
		}

		newBuf, err := m.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: name,
			Size:  neededSize,
			Usage: usage | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			panic(err)
		}
		*buf = newBuf

		if len(data) > 0 {
			m.Device.GetQueue().WriteBuffer(*buf, 0, data)
		}
		return true
	}

	if len(data) > 0 {
		m.Device.GetQueue().WriteBuffer(*buf, 0, data)
	}
	return false
}

// InitQuadGeometry uploads the fixed effect quad. The vertex table and index
// order come from core.ScreenQuad and never change afterwards.
func (m *GpuBufferManager) InitQuadGeometry() {
	var vb bytes.Buffer
	for _, v := range core.ScreenQuad() {
		binary.Write(&vb, binary.LittleEndian, v.UV)
		binary.Write(&vb, binary.LittleEndian, v.Pos)
		binary.Write(&vb, binary.LittleEndian, v.Corner)
	}
	m.ensureBuffer("EffectQuadVB", &m.QuadVB, vb.Bytes(), wgpu.BufferUsageVertex, 0)

	var ib bytes.Buffer
	binary.Write(&ib, binary.LittleEndian, core.QuadIndices())
	m.ensureBuffer("EffectQuadIB", &m.QuadIB, ib.Bytes(), wgpu.BufferUsageIndex, 0)
}

// StageFrame uploads the packed frame uniforms. The passthrough path never
// calls this; StagedFrames makes that observable.
func (m *GpuBufferManager) StageFrame(u *FrameUniforms) {
	m.ensureBuffer("FrameUniformsUB", &m.FrameBuf, u.Pack(), wgpu.BufferUsageUniform, 0)
	m.stagedFrames++
}

func (m *GpuBufferManager) StagedFrames() int { return m.stagedFrames }

// StageOverlayCamera packs the raster camera block used by the overlay
// passes. Layout: view 0, proj 64, inv_view 128, cam_pos 192, padded to 256.
func (m *GpuBufferManager) StageOverlayCamera(view, proj, invView mgl32.Mat4, camPos mgl32.Vec3) {
	buf := make([]byte, 256)

	writeMat := func(offset int, mat mgl32.Mat4) {
		for i, v := range mat {
			binary.LittleEndian.PutUint32(buf[offset+i*4:], math.Float32bits(v))
		}
	}
	writeMat(0, view)
	writeMat(64, proj)
	writeMat(128, invView)

	binary.LittleEndian.PutUint32(buf[192:], math.Float32bits(camPos.X()))
	binary.LittleEndian.PutUint32(buf[196:], math.Float32bits(camPos.Y()))
	binary.LittleEndian.PutUint32(buf[200:], math.Float32bits(camPos.Z()))
	binary.LittleEndian.PutUint32(buf[204:], 0)

	m.ensureBuffer("OverlayCameraUB", &m.OverlayCameraBuf, buf, wgpu.BufferUsageUniform, 0)
}

// StageText uploads the overlay glyph vertices, growing the buffer with
// headroom when the text gets longer. Returns the vertex count to draw.
func (m *GpuBufferManager) StageText(verts []core.TextVertex) uint32 {
	if len(verts) == 0 {
		return 0
	}
	size := len(verts) * int(unsafe.Sizeof(core.TextVertex{}))
	data := unsafe.Slice((*byte)(unsafe.Pointer(&verts[0])), size)
	m.ensureBuffer("OverlayTextVB", &m.TextVB, data, wgpu.BufferUsageVertex, 4096)
	return uint32(len(verts))
}
