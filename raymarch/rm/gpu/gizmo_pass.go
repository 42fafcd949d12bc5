package gpu

import (
	"math"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mirage3d/mirage/raymarch/rm/core"
)

// GizmoVertex matches the WGSL vertex input.
type GizmoVertex struct {
	Pos [3]float32
}

// GizmoInstance matches the WGSL instance attributes.
type GizmoInstance struct {
	ModelMat mgl32.Mat4
	Color    [4]float32
}

var gizmoShapeOrder = []core.GizmoType{
	core.GizmoLine, core.GizmoCube, core.GizmoSphere, core.GizmoRect, core.GizmoCircle,
}

// GizmoRenderPass draws debug line shapes over the final image. All unit
// shapes live in one static vertex buffer; per-frame instances carry a model
// matrix and a color.
type GizmoRenderPass struct {
	Pipeline       *wgpu.RenderPipeline
	VertexBuffer   *wgpu.Buffer
	ShapeOffsets   map[core.GizmoType]uint32
	ShapeCounts    map[core.GizmoType]uint32
	InstanceBuffer *wgpu.Buffer
	InstanceCap    uint32
	GizmosByShape  map[core.GizmoType][]GizmoInstance
	Device         *wgpu.Device
}

func NewGizmoRenderPass(device *wgpu.Device, format wgpu.TextureFormat, wgsl string) (*GizmoRenderPass, error) {
	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "GizmoShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: wgsl},
	})
	if err != nil {
		return nil, err
	}

	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "GizmoCameraBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: 256, // overlay camera block
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		return nil, err
	}

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "GizmoPipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(unsafe.Sizeof(GizmoVertex{})),
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
					},
				},
				{
					ArrayStride: uint64(unsafe.Sizeof(GizmoInstance{})),
					StepMode:    wgpu.VertexStepModeInstance,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 2},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 3},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 4},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 5},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 64, ShaderLocation: 6},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
						Alpha: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
					},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyLineList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	p := &GizmoRenderPass{
		Pipeline:      pipeline,
		Device:        device,
		ShapeOffsets:  make(map[core.GizmoType]uint32),
		ShapeCounts:   make(map[core.GizmoType]uint32),
		GizmosByShape: make(map[core.GizmoType][]GizmoInstance),
	}

	var vertices []GizmoVertex
	addShape := func(t core.GizmoType, shape []GizmoVertex) {
		p.ShapeOffsets[t] = uint32(len(vertices))
		p.ShapeCounts[t] = uint32(len(shape))
		vertices = append(vertices, shape...)
	}
	addShape(core.GizmoLine, unitLine())
	addShape(core.GizmoCube, unitCube())
	addShape(core.GizmoSphere, unitSphere())
	addShape(core.GizmoRect, unitRect())
	addShape(core.GizmoCircle, unitCircle())

	vSize := uint64(len(vertices) * int(unsafe.Sizeof(GizmoVertex{})))
	p.VertexBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "GizmoUnitVertexBuffer",
		Size:  vSize,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	device.GetQueue().WriteBuffer(p.VertexBuffer, 0, unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), vSize))

	return p, nil
}

// Unit line from the origin along Z+; instances scale Z to the segment
// length and rotate Z+ onto the segment direction.
func unitLine() []GizmoVertex {
	return []GizmoVertex{
		{Pos: [3]float32{0, 0, 0}},
		{Pos: [3]float32{0, 0, 1}},
	}
}

func unitCube() []GizmoVertex {
	const lo, hi = float32(-0.5), float32(0.5)
	corners := [8][3]float32{
		{lo, lo, lo}, {hi, lo, lo}, {hi, lo, hi}, {lo, lo, hi},
		{lo, hi, lo}, {hi, hi, lo}, {hi, hi, hi}, {lo, hi, hi},
	}
	edges := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0}, // bottom
		{4, 5}, {5, 6}, {6, 7}, {7, 4}, // top
		{0, 4}, {1, 5}, {2, 6}, {3, 7}, // pillars
	}
	verts := make([]GizmoVertex, 0, len(edges)*2)
	for _, e := range edges {
		verts = append(verts, GizmoVertex{Pos: corners[e[0]]}, GizmoVertex{Pos: corners[e[1]]})
	}
	return verts
}

const gizmoCircleSteps = 32

func unitSphere() []GizmoVertex {
	verts := make([]GizmoVertex, 0, gizmoCircleSteps*6)
	step := 2 * math.Pi / gizmoCircleSteps
	for i := 0; i < gizmoCircleSteps; i++ {
		c1, s1 := float32(math.Cos(float64(i)*step)), float32(math.Sin(float64(i)*step))
		c2, s2 := float32(math.Cos(float64(i+1)*step)), float32(math.Sin(float64(i+1)*step))
		verts = append(verts,
			GizmoVertex{Pos: [3]float32{c1, s1, 0}}, GizmoVertex{Pos: [3]float32{c2, s2, 0}},
			GizmoVertex{Pos: [3]float32{c1, 0, s1}}, GizmoVertex{Pos: [3]float32{c2, 0, s2}},
			GizmoVertex{Pos: [3]float32{0, c1, s1}}, GizmoVertex{Pos: [3]float32{0, c2, s2}},
		)
	}
	return verts
}

func unitRect() []GizmoVertex {
	const lo, hi = float32(-0.5), float32(0.5)
	return []GizmoVertex{
		{Pos: [3]float32{lo, lo, 0}}, {Pos: [3]float32{hi, lo, 0}},
		{Pos: [3]float32{hi, lo, 0}}, {Pos: [3]float32{hi, hi, 0}},
		{Pos: [3]float32{hi, hi, 0}}, {Pos: [3]float32{lo, hi, 0}},
		{Pos: [3]float32{lo, hi, 0}}, {Pos: [3]float32{lo, lo, 0}},
	}
}

func unitCircle() []GizmoVertex {
	verts := make([]GizmoVertex, 0, gizmoCircleSteps*2)
	step := 2 * math.Pi / gizmoCircleSteps
	for i := 0; i < gizmoCircleSteps; i++ {
		verts = append(verts,
			GizmoVertex{Pos: [3]float32{float32(math.Cos(float64(i) * step)), float32(math.Sin(float64(i) * step)), 0}},
			GizmoVertex{Pos: [3]float32{float32(math.Cos(float64(i+1) * step)), float32(math.Sin(float64(i+1) * step)), 0}},
		)
	}
	return verts
}

// Update rebuilds the per-frame instance list from gizmos and uploads it,
// growing the instance buffer with a margin when needed.
func (p *GizmoRenderPass) Update(queue *wgpu.Queue, gizmos []core.Gizmo) {
	for k := range p.GizmosByShape {
		p.GizmosByShape[k] = p.GizmosByShape[k][:0]
	}

	for _, g := range gizmos {
		inst := GizmoInstance{Color: g.Color}

		if g.Type == core.GizmoLine {
			wp1 := g.ModelMatrix.Mul4x1(g.P1.Vec4(1)).Vec3()
			wp2 := g.ModelMatrix.Mul4x1(g.P2.Vec4(1)).Vec3()
			diff := wp2.Sub(wp1)
			dist := diff.Len()
			if dist < 0.0001 {
				continue
			}
			rot := mgl32.QuatBetweenVectors(mgl32.Vec3{0, 0, 1}, diff.Normalize())
			inst.ModelMat = mgl32.Translate3D(wp1.X(), wp1.Y(), wp1.Z()).
				Mul4(rot.Mat4()).
				Mul4(mgl32.Scale3D(1, 1, dist))
		} else {
			inst.ModelMat = g.ModelMatrix
		}

		p.GizmosByShape[g.Type] = append(p.GizmosByShape[g.Type], inst)
	}

	var all []GizmoInstance
	for _, shape := range gizmoShapeOrder {
		all = append(all, p.GizmosByShape[shape]...)
	}
	if len(all) == 0 {
		return
	}

	count := uint32(len(all))
	if p.InstanceBuffer == nil || p.InstanceCap < count {
		if p.InstanceBuffer != nil {
			p.InstanceBuffer.Release()
		}
		p.InstanceCap = count + 64
		var err error
		p.InstanceBuffer, err = p.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "GizmoInstanceBuffer",
			Size:  uint64(p.InstanceCap) * uint64(unsafe.Sizeof(GizmoInstance{})),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			panic(err)
		}
	}
	queue.WriteBuffer(p.InstanceBuffer, 0,
		unsafe.Slice((*byte)(unsafe.Pointer(&all[0])), len(all)*int(unsafe.Sizeof(GizmoInstance{}))))
}

// Draw issues one instanced draw per shape in a fixed order matching the
// instance buffer layout built by Update.
func (p *GizmoRenderPass) Draw(pass *wgpu.RenderPassEncoder, cameraBindGroup *wgpu.BindGroup) {
	if p.InstanceBuffer == nil {
		return
	}

	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, cameraBindGroup, nil)
	pass.SetVertexBuffer(0, p.VertexBuffer, 0, p.VertexBuffer.GetSize())
	pass.SetVertexBuffer(1, p.InstanceBuffer, 0, p.InstanceBuffer.GetSize())

	var instanceOffset uint32
	for _, shape := range gizmoShapeOrder {
		count := uint32(len(p.GizmosByShape[shape]))
		if count > 0 {
			pass.Draw(p.ShapeCounts[shape], count, p.ShapeOffsets[shape], instanceOffset)
		}
		instanceOffset += count
	}
}

// CreateCameraBindGroup binds the overlay camera buffer for this pass.
func (p *GizmoRenderPass) CreateCameraBindGroup(cameraBuffer *wgpu.Buffer) (*wgpu.BindGroup, error) {
	return p.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "GizmoCameraBG",
		Layout: p.Pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: cameraBuffer, Size: 256},
		},
	})
}
