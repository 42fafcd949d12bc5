package gpu

import (
	"errors"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/mirage3d/mirage/raymarch/rm/core"
)

// ErrNoPipeline reports that the effect pipeline is not available. Callers
// fall back to the passthrough copy and retry on the next frame.
var ErrNoPipeline = errors.New("effect pipeline unavailable")

// EffectPass owns the fullscreen raymarch pipelines. Both fragment variants
// share one explicit layout so the same bind groups serve either.
type EffectPass struct {
	Pipeline     *wgpu.RenderPipeline // fs_main
	PerfPipeline *wgpu.RenderPipeline // fs_perf iteration heatmap

	FrameBGL   *wgpu.BindGroupLayout
	TextureBGL *wgpu.BindGroupLayout

	FrameBindGroup   *wgpu.BindGroup
	TextureBindGroup *wgpu.BindGroup

	perf *FeatureToggle
}

func NewEffectPass(device *wgpu.Device, format wgpu.TextureFormat, wgsl string) (*EffectPass, error) {
	if wgsl == "" {
		return nil, ErrNoPipeline
	}

	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "EffectShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: wgsl},
	})
	if err != nil {
		return nil, err
	}

	frameBGL, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "EffectFrameBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: FrameUniformsSize,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	texEntries := make([]wgpu.BindGroupLayoutEntry, 0, len(EffectTextures)+1)
	for _, tb := range EffectTextures {
		texEntries = append(texEntries, wgpu.BindGroupLayoutEntry{
			Binding:    tb.Binding,
			Visibility: wgpu.ShaderStageFragment,
			Texture: wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
			},
		})
	}
	texEntries = append(texEntries, wgpu.BindGroupLayoutEntry{
		Binding:    uint32(len(EffectTextures)),
		Visibility: wgpu.ShaderStageFragment,
		Sampler: wgpu.SamplerBindingLayout{
			Type: wgpu.SamplerBindingTypeFiltering,
		},
	})
	textureBGL, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "EffectTextureBGL",
		Entries: texEntries,
	})
	if err != nil {
		return nil, err
	}

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{frameBGL, textureBGL},
	})
	if err != nil {
		return nil, err
	}

	vertexLayout := wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(core.QuadVertex{})),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
			{Format: wgpu.VertexFormatUint32, Offset: 16, ShaderLocation: 2},
		},
	}

	makePipeline := func(label, entry string) (*wgpu.RenderPipeline, error) {
		return device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
			Label:  label,
			Layout: layout,
			Vertex: wgpu.VertexState{
				Module:     shaderModule,
				EntryPoint: "vs_main",
				Buffers:    []wgpu.VertexBufferLayout{vertexLayout},
			},
			Fragment: &wgpu.FragmentState{
				Module:     shaderModule,
				EntryPoint: entry,
				Targets: []wgpu.ColorTargetState{
					{Format: format, WriteMask: wgpu.ColorWriteMaskAll},
				},
			},
			Primitive: wgpu.PrimitiveState{
				Topology:  wgpu.PrimitiveTopologyTriangleList,
				FrontFace: wgpu.FrontFaceCCW,
				CullMode:  wgpu.CullModeNone,
			},
			Multisample: wgpu.MultisampleState{
				Count: 1,
				Mask:  0xFFFFFFFF,
			},
		})
	}

	pipeline, err := makePipeline("EffectPipeline", "fs_main")
	if err != nil {
		return nil, err
	}
	perfPipeline, err := makePipeline("EffectPerfPipeline", "fs_perf")
	if err != nil {
		return nil, err
	}

	return &EffectPass{
		Pipeline:     pipeline,
		PerfPipeline: perfPipeline,
		FrameBGL:     frameBGL,
		TextureBGL:   textureBGL,
		perf:         NewFeatureToggle(PerfDebugFlag, false),
	}, nil
}

// BindFrame attaches the packed uniform buffer as group 0.
func (p *EffectPass) BindFrame(device *wgpu.Device, frameBuf *wgpu.Buffer) error {
	bg, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "EffectFrameBG",
		Layout: p.FrameBGL,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: frameBuf, Size: FrameUniformsSize},
		},
	})
	if err != nil {
		return err
	}
	if p.FrameBindGroup != nil {
		p.FrameBindGroup.Release()
	}
	p.FrameBindGroup = bg
	return nil
}

// BindTextures attaches the source and ramp views plus the shared sampler as
// group 1, in EffectTextures order.
func (p *EffectPass) BindTextures(device *wgpu.Device, source, rampMaterial, rampPerf *wgpu.TextureView, sampler *wgpu.Sampler) error {
	bg, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "EffectTextureBG",
		Layout: p.TextureBGL,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: source},
			{Binding: 1, TextureView: rampMaterial},
			{Binding: 2, TextureView: rampPerf},
			{Binding: 3, Sampler: sampler},
		},
	})
	if err != nil {
		return err
	}
	if p.TextureBindGroup != nil {
		p.TextureBindGroup.Release()
	}
	p.TextureBindGroup = bg
	return nil
}

// SetPerfDebug switches the fragment variant, reporting whether the state
// actually changed.
func (p *EffectPass) SetPerfDebug(enabled bool) bool {
	return p.perf.Set(enabled)
}

func (p *EffectPass) PerfDebug() bool { return p.perf.Enabled() }

// PerfSwitches counts real variant transitions since creation.
func (p *EffectPass) PerfSwitches() int { return p.perf.Switches() }

// Encode draws the effect quad: pipeline and bind groups first, then the
// geometry, then the indexed draw.
func (p *EffectPass) Encode(pass *wgpu.RenderPassEncoder, m *GpuBufferManager) {
	active := p.Pipeline
	if p.perf.Enabled() {
		active = p.PerfPipeline
	}

	pass.SetPipeline(active)
	pass.SetBindGroup(0, p.FrameBindGroup, nil)
	pass.SetBindGroup(1, p.TextureBindGroup, nil)
	pass.SetVertexBuffer(0, m.QuadVB, 0, m.QuadVB.GetSize())
	pass.SetIndexBuffer(m.QuadIB, wgpu.IndexFormatUint32, 0, m.QuadIB.GetSize())
	pass.DrawIndexed(uint32(len(core.QuadIndices())), 1, 0, 0, 0)
}
