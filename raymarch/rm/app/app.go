package app

import (
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mirage3d/mirage/raymarch/rm/core"
	"github.com/mirage3d/mirage/raymarch/rm/gpu"
	"github.com/mirage3d/mirage/raymarch/rm/shaders"
)

// App owns the surface and every render pass of the raymarch renderer.
// Single threaded and frame synchronous: Update stages all GPU state for
// the frame on the queue, Render encodes the passes and presents.
//
// Frame layout: a background pass fills the offscreen source texture, then
// the raymarch effect composites it onto the swapchain. While the effect
// pipeline is unavailable the source is blitted through untouched instead.
// Gizmo lines and overlay text draw on top either way.
type App struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	// Offscreen image the effect reads as _MainTex.
	SourceTexture *wgpu.Texture
	SourceView    *wgpu.TextureView
	Sampler       *wgpu.Sampler

	BackgroundPipeline  *wgpu.RenderPipeline
	PassthroughPipeline *wgpu.RenderPipeline
	PassthroughBG       *wgpu.BindGroup

	// Raymarch pass, resolved lazily. Creation is retried every frame
	// until it succeeds; frames fall back to the passthrough blit while
	// it is missing.
	Effect      *gpu.EffectPass
	EffectWGSL  string
	EffectTries int
	perfWanted  bool

	MaterialRampView *wgpu.TextureView
	PerfRampView     *wgpu.TextureView

	Buffers *gpu.GpuBufferManager

	GizmoPass     *gpu.GizmoRenderPass
	GizmoCameraBG *wgpu.BindGroup
	Gizmos        []core.Gizmo

	FontPath        string
	TextAtlas       *core.TextAtlas
	TextPipeline    *wgpu.RenderPipeline
	TextAtlasView   *wgpu.TextureView
	TextBindGroup   *wgpu.BindGroup
	TextVerts       []core.TextVertex
	TextVertexCount uint32

	// Scene inputs, written by the ECS bridge before Update.
	Camera       *core.CameraState
	TorusModel   mgl32.Mat4
	LightDir     mgl32.Vec3
	DrawDistance float32

	// Last uniforms that passed validation. Kept staged across frames
	// whose intrinsics are rejected.
	Frame *gpu.FrameUniforms

	Profiler *Profiler

	LastRenderTime float64
	FrameCount     int
	FPS            float64
	FPSTime        float64
}

func NewApp(window *glfw.Window) *App {
	return &App{
		Window:       window,
		Camera:       core.NewCameraState(),
		EffectWGSL:   shaders.RaymarchWGSL,
		FontPath:     "assets/Roboto-Medium.ttf",
		TorusModel:   mgl32.Ident4(),
		LightDir:     mgl32.Vec3{0, 0, -1},
		DrawDistance: 150,
		Profiler:     NewProfiler(),
	}
}

func (a *App) Init() error {
	// WebGPU Init
	a.Instance = wgpu.CreateInstance(nil)

	surface := a.Instance.CreateSurface(GetSurfaceDescriptor(a.Window))
	a.Surface = surface

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return err
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		return err
	}
	a.Queue = a.Device.GetQueue()

	// Config
	width, height := a.Window.GetFramebufferSize()
	caps := surface.GetCapabilities(adapter)
	format := caps.Formats[0]

	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, a.Device, a.Config)

	// Resources
	a.Buffers = gpu.NewGpuBufferManager(a.Device)
	a.Buffers.InitQuadGeometry()

	var samplerErr error
	a.Sampler, samplerErr = a.Device.CreateSampler(&wgpu.SamplerDescriptor{
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
	if samplerErr != nil {
		panic(samplerErr)
	}

	// Background Pipeline
	bgModule, _ := a.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Background Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.BackgroundWGSL},
	})
	a.BackgroundPipeline, err = a.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Background Pipeline",
		Vertex: wgpu.VertexState{
			Module:     bgModule,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     bgModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    wgpu.TextureFormatRGBA8Unorm,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return err
	}

	// Passthrough Pipeline (effect fallback)
	blitModule, _ := a.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Passthrough Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.PassthroughWGSL},
	})
	a.PassthroughPipeline, err = a.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Passthrough Pipeline",
		Vertex: wgpu.VertexState{
			Module:     blitModule,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     blitModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return err
	}

	a.setupSourceTexture(width, height)

	a.MaterialRampView = a.createRampTexture("Material Ramp", core.MaterialRamp().Texels(256))
	a.PerfRampView = a.createRampTexture("Perf Heat Ramp", core.HeatRamp().Texels(256))

	a.setupBindGroups()

	a.GizmoPass, err = gpu.NewGizmoRenderPass(a.Device, format, shaders.GizmoWGSL)
	if err != nil {
		return err
	}

	// Text Rendering Setup
	a.TextAtlas, err = core.NewTextAtlas(a.FontPath, 32)
	if err != nil {
		fmt.Printf("WARNING: Failed to initialize text overlay: %v\n", err)
		a.TextAtlas = nil
	} else {
		a.setupTextResources()
	}

	return nil
}

func (a *App) setupSourceTexture(w, h int) {
	if w == 0 || h == 0 {
		return
	}

	if a.SourceTexture != nil {
		a.SourceTexture.Release()
	}

	var err error
	a.SourceTexture, err = a.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Effect Source Tex",
		Size:          wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
		SampleCount:   1,
	})
	if err != nil {
		panic(err)
	}
	a.SourceView, err = a.SourceTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}
}

func (a *App) createRampTexture(label string, texels []uint8) *wgpu.TextureView {
	width := uint32(len(texels) / 4)
	tex, err := a.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          wgpu.Extent3D{Width: width, Height: 1, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		SampleCount:   1,
	})
	if err != nil {
		panic(err)
	}
	a.Queue.WriteTexture(tex.AsImageCopy(), texels, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  width * 4,
		RowsPerImage: 1,
	}, &wgpu.Extent3D{Width: width, Height: 1, DepthOrArrayLayers: 1})

	view, err := tex.CreateView(nil)
	if err != nil {
		panic(err)
	}
	return view
}

func (a *App) setupBindGroups() {
	var err error

	a.PassthroughBG, err = a.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: a.PassthroughPipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: a.SourceView},
		},
	})
	if err != nil {
		panic(err)
	}

	// The effect samples the source texture, so its texture bindings track
	// every source recreation.
	if a.Effect != nil {
		if err := a.Effect.BindTextures(a.Device, a.SourceView, a.MaterialRampView, a.PerfRampView, a.Sampler); err != nil {
			panic(err)
		}
	}
}

func (a *App) Resize(w, h int) {
	if w > 0 && h > 0 {
		a.Config.Width = uint32(w)
		a.Config.Height = uint32(h)
		a.Surface.Configure(a.Adapter, a.Device, a.Config)
		a.setupSourceTexture(w, h)
		a.setupBindGroups()
	}
}

// resolveEffect retries effect pass creation until it succeeds. Missing
// shader source is a normal state, not a fatal one.
func (a *App) resolveEffect() {
	if a.Effect != nil {
		return
	}
	eff, err := gpu.NewEffectPass(a.Device, a.Config.Format, a.EffectWGSL)
	if err != nil {
		a.EffectTries++
		if a.EffectTries == 1 {
			fmt.Printf("WARNING: raymarch effect unavailable, blitting source: %v\n", err)
		}
		return
	}
	a.Effect = eff
	a.Effect.SetPerfDebug(a.perfWanted)
	if err := a.Effect.BindTextures(a.Device, a.SourceView, a.MaterialRampView, a.PerfRampView, a.Sampler); err != nil {
		fmt.Printf("ERROR: effect texture binding failed: %v\n", err)
	}
}

func (a *App) effectDrawable() bool {
	return a.Effect != nil && a.Effect.FrameBindGroup != nil && a.Effect.TextureBindGroup != nil
}

// Update stages every buffer the frame needs. Frame uniforms are staged
// only when the effect pipeline exists; the passthrough path touches none.
func (a *App) Update() {
	a.resolveEffect()

	aspect := float32(1)
	if a.Config.Height > 0 {
		aspect = float32(a.Config.Width) / float32(a.Config.Height)
	}

	plan := PlanFrame(a.Effect != nil)
	if plan.StageUniforms {
		u, err := BuildFrameUniforms(a.Camera, aspect, a.TorusModel, a.LightDir, a.DrawDistance)
		if err != nil {
			fmt.Printf("ERROR: frame uniforms rejected: %v\n", err)
		} else {
			a.Frame = u
			a.Buffers.StageFrame(u)
			if a.Effect.FrameBindGroup == nil {
				if bindErr := a.Effect.BindFrame(a.Device, a.Buffers.FrameBuf); bindErr != nil {
					fmt.Printf("ERROR: frame bind group creation failed: %v\n", bindErr)
				}
			}
		}
	}

	// Overlay camera for gizmo lines, staged every frame.
	view := a.Camera.GetViewMatrix()
	proj := mgl32.Perspective(mgl32.DegToRad(a.Camera.Fov), aspect, 0.1, 1000.0)
	a.Buffers.StageOverlayCamera(view, proj, view.Inv(), a.Camera.Position)
	if a.GizmoCameraBG == nil {
		bg, err := a.GizmoPass.CreateCameraBindGroup(a.Buffers.OverlayCameraBuf)
		if err != nil {
			fmt.Printf("ERROR: gizmo camera bind group failed: %v\n", err)
		} else {
			a.GizmoCameraBG = bg
		}
	}
	a.GizmoPass.Update(a.Queue, a.Gizmos)

	a.TextVertexCount = 0
	if len(a.TextVerts) > 0 && a.TextAtlas != nil {
		a.TextVertexCount = a.Buffers.StageText(a.TextVerts)
	}
}

func (a *App) Render() {
	nextTexture, err := a.Surface.GetCurrentTexture()
	if err != nil {
		fmt.Printf("ERROR: GetCurrentTexture failed: %v\n", err)
		return
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		fmt.Printf("ERROR: CreateView failed: %v\n", err)
		return
	}
	defer view.Release()

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		fmt.Printf("ERROR: CreateCommandEncoder failed: %v\n", err)
		return
	}

	// Background Pass (into the effect source)
	bgPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       a.SourceView,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	bgPass.SetPipeline(a.BackgroundPipeline)
	bgPass.Draw(3, 1, 0, 0)
	err = bgPass.End()
	if err != nil {
		fmt.Printf("ERROR: background pass End failed: %v\n", err)
	}

	// Composite Pass (effect or passthrough, then overlays)
	rPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})

	if a.effectDrawable() {
		a.Effect.Encode(rPass, a.Buffers)
	} else {
		rPass.SetPipeline(a.PassthroughPipeline)
		rPass.SetBindGroup(0, a.PassthroughBG, nil)
		rPass.Draw(3, 1, 0, 0)
	}

	if a.GizmoCameraBG != nil {
		a.GizmoPass.Draw(rPass, a.GizmoCameraBG)
	}

	if a.TextVertexCount > 0 && a.TextPipeline != nil && a.Buffers.TextVB != nil {
		rPass.SetPipeline(a.TextPipeline)
		rPass.SetBindGroup(0, a.TextBindGroup, nil)
		rPass.SetVertexBuffer(0, a.Buffers.TextVB, 0, a.Buffers.TextVB.GetSize())
		rPass.Draw(a.TextVertexCount, 1, 0, 0)
	}

	err = rPass.End()
	if err != nil {
		fmt.Printf("ERROR: composite pass End failed: %v\n", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		fmt.Printf("ERROR: Encoder Finish failed: %v\n", err)
		return
	}
	a.Queue.Submit(cmd)
	a.Surface.Present()

	// Update FPS
	now := glfw.GetTime()
	if a.LastRenderTime > 0 {
		a.FrameCount++
		a.FPSTime += now - a.LastRenderTime
		if a.FPSTime >= 1.0 {
			a.FPS = float64(a.FrameCount) / a.FPSTime
			a.FrameCount = 0
			a.FPSTime = 0
		}
	}
	a.LastRenderTime = now
}

// SetPerfDebug requests the performance heatmap variant. The wanted state
// survives until the effect pipeline resolves.
func (a *App) SetPerfDebug(enabled bool) {
	a.perfWanted = enabled
	if a.Effect != nil {
		a.Effect.SetPerfDebug(enabled)
	}
}

func (a *App) PerfDebug() bool { return a.perfWanted }

// SetMaterialRamp swaps the material color ramp for externally provided
// RGBA texels (width x 1). Effect texture bindings are rebuilt if present.
func (a *App) SetMaterialRamp(texels []uint8) {
	if len(texels) < 4 {
		return
	}
	a.MaterialRampView = a.createRampTexture("Material Ramp", texels)
	a.setupBindGroups()
}

// SetPerfRamp swaps the heatmap ramp used by the performance debug variant.
func (a *App) SetPerfRamp(texels []uint8) {
	if len(texels) < 4 {
		return
	}
	a.PerfRampView = a.createRampTexture("Perf Heat Ramp", texels)
	a.setupBindGroups()
}

func (a *App) DrawGizmo(g core.Gizmo) {
	a.Gizmos = append(a.Gizmos, g)
}

func (a *App) DrawText(text string, x, y, scale float32, col [4]float32) {
	if a.TextAtlas == nil {
		return
	}
	a.TextVerts = a.TextAtlas.Append(a.TextVerts, text, x, y, scale, col, int(a.Config.Width), int(a.Config.Height))
}

// ClearOverlays drops the gizmos and text queued for the previous frame.
func (a *App) ClearOverlays() {
	a.Gizmos = a.Gizmos[:0]
	a.TextVerts = a.TextVerts[:0]
	a.TextVertexCount = 0
}

func GetSurfaceDescriptor(w *glfw.Window) *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(w)
}

func (a *App) setupTextResources() {
	tr := a.TextAtlas
	w, h := tr.Image.Bounds().Dx(), tr.Image.Bounds().Dy()
	tex, err := a.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Text Atlas",
		Size:          wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		Format:        wgpu.TextureFormatR8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		panic(err)
	}
	a.Queue.WriteTexture(tex.AsImageCopy(), tr.Image.Pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(w),
		RowsPerImage: uint32(h),
	}, &wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1})

	a.TextAtlasView, _ = tex.CreateView(nil)

	textMod, err := a.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Text Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.TextWGSL},
	})
	if err != nil {
		fmt.Printf("ERROR: Failed to create text shader module: %v\n", err)
		return
	}

	a.TextPipeline, err = a.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Text Pipeline",
		Vertex: wgpu.VertexState{
			Module:     textMod,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: uint64(unsafe.Sizeof(core.TextVertex{})),
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
					{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     textMod,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format: a.Config.Format,
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOne,
						Operation: wgpu.BlendOperationAdd,
					},
				},
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		fmt.Printf("ERROR: Failed to create text render pipeline: %v\n", err)
		return
	}

	a.TextBindGroup, err = a.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: a.TextPipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: a.TextAtlasView},
			{Binding: 1, Sampler: a.Sampler},
		},
	})
	if err != nil {
		fmt.Printf("ERROR: Failed to create text bind group: %v\n", err)
		return
	}
}
