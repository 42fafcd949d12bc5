package mirage

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	rmapp "github.com/mirage3d/mirage/raymarch/rm/app"
	"github.com/mirage3d/mirage/raymarch/rm/core"
)

// TorusComponent marks the raymarched torus entity. Zero values fall back
// to the stock animation (amplitude 5, spin 200 deg/s).
type TorusComponent struct {
	Amplitude     float32
	SpinDegPerSec float32
}

const (
	defaultTorusAmplitude = float32(5)
	defaultTorusSpin      = float32(200)
)

func (t TorusComponent) params() (amplitude, spin float32) {
	amplitude = t.Amplitude
	if amplitude == 0 {
		amplitude = defaultTorusAmplitude
	}
	spin = t.SpinDegPerSec
	if spin == 0 {
		spin = defaultTorusSpin
	}
	return amplitude, spin
}

// RaymarchModule installs the raymarching renderer and the systems syncing
// ECS state into it once per frame.
//
// EffectPath optionally loads the effect WGSL through the AssetServer
// instead of the embedded source; when the file is missing the renderer
// keeps blitting the untouched source image until a later resolve succeeds.
// MaterialRamp and PerfRamp override the stock color ramps with textures
// created on the AssetServer.
type RaymarchModule struct {
	WindowWidth  int
	WindowHeight int
	WindowTitle  string

	FontPath     string
	EffectPath   string
	DrawDistance float32

	MaterialRamp AssetId
	PerfRamp     AssetId

	PerfDebug    bool
	DebugOverlay bool
}

// RaymarchState is the resource bridging the ECS world and the renderer.
// All methods tolerate a missing renderer so headless tests can construct
// the state directly.
type RaymarchState struct {
	RmApp *rmapp.App

	// Camera entity handle, resolved on first use and kept until the
	// entity disappears.
	cameraEntity EntityId
	cameraFound  bool

	debugOverlay bool
	showFrustum  bool
}

func (s *RaymarchState) WindowSize() (int, int) {
	if s == nil || s.RmApp == nil || s.RmApp.Config == nil {
		return 0, 0
	}
	return int(s.RmApp.Config.Width), int(s.RmApp.Config.Height)
}

func (s *RaymarchState) FPS() float64 {
	if s == nil || s.RmApp == nil {
		return 0
	}
	return s.RmApp.FPS
}

func (s *RaymarchState) ProfilerStats() string {
	if s == nil || s.RmApp == nil || s.RmApp.Profiler == nil {
		return ""
	}
	return s.RmApp.Profiler.StatsString()
}

func (s *RaymarchState) DrawText(text string, x, y, scale float32, color [4]float32) {
	if s == nil || s.RmApp == nil {
		return
	}
	s.RmApp.DrawText(text, x, y, scale, color)
}

func (s *RaymarchState) DebugOverlay() bool { return s != nil && s.debugOverlay }

func (s *RaymarchState) SetDebugOverlay(enabled bool) {
	if s != nil {
		s.debugOverlay = enabled
	}
}

// SetPerformanceDebug switches the effect to the iteration heatmap variant.
func (s *RaymarchState) SetPerformanceDebug(enabled bool) {
	if s != nil && s.RmApp != nil {
		s.RmApp.SetPerfDebug(enabled)
	}
}

// SetFrustumDebug toggles the frustum corner-ray visualization.
func (s *RaymarchState) SetFrustumDebug(enabled bool) {
	if s != nil {
		s.showFrustum = enabled
	}
}

func (mod RaymarchModule) Install(app *App, cmd *Commands) {
	ws := GetResource[WindowState](app)
	if ws == nil {
		width := mod.WindowWidth
		if width <= 0 {
			width = 1280
		}
		height := mod.WindowHeight
		if height <= 0 {
			height = 720
		}
		title := mod.WindowTitle
		if title == "" {
			title = "Mirage"
		}
		ws = createWindowState(width, height, title)
		cmd.AddResources(ws)
	}

	rm := rmapp.NewApp(ws.Window())
	if mod.FontPath != "" {
		rm.FontPath = mod.FontPath
	}
	if mod.DrawDistance > 0 {
		rm.DrawDistance = mod.DrawDistance
	}

	assets := GetResource[AssetServer](app)
	if mod.EffectPath != "" {
		rm.EffectWGSL = ""
		if assets == nil {
			app.Logger().Warnf("EffectPath %q set but no AssetServer installed", mod.EffectPath)
		} else if shader, err := assets.LoadShader(mod.EffectPath); err != nil {
			app.Logger().Warnf("effect shader %q not loaded: %v", mod.EffectPath, err)
		} else if src, ok := assets.ShaderSource(shader); ok {
			rm.EffectWGSL = src
		}
	}

	if err := rm.Init(); err != nil {
		panic(err)
	}

	if assets != nil {
		if mod.MaterialRamp != "" {
			if tex, ok := assets.Texture(mod.MaterialRamp); ok {
				rm.SetMaterialRamp(tex.Texels())
			}
		}
		if mod.PerfRamp != "" {
			if tex, ok := assets.Texture(mod.PerfRamp); ok {
				rm.SetPerfRamp(tex.Texels())
			}
		}
	}
	rm.SetPerfDebug(mod.PerfDebug)

	state := &RaymarchState{
		RmApp:        rm,
		debugOverlay: mod.DebugOverlay,
	}
	cmd.AddResources(state)

	app.UseSystem(
		System(raymarchDebugSystem).
			InStage(Update).
			RunAlways(),
	)
	app.UseSystem(
		System(raymarchSyncSystem).
			InStage(PostUpdate).
			RunAlways(),
	)
	app.UseSystem(
		System(raymarchRenderSystem).
			InStage(Render).
			RunAlways(),
	)
}

// cameraPose returns the scene camera, caching the entity handle so
// subsequent frames skip the archetype scan.
func (s *RaymarchState) cameraPose(cmd *Commands) (CameraComponent, bool) {
	if s.cameraFound {
		for _, c := range cmd.GetAllComponents(s.cameraEntity) {
			switch cam := c.(type) {
			case CameraComponent:
				return cam, true
			case *CameraComponent:
				return *cam, true
			}
		}
		s.cameraFound = false
	}

	var found CameraComponent
	ok := false
	MakeQuery1[CameraComponent](cmd).Map(func(eid EntityId, cam *CameraComponent) bool {
		s.cameraEntity = eid
		s.cameraFound = true
		found = *cam
		ok = true
		return false
	})
	return found, ok
}

// sceneTorusModel composes the animated torus model matrix. The transform
// is optional; a torus without one animates around the origin.
func sceneTorusModel(cmd *Commands, elapsed float64) mgl32.Mat4 {
	model := mgl32.Ident4()
	MakeQuery2[TorusComponent, TransformComponent](cmd).Map(func(eid EntityId, torus *TorusComponent, tr *TransformComponent) bool {
		amplitude, spin := torus.params()
		orbit := core.OrbitTransform(elapsed, amplitude, spin)
		if tr != nil {
			model = mgl32.Translate3D(tr.Position.X(), tr.Position.Y(), tr.Position.Z()).Mul4(orbit)
		} else {
			model = orbit
		}
		return false
	}, TransformComponent{})
	return model
}

// sceneLightDir picks the first directional light and rotates its forward
// axis. Without one the renderer default of (0,0,-1) stands.
func sceneLightDir(cmd *Commands) mgl32.Vec3 {
	dir := mgl32.Vec3{0, 0, -1}
	MakeQuery2[TransformComponent, LightComponent](cmd).Map(func(eid EntityId, tr *TransformComponent, light *LightComponent) bool {
		if light.Type != LightTypeDirectional {
			return true
		}
		dir = tr.Rotation.Rotate(mgl32.Vec3{0, 0, -1})
		return false
	})
	return dir
}

// gizmoToRenderer converts an ECS gizmo into a renderer line shape. The
// world transform takes precedence over the component's own pose fields.
func gizmoToRenderer(g *GizmoComponent, tr *TransformComponent) core.Gizmo {
	out := core.Gizmo{Color: g.Color}

	switch g.Type {
	case GizmoLine:
		out.Type = core.GizmoLine
	case GizmoCube:
		out.Type = core.GizmoCube
	case GizmoSphere:
		out.Type = core.GizmoSphere
	case GizmoRect:
		out.Type = core.GizmoRect
	case GizmoCircle:
		out.Type = core.GizmoCircle
	}

	position := g.Position
	rotation := g.Rotation
	scale := g.Scale
	if tr != nil {
		position = tr.Position
		rotation = tr.Rotation
		scale = tr.Scale
	}
	if rotation == (mgl32.Quat{}) {
		rotation = mgl32.QuatIdent()
	}
	if scale == (mgl32.Vec3{}) {
		scale = mgl32.Vec3{1, 1, 1}
	}
	if g.Radius > 0 && (g.Type == GizmoSphere || g.Type == GizmoCircle) {
		scale = scale.Mul(g.Radius)
	}

	out.ModelMatrix = mgl32.Translate3D(position.X(), position.Y(), position.Z()).
		Mul4(rotation.Mat4()).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))

	if g.Type == GizmoLine {
		// Line endpoints stay in the component; the model matrix carries
		// them into world space.
		out.ModelMatrix = mgl32.Ident4()
		out.P1 = position
		out.P2 = g.LineEnd
		if tr != nil {
			out.P2 = tr.Position.Add(g.LineEnd.Sub(g.Position))
		}
	}

	return out
}

// raymarchDebugSystem handles the debug hotkeys: F1 stats overlay, F2
// performance heatmap, F3 frustum gizmo.
func raymarchDebugSystem(input *Input, state *RaymarchState) {
	if state == nil || state.RmApp == nil {
		return
	}
	if input.JustPressed[KeyF1] {
		state.debugOverlay = !state.debugOverlay
	}
	if input.JustPressed[KeyF2] {
		state.RmApp.SetPerfDebug(!state.RmApp.PerfDebug())
	}
	if input.JustPressed[KeyF3] {
		state.showFrustum = !state.showFrustum
	}
}

func raymarchSyncSystem(state *RaymarchState, time *Time, cmd *Commands) {
	if state == nil || state.RmApp == nil {
		return
	}
	rm := state.RmApp
	prof := rm.Profiler

	rm.ClearOverlays()

	// Overlay text reflects the previous frame's timings, composed before
	// the profiler resets for this frame.
	if state.debugOverlay {
		drawDebugOverlay(state)
	}
	prof.Reset()

	prof.BeginScope("Sync Camera")
	if cam, ok := state.cameraPose(cmd); ok {
		rm.Camera.Position = cam.Position
		rm.Camera.Yaw = mgl32.DegToRad(cam.Yaw)
		rm.Camera.Pitch = mgl32.DegToRad(cam.Pitch)
		if cam.Fov > 0 {
			rm.Camera.Fov = cam.Fov
		}
	}
	prof.EndScope("Sync Camera")

	prof.BeginScope("Sync Torus")
	rm.TorusModel = sceneTorusModel(cmd, time.Elapsed())
	prof.EndScope("Sync Torus")

	prof.BeginScope("Sync Light")
	rm.LightDir = sceneLightDir(cmd)
	prof.EndScope("Sync Light")

	prof.BeginScope("Sync Overlays")
	gizmos := 0
	MakeQuery2[GizmoComponent, TransformComponent](cmd).Map(func(eid EntityId, g *GizmoComponent, tr *TransformComponent) bool {
		rm.DrawGizmo(gizmoToRenderer(g, tr))
		gizmos++
		return true
	}, TransformComponent{})
	if state.showFrustum {
		drawFrustumGizmo(rm)
	}
	MakeQuery1[TextComponent](cmd).Map(func(eid EntityId, text *TextComponent) bool {
		rm.DrawText(text.Text, text.Position[0], text.Position[1], text.Scale, text.Color)
		return true
	})
	prof.EndScope("Sync Overlays")
	prof.SetCount("Gizmos", gizmos)
}

func raymarchRenderSystem(state *RaymarchState, ws *WindowState, cmd *Commands) {
	if state == nil || state.RmApp == nil {
		return
	}
	rm := state.RmApp

	if ws.ShouldClose() {
		cmd.Quit()
		return
	}

	// Track framebuffer resizes before staging.
	w, h := ws.Window().GetFramebufferSize()
	if w > 0 && h > 0 && (uint32(w) != rm.Config.Width || uint32(h) != rm.Config.Height) {
		rm.Resize(w, h)
	}

	prof := rm.Profiler
	prof.BeginScope("GPU Update")
	rm.Update()
	prof.EndScope("GPU Update")

	prof.BeginScope("GPU Render")
	rm.Render()
	prof.EndScope("GPU Render")

	prof.SetCount("Staged Frames", rm.Buffers.StagedFrames())
	if rm.Effect != nil {
		prof.SetCount("Perf Switches", rm.Effect.PerfSwitches())
	}
}

// drawFrustumGizmo visualizes the camera frustum with the same corner
// solver the effect uses. The rays are normalized on a local copy only; the
// staged uniforms keep the raw, unnormalized basis.
func drawFrustumGizmo(rm *rmapp.App) {
	aspect := float32(1)
	if rm.Config != nil && rm.Config.Height > 0 {
		aspect = float32(rm.Config.Width) / float32(rm.Config.Height)
	}

	basis, err := core.CornerRays(rm.Camera.Fov, aspect)
	if err != nil {
		return
	}

	invView := rm.Camera.GetViewMatrix().Inv()
	dirs := basis.Transformed(invView).Normalized()

	origin := rm.Camera.Position
	dist := rm.DrawDistance

	var far [4]mgl32.Vec3
	for i, d := range dirs {
		far[i] = origin.Add(d.Mul(dist))
	}

	edgeColor := [4]float32{1, 0.8, 0.1, 1}
	rectColor := [4]float32{1, 0.55, 0.05, 1}
	for i := range far {
		rm.DrawGizmo(core.Gizmo{
			Type:        core.GizmoLine,
			Color:       edgeColor,
			ModelMatrix: mgl32.Ident4(),
			P1:          origin,
			P2:          far[i],
		})
	}
	// Far plane outline: TL-TR-BR-BL-TL.
	order := [4]int{core.CornerTopLeft, core.CornerTopRight, core.CornerBottomRight, core.CornerBottomLeft}
	for i := 0; i < 4; i++ {
		rm.DrawGizmo(core.Gizmo{
			Type:        core.GizmoLine,
			Color:       rectColor,
			ModelMatrix: mgl32.Ident4(),
			P1:          far[order[i]],
			P2:          far[order[(i+1)%4]],
		})
	}
}

func drawDebugOverlay(state *RaymarchState) {
	rm := state.RmApp
	white := [4]float32{1, 1, 1, 1}

	y := float32(10)
	rm.DrawText(fmt.Sprintf("FPS: %.1f", rm.FPS), 10, y, 0.5, white)
	y += 20

	variant := "lit"
	if rm.PerfDebug() {
		variant = "perf heatmap"
	}
	rm.DrawText(fmt.Sprintf("shader: %s", variant), 10, y, 0.5, white)
	y += 20

	if rm.Effect == nil {
		rm.DrawText("effect: unavailable (passthrough)", 10, y, 0.5, [4]float32{1, 0.4, 0.3, 1})
		y += 20
	}

	for _, line := range splitLines(rm.Profiler.StatsString()) {
		rm.DrawText(line, 10, y, 0.45, white)
		y += 16
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			if i > start {
				lines = append(lines, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
