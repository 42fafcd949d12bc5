package main

import (
	"flag"
	"image/color"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mirage3d/mirage"
	"github.com/mirage3d/mirage/raymarch/rm/core"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	width := flag.Int("width", 1280, "Window width")
	height := flag.Int("height", 720, "Window height")
	title := flag.String("title", "Mirage Raymarch", "Window title")
	font := flag.String("font", "", "TTF font for the HUD overlay")
	effect := flag.String("effect", "", "External effect WGSL (empty keeps the embedded shader)")
	perf := flag.Bool("perf", false, "Start with the performance heatmap")
	debug := flag.Bool("debug", false, "Start with the stats overlay")
	distance := flag.Float64("distance", 0, "Raymarch draw distance (0 keeps the default)")
	flag.Parse()

	app := mirage.NewAppBuilder().
		UseModule(
			mirage.LoggingModule{Prefix: "mirage", Debug: *debug},
			mirage.TimeModule{},
			mirage.NewPlatformWindow(*width, *height, *title),
			mirage.InputModule{},
			mirage.LifecycleModule{},
			mirage.HierarchyModule{},
			mirage.MotionModule{},
			mirage.FlyingCameraModule{},
			mirage.AssetServerModule{},
		).
		Build()

	assets := mirage.GetResource[mirage.AssetServer](app)
	material := assets.CreateRampTexture(256,
		core.RampStop{At: 0, Color: color.RGBA{R: 20, G: 24, B: 46, A: 255}},
		core.RampStop{At: 0.45, Color: color.RGBA{R: 70, G: 130, B: 180, A: 255}},
		core.RampStop{At: 0.8, Color: color.RGBA{R: 255, G: 160, B: 122, A: 255}},
		core.RampStop{At: 1, Color: color.RGBA{R: 253, G: 245, B: 230, A: 255}},
	)

	app.UseRendererWithWindow(mirage.RendererRaymarch, mirage.RaymarchModule{
		FontPath:     *font,
		EffectPath:   *effect,
		DrawDistance: float32(*distance),
		MaterialRamp: material,
		PerfDebug:    *perf,
		DebugOverlay: *debug,
	}, *width, *height, *title)

	cmd := app.Commands()
	mirage.LoadScene(cmd, demoScene(float32(*height)))
	app.FlushCommands()

	app.Run()
}

func demoScene(windowHeight float32) *mirage.SceneDef {
	return &mirage.SceneDef{
		Camera: &mirage.CameraDef{
			Position: mgl32.Vec3{0, 2, 12},
			Pitch:    -8,
			Fov:      60,
			Flying:   true,
			FlySpeed: 8,
		},
		Torus: &mirage.TorusDef{},
		Lights: []mirage.LightDef{
			{
				Type:      mirage.LightTypeDirectional,
				Rotation:  mgl32.QuatRotate(mgl32.DegToRad(-35), mgl32.Vec3{1, 0, 0}),
				Color:     [3]float32{1, 0.96, 0.9},
				Intensity: 1,
				Rotate:    true,
			},
		},
		Markers: []mirage.MarkerDef{
			{Gizmo: mirage.NewGizmoCube(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{12, 6, 12}, [4]float32{0.2, 0.9, 0.4, 1})},
			{Gizmo: mirage.NewGizmoSphere(mgl32.Vec3{0, 0, 0}, 7, [4]float32{0.3, 0.5, 1, 1}), Lifetime: 20},
			{Gizmo: mirage.NewGizmoLine(mgl32.Vec3{0, -3, 0}, mgl32.Vec3{0, 3, 0}, [4]float32{1, 0.3, 0.3, 1})},
		},
		Labels: []mirage.TextDef{
			{
				Text:     "Tab: capture mouse  WASD: fly  F1: stats  F2: heatmap  F3: frustum",
				Position: [2]float32{10, windowHeight - 30},
				Scale:    0.45,
			},
		},
	}
}
