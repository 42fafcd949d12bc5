package mirage

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mirage3d/mirage/raymarch/rm/core"
)

func TestTorusComponentParams(t *testing.T) {
	amp, spin := TorusComponent{}.params()
	if amp != 5 || spin != 200 {
		t.Errorf("Expected stock animation parameters, got amplitude=%v spin=%v", amp, spin)
	}

	amp, spin = TorusComponent{Amplitude: 2}.params()
	if amp != 2 || spin != 200 {
		t.Errorf("Expected the zero spin to fall back, got amplitude=%v spin=%v", amp, spin)
	}

	amp, spin = TorusComponent{Amplitude: 1.5, SpinDegPerSec: 90}.params()
	if amp != 1.5 || spin != 90 {
		t.Errorf("Expected explicit parameters to pass through, got amplitude=%v spin=%v", amp, spin)
	}
}

func TestSceneTorusModel(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	// No torus: identity.
	if got := sceneTorusModel(cmd, 1.5); got != mgl32.Ident4() {
		t.Errorf("Expected identity without a torus, got %v", got)
	}

	cmd.AddEntity(
		&TorusComponent{},
		&TransformComponent{Position: mgl32.Vec3{3, 1, -2}, Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}},
	)
	app.FlushCommands()

	elapsed := 0.45
	want := mgl32.Translate3D(3, 1, -2).Mul4(core.OrbitTransform(elapsed, 5, 200))
	if got := sceneTorusModel(cmd, elapsed); got != want {
		t.Errorf("Expected the transform to offset the orbit:\ngot  %v\nwant %v", got, want)
	}
}

func TestSceneTorusModelWithoutTransform(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	cmd.AddEntity(&TorusComponent{Amplitude: 2, SpinDegPerSec: 90})
	app.FlushCommands()

	elapsed := 1.25
	want := core.OrbitTransform(elapsed, 2, 90)
	if got := sceneTorusModel(cmd, elapsed); got != want {
		t.Errorf("Expected a bare orbit:\ngot  %v\nwant %v", got, want)
	}
}

func TestSceneLightDir(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	// No lights: renderer default.
	if got := sceneLightDir(cmd); got != (mgl32.Vec3{0, 0, -1}) {
		t.Errorf("Expected the default direction, got %v", got)
	}

	// Point lights do not steer the sun.
	cmd.AddEntity(
		&TransformComponent{Position: mgl32.Vec3{0, 5, 0}, Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}},
		&LightComponent{Type: LightTypePoint, Intensity: 1},
	)
	cmd.AddEntity(
		&TransformComponent{Rotation: mgl32.QuatRotate(mgl32.DegToRad(-90), mgl32.Vec3{0, 1, 0}), Scale: mgl32.Vec3{1, 1, 1}},
		&LightComponent{Type: LightTypeDirectional, Intensity: 1},
	)
	app.FlushCommands()

	got := sceneLightDir(cmd)
	want := mgl32.Vec3{1, 0, 0}
	if got.Sub(want).Len() > 1e-4 {
		t.Errorf("Expected the rotated forward axis %v, got %v", want, got)
	}
}

func TestGizmoToRendererShapes(t *testing.T) {
	cube := NewGizmoCube(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{2, 2, 2}, [4]float32{1, 0, 0, 1})
	out := gizmoToRenderer(&cube, nil)
	if out.Type != core.GizmoCube {
		t.Errorf("Expected a cube, got %v", out.Type)
	}
	want := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.QuatIdent().Mat4()).Mul4(mgl32.Scale3D(2, 2, 2))
	if out.ModelMatrix != want {
		t.Errorf("Cube model matrix mismatch:\ngot  %v\nwant %v", out.ModelMatrix, want)
	}

	sphere := NewGizmoSphere(mgl32.Vec3{0, 1, 0}, 2.5, [4]float32{0, 1, 0, 1})
	out = gizmoToRenderer(&sphere, nil)
	if out.Type != core.GizmoSphere {
		t.Errorf("Expected a sphere, got %v", out.Type)
	}
	want = mgl32.Translate3D(0, 1, 0).Mul4(mgl32.QuatIdent().Mat4()).Mul4(mgl32.Scale3D(2.5, 2.5, 2.5))
	if out.ModelMatrix != want {
		t.Errorf("Sphere model matrix mismatch:\ngot  %v\nwant %v", out.ModelMatrix, want)
	}
}

func TestGizmoToRendererTransformOverride(t *testing.T) {
	g := NewGizmoCube(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{1, 1, 1}, [4]float32{1, 1, 1, 1})
	tr := &TransformComponent{Position: mgl32.Vec3{5, 0, 0}, Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{2, 2, 2}}

	out := gizmoToRenderer(&g, tr)

	want := mgl32.Translate3D(5, 0, 0).Mul4(mgl32.QuatIdent().Mat4()).Mul4(mgl32.Scale3D(2, 2, 2))
	if out.ModelMatrix != want {
		t.Errorf("Expected the world transform to win:\ngot  %v\nwant %v", out.ModelMatrix, want)
	}
}

func TestGizmoToRendererLine(t *testing.T) {
	g := NewGizmoLine(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 3, 0}, [4]float32{1, 1, 0, 1})

	out := gizmoToRenderer(&g, nil)
	if out.Type != core.GizmoLine {
		t.Errorf("Expected a line, got %v", out.Type)
	}
	if out.ModelMatrix != mgl32.Ident4() {
		t.Errorf("Line model matrix should stay identity, got %v", out.ModelMatrix)
	}
	if out.P1 != (mgl32.Vec3{0, 0, 0}) || out.P2 != (mgl32.Vec3{0, 3, 0}) {
		t.Errorf("Line endpoints mismatch: %v %v", out.P1, out.P2)
	}

	// A world transform shifts both endpoints.
	tr := &TransformComponent{Position: mgl32.Vec3{10, 0, 0}}
	out = gizmoToRenderer(&g, tr)
	if out.P1 != (mgl32.Vec3{10, 0, 0}) || out.P2 != (mgl32.Vec3{10, 3, 0}) {
		t.Errorf("Line endpoints not shifted: %v %v", out.P1, out.P2)
	}
}

func TestRaymarchStateCameraPose(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()
	state := &RaymarchState{}

	if _, ok := state.cameraPose(cmd); ok {
		t.Fatal("Expected no camera in an empty scene")
	}

	cam := NewCameraComponent(mgl32.Vec3{0, 2, 12})
	eid := cmd.AddEntity(&cam)
	app.FlushCommands()

	got, ok := state.cameraPose(cmd)
	if !ok {
		t.Fatal("Expected the camera to be found")
	}
	if got.Position != (mgl32.Vec3{0, 2, 12}) {
		t.Errorf("Unexpected camera position %v", got.Position)
	}
	if !state.cameraFound || state.cameraEntity != eid {
		t.Errorf("Expected the camera handle to be cached")
	}

	// The cached handle is dropped once the entity disappears.
	cmd.RemoveEntity(eid)
	app.FlushCommands()

	if _, ok := state.cameraPose(cmd); ok {
		t.Fatal("Expected the pose lookup to miss after removal")
	}

	replacement := NewCameraComponent(mgl32.Vec3{4, 0, 0})
	cmd.AddEntity(&replacement)
	app.FlushCommands()

	got, ok = state.cameraPose(cmd)
	if !ok || got.Position != (mgl32.Vec3{4, 0, 0}) {
		t.Errorf("Expected the replacement camera, got %v found=%v", got.Position, ok)
	}
}

func TestRaymarchStateNilSafety(t *testing.T) {
	var state *RaymarchState

	if w, h := state.WindowSize(); w != 0 || h != 0 {
		t.Errorf("Expected a zero window size, got %dx%d", w, h)
	}
	if state.FPS() != 0 {
		t.Errorf("Expected zero FPS without a renderer")
	}
	if state.ProfilerStats() != "" {
		t.Errorf("Expected empty stats without a renderer")
	}
	if state.DebugOverlay() {
		t.Errorf("Expected the overlay to default off")
	}

	// None of these may panic without a renderer attached.
	state.SetDebugOverlay(true)
	state.DrawText("x", 0, 0, 1, [4]float32{1, 1, 1, 1})
}

func TestSplitLines(t *testing.T) {
	lines := splitLines("a\nbc\n\nd\n")
	want := []string{"a", "bc", "d"}
	if len(lines) != len(want) {
		t.Fatalf("Expected %d lines, got %v", len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("Line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}

	if got := splitLines(""); got != nil {
		t.Errorf("Expected no lines for empty input, got %v", got)
	}
}
