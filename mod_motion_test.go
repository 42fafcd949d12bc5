package mirage

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

func TestOrbitingSystem(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	tr := NewTransform(mgl32.Vec3{5, 3, 0})
	cmd.AddEntity(&tr, &Orbiting{Center: mgl32.Vec3{0, 3, 0}, Radius: 5, Speed: float32(math.Pi) / 2})
	app.FlushCommands()

	// One second at pi/2 rad/s lands a quarter turn from angle 0.
	clock := &Time{Dt: time.Second}
	orbitingSystem(clock, cmd)

	MakeQuery2[Orbiting, TransformComponent](cmd).Map(func(_ EntityId, orbit *Orbiting, tr *TransformComponent) bool {
		if math.Abs(float64(orbit.Angle)-math.Pi/2) > 1e-5 {
			t.Errorf("Expected a quarter-turn angle, got %v", orbit.Angle)
		}
		want := mgl32.Vec3{0, 3, 5}
		if tr.Position.Sub(want).Len() > 1e-4 {
			t.Errorf("Expected orbit position %v, got %v", want, tr.Position)
		}
		return true
	})
}

func TestRotatingSystem(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	tr := NewTransform(mgl32.Vec3{})
	cmd.AddEntity(&tr, &Rotating{DegPerSec: 90})
	app.FlushCommands()

	clock := &Time{Dt: time.Second}
	rotatingSystem(clock, cmd)

	// 90 degrees around Y turns +X into -Z.
	MakeQuery2[Rotating, TransformComponent](cmd).Map(func(_ EntityId, _ *Rotating, tr *TransformComponent) bool {
		got := tr.Rotation.Rotate(mgl32.Vec3{1, 0, 0})
		want := mgl32.Vec3{0, 0, -1}
		if got.Sub(want).Len() > 1e-4 {
			t.Errorf("Expected +X to rotate into %v, got %v", want, got)
		}
		return true
	})
}

func TestMotionSystemsSkipZeroDt(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	tr := NewTransform(mgl32.Vec3{1, 0, 0})
	cmd.AddEntity(&tr, &Orbiting{Radius: 1, Speed: 1})
	app.FlushCommands()

	orbitingSystem(&Time{}, cmd)

	MakeQuery1[TransformComponent](cmd).Map(func(_ EntityId, tr *TransformComponent) bool {
		if tr.Position != (mgl32.Vec3{1, 0, 0}) {
			t.Errorf("Expected the position to stay put with zero dt, got %v", tr.Position)
		}
		return true
	})
}
