package mirage

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Rotating spins the entity around the world Y axis.
type Rotating struct {
	DegPerSec float32 // 0 means 45
}

// Orbiting moves the entity on a horizontal circle around Center.
type Orbiting struct {
	Center mgl32.Vec3
	Radius float32
	Speed  float32 // radians per second
	Angle  float32
}

// MotionModule animates entities carrying Rotating or Orbiting components.
type MotionModule struct{}

func (MotionModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(orbitingSystem).
			InStage(Update).
			RunAlways(),
	)
	app.UseSystem(
		System(rotatingSystem).
			InStage(Update).
			RunAlways(),
	)
}

func orbitingSystem(time *Time, cmd *Commands) {
	dt := float32(time.Dt.Seconds())
	if dt <= 0 {
		return
	}

	MakeQuery2[Orbiting, TransformComponent](cmd).Map(func(eid EntityId, orbit *Orbiting, tr *TransformComponent) bool {
		orbit.Angle += orbit.Speed * dt
		tr.Position = mgl32.Vec3{
			orbit.Center.X() + orbit.Radius*float32(math.Cos(float64(orbit.Angle))),
			orbit.Center.Y(),
			orbit.Center.Z() + orbit.Radius*float32(math.Sin(float64(orbit.Angle))),
		}
		return true
	})
}

func rotatingSystem(time *Time, cmd *Commands) {
	dt := float32(time.Dt.Seconds())
	if dt <= 0 {
		return
	}

	MakeQuery2[Rotating, TransformComponent](cmd).Map(func(eid EntityId, rot *Rotating, tr *TransformComponent) bool {
		rate := rot.DegPerSec
		if rate == 0 {
			rate = 45
		}
		step := mgl32.QuatRotate(mgl32.DegToRad(rate*dt), mgl32.Vec3{0, 1, 0})
		tr.Rotation = step.Mul(tr.Rotation).Normalize()
		return true
	})
}
