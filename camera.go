package mirage

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CameraComponent is the scene camera. Yaw, Pitch and Fov are in degrees;
// renderers convert on sync.
type CameraComponent struct {
	Position mgl32.Vec3
	LookAt   mgl32.Vec3
	Up       mgl32.Vec3

	Yaw   float32
	Pitch float32

	Fov    float32
	Aspect float32
	Near   float32
	Far    float32
}

func NewCameraComponent(position mgl32.Vec3) CameraComponent {
	return CameraComponent{
		Position: position,
		LookAt:   position.Add(mgl32.Vec3{0, 0, -1}),
		Up:       mgl32.Vec3{0, 1, 0},
		Fov:      60,
		Aspect:   16.0 / 9.0,
		Near:     0.1,
		Far:      1000,
	}
}
