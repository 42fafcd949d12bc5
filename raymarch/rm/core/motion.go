package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// OrbitTransform is the torus motion curve: a sideways sine sweep combined
// with a spin about Z. amplitude is the sweep half-width in world units,
// spinDegPerSec the angular speed. The angle wraps to [0, 360) before the
// radian conversion so long uptimes keep full precision.
func OrbitTransform(seconds float64, amplitude, spinDegPerSec float32) mgl32.Mat4 {
	x := float32(math.Sin(seconds)) * amplitude
	deg := math.Mod(seconds*float64(spinDegPerSec), 360)
	rot := mgl32.HomogRotate3DZ(mgl32.DegToRad(float32(deg)))
	return mgl32.Translate3D(x, 0, 0).Mul4(rot)
}
