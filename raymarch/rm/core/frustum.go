package core

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Corner slots of the camera frustum. The order is part of the GPU contract:
// slot i of the packed corner matrix, the quad corner tag i and the shader
// lookup all use the same index.
const (
	CornerTopLeft = iota
	CornerTopRight
	CornerBottomRight
	CornerBottomLeft
)

// ErrInvalidIntrinsics reports camera parameters outside the solvable domain.
var ErrInvalidIntrinsics = errors.New("invalid camera intrinsics")

// CornerBasis holds the four camera-space rays through the frustum corners,
// ordered top-left, top-right, bottom-right, bottom-left. The rays are not
// normalized: z is exactly -1 and the x/y magnitudes carry the frustum
// geometry that per-pixel interpolation depends on.
type CornerBasis [4]mgl32.Vec3

// CornerRays solves the corner rays for a vertical field of view in degrees
// and a width over height aspect ratio. fovDeg must lie strictly inside
// (0, 180) and aspect must be positive; out-of-domain input is rejected,
// never clamped.
func CornerRays(fovDeg, aspect float32) (CornerBasis, error) {
	if fovDeg <= 0 || fovDeg >= 180 {
		return CornerBasis{}, fmt.Errorf("%w: fov %v deg outside (0, 180)", ErrInvalidIntrinsics, fovDeg)
	}
	if aspect <= 0 {
		return CornerBasis{}, fmt.Errorf("%w: aspect %v not positive", ErrInvalidIntrinsics, aspect)
	}

	t := float32(math.Tan(float64(fovDeg) * 0.5 * math.Pi / 180))
	right := mgl32.Vec3{t * aspect, 0, 0}
	up := mgl32.Vec3{0, t, 0}
	forward := mgl32.Vec3{0, 0, -1}

	return CornerBasis{
		CornerTopLeft:     forward.Sub(right).Add(up),
		CornerTopRight:    forward.Add(right).Add(up),
		CornerBottomRight: forward.Add(right).Sub(up),
		CornerBottomLeft:  forward.Sub(right).Sub(up),
	}, nil
}

// Mat4 packs the basis so that 16-byte slot i of the column-major matrix
// holds corner i with w=0, matching corners[i] indexing in the shader.
func (b CornerBasis) Mat4() mgl32.Mat4 {
	var m mgl32.Mat4
	for i, c := range b {
		m.SetCol(i, c.Vec4(0))
	}
	return m
}

// Transformed applies m to every corner as a direction (w=0), so the
// translation part of m has no effect.
func (b CornerBasis) Transformed(m mgl32.Mat4) CornerBasis {
	var out CornerBasis
	for i, c := range b {
		out[i] = m.Mul4x1(c.Vec4(0)).Vec3()
	}
	return out
}

// Normalized returns a unit-length copy for visualization. The render path
// keeps the unnormalized rays.
func (b CornerBasis) Normalized() CornerBasis {
	var out CornerBasis
	for i, c := range b {
		out[i] = c.Normalize()
	}
	return out
}
