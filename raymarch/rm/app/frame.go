package app

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mirage3d/mirage/raymarch/rm/core"
	"github.com/mirage3d/mirage/raymarch/rm/gpu"
)

// FramePlan is the per-frame decision between the raymarch pass and the
// passthrough blit. When the effect pipeline is missing the frame copies
// the source image untouched and stages no frame uniforms at all.
type FramePlan struct {
	Passthrough   bool
	StageUniforms bool
}

func PlanFrame(effectReady bool) FramePlan {
	return FramePlan{
		Passthrough:   !effectReady,
		StageUniforms: effectReady,
	}
}

// BuildFrameUniforms derives the full uniform block for one frame from the
// camera state and scene inputs. Intrinsics are validated by the corner
// solver; on rejection nothing is returned and the caller keeps whatever
// it staged last.
func BuildFrameUniforms(cam *core.CameraState, aspect float32, torusModel mgl32.Mat4, lightDir mgl32.Vec3, drawDistance float32) (*gpu.FrameUniforms, error) {
	rays, err := core.CornerRays(cam.Fov, aspect)
	if err != nil {
		return nil, err
	}

	ld := lightDir
	if ld.Len() < 1e-6 {
		ld = mgl32.Vec3{0, 0, -1}
	} else {
		ld = ld.Normalize()
	}

	return &gpu.FrameUniforms{
		FrustumRays:   rays,
		InvView:       cam.GetViewMatrix().Inv(),
		TorusInvModel: torusModel.Inv(),
		CameraWS:      cam.Position,
		LightDir:      ld,
		DrawDistance:  drawDistance,
	}, nil
}
