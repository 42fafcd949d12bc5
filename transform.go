package mirage

import (
	"github.com/go-gl/mathgl/mgl32"
)

// TransformComponent is an entity's world-space pose.
type TransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform(position mgl32.Vec3) TransformComponent {
	return TransformComponent{
		Position: position,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Mat4 composes the pose as translate * rotate * scale.
func (t *TransformComponent) Mat4() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// LocalTransformComponent is a pose relative to the entity's Parent.
// TransformHierarchySystem folds it into the world TransformComponent.
type LocalTransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// Parent links an entity into the transform hierarchy.
type Parent struct {
	Entity EntityId
}
