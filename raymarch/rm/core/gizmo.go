package core

import "github.com/go-gl/mathgl/mgl32"

type GizmoType int

const (
	GizmoLine GizmoType = iota
	GizmoCube
	GizmoSphere
	GizmoRect
	GizmoCircle
)

// Gizmo is one overlay shape instance handed to the gizmo pass. Lines use P1
// and P2 in the space of ModelMatrix; the other shapes are unit geometry
// placed by ModelMatrix alone.
type Gizmo struct {
	Type        GizmoType
	Color       [4]float32
	ModelMatrix mgl32.Mat4
	P1          mgl32.Vec3
	P2          mgl32.Vec3
}
