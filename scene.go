package mirage

import (
	"github.com/go-gl/mathgl/mgl32"
)

// SceneDef defines the initial state of a scene.
type SceneDef struct {
	Camera  *CameraDef
	Torus   *TorusDef
	Lights  []LightDef
	Markers []MarkerDef
	Labels  []TextDef
}

// CameraDef spawns the scene camera, optionally with flying controls.
type CameraDef struct {
	Position    mgl32.Vec3
	Yaw         float32 // degrees
	Pitch       float32 // degrees
	Fov         float32 // degrees, 0 means default
	Flying      bool
	FlySpeed    float32
	Sensitivity float32
}

// TorusDef spawns the animated torus. Zero Amplitude/SpinDegPerSec fall
// back to the renderer defaults.
type TorusDef struct {
	Position      mgl32.Vec3
	Amplitude     float32
	SpinDegPerSec float32
}

// LightDef defines a light instantiation.
type LightDef struct {
	Type      LightType
	Position  mgl32.Vec3
	Color     [3]float32
	Intensity float32
	Range     float32
	ConeAngle float32
	Rotation  mgl32.Quat
	Orbit     *Orbiting
	Rotate    bool
}

// MarkerDef spawns a wireframe gizmo, optionally expiring after Lifetime
// seconds.
type MarkerDef struct {
	Gizmo    GizmoComponent
	Lifetime float32
}

// TextDef spawns a HUD label.
type TextDef struct {
	Text     string
	Position [2]float32
	Scale    float32
	Color    [4]float32
}

// LoadScene iterates through the SceneDef and spawns entities.
func LoadScene(cmd *Commands, scene *SceneDef) {
	if scene.Camera != nil {
		spawnCamera(cmd, *scene.Camera)
	}

	if scene.Torus != nil {
		spawnTorus(cmd, *scene.Torus)
	}

	for _, light := range scene.Lights {
		spawnLight(cmd, light)
	}

	for _, marker := range scene.Markers {
		spawnMarker(cmd, marker)
	}

	for _, label := range scene.Labels {
		spawnLabel(cmd, label)
	}
}

func spawnCamera(cmd *Commands, def CameraDef) {
	cam := NewCameraComponent(def.Position)
	cam.Yaw = def.Yaw
	cam.Pitch = def.Pitch
	if def.Fov > 0 {
		cam.Fov = def.Fov
	}

	comps := []any{&cam}
	if def.Flying {
		comps = append(comps, &FlyingCameraComponent{
			Speed:       def.FlySpeed,
			Sensitivity: def.Sensitivity,
		})
	}

	cmd.AddEntity(comps...)
}

func spawnTorus(cmd *Commands, def TorusDef) {
	tr := NewTransform(def.Position)
	cmd.AddEntity(
		&tr,
		&TorusComponent{
			Amplitude:     def.Amplitude,
			SpinDegPerSec: def.SpinDegPerSec,
		},
	)
}

func spawnLight(cmd *Commands, def LightDef) {
	rotation := def.Rotation
	if rotation == (mgl32.Quat{}) {
		rotation = mgl32.QuatIdent()
	}

	comps := []any{
		&TransformComponent{
			Position: def.Position,
			Rotation: rotation,
			Scale:    mgl32.Vec3{1, 1, 1},
		},
		&LightComponent{
			Type:      def.Type,
			Color:     def.Color,
			Intensity: def.Intensity,
			Range:     def.Range,
			ConeAngle: def.ConeAngle,
		},
	}

	if def.Orbit != nil {
		comps = append(comps, def.Orbit)
	}
	if def.Rotate {
		comps = append(comps, &Rotating{})
	}

	cmd.AddEntity(comps...)
}

func spawnMarker(cmd *Commands, def MarkerDef) {
	gizmo := def.Gizmo
	tr := NewTransform(gizmo.Position)
	tr.Rotation = gizmo.Rotation
	tr.Scale = gizmo.Scale

	comps := []any{&tr, &gizmo}
	if def.Lifetime > 0 {
		comps = append(comps, &LifetimeComponent{TimeLeft: def.Lifetime})
	}

	cmd.AddEntity(comps...)
}

func spawnLabel(cmd *Commands, def TextDef) {
	scale := def.Scale
	if scale == 0 {
		scale = 1
	}
	color := def.Color
	if color == ([4]float32{}) {
		color = [4]float32{1, 1, 1, 1}
	}

	cmd.AddEntity(&TextComponent{
		Text:     def.Text,
		Position: def.Position,
		Scale:    scale,
		Color:    color,
	})
}
