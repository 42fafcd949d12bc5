package mirage

import (
	"encoding/json"
	"os"

	"github.com/go-gl/mathgl/mgl32"
)

type TorusData struct {
	Amplitude     float32 `json:"amplitude"`
	SpinDegPerSec float32 `json:"spin_deg_per_sec"`
}

type LightData struct {
	Type      LightType  `json:"type"`
	Color     [3]float32 `json:"color"`
	Intensity float32    `json:"intensity"`
	Range     float32    `json:"range,omitempty"`
	ConeAngle float32    `json:"cone_angle,omitempty"`
}

type CameraData struct {
	Yaw   float32 `json:"yaw"`
	Pitch float32 `json:"pitch"`
	Fov   float32 `json:"fov"`
}

type EntityData struct {
	ID         EntityId    `json:"id"`
	Position   mgl32.Vec3  `json:"position"`
	Rotation   mgl32.Quat  `json:"rotation"`
	Scale      mgl32.Vec3  `json:"scale"`
	HasLocal   bool        `json:"has_local"`
	LocalPos   mgl32.Vec3  `json:"local_position,omitempty"`
	LocalRot   mgl32.Quat  `json:"local_rotation,omitempty"`
	LocalScale mgl32.Vec3  `json:"local_scale,omitempty"`
	HasParent  bool        `json:"has_parent"`
	ParentID   EntityId    `json:"parent_id"`
	Torus      *TorusData  `json:"torus,omitempty"`
	Light      *LightData  `json:"light,omitempty"`
	Camera     *CameraData `json:"camera,omitempty"`
}

type PresetData struct {
	Entities []EntityData `json:"entities"`
}

// SavePreset writes every entity carrying a TransformComponent, together
// with its hierarchy links and scene components, as indented JSON.
func SavePreset(cmd *Commands, filename string) error {
	var entities []EntityData

	MakeQuery1[TransformComponent](cmd).Map(func(eid EntityId, tr *TransformComponent) bool {
		data := EntityData{
			ID:       eid,
			Position: tr.Position,
			Rotation: tr.Rotation,
			Scale:    tr.Scale,
		}

		// GetAllComponents yields value copies, but some spawn paths insert
		// pointers, so match both.
		for _, c := range cmd.GetAllComponents(eid) {
			switch comp := c.(type) {
			case LocalTransformComponent:
				data.HasLocal = true
				data.LocalPos = comp.Position
				data.LocalRot = comp.Rotation
				data.LocalScale = comp.Scale
			case *LocalTransformComponent:
				data.HasLocal = true
				data.LocalPos = comp.Position
				data.LocalRot = comp.Rotation
				data.LocalScale = comp.Scale
			case Parent:
				data.HasParent = true
				data.ParentID = comp.Entity
			case *Parent:
				data.HasParent = true
				data.ParentID = comp.Entity
			case TorusComponent:
				data.Torus = &TorusData{Amplitude: comp.Amplitude, SpinDegPerSec: comp.SpinDegPerSec}
			case *TorusComponent:
				data.Torus = &TorusData{Amplitude: comp.Amplitude, SpinDegPerSec: comp.SpinDegPerSec}
			case LightComponent:
				data.Light = &LightData{Type: comp.Type, Color: comp.Color, Intensity: comp.Intensity, Range: comp.Range, ConeAngle: comp.ConeAngle}
			case *LightComponent:
				data.Light = &LightData{Type: comp.Type, Color: comp.Color, Intensity: comp.Intensity, Range: comp.Range, ConeAngle: comp.ConeAngle}
			case CameraComponent:
				data.Camera = &CameraData{Yaw: comp.Yaw, Pitch: comp.Pitch, Fov: comp.Fov}
			case *CameraComponent:
				data.Camera = &CameraData{Yaw: comp.Yaw, Pitch: comp.Pitch, Fov: comp.Fov}
			}
		}

		entities = append(entities, data)
		return true
	})

	preset := PresetData{Entities: entities}
	bytes, err := json.MarshalIndent(preset, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filename, bytes, 0644)
}

// LoadPreset recreates the saved entities. Entity ids are not stable across
// runs, so parent links are remapped through the freshly assigned ids in a
// second pass.
func LoadPreset(cmd *Commands, filename string) ([]EntityId, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var preset PresetData
	if err := json.Unmarshal(bytes, &preset); err != nil {
		return nil, err
	}

	idMap := make(map[EntityId]EntityId)
	var newEntities []EntityId

	for _, data := range preset.Entities {
		var components []any

		components = append(components, &TransformComponent{
			Position: data.Position,
			Rotation: data.Rotation,
			Scale:    data.Scale,
		})

		if data.HasLocal {
			components = append(components, &LocalTransformComponent{
				Position: data.LocalPos,
				Rotation: data.LocalRot,
				Scale:    data.LocalScale,
			})
		}

		if data.Torus != nil {
			components = append(components, &TorusComponent{
				Amplitude:     data.Torus.Amplitude,
				SpinDegPerSec: data.Torus.SpinDegPerSec,
			})
		}

		if data.Light != nil {
			components = append(components, &LightComponent{
				Type:      data.Light.Type,
				Color:     data.Light.Color,
				Intensity: data.Light.Intensity,
				Range:     data.Light.Range,
				ConeAngle: data.Light.ConeAngle,
			})
		}

		if data.Camera != nil {
			cam := NewCameraComponent(data.Position)
			cam.Yaw = data.Camera.Yaw
			cam.Pitch = data.Camera.Pitch
			cam.Fov = data.Camera.Fov
			components = append(components, &cam)
		}

		newEid := cmd.AddEntity(components...)
		idMap[data.ID] = newEid
		newEntities = append(newEntities, newEid)
	}

	for _, data := range preset.Entities {
		if data.HasParent {
			if newChild, okC := idMap[data.ID]; okC {
				if newParent, okP := idMap[data.ParentID]; okP {
					cmd.AddComponents(newChild, &Parent{Entity: newParent})
				}
			}
		}
	}

	return newEntities, nil
}
