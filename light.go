package mirage

type LightType uint32

const (
	LightTypePoint       LightType = 0
	LightTypeDirectional LightType = 1
	LightTypeSpot        LightType = 2
	LightTypeAmbient     LightType = 3
)

type LightComponent struct {
	Type      LightType
	Color     [3]float32
	Intensity float32
	Range     float32 // point/spot
	ConeAngle float32 // full cone angle in degrees, spot only
}
