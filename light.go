package fog

// LightKind is the host light type.
type LightKind int

const (
	// LightDirectional is an infinite light with direction only.
	LightDirectional LightKind = iota

	// LightPoint is a ranged omni light.
	LightPoint

	// LightSpot is a ranged cone light.
	LightSpot
)

// String returns a human-readable light kind name.
func (k LightKind) String() string {
	switch k {
	case LightDirectional:
		return "directional"
	case LightPoint:
		return "point"
	case LightSpot:
		return "spot"
	default:
		return "unknown"
	}
}

// Light is one entry of the host renderer's visible-light list for the
// current frame. The pipeline does not own it; it builds a Snapshot
// from each kept light during gathering.
type Light struct {
	Kind LightKind

	// Position is ignored for directional lights.
	Position Vec3

	// Direction is the emission direction for directional and spot
	// lights.
	Direction Vec3

	// Color is the light color scaled by intensity.
	Color Vec3

	// Range bounds the light's influence; also its culling radius.
	// Ignored for directional lights.
	Range float32

	// Attenuation packs the distance falloff constants.
	Attenuation Vec3

	// SpotAngle is the outer cone angle in radians for spot lights.
	SpotAngle float32

	// LayerMask limits which volumes the light affects.
	LayerMask uint32
}

// Snapshot is the per-frame light record handed to the ray-march. It
// is built fresh each frame from the host list and discarded at frame
// end; nothing retains it across frames.
type Snapshot struct {
	// Directional pins the light to the front of the sorted list.
	Directional bool

	// ShadowSlot is the shadow-map slot index, or ShadowSlotNone for
	// unshadowed lights and for the main light, which is resolved
	// against the main shadow map upstream of this pipeline.
	ShadowSlot int32

	// DistanceSq is the squared camera distance used for ordering.
	// Zero for directional lights so they always sort first.
	DistanceSq float32

	Range       float32
	LayerMask   uint32
	Position    Vec3
	Direction   Vec3
	Color       Vec3
	Attenuation Vec3
	SpotAngle   float32
}
