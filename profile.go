package fog

// LightingMode selects how a volume's ray-march shades each sample.
type LightingMode int

const (
	// LightingUnlit accumulates albedo and ambient terms only.
	LightingUnlit LightingMode = iota

	// LightingScattering adds in-scattering from the gathered light list.
	LightingScattering

	// LightingShadowed adds in-scattering with shadow-map attenuation.
	LightingShadowed
)

// String returns a human-readable lighting mode name.
func (m LightingMode) String() string {
	switch m {
	case LightingUnlit:
		return "unlit"
	case LightingScattering:
		return "scattering"
	case LightingShadowed:
		return "shadowed"
	default:
		return "unknown"
	}
}

// NoiseParams describes optional scrolling density noise for a volume.
type NoiseParams struct {
	// Scale is the noise frequency in world units.
	Scale float32

	// Scroll is the noise field velocity in world units per second.
	Scroll Vec3

	// Strength modulates density by the noise value, in [0, 1].
	Strength float32
}

// Profile holds the authored fog appearance for a volume. Profiles are
// shared by reference: many volumes may point at one profile, and edits
// apply to all of them on the next frame.
type Profile struct {
	// Albedo is the scattering color of the medium.
	Albedo Vec3

	// AmbientColor and AmbientOpacity add a constant ambient term so fog
	// is visible without any gathered light.
	AmbientColor   Vec3
	AmbientOpacity float32

	// StepMin and StepMax bound the ray-march step length; StepIncrement
	// grows the step as the ray advances, trading precision for range.
	StepMin       float32
	StepMax       float32
	StepIncrement float32

	// MaxRayLength and MaxSamples cap each march regardless of volume
	// size, bounding worst-case shader cost.
	MaxRayLength float32
	MaxSamples   int

	// JitterStrength offsets the march start per pixel to hide banding.
	JitterStrength float32

	// Lighting selects the per-sample shading model.
	Lighting LightingMode

	// Scattering and Extinction are the medium coefficients; MieG is the
	// Mie phase anisotropy in [-1, 1].
	Scattering float32
	Extinction float32
	MieG       float32

	// BrightnessClamp limits per-sample radiance to suppress fireflies.
	BrightnessClamp float32

	// Noise enables scrolling density noise when non-nil.
	Noise *NoiseParams
}

// DefaultProfile returns a neutral gray scattering profile suitable as
// a starting point for authoring.
func DefaultProfile() Profile {
	return Profile{
		Albedo:          Vec3{0.8, 0.8, 0.8},
		AmbientColor:    Vec3{0.1, 0.1, 0.12},
		AmbientOpacity:  0.25,
		StepMin:         0.05,
		StepMax:         1.0,
		StepIncrement:   1.1,
		MaxRayLength:    200,
		MaxSamples:      64,
		JitterStrength:  1.0,
		Lighting:        LightingScattering,
		Scattering:      0.5,
		Extinction:      0.05,
		MieG:            0.3,
		BrightnessClamp: 8,
	}
}

var fallbackProfile = DefaultProfile()
