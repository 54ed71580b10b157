package fog

// Volume is a scene-placed fog region bounded by a sphere. The host
// registers a volume when it activates and removes it on deactivation;
// the pipeline only reads registered volumes, it never owns them.
type Volume struct {
	// Position is the bounding sphere center in world space.
	Position Vec3

	// Radius is the bounding sphere radius.
	Radius float32

	// Profile is the authored appearance, shared by reference. A nil
	// profile renders with DefaultProfile values.
	Profile *Profile
}

// NewVolume builds a volume with the given bounding sphere and profile.
func NewVolume(position Vec3, radius float32, profile *Profile) *Volume {
	return &Volume{Position: position, Radius: radius, Profile: profile}
}

// BoundingSphere returns the volume's world-space bounds.
func (v *Volume) BoundingSphere() (center Vec3, radius float32) {
	return v.Position, v.Radius
}

// profile returns the effective profile, falling back to defaults when
// none is assigned.
func (v *Volume) profile() *Profile {
	if v.Profile != nil {
		return v.Profile
	}
	return &fallbackProfile
}
