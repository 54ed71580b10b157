package fog

// Mode selects the working resolution for fog accumulation.
//
// Lower modes trade sharpness for fill-rate: the ray-march runs on a
// smaller target and the result is upsampled back to full resolution
// with a depth-aware filter.
type Mode int

const (
	// ModeFull accumulates fog at the camera target resolution.
	ModeFull Mode = iota

	// ModeHalf accumulates fog at half resolution per axis.
	ModeHalf

	// ModeQuarter accumulates fog at quarter resolution per axis.
	ModeQuarter
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeFull:
		return "full"
	case ModeHalf:
		return "half"
	case ModeQuarter:
		return "quarter"
	default:
		return "unknown"
	}
}

// Divisor returns the per-axis resolution divisor for the mode.
func (m Mode) Divisor() int {
	switch m {
	case ModeHalf:
		return 2
	case ModeQuarter:
		return 4
	default:
		return 1
	}
}

// ResolveMode returns the effective working resolution for a frame.
//
// Temporal accumulation blends each frame's low-resolution tile into a
// full-resolution history buffer, so the working target must be full
// resolution whenever temporal reprojection is enabled. Otherwise the
// configured mode is used as-is.
//
// Pure and cheap; safe to call once per frame or more.
func ResolveMode(configured Mode, temporal bool) Mode {
	if temporal && configured != ModeFull {
		return ModeFull
	}
	return configured
}

// scale divides a camera dimension by the mode divisor, rounding up so
// a low-resolution target always covers the full frame.
func (m Mode) scale(dim int) int {
	d := m.Divisor()
	return (dim + d - 1) / d
}
