package fog

// Frame is the per-camera, per-frame input supplied by the host
// renderer. The pipeline reads it during Setup and Execute; it never
// retains host-owned slices past Cleanup.
type Frame struct {
	// Camera is the camera rendering this frame.
	Camera Camera

	// SceneColor is the camera color target the fog composites onto.
	// This is the single color-target handle used across the pipeline;
	// hosts with layered render texture APIs resolve it before calling.
	SceneColor Texture

	// SceneDepth is the camera's native depth buffer, sampled by the
	// ray-march and used as the full-resolution blur guide.
	SceneDepth Texture

	// Lights is the host's visible-light list for this frame.
	Lights []Light

	// MainLight is the index of the designated main light in Lights,
	// or -1 when there is none. The main light's shadowing is handled
	// against the main shadow map upstream, so its snapshot always
	// carries ShadowSlotNone.
	MainLight int

	// Shadows resolves shadow-map slots for the lights in Lights.
	// Hosts without shadow maps should pass NoShadows; a nil resolver
	// counts as an unavailable mapping and is logged during gathering.
	Shadows ShadowSlotResolver

	// Time is the scene time in seconds. It animates scrolling density
	// noise; hosts whose profiles carry no noise can leave it zero.
	Time float32
}
