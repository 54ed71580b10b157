package fog

// CameraKind distinguishes game cameras from editor-side cameras.
// Editor and preview cameras render with motion reprojection disabled,
// since their motion vectors do not describe continuous movement.
type CameraKind int

const (
	// CameraGame is a regular in-game camera.
	CameraGame CameraKind = iota

	// CameraSceneView is an editor scene-view camera.
	CameraSceneView

	// CameraPreview is an asset/thumbnail preview camera.
	CameraPreview
)

// String returns a human-readable camera kind name.
func (k CameraKind) String() string {
	switch k {
	case CameraGame:
		return "game"
	case CameraSceneView:
		return "scene-view"
	case CameraPreview:
		return "preview"
	default:
		return "unknown"
	}
}

// Camera is the per-frame camera state supplied by the host renderer.
type Camera struct {
	// Kind controls motion reprojection; see CameraKind.
	Kind CameraKind

	// Position is the camera position in world space.
	Position Vec3

	// ViewProj is the combined view-projection matrix used for frustum
	// extraction and for projecting volumes in the shader passes.
	ViewProj Mat4

	// Width and Height are the camera color target dimensions in pixels.
	Width  int
	Height int

	// Near and Far are the clip distances. Far is informational only:
	// fog is allowed to extend past it, so the far plane never culls.
	Near float32
	Far  float32
}

// MotionInfluence returns the motion-vector weight for reprojection:
// 0 for editor and preview cameras, 1 otherwise.
func (c *Camera) MotionInfluence() float32 {
	switch c.Kind {
	case CameraSceneView, CameraPreview:
		return 0
	default:
		return 1
	}
}

// Frustum extracts the camera's frustum planes from ViewProj.
func (c *Camera) Frustum() Frustum {
	return FrustumFromMatrix(c.ViewProj)
}
