package fog

import "github.com/gogpu/gputypes"

// Texture is a render target or shader input owned by a backend.
//
// Concrete texture types belong to the backend that created them; a
// texture acquired from one backend's pool must only be used with
// encoders from the same backend.
type Texture interface {
	// Width returns the texture width in pixels.
	Width() int

	// Height returns the texture height in pixels.
	Height() int

	// Format returns the texture format.
	Format() gputypes.TextureFormat
}

// TargetDesc describes a render target request to a TargetPool.
type TargetDesc struct {
	// Label names the target for debugging and pool diagnostics.
	Label string

	Width  int
	Height int
	Format gputypes.TextureFormat
}

// TargetPool hands out frame-scoped render targets.
//
// Acquire and Release must stay symmetric: every acquired target is
// released exactly once, on every exit path, so nothing leaks across
// frames. Pools may recycle released targets with matching dimensions
// and format.
type TargetPool interface {
	// Acquire returns a target matching desc. The contents are
	// unspecified; callers clear before use.
	Acquire(desc TargetDesc) (Texture, error)

	// Release returns a target to the pool. Releasing nil is a no-op.
	Release(t Texture)
}
