package backend

import (
	"errors"

	"github.com/gogpu/fog"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not
	// registered or fails to construct.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Backend name constants.
const (
	// BackendSoft is the name of the CPU reference backend.
	BackendSoft = "soft"
	// BackendWGPU is the name of the Pure Go GPU backend (gogpu/wgpu).
	BackendWGPU = "wgpu"
)

// Factory constructs a backend instance. Construction may fail, for
// example when no GPU adapter is present.
type Factory func() (fog.Backend, error)
