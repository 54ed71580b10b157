package soft

import (
	"github.com/gogpu/fog"
	"github.com/gogpu/fog/backend"
	"github.com/gogpu/gputypes"
)

// Backend runs every fog program on the CPU.
type Backend struct {
	pool *pool
}

var _ fog.Backend = (*Backend)(nil)

// init registers the soft backend on package import.
func init() {
	backend.Register(backend.BackendSoft, func() (fog.Backend, error) {
		return New(), nil
	})
}

// New creates a CPU backend with an empty texture pool.
func New() *Backend {
	return &Backend{pool: newPool()}
}

// Pool returns the backend's recycling texture pool.
func (b *Backend) Pool() fog.TargetPool { return b.pool }

// Programs returns the CPU program library.
func (b *Backend) Programs() fog.ProgramLibrary { return library{} }

// BeginFrame starts an immediate-mode encoder. Commands execute as
// they are recorded; Finish is a checkpoint, not a submit.
func (b *Backend) BeginFrame(label string) (fog.CommandEncoder, error) {
	return &encoder{label: label}, nil
}

// Outstanding returns the number of pool textures currently acquired
// and not yet released. Zero between frames when the pipeline's
// acquire and release stayed symmetric.
func (b *Backend) Outstanding() int { return b.pool.outstanding() }

// NewTarget allocates a host-owned texture outside the pool, for scene
// color and depth inputs.
func (b *Backend) NewTarget(label string, width, height int, format gputypes.TextureFormat) *Texture {
	return NewTexture(fog.TargetDesc{Label: label, Width: width, Height: height, Format: format})
}
