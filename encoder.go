package fog

import "github.com/gogpu/gputypes"

// BlendMode selects how a draw writes its target.
type BlendMode int

const (
	// BlendReplace overwrites the target.
	BlendReplace BlendMode = iota

	// BlendAdditive accumulates onto the target.
	BlendAdditive
)

// DrawCall is one fullscreen program invocation recorded into a
// CommandEncoder.
type DrawCall struct {
	// Program and Pass select the shader work; pass numbering is
	// documented per ProgramKind.
	Program Program
	Pass    int

	// Target receives the output.
	Target Texture

	// Inputs are sampled textures in the binding order documented for
	// the program pass.
	Inputs []Texture

	// Params is the program's parameter struct (RayMarchParams,
	// BlurParams, ...), or nil for parameterless passes. The backend
	// owns the GPU-side layout.
	Params any

	// Blend selects the target write mode.
	Blend BlendMode
}

// CommandEncoder records one frame's ordered fog commands. Commands
// execute in record order; the pipeline relies on that for its stage
// sequencing and never synchronizes mid-frame.
//
// Encoders are single-use: record, then Finish exactly once.
type CommandEncoder interface {
	// Clear fills dst with the given color.
	Clear(dst Texture, c gputypes.Color) error

	// Copy copies src into dst. Both textures must have the same
	// dimensions.
	Copy(src, dst Texture) error

	// Draw records one program invocation.
	Draw(call DrawCall) error

	// Finish submits the recorded commands. The encoder must not be
	// used afterwards.
	Finish() error

	// Discard abandons the recorded commands without submitting, for
	// frames that fail mid-record. The encoder must not be used
	// afterwards.
	Discard()
}

// Backend provides the device-side services the pipeline runs on: a
// target pool, a program library, and per-frame command encoders.
type Backend interface {
	// Pool returns the render-target pool.
	Pool() TargetPool

	// Programs returns the registered program library.
	Programs() ProgramLibrary

	// BeginFrame opens a command encoder for one camera frame.
	BeginFrame(label string) (CommandEncoder, error)
}
