package fog

import "fmt"

// ProgramKind identifies one of the GPU programs the pipeline invokes.
// The programs themselves are opaque host contracts: the backend
// registers an implementation per kind, and the pipeline drives them
// with the inputs and parameters documented on each pass constant.
type ProgramKind int

const (
	// ProgramRayMarch integrates scattered light through one volume.
	// Inputs: scene depth. Params: RayMarchParams. Drawn additively
	// into the bound fog target, once per visible volume.
	ProgramRayMarch ProgramKind = iota

	// ProgramBilateral is the depth-aware filter program; see the
	// BilateralPass* constants for its numbered passes.
	ProgramBilateral

	// ProgramReproject blends the current jittered tile into the
	// temporal history. Inputs: tile, history. Params: ReprojectParams.
	// Writes the full-resolution blended result.
	ProgramReproject

	// ProgramBlit combines scene color with fog. Inputs: base, fog.
	// Writes base + fog to the bound target; fog opacity is already
	// baked in by the ray-march and ambient terms.
	ProgramBlit
)

// String returns a human-readable program name.
func (k ProgramKind) String() string {
	switch k {
	case ProgramRayMarch:
		return "ray-march"
	case ProgramBilateral:
		return "bilateral"
	case ProgramReproject:
		return "reproject"
	case ProgramBlit:
		return "blit"
	default:
		return "unknown"
	}
}

// Passes of ProgramBilateral.
const (
	// BilateralPassBlurH blurs horizontally, depth-weighted.
	// Inputs: fog source, depth guide. Params: BlurParams.
	BilateralPassBlurH = 0

	// BilateralPassBlurV blurs vertically, depth-weighted.
	// Inputs: fog source, depth guide. Params: BlurParams.
	BilateralPassBlurV = 1

	// BilateralPassDownsample point-samples depth to a lower
	// resolution. Inputs: depth source. Params: none. Depth is never
	// averaged across pixels; each output texel copies one input texel.
	BilateralPassDownsample = 2

	// BilateralPassUpsample reconstructs full-resolution fog from a
	// low-resolution pair. Inputs: low fog, low depth, high depth.
	// Params: UpsampleParams.
	BilateralPassUpsample = 3
)

// Program is an opaque GPU program registered by a backend. The
// pipeline never inspects it beyond identity; backends recover their
// concrete type inside the encoder.
type Program interface {
	Kind() ProgramKind
	Name() string
}

// ProgramLibrary resolves the programs a backend has registered.
type ProgramLibrary interface {
	// Program returns the program for kind, or ok=false when none is
	// registered.
	Program(kind ProgramKind) (Program, bool)
}

// RayMarchParams parameterizes one volume draw.
type RayMarchParams struct {
	// VolumeCenter and VolumeRadius are the volume bounds.
	VolumeCenter Vec3
	VolumeRadius float32

	// Profile is a value snapshot of the volume's authored appearance.
	Profile Profile

	// CameraPos and ViewProj locate the rays.
	CameraPos Vec3
	ViewProj  Mat4

	// Jitter is the sub-pixel offset for this frame, in texels of the
	// bound target. Zero when temporal reprojection is off.
	Jitter [2]float32

	// Time is the scene time in seconds, advancing the profile's
	// scrolling noise.
	Time float32

	// Lights is the gathered, distance-ordered light list, already
	// clamped to the per-volume maximum.
	Lights []Snapshot
}

// BlurParams parameterizes the blur passes.
type BlurParams struct {
	// Radius is the half-width of the blur kernel in texels.
	Radius int32

	// DepthSigma scales the depth-difference weight; smaller values
	// stop the blur harder at depth discontinuities.
	DepthSigma float32
}

// UpsampleParams parameterizes the depth-aware upsample pass.
type UpsampleParams struct {
	// DepthSigma scales the depth-difference weight between the low
	// and high resolution depth samples.
	DepthSigma float32
}

// ReprojectParams parameterizes the temporal reprojection pass.
type ReprojectParams struct {
	// MotionInfluence scales the history weight: 0 for editor and
	// preview cameras so refreshed texels take the fresh sample
	// outright, 1 otherwise.
	MotionInfluence float32

	// Blend is the history weight in (0, 1).
	Blend float32

	// JitterX and JitterY are the tile offset for this frame, in
	// [0, KernelSize).
	JitterX int32
	JitterY int32

	// KernelSize is the jitter grid size per axis.
	KernelSize int32
}

// programSet holds the resolved programs for one pipeline instance.
// Programs are instance-owned: two pipelines never share mutable
// program state even when the backend reuses compiled modules.
type programSet struct {
	rayMarch  Program
	bilateral Program
	reproject Program
	blit      Program
}

// loadPrograms resolves every required program or fails with
// ErrMissingProgram naming the first absent kind.
func loadPrograms(lib ProgramLibrary) (programSet, error) {
	var set programSet
	for _, want := range []struct {
		kind ProgramKind
		dst  *Program
	}{
		{ProgramRayMarch, &set.rayMarch},
		{ProgramBilateral, &set.bilateral},
		{ProgramReproject, &set.reproject},
		{ProgramBlit, &set.blit},
	} {
		p, ok := lib.Program(want.kind)
		if !ok || p == nil {
			return programSet{}, fmt.Errorf("%w: %s", ErrMissingProgram, want.kind)
		}
		*want.dst = p
	}
	return set, nil
}
