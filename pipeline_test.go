package fog

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gogpu/gputypes"
)

// fakeProgram satisfies Program for pipeline tests.
type fakeProgram struct {
	kind ProgramKind
}

func (p *fakeProgram) Kind() ProgramKind { return p.kind }
func (p *fakeProgram) Name() string      { return p.kind.String() }

// fakeLibrary registers every program unless listed in missing.
type fakeLibrary struct {
	missing map[ProgramKind]bool
}

func (l *fakeLibrary) Program(kind ProgramKind) (Program, bool) {
	if l.missing[kind] {
		return nil, false
	}
	return &fakeProgram{kind: kind}, true
}

// fakeOp is one recorded encoder command.
type fakeOp struct {
	op      string // "clear", "copy", "draw"
	kind    ProgramKind
	pass    int
	target  Texture
	inputs  []Texture
	blend   BlendMode
	params  any
	srcDims [2]int
}

type fakeEncoder struct {
	ops       []fakeOp
	finished  bool
	discarded bool
}

func (e *fakeEncoder) Clear(dst Texture, c gputypes.Color) error {
	e.ops = append(e.ops, fakeOp{op: "clear", target: dst})
	return nil
}

func (e *fakeEncoder) Copy(src, dst Texture) error {
	e.ops = append(e.ops, fakeOp{op: "copy", target: dst, srcDims: [2]int{src.Width(), src.Height()}})
	return nil
}

func (e *fakeEncoder) Draw(call DrawCall) error {
	e.ops = append(e.ops, fakeOp{
		op:     "draw",
		kind:   call.Program.Kind(),
		pass:   call.Pass,
		target: call.Target,
		inputs: append([]Texture(nil), call.Inputs...),
		blend:  call.Blend,
		params: call.Params,
	})
	return nil
}

func (e *fakeEncoder) Finish() error {
	e.finished = true
	return nil
}

func (e *fakeEncoder) Discard() {
	e.discarded = true
}

type fakeBackend struct {
	pool     *fakePool
	lib      *fakeLibrary
	encoders []*fakeEncoder
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{pool: newFakePool(), lib: &fakeLibrary{}}
}

func (b *fakeBackend) Pool() TargetPool         { return b.pool }
func (b *fakeBackend) Programs() ProgramLibrary { return b.lib }

func (b *fakeBackend) BeginFrame(label string) (CommandEncoder, error) {
	enc := &fakeEncoder{}
	b.encoders = append(b.encoders, enc)
	return enc, nil
}

// testFrame builds a frame with one camera-sized color/depth pair.
func testFrame(width, height int) *Frame {
	cam := testCamera(width, height)
	return &Frame{
		Camera: cam,
		SceneColor: &fakeTexture{desc: TargetDesc{
			Width: width, Height: height, Format: gputypes.TextureFormatBGRA8Unorm,
		}},
		SceneDepth: &fakeTexture{desc: TargetDesc{
			Width: width, Height: height, Format: gputypes.TextureFormatRGBA8Unorm,
		}},
		MainLight: -1,
		Shadows:   NoShadows,
	}
}

func TestNewPipelineNilBackend(t *testing.T) {
	if _, err := NewPipeline(nil); !errors.Is(err, ErrNilBackend) {
		t.Errorf("NewPipeline(nil) = %v, want ErrNilBackend", err)
	}
}

func TestNewPipelineMissingProgram(t *testing.T) {
	for _, kind := range []ProgramKind{ProgramRayMarch, ProgramBilateral, ProgramReproject, ProgramBlit} {
		t.Run(kind.String(), func(t *testing.T) {
			backend := newFakeBackend()
			backend.lib.missing = map[ProgramKind]bool{kind: true}
			_, err := NewPipeline(backend)
			if !errors.Is(err, ErrMissingProgram) {
				t.Errorf("NewPipeline() without %v = %v, want ErrMissingProgram", kind, err)
			}
		})
	}
}

func TestPipelineFrameLifecycle(t *testing.T) {
	backend := newFakeBackend()
	p, err := NewPipeline(backend, WithMode(ModeHalf))
	if err != nil {
		t.Fatalf("NewPipeline() = %v", err)
	}

	p.Registry().Add(NewVolume(Vec3{0, 0, -20}, 3, nil))

	f := testFrame(1280, 720)
	f.Lights = []Light{{Kind: LightDirectional, Direction: Vec3{0, -1, 0}}}

	if err := p.Setup(f); err != nil {
		t.Fatalf("Setup() = %v", err)
	}
	if got := p.Stats().TargetsAcquired; got != 3 {
		t.Errorf("TargetsAcquired = %d, want 3 (full + half fog + half depth)", got)
	}

	if err := p.Execute(f); err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	p.Cleanup()

	if n := backend.pool.outstanding(); n != 0 {
		t.Errorf("outstanding pool targets after Cleanup = %d, want 0", n)
	}
	if len(backend.encoders) != 1 {
		t.Fatalf("BeginFrame called %d times, want 1", len(backend.encoders))
	}
	if !backend.encoders[0].finished {
		t.Error("encoder not finished")
	}

	stats := p.Stats()
	if stats.Mode != ModeHalf {
		t.Errorf("stats.Mode = %v, want %v", stats.Mode, ModeHalf)
	}
	if stats.VisibleVolumes != 1 || stats.GatheredLights != 1 {
		t.Errorf("stats volumes/lights = %d/%d, want 1/1", stats.VisibleVolumes, stats.GatheredLights)
	}
	if stats.Skipped {
		t.Error("stats.Skipped = true for a rendered frame")
	}
}

func TestPipelineStageOrderHalfMode(t *testing.T) {
	backend := newFakeBackend()
	p, err := NewPipeline(backend, WithMode(ModeHalf))
	if err != nil {
		t.Fatalf("NewPipeline() = %v", err)
	}
	p.Registry().Add(NewVolume(Vec3{0, 0, -20}, 3, nil))

	f := testFrame(640, 480)
	if err := p.RenderFrame(f); err != nil {
		t.Fatalf("RenderFrame() = %v", err)
	}

	ops := backend.encoders[0].ops
	var sig []string
	for _, op := range ops {
		if op.op == "draw" {
			sig = append(sig, fmt.Sprintf("draw:%s:%d", op.kind, op.pass))
		} else {
			sig = append(sig, op.op)
		}
	}

	want := []string{
		"draw:bilateral:2", // depth downsample full -> half
		"clear",            // accumulation target
		"draw:ray-march:0", // one visible volume
		"draw:bilateral:0", // horizontal blur
		"draw:bilateral:1", // vertical blur
		"draw:bilateral:3", // depth-aware upsample
		"copy",             // scene color to scratch
		"draw:blit:0",      // composite
	}
	if len(sig) != len(want) {
		t.Fatalf("recorded ops = %v, want %v", sig, want)
	}
	for i := range want {
		if sig[i] != want[i] {
			t.Errorf("op[%d] = %s, want %s", i, sig[i], want[i])
		}
	}

	// The ray-march must blend additively; the composite must not.
	for _, op := range ops {
		if op.op == "draw" && op.kind == ProgramRayMarch && op.blend != BlendAdditive {
			t.Error("ray-march draw is not additive")
		}
		if op.op == "draw" && op.kind == ProgramBlit && op.blend != BlendReplace {
			t.Error("composite blit should write, not blend")
		}
	}
}

func TestPipelineQuarterModeDownsamplesTwice(t *testing.T) {
	backend := newFakeBackend()
	p, err := NewPipeline(backend, WithMode(ModeQuarter))
	if err != nil {
		t.Fatalf("NewPipeline() = %v", err)
	}
	p.Registry().Add(NewVolume(Vec3{0, 0, -20}, 3, nil))

	f := testFrame(640, 480)
	if err := p.RenderFrame(f); err != nil {
		t.Fatalf("RenderFrame() = %v", err)
	}

	downsamples := 0
	for _, op := range backend.encoders[0].ops {
		if op.op == "draw" && op.kind == ProgramBilateral && op.pass == BilateralPassDownsample {
			downsamples++
		}
	}
	if downsamples != 2 {
		t.Errorf("depth downsample draws = %d, want 2 (full->half, half->quarter)", downsamples)
	}
	if n := backend.pool.outstanding(); n != 0 {
		t.Errorf("outstanding pool targets = %d, want 0", n)
	}
}

func TestPipelineZeroVolumesSkips(t *testing.T) {
	backend := newFakeBackend()
	p, err := NewPipeline(backend)
	if err != nil {
		t.Fatalf("NewPipeline() = %v", err)
	}

	f := testFrame(640, 480)
	// A light with zero visible volumes is still gathered.
	f.Lights = []Light{{Kind: LightPoint, Position: Vec3{0, 0, -5}, Range: 10}}

	if err := p.Setup(f); err != nil {
		t.Fatalf("Setup() = %v", err)
	}
	if err := p.Execute(f); err != nil {
		t.Errorf("Execute() with zero volumes = %v, want nil (normal condition)", err)
	}
	p.Cleanup()

	stats := p.Stats()
	if !stats.Skipped {
		t.Error("stats.Skipped = false, want true")
	}
	if stats.GatheredLights != 1 {
		t.Errorf("GatheredLights = %d, want 1; gathering is independent of volume visibility", stats.GatheredLights)
	}
	if len(backend.encoders) != 0 {
		t.Errorf("BeginFrame called %d times for a skipped frame, want 0", len(backend.encoders))
	}
	if n := backend.pool.outstanding(); n != 0 {
		t.Errorf("outstanding pool targets after skipped frame = %d, want 0", n)
	}
}

func TestPipelineExecuteWithoutSetup(t *testing.T) {
	backend := newFakeBackend()
	p, err := NewPipeline(backend)
	if err != nil {
		t.Fatalf("NewPipeline() = %v", err)
	}
	if err := p.Execute(testFrame(640, 480)); !errors.Is(err, ErrFrameNotSetUp) {
		t.Errorf("Execute() before Setup = %v, want ErrFrameNotSetUp", err)
	}
}

func TestPipelineSetupZeroSize(t *testing.T) {
	backend := newFakeBackend()
	p, err := NewPipeline(backend)
	if err != nil {
		t.Fatalf("NewPipeline() = %v", err)
	}
	f := testFrame(640, 480)
	f.Camera.Width = 0
	if err := p.Setup(f); !errors.Is(err, ErrZeroTargetSize) {
		t.Errorf("Setup() with zero width = %v, want ErrZeroTargetSize", err)
	}
}

func TestPipelineSetupFailureLeavesNothing(t *testing.T) {
	backend := newFakeBackend()
	p, err := NewPipeline(backend, WithMode(ModeQuarter))
	if err != nil {
		t.Fatalf("NewPipeline() = %v", err)
	}
	backend.pool.failAt = 2

	f := testFrame(640, 480)
	if err := p.Setup(f); err == nil {
		t.Fatal("Setup() = nil, want allocation error")
	}
	// Cleanup after a failed Setup is safe and releases nothing extra.
	p.Cleanup()
	if n := backend.pool.outstanding(); n != 0 {
		t.Errorf("outstanding pool targets after failed Setup = %d, want 0", n)
	}
}

func TestPipelineTemporalHistoryInvariant(t *testing.T) {
	backend := newFakeBackend()
	p, err := NewPipeline(backend, WithTemporal(true))
	if err != nil {
		t.Fatalf("NewPipeline() = %v", err)
	}
	p.Registry().Add(NewVolume(Vec3{0, 0, -20}, 3, nil))

	// First frame allocates the history at camera size.
	if err := p.RenderFrame(testFrame(640, 480)); err != nil {
		t.Fatalf("frame 1: %v", err)
	}
	if !p.Stats().HistoryRealloc {
		t.Error("frame 1: HistoryRealloc = false, want true on first use")
	}
	if p.history == nil || p.history.Width() != 640 || p.history.Height() != 480 {
		t.Fatalf("history = %v, want 640x480", p.history)
	}

	// Steady state keeps the same buffer.
	if err := p.RenderFrame(testFrame(640, 480)); err != nil {
		t.Fatalf("frame 2: %v", err)
	}
	if p.Stats().HistoryRealloc {
		t.Error("frame 2: HistoryRealloc = true at steady size")
	}

	// Resize forces reallocation to the new dimensions.
	if err := p.RenderFrame(testFrame(800, 600)); err != nil {
		t.Fatalf("frame 3: %v", err)
	}
	if !p.Stats().HistoryRealloc {
		t.Error("frame 3: HistoryRealloc = false after resize")
	}
	if p.history.Width() != 800 || p.history.Height() != 600 {
		t.Errorf("history after resize = %dx%d, want 800x600", p.history.Width(), p.history.Height())
	}

	// Dispose returns the history; nothing stays outstanding.
	p.Dispose()
	if n := backend.pool.outstanding(); n != 0 {
		t.Errorf("outstanding pool targets after Dispose = %d, want 0", n)
	}
}

func TestPipelineTemporalJitterAdvances(t *testing.T) {
	backend := newFakeBackend()
	p, err := NewPipeline(backend, WithTemporal(true), WithTemporalKernelFactor(2))
	if err != nil {
		t.Fatalf("NewPipeline() = %v", err)
	}
	p.Registry().Add(NewVolume(Vec3{0, 0, -20}, 3, nil))

	for frame := 0; frame < 8; frame++ {
		if err := p.RenderFrame(testFrame(320, 240)); err != nil {
			t.Fatalf("frame %d: %v", frame, err)
		}
		if got := p.Stats().JitterIndex; got != frame%4 {
			t.Errorf("frame %d: JitterIndex = %d, want %d", frame, got, frame%4)
		}
	}
}

func TestPipelineTemporalUntouchedWhenOff(t *testing.T) {
	backend := newFakeBackend()
	p, err := NewPipeline(backend, WithMode(ModeHalf))
	if err != nil {
		t.Fatalf("NewPipeline() = %v", err)
	}
	p.Registry().Add(NewVolume(Vec3{0, 0, -20}, 3, nil))

	if err := p.RenderFrame(testFrame(640, 480)); err != nil {
		t.Fatalf("RenderFrame() = %v", err)
	}
	if p.history != nil {
		t.Error("temporal history allocated with reprojection off")
	}
	for _, op := range backend.encoders[0].ops {
		if op.op == "draw" && op.kind == ProgramReproject {
			t.Error("reprojection pass recorded with temporal off")
		}
	}
}

func TestPipelineDispose(t *testing.T) {
	backend := newFakeBackend()
	p, err := NewPipeline(backend)
	if err != nil {
		t.Fatalf("NewPipeline() = %v", err)
	}
	p.Dispose()
	p.Dispose() // idempotent

	if err := p.Setup(testFrame(640, 480)); !errors.Is(err, ErrDisposed) {
		t.Errorf("Setup() after Dispose = %v, want ErrDisposed", err)
	}
	if err := p.Execute(testFrame(640, 480)); !errors.Is(err, ErrDisposed) {
		t.Errorf("Execute() after Dispose = %v, want ErrDisposed", err)
	}
}

func TestPipelineLightClamp(t *testing.T) {
	backend := newFakeBackend()
	p, err := NewPipeline(backend, WithMaxLightsPerVolume(2))
	if err != nil {
		t.Fatalf("NewPipeline() = %v", err)
	}
	p.Registry().Add(NewVolume(Vec3{0, 0, -20}, 3, nil))

	f := testFrame(640, 480)
	f.Lights = []Light{
		{Kind: LightDirectional, Direction: Vec3{0, -1, 0}},
		{Kind: LightPoint, Position: Vec3{0, 0, -5}, Range: 20},
		{Kind: LightPoint, Position: Vec3{0, 0, -10}, Range: 20},
		{Kind: LightPoint, Position: Vec3{0, 0, -15}, Range: 20},
	}

	if err := p.RenderFrame(f); err != nil {
		t.Fatalf("RenderFrame() = %v", err)
	}
	if got := p.Stats().GatheredLights; got != 4 {
		t.Fatalf("GatheredLights = %d, want 4", got)
	}

	for _, op := range backend.encoders[0].ops {
		if op.op == "draw" && op.kind == ProgramRayMarch {
			params, ok := op.params.(RayMarchParams)
			if !ok {
				t.Fatalf("ray-march params type = %T, want RayMarchParams", op.params)
			}
			if len(params.Lights) != 2 {
				t.Errorf("ray-march light list length = %d, want clamp of 2", len(params.Lights))
			}
			// Nearest lights survive the clamp: directional first.
			if !params.Lights[0].Directional {
				t.Error("clamped list dropped the directional light")
			}
		}
	}
}

func TestPipelineFullModeNoBlurWhenDisabled(t *testing.T) {
	backend := newFakeBackend()
	p, err := NewPipeline(backend, WithDisableBlur(true))
	if err != nil {
		t.Fatalf("NewPipeline() = %v", err)
	}
	p.Registry().Add(NewVolume(Vec3{0, 0, -20}, 3, nil))

	if err := p.RenderFrame(testFrame(640, 480)); err != nil {
		t.Fatalf("RenderFrame() = %v", err)
	}
	for _, op := range backend.encoders[0].ops {
		if op.op == "draw" && op.kind == ProgramBilateral {
			t.Errorf("bilateral pass %d recorded with blur disabled in full mode", op.pass)
		}
	}
}

func TestPipelineHalfModeEndToEnd(t *testing.T) {
	backend := newFakeBackend()
	p, err := NewPipeline(backend, WithMode(ModeHalf))
	if err != nil {
		t.Fatalf("NewPipeline() = %v", err)
	}

	// A radius-3 volume twenty units ahead, lit by the sun and a point
	// light five units to its left.
	p.Registry().Add(NewVolume(Vec3{0, 0, -20}, 3, nil))
	f := testFrame(1280, 720)
	f.Lights = []Light{
		{Kind: LightDirectional, Direction: Vec3{0, -1, 0}},
		{Kind: LightPoint, Position: Vec3{-5, 0, -20}, Range: 10},
	}

	if err := p.RenderFrame(f); err != nil {
		t.Fatalf("RenderFrame() = %v", err)
	}

	var labels []string
	for _, desc := range backend.pool.acquires {
		labels = append(labels, desc.Label)
	}
	for _, want := range []string{"fog/full", "fog/half", "fog/half-depth"} {
		found := false
		for _, l := range labels {
			if l == want {
				found = true
			}
		}
		if !found {
			t.Errorf("target %q not acquired; got %v", want, labels)
		}
	}
	for _, l := range labels {
		if l == "fog/tile" || l == "fog/history" {
			t.Errorf("temporal target %q acquired with temporal off", l)
		}
	}
	if p.history != nil {
		t.Error("temporal history allocated with temporal off")
	}

	var marched, composited bool
	for _, op := range backend.encoders[0].ops {
		if op.op != "draw" {
			continue
		}
		switch op.kind {
		case ProgramRayMarch:
			marched = true
			params, ok := op.params.(RayMarchParams)
			if !ok {
				t.Fatalf("ray-march params type = %T, want RayMarchParams", op.params)
			}
			if len(params.Lights) != 2 {
				t.Errorf("march saw %d lights, want both", len(params.Lights))
			}
			if !params.Lights[0].Directional {
				t.Error("directional light not first in the march list")
			}
			if op.blend != BlendAdditive {
				t.Error("ray-march draw is not additive")
			}
		case ProgramReproject:
			t.Error("reprojection recorded with temporal off")
		case ProgramBlit:
			composited = true
			if op.target != f.SceneColor {
				t.Error("composite does not write the scene color target")
			}
		}
	}
	if !marched || !composited {
		t.Errorf("marched=%t composited=%t, want both", marched, composited)
	}
	if n := backend.pool.outstanding(); n != 0 {
		t.Errorf("outstanding pool targets = %d, want 0", n)
	}
}
