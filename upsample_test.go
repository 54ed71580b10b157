package fog

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

// failingEncoder fails the n-th draw, counting from zero.
type failingEncoder struct {
	fakeEncoder
	failAt int
}

func (e *failingEncoder) Draw(call DrawCall) error {
	if len(e.ops) == e.failAt {
		return errors.New("device lost")
	}
	return e.fakeEncoder.Draw(call)
}

func blurTestPipeline(t *testing.T, opts ...Option) (*Pipeline, *fakeBackend) {
	t.Helper()
	be := newFakeBackend()
	p, err := NewPipeline(be, opts...)
	if err != nil {
		t.Fatalf("NewPipeline() error: %v", err)
	}
	return p, be
}

func texture(w, h int) *fakeTexture {
	return &fakeTexture{desc: TargetDesc{
		Width: w, Height: h, Format: gputypes.TextureFormatRGBA8Unorm,
	}}
}

func TestBlurWithScratchSequence(t *testing.T) {
	p, be := blurTestPipeline(t)
	enc := &fakeEncoder{}
	fogTex := texture(960, 540)
	depthTex := texture(960, 540)

	if err := p.blurWithScratch(enc, fogTex, depthTex); err != nil {
		t.Fatalf("blurWithScratch() error: %v", err)
	}

	if len(be.pool.acquires) != 1 {
		t.Fatalf("acquired %d targets, want 1 scratch", len(be.pool.acquires))
	}
	scratch := be.pool.acquires[0]
	if scratch.Label != "fog/blur-scratch" {
		t.Errorf("scratch label = %q", scratch.Label)
	}
	if scratch.Width != 960 || scratch.Height != 540 {
		t.Errorf("scratch sized %dx%d, want source size", scratch.Width, scratch.Height)
	}
	if got := be.pool.outstanding(); got != 0 {
		t.Errorf("outstanding targets after blur = %d, want 0", got)
	}

	if len(enc.ops) != 2 {
		t.Fatalf("recorded %d ops, want 2", len(enc.ops))
	}
	h, v := enc.ops[0], enc.ops[1]
	if h.kind != ProgramBilateral || h.pass != BilateralPassBlurH {
		t.Errorf("first draw = %v pass %d, want bilateral blur-h", h.kind, h.pass)
	}
	if v.kind != ProgramBilateral || v.pass != BilateralPassBlurV {
		t.Errorf("second draw = %v pass %d, want bilateral blur-v", v.kind, v.pass)
	}
	if v.target != fogTex {
		t.Error("vertical pass must write back into the source fog target")
	}
	if h.blend != BlendReplace || v.blend != BlendReplace {
		t.Error("blur passes must not blend")
	}
}

func TestBlurWithScratchReleasesOnError(t *testing.T) {
	p, be := blurTestPipeline(t)
	for _, failAt := range []int{0, 1} {
		enc := &failingEncoder{failAt: failAt}
		err := p.blurWithScratch(enc, texture(64, 64), texture(64, 64))
		if err == nil {
			t.Fatalf("failAt %d: expected error", failAt)
		}
		if got := be.pool.outstanding(); got != 0 {
			t.Errorf("failAt %d: %d scratch targets leaked", failAt, got)
		}
	}
}

func TestBlurAndUpsampleHalfMode(t *testing.T) {
	p, _ := blurTestPipeline(t)
	enc := &fakeEncoder{}
	f := testFrame(1920, 1080)
	targets := &frameTargets{
		full:      texture(1920, 1080),
		halfFog:   texture(960, 540),
		halfDepth: texture(960, 540),
	}

	if err := p.blurAndUpsample(enc, f, targets, ModeHalf); err != nil {
		t.Fatalf("blurAndUpsample() error: %v", err)
	}

	if len(enc.ops) != 3 {
		t.Fatalf("recorded %d ops, want blur-h, blur-v, upsample", len(enc.ops))
	}
	up := enc.ops[2]
	if up.pass != BilateralPassUpsample {
		t.Fatalf("final pass = %d, want upsample", up.pass)
	}
	if up.target != targets.full {
		t.Error("upsample must write the full-resolution target")
	}
	want := []Texture{targets.halfFog, targets.halfDepth, f.SceneDepth}
	if len(up.inputs) != len(want) {
		t.Fatalf("upsample has %d inputs, want 3", len(up.inputs))
	}
	for i, in := range want {
		if up.inputs[i] != in {
			t.Errorf("upsample input %d wrong: low fog, low depth, high depth expected", i)
		}
	}
}

func TestBlurAndUpsampleQuarterMode(t *testing.T) {
	p, _ := blurTestPipeline(t)
	enc := &fakeEncoder{}
	f := testFrame(1920, 1080)
	targets := &frameTargets{
		full:         texture(1920, 1080),
		quarterFog:   texture(480, 270),
		quarterDepth: texture(480, 270),
	}

	if err := p.blurAndUpsample(enc, f, targets, ModeQuarter); err != nil {
		t.Fatalf("blurAndUpsample() error: %v", err)
	}
	if len(enc.ops) != 3 {
		t.Fatalf("recorded %d ops, want 3", len(enc.ops))
	}
	if got := enc.ops[2].inputs[0]; got != targets.quarterFog {
		t.Error("quarter mode must upsample from the quarter fog target")
	}
}

func TestBlurAndUpsampleFullModeBlursInPlace(t *testing.T) {
	p, _ := blurTestPipeline(t)
	enc := &fakeEncoder{}
	f := testFrame(1280, 720)
	targets := &frameTargets{full: texture(1280, 720)}

	if err := p.blurAndUpsample(enc, f, targets, ModeFull); err != nil {
		t.Fatalf("blurAndUpsample() error: %v", err)
	}
	if len(enc.ops) != 2 {
		t.Fatalf("recorded %d ops, want blur only", len(enc.ops))
	}
	for _, op := range enc.ops {
		if op.pass == BilateralPassUpsample {
			t.Error("full mode must not upsample")
		}
	}
}

func TestBlurAndUpsampleDisabled(t *testing.T) {
	p, be := blurTestPipeline(t, WithDisableBlur(true))
	enc := &fakeEncoder{}
	f := testFrame(1280, 720)
	targets := &frameTargets{full: texture(1280, 720)}

	if err := p.blurAndUpsample(enc, f, targets, ModeFull); err != nil {
		t.Fatalf("blurAndUpsample() error: %v", err)
	}
	if len(enc.ops) != 0 {
		t.Errorf("recorded %d ops with blur disabled, want 0", len(enc.ops))
	}
	if len(be.pool.acquires) != 0 {
		t.Errorf("acquired %d targets with blur disabled", len(be.pool.acquires))
	}
}
