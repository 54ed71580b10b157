package fog

import (
	"fmt"
	"time"
)

// Pipeline renders volumetric fog for one camera. The host invokes it
// once per frame through three hooks: Setup acquires render targets,
// Execute records the fog stages, Cleanup releases the targets. The
// persistent temporal history survives across frames and is freed by
// Dispose.
//
// A pipeline instance serves a single camera and must not be invoked
// concurrently: commands are recorded into one ordered stream, and the
// temporal history is read and written by consecutive frames. Hosts
// rendering several cameras run one pipeline per camera; Registry
// state can be shared by registering volumes into each.
type Pipeline struct {
	cfg      Config
	backend  Backend
	registry *Registry
	programs programSet

	// targets holds the frame-scoped render targets between Setup and
	// Cleanup. history persists across frames until Dispose.
	targets *frameTargets
	history Texture

	// jitter is the rotating temporal tile counter in [0, kernel^2).
	jitter int

	stats    FrameStats
	disposed bool
}

// NewPipeline builds a fog pipeline on the given backend.
//
// All four GPU programs must already be registered with the backend;
// a missing program is a configuration error reported here, not per
// frame.
func NewPipeline(backend Backend, opts ...Option) (*Pipeline, error) {
	if backend == nil {
		return nil, ErrNilBackend
	}

	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	programs, err := loadPrograms(backend.Programs())
	if err != nil {
		return nil, err
	}

	Logger().Info("fog: pipeline ready",
		"mode", cfg.Mode.String(),
		"temporal", cfg.Temporal,
		"kernel", cfg.KernelSize())

	return &Pipeline{
		cfg:      cfg,
		backend:  backend,
		registry: NewRegistry(),
		programs: programs,
	}, nil
}

// Config returns the pipeline settings.
func (p *Pipeline) Config() Config { return p.cfg }

// Registry returns the pipeline's active-volume set.
func (p *Pipeline) Registry() *Registry { return p.registry }

// Stats returns the counters from the most recent frame.
func (p *Pipeline) Stats() FrameStats { return p.stats }

// Setup acquires the render targets the frame needs, sized to the
// camera target. On failure nothing stays acquired and the frame
// should be skipped; calling Cleanup is still safe.
func (p *Pipeline) Setup(f *Frame) error {
	if p.disposed {
		return ErrDisposed
	}
	if f == nil || f.Camera.Width <= 0 || f.Camera.Height <= 0 {
		return ErrZeroTargetSize
	}

	p.stats = FrameStats{Mode: p.cfg.EffectiveMode()}

	targets, err := acquireTargets(p.backend.Pool(), p.cfg, f.Camera.Width, f.Camera.Height)
	if err != nil {
		Logger().Error("fog: target allocation failed, skipping frame", "error", err)
		return err
	}
	p.targets = targets
	p.stats.TargetsAcquired = len(targets.acquired)
	return nil
}

// Execute records the fog stages for a frame prepared by Setup.
//
// Stage order is fixed: visibility gather, depth downsample, target
// clear, per-volume ray-march, temporal reprojection, bilateral
// blur/upsample, composite. When no volume is visible the frame is
// skipped after gathering, a normal condition rather than an error,
// and Cleanup still releases everything Setup acquired.
func (p *Pipeline) Execute(f *Frame) error {
	if p.disposed {
		return ErrDisposed
	}
	if p.targets == nil {
		return ErrFrameNotSetUp
	}

	start := time.Now()
	t := p.targets
	mode := p.cfg.EffectiveMode()

	volumes, lights := p.gather(f)
	p.stats.RegisteredVolumes = p.registry.Len()
	p.stats.VisibleVolumes = len(volumes)
	p.stats.HostLights = len(f.Lights)
	p.stats.GatheredLights = len(lights)

	if len(volumes) == 0 {
		p.stats.Skipped = true
		p.stats.Elapsed = time.Since(start)
		Logger().Debug("fog: no visible volumes, frame skipped")
		return nil
	}

	enc, err := p.backend.BeginFrame("fog")
	if err != nil {
		return fmt.Errorf("fog: begin frame: %w", err)
	}
	finished := false
	defer func() {
		if !finished {
			enc.Discard()
		}
	}()

	if err := p.downsampleDepth(enc, f, t, mode); err != nil {
		return err
	}

	dst, err := p.prepareAccumTarget(enc, t)
	if err != nil {
		return err
	}

	var jitterTexels [2]float32
	var jx, jy int
	if p.cfg.Temporal {
		k := p.cfg.KernelSize()
		var index int
		index, jx, jy = p.advanceJitter()
		jitterTexels[0] = float32(jx) / float32(k)
		jitterTexels[1] = float32(jy) / float32(k)
		p.stats.JitterIndex = index
	}

	if err := p.rasterizeVolumes(enc, f, dst, volumes, lights, jitterTexels); err != nil {
		return err
	}

	if p.cfg.Temporal {
		realloc, err := p.reproject(enc, f, t, jx, jy)
		if err != nil {
			return err
		}
		p.stats.HistoryRealloc = realloc
	}

	if err := p.blurAndUpsample(enc, f, t, mode); err != nil {
		return err
	}

	if err := p.composite(enc, f, t); err != nil {
		return err
	}

	if err := enc.Finish(); err != nil {
		return fmt.Errorf("fog: submit frame: %w", err)
	}
	finished = true

	p.stats.Elapsed = time.Since(start)
	return nil
}

// Cleanup releases the render targets acquired by Setup. It must run
// for every frame whose Setup succeeded, on every exit path, including
// skipped and failed frames. Safe to call when Setup failed or never
// ran.
func (p *Pipeline) Cleanup() {
	if p.targets != nil {
		p.targets.release(p.backend.Pool())
		p.targets = nil
	}
}

// RenderFrame runs Setup, Execute and Cleanup for one frame, keeping
// acquire and release symmetric on every path. Hosts with their own
// pass scheduling call the hooks directly instead.
func (p *Pipeline) RenderFrame(f *Frame) error {
	if err := p.Setup(f); err != nil {
		return err
	}
	defer p.Cleanup()
	return p.Execute(f)
}

// Dispose releases the persistent temporal history and marks the
// pipeline unusable. Idempotent.
func (p *Pipeline) Dispose() {
	if p.disposed {
		return
	}
	p.Cleanup()
	if p.history != nil {
		p.backend.Pool().Release(p.history)
		p.history = nil
	}
	p.disposed = true
	Logger().Debug("fog: pipeline disposed")
}
