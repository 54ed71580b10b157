package fog

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

var transparentBlack = gputypes.Color{R: 0, G: 0, B: 0, A: 0}

// selectAccumTarget picks the target the ray-march accumulates into:
// the quarter target in quarter mode, the half target in half mode,
// the temporal tile when reprojection is on, and the full target
// otherwise.
func selectAccumTarget(cfg Config, t *frameTargets) Texture {
	switch {
	case t.quarterFog != nil:
		return t.quarterFog
	case t.halfFog != nil:
		return t.halfFog
	case cfg.Temporal && t.tile != nil:
		return t.tile
	default:
		return t.full
	}
}

// prepareAccumTarget selects and clears the accumulation target.
// Low-resolution accumulation never persists across frames; only the
// history buffer does, so the bound target starts transparent black
// every frame.
func (p *Pipeline) prepareAccumTarget(enc CommandEncoder, t *frameTargets) (Texture, error) {
	dst := selectAccumTarget(p.cfg, t)
	if err := enc.Clear(dst, transparentBlack); err != nil {
		return nil, fmt.Errorf("fog: clear accumulation target: %w", err)
	}
	return dst, nil
}

// JitterOffset maps a frame counter to a tile offset in the jitter
// grid, cycling deterministically through all kernel*kernel offsets:
// x walks the row, y advances every kernel frames. Every offset is
// visited exactly once per kernel*kernel frames, giving even coverage
// over any window of that length.
func JitterOffset(counter, kernel int) (x, y int) {
	if kernel < 1 {
		return 0, 0
	}
	return counter % kernel, (counter / kernel) % kernel
}

// advanceJitter returns the current tile counter and offset, then
// advances the counter by one modulo kernel squared.
func (p *Pipeline) advanceJitter() (index, x, y int) {
	k := p.cfg.KernelSize()
	index = p.jitter
	x, y = JitterOffset(index, k)
	p.jitter = (p.jitter + 1) % (k * k)
	return index, x, y
}

// ensureHistory lazily (re)allocates the temporal history buffer
// whenever it is absent or its dimensions no longer match the camera
// target. Reallocation discards prior history; the next reprojection
// blends against cleared data, an accepted one-frame transient.
func (p *Pipeline) ensureHistory(width, height int) (realloc bool, err error) {
	if p.history != nil && p.history.Width() == width && p.history.Height() == height {
		return false, nil
	}
	if p.history != nil {
		p.backend.Pool().Release(p.history)
		p.history = nil
	}
	tex, err := p.backend.Pool().Acquire(TargetDesc{
		Label:  "fog/history",
		Width:  width,
		Height: height,
		Format: p.cfg.ColorFormat,
	})
	if err != nil {
		return false, fmt.Errorf("fog: acquire history buffer: %w", err)
	}
	p.history = tex
	Logger().Debug("fog: temporal history (re)allocated",
		"width", width, "height", height)
	return true, nil
}

// reproject runs the temporal stage: make sure the history buffer
// matches the camera target, blend the freshly rendered tile with the
// history into the full-resolution fog target, then store that result
// back as the new history. Editor and preview cameras reproject with
// zero motion influence so stale motion vectors cannot smear them.
func (p *Pipeline) reproject(enc CommandEncoder, f *Frame, t *frameTargets, jx, jy int) (realloc bool, err error) {
	realloc, err = p.ensureHistory(f.Camera.Width, f.Camera.Height)
	if err != nil {
		return false, err
	}
	if realloc {
		if err := enc.Clear(p.history, transparentBlack); err != nil {
			return realloc, fmt.Errorf("fog: clear history: %w", err)
		}
	}

	err = enc.Draw(DrawCall{
		Program: p.programs.reproject,
		Target:  t.full,
		Inputs:  []Texture{t.tile, p.history},
		Params: ReprojectParams{
			MotionInfluence: f.Camera.MotionInfluence(),
			Blend:           p.cfg.TemporalBlend,
			JitterX:         int32(jx),
			JitterY:         int32(jy),
			KernelSize:      int32(p.cfg.KernelSize()),
		},
		Blend: BlendReplace,
	})
	if err != nil {
		return realloc, fmt.Errorf("fog: reprojection pass: %w", err)
	}

	// History stores the post-reprojection full-resolution result, not
	// the raw tile.
	if err := enc.Copy(t.full, p.history); err != nil {
		return realloc, fmt.Errorf("fog: copy fog to history: %w", err)
	}
	return realloc, nil
}
