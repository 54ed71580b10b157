package fog

import "fmt"

// Blur tuning shared by every mode. The separable kernel weights
// samples by depth difference against the bound guide, so fog never
// bleeds across silhouettes.
const (
	blurRadius         = 4
	blurDepthSigma     = 0.5
	upsampleDepthSigma = 0.5
)

// blurAndUpsample smooths the fog buffer and, below full resolution,
// reconstructs the full-resolution result with a depth-aware upsample.
//
// Half and quarter modes blur the working pair first, then upsample
// into the full target using the low-resolution depth as the guide and
// the camera depth as the high-resolution reference. Full mode blurs
// the full target in place against the native depth unless blur is
// disabled, in which case the stage does nothing.
func (p *Pipeline) blurAndUpsample(enc CommandEncoder, f *Frame, t *frameTargets, mode Mode) error {
	switch mode {
	case ModeHalf:
		if err := p.blurWithScratch(enc, t.halfFog, t.halfDepth); err != nil {
			return err
		}
		return p.upsampleToFull(enc, t.halfFog, t.halfDepth, f.SceneDepth, t.full)
	case ModeQuarter:
		if err := p.blurWithScratch(enc, t.quarterFog, t.quarterDepth); err != nil {
			return err
		}
		return p.upsampleToFull(enc, t.quarterFog, t.quarterDepth, f.SceneDepth, t.full)
	default:
		if p.cfg.DisableBlur {
			return nil
		}
		return p.blurWithScratch(enc, t.full, f.SceneDepth)
	}
}

// blurWithScratch runs the separable blur: horizontal into a scratch
// target at the source resolution, then vertical back into fog. The
// scratch comes from the pool and is released on every path out.
func (p *Pipeline) blurWithScratch(enc CommandEncoder, fog, depth Texture) error {
	pool := p.backend.Pool()
	scratch, err := pool.Acquire(TargetDesc{
		Label:  "fog/blur-scratch",
		Width:  fog.Width(),
		Height: fog.Height(),
		Format: fog.Format(),
	})
	if err != nil {
		return fmt.Errorf("fog: acquire blur scratch: %w", err)
	}
	defer pool.Release(scratch)

	params := BlurParams{Radius: blurRadius, DepthSigma: blurDepthSigma}

	if err := enc.Draw(DrawCall{
		Program: p.programs.bilateral,
		Pass:    BilateralPassBlurH,
		Target:  scratch,
		Inputs:  []Texture{fog, depth},
		Params:  params,
		Blend:   BlendReplace,
	}); err != nil {
		return fmt.Errorf("fog: horizontal blur: %w", err)
	}

	if err := enc.Draw(DrawCall{
		Program: p.programs.bilateral,
		Pass:    BilateralPassBlurV,
		Target:  fog,
		Inputs:  []Texture{scratch, depth},
		Params:  params,
		Blend:   BlendReplace,
	}); err != nil {
		return fmt.Errorf("fog: vertical blur: %w", err)
	}
	return nil
}

// upsampleToFull reconstructs full-resolution fog from the low
// resolution pair, weighting each contribution by how closely its low
// resolution depth matches the full-resolution depth.
func (p *Pipeline) upsampleToFull(enc CommandEncoder, lowFog, lowDepth, highDepth, dst Texture) error {
	if err := enc.Draw(DrawCall{
		Program: p.programs.bilateral,
		Pass:    BilateralPassUpsample,
		Target:  dst,
		Inputs:  []Texture{lowFog, lowDepth, highDepth},
		Params:  UpsampleParams{DepthSigma: upsampleDepthSigma},
		Blend:   BlendReplace,
	}); err != nil {
		return fmt.Errorf("fog: depth-aware upsample: %w", err)
	}
	return nil
}
