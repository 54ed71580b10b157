package fog

import "fmt"

// downsampleDepth produces the low-resolution depth copies used as
// blur and upsample guides. Each level is point-sampled from the one
// above: depth across a discontinuity must never be averaged, so every
// output texel copies exactly one input texel. Half mode fills the
// half-resolution depth; quarter mode chains full to half to quarter.
// No work in full mode.
func (p *Pipeline) downsampleDepth(enc CommandEncoder, f *Frame, t *frameTargets, mode Mode) error {
	if mode == ModeFull {
		return nil
	}

	if err := enc.Draw(DrawCall{
		Program: p.programs.bilateral,
		Pass:    BilateralPassDownsample,
		Target:  t.halfDepth,
		Inputs:  []Texture{f.SceneDepth},
		Blend:   BlendReplace,
	}); err != nil {
		return fmt.Errorf("fog: depth downsample to half: %w", err)
	}

	if mode == ModeQuarter {
		if err := enc.Draw(DrawCall{
			Program: p.programs.bilateral,
			Pass:    BilateralPassDownsample,
			Target:  t.quarterDepth,
			Inputs:  []Texture{t.halfDepth},
			Blend:   BlendReplace,
		}); err != nil {
			return fmt.Errorf("fog: depth downsample to quarter: %w", err)
		}
	}
	return nil
}
