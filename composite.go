package fog

import "fmt"

// composite blends the finished fog onto the camera color target. The
// scene color is first copied to a scratch target so the final draw
// can sample it while writing back to the same camera target: the blit
// reads base and fog and writes base + fog, with the fog's opacity
// already baked in by the ray-march and ambient terms.
func (p *Pipeline) composite(enc CommandEncoder, f *Frame, t *frameTargets) error {
	pool := p.backend.Pool()
	scratch, err := pool.Acquire(TargetDesc{
		Label:  "fog/composite-scratch",
		Width:  f.SceneColor.Width(),
		Height: f.SceneColor.Height(),
		Format: f.SceneColor.Format(),
	})
	if err != nil {
		return fmt.Errorf("fog: acquire composite scratch: %w", err)
	}
	defer pool.Release(scratch)

	if err := enc.Copy(f.SceneColor, scratch); err != nil {
		return fmt.Errorf("fog: copy scene color: %w", err)
	}

	if err := enc.Draw(DrawCall{
		Program: p.programs.blit,
		Target:  f.SceneColor,
		Inputs:  []Texture{scratch, t.full},
		Blend:   BlendReplace,
	}); err != nil {
		return fmt.Errorf("fog: composite blit: %w", err)
	}
	return nil
}
