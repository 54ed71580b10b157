package fog

import "fmt"

// rasterizeVolumes invokes the ray-march once per visible volume,
// accumulating additively into dst. The caller has already bound and
// cleared dst (see selectAccumTarget); draw order follows the visible
// list, which preserves active-set order.
//
// Each draw receives the full ordered light list clamped to the
// configured per-volume maximum, so a crowded scene drops its farthest
// lights rather than growing the shader cost without bound.
func (p *Pipeline) rasterizeVolumes(enc CommandEncoder, f *Frame, dst Texture, volumes []*Volume, lights []Snapshot, jitter [2]float32) error {
	clamped := lights
	if max := p.cfg.MaxLightsPerVolume; max > 0 && len(clamped) > max {
		clamped = clamped[:max]
	}

	for i, v := range volumes {
		center, radius := v.BoundingSphere()
		err := enc.Draw(DrawCall{
			Program: p.programs.rayMarch,
			Target:  dst,
			Inputs:  []Texture{f.SceneDepth},
			Params: RayMarchParams{
				VolumeCenter: center,
				VolumeRadius: radius,
				Profile:      *v.profile(),
				CameraPos:    f.Camera.Position,
				ViewProj:     f.Camera.ViewProj,
				Jitter:       jitter,
				Time:         f.Time,
				Lights:       clamped,
			},
			Blend: BlendAdditive,
		})
		if err != nil {
			return fmt.Errorf("fog: ray-march volume %d: %w", i, err)
		}
	}
	return nil
}
