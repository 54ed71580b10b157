package fog

import "fmt"

// targetRole identifies each render target the allocator manages.
type targetRole int

const (
	roleFull targetRole = iota
	roleTile
	roleHalfFog
	roleHalfDepth
	roleQuarterFog
	roleQuarterDepth
)

type targetPlan struct {
	role targetRole
	desc TargetDesc
}

// planTargets lists the targets a frame needs, in allocation order.
//
// The full-resolution accumulation target is always present. The
// temporal tile exists only with reprojection on, sized to the camera
// target divided by the kernel. Half mode adds a half-resolution
// fog+depth pair; quarter mode adds the quarter pair plus the
// half-resolution depth it downsamples through.
func planTargets(cfg Config, width, height int) []targetPlan {
	mode := cfg.EffectiveMode()
	plan := []targetPlan{{
		role: roleFull,
		desc: TargetDesc{Label: "fog/full", Width: width, Height: height, Format: cfg.ColorFormat},
	}}

	if cfg.Temporal {
		k := cfg.KernelSize()
		tw := (width + k - 1) / k
		th := (height + k - 1) / k
		if tw < 1 {
			tw = 1
		}
		if th < 1 {
			th = 1
		}
		plan = append(plan, targetPlan{
			role: roleTile,
			desc: TargetDesc{Label: "fog/tile", Width: tw, Height: th, Format: cfg.ColorFormat},
		})
	}

	switch mode {
	case ModeHalf:
		hw, hh := ModeHalf.scale(width), ModeHalf.scale(height)
		plan = append(plan,
			targetPlan{role: roleHalfFog, desc: TargetDesc{Label: "fog/half", Width: hw, Height: hh, Format: cfg.ColorFormat}},
			targetPlan{role: roleHalfDepth, desc: TargetDesc{Label: "fog/half-depth", Width: hw, Height: hh, Format: cfg.DepthFormat}},
		)
	case ModeQuarter:
		hw, hh := ModeHalf.scale(width), ModeHalf.scale(height)
		qw, qh := ModeQuarter.scale(width), ModeQuarter.scale(height)
		plan = append(plan,
			targetPlan{role: roleHalfDepth, desc: TargetDesc{Label: "fog/half-depth", Width: hw, Height: hh, Format: cfg.DepthFormat}},
			targetPlan{role: roleQuarterFog, desc: TargetDesc{Label: "fog/quarter", Width: qw, Height: qh, Format: cfg.ColorFormat}},
			targetPlan{role: roleQuarterDepth, desc: TargetDesc{Label: "fog/quarter-depth", Width: qw, Height: qh, Format: cfg.DepthFormat}},
		)
	}
	return plan
}

// PlanTargets returns the target descriptors a pipeline with this
// configuration would allocate for the given camera size, in
// allocation order. Useful for capacity planning and diagnostics.
func PlanTargets(cfg Config, width, height int) []TargetDesc {
	plan := planTargets(cfg, width, height)
	out := make([]TargetDesc, len(plan))
	for i, p := range plan {
		out[i] = p.desc
	}
	return out
}

// frameTargets holds one frame's scoped render targets. Every field
// acquired in Setup is released in Cleanup; the temporal history
// buffer lives on the pipeline instead, since it persists across
// frames.
type frameTargets struct {
	full         Texture
	tile         Texture
	halfFog      Texture
	halfDepth    Texture
	quarterFog   Texture
	quarterDepth Texture

	acquired []Texture
}

// acquireTargets allocates the frame's targets from the pool. On any
// failure it releases what it already acquired and reports the error,
// leaving nothing outstanding so the frame can be skipped cleanly.
func acquireTargets(pool TargetPool, cfg Config, width, height int) (*frameTargets, error) {
	t := &frameTargets{}
	for _, p := range planTargets(cfg, width, height) {
		tex, err := pool.Acquire(p.desc)
		if err != nil {
			t.release(pool)
			return nil, fmt.Errorf("fog: acquire %s: %w", p.desc.Label, err)
		}
		t.acquired = append(t.acquired, tex)
		switch p.role {
		case roleFull:
			t.full = tex
		case roleTile:
			t.tile = tex
		case roleHalfFog:
			t.halfFog = tex
		case roleHalfDepth:
			t.halfDepth = tex
		case roleQuarterFog:
			t.quarterFog = tex
		case roleQuarterDepth:
			t.quarterDepth = tex
		}
	}
	return t, nil
}

// release returns every acquired target to the pool. Safe to call
// after a partial acquire.
func (t *frameTargets) release(pool TargetPool) {
	for _, tex := range t.acquired {
		pool.Release(tex)
	}
	t.acquired = nil
	t.full = nil
	t.tile = nil
	t.halfFog = nil
	t.halfDepth = nil
	t.quarterFog = nil
	t.quarterDepth = nil
}
