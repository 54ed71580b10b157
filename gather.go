package fog

import "sort"

// VisibleVolumes filters a volume snapshot down to the volumes whose
// bounding spheres intersect the camera frustum, preserving active-set
// order. The far plane is skipped by the sphere test, so fog volumes
// beyond the draw distance stay visible.
func VisibleVolumes(volumes []*Volume, fr *Frustum) []*Volume {
	out := make([]*Volume, 0, len(volumes))
	for _, v := range volumes {
		center, radius := v.BoundingSphere()
		if fr.ContainsSphere(center, radius) {
			out = append(out, v)
		}
	}
	return out
}

// GatherLights culls the host's visible-light list against the frustum
// and packages the kept lights as ray-march snapshots, sorted nearest
// first.
//
// Non-directional lights are culled with the same sphere test as
// volumes, using the light range as the radius. Directional lights are
// never culled and pin to squared distance 0 so they sort to the
// front. Directional lights and the designated main light always carry
// ShadowSlotNone: the main light's shadowing comes from the main
// shadow map upstream, even when the host reports a slot for it. All
// other lights resolve their slot through the resolver; a missing
// mapping is logged and falls back to ShadowSlotNone, since a silently
// mismapped slot would sample the wrong shadow map.
//
// The list is gathered independently of volume visibility: a light is
// kept even when no volume is visible this frame.
func GatherLights(lights []Light, mainLight int, fr *Frustum, camPos Vec3, shadows ShadowSlotResolver) []Snapshot {
	out := make([]Snapshot, 0, len(lights))
	unresolved := 0

	for i, l := range lights {
		if l.Kind != LightDirectional && !fr.ContainsSphere(l.Position, l.Range) {
			continue
		}

		snap := Snapshot{
			Directional: l.Kind == LightDirectional,
			Range:       l.Range,
			LayerMask:   l.LayerMask,
			Position:    l.Position,
			Direction:   l.Direction,
			Color:       l.Color,
			Attenuation: l.Attenuation,
			SpotAngle:   l.SpotAngle,
			ShadowSlot:  ShadowSlotNone,
		}

		switch {
		case l.Kind == LightDirectional:
			// Distance stays 0; slot stays none.
		case i == mainLight:
			snap.DistanceSq = l.Position.Sub(camPos).LenSq()
		default:
			snap.DistanceSq = l.Position.Sub(camPos).LenSq()
			if slot, ok := resolveShadowSlot(shadows, i); ok {
				snap.ShadowSlot = slot
			} else {
				unresolved++
			}
		}

		out = append(out, snap)
	}

	if unresolved > 0 {
		Logger().Error("fog: shadow slot mapping unavailable, lights rendered unshadowed",
			"lights", unresolved)
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].DistanceSq < out[b].DistanceSq
	})
	return out
}

func resolveShadowSlot(shadows ShadowSlotResolver, i int) (int32, bool) {
	if shadows == nil {
		return ShadowSlotNone, false
	}
	return shadows.ShadowSlot(i)
}

// gather runs the visibility stage for one frame.
func (p *Pipeline) gather(f *Frame) ([]*Volume, []Snapshot) {
	fr := f.Camera.Frustum()
	volumes := VisibleVolumes(p.registry.Volumes(), &fr)
	lights := GatherLights(f.Lights, f.MainLight, &fr, f.Camera.Position, f.Shadows)
	return volumes, lights
}
