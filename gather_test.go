package fog

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// testCamera returns a camera at the origin looking down -Z with a
// 90 degree vertical field of view.
func testCamera(width, height int) Camera {
	view := LookAt(Vec3{0, 0, 0}, Vec3{0, 0, -1}, Vec3{0, 1, 0})
	proj := Perspective(1.5707963, float32(width)/float32(height), 0.1, 100)
	return Camera{
		Kind:     CameraGame,
		Position: Vec3{0, 0, 0},
		ViewProj: proj.Mul(view),
		Width:    width,
		Height:   height,
		Near:     0.1,
		Far:      100,
	}
}

func TestVisibleVolumesCulling(t *testing.T) {
	cam := testCamera(512, 512)
	fr := cam.Frustum()

	tests := []struct {
		name    string
		center  Vec3
		radius  float32
		visible bool
	}{
		{name: "in front of camera", center: Vec3{0, 0, -20}, radius: 3, visible: true},
		{name: "behind camera", center: Vec3{0, 0, 20}, radius: 1, visible: false},
		{name: "on the left plane", center: Vec3{-10, 0, -10}, radius: 2, visible: true},
		{name: "straddling the left plane", center: Vec3{-11, 0, -10}, radius: 2, visible: true},
		{name: "outside the left plane", center: Vec3{-16, 0, -10}, radius: 2, visible: false},
		{name: "ten times past the far plane", center: Vec3{0, 0, -1000}, radius: 1, visible: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vols := []*Volume{NewVolume(tt.center, tt.radius, nil)}
			got := VisibleVolumes(vols, &fr)
			if visible := len(got) == 1; visible != tt.visible {
				t.Errorf("volume at %v r=%v visible = %v, want %v", tt.center, tt.radius, visible, tt.visible)
			}
		})
	}
}

func TestVisibleVolumesPreservesOrder(t *testing.T) {
	cam := testCamera(512, 512)
	fr := cam.Frustum()

	a := NewVolume(Vec3{0, 0, -30}, 2, nil)
	hidden := NewVolume(Vec3{0, 0, 30}, 1, nil)
	b := NewVolume(Vec3{0, 0, -10}, 2, nil)

	got := VisibleVolumes([]*Volume{a, hidden, b}, &fr)
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("VisibleVolumes() = %v, want [a b] in registration order", got)
	}
}

func TestGatherLightsOrdering(t *testing.T) {
	cam := testCamera(512, 512)
	fr := cam.Frustum()

	lights := []Light{
		{Kind: LightPoint, Position: Vec3{0, 0, -3}, Range: 10}, // distance sq 9
		{Kind: LightDirectional, Direction: Vec3{0, -1, 0}},
		{Kind: LightPoint, Position: Vec3{0, 0, -1}, Range: 10}, // distance sq 1
		{Kind: LightPoint, Position: Vec3{0, 0, -2}, Range: 10}, // distance sq 4
	}

	got := GatherLights(lights, -1, &fr, cam.Position, NoShadows)
	if len(got) != 4 {
		t.Fatalf("GatherLights() kept %d lights, want 4", len(got))
	}
	if !got[0].Directional {
		t.Error("first gathered light is not the directional light")
	}
	wantDist := []float32{0, 1, 4, 9}
	for i, want := range wantDist {
		if got[i].DistanceSq != want {
			t.Errorf("light[%d].DistanceSq = %v, want %v", i, got[i].DistanceSq, want)
		}
	}
}

func TestGatherLightsRangeCull(t *testing.T) {
	cam := testCamera(512, 512)
	fr := cam.Frustum()

	lights := []Light{
		// Far outside the frustum with a small range: culled.
		{Kind: LightPoint, Position: Vec3{500, 0, -5}, Range: 1},
		// Same spot but the range sphere reaches the frustum: kept.
		{Kind: LightPoint, Position: Vec3{500, 0, -5}, Range: 600},
		// Spot lights cull by range like point lights.
		{Kind: LightSpot, Position: Vec3{-500, 0, -5}, Range: 1, SpotAngle: 0.5},
		// Directional lights are never culled.
		{Kind: LightDirectional, Direction: Vec3{1, 0, 0}},
	}

	got := GatherLights(lights, -1, &fr, cam.Position, NoShadows)
	if len(got) != 2 {
		t.Fatalf("GatherLights() kept %d lights, want 2", len(got))
	}
	if !got[0].Directional {
		t.Error("directional light not first after sort")
	}
	if got[1].Directional || got[1].Range != 600 {
		t.Errorf("kept ranged light has Range = %v, want 600", got[1].Range)
	}
}

func TestGatherLightsMainLightSentinel(t *testing.T) {
	cam := testCamera(512, 512)
	fr := cam.Frustum()

	// The resolver reports a valid slot for every light, including the
	// main one.
	resolver := ShadowSlotFunc(func(i int) (int32, bool) {
		return int32(10 + i), true
	})

	lights := []Light{
		{Kind: LightPoint, Position: Vec3{0, 0, -2}, Range: 10},
		{Kind: LightPoint, Position: Vec3{0, 0, -4}, Range: 10},
	}

	got := GatherLights(lights, 0, &fr, cam.Position, resolver)
	if len(got) != 2 {
		t.Fatalf("GatherLights() kept %d lights, want 2", len(got))
	}
	// Sorted nearest first: index 0 (distance sq 4) then index 1 (16).
	if got[0].ShadowSlot != ShadowSlotNone {
		t.Errorf("main light ShadowSlot = %d, want ShadowSlotNone even though the host reports slot 10", got[0].ShadowSlot)
	}
	if got[1].ShadowSlot != 11 {
		t.Errorf("secondary light ShadowSlot = %d, want 11 from resolver", got[1].ShadowSlot)
	}
}

func TestGatherLightsDirectionalShadowNone(t *testing.T) {
	cam := testCamera(512, 512)
	fr := cam.Frustum()

	resolver := ShadowSlotFunc(func(i int) (int32, bool) { return 5, true })
	lights := []Light{{Kind: LightDirectional, Direction: Vec3{0, -1, 0}}}

	got := GatherLights(lights, -1, &fr, cam.Position, resolver)
	if len(got) != 1 {
		t.Fatalf("GatherLights() kept %d lights, want 1", len(got))
	}
	if got[0].ShadowSlot != ShadowSlotNone {
		t.Errorf("directional ShadowSlot = %d, want ShadowSlotNone", got[0].ShadowSlot)
	}
	if got[0].DistanceSq != 0 {
		t.Errorf("directional DistanceSq = %v, want 0", got[0].DistanceSq)
	}
}

func TestGatherLightsMissingResolverLogs(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError})))

	cam := testCamera(512, 512)
	fr := cam.Frustum()
	lights := []Light{{Kind: LightPoint, Position: Vec3{0, 0, -5}, Range: 10}}

	got := GatherLights(lights, -1, &fr, cam.Position, nil)
	if len(got) != 1 {
		t.Fatalf("GatherLights() kept %d lights, want 1", len(got))
	}
	if got[0].ShadowSlot != ShadowSlotNone {
		t.Errorf("unresolved ShadowSlot = %d, want ShadowSlotNone", got[0].ShadowSlot)
	}
	if !strings.Contains(buf.String(), "shadow slot mapping unavailable") {
		t.Errorf("missing resolver did not log loudly; log output: %s", buf.String())
	}
}

func TestGatherLightsNoShadowsSilent(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError})))

	cam := testCamera(512, 512)
	fr := cam.Frustum()
	lights := []Light{{Kind: LightPoint, Position: Vec3{0, 0, -5}, Range: 10}}

	GatherLights(lights, -1, &fr, cam.Position, NoShadows)
	if buf.Len() != 0 {
		t.Errorf("NoShadows resolver produced diagnostics: %s", buf.String())
	}
}

func TestGatherLightsStableSort(t *testing.T) {
	cam := testCamera(512, 512)
	fr := cam.Frustum()

	// Two lights at the same distance keep their host order.
	lights := []Light{
		{Kind: LightPoint, Position: Vec3{0, 1, -2}, Range: 10, LayerMask: 1},
		{Kind: LightPoint, Position: Vec3{0, -1, -2}, Range: 10, LayerMask: 2},
	}

	got := GatherLights(lights, -1, &fr, cam.Position, NoShadows)
	if len(got) != 2 {
		t.Fatalf("GatherLights() kept %d lights, want 2", len(got))
	}
	if got[0].LayerMask != 1 || got[1].LayerMask != 2 {
		t.Errorf("equal-distance lights reordered: masks [%d %d], want [1 2]", got[0].LayerMask, got[1].LayerMask)
	}
}
