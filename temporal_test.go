package fog

import "testing"

func TestJitterOffsetCoverage(t *testing.T) {
	for _, kernel := range []int{2, 3, 4} {
		total := kernel * kernel
		seen := make(map[[2]int]int)
		// Several full cycles; every offset must appear once per cycle.
		const cycles = 3
		for frame := 0; frame < cycles*total; frame++ {
			x, y := JitterOffset(frame%total, kernel)
			if x < 0 || x >= kernel || y < 0 || y >= kernel {
				t.Fatalf("kernel %d: offset (%d,%d) outside grid", kernel, x, y)
			}
			seen[[2]int{x, y}]++
		}
		if len(seen) != total {
			t.Errorf("kernel %d: %d distinct offsets over %d frames, want %d", kernel, len(seen), cycles*total, total)
		}
		for off, n := range seen {
			if n != cycles {
				t.Errorf("kernel %d: offset %v sampled %d times, want %d", kernel, off, n, cycles)
			}
		}
	}
}

func TestJitterOffsetDeterministic(t *testing.T) {
	// Same counter, same offset: the rotation is a pure function of
	// the counter.
	for frame := 0; frame < 16; frame++ {
		x1, y1 := JitterOffset(frame, 4)
		x2, y2 := JitterOffset(frame, 4)
		if x1 != x2 || y1 != y2 {
			t.Fatalf("JitterOffset(%d, 4) not deterministic: (%d,%d) vs (%d,%d)", frame, x1, y1, x2, y2)
		}
	}
}

func TestAdvanceJitterWraps(t *testing.T) {
	p := &Pipeline{cfg: Config{TemporalKernelFactor: 2}}
	total := p.cfg.KernelSize() * p.cfg.KernelSize()

	for frame := 0; frame < 2*total; frame++ {
		index, x, y := p.advanceJitter()
		if index != frame%total {
			t.Errorf("frame %d: index = %d, want %d", frame, index, frame%total)
		}
		wx, wy := JitterOffset(frame%total, 2)
		if x != wx || y != wy {
			t.Errorf("frame %d: offset (%d,%d), want (%d,%d)", frame, x, y, wx, wy)
		}
	}
}

func TestSelectAccumTarget(t *testing.T) {
	full := &fakeTexture{}
	tile := &fakeTexture{}
	half := &fakeTexture{}
	quarter := &fakeTexture{}

	tests := []struct {
		name    string
		cfg     Config
		targets *frameTargets
		want    Texture
	}{
		{
			name:    "quarter wins",
			cfg:     Config{Mode: ModeQuarter},
			targets: &frameTargets{full: full, quarterFog: quarter},
			want:    quarter,
		},
		{
			name:    "half wins",
			cfg:     Config{Mode: ModeHalf},
			targets: &frameTargets{full: full, halfFog: half},
			want:    half,
		},
		{
			name:    "temporal tile",
			cfg:     Config{Temporal: true},
			targets: &frameTargets{full: full, tile: tile},
			want:    tile,
		},
		{
			name:    "full fallback",
			cfg:     Config{},
			targets: &frameTargets{full: full},
			want:    full,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := selectAccumTarget(tt.cfg, tt.targets); got != tt.want {
				t.Errorf("selectAccumTarget() picked the wrong target")
			}
		})
	}
}
