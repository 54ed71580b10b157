package fog

import "testing"

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name       string
		configured Mode
		temporal   bool
		want       Mode
	}{
		{name: "full stays full", configured: ModeFull, temporal: false, want: ModeFull},
		{name: "half stays half", configured: ModeHalf, temporal: false, want: ModeHalf},
		{name: "quarter stays quarter", configured: ModeQuarter, temporal: false, want: ModeQuarter},
		{name: "temporal keeps full", configured: ModeFull, temporal: true, want: ModeFull},
		{name: "temporal forces half to full", configured: ModeHalf, temporal: true, want: ModeFull},
		{name: "temporal forces quarter to full", configured: ModeQuarter, temporal: true, want: ModeFull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveMode(tt.configured, tt.temporal); got != tt.want {
				t.Errorf("ResolveMode(%v, %v) = %v, want %v", tt.configured, tt.temporal, got, tt.want)
			}
			// The resolver is pure; a second call must agree.
			if got := ResolveMode(tt.configured, tt.temporal); got != tt.want {
				t.Errorf("second ResolveMode(%v, %v) = %v, want %v", tt.configured, tt.temporal, got, tt.want)
			}
		})
	}
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeFull, "full"},
		{ModeHalf, "half"},
		{ModeQuarter, "quarter"},
		{Mode(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%d).String() = %q, want %q", int(tt.mode), got, tt.want)
		}
	}
}

func TestModeDivisor(t *testing.T) {
	tests := []struct {
		mode Mode
		want int
	}{
		{ModeFull, 1},
		{ModeHalf, 2},
		{ModeQuarter, 4},
	}
	for _, tt := range tests {
		if got := tt.mode.Divisor(); got != tt.want {
			t.Errorf("%v.Divisor() = %d, want %d", tt.mode, got, tt.want)
		}
	}
}

func TestModeScaleRoundsUp(t *testing.T) {
	tests := []struct {
		mode Mode
		dim  int
		want int
	}{
		{ModeFull, 1920, 1920},
		{ModeHalf, 1920, 960},
		{ModeHalf, 1921, 961},
		{ModeQuarter, 1080, 270},
		{ModeQuarter, 1081, 271},
		{ModeQuarter, 3, 1},
	}
	for _, tt := range tests {
		if got := tt.mode.scale(tt.dim); got != tt.want {
			t.Errorf("%v.scale(%d) = %d, want %d", tt.mode, tt.dim, got, tt.want)
		}
	}
}
