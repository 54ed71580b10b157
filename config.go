package fog

import "github.com/gogpu/gputypes"

// Config holds the pipeline settings recognized by NewPipeline.
//
// A Config is immutable once the pipeline is constructed; changing
// resolution or temporal settings means building a new pipeline.
type Config struct {
	// Mode is the configured working resolution. The effective mode for
	// a frame also depends on Temporal; see ResolveMode.
	Mode Mode

	// Temporal enables temporal reprojection: each frame renders a
	// jittered low-resolution tile that is blended into a persistent
	// full-resolution history buffer.
	Temporal bool

	// TemporalKernelFactor controls the jitter grid. The kernel size is
	// max(2, TemporalKernelFactor) tiles per axis.
	TemporalKernelFactor int

	// DisableBlur skips the bilateral blur stage. Effective only in
	// ModeFull; lower modes always blur before upsampling.
	DisableBlur bool

	// MaxLightsPerVolume clamps how many lights a single volume's
	// ray-march samples. Lights beyond the clamp are dropped for that
	// draw, bounding worst-case shader cost.
	MaxLightsPerVolume int

	// ColorFormat is the texture format for fog accumulation targets.
	ColorFormat gputypes.TextureFormat

	// DepthFormat is the texture format for downsampled depth targets.
	// Depth copies are stored in a filterable color format so the blur
	// and upsample passes can sample them directly.
	DepthFormat gputypes.TextureFormat

	// TemporalBlend is the history weight used when blending a new tile
	// into the history buffer. Range (0, 1); higher values favor history.
	TemporalBlend float32
}

// DefaultConfig returns the settings used when no options are given:
// full resolution, temporal reprojection off, blur on.
func DefaultConfig() Config {
	return Config{
		Mode:                 ModeFull,
		Temporal:             false,
		TemporalKernelFactor: 2,
		DisableBlur:          false,
		MaxLightsPerVolume:   8,
		ColorFormat:          gputypes.TextureFormatRGBA8Unorm,
		DepthFormat:          gputypes.TextureFormatRGBA8Unorm,
		TemporalBlend:        0.9,
	}
}

// KernelSize returns the jitter grid size per axis, never below 2.
func (c Config) KernelSize() int {
	if c.TemporalKernelFactor < 2 {
		return 2
	}
	return c.TemporalKernelFactor
}

// EffectiveMode returns the working resolution after the temporal
// override is applied.
func (c Config) EffectiveMode() Mode {
	return ResolveMode(c.Mode, c.Temporal)
}

// Option configures a Pipeline during creation.
//
// Example:
//
//	p, err := fog.NewPipeline(backend,
//		fog.WithMode(fog.ModeHalf),
//		fog.WithTemporal(true),
//	)
type Option func(*Config)

// WithMode sets the configured working resolution.
func WithMode(m Mode) Option {
	return func(c *Config) {
		c.Mode = m
	}
}

// WithTemporal enables or disables temporal reprojection.
func WithTemporal(enabled bool) Option {
	return func(c *Config) {
		c.Temporal = enabled
	}
}

// WithTemporalKernelFactor sets the jitter grid factor. Values below 2
// are raised to 2 by KernelSize.
func WithTemporalKernelFactor(factor int) Option {
	return func(c *Config) {
		c.TemporalKernelFactor = factor
	}
}

// WithDisableBlur skips the bilateral blur in ModeFull.
func WithDisableBlur(disable bool) Option {
	return func(c *Config) {
		c.DisableBlur = disable
	}
}

// WithMaxLightsPerVolume sets the per-draw light clamp.
func WithMaxLightsPerVolume(n int) Option {
	return func(c *Config) {
		c.MaxLightsPerVolume = n
	}
}

// WithColorFormat overrides the fog accumulation target format.
func WithColorFormat(f gputypes.TextureFormat) Option {
	return func(c *Config) {
		c.ColorFormat = f
	}
}

// WithDepthFormat overrides the downsampled depth target format.
func WithDepthFormat(f gputypes.TextureFormat) Option {
	return func(c *Config) {
		c.DepthFormat = f
	}
}

// WithTemporalBlend sets the history blend weight.
func WithTemporalBlend(blend float32) Option {
	return func(c *Config) {
		c.TemporalBlend = blend
	}
}
