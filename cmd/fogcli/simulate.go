package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/gogpu/fog"
	"github.com/gogpu/fog/backend"
	"github.com/gogpu/gputypes"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// runSimulate renders synthetic frames: fog volumes in a ring, a sun
// plus ringed point lights, and a camera orbiting the ring. It reports
// per-frame pipeline stats and checks the target pool for leaks.
func runSimulate(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := configFromFlags(ctx)
	if err != nil {
		return err
	}
	w, h := ctx.Int("width"), ctx.Int("height")
	if w <= 0 || h <= 0 {
		return fmt.Errorf("invalid camera size %dx%d", w, h)
	}
	frames := ctx.Int("frames")
	if frames <= 0 {
		return fmt.Errorf("invalid frame count %d", frames)
	}

	name := ctx.String("backend")
	be, err := backend.Get(name)
	if err != nil {
		return fmt.Errorf("backend %q: %w (registered: %v)", name, err, backend.Available())
	}

	p, err := fog.NewPipeline(be,
		fog.WithMode(cfg.Mode),
		fog.WithTemporal(cfg.Temporal),
		fog.WithTemporalKernelFactor(cfg.TemporalKernelFactor),
	)
	if err != nil {
		return err
	}
	defer p.Dispose()

	addVolumeRing(p.Registry(), ctx.Int("volumes"))
	lights := buildLights(ctx.Int("lights"))
	mainLight := -1
	if len(lights) > 0 {
		mainLight = 0
	}

	pool := be.Pool()
	sceneColor, err := pool.Acquire(fog.TargetDesc{
		Label: "scene/color", Width: w, Height: h, Format: cfg.ColorFormat,
	})
	if err != nil {
		return fmt.Errorf("acquire scene color: %w", err)
	}
	sceneDepth, err := pool.Acquire(fog.TargetDesc{
		Label: "scene/depth", Width: w, Height: h, Format: cfg.DepthFormat,
	})
	if err != nil {
		pool.Release(sceneColor)
		return fmt.Errorf("acquire scene depth: %w", err)
	}

	stats, runErr := renderFrames(p, be, frames, w, h, sceneColor, sceneDepth, lights, mainLight)
	pool.Release(sceneDepth)
	pool.Release(sceneColor)
	if runErr != nil {
		return runErr
	}

	if o, ok := be.(interface{ Outstanding() int }); ok {
		if n := o.Outstanding(); n != 0 {
			return fmt.Errorf("target pool leak: %d outstanding after %d frames", n, frames)
		}
	}

	if ctx.Bool("per-frame") {
		printFrameTable(stats)
	}
	printSummary(name, cfg, stats)
	return nil
}

func renderFrames(p *fog.Pipeline, be fog.Backend, frames, w, h int,
	sceneColor, sceneDepth fog.Texture, lights []fog.Light, mainLight int,
) ([]fog.FrameStats, error) {
	if err := clearScene(be, sceneColor, sceneDepth); err != nil {
		return nil, fmt.Errorf("clear scene targets: %w", err)
	}

	stats := make([]fog.FrameStats, 0, frames)
	for i := 0; i < frames; i++ {
		err := p.RenderFrame(&fog.Frame{
			Camera:     orbitCamera(i, frames, w, h),
			SceneColor: sceneColor,
			SceneDepth: sceneDepth,
			Lights:     lights,
			MainLight:  mainLight,
			Shadows:    fog.NoShadows,
			Time:       float32(i) / 60,
		})
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		stats = append(stats, p.Stats())
	}
	return stats, nil
}

// clearScene fills the host targets once: a dark sky color, and zeroed
// depth which the ray-march reads as unoccluded.
func clearScene(be fog.Backend, color, depth fog.Texture) error {
	enc, err := be.BeginFrame("fogcli/scene-clear")
	if err != nil {
		return err
	}
	if err := enc.Clear(color, gputypes.Color{R: 0.05, G: 0.07, B: 0.1, A: 1}); err != nil {
		enc.Discard()
		return err
	}
	if err := enc.Clear(depth, gputypes.Color{}); err != nil {
		enc.Discard()
		return err
	}
	return enc.Finish()
}

// addVolumeRing registers count default-profile volumes in a ring of
// radius 12 around the origin.
func addVolumeRing(reg *fog.Registry, count int) {
	for i := 0; i < count; i++ {
		angle := 2 * math.Pi * float64(i) / float64(count)
		pos := fog.XYZ(float32(12*math.Cos(angle)), 2, float32(12*math.Sin(angle)))
		reg.Add(fog.NewVolume(pos, 5, nil))
	}
}

// buildLights returns a warm sun plus count-1 point lights ringing the
// volumes.
func buildLights(count int) []fog.Light {
	if count <= 0 {
		return nil
	}
	lights := make([]fog.Light, 0, count)
	lights = append(lights, fog.Light{
		Kind:      fog.LightDirectional,
		Direction: fog.XYZ(-0.3, -1, -0.2),
		Color:     fog.XYZ(1, 0.96, 0.9),
	})
	for i := 1; i < count; i++ {
		angle := 2 * math.Pi * float64(i) / float64(count)
		lights = append(lights, fog.Light{
			Kind:        fog.LightPoint,
			Position:    fog.XYZ(float32(10*math.Cos(angle)), 3, float32(10*math.Sin(angle))),
			Color:       fog.XYZ(0.9, 0.5, 0.2),
			Range:       18,
			Attenuation: fog.XYZ(1, 0.09, 0.032),
		})
	}
	return lights
}

// orbitCamera circles the volume ring at radius 24, looking at its
// center.
func orbitCamera(frame, total, w, h int) fog.Camera {
	angle := 2 * math.Pi * float64(frame) / float64(total)
	eye := fog.XYZ(float32(24*math.Cos(angle)), 6, float32(24*math.Sin(angle)))
	view := fog.LookAt(eye, fog.XYZ(0, 2, 0), fog.XYZ(0, 1, 0))
	proj := fog.Perspective(math.Pi/3, float32(w)/float32(h), 0.1, 200)
	return fog.Camera{
		Kind:     fog.CameraGame,
		Position: eye,
		ViewProj: proj.Mul(view),
		Width:    w,
		Height:   h,
		Near:     0.1,
		Far:      200,
	}
}

func printFrameTable(stats []fog.FrameStats) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Frame", "Visible", "Lights", "Targets", "Jitter", "Realloc", "Elapsed"})
	for i, s := range stats {
		table.Append([]string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%d/%d", s.VisibleVolumes, s.RegisteredVolumes),
			fmt.Sprintf("%d/%d", s.GatheredLights, s.HostLights),
			fmt.Sprintf("%d", s.TargetsAcquired),
			fmt.Sprintf("%d", s.JitterIndex),
			fmt.Sprintf("%t", s.HistoryRealloc),
			s.Elapsed.String(),
		})
	}
	table.Render()
}

func printSummary(backendName string, cfg fog.Config, stats []fog.FrameStats) {
	var total time.Duration
	var skipped, reallocs int
	for _, s := range stats {
		total += s.Elapsed
		if s.Skipped {
			skipped++
		}
		if s.HistoryRealloc {
			reallocs++
		}
	}
	last := stats[len(stats)-1]

	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Metric", "Value"})
	for _, row := range [][]string{
		{"backend", backendName},
		{"frames", fmt.Sprintf("%d", len(stats))},
		{"mode", cfg.EffectiveMode().String()},
		{"visible volumes", fmt.Sprintf("%d/%d", last.VisibleVolumes, last.RegisteredVolumes)},
		{"gathered lights", fmt.Sprintf("%d/%d", last.GatheredLights, last.HostLights)},
		{"targets per frame", fmt.Sprintf("%d", last.TargetsAcquired)},
		{"skipped frames", fmt.Sprintf("%d", skipped)},
		{"history reallocs", fmt.Sprintf("%d", reallocs)},
		{"total record time", total.String()},
		{"avg per frame", (total / time.Duration(len(stats))).String()},
	} {
		table.Append(row)
	}
	table.Render()
}
