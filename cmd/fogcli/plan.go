package main

import (
	"fmt"
	"os"

	"github.com/gogpu/fog"
	"github.com/gogpu/gputypes"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// runPlan prints the render targets a pipeline with the given
// configuration would allocate, with a memory estimate per target.
func runPlan(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := configFromFlags(ctx)
	if err != nil {
		return err
	}
	w, h := ctx.Int("width"), ctx.Int("height")
	if w <= 0 || h <= 0 {
		return fmt.Errorf("invalid camera size %dx%d", w, h)
	}

	fmt.Printf("camera %dx%d, mode %s", w, h, cfg.Mode)
	if eff := cfg.EffectiveMode(); eff != cfg.Mode {
		fmt.Printf(" (effective %s: temporal override)", eff)
	}
	if cfg.Temporal {
		fmt.Printf(", temporal kernel %d", cfg.KernelSize())
	}
	fmt.Println()

	var total uint64
	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Target", "Size", "Format", "Memory"})
	for _, desc := range fog.PlanTargets(cfg, w, h) {
		bytes := uint64(desc.Width) * uint64(desc.Height) * texelBytes(desc.Format)
		total += bytes
		table.Append([]string{
			desc.Label,
			fmt.Sprintf("%dx%d", desc.Width, desc.Height),
			formatName(desc.Format),
			humanBytes(bytes),
		})
	}
	table.SetFooter([]string{"", "", "TOTAL", humanBytes(total)})
	table.Render()

	fmt.Println("the temporal history buffer, when enabled, adds one full-size target across frames")
	return nil
}

// texelBytes estimates the per-texel cost of a format. The planner only
// hands out 8-bit four-channel formats today.
func texelBytes(f gputypes.TextureFormat) uint64 {
	switch f {
	case gputypes.TextureFormatR8Unorm:
		return 1
	default:
		return 4
	}
}

func formatName(f gputypes.TextureFormat) string {
	switch f {
	case gputypes.TextureFormatRGBA8Unorm:
		return "rgba8unorm"
	case gputypes.TextureFormatBGRA8Unorm:
		return "bgra8unorm"
	case gputypes.TextureFormatR8Unorm:
		return "r8unorm"
	default:
		return fmt.Sprintf("format(%d)", f)
	}
}

func humanBytes(n uint64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
