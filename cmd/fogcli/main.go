// Command fogcli inspects and exercises the volumetric fog pipeline
// without a host renderer: it prints the stage order, plans target
// memory for a configuration, and drives synthetic frames through a
// backend.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gogpu/fog"
	"github.com/urfave/cli"

	_ "github.com/gogpu/fog/backend/soft"
	_ "github.com/gogpu/fog/backend/wgpu"
)

func main() {
	app := cli.NewApp()
	app.Name = "fogcli"
	app.Usage = "inspect and exercise the volumetric fog pipeline"
	app.Version = fog.Version
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable debug logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "stages",
			Usage:  "print the fixed per-frame stage order",
			Action: runStages,
		},
		{
			Name:   "plan",
			Usage:  "print the render targets a configuration allocates",
			Flags:  resolutionFlags(),
			Action: runPlan,
		},
		{
			Name:  "simulate",
			Usage: "drive synthetic frames through a backend and report stats",
			Flags: append(resolutionFlags(),
				cli.StringFlag{
					Name:  "backend",
					Value: "soft",
					Usage: "backend to run on",
				},
				cli.IntFlag{
					Name:  "frames",
					Value: 60,
					Usage: "number of frames to render",
				},
				cli.IntFlag{
					Name:  "volumes",
					Value: 3,
					Usage: "fog volumes arranged in a ring",
				},
				cli.IntFlag{
					Name:  "lights",
					Value: 4,
					Usage: "lights: one sun plus ringed point lights",
				},
				cli.BoolFlag{
					Name:  "per-frame",
					Usage: "print one table row per frame",
				},
			),
			Action: runSimulate,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging installs a debug logger when -v is set; the library is
// silent otherwise.
func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		fog.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}
}

func resolutionFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Value: 1280,
			Usage: "camera target width",
		},
		cli.IntFlag{
			Name:  "height",
			Value: 720,
			Usage: "camera target height",
		},
		cli.StringFlag{
			Name:  "mode",
			Value: "full",
			Usage: "working resolution: full, half or quarter",
		},
		cli.BoolFlag{
			Name:  "temporal",
			Usage: "enable temporal reprojection",
		},
		cli.IntFlag{
			Name:  "kernel",
			Value: 2,
			Usage: "temporal jitter grid factor",
		},
	}
}

func configFromFlags(ctx *cli.Context) (fog.Config, error) {
	mode, err := parseMode(ctx.String("mode"))
	if err != nil {
		return fog.Config{}, err
	}
	cfg := fog.DefaultConfig()
	cfg.Mode = mode
	cfg.Temporal = ctx.Bool("temporal")
	cfg.TemporalKernelFactor = ctx.Int("kernel")
	return cfg, nil
}

func parseMode(s string) (fog.Mode, error) {
	switch s {
	case "full":
		return fog.ModeFull, nil
	case "half":
		return fog.ModeHalf, nil
	case "quarter":
		return fog.ModeQuarter, nil
	}
	return 0, fmt.Errorf("unknown mode %q, want full, half or quarter", s)
}
