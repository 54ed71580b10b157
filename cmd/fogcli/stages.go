package main

import (
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// runStages prints the fixed per-frame stage order and the program
// each stage records.
func runStages(ctx *cli.Context) error {
	setupLogging(ctx)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Stage", "Program", "Runs"})
	for _, row := range [][]string{
		{"visibility gather", "(cpu)", "every frame; skips the rest when no volume is visible"},
		{"depth downsample", "bilateral/downsample", "half and quarter modes"},
		{"accumulation clear", "(clear)", "every rendered frame"},
		{"ray-march", "ray-march", "once per visible volume, additive"},
		{"temporal reproject", "reproject", "temporal reprojection on"},
		{"bilateral blur", "bilateral/blur-h, blur-v", "unless disabled in full mode"},
		{"upsample", "bilateral/upsample", "half and quarter modes"},
		{"composite", "blit", "every rendered frame"},
	} {
		table.Append(row)
	}
	table.Render()
	return nil
}
