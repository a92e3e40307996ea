package main

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// List the built-in scenes, or dump the named scene as YAML.
func listScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() > 0 {
		desc, err := scene.Resolve(ctx.Args().First())
		if err != nil {
			return err
		}
		return scene.Encode(ctx.App.Writer, desc)
	}

	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Spheres", "Description"})
	for _, info := range scene.ListBuiltins() {
		table.Append([]string{info.Name, fmt.Sprintf("%d", info.Spheres), info.Description})
	}
	table.Render()
	return nil
}
