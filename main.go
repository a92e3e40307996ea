package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/df07/go-sphere-tracer/pkg/log"
)

var logger = log.New("sphere-tracer")

func newApp() *cli.App {
	// The default version flag claims -v, which is the verbose switch here
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}

	app := cli.NewApp()
	app.Name = "sphere-tracer"
	app.Usage = "render sphere scenes using path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a scene to an image",
			Description: `
Render a built-in scene or a YAML scene file and store the image in a blob
bucket. Without --bucket the image is written to the local output directory.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "scene, s",
					Value: "weekend",
					Usage: "built-in scene name or path to a YAML scene file",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "output key, defaults to <scene>_<timestamp>",
				},
				cli.StringFlag{
					Name:  "format, f",
					Value: "png",
					Usage: "image format: png or pfm",
				},
				cli.StringFlag{
					Name:  "bucket, b",
					Usage: "blob bucket URL such as file:///tmp/renders or mem://",
				},
				cli.IntFlag{
					Name:  "width",
					Usage: "override the scene's image width",
				},
				cli.IntFlag{
					Name:  "height",
					Usage: "override the scene's image height",
				},
				cli.IntFlag{
					Name:  "samples, spp",
					Usage: "override the samples per pixel",
				},
				cli.IntFlag{
					Name:  "threads, t",
					Usage: "number of render workers, 0 uses every CPU",
				},
				cli.Uint64Flag{
					Name:  "seed",
					Usage: "override the random seed",
				},
				cli.Float64Flag{
					Name:  "skybox",
					Usage: "override the sky brightness",
				},
				cli.IntFlag{
					Name:  "flush",
					Usage: "merge worker results every N samples to log progress",
				},
			},
			Action: renderScene,
		},
		{
			Name:  "serve",
			Usage: "serve the progressive web preview",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "port, p",
					Value: 8080,
					Usage: "port to serve on",
				},
			},
			Action: serve,
		},
		{
			Name:      "scenes",
			Usage:     "list built-in scenes, or print one as YAML",
			ArgsUsage: "[scene]",
			Action:    listScenes,
		},
	}
	return app
}

func setupLogging(ctx *cli.Context) {
	log.SetLevel(log.ParseVerbosity(ctx.GlobalBool("v"), ctx.GlobalBool("vv")))
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
