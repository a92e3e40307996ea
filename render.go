package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/df07/go-sphere-tracer/pkg/output"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// defaultOutputDir holds renders when no bucket is given
const defaultOutputDir = "output"

// Render a still frame.
func renderScene(ctx *cli.Context) error {
	setupLogging(ctx)

	desc, err := scene.Resolve(ctx.String("scene"))
	if err != nil {
		return err
	}
	applyOverrides(ctx, desc)
	if err := desc.Validate(); err != nil {
		return errors.Wrap(err, "invalid render settings")
	}

	format, err := output.ParseFormat(ctx.String("format"))
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sink, err := openSink(runCtx, ctx.String("bucket"))
	if err != nil {
		return err
	}
	defer sink.Close()

	opts := desc.RenderOptions()
	if opts.FlushEvery > 0 {
		opts.Progress = func(f renderer.Frame) {
			logger.Infof("%d samples merged", f.Samples)
		}
	}

	camera := renderer.NewCamera(desc.CameraConfig())
	world := desc.World()
	stats := world.Stats()
	logger.Infof("scene %s: %d spheres, %d nodes, depth %d", sceneName(ctx.String("scene")), stats.Spheres, stats.TotalNodes, stats.MaxDepth)

	result, err := renderer.Render(runCtx, camera, world, opts)
	if err != nil {
		return errors.Wrap(err, "render")
	}
	displayRenderStats(result.Stats)

	key := ctx.String("out")
	if key == "" {
		key = fmt.Sprintf("%s_%s", sceneName(ctx.String("scene")), time.Now().Format("20060102_150405"))
	}
	key, err = sink.Write(runCtx, key, format, result)
	if err != nil {
		return err
	}

	logger.Noticef("render saved as %s", key)
	return nil
}

// applyOverrides copies every explicitly set command line flag into desc
func applyOverrides(ctx *cli.Context, desc *scene.Description) {
	if ctx.IsSet("width") {
		desc.Width = ctx.Int("width")
	}
	if ctx.IsSet("height") {
		desc.Height = ctx.Int("height")
	}
	if ctx.IsSet("samples") {
		desc.Samples = ctx.Int("samples")
	}
	if ctx.IsSet("threads") {
		desc.Threads = ctx.Int("threads")
	}
	if ctx.IsSet("seed") {
		desc.Seed = ctx.Uint64("seed")
	}
	if ctx.IsSet("skybox") {
		desc.Skybox = ctx.Float64("skybox")
	}
	if ctx.IsSet("flush") {
		desc.FlushEvery = ctx.Int("flush")
	}
}

// openSink opens the given bucket, or the local output directory
func openSink(ctx context.Context, bucketURL string) (*output.Sink, error) {
	if bucketURL == "" {
		dir, err := filepath.Abs(defaultOutputDir)
		if err != nil {
			return nil, errors.Wrap(err, "resolving output directory")
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "creating output directory")
		}
		bucketURL = "file://" + filepath.ToSlash(dir)
	}
	return output.OpenSink(ctx, bucketURL)
}

// sceneName turns a scene argument into a short name usable in keys
func sceneName(nameOrPath string) string {
	base := filepath.Base(nameOrPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func displayRenderStats(stats renderer.RenderStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Worker", "First sample", "Samples", "Flushes", "Rays", "Rays/s", "Render time"})
	for _, w := range stats.Workers {
		table.Append([]string{
			fmt.Sprintf("%d", w.ID),
			fmt.Sprintf("%d", w.FirstSample),
			fmt.Sprintf("%d", w.Samples),
			fmt.Sprintf("%d", w.Flushes),
			fmt.Sprintf("%d", w.Rays),
			fmt.Sprintf("%.0f", w.RaysPerSecond()),
			w.Duration.Round(time.Millisecond).String(),
		})
	}
	table.SetFooter([]string{"", "", fmt.Sprintf("%d", stats.TotalSamples), "", fmt.Sprintf("%d", stats.TotalRays), "TOTAL", stats.Duration.Round(time.Millisecond).String()})

	table.Render()
	logger.Noticef("render statistics (%d samples dropped, mean luminance %.3f)\n%s",
		stats.DroppedSamples(), stats.AverageLuminance, buf.String())
}
