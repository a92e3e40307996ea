package renderer

import (
	"context"
	"image"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/integrator"
	"github.com/df07/go-sphere-tracer/pkg/log"
)

// Options contains configuration for a render
type Options struct {
	Width       int
	Height      int
	Samples     int     // Requested samples per pixel
	Threads     int     // Number of workers (0 = use CPU count)
	SkyboxScale float64 // Brightness of the sky gradient
	Seed        uint64  // Base seed; together with the sample index it fixes every ray

	// FlushEvery hands a worker's partial sum to the aggregator every that
	// many sample passes. 0 flushes once when the worker finishes.
	FlushEvery int

	// Progress, when set, is called by the aggregator after every merge
	// with a consistent copy of the buffer.
	Progress func(Frame)

	Logger log.Logger
}

// Frame is a consistent snapshot of the accumulation buffer
type Frame struct {
	Width   int
	Height  int
	Sum     []float64
	Samples int
}

// Image encodes the frame for display
func (f Frame) Image() *image.RGBA {
	return ToImage(f.Sum, f.Width, f.Height, f.Samples)
}

// Result is the outcome of a completed render
type Result struct {
	Width   int
	Height  int
	Sum     []float64
	Samples int
	Stats   RenderStats
}

// Image encodes the result for display
func (r *Result) Image() *image.RGBA {
	return ToImage(r.Sum, r.Width, r.Height, r.Samples)
}

// partial is a worker's local sum handed over to the aggregator. Ownership of
// Sum moves with the message.
type partial struct {
	sum     []float64
	samples int
}

var defaultLogger = log.New("renderer")

// PlannedSamples returns the number of workers a render uses and the sample
// passes each one traces. threads <= 0 means one worker per CPU. Every worker
// traces at least one pass, so workers*perWorker may differ from samples.
func PlannedSamples(samples, threads int) (workers, perWorker int) {
	workers = threads
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return workers, max(1, samples/workers)
}

// Render traces the scene with a fixed pool of workers and blocks until
// every sample is merged or ctx is cancelled.
//
// Samples are split evenly between workers, at least one each, so the final
// sample count is SamplesPerThread*Threads and may differ from the request.
// Every sample pass draws its random numbers from a generator seeded with
// (Seed, sample index), which makes the result independent of the number
// of workers up to floating point rounding.
func Render(ctx context.Context, camera *Camera, world integrator.Hitter, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = defaultLogger
	}

	threads, samplesPerThread := PlannedSamples(opts.Samples, opts.Threads)
	totalSamples := samplesPerThread * threads
	if totalSamples != opts.Samples {
		logger.Warningf("rendering %d samples instead of %d (%d per worker, %d workers)",
			totalSamples, opts.Samples, samplesPerThread, threads)
	}

	logger.Infof("rendering %dx%d, %d samples on %d workers", opts.Width, opts.Height, totalSamples, threads)
	start := time.Now()

	buffer := NewBuffer(opts.Width, opts.Height)
	partials := make(chan partial, threads)
	done := make(chan struct{})

	// The aggregator is the only writer to the buffer
	go func() {
		defer close(done)
		for p := range partials {
			buffer.Merge(p.sum, p.samples)
			logger.Debugf("merged %d samples (%d/%d)", p.samples, buffer.Samples(), totalSamples)
			if opts.Progress != nil {
				sum, samples := buffer.Snapshot()
				opts.Progress(Frame{Width: buffer.Width(), Height: buffer.Height(), Sum: sum, Samples: samples})
			}
		}
	}()

	tracer := integrator.NewPathTracer(opts.SkyboxScale)
	workers := make([]*worker, threads)
	g, gctx := errgroup.WithContext(ctx)
	for i := range workers {
		w := &worker{
			id:         i,
			camera:     camera,
			world:      world,
			tracer:     tracer,
			width:      opts.Width,
			height:     opts.Height,
			seed:       opts.Seed,
			flushEvery: opts.FlushEvery,
			out:        partials,
		}
		w.stats.ID = i
		w.stats.FirstSample = i * samplesPerThread
		workers[i] = w
		g.Go(func() error {
			return w.run(gctx, samplesPerThread)
		})
	}

	err := g.Wait()
	close(partials)
	<-done
	if err != nil {
		logger.Noticef("render stopped after %d samples: %v", buffer.Samples(), err)
		return nil, err
	}

	sum, samples := buffer.Snapshot()
	stats := RenderStats{
		SamplesPerThread: samplesPerThread,
		RequestedSamples: opts.Samples,
		TotalSamples:     samples,
		Duration:         time.Since(start),
		AverageLuminance: AverageLuminance(sum, samples),
	}
	for _, w := range workers {
		stats.Workers = append(stats.Workers, w.stats)
		stats.TotalRays += w.stats.Rays
	}
	logger.Noticef("rendered %d samples in %v", samples, stats.Duration.Round(time.Millisecond))

	return &Result{
		Width:   opts.Width,
		Height:  opts.Height,
		Sum:     sum,
		Samples: samples,
		Stats:   stats,
	}, nil
}

// worker traces a contiguous range of global sample passes into a local sum
type worker struct {
	id         int
	camera     *Camera
	world      integrator.Hitter
	tracer     integrator.Integrator
	width      int
	height     int
	seed       uint64
	flushEvery int
	out        chan<- partial
	stats      WorkerStats
}

func (w *worker) run(ctx context.Context, count int) error {
	start := time.Now()
	defer func() { w.stats.Duration = time.Since(start) }()

	local := make([]float64, w.width*w.height*3)
	pending := 0

	for s := w.stats.FirstSample; s < w.stats.FirstSample+count; s++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.samplePass(ctx, s, local); err != nil {
			return err
		}
		w.stats.Samples++
		pending++

		if w.flushEvery > 0 && pending >= w.flushEvery {
			if err := w.flush(ctx, local, pending); err != nil {
				return err
			}
			local = make([]float64, len(local))
			pending = 0
		}
	}

	if pending > 0 {
		return w.flush(ctx, local, pending)
	}
	return nil
}

// samplePass adds one jittered sample for every pixel. Row 0 is the top of
// the image.
func (w *worker) samplePass(ctx context.Context, sampleIndex int, local []float64) error {
	sampler := core.NewRandomSampler(w.seed, uint64(sampleIndex))
	fw, fh := float64(w.width), float64(w.height)

	for y := 0; y < w.height; y++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := float64(w.height - 1 - y)
		for x := 0; x < w.width; x++ {
			u := (float64(x) + sampler.Get1D()) / fw
			v := (row + sampler.Get1D()) / fh
			ray := w.camera.GetRay(u, v, sampler)
			color := w.tracer.RayColor(ray, w.world, sampler)

			i := (y*w.width + x) * 3
			local[i] += color.X
			local[i+1] += color.Y
			local[i+2] += color.Z
		}
	}
	w.stats.Rays += w.width * w.height
	return nil
}

func (w *worker) flush(ctx context.Context, local []float64, samples int) error {
	select {
	case w.out <- partial{sum: local, samples: samples}:
		w.stats.Flushes++
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
