package renderer

import "time"

// WorkerStats describes the work done by a single render worker
type WorkerStats struct {
	ID          int           // Worker index
	FirstSample int           // Global index of the worker's first sample pass
	Samples     int           // Sample passes completed
	Rays        int           // Camera rays traced
	Flushes     int           // Partial sums handed to the aggregator
	Duration    time.Duration // Wall time spent tracing
}

// RaysPerSecond returns the worker's camera ray throughput
func (ws WorkerStats) RaysPerSecond() float64 {
	if ws.Duration <= 0 {
		return 0
	}
	return float64(ws.Rays) / ws.Duration.Seconds()
}

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Workers          []WorkerStats
	SamplesPerThread int           // Sample passes assigned to each worker
	RequestedSamples int           // Samples asked for by the caller
	TotalSamples     int           // Samples actually merged into the buffer
	TotalRays        int           // Camera rays across all workers
	Duration         time.Duration // Wall time of the whole render
	AverageLuminance float64       // Mean luminance of the averaged image
}

// DroppedSamples returns how many requested samples were lost to splitting
// the work evenly between workers
func (rs RenderStats) DroppedSamples() int {
	return max(0, rs.RequestedSamples-rs.TotalSamples)
}

// AverageLuminance returns the mean Rec. 709 luminance of the averaged sums
func AverageLuminance(sum []float64, samples int) float64 {
	pixels := len(sum) / 3
	if pixels == 0 || samples <= 0 {
		return 0
	}

	var total float64
	for p := 0; p < pixels; p++ {
		total += 0.2126*sum[p*3] + 0.7152*sum[p*3+1] + 0.0722*sum[p*3+2]
	}
	return total / float64(pixels) / float64(samples)
}
