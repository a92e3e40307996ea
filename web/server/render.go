package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/df07/go-sphere-tracer/pkg/renderer"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string  `json:"scene"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	Samples int     `json:"samples"`
	Threads int     `json:"threads"`
	Flush   int     `json:"flush"`
	Skybox  float64 `json:"skybox"`
}

// FrameUpdate is sent every time the aggregator merges new samples
type FrameUpdate struct {
	RenderID     string `json:"renderId"`
	Samples      int    `json:"samples"`
	TotalSamples int    `json:"totalSamples"`
	ImageData    string `json:"imageData"` // Base64 encoded PNG
	ElapsedMs    int64  `json:"elapsedMs"`
}

// CompleteUpdate is the final event of a successful render
type CompleteUpdate struct {
	RenderID         string  `json:"renderId"`
	Samples          int     `json:"samples"`
	DroppedSamples   int     `json:"droppedSamples"`
	Rays             int     `json:"rays"`
	AverageLuminance float64 `json:"averageLuminance"`
	ElapsedMs        int64   `json:"elapsedMs"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string // "console", "frame", "error", "complete"
	Data string // JSON-encoded data
}

// handleRender streams a progressive render of a built-in scene via SSE.
// Closing the connection cancels the render.
func (s *Server) handleRender(c echo.Context) error {
	desc, req, err := s.parseRenderRequest(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	renderID := uuid.NewString()
	start := time.Now()

	setSSEHeaders(c.Response())
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Flush()

	events := make(chan SSEEvent, 16)
	consoleChan := make(chan ConsoleMessage, 50)
	writerDone := make(chan struct{})
	go s.writeSSEEvents(ctx, c.Response(), events, consoleChan, writerDone)

	webLogger := NewWebLogger(renderID, logger, consoleChan)
	webLogger.Infof("render %s: scene %s, %dx%d, %d samples", renderID, req.Scene, req.Width, req.Height, req.Samples)

	opts := desc.RenderOptions()
	opts.Threads = req.Threads
	opts.FlushEvery = req.Flush
	opts.Logger = webLogger

	workers, perWorker := renderer.PlannedSamples(opts.Samples, opts.Threads)
	totalSamples := workers * perWorker

	opts.Progress = func(frame renderer.Frame) {
		data, err := encodeFrame(frame.Image())
		if err != nil {
			webLogger.Errorf("encoding frame: %v", err)
			return
		}
		s.emitJSON(ctx, events, "frame", FrameUpdate{
			RenderID:     renderID,
			Samples:      frame.Samples,
			TotalSamples: totalSamples,
			ImageData:    data,
			ElapsedMs:    time.Since(start).Milliseconds(),
		})
	}

	camera := renderer.NewCamera(desc.CameraConfig())
	result, err := renderer.Render(ctx, camera, desc.World(), opts)
	switch {
	case err == nil:
		s.emitJSON(ctx, events, "complete", CompleteUpdate{
			RenderID:         renderID,
			Samples:          result.Samples,
			DroppedSamples:   result.Stats.DroppedSamples(),
			Rays:             result.Stats.TotalRays,
			AverageLuminance: result.Stats.AverageLuminance,
			ElapsedMs:        time.Since(start).Milliseconds(),
		})
	case ctx.Err() != nil:
		logger.Infof("render %s: client went away", renderID)
	default:
		s.emitJSON(ctx, events, "error", map[string]string{"renderId": renderID, "error": err.Error()})
	}

	close(events)
	<-writerDone
	return nil
}

// parseRenderRequest resolves the scene and applies the query overrides
func (s *Server) parseRenderRequest(c echo.Context) (*scene.Description, *RenderRequest, error) {
	query := c.QueryParams()

	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "simple"
	}

	desc, err := scene.Builtin(req.Scene)
	if errors.Is(err, scene.ErrUnknownScene) {
		return nil, nil, echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("unknown scene: %s", req.Scene))
	}
	if err != nil {
		return nil, nil, err
	}

	if req.Width, err = parseIntParam(query, "width", desc.Width, 1, 2000); err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Height, err = parseIntParam(query, "height", desc.Height, 1, 2000); err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Samples, err = parseIntParam(query, "samples", min(desc.Samples, MaxPreviewSamples), 1, MaxPreviewSamples); err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Threads, err = parseIntParam(query, "threads", 0, 0, maxPreviewThreads()); err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Width*req.Height > MaxPreviewPixels {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("%dx%d exceeds the preview budget of %d pixels", req.Width, req.Height, MaxPreviewPixels))
	}
	if req.Flush, err = parseIntParam(query, "flush", 1, 0, MaxPreviewSamples); err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Skybox, err = parseFloatParam(query, "skybox", desc.Skybox, 0, 100); err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Keep the scene's aspect ratio tied to the requested size
	if desc.Camera.Aspect == 0 || query.Has("width") || query.Has("height") {
		desc.Camera.Aspect = float64(req.Width) / float64(req.Height)
	}
	desc.Width = req.Width
	desc.Height = req.Height
	desc.Samples = req.Samples
	desc.Skybox = req.Skybox

	return desc, req, nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(res *echo.Response) {
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
}

// emitJSON queues an event unless the client has gone away
func (s *Server) emitJSON(ctx context.Context, events chan<- SSEEvent, eventType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Errorf("marshaling %s event: %v", eventType, err)
		return
	}

	select {
	case events <- SSEEvent{Type: eventType, Data: string(data)}:
	case <-ctx.Done():
	}
}

// writeSSEEvents handles writing all SSE events in a single goroutine
func (s *Server) writeSSEEvents(ctx context.Context, res *echo.Response, events <-chan SSEEvent, console <-chan ConsoleMessage, done chan<- struct{}) {
	defer close(done)

	write := func(event SSEEvent) bool {
		if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
			return false
		}
		res.Flush()
		return true
	}

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if !write(event) {
				// Keep draining so senders never block on a dead client
				for range events {
				}
				return
			}

		case msg := <-console:
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			write(SSEEvent{Type: "console", Data: string(data)})

		case <-ctx.Done():
			for range events {
			}
			return
		}
	}
}

// encodeFrame converts an image to base64-encoded PNG
func encodeFrame(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
