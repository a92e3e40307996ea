package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/df07/go-sphere-tracer/pkg/scene"
)

type sseEvent struct {
	Type string
	Data string
}

func parseSSE(t *testing.T, body string) []sseEvent {
	t.Helper()

	var events []sseEvent
	var current sseEvent
	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 1<<20), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			current.Type = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			current.Data = strings.TrimPrefix(line, "data: ")
		case line == "" && current.Type != "":
			events = append(events, current)
			current = sseEvent{}
		}
	}
	return events
}

func eventsOfType(events []sseEvent, eventType string) []sseEvent {
	var out []sseEvent
	for _, e := range events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	NewServer(0).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestScenes(t *testing.T) {
	rec := httptest.NewRecorder()
	NewServer(0).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scenes", nil))

	var infos []scene.Info
	if err := json.Unmarshal(rec.Body.Bytes(), &infos); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(infos) != len(scene.ListBuiltins()) {
		t.Errorf("expected %d scenes, got %d", len(scene.ListBuiltins()), len(infos))
	}
}

func TestIndexPage(t *testing.T) {
	rec := httptest.NewRecorder()
	NewServer(0).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "EventSource") {
		t.Errorf("expected the preview page, got %d", rec.Code)
	}
}

func TestRender_StreamsFrames(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/render?scene=simple&width=8&height=6&samples=4&threads=1&flush=1", nil)
	NewServer(0).Handler().ServeHTTP(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected an event stream, got %q", ct)
	}

	events := parseSSE(t, rec.Body.String())
	frames := eventsOfType(events, "frame")
	// One worker flushing after each of its 4 passes
	if len(frames) != 4 {
		t.Fatalf("expected 4 frames, got %d", len(frames))
	}

	var last FrameUpdate
	for i, f := range frames {
		var update FrameUpdate
		if err := json.Unmarshal([]byte(f.Data), &update); err != nil {
			t.Fatalf("frame %d is not JSON: %v", i, err)
		}
		if update.Samples != i+1 || update.TotalSamples != 4 {
			t.Errorf("frame %d reports %d/%d samples", i, update.Samples, update.TotalSamples)
		}
		last = update
	}

	data, err := base64.StdEncoding.DecodeString(last.ImageData)
	if err != nil {
		t.Fatalf("frame image is not base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("frame image is not a png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Errorf("unexpected frame size %v", b)
	}

	complete := eventsOfType(events, "complete")
	if len(complete) != 1 {
		t.Fatalf("expected one complete event, got %d", len(complete))
	}
	if events[len(events)-1].Type != "complete" {
		t.Errorf("complete should be the last event, got %s", events[len(events)-1].Type)
	}

	var done CompleteUpdate
	if err := json.Unmarshal([]byte(complete[0].Data), &done); err != nil {
		t.Fatal(err)
	}
	if done.Samples != 4 || done.Rays != 8*6*4 || done.RenderID != last.RenderID {
		t.Errorf("unexpected completion %+v", done)
	}
}

func TestRender_BadRequests(t *testing.T) {
	tests := []struct {
		name  string
		query string
		code  int
	}{
		{"unknown scene", "scene=nope", http.StatusNotFound},
		{"width too large", "width=5000", http.StatusBadRequest},
		{"not a number", "samples=lots", http.StatusBadRequest},
		{"too many samples", "samples=100000", http.StatusBadRequest},
		{"negative skybox", "skybox=-1", http.StatusBadRequest},
		{"too many threads", "threads=9", http.StatusBadRequest},
		{"too many pixels", "width=1500&height=1000", http.StatusBadRequest},
	}

	server := NewServer(0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/render?"+tt.query, nil))
			if rec.Code != tt.code {
				t.Errorf("expected %d, got %d: %s", tt.code, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRender_ClientGone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/render?scene=simple&width=8&height=6&samples=4", nil).WithContext(ctx)
	NewServer(0).Handler().ServeHTTP(rec, req)

	if events := eventsOfType(parseSSE(t, rec.Body.String()), "complete"); len(events) != 0 {
		t.Error("a cancelled render should not complete")
	}
}
