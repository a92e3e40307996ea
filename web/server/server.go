package server

import (
	"context"
	"embed"
	"fmt"
	"net/http"
	"net/url"
	"runtime"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/df07/go-sphere-tracer/pkg/log"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

const (
	// MaxPreviewSamples caps the samples a single preview render may request
	MaxPreviewSamples = 1000
	// MaxPreviewPixels caps width*height of a preview render
	MaxPreviewPixels = 1024 * 1024
	// MaxPreviewThreads caps the workers of a preview render on large machines
	MaxPreviewThreads = 8
)

// maxPreviewThreads is the largest threads parameter a request may pass.
// Every worker holds a full-size partial buffer.
func maxPreviewThreads() int {
	return min(runtime.NumCPU(), MaxPreviewThreads)
}

//go:embed static
var static embed.FS

var logger = log.New("web")

// Server handles web requests for the progressive preview
type Server struct {
	port int
	echo *echo.Echo
}

// NewServer creates a new web server listening on port once started
func NewServer(port int) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet},
	}))

	s := &Server{port: port, echo: e}

	e.StaticFS("/", echo.MustSubFS(static, "static"))
	e.GET("/api/health", s.handleHealth)
	e.GET("/api/scenes", s.handleScenes)
	e.GET("/api/render", s.handleRender)

	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until the server is shut down
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	logger.Noticef("serving preview on http://localhost%s", addr)

	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "web server")
	}
	return nil
}

// Shutdown stops the server, cancelling in-flight renders
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes
func (s *Server) handleScenes(c echo.Context) error {
	return c.JSON(http.StatusOK, scene.ListBuiltins())
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, errors.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, errors.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, errors.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, errors.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}
