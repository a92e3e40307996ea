package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/urfave/cli"

	"github.com/df07/go-sphere-tracer/web/server"
)

// Serve the web preview until interrupted.
func serve(ctx *cli.Context) error {
	setupLogging(ctx)

	srv := server.NewServer(ctx.Int("port"))

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warningf("shutdown: %v", err)
		}
	}()

	return srv.Start()
}
