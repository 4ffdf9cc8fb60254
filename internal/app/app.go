// Package app wires configuration into the upload service and HTTP router.
package app

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"idpportal/internal/config"
	"idpportal/internal/handler"
	"idpportal/internal/middleware"
	"idpportal/internal/port"
	"idpportal/internal/processor"
	"idpportal/internal/progress"
	"idpportal/internal/router"
	"idpportal/internal/secondary"
	"idpportal/internal/service"
	s3storage "idpportal/internal/storage/s3"
)

// App holds the wired components of the portal.
type App struct {
	Config  *config.Config
	Log     zerolog.Logger
	Uploads service.UploadService

	draining atomic.Bool
}

// New builds the processor, secondary fetcher and upload service from cfg.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	proc, err := processor.New(&cfg.Processor)
	if err != nil {
		return nil, fmt.Errorf("initializing processor: %w", err)
	}

	var store port.ObjectStorage
	if cfg.Secondary.Source == "s3" {
		store, err = s3storage.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("initializing S3 client: %w", err)
		}
	}
	fetcher, err := secondary.NewFetcher(&cfg.Secondary, &cfg.S3, store)
	if err != nil {
		return nil, fmt.Errorf("initializing secondary fetcher: %w", err)
	}

	uploads := service.NewUploadService(proc, fetcher, service.Options{
		MaxFileSizeMB:    cfg.Upload.MaxFileSizeMB,
		ProcessorTimeout: cfg.Processor.Timeout,
		SecondaryTimeout: cfg.Secondary.Timeout,
		AlertDisplay:     cfg.Alert.Display,
		Progress:         progress.Config{Cycle: cfg.Progress.Cycle, Pause: cfg.Progress.Pause},
	}, log)

	log.Info().
		Bool("mock_mode", cfg.Processor.MockMode).
		Str("secondary_source", cfg.Secondary.Source).
		Bool("auth", cfg.Auth.Enabled()).
		Msg("upload service ready")

	return &App{Config: cfg, Log: log, Uploads: uploads}, nil
}

// Router builds the HTTP engine serving a.
func (a *App) Router() *gin.Engine {
	var verifier *middleware.TokenVerifier
	if a.Config.Auth.Enabled() {
		verifier = middleware.NewTokenVerifier(a.Config.Auth)
	}
	return router.Setup(
		a.Log,
		a.Config.CORS.AllowedOrigins,
		a.Config.Upload.MaxFileSizeMB,
		verifier,
		handler.NewUploadHandler(a.Uploads),
		handler.NewSessionHandler(a.Uploads),
		handler.NewHealthHandler(a.Config.Processor.MockMode, a.Ready),
	)
}

// Ready reports whether the app accepts new work. It turns false once Drain
// is called.
func (a *App) Ready() bool {
	return !a.draining.Load()
}

// Drain marks the app as shutting down so /readyz starts failing.
func (a *App) Drain() {
	a.draining.Store(true)
}
