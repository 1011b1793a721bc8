package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/vovakirdan/chanserv/internal/config"
	"github.com/vovakirdan/chanserv/internal/core"
	"github.com/vovakirdan/chanserv/internal/store"
	"github.com/vovakirdan/chanserv/internal/store/sqlite"
	transporthttp "github.com/vovakirdan/chanserv/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	journal         store.Journal
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	var journal store.Journal
	if cfg.JournalPath != "" {
		j, err := sqlite.New(cfg.JournalPath)
		if err != nil {
			return nil, fmt.Errorf("init journal: %w", err)
		}
		journal = j
		logger.Info().Str("journal_path", cfg.JournalPath).Msg("audit journal enabled")
	}

	hub := core.NewHub(journal, logger)
	server := transporthttp.NewServer(hub, journal, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		journal:         journal,
		log:             logger,
	}, nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (a *App) Handler() stdhttp.Handler {
	return a.server.Handler
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go a.hub.Run(hubCtx)

	go func() {
		a.log.Info().Str("addr", a.server.Addr).Msg("http server listening")
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		stopHub()
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes the journal and other resources.
func (a *App) cleanup() {
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close journal")
		} else {
			a.log.Info().Msg("journal closed")
		}
	}
}
