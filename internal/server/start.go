package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/nfrund/loginpage/internal/app"
)

const shutdownTimeout = 10 * time.Second

// Start runs the HTTP server and the idle form sweeper until an interrupt or
// terminate signal arrives, then shuts everything down.
func (s *Server) Start(ctx context.Context) error {
	addr := s.Cfg.GetServerAddr()
	s.logStartup(addr)

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	idle := s.Cfg.GetFormIdleTimeout()
	go s.forms.Run(sweepCtx, sweepInterval(idle), idle)

	errCh := make(chan error, 1)
	go func() {
		if err := s.E.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-waitForShutdown(ctx):
	}

	slog.Info("Shutting down login server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	stopSweep()
	err := s.E.Shutdown(shutdownCtx)
	return errors.Join(err, app.Shutdown(shutdownCtx, s.injector))
}

// sweepInterval checks for idle forms a few times per idle period.
func sweepInterval(idle time.Duration) time.Duration {
	interval := idle / 4
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}
