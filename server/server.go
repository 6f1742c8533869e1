package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Options struct {
	WebServerPort string

	JobsEnabled bool
	JobsHandler func()

	// MigrationHandler runs before routes are installed; an error aborts startup.
	MigrationEnabled bool
	MigrationHandler func() error

	// WebServerPreHandler installs middleware and routes before the server starts.
	WebServerPreHandler func(r *gin.Engine)

	// ShutdownHandler runs after the HTTP server has drained.
	ShutdownHandler func(ctx context.Context)

	ShutdownTimeout time.Duration
	Logger          logrus.FieldLogger
}

func GetDefaultOptions() Options {
	return Options{
		WebServerPort:   "7000",
		JobsEnabled:     true,
		ShutdownTimeout: 30 * time.Second,
		Logger:          logrus.StandardLogger(),
	}
}

/*
* Apply data migrations
* Build the gin engine and let the caller install routes
* Start background jobs
* Serve until SIGINT/SIGTERM, then drain and run the shutdown hook
 */
func Start(opts Options) error {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	if opts.MigrationEnabled && opts.MigrationHandler != nil {
		if err := opts.MigrationHandler(); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	if opts.WebServerPreHandler != nil {
		opts.WebServerPreHandler(r)
	}

	if opts.JobsEnabled && opts.JobsHandler != nil {
		opts.JobsHandler()
	}

	srv := &http.Server{
		Addr:              ":" + opts.WebServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", opts.WebServerPort).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	case err, ok := <-errCh:
		if ok {
			serveErr = fmt.Errorf("http server: %w", err)
		}
	}

	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}
	if opts.ShutdownHandler != nil {
		opts.ShutdownHandler(shutdownCtx)
	}
	return serveErr
}
