// skyserver-stub is a local stand-in for SkyServer and the SAS file
// store: canned identifier tables for SQL searches and synthetic FITS
// files for retrieval paths. Useful for demos and manual testing without
// hitting the public service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammed-shakir/skyquery/internal/config"
	"github.com/mohammed-shakir/skyquery/internal/logger"
	"github.com/mohammed-shakir/skyquery/internal/observability"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.FromEnv()
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8099"
	}

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole,
		Component: "skyserver-stub",
	}, os.Stdout)
	appLog := logger.NewSlog(&zl)
	observability.ExposeBuildInfo(Version)

	h := newHandler(appLog)

	r := chi.NewRouter()
	r.Use(requestID)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/dr{dr}/en/tools/search/x_sql.aspx", h.sql)
	r.Get("/dr{dr}/en/tools/search/sql.asp", h.sql)
	r.Get("/sas/*", h.file)
	r.Get("/dr7/algorithms/spectemplates/*", h.file)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("http listen", "addr", addr, "version", Version)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return 0
	case err := <-errCh:
		appLog.Error("serve failed", "err", err)
		return 1
	}
}
