package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/rcarvalho-pb/payments_crud-go/internal/bootstrap"
	"github.com/rcarvalho-pb/payments_crud-go/internal/config"
	"github.com/rcarvalho-pb/payments_crud-go/internal/infra/logging"
	httpapi "github.com/rcarvalho-pb/payments_crud-go/internal/infrastructure/http"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal(err)
	}

	logger, sync := logging.New(cfg.IsProd())
	defer sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closer, err := bootstrap.NewRepository(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialise payment store", map[string]any{"error": err})
		log.Fatal(err)
	}
	defer closer.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	router := bootstrap.NewRouter(repo, logger, reg)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewServer(router, reg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("HTTP server running", map[string]any{
		"addr":    cfg.HTTPAddr,
		"backend": cfg.Backend,
	})

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server stopped", map[string]any{"error": err})
	}
}
