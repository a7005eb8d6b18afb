package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"debirunpop/internal/config"
	"debirunpop/internal/ledger"
	"debirunpop/internal/logger"
	"debirunpop/internal/ratelimit"
	"debirunpop/internal/storage"
)

type Server struct {
	Cfg     config.Config
	Store   storage.Store
	Ledger  *ledger.Service
	Limiter *ratelimit.Limiter
	Hub     *Hub
	Metrics *Metrics

	registry *prometheus.Registry
}

// New wires a Server around an already-open store. Everything stateful (the
// rate-limit map, the websocket hub, the metrics registry) is owned by the
// returned instance.
func New(cfg config.Config, store storage.Store) *Server {
	registry := prometheus.NewRegistry()
	return &Server{
		Cfg:      cfg,
		Store:    store,
		Ledger:   ledger.New(store, cfg.Game.MaxDelta),
		Limiter:  ratelimit.New(time.Duration(cfg.RateLimit.WindowMs)*time.Millisecond, cfg.RateLimit.MaxRequests),
		Hub:      NewHub(),
		Metrics:  NewMetrics(registry),
		registry: registry,
	}
}

// Run is the process entrypoint: config, logging, storage, background
// sweepers, HTTP listener, graceful shutdown.
func Run() error {
	logger.Initialize()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()
	log.Info().Str("database", store.Type()).Msg("storage ready")

	srv := New(cfg, store)
	go srv.Limiter.Run(ctx, time.Duration(cfg.RateLimit.SweepMinutes)*time.Minute)

	httpSrv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      srv.Routes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", httpSrv.Addr).Msg("server listening")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
