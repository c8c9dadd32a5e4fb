package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"

	"github.com/danielpatrickdp/reform-points/go-controller/internal/config"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/gate"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/ledger"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/logging"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/metrics"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/reform"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/rpc"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/store"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/weights"
)

// #region main
func main() {
	cfg, err := config.LoadDaemon()
	if err != nil {
		fmt.Fprintf(os.Stderr, "reformd: %v\n", err)
		os.Exit(1)
	}
	logger := logging.NewLogger(os.Stderr, cfg.Debug)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("reformd stopped", "err", err)
		os.Exit(1)
	}
}

// #endregion main

// #region run
func run(ctx context.Context, cfg config.Daemon, logger *slog.Logger) error {
	st, err := store.NewStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	w, err := loadWeights(st, cfg.WeightsFile, logger)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	ctrl := reform.NewController(st, weights.NewLive(w), reform.Options{
		Gate:    gate.GateConfig{RequireThreshold: cfg.RequireThreshold},
		Metrics: metrics.New(reg),
		Logger:  logger,
		Notifier: ledger.NotifierFunc(func(actorID string, balance, threshold int) {
			logger.Info("reform threshold reached", "actor", actorID, "balance", balance, "threshold", threshold)
		}),
	})

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.GRPCAddr, err)
	}
	srv := grpc.NewServer()
	rpc.RegisterReformServer(srv, rpc.NewServer(ctrl, logger))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	httpSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("grpc listening", "addr", cfg.GRPCAddr, "db", cfg.DBPath)
		errCh <- srv.Serve(lis)
	}()
	go func() {
		logger.Info("metrics listening", "addr", cfg.MetricsAddr)
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		srv.Stop()
		httpSrv.Close()
		return fmt.Errorf("serve: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("metrics shutdown", "err", err)
	}
	stopped := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		srv.Stop()
	}
	return nil
}

// #endregion run

// #region weights
// loadWeights prefers the weights file, saving it for later runs, and falls
// back to the stored settings. Clamp warnings are logged, never fatal.
func loadWeights(st *store.Store, path string, logger *slog.Logger) (weights.Config, error) {
	var (
		w        weights.Config
		warnings []string
		err      error
	)
	if path != "" {
		w, warnings, err = weights.LoadFile(path)
		if err != nil {
			return weights.Config{}, err
		}
		if err := st.SaveWeights(w); err != nil {
			return weights.Config{}, err
		}
	} else {
		w, warnings, err = st.LoadWeights()
		if err != nil {
			return weights.Config{}, err
		}
	}
	for _, warning := range warnings {
		logger.Warn("weights clamped", "detail", warning)
	}
	return w, nil
}

// #endregion weights
