package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/squad-randomizer/internal/catalog"
	"github.com/DoyleJ11/squad-randomizer/internal/config"
	"github.com/DoyleJ11/squad-randomizer/internal/httpapi"
	"github.com/DoyleJ11/squad-randomizer/internal/hub"
	"github.com/DoyleJ11/squad-randomizer/internal/lobby"
	"github.com/DoyleJ11/squad-randomizer/internal/logging"
	"github.com/DoyleJ11/squad-randomizer/internal/metrics"
	"github.com/DoyleJ11/squad-randomizer/internal/sample"
	"github.com/DoyleJ11/squad-randomizer/internal/store"
)

const shutdownGrace = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat := catalog.Default()
	if cfg.CatalogFile != "" {
		if cat, err = catalog.Load(cfg.CatalogFile); err != nil {
			return err
		}
	}

	st, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return err
	}
	if c, ok := st.(io.Closer); ok {
		defer c.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	h := hub.NewHub(ctx, hub.Config{
		Lobby: lobby.Deps{
			Catalog:        cat,
			Store:          st,
			Logger:         log.Named("lobby"),
			Metrics:        metrics.NewRecorder(reg),
			HistoryLimit:   cfg.HistoryLimit,
			PersistTimeout: cfg.PersistTimeout,
		},
		NewSource: sources(cfg.Seed),
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.SetupRoutes(httpapi.Server{Hub: h, Catalog: cat, Registry: reg, Logger: log}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Addr), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		err := srv.Shutdown(sctx)
		select {
		case h.Inbox() <- hub.ShutdownHub{}:
		case <-h.Done():
		}
		<-h.Done()
		log.Info("stopped")
		return err
	})
	return g.Wait()
}

// sources hands each new lobby its own generator. A fixed seed makes the
// sequence of lobbies reproducible across restarts.
func sources(seed int64) func() sample.Source {
	if seed == 0 {
		return func() sample.Source { return sample.NewSource(uint64(time.Now().UnixNano())) }
	}
	var n atomic.Uint64
	return func() sample.Source { return sample.NewSource(uint64(seed) + n.Add(1)) }
}
