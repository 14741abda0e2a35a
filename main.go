package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/expki/go-olapcache/cache"
	"github.com/expki/go-olapcache/config"
	"github.com/expki/go-olapcache/database"
	"github.com/expki/go-olapcache/logger"
	"github.com/expki/go-olapcache/metrics"
	"github.com/expki/go-olapcache/olap"
	"github.com/expki/go-olapcache/resolver"
	"github.com/expki/go-olapcache/server"
	"github.com/expki/go-olapcache/warmer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("fatal error: %s\n", err.Error())
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("olapcache", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", "config.json", "path to the configuration file")
	if err := flags.Parse(os.Args[1:]); errors.Is(err, pflag.ErrHelp) {
		return nil
	} else if err != nil {
		return err
	}

	// Load configuration
	if _, err := os.Stat(*configPath); errors.Is(err, os.ErrNotExist) {
		if err := config.CreateSample(*configPath); err != nil {
			return err
		}
		fmt.Printf("sample configuration written to %s\n", *configPath)
	}
	raw, err := os.ReadFile(*configPath)
	if err != nil {
		return errors.Join(errors.New("read config file"), err)
	}
	cfg, err := config.ParseConfig(raw)
	if err != nil {
		return err
	}
	views := make([]olap.View, 0, len(cfg.Warm.Views))
	for _, name := range cfg.Warm.Views {
		view, err := olap.ParseView(name)
		if err != nil {
			return errors.Join(errors.New("invalid warm view"), err)
		}
		views = append(views, view)
	}

	// Create logger
	if err := logger.Initialize(cfg.LogLevel.Zap()); err != nil {
		return errors.Join(errors.New("create logger"), err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect storage
	session, err := database.Open(cfg.Storage)
	if err != nil {
		return errors.Join(errors.New("open storage"), err)
	}
	defer session.Close()

	// Assemble the service graph
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collectorSet := metrics.New(registry)
	store := cache.New(cfg.Cache.TTL.Duration(), cache.WithSingleFlight(cfg.Cache.SingleFlight))
	collectorSet.WatchStore(store)
	service := olap.New(session, store, resolver.New(session, store, collectorSet), collectorSet)
	warm := warmer.New(service, collectorSet, views...)
	if cfg.Warm.IsEnabled() {
		warm.WarmStartup(ctx)
	}

	// Serve until interrupted
	srv := server.New(ctx, cfg.Server, warm, registry)
	errs := make(chan error, 1)
	go func() {
		errs <- srv.Run()
	}()
	select {
	case err = <-errs:
		if err != nil {
			logger.Sugar().Errorf("server failed: %v", err)
		}
	case <-ctx.Done():
		logger.Sugar().Info("shutting down")
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.SHUTDOWN_TIMEOUT)
	defer cancel()
	if closeErr := srv.Close(shutdownCtx); closeErr != nil {
		logger.Sugar().Warnf("server shutdown: %v", closeErr)
	}
	if waitErr := warm.Wait(shutdownCtx); waitErr != nil {
		logger.Sugar().Warnf("warm tasks still running at shutdown: %v", waitErr)
	}
	return err
}
