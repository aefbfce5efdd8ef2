package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"expenses/internal/amqp"
	"expenses/internal/backend"
	"expenses/internal/cli"
	apphttp "expenses/internal/http"
	applog "expenses/internal/log"
	"expenses/internal/services"
)

func main() {
	cfg, logger := cli.MustBootstrap(applog.ComponentApp)

	ctx, stop := cli.SignalContext(context.Background(), logger)
	defer stop()

	store, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open data backend", applog.FieldError, err, applog.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}

	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", applog.FieldError, err)
		} else {
			publisher = client
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	svc, err := services.Open(ctx, store, publisher, logger)
	if err != nil {
		logger.Error("Failed to load ledger", applog.FieldError, err)
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, svc, cfg.CurrencySymbol, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting expenses server", "port", cfg.Port, applog.FieldBackend, cfg.DataBackend, applog.FieldCount, svc.Ledger().Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	exitCode := 0
	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		exitCode = 1
	}

	// The ledger is flushed once, on the way out.
	if err := svc.Save(context.Background()); err != nil {
		exitCode = 1
	}
	if err := svc.Close(); err != nil {
		logger.Error("Failed to close resources", applog.FieldError, err)
	}

	logger.Info("Server stopped", applog.FieldOperation, applog.OpShutdown)
	stop()
	os.Exit(exitCode)
}
