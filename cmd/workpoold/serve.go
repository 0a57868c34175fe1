// Tideland Go Workpool - Daemon Serve Command
//
// Copyright (C) 2014-2025 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tideland.dev/go/workpool"
	"tideland.dev/go/workpool/internal/admin"
	"tideland.dev/go/workpool/internal/config"
	"tideland.dev/go/workpool/internal/report"
	"tideland.dev/go/workpool/internal/server"
)

// shutdownTimeout limits the graceful stop of the admin endpoint.
const shutdownTimeout = 10 * time.Second

// newServeCommand creates the command running the daemon.
func newServeCommand(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Accept connections and handle them in the work pool",
	}
	addConfigFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, *configFile)
		if err != nil {
			return err
		}
		logger, err := cfg.NewLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()
		undo := zap.ReplaceGlobals(logger)
		defer undo()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg, logger)
	}
	return cmd
}

// serve runs all components until the context is done or the
// connection limit is reached. The pool is closed last, so accepted
// connections are still answered.
func serve(ctx context.Context, cfg *config.Configuration, logger *zap.Logger) error {
	log := logger.Named("workpoold")

	poolCfg := workpool.NewConfig().
		SetName(cfg.PoolName).
		SetLogger(logger).
		SetErrorHandler(workpool.ErrorHandlerFunc(func(err *workpool.TaskError) {
			log.Error("connection handler died", zap.Int("worker", err.WorkerID), zap.Error(err))
		}))
	pool, err := workpool.New(cfg.Workers, poolCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := pool.Close(); err != nil {
			log.Error("pool closed with failed workers", zap.Error(err))
		}
	}()

	srv, err := server.New(server.Config{
		Address:        cfg.Address,
		SleepDelay:     cfg.SleepDelay,
		MaxConnections: cfg.MaxConnections,
	}, pool)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.AdminAddress != "" {
		adm := admin.New(cfg.AdminAddress, pool)
		go func() {
			if err := adm.Start(); err != nil {
				log.Error("admin endpoint failed", zap.Error(err))
				cancel()
			}
		}()
		defer func() {
			sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer scancel()
			if err := adm.Stop(sctx); err != nil {
				log.Warn("admin endpoint did not stop cleanly", zap.Error(err))
			}
		}()
	}

	if cfg.ReportSchedule != "" {
		rep, err := report.New(cfg.ReportSchedule, pool, logger)
		if err != nil {
			srv.Close()
			return err
		}
		rep.Start()
		defer func() {
			<-rep.Stop().Done()
		}()
	}

	log.Info("workpoold started",
		zap.String("address", srv.Addr().String()),
		zap.Int("workers", cfg.Workers))
	if err := srv.Serve(ctx); err != nil {
		return fmt.Errorf("serving stopped: %w", err)
	}
	log.Info("workpoold stopping")
	return nil
}

// EOF
