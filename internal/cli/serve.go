package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/studio-billing/internal/catalog"
	"github.com/diewo77/studio-billing/internal/config"
	"github.com/diewo77/studio-billing/internal/logger"
	"github.com/diewo77/studio-billing/internal/server"
	"github.com/diewo77/studio-billing/internal/store"
	"github.com/diewo77/studio-billing/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				cfg.Server.Port = port
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	log, err := logger.New(cfg.App.Dev, cfg.App.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cat, err := catalog.Load(cfg.App.CatalogFile)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	loc, err := cfg.App.Location()
	if err != nil {
		return err
	}

	h, err := store.Open(ctx, storeOptions(cfg))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := h.Close(); err != nil {
			log.Warn("closing store", zap.Error(err))
		}
	}()
	log.Info("session store ready", zap.String("driver", cfg.Store.Driver))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if sw, ok := h.Store.(store.Sweeper); ok && cfg.Store.SweepInterval() > 0 {
		go sweep(ctx, sw, cfg.Store.SweepInterval(), log)
	}

	handler := server.New(server.Options{
		Catalog:  cat,
		Store:    h.Store,
		Sessions: session.NewManager(cfg.App.SessionSecret, cfg.Store.TTL(), cfg.App.SecureCookies),
		Log:      log,
		Location: loc,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr), zap.Bool("dev", cfg.App.Dev))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func storeOptions(cfg *config.Config) store.Options {
	return store.Options{
		Driver:      cfg.Store.Driver,
		SQLitePath:  cfg.Store.SQLitePath,
		PostgresDSN: cfg.Store.Database.DSN(),
		RedisURL:    cfg.Store.RedisURL,
		TTL:         cfg.Store.TTL(),
		Migrate:     cfg.Store.Migrate,
	}
}

// sweep purges expired rows until ctx is cancelled.
func sweep(ctx context.Context, sw store.Sweeper, every time.Duration, log *zap.Logger) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := sw.Sweep(ctx)
			if err != nil {
				log.Warn("session sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Debug("expired session entries removed", zap.Int64("rows", n))
			}
		}
	}
}
