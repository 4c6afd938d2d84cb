package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"tutorial/internal/content/fsstore"
	"tutorial/internal/metrics"
	"tutorial/internal/tutorial"
	"tutorial/internal/web"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(state *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the tutorial HTTP server",
		Example: `  # Serve ./content/tutorial on :8080
  tutorial serve

  # Reload content on change
  tutorial serve --content-dir ../svelte.dev/content/tutorial --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, state)
		},
	}

	cmd.Flags().String("listen-addr", "", "address to listen on (default :8080)")
	cmd.Flags().String("static-dir", "", "directory served under /.tutorial/")
	cmd.Flags().Bool("watch", false, "reload fs content when files change")

	return cmd
}

func runServe(ctx context.Context, state *rootState) error {
	cfg := state.cfg
	logger := state.logger

	m := metrics.New()
	redirects := tutorial.NewRedirects(cfg.Redirects)

	stores, err := openStores(ctx, cfg, redirects, logger)
	if err != nil {
		return err
	}
	defer func() { _ = stores.Close() }()

	service := tutorial.NewService(stores.store,
		tutorial.WithRedirects(redirects),
		tutorial.WithObserver(m.ObserveOutcome),
	)

	handler, err := web.NewHandler(cfg, service, web.Options{
		Logger:  logger,
		Metrics: m.Handler(),
	})
	if err != nil {
		return err
	}

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.Watch && stores.fs != nil {
		eg.Go(func() error {
			return fsstore.Watch(egctx, cfg.ContentDir, stores.fs, fsstore.WatchOptions{
				Logger: logger,
				OnReload: func(err error) {
					m.ObserveReload(err)
					if err != nil || stores.cache == nil {
						return
					}
					if err := stores.cache.Flush(egctx); err != nil {
						logger.Warn("cache flush failed", "error", err)
					}
				},
			})
		})
	}

	eg.Go(func() error {
		logger.Info("starting tutorial server",
			"addr", cfg.ListenAddr,
			"source", cfg.ContentSource,
			"redirects", redirects.Len(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Debug("shutting down tutorial server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
