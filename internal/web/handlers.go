package web

import (
	"fmt"
	"log/slog"
	"net/http"

	"tutorial/framework/httpserver"
	"tutorial/internal/config"
	"tutorial/internal/tutorial"
	"tutorial/internal/web/appcore"
	"tutorial/internal/web/components"
)

const metricsPath = "/metrics"

type Options struct {
	Logger *slog.Logger
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

func NewHandler(cfg config.Config, service *tutorial.Service, opts Options) (http.Handler, error) {
	appCtx := appcore.NewContext(service, cfg.StartSlug)

	mounts := make([]httpserver.Mount, 0, 1)
	if opts.Metrics != nil {
		mounts = append(mounts, httpserver.Mount{Path: metricsPath, Handler: opts.Metrics})
	}

	handler, err := httpserver.New(httpserver.Config[*appcore.Context]{
		AppContext: appCtx,
		Handlers:   Handlers(),
		Static: httpserver.StaticMount{
			Dir: cfg.StaticDir,
		},
		Mounts:          mounts,
		CachePolicies:   cachePolicies(),
		IsNotFoundError: appcore.IsNotFoundError,
		NotFoundPage:    components.NotFoundLayout,
		Logger:          opts.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create http server: %w", err)
	}

	return handler, nil
}
