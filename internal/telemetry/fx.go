package telemetry

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/metrica/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module wires the Prometheus recorder and the /metrics listener.
var Module = fx.Module("telemetry",
	fx.Provide(NewRecorder),
	fx.Invoke(registerListener),
)

func registerListener(lc fx.Lifecycle, cfg config.Config, rec *Recorder, log *zap.Logger) {
	if cfg.MetricsListenAddr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(rec.Registry(), promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: cfg.MetricsListenAddr, Handler: mux}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Warn("metrics listener stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
