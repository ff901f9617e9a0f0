package main

import (
	"context"

	"github.com/smallbiznis/metrica/internal/acquisition"
	"github.com/smallbiznis/metrica/internal/attribution"
	"github.com/smallbiznis/metrica/internal/clock"
	"github.com/smallbiznis/metrica/internal/cohort"
	"github.com/smallbiznis/metrica/internal/config"
	"github.com/smallbiznis/metrica/internal/lifetime"
	"github.com/smallbiznis/metrica/internal/logger"
	"github.com/smallbiznis/metrica/internal/recurring"
	"github.com/smallbiznis/metrica/internal/report"
	reportdomain "github.com/smallbiznis/metrica/internal/report/domain"
	"github.com/smallbiznis/metrica/internal/telemetry"
	"github.com/smallbiznis/metrica/internal/warehouse"
	warehousedomain "github.com/smallbiznis/metrica/internal/warehouse/domain"
	"github.com/smallbiznis/metrica/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		telemetry.Module,
		db.Module,
		clock.Module,
		warehouse.Module,

		acquisition.Module,
		lifetime.Module,
		recurring.Module,
		attribution.Module,
		cohort.Module,
		report.Module,

		fx.Invoke(runReport),
	)
	app.Run()
}

// runReport executes one report over the configured lookback window on
// startup and shuts the app down when it finishes.
func runReport(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg config.Config,
	clk clock.Clock,
	svc reportdomain.Service,
	log *zap.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				now := clk.Now()
				window := warehousedomain.Window{
					From: now.AddDate(0, -cfg.ReportLookbackMonths, 0),
					To:   now,
				}
				if _, err := svc.Run(context.Background(), reportdomain.Request{Window: window}); err != nil {
					log.Error("report run failed", zap.Error(err))
				}
				_ = shutdowner.Shutdown()
			}()
			return nil
		},
	})
}
