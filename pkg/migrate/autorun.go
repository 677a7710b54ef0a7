package migrate

import (
	"context"
	"fmt"

	"github.com/innovativehub/storefront/pkg/config"
	"github.com/innovativehub/storefront/pkg/db"
	"github.com/innovativehub/storefront/pkg/logger"
	"github.com/innovativehub/storefront/pkg/metrics"
)

// MaybeAutoRun applies pending migrations at startup when enabled.
func MaybeAutoRun(ctx context.Context, cfg config.SlotsConfig, logg *logger.Logger, m *metrics.Metrics, client *db.Client) error {
	if !cfg.AutoMigrate {
		return nil
	}

	sqlDB, err := client.SQLDB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithField(ctx, "driver", cfg.Driver)
	logg.Info(ctx, "running goose migrations (auto-run)")

	if err := Run(ctx, sqlDB, cfg.Driver, "up"); err != nil {
		m.MigrationOutcome("failed")
		return fmt.Errorf("running goose up: %w", err)
	}

	m.MigrationOutcome("applied")
	logg.Info(ctx, "goose migrations completed")
	return nil
}
