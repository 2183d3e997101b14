package migrate

import (
	"context"

	"github.com/Avannubo/subirananadons-backend/pkg/config"
	"github.com/Avannubo/subirananadons-backend/pkg/db"
	"github.com/Avannubo/subirananadons-backend/pkg/logger"
)

// MaybeRunDev applies pending migrations at boot when auto-migrate is
// enabled. Intended for development; production runs cmd/migrate.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if cfg == nil || !cfg.DB.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return err
	}

	if logg != nil {
		logg.Info(ctx, "running pending migrations (auto-migrate enabled)")
	}
	return Up(ctx, sqlDB, DefaultDir)
}
