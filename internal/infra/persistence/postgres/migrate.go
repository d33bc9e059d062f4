package postgres

import (
	"context"
	"log/slog"

	"crm/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Migrate creates or updates every table, index and check constraint declared on the models.
func Migrate(ctx context.Context, db *gorm.DB, logger *slog.Logger) error {
	for _, m := range model.All() {
		if err := db.WithContext(ctx).AutoMigrate(m); err != nil {
			return errors.Wrapf(err, "failed to migrate %T", m)
		}

		logger.DebugContext(ctx, "Migrated table", slog.String("model", fmtModel(m)))
	}

	logger.InfoContext(ctx, "Database schema is up to date", slog.Int("tables", len(model.All())))

	return nil
}

func fmtModel(m any) string {
	if tabler, ok := m.(interface{ TableName() string }); ok {
		return tabler.TableName()
	}

	return "unknown"
}
