package checks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yogesh616/MediSearchServer/internal/models"
	"github.com/yogesh616/MediSearchServer/internal/monitoring"
)

// Database returns a readiness probe for the document store. It pings the connection pool
// and then reads one row id from the question table, so a reachable database without the
// migrated schema still reports down.
func Database(db *gorm.DB, timeout time.Duration) monitoring.Check {
	return monitoring.NewCheck("database", func(ctx context.Context) monitoring.ProbeResult {
		if db == nil {
			return monitoring.ProbeResult{Status: monitoring.StatusDown, Details: "database not configured"}
		}
		return timed(ctx, "database", timeout, func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			if err := sqlDB.PingContext(ctx); err != nil {
				return err
			}

			var ids []uint
			err = db.WithContext(ctx).Model(&models.Question{}).Limit(1).Pluck("id", &ids).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("question table: %w", err)
			}
			return nil
		})
	})
}
