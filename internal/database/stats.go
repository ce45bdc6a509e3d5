package database

import (
	"context"
	"time"

	"github.com/Aidin1998/calendars/pkg/metrics"
	"gorm.io/gorm"
)

// CollectPoolStats publishes connection pool gauges for db under the given
// label every interval until ctx is done.
func CollectPoolStats(ctx context.Context, db *gorm.DB, label string, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		recordPoolStats(db, label)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func recordPoolStats(db *gorm.DB, label string) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	stats := sqlDB.Stats()
	metrics.DBOpenConns.WithLabelValues(label).Set(float64(stats.OpenConnections))
	metrics.DBIdleConns.WithLabelValues(label).Set(float64(stats.Idle))
	metrics.DBInUseConns.WithLabelValues(label).Set(float64(stats.InUse))
}

// Ping checks that the pool can reach the database.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
