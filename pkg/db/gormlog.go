package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/innovativehub/storefront/pkg/logger"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// queryLog forwards gorm's trace output to the gateway logger. Only failing
// and slow statements are written; record-not-found is a normal slot miss.
type queryLog struct {
	logg *logger.Logger
	slow time.Duration
}

func newQueryLog(logg *logger.Logger, slow time.Duration) gormlogger.Interface {
	return &queryLog{logg: logg, slow: slow}
}

func (q *queryLog) LogMode(gormlogger.LogLevel) gormlogger.Interface {
	return q
}

func (q *queryLog) Info(ctx context.Context, msg string, args ...any) {
	q.logg.Info(ctx, fmt.Sprintf(msg, args...))
}

func (q *queryLog) Warn(ctx context.Context, msg string, args ...any) {
	q.logg.Warn(ctx, fmt.Sprintf(msg, args...))
}

func (q *queryLog) Error(ctx context.Context, msg string, args ...any) {
	q.logg.Error(ctx, fmt.Sprintf(msg, args...), nil)
}

func (q *queryLog) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if q.logg == nil {
		return
	}
	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound)
	slow := q.slow > 0 && elapsed > q.slow
	if !failed && !slow {
		return
	}
	query, rows := fc()
	ctx = q.logg.WithFields(ctx, map[string]any{
		"sql":         query,
		"rows":        rows,
		"duration_ms": elapsed.Milliseconds(),
	})
	if failed {
		q.logg.Error(ctx, "slot query failed", err)
		return
	}
	q.logg.Warn(ctx, "slow slot query")
}
