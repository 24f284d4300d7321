package logger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

// GormLoggerAdapter adapts *slog.Logger to GORM's logger.Interface.
// SQL statements are logged at DEBUG, slow statements and query errors at WARN.
type GormLoggerAdapter struct {
	logger        *slog.Logger
	slowThreshold time.Duration
}

// NewGormLoggerAdapter creates a GORM logger. Use slowThreshold 0 to disable
// slow query warnings.
func NewGormLoggerAdapter(log *slog.Logger, slowThreshold time.Duration) *GormLoggerAdapter {
	if log == nil {
		log = Discard()
	}
	return &GormLoggerAdapter{logger: log, slowThreshold: slowThreshold}
}

// LogMode returns the adapter itself; levels come from the slog handler.
func (a *GormLoggerAdapter) LogMode(_ gorm_logger.LogLevel) gorm_logger.Interface {
	return a
}

func (a *GormLoggerAdapter) Info(ctx context.Context, msg string, data ...any) {
	a.logger.DebugContext(ctx, fmt.Sprintf(msg, data...))
}

func (a *GormLoggerAdapter) Warn(ctx context.Context, msg string, data ...any) {
	a.logger.WarnContext(ctx, fmt.Sprintf(msg, data...))
}

func (a *GormLoggerAdapter) Error(ctx context.Context, msg string, data ...any) {
	a.logger.ErrorContext(ctx, fmt.Sprintf(msg, data...))
}

// Trace logs one executed statement
func (a *GormLoggerAdapter) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		a.logger.WarnContext(ctx, "query error",
			slog.String("sql", sql),
			slog.Int64("rows_affected", rows),
			slog.Int64("duration_ms", elapsed.Milliseconds()),
			slog.Any("error", err))
	case a.slowThreshold > 0 && elapsed > a.slowThreshold:
		a.logger.WarnContext(ctx, "slow query",
			slog.String("sql", sql),
			slog.Int64("rows_affected", rows),
			slog.Int64("duration_ms", elapsed.Milliseconds()),
			slog.Duration("threshold", a.slowThreshold))
	default:
		a.logger.DebugContext(ctx, "sql query",
			slog.String("sql", sql),
			slog.Int64("rows_affected", rows),
			slog.Int64("duration_ms", elapsed.Milliseconds()))
	}
}
