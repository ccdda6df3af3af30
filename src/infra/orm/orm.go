// Package orm opens GORM sessions on top of the pgx pool and routes GORM's
// statement log into slog.
package orm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SlowThreshold is the duration above which a statement is logged as slow.
const SlowThreshold = 200 * time.Millisecond

// Open returns a GORM handle that shares sqlDB's connections.
func Open(sqlDB *sql.DB, log *slog.Logger, traceQueries bool) (*gorm.DB, error) {
	level := gormlogger.Warn
	if traceQueries {
		level = gormlogger.Info
	}
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 NewLogger(log, level),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm session: %w", err)
	}
	return gdb, nil
}

// Logger implements gorm's logger.Interface on slog.
type Logger struct {
	log   *slog.Logger
	level gormlogger.LogLevel
	slow  time.Duration
}

// NewLogger creates a Logger at level tagged with component=gorm.
func NewLogger(log *slog.Logger, level gormlogger.LogLevel) *Logger {
	return &Logger{log: log.With("component", "gorm"), level: level, slow: SlowThreshold}
}

func (l *Logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	next := *l
	next.level = level
	return &next
}

func (l *Logger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Info {
		l.log.InfoContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *Logger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.log.WarnContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *Logger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Error {
		l.log.ErrorContext(ctx, fmt.Sprintf(msg, data...))
	}
}

// Trace logs failed statements at error, slow ones at warn and, at Info
// level, every statement at debug.
func (l *Logger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		stmt, rows := fc()
		l.log.ErrorContext(ctx, "query failed", "sql", stmt, "rows", rows, "elapsed", elapsed, "error", err)
	case l.slow > 0 && elapsed > l.slow && l.level >= gormlogger.Warn:
		stmt, rows := fc()
		l.log.WarnContext(ctx, "slow query", "sql", stmt, "rows", rows, "elapsed", elapsed, "threshold", l.slow)
	case l.level >= gormlogger.Info:
		stmt, rows := fc()
		l.log.DebugContext(ctx, "query", "sql", stmt, "rows", rows, "elapsed", elapsed)
	}
}
