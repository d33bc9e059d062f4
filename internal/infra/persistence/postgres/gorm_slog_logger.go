package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"crm/config"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlLogger routes gorm's statement trace into slog. Statement text is only
// rendered when the entry is actually emitted.
type sqlLogger struct {
	out   *slog.Logger
	mode  logger.LogLevel
	slow  time.Duration
	debug bool
}

func newGormSlogLogger(base *slog.Logger, cfg *config.Config) logger.Interface {
	l := &sqlLogger{mode: logger.Warn}
	if base != nil {
		l.out = base.With(slog.String("component", "sql"))
	}
	if cfg != nil {
		l.slow = cfg.Env.Log.SlowQuery
		l.debug = cfg.Env.Debug
	}
	if l.debug {
		l.mode = logger.Info
	}

	return l
}

func (l *sqlLogger) LogMode(mode logger.LogLevel) logger.Interface {
	next := *l
	next.mode = mode

	return &next
}

func (l *sqlLogger) Info(ctx context.Context, format string, args ...any) {
	l.printf(ctx, logger.Info, slog.LevelInfo, format, args)
}

func (l *sqlLogger) Warn(ctx context.Context, format string, args ...any) {
	l.printf(ctx, logger.Warn, slog.LevelWarn, format, args)
}

func (l *sqlLogger) Error(ctx context.Context, format string, args ...any) {
	l.printf(ctx, logger.Error, slog.LevelError, format, args)
}

func (l *sqlLogger) printf(ctx context.Context, enabledAt logger.LogLevel, level slog.Level, format string, args []any) {
	if l.out == nil || l.mode < enabledAt {
		return
	}
	l.out.LogAttrs(ctx, level, fmt.Sprintf(format, args...))
}

func (l *sqlLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.out == nil || l.mode == logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	level, msg, extra, ok := l.classify(err, elapsed)
	if !ok {
		return
	}

	stmt, rows := fc()
	attrs := append([]slog.Attr{
		slog.Duration("elapsed", elapsed),
		slog.Int64("rows", rows),
		slog.String("sql", stmt),
	}, extra...)
	l.out.LogAttrs(ctx, level, msg, attrs...)
}

// classify decides whether a statement is logged and how loudly.
func (l *sqlLogger) classify(err error, elapsed time.Duration) (slog.Level, string, []slog.Attr, bool) {
	switch {
	case err != nil && errors.Is(err, gorm.ErrRecordNotFound):
		// Lookups by id answer NOT_FOUND upstream.
	case err != nil && l.mode >= logger.Error:
		switch {
		case isUniqueConstraintViolation(err):
			// Replayed operation ids and duplicate names are resolved by the repository.
			return slog.LevelInfo, "Statement hit unique constraint",
				[]slog.Attr{slog.String("constraint", constraintName(err))}, true
		case isTransientError(err):
			// Stock mutations retry these.
			return slog.LevelWarn, "Statement failed transiently",
				[]slog.Attr{slog.String("sqlState", pgErrorCode(err)), slog.String("error", err.Error())}, true
		default:
			return slog.LevelError, "Statement failed",
				[]slog.Attr{slog.String("sqlState", pgErrorCode(err)), slog.String("error", err.Error())}, true
		}
	case l.slow > 0 && elapsed > l.slow && l.mode >= logger.Warn:
		return slog.LevelWarn, "Slow statement", []slog.Attr{slog.Duration("threshold", l.slow)}, true
	case l.mode >= logger.Info:
		return slog.LevelDebug, "Statement", nil, true
	}

	return 0, "", nil, false
}
