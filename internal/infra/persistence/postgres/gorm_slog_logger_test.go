package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"crm/config"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestSQLLogger(buf *bytes.Buffer, debug bool) logger.Interface {
	cfg := &config.Config{}
	cfg.Env.Debug = debug
	cfg.Env.Log.SlowQuery = 100 * time.Millisecond

	return newGormSlogLogger(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), cfg)
}

func trace(l logger.Interface, elapsed time.Duration, err error) {
	l.Trace(context.Background(), time.Now().Add(-elapsed), func() (string, int64) {
		return "SELECT 1", 1
	}, err)
}

func TestSQLLogger_Trace(t *testing.T) {
	tests := []struct {
		name    string
		debug   bool
		elapsed time.Duration
		err     error
		want    string
	}{
		{name: "record not found is silent", err: gorm.ErrRecordNotFound},
		{name: "fast statement silent outside debug", elapsed: time.Millisecond},
		{name: "fast statement in debug", debug: true, elapsed: time.Millisecond, want: "level=DEBUG msg=Statement"},
		{name: "slow statement", elapsed: time.Second, want: "level=WARN msg=\"Slow statement\""},
		{
			name: "unique violation",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "uniq_inventory_operation"},
			want: "constraint=uniq_inventory_operation",
		},
		{
			name: "serialization failure is transient",
			err:  &pgconn.PgError{Code: "40001"},
			want: "level=WARN msg=\"Statement failed transiently\"",
		},
		{
			name: "other error",
			err:  &pgconn.PgError{Code: "42P01", Message: "relation missing"},
			want: "level=ERROR msg=\"Statement failed\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			trace(newTestSQLLogger(&buf, tt.debug), tt.elapsed, tt.err)

			if tt.want == "" {
				assert.Empty(t, buf.String())

				return
			}
			assert.Contains(t, buf.String(), tt.want)
			assert.Contains(t, buf.String(), "sql=\"SELECT 1\"")
		})
	}
}

func TestSQLLogger_LogModeSilent(t *testing.T) {
	var buf bytes.Buffer
	l := newTestSQLLogger(&buf, true).LogMode(logger.Silent)

	trace(l, time.Second, &pgconn.PgError{Code: "42P01"})
	l.Info(context.Background(), "migrating %s", "products")

	assert.Empty(t, buf.String())
}
