package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoolWatcher_Sample(t *testing.T) {
	var buf bytes.Buffer
	w := &poolWatcher{
		logger: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})),
		last:   sql.DBStats{WaitCount: 10, WaitDuration: time.Second},
	}

	w.sample(context.Background(), sql.DBStats{WaitCount: 10, WaitDuration: time.Second})
	assert.Empty(t, buf.String(), "no new waits")

	w.sample(context.Background(), sql.DBStats{WaitCount: 12, WaitDuration: time.Second + 10*time.Millisecond, InUse: 4})
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "waits=2")
	assert.Contains(t, buf.String(), "avgWait=5ms")

	buf.Reset()
	w.sample(context.Background(), sql.DBStats{WaitCount: 13, WaitDuration: time.Second + 110*time.Millisecond})
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Equal(t, int64(13), w.last.WaitCount)
}
