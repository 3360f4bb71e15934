package logger_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/pool-quoter/internal/logger"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var lines []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		lines = append(lines, m)
	}
	return lines
}

func TestLogger_LevelFilterAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.LevelInfo, "pool-quoter", nil)
	ctx := context.Background()

	log.Debug(ctx, "hidden")
	log.Info(ctx, "quote computed", "pool", "0xabc", "fee", 3000)
	log.Error(ctx, "quote failed", "error", "reverted")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "quote computed", lines[0]["msg"])
	assert.Equal(t, "pool-quoter", lines[0]["service"])
	assert.Equal(t, "0xabc", lines[0]["pool"])
	assert.EqualValues(t, 3000, lines[0]["fee"])
	assert.Contains(t, lines[0]["caller"], "logger_test.go")

	assert.Equal(t, "error", lines[1]["level"])
}

func TestLogger_Events(t *testing.T) {
	var got []logger.Record
	events := &logger.Events{
		Error: func(ctx context.Context, r logger.Record) {
			got = append(got, r)
		},
	}

	var buf bytes.Buffer
	log := logger.New(&buf, logger.LevelDebug, "", events)
	ctx := context.Background()

	log.Info(ctx, "not an error")
	log.Error(ctx, "rpc down", "endpoint", "http://node")

	require.Len(t, got, 1)
	assert.Equal(t, "rpc down", got[0].Message)
	assert.Equal(t, logger.LevelError, got[0].Level)
	assert.Equal(t, "http://node", got[0].Attributes["endpoint"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logger.LevelDebug, logger.ParseLevel("DEBUG"))
	assert.Equal(t, logger.LevelWarn, logger.ParseLevel("warning"))
	assert.Equal(t, logger.LevelError, logger.ParseLevel("error"))
	assert.Equal(t, logger.LevelInfo, logger.ParseLevel("bogus"))
}

func TestNop(t *testing.T) {
	log := logger.NewNop()
	log.Error(context.Background(), "nothing happens")
}
