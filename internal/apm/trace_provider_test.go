package apm

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/pool-quoter/internal/logger"
)

func TestParseHeaders(t *testing.T) {
	h, err := ParseHeaders("x-team=abc, api-key = k=v ")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"x-team": "abc", "api-key": "k=v"}, h)

	h, err = ParseHeaders("")
	require.NoError(t, err)
	assert.Empty(t, h)

	_, err = ParseHeaders("novalue")
	assert.Error(t, err)
}

func TestNewTraceProvider_Empty(t *testing.T) {
	tp, err := NewTraceProvider(context.Background(), Options{Provider: EmptyProvider}, logger.NewNop())
	require.NoError(t, err)
	assert.NoError(t, tp.Stop())
}

func TestNewTraceProvider_Unknown(t *testing.T) {
	_, err := NewTraceProvider(context.Background(), Options{Provider: "jaeger"}, logger.NewNop())
	assert.Error(t, err)
}

func TestNewTraceProvider_Stdout(t *testing.T) {
	var buf bytes.Buffer
	tp, err := NewTraceProvider(context.Background(), Options{
		ServiceName: "pool-quoter-test",
		Provider:    ConsoleProvider,
		Writer:      &buf,
	}, logger.NewNop())
	require.NoError(t, err)

	_, span := NewTracer("test").StartSpanFromContext(context.Background(), "cli.quote")
	assert.True(t, span.SpanContext().IsValid())
	span.NoticeError(errors.New("boom"))
	span.End()

	require.NoError(t, tp.Stop())
	assert.Contains(t, buf.String(), "cli.quote")
	assert.Contains(t, buf.String(), "boom")
}
