package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/pool-quoter/internal/apperror"
)

func TestNew_DefaultsFromCode(t *testing.T) {
	err := apperror.New(apperror.CodeInvalidToken, apperror.WithContext("token 0xabc"))

	assert.Equal(t, apperror.CodeInvalidToken, err.Code)
	assert.Equal(t, "Token does not belong to the pool", err.Message)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Contains(t, err.Error(), "token 0xabc")
}

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		code apperror.Code
		want int
	}{
		{apperror.CodeAmountPrecision, http.StatusBadRequest},
		{apperror.CodeInvalidAmount, http.StatusBadRequest},
		{apperror.CodeQuoteUnavailable, http.StatusServiceUnavailable},
		{apperror.CodePoolInitFailed, http.StatusServiceUnavailable},
		{apperror.CodeUniswapPoolNotFound, http.StatusNotFound},
		{apperror.CodeRateLimitExceeded, http.StatusTooManyRequests},
		{apperror.CodeInternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, apperror.New(tt.code).StatusCode)
		})
	}
}

func TestIsCode_WalksChain(t *testing.T) {
	root := errors.New("execution reverted")
	call := apperror.New(apperror.CodeContractCallFailed, apperror.WithCause(root))
	quote := apperror.External(apperror.CodeQuoteUnavailable, "pool 0x1", call)
	wrapped := fmt.Errorf("quote: %w", quote)

	assert.True(t, apperror.IsCode(wrapped, apperror.CodeQuoteUnavailable))
	assert.True(t, apperror.IsCode(wrapped, apperror.CodeContractCallFailed))
	assert.False(t, apperror.IsCode(wrapped, apperror.CodeInvalidToken))
	assert.ErrorIs(t, wrapped, root)

	// GetCode reports the outermost code only
	assert.Equal(t, apperror.CodeQuoteUnavailable, apperror.GetCode(wrapped))
	assert.False(t, apperror.IsCode(nil, apperror.CodeQuoteUnavailable))
}

func TestWrap_KeepsExistingAppError(t *testing.T) {
	orig := apperror.New(apperror.CodeInvalidAmount)
	got := apperror.Wrap(orig, apperror.CodeInternalError, "parsing")

	require.Same(t, orig, got)
	assert.Equal(t, "parsing", got.Context)
	assert.Nil(t, apperror.Wrap(nil, apperror.CodeInternalError, ""))
}

func TestIsRetriable(t *testing.T) {
	assert.True(t, apperror.IsRetriable(apperror.New(apperror.CodeQuoteUnavailable)))
	assert.True(t, apperror.IsRetriable(apperror.New(apperror.CodeCircuitOpen)))
	assert.False(t, apperror.IsRetriable(apperror.New(apperror.CodeInvalidToken)))
	assert.False(t, apperror.IsRetriable(apperror.New(apperror.CodeAmountPrecision)))
	assert.False(t, apperror.IsRetriable(errors.New("plain")))
}

func TestToLog_IncludesCause(t *testing.T) {
	err := apperror.Internal(apperror.CodeInternalError, "ctx", errors.New("boom"))
	log := err.ToLog()

	assert.Equal(t, "boom", log["cause"])
	assert.Equal(t, "ctx", log["context"])
	assert.NotEmpty(t, log["stack"])
}
