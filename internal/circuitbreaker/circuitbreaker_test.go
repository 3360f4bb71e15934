package circuitbreaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/pool-quoter/internal/apperror"
	"github.com/fd1az/pool-quoter/internal/circuitbreaker"
)

var errRPC = errors.New("connection refused")

func TestCircuitBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	var transitions []circuitbreaker.State

	cfg := circuitbreaker.DefaultConfig("test-rpc")
	cfg.ConsecutiveFailures = 2
	cfg.Timeout = time.Hour
	cfg.OnStateChange = func(name string, from, to circuitbreaker.State) {
		transitions = append(transitions, to)
	}
	cb := circuitbreaker.New[int](cfg)

	for i := 0; i < 2; i++ {
		_, err := cb.Execute(func() (int, error) { return 0, errRPC })
		require.ErrorIs(t, err, errRPC)
	}

	assert.Equal(t, circuitbreaker.StateOpen, cb.State())
	assert.Equal(t, []circuitbreaker.State{circuitbreaker.StateOpen}, transitions)

	calls := 0
	_, err := cb.Execute(func() (int, error) {
		calls++
		return 1, nil
	})
	require.Error(t, err)
	assert.Zero(t, calls)
	assert.True(t, apperror.IsCode(err, apperror.CodeCircuitOpen))
	assert.True(t, apperror.IsRetriable(err))
}

func TestCircuitBreaker_IsSuccessfulKeepsClosed(t *testing.T) {
	errRevert := errors.New("execution reverted")

	cfg := circuitbreaker.DefaultConfig("test-revert")
	cfg.ConsecutiveFailures = 1
	cfg.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, errRevert)
	}
	cb := circuitbreaker.New[int](cfg)

	for i := 0; i < 3; i++ {
		_, err := cb.Execute(func() (int, error) { return 0, errRevert })
		require.ErrorIs(t, err, errRevert)
	}

	assert.Equal(t, circuitbreaker.StateClosed, cb.State())
	assert.Equal(t, "test-revert", cb.Name())
}

func TestCircuitBreaker_PassesResult(t *testing.T) {
	cb := circuitbreaker.New[string](circuitbreaker.DefaultConfig("ok"))

	got, err := cb.Execute(func() (string, error) { return "amountOut", nil })
	require.NoError(t, err)
	assert.Equal(t, "amountOut", got)
}
