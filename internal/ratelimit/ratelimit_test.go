package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/fd1az/pool-quoter/internal/ratelimit"
)

func TestLimiter_Burst(t *testing.T) {
	l := ratelimit.New(1, 2)

	if !l.Allow() || !l.Allow() {
		t.Fatal("expected burst of 2 to be allowed")
	}
	if l.Allow() {
		t.Error("expected third immediate request to be rejected")
	}
}

func TestLimiter_WaitHonoursContext(t *testing.T) {
	l := ratelimit.New(0.001, 1)
	l.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx); err == nil {
		t.Error("expected wait to fail once context expires")
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	l := ratelimit.New(0, 0)
	for i := 0; i < 100; i++ {
		if !l.Allow() {
			t.Fatal("unlimited limiter rejected a request")
		}
	}

	var nilLimiter *ratelimit.Limiter
	if err := nilLimiter.Wait(context.Background()); err != nil {
		t.Errorf("nil limiter should not block: %v", err)
	}
}
