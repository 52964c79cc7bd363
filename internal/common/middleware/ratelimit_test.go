package middleware

import (
	"context"
	"testing"
	"time"
)

func TestTokenBucketExhausts(t *testing.T) {
	tb := NewTokenBucket(3, 0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if !tb.Allow(ctx) {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if tb.Allow(ctx) {
		t.Fatalf("expected bucket exhausted")
	}
}

func TestKeyedLimiterIsolatesClients(t *testing.T) {
	kl := NewKeyedLimiter(1, 0)
	ctx := context.Background()

	if !kl.AllowKey(ctx, "10.0.0.1") {
		t.Fatalf("first request for client a should pass")
	}
	if kl.AllowKey(ctx, "10.0.0.1") {
		t.Fatalf("second request for client a should be limited")
	}
	if !kl.AllowKey(ctx, "10.0.0.2") {
		t.Fatalf("client b should have its own bucket")
	}
}

func TestSlidingWindow(t *testing.T) {
	sw := NewSlidingWindow(50*time.Millisecond, 2)
	ctx := context.Background()

	if !sw.Allow(ctx) || !sw.Allow(ctx) {
		t.Fatalf("first two requests should pass")
	}
	if sw.Allow(ctx) {
		t.Fatalf("third request inside window should be limited")
	}
}
