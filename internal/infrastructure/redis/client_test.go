package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestNewClientSuccess(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	ctx := context.Background()
	client, err := NewClient(ctx, Config{URL: fmt.Sprintf("redis://%s", s.Addr())})
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	if err := HealthCheck(client)(ctx); err != nil {
		t.Fatalf("health check failed: %v", err)
	}
}

func TestNewClientInvalidURL(t *testing.T) {
	_, err := NewClient(context.Background(), Config{URL: "://bad-url"})
	if err == nil {
		t.Fatalf("expected error for invalid URL")
	}
}

func TestNewClientPingFailure(t *testing.T) {
	s := miniredis.RunT(t)
	url := fmt.Sprintf("redis://%s", s.Addr())
	s.Close() // close before attempting to connect

	_, err := NewClient(context.Background(), Config{URL: url, ConnectRetries: 2, RetryInterval: time.Millisecond})
	if err == nil {
		t.Fatalf("expected ping error when server is down")
	}
}

func TestNewClientStopsOnCancelledContext(t *testing.T) {
	s := miniredis.RunT(t)
	url := fmt.Sprintf("redis://%s", s.Addr())
	s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := NewClient(ctx, Config{URL: url, ConnectRetries: 50, RetryInterval: time.Second})
	if err == nil {
		t.Fatalf("expected error with cancelled context")
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("expected retries to stop on cancelled context")
	}
}

func TestHealthCheckReportsDownServer(t *testing.T) {
	s := miniredis.RunT(t)

	client, err := NewClient(context.Background(), Config{URL: fmt.Sprintf("redis://%s", s.Addr())})
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	s.Close()

	if err := HealthCheck(client)(context.Background()); err == nil {
		t.Fatalf("expected health check to fail once redis is gone")
	}
}
