package main

import (
	"context"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestServeReturnsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}

	done := make(chan struct{})
	go func() {
		serve(ctx, srv, zap.NewNop())
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not return after context cancellation")
	}
}

func TestServeReturnsOnListenerError(t *testing.T) {
	srv := &http.Server{Addr: "256.256.256.256:0", Handler: http.NewServeMux()}

	done := make(chan struct{})
	go func() {
		serve(context.Background(), srv, zap.NewNop())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not return after listen failure")
	}
}
