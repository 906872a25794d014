package server

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestNormalizeAddr(t *testing.T) {
	cases := map[string]string{
		"":               "",
		"8080":           ":8080",
		":8080":          ":8080",
		"127.0.0.1:8000": "127.0.0.1:8000",
	}
	for in, want := range cases {
		if got := normalizeAddr(in); got != want {
			t.Errorf("normalizeAddr(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewHTTPServer_Timeouts(t *testing.T) {
	srv := newHTTPServer(":0", http.NotFoundHandler(), Config{WriteTimeout: 3 * time.Second})

	if srv.WriteTimeout != 3*time.Second {
		t.Fatalf("WriteTimeout = %v, want 3s", srv.WriteTimeout)
	}
	if srv.ReadHeaderTimeout != defaultReadHeaderTimeout || srv.IdleTimeout != defaultIdleTimeout {
		t.Fatalf("defaults not applied: %+v", srv)
	}
	if srv.MaxHeaderBytes != maxHeaderBytes {
		t.Fatalf("MaxHeaderBytes = %d", srv.MaxHeaderBytes)
	}
}

func TestShutdownBeforeRun(t *testing.T) {
	var s Server
	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown on idle server: %v", err)
	}
}

func TestRunThenShutdown(t *testing.T) {
	var s Server
	done := make(chan error, 1)
	go func() { done <- s.Run("127.0.0.1:0", http.NotFoundHandler(), Config{}) }()

	// wait until Run has published the server
	deadline := time.Now().Add(2 * time.Second)
	for {
		s.mu.Lock()
		started := s.httpServer != nil
		s.mu.Unlock()
		if started || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Shutdown")
	}
}
