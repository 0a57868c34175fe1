// Tideland Go Workpool - Connection Server Tests
//
// Copyright (C) 2014-2025 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package server_test

import (
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"
	"tideland.dev/go/audit/asserts"

	"tideland.dev/go/workpool"
	"tideland.dev/go/workpool/internal/server"
)

// TestMain verifies that no goroutines are leaked.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// TestServeRoutes tests the responses of the known and unknown routes.
func TestServeRoutes(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)
	pool, srv := startServer(t, server.Config{SleepDelay: 20 * time.Millisecond})
	ctx, cancel := context.WithCancel(t.Context())
	served := serve(ctx, srv)

	tests := []struct {
		request string
		status  string
		content string
	}{
		{"GET / HTTP/1.1\r\nHost: localhost\r\n\r\n", "HTTP/1.1 200 OK", "Hi from workpoold"},
		{"GET /sleep HTTP/1.1\r\n\r\n", "HTTP/1.1 200 OK", "Hi from workpoold"},
		{"GET /unknown HTTP/1.1\r\n\r\n", "HTTP/1.1 404 NOT FOUND", "Oops!"},
		{"POST / HTTP/1.1\r\n\r\n", "HTTP/1.1 404 NOT FOUND", "Oops!"},
	}
	for _, test := range tests {
		response := request(t, srv.Addr(), test.request)
		assert.True(strings.HasPrefix(response, test.status+"\r\n"))
		assert.True(strings.Contains(response, "Content-Length: "))
		assert.True(strings.Contains(response, test.content))
	}

	cancel()
	assert.NoError(<-served)
	assert.NoError(pool.Close())
	assert.Equal(pool.Stats().Completed, int64(len(tests)))
}

// TestServeConcurrentSleeps tests that slow requests are handled in parallel.
func TestServeConcurrentSleeps(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)
	pool, srv := startServer(t, server.Config{SleepDelay: 200 * time.Millisecond})
	ctx, cancel := context.WithCancel(t.Context())
	served := serve(ctx, srv)

	start := time.Now()
	responses := make(chan string, 2)
	for range 2 {
		go func() {
			responses <- request(t, srv.Addr(), "GET /sleep HTTP/1.1\r\n\r\n")
		}()
	}
	for range 2 {
		assert.True(strings.HasPrefix(<-responses, "HTTP/1.1 200 OK"))
	}
	assert.True(time.Since(start) < 400*time.Millisecond)

	cancel()
	assert.NoError(<-served)
	assert.NoError(pool.Close())
}

// TestServeMaxConnections tests the end of serving after a number
// of connections.
func TestServeMaxConnections(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)
	pool, srv := startServer(t, server.Config{MaxConnections: 2})
	served := serve(t.Context(), srv)

	for range 2 {
		response := request(t, srv.Addr(), "GET / HTTP/1.1\r\n\r\n")
		assert.True(strings.HasPrefix(response, "HTTP/1.1 200 OK"))
	}

	select {
	case err := <-served:
		assert.NoError(err)
	case <-time.After(5 * time.Second):
		t.Fatalf("Serve did not return after the connection limit")
	}

	// The listener is closed now.
	_, err := net.Dial("tcp", srv.Addr().String())
	assert.NotNil(err)

	// Pending connections are drained by the pool.
	assert.NoError(pool.Close())
	assert.Equal(pool.Stats().Submitted, int64(2))
}

// TestServeClosedPool tests that connections are closed when the pool
// refuses them.
func TestServeClosedPool(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)
	pool, srv := startServer(t, server.Config{MaxConnections: 1})
	assert.NoError(pool.Close())
	served := serve(t.Context(), srv)

	conn, err := net.Dial("tcp", srv.Addr().String())
	assert.NoError(err)
	defer conn.Close()
	assert.NoError(conn.SetDeadline(time.Now().Add(5 * time.Second)))

	response, err := io.ReadAll(conn)
	assert.NoError(err)
	assert.Equal(len(response), 0)
	assert.NoError(<-served)
}

// TestNewInvalid tests the creation errors.
func TestNewInvalid(t *testing.T) {
	assert := asserts.NewTesting(t, asserts.FailStop)

	srv, err := server.New(server.Config{Address: "127.0.0.1:0"}, nil)
	assert.Nil(srv)
	assert.ErrorMatch(err, "executor must not be nil")

	pool, err := workpool.New(1, nil)
	assert.NoError(err)
	defer pool.Close()

	srv, err = server.New(server.Config{Address: "127.0.0.1:-1"}, pool)
	assert.Nil(srv)
	assert.ErrorMatch(err, "failed to listen on.*")
}

// startServer creates a pool with two workers and a server on a
// free local port.
func startServer(t *testing.T, cfg server.Config) (*workpool.Pool, *server.Server) {
	pool, err := workpool.New(2, workpool.NewConfig().SetName("server-test"))
	if err != nil {
		t.Fatalf("Failed to create pool: %v", err)
	}
	cfg.Address = "127.0.0.1:0"
	srv, err := server.New(cfg, pool)
	if err != nil {
		pool.Close()
		t.Fatalf("Failed to create server: %v", err)
	}
	return pool, srv
}

// serve runs the server in the background.
func serve(ctx context.Context, srv *server.Server) <-chan error {
	served := make(chan error, 1)
	go func() {
		served <- srv.Serve(ctx)
	}()
	return served
}

// request sends a raw request and returns the complete response.
func request(t *testing.T, addr net.Addr, raw string) string {
	conn, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Errorf("Failed to dial %v: %v", addr, err)
		return ""
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Errorf("Failed to set deadline: %v", err)
		return ""
	}
	if _, err := io.WriteString(conn, raw); err != nil {
		t.Errorf("Failed to write request: %v", err)
		return ""
	}
	response, err := io.ReadAll(conn)
	if err != nil {
		t.Errorf("Failed to read response: %v", err)
	}
	return string(response)
}

// EOF
