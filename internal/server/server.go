// Tideland Go Workpool - Connection Server
//
// Copyright (C) 2014-2025 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tideland.dev/go/workpool"
)

// acceptTries limits the retries of a failing accept.
const acceptTries = 8

// Config contains the settings of a Server.
type Config struct {
	Address        string
	SleepDelay     time.Duration
	MaxConnections int
}

// Server accepts TCP connections and hands each one as task to an
// executor, normally a work pool.
type Server struct {
	executor       workpool.Executor
	listener       net.Listener
	sleepDelay     time.Duration
	maxConnections int
	logger         *zap.SugaredLogger
}

// New creates a server listening on the configured address. Serving
// starts with Serve.
func New(cfg Config, executor workpool.Executor) (*Server, error) {
	if executor == nil {
		return nil, errors.New("executor must not be nil")
	}
	listener, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %q: %w", cfg.Address, err)
	}
	return &Server{
		executor:       executor,
		listener:       listener,
		sleepDelay:     cfg.SleepDelay,
		maxConnections: cfg.MaxConnections,
		logger:         zap.S().Named("server"),
	}, nil
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve accepts connections until the context is done, the configured
// number of connections has been accepted, or accepting fails
// permanently. Only the latter is returned as error. The listener is
// closed when Serve returns, connections already passed to the
// executor are not touched.
func (s *Server) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		s.listener.Close()
	})
	defer stop()
	defer s.listener.Close()

	s.logger.Infow("accepting connections", "address", s.Addr().String())
	accepted := 0
	for s.maxConnections == 0 || accepted < s.maxConnections {
		conn, err := s.accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				s.logger.Infow("stopped accepting connections", "accepted", accepted)
				return nil
			}
			return fmt.Errorf("failed to accept connection: %w", err)
		}
		accepted++
		s.dispatch(conn)
	}
	s.logger.Infow("connection limit reached", "accepted", accepted)
	return nil
}

// Close closes the listener of a server which is not serving.
func (s *Server) Close() error {
	err := s.listener.Close()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// accept waits for the next connection. Errors caused by exhausted
// resources or timeouts are retried with an exponential backoff.
func (s *Server) accept(ctx context.Context) (net.Conn, error) {
	operation := func() (net.Conn, error) {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() == nil && isTransient(err) {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return conn, nil
	}
	notify := func(err error, next time.Duration) {
		s.logger.Warnw("accept failed, retrying", "error", err, "retry_in", next)
	}
	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(acceptTries),
		backoff.WithNotify(notify))
}

// dispatch passes the connection to the executor. A rejected
// connection is closed immediately.
func (s *Server) dispatch(conn net.Conn) {
	c := &connection{
		id:         uuid.NewString(),
		conn:       conn,
		sleepDelay: s.sleepDelay,
		logger:     s.logger,
	}
	if err := s.executor.Execute(c); err != nil {
		s.logger.Errorw("cannot handle connection",
			"request", c.id,
			"remote", conn.RemoteAddr().String(),
			"error", err)
		conn.Close()
	}
}

// isTransient checks if an accept error is worth a retry.
func isTransient(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	return errors.Is(err, syscall.EMFILE) ||
		errors.Is(err, syscall.ENFILE) ||
		errors.Is(err, syscall.ECONNABORTED)
}

// EOF
