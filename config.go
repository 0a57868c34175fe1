// Tideland Go Workpool - Configuration
//
// Copyright (C) 2014-2025 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package workpool

import (
	"errors"
	"fmt"
	"strings"

	"github.com/coder/quartz"
	"go.uber.org/zap"
)

// defaultName is used when no pool name is configured.
const defaultName = "default"

// Config contains the configuration of a Pool. It is created with NewConfig
// and modified with the chained setters. Invalid values are collected and
// reported by Error, New refuses a configuration with errors.
type Config struct {
	name         string
	logger       *zap.Logger
	clock        quartz.Clock
	errorHandler ErrorHandler
	errs         []error
}

// NewConfig returns a Config with default values.
func NewConfig() *Config {
	return &Config{
		name:   defaultName,
		logger: zap.NewNop(),
		clock:  quartz.NewReal(),
	}
}

// SetName sets the name of the pool. It is used in log entries and
// as metrics label.
func (c *Config) SetName(name string) *Config {
	name = strings.TrimSpace(name)
	if name == "" {
		c.errs = append(c.errs, errors.New("pool name must not be empty"))
		return c
	}
	c.name = name
	return c
}

// SetLogger sets the logger used by the pool and its workers.
func (c *Config) SetLogger(logger *zap.Logger) *Config {
	if logger == nil {
		c.errs = append(c.errs, errors.New("logger must not be nil"))
		return c
	}
	c.logger = logger
	return c
}

// SetClock sets the clock used for measuring task run times.
func (c *Config) SetClock(clock quartz.Clock) *Config {
	if clock == nil {
		c.errs = append(c.errs, errors.New("clock must not be nil"))
		return c
	}
	c.clock = clock
	return c
}

// SetErrorHandler sets the handler called when a task panics. A nil
// handler is allowed and disables the notification.
func (c *Config) SetErrorHandler(handler ErrorHandler) *Config {
	c.errorHandler = handler
	return c
}

// Name returns the configured pool name.
func (c *Config) Name() string {
	return c.name
}

// Logger returns the configured logger.
func (c *Config) Logger() *zap.Logger {
	return c.logger
}

// Clock returns the configured clock.
func (c *Config) Clock() quartz.Clock {
	return c.clock
}

// ErrorHandler returns the configured error handler, may be nil.
func (c *Config) ErrorHandler() ErrorHandler {
	return c.errorHandler
}

// Error returns all errors collected while configuring, joined
// into one, or nil.
func (c *Config) Error() error {
	if len(c.errs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid pool configuration: %w", errors.Join(c.errs...))
}

// EOF
