// Tideland Go Workpool - Daemon Configuration
//
// Copyright (C) 2014-2025 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/robfig/cron/v3"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of the environment variables overriding
// the configuration, e.g. WORKPOOL_WORKERS.
const EnvPrefix = "WORKPOOL"

// Configuration contains the settings of the daemon.
type Configuration struct {
	Address        string        `mapstructure:"address" yaml:"address" default:"127.0.0.1:7878"`
	Workers        int           `mapstructure:"workers" yaml:"workers" default:"4"`
	PoolName       string        `mapstructure:"pool-name" yaml:"pool-name" default:"connections"`
	SleepDelay     time.Duration `mapstructure:"sleep-delay" yaml:"sleep-delay" default:"5s"`
	MaxConnections int           `mapstructure:"max-connections" yaml:"max-connections" default:"0"`
	AdminAddress   string        `mapstructure:"admin-address" yaml:"admin-address" default:"127.0.0.1:7879"`
	ReportSchedule string        `mapstructure:"report-schedule" yaml:"report-schedule" default:"@every 30s"`
	LogLevel       string        `mapstructure:"log-level" yaml:"log-level" default:"info"`
	LogFormat      string        `mapstructure:"log-format" yaml:"log-format" default:"console"`
}

// NewConfiguration returns a configuration with all defaults set.
func NewConfiguration() (*Configuration, error) {
	cfg := &Configuration{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("failed to set configuration defaults: %w", err)
	}
	return cfg, nil
}

// AddFlags registers one flag per setting. The defaults are taken
// from the passed configuration.
func AddFlags(fs *pflag.FlagSet, cfg *Configuration) {
	fs.String("address", cfg.Address, "TCP address the connection acceptor listens on")
	fs.Int("workers", cfg.Workers, "number of workers handling connections")
	fs.String("pool-name", cfg.PoolName, "name of the work pool in logs and metrics")
	fs.Duration("sleep-delay", cfg.SleepDelay, "delay of the /sleep route")
	fs.Int("max-connections", cfg.MaxConnections, "number of connections to accept before stopping, 0 is unlimited")
	fs.String("admin-address", cfg.AdminAddress, "HTTP address of the admin endpoint, empty disables it")
	fs.String("report-schedule", cfg.ReportSchedule, "cron schedule of the statistics report, empty disables it")
	fs.String("log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.String("log-format", cfg.LogFormat, "log format (console, json)")
}

// Load builds the configuration. Values are taken in the order
// explicitly set flags, WORKPOOL_* environment variables, the optional
// configuration file, and finally the defaults.
func Load(fs *pflag.FlagSet, file string) (*Configuration, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", file, err)
		}
	}

	cfg, err := NewConfiguration()
	if err != nil {
		return nil, err
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks all settings and returns the found errors joined.
func (c *Configuration) Validate() error {
	var errs []error
	if c.Address == "" {
		errs = append(errs, errors.New("address must not be empty"))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if strings.TrimSpace(c.PoolName) == "" {
		errs = append(errs, errors.New("pool name must not be empty"))
	}
	if c.SleepDelay < 0 {
		errs = append(errs, fmt.Errorf("sleep delay must not be negative, got %v", c.SleepDelay))
	}
	if c.MaxConnections < 0 {
		errs = append(errs, fmt.Errorf("max connections must not be negative, got %d", c.MaxConnections))
	}
	if c.ReportSchedule != "" {
		if _, err := cron.ParseStandard(c.ReportSchedule); err != nil {
			errs = append(errs, fmt.Errorf("invalid report schedule %q: %w", c.ReportSchedule, err))
		}
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err))
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("invalid log format %q: must be 'console' or 'json'", c.LogFormat))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// YAML returns the configuration in the format of a configuration file.
func (c *Configuration) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// NewLogger creates the logger described by the log level and format.
// Console logging uses the development encoder, json the production one.
func (c *Configuration) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	var zcfg zap.Config
	switch c.LogFormat {
	case "json":
		zcfg = zap.NewProductionConfig()
	default:
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

// EOF
