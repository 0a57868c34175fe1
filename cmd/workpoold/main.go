// Tideland Go Workpool - Daemon
//
// Copyright (C) 2014-2025 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tideland.dev/go/workpool/internal/config"
)

// version is set at build time.
var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "workpoold: %v\n", err)
		os.Exit(1)
	}
}

// newRootCommand creates the command tree.
func newRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "workpoold",
		Short:         "Serve TCP connections with a fixed pool of workers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "configuration file")

	root.AddCommand(
		newServeCommand(&configFile),
		newConfigCommand(&configFile),
		newVersionCommand(),
	)
	return root
}

// newConfigCommand creates the command printing the effective
// configuration as YAML.
func newConfigCommand(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
	}
	addConfigFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, *configFile)
		if err != nil {
			return err
		}
		out, err := cfg.YAML()
		if err != nil {
			return fmt.Errorf("failed to encode configuration: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	return cmd
}

// newVersionCommand creates the command printing the version.
func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			bold := color.New(color.Bold).SprintFunc()
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", bold("workpoold"), version)
		},
	}
}

// addConfigFlags registers the configuration flags with their
// defaults at the command.
func addConfigFlags(cmd *cobra.Command) {
	defaults, err := config.NewConfiguration()
	if err != nil {
		panic(err)
	}
	config.AddFlags(cmd.Flags(), defaults)
}

// loadConfig loads and validates the configuration for the command.
func loadConfig(cmd *cobra.Command, configFile string) (*config.Configuration, error) {
	cfg, err := config.Load(cmd.Flags(), configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// EOF
