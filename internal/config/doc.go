// Tideland Go Workpool - Daemon Configuration
//
// Copyright (C) 2014-2025 Frank Mueller / Tideland / Oldenburg / Germany
//
// All rights reserved. Use of this source code is governed
// by the new BSD license.

// Package config contains the configuration of the workpoold daemon.
//
//	┌─────────────────┬────────────────┬─────────────────────────────────────┐
//	│ Key             │ Default        │ Description                         │
//	├─────────────────┼────────────────┼─────────────────────────────────────┤
//	│ address         │ 127.0.0.1:7878 │ Listen address of the acceptor      │
//	│ workers         │ 4              │ Workers handling connections        │
//	│ pool-name       │ connections    │ Pool name in logs and metrics       │
//	│ sleep-delay     │ 5s             │ Delay of the /sleep route           │
//	│ max-connections │ 0              │ Accepted connections, 0 unlimited   │
//	│ admin-address   │ 127.0.0.1:7879 │ Admin endpoint, empty disables      │
//	│ report-schedule │ @every 30s     │ Statistics report, empty disables   │
//	│ log-level       │ info           │ debug, info, warn, error            │
//	│ log-format      │ console        │ console or json                     │
//	└─────────────────┴────────────────┴─────────────────────────────────────┘
//
// Every key can be set by flag, by environment variable with the prefix
// WORKPOOL_ and dashes replaced by underscores, or in a configuration file.
package config // import "tideland.dev/go/workpool/internal/config"

// EOF
