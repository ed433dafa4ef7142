// Clusterview - Interactive Media Dataset Visualization
// Copyright 2026 Clusterview Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clusterview/clusterview

// Command server serves a saved view to the browser frontend.
//
// Usage:
//
//	server [flags] [uuid|path|recent]
//
// The positional argument selects the view: a uuid within the cache
// directory, a filesystem path to a view directory, or "recent" (the
// default) for the most recently saved view.
//
// Flags:
//
//	-addr        listen address, e.g. 127.0.0.1:8443 (default: ephemeral port)
//	-config      path to a config.yaml
//	-no-browser  do not open the browser after startup
//
// Configuration follows the CLUSTERVIEW_* environment variables and the
// optional config file, see the config package.
package main
