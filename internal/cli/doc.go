// Package cli implements the ktop command-line interface.
//
// The root command runs the dashboard. Everything else is a short-lived
// helper around the same configuration:
//
//	ktop                      - Run the dashboard
//	ktop init                 - Write a config file (interactive when possible)
//	ktop config               - Print the effective configuration
//	ktop config add-repo PATH - Add repositories to the config file
//	ktop doctor               - Diagnose git, config, repository and terminal issues
//	ktop version              - Print build information
//	ktop completion SHELL     - Generate shell completion
//
// # Flag Handling
//
// Global flags (--config, --log-file, --log-level, --strict-config) are
// persistent on the root command. The dashboard flags (--tick-rate,
// --git-interval, --repo) override the loaded configuration for a single
// run and are applied after the file and KTOP_* environment values.
//
// # Dashboard Wiring
//
// The dashboard command builds the pipeline bottom-up: logging, config,
// terminal guard, input reader, event multiplexer, sources, then the
// dashboard loop. Teardown runs in reverse once the loop returns: both
// queues close, the context is cancelled, the input reader is interrupted
// and the source goroutines are awaited before the terminal is restored.
package cli
