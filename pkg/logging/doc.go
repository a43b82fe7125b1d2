// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

// Package logging provides context-based structured logging utilities using Go's standard slog package.
//
// The logging package implements a context-based logging pattern that allows loggers to be stored
// in and retrieved from context.Context values. This keeps logging consistent across the workflow
// stages without threading a logger argument through every call.
//
// # Basic Usage
//
// Creating a logger context:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
//		Level: slog.LevelInfo,
//	}))
//
//	ctx := logging.NewContext(ctx, logger)
//
// Retrieving the logger from context:
//
//	logger := logging.FromContext(ctx)
//	logger.Info("dataset uploaded", "remote_path", remotePath, "records", n)
//
// # Default Behavior
//
// When no logger is found in the context, FromContext returns a default JSON logger
// that writes to stdout with INFO level logging, so logging always works even when
// no explicit logger is configured.
//
// # Thread Safety
//
// The logging package is safe for concurrent use. Multiple goroutines can safely
// retrieve loggers from context without additional synchronization.
package logging
