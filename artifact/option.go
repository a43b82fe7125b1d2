// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import "log/slog"

// Option configures the services in this package.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

func newOptions(logger *slog.Logger, opts ...Option) *options {
	o := &options{
		logger: logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
