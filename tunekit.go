// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

// Package tunekit is a code-first Go toolkit for fine-tuning open language models on managed cloud training platforms and wiring the tuned weights into serving.
package tunekit

// Version is the version of the tunekit toolkit.
var Version = "v0.0.0"
