// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

// Package trainconfig renders the YAML training configs consumed by the
// llmforge trainer image.
//
// A rendered config starts from a base mapping, either a caller-provided
// YAML file or one of the built-in per-family templates, overlays the
// caller's hyperparameters, and then pins the per-run fields: model
// identifier, data paths, experiment logger and checkpoint retention.
// The resulting file name is content-addressed, so rendering the same
// logical config twice reuses the same file.
package trainconfig
