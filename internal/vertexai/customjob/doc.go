// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

// Package customjob wraps the Vertex AI custom job API for containerized
// fine-tuning runs.
//
// The service submits a single worker pool running the llmforge trainer
// image against a training config staged in Cloud Storage, then tracks the
// job through the usual lifecycle: polling state, waiting for completion,
// cancelling, and locating the tuned model output once the job succeeds.
package customjob
