// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

package provider

import (
	"context"

	"github.com/go-tune/tunekit/types"
)

// VertexJob is a handle to a fine-tuning run managed by [VertexProvider].
type VertexJob struct {
	types.FinetuneJob
}

// Cancel stops the remote training run.
func (j *VertexJob) Cancel(ctx context.Context) error {
	return types.NotImplementedError("cancelling fine-tuning jobs is not supported yet")
}

// Status reports the current state of the remote training run.
func (j *VertexJob) Status(ctx context.Context) (types.JobState, error) {
	return types.JobStateUnspecified, types.NotImplementedError("querying fine-tuning job status is not supported yet")
}
