// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

package provider

import (
	"context"

	"github.com/go-tune/tunekit/types"
)

// Provider drives fine-tuning on one model platform.
//
// A provider owns the full workflow for its platform: data validation and
// upload, config rendering, job submission, waiting, and wiring the tuned
// weights into serving.
type Provider interface {
	// Name identifies the provider.
	Name() string

	// SupportedMethods lists the training methods the provider accepts.
	SupportedMethods() []types.TrainingMethod

	// Finetune runs job end to end and returns the serveable name of the
	// final tuned checkpoint. The job is updated in place with the
	// platform job handle and the produced model names.
	Finetune(ctx context.Context, job *types.FinetuneJob) (string, error)

	// LaunchModel provisions serving capacity for a tuned model.
	LaunchModel(ctx context.Context, modelName string) error

	// KillModel tears down serving capacity for a tuned model.
	KillModel(ctx context.Context, modelName string) error
}
