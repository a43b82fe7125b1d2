// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

// Package types provides the shared vocabulary for the tunekit fine-tuning
// workflow.
//
// The package defines the data carried between the workflow stages: training
// examples, caller options, the job handle, and the enums describing training
// methods and remote job lifecycle states. It holds no behavior beyond small
// helpers so that every other package can depend on it without cycles.
//
// # Training Data
//
// A training example is a [Record], a loose key/value mapping in the provider
// chat format:
//
//	rec := types.Record{
//		"messages": []any{
//			map[string]any{"role": "system", "content": "You are a helpful assistant."},
//			map[string]any{"role": "user", "content": "What is the capital of France?"},
//			map[string]any{"role": "assistant", "content": "Paris."},
//		},
//	}
//
// Records are validated against the provider format at submission time; the
// type itself carries no invariants.
//
// # Jobs and Options
//
// A [FinetuneJob] names the base model, the dataset, and the [TrainOptions]
// for one run. The platform job handle and the produced adapter names are
// filled in as the workflow advances:
//
//	job := types.NewFinetuneJob("meta-llama/Meta-Llama-3-8B-Instruct", records, &types.TrainOptions{
//		UseLoRA: true,
//	})
//
// [JobState] mirrors the remote job lifecycle; [JobState.Terminal] reports
// whether a state is final.
//
// # Errors
//
// [NotImplementedError] marks entry points that are part of the provider
// contract but deliberately unimplemented, so callers can distinguish them
// from operational failures.
package types
