// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

// Package provider runs fine-tuning jobs against managed training platforms.
//
// The provider package defines the Provider interface for fine-tuning backends
// and implements it for Vertex AI custom jobs running containerized llmforge
// training. Providers are resolved from model names through a regex-based
// registry, so callers never hardcode a backend.
//
// # Provider Registry
//
// Providers are automatically resolved using regex pattern matching:
//
//	// Llama family
//	meta-llama/Meta-Llama-3-8B-Instruct
//	meta-llama/Llama-2-70b-chat-hf
//
//	// Mistral family
//	mistralai/Mistral-7B-Instruct-v0.1
//	mistralai/Mixtral-8x7B-Instruct-v0.1
//
// # Basic Usage
//
// Resolving and running a provider:
//
//	p, err := provider.NewProvider(ctx, "meta-llama/Meta-Llama-3-8B-Instruct", projectID, location)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	job := types.NewFinetuneJob("meta-llama/Meta-Llama-3-8B-Instruct", trainData, &types.TrainOptions{
//		UseLoRA: true,
//	})
//	modelName, err := p.Finetune(ctx, job)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Println(modelName)
//
// # Fine-Tuning Sequence
//
// A Finetune call validates the training data, saves and uploads the JSONL
// splits, renders and stages the llmforge training config, submits a Vertex
// AI custom job, waits for completion, relocates the produced adapter
// weights to the serving bucket, and patches the serving model config to
// pick them up. The job argument is updated in place with the job ID and
// tuned model names as the run progresses.
//
// # Custom Provider Registration
//
// Register custom provider implementations:
//
//	provider.RegisterProviderType(
//		[]string{`my-model-family-.*`},
//		func(ctx context.Context, projectID, location string) (provider.Provider, error) {
//			return NewCustomProvider(ctx, projectID, location)
//		},
//	)
//
// # Environment Variables
//
// Fine-tuning runs read the following environment variables:
//
//	TUNEKIT_ARTIFACT_STORAGE - remote root for datasets, training configs, and job output
//	WANDB_API_KEY            - forwarded into the training container
//	HF_TOKEN                 - forwarded into the training container
//	HF_HOME                  - forwarded into the training container
package provider
