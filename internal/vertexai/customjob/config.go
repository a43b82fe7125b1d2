// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

package customjob

import (
	"os"

	"github.com/go-tune/tunekit/types"
)

const (
	// DefaultDisplayName names submitted fine-tuning jobs.
	DefaultDisplayName = "tunekit-llmforge-fine-tuning-job"

	// DefaultImageURI is the trainer container image. The image bundles
	// llmforge and its experiment tracking dependencies.
	DefaultImageURI = "localhost:5555/tunekit/llm-forge:0.5.6"

	// DefaultMachineType backs each worker replica.
	DefaultMachineType = "a2-highgpu-1g"

	// DefaultAcceleratorType is attached to each worker replica.
	DefaultAcceleratorType = "NVIDIA_TESLA_A100"
)

// trainerEnvVars lists the environment variables forwarded from the
// submitting process into the training container.
var trainerEnvVars = []string{
	"WANDB_API_KEY",
	"HF_TOKEN",
	"HF_HOME",
}

// Config describes one custom training job.
type Config struct {
	// DisplayName is the job name shown in the console.
	DisplayName string

	// ImageURI is the training container image.
	ImageURI string

	// Command is the container entrypoint.
	Command []string

	// Args are the entrypoint arguments.
	Args []string

	// Env is the container environment.
	Env map[string]string

	// MachineType is the machine type backing each replica.
	MachineType string

	// AcceleratorType is the accelerator attached to each replica. It
	// must name a Vertex AI accelerator type.
	AcceleratorType string

	// AcceleratorCount is the number of accelerators per replica.
	AcceleratorCount int

	// ReplicaCount is the number of worker replicas.
	ReplicaCount int

	// OutputURIPrefix, when set, becomes the base output directory the
	// trainer writes checkpoints and final weights under.
	OutputURIPrefix string

	// Labels are attached to the submitted job.
	Labels map[string]string
}

// NewConfig returns the default job config for a staged training config.
// configPath must be readable from inside the trainer container, so staged
// gs:// locations go through [ContainerPath] first. Trainer credentials are
// forwarded from the submitting process environment.
func NewConfig(configPath string) *Config {
	env := make(map[string]string, len(trainerEnvVars))
	for _, key := range trainerEnvVars {
		env[key] = os.Getenv(key)
	}

	return &Config{
		DisplayName:      DefaultDisplayName,
		ImageURI:         DefaultImageURI,
		Command:          []string{"llmforge"},
		Args:             []string{"finetune", configPath},
		Env:              env,
		MachineType:      DefaultMachineType,
		AcceleratorType:  DefaultAcceleratorType,
		AcceleratorCount: 1,
		ReplicaCount:     1,
	}
}

// ApplyOverrides merges the non-zero fields of spec over the config.
func (c *Config) ApplyOverrides(spec *types.ComputeSpec) {
	if spec == nil {
		return
	}
	if spec.JobName != "" {
		c.DisplayName = spec.JobName
	}
	if spec.ImageURI != "" {
		c.ImageURI = spec.ImageURI
	}
	if spec.MachineType != "" {
		c.MachineType = spec.MachineType
	}
	if spec.AcceleratorType != "" {
		c.AcceleratorType = spec.AcceleratorType
	}
	if spec.AcceleratorCount > 0 {
		c.AcceleratorCount = spec.AcceleratorCount
	}
	if spec.ReplicaCount > 0 {
		c.ReplicaCount = spec.ReplicaCount
	}
	if spec.OutputURIPrefix != "" {
		c.OutputURIPrefix = spec.OutputURIPrefix
	}
}
