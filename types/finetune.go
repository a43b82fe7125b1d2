// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

package types

// Record represents a single training example as loose key/value data.
//
// Validity is provider-defined: records are checked against the provider
// chat format at submission time rather than modeled as a rigid type.
type Record map[string]any

// TrainingMethod identifies a fine-tuning recipe family.
type TrainingMethod string

const (
	// MethodSFT is supervised fine-tuning on chat format examples.
	MethodSFT TrainingMethod = "sft"

	// MethodPreference is preference optimization over ranked completion pairs.
	MethodPreference TrainingMethod = "preference"

	// MethodDistill trains a smaller model on responses sampled from a larger one.
	MethodDistill TrainingMethod = "distill"
)

// JobState represents the lifecycle state of a remote training job.
type JobState string

const (
	JobStateUnspecified JobState = "UNSPECIFIED"
	JobStateQueued      JobState = "QUEUED"
	JobStatePending     JobState = "PENDING"
	JobStateRunning     JobState = "RUNNING"
	JobStateSucceeded   JobState = "SUCCEEDED"
	JobStateFailed      JobState = "FAILED"
	JobStateCancelling  JobState = "CANCELLING"
	JobStateCancelled   JobState = "CANCELLED"
	JobStatePaused      JobState = "PAUSED"
	JobStateExpired     JobState = "EXPIRED"
)

// Terminal reports whether the job has reached a state it cannot leave.
func (s JobState) Terminal() bool {
	switch s {
	case JobStateSucceeded, JobStateFailed, JobStateCancelled, JobStateExpired:
		return true
	default:
		return false
	}
}

// DefaultServeConfigPath is the serve config consulted when the caller does
// not name one.
const DefaultServeConfigPath = "serve_1B.yaml"

// TrainOptions carries the caller-tunable knobs for a fine-tuning run.
//
// The base model is deliberately not an option: it is fixed by the job and
// injected into the rendered training config by the provider itself.
type TrainOptions struct {
	// Method selects the training recipe. Defaults to [MethodSFT].
	Method TrainingMethod `json:"method,omitempty"`

	// ServeConfigPath is the serve config YAML whose referenced model config
	// is patched with the dynamic adapter weights path after training.
	ServeConfigPath string `json:"serve_config_path,omitempty"`

	// TrainConfigPath optionally points at a complete training config YAML,
	// bypassing template selection by model family.
	TrainConfigPath string `json:"train_config_path,omitempty"`

	// UseLoRA selects the low-rank adapter recipe over full parameter training.
	UseLoRA bool `json:"use_lora,omitempty"`

	// Hyperparameters are merged over the base training config mapping.
	Hyperparameters map[string]any `json:"hyperparameters,omitempty"`

	// OutputDir overrides the checkpoint output location of the training run.
	OutputDir string `json:"output_dir,omitempty"`

	// Compute overrides the default compute shape of the submitted job.
	Compute *ComputeSpec `json:"compute,omitempty"`

	// ValidationData holds optional held-out examples evaluated during training.
	ValidationData []Record `json:"validation_data,omitempty"`
}

// WithDefaults fills unset options in place and returns o for chaining.
func (o *TrainOptions) WithDefaults() *TrainOptions {
	if o.Method == "" {
		o.Method = MethodSFT
	}
	if o.ServeConfigPath == "" {
		o.ServeConfigPath = DefaultServeConfigPath
	}
	return o
}

// ComputeSpec describes the container and machine shape for a training job.
//
// Zero fields fall back to the platform defaults applied at submission time.
type ComputeSpec struct {
	// JobName is the display name of the submitted job.
	JobName string `json:"job_name,omitempty"`

	// ImageURI is the training container image.
	ImageURI string `json:"image_uri,omitempty"`

	// MachineType is the machine type backing each replica.
	MachineType string `json:"machine_type,omitempty"`

	// AcceleratorType is the accelerator attached to each replica.
	AcceleratorType string `json:"accelerator_type,omitempty"`

	// AcceleratorCount is the number of accelerators per replica.
	AcceleratorCount int `json:"accelerator_count,omitempty"`

	// ReplicaCount is the number of worker replicas.
	ReplicaCount int `json:"replica_count,omitempty"`

	// OutputURIPrefix is the storage prefix receiving job output and checkpoints.
	OutputURIPrefix string `json:"output_uri_prefix,omitempty"`
}

// FinetuneJob tracks one fine-tuning run from submission through serving.
type FinetuneJob struct {
	// Model is the base model identifier to tune.
	Model string `json:"model"`

	// TrainData holds the chat format training examples.
	TrainData []Record `json:"train_data,omitempty"`

	// Options are the caller-supplied training options.
	Options *TrainOptions `json:"options,omitempty"`

	// JobID is the opaque platform job handle, set once the job is submitted.
	JobID string `json:"job_id,omitempty"`

	// ModelNames are the serveable adapter names produced by the run, set
	// after the weights are relocated into the serving path.
	ModelNames []string `json:"model_names,omitempty"`
}

// NewFinetuneJob returns a job for tuning model on trainData.
//
// A nil opts is replaced with an empty [TrainOptions] so callers can always
// dereference Options.
func NewFinetuneJob(model string, trainData []Record, opts *TrainOptions) *FinetuneJob {
	if opts == nil {
		opts = &TrainOptions{}
	}
	return &FinetuneJob{
		Model:     model,
		TrainData: trainData,
		Options:   opts,
	}
}
