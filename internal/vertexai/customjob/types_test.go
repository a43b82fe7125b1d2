// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

package customjob

import (
	"context"
	"strings"
	"testing"

	"cloud.google.com/go/aiplatform/apiv1beta1/aiplatformpb"

	"github.com/go-tune/tunekit/types"
)

func TestStateOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state aiplatformpb.JobState
		want  types.JobState
	}{
		{aiplatformpb.JobState_JOB_STATE_QUEUED, types.JobStateQueued},
		{aiplatformpb.JobState_JOB_STATE_PENDING, types.JobStatePending},
		{aiplatformpb.JobState_JOB_STATE_RUNNING, types.JobStateRunning},
		{aiplatformpb.JobState_JOB_STATE_SUCCEEDED, types.JobStateSucceeded},
		{aiplatformpb.JobState_JOB_STATE_FAILED, types.JobStateFailed},
		{aiplatformpb.JobState_JOB_STATE_CANCELLING, types.JobStateCancelling},
		{aiplatformpb.JobState_JOB_STATE_CANCELLED, types.JobStateCancelled},
		{aiplatformpb.JobState_JOB_STATE_PAUSED, types.JobStatePaused},
		{aiplatformpb.JobState_JOB_STATE_EXPIRED, types.JobStateExpired},
		{aiplatformpb.JobState_JOB_STATE_UNSPECIFIED, types.JobStateUnspecified},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			t.Parallel()

			if got := StateOf(tt.state); got != tt.want {
				t.Errorf("StateOf(%v) = %v, want %v", tt.state, got, tt.want)
			}
		})
	}
}

func TestSanitizeLabelValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "already valid",
			in:   "llama-3-8b",
			want: "llama-3-8b",
		},
		{
			name: "org prefix with slash and uppercase",
			in:   "mistralai/Mistral-7B-Instruct-v0.1",
			want: "mistralai-mistral-7b-instruct-v0-1",
		},
		{
			name: "underscores survive",
			in:   "base_model_v2",
			want: "base_model_v2",
		},
		{
			name: "truncated to the label limit",
			in:   strings.Repeat("a", 100),
			want: strings.Repeat("a", 63),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := SanitizeLabelValue(tt.in); got != tt.want {
				t.Errorf("SanitizeLabelValue(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestContainerPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		uri  string
		want string
	}{
		{
			name: "storage uri",
			uri:  "gs://bucket/artifacts/model_config_tunekit_7.yaml",
			want: "/gcs/bucket/artifacts/model_config_tunekit_7.yaml",
		},
		{
			name: "other scheme untouched",
			uri:  "s3://bucket/model_config_tunekit_7.yaml",
			want: "s3://bucket/model_config_tunekit_7.yaml",
		},
		{
			name: "local path untouched",
			uri:  "/var/tunekit/model_config_tunekit_7.yaml",
			want: "/var/tunekit/model_config_tunekit_7.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ContainerPath(tt.uri); got != tt.want {
				t.Errorf("ContainerPath(%q) = %q, want %q", tt.uri, got, tt.want)
			}
		})
	}
}

func TestNewService_validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	if _, err := NewService(ctx, "", "us-central1"); err == nil {
		t.Error("NewService() with empty project error = nil, want error")
	}
	if _, err := NewService(ctx, "acme-project", ""); err == nil {
		t.Error("NewService() with empty location error = nil, want error")
	}
}

func TestWorkerPoolSpec(t *testing.T) {
	t.Parallel()

	config := NewConfig("model_config_tunekit_7.yaml")
	config.Env = map[string]string{
		"WANDB_API_KEY": "w",
		"HF_TOKEN":      "h",
		"HF_HOME":       "/cache",
	}

	spec, err := workerPoolSpec(config)
	if err != nil {
		t.Fatalf("workerPoolSpec() error = %v", err)
	}

	container := spec.GetContainerSpec()
	if container == nil {
		t.Fatal("worker pool has no container spec")
	}
	if container.GetImageUri() != DefaultImageURI {
		t.Errorf("ImageUri = %q, want %q", container.GetImageUri(), DefaultImageURI)
	}

	// Env vars are emitted in sorted order for deterministic requests.
	var names []string
	for _, env := range container.GetEnv() {
		names = append(names, env.GetName())
	}
	want := []string{"HF_HOME", "HF_TOKEN", "WANDB_API_KEY"}
	for i, name := range want {
		if i >= len(names) || names[i] != name {
			t.Fatalf("env order = %v, want %v", names, want)
		}
	}

	if spec.GetMachineSpec().GetAcceleratorType() != aiplatformpb.AcceleratorType_NVIDIA_TESLA_A100 {
		t.Errorf("AcceleratorType = %v, want NVIDIA_TESLA_A100", spec.GetMachineSpec().GetAcceleratorType())
	}
	if spec.GetReplicaCount() != 1 {
		t.Errorf("ReplicaCount = %d, want 1", spec.GetReplicaCount())
	}
}

func TestWorkerPoolSpec_unknownAccelerator(t *testing.T) {
	t.Parallel()

	config := NewConfig("model_config_tunekit_7.yaml")
	config.AcceleratorType = "NVIDIA_FLUX_CAPACITOR"

	if _, err := workerPoolSpec(config); err == nil {
		t.Error("workerPoolSpec() error = nil for unknown accelerator, want error")
	}
}
