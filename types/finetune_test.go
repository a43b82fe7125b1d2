// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"testing"
)

func TestJobState_Terminal(t *testing.T) {
	tests := []struct {
		name  string
		state JobState
		want  bool
	}{
		{name: "succeeded", state: JobStateSucceeded, want: true},
		{name: "failed", state: JobStateFailed, want: true},
		{name: "cancelled", state: JobStateCancelled, want: true},
		{name: "expired", state: JobStateExpired, want: true},
		{name: "queued", state: JobStateQueued, want: false},
		{name: "pending", state: JobStatePending, want: false},
		{name: "running", state: JobStateRunning, want: false},
		{name: "cancelling", state: JobStateCancelling, want: false},
		{name: "paused", state: JobStatePaused, want: false},
		{name: "unspecified", state: JobStateUnspecified, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Terminal(); got != tt.want {
				t.Errorf("Terminal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTrainOptions_WithDefaults(t *testing.T) {
	tests := []struct {
		name       string
		opts       *TrainOptions
		wantMethod TrainingMethod
		wantPath   string
	}{
		{
			name:       "empty options get the defaults",
			opts:       &TrainOptions{},
			wantMethod: MethodSFT,
			wantPath:   DefaultServeConfigPath,
		},
		{
			name:       "explicit values are kept",
			opts:       &TrainOptions{Method: MethodPreference, ServeConfigPath: "serve_70B.yaml"},
			wantMethod: MethodPreference,
			wantPath:   "serve_70B.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.opts.WithDefaults()
			if got.Method != tt.wantMethod {
				t.Errorf("Method = %q, want %q", got.Method, tt.wantMethod)
			}
			if got.ServeConfigPath != tt.wantPath {
				t.Errorf("ServeConfigPath = %q, want %q", got.ServeConfigPath, tt.wantPath)
			}
			if got != tt.opts {
				t.Error("WithDefaults() did not return the receiver")
			}
		})
	}
}

func TestNewFinetuneJob(t *testing.T) {
	records := []Record{
		{"messages": []any{map[string]any{"role": "assistant", "content": "hi"}}},
	}

	job := NewFinetuneJob("meta-llama/Meta-Llama-3-8B-Instruct", records, nil)

	if job.Model != "meta-llama/Meta-Llama-3-8B-Instruct" {
		t.Errorf("Model = %q, want the base model identifier", job.Model)
	}
	if len(job.TrainData) != 1 {
		t.Errorf("len(TrainData) = %d, want 1", len(job.TrainData))
	}
	if job.Options == nil {
		t.Fatal("Options = nil, want an empty TrainOptions for nil opts")
	}
	if job.JobID != "" {
		t.Errorf("JobID = %q, want empty before submission", job.JobID)
	}
}
