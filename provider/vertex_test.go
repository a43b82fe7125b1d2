// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

package provider

import (
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-tune/tunekit/types"
)

func TestVertexProvider_Name(t *testing.T) {
	p := &VertexProvider{logger: slog.Default()}

	if got := p.Name(); got != "vertex" {
		t.Errorf("Name() = %q, want %q", got, "vertex")
	}
}

func TestVertexProvider_SupportedMethods(t *testing.T) {
	p := &VertexProvider{logger: slog.Default()}

	want := []types.TrainingMethod{types.MethodSFT}
	if diff := cmp.Diff(want, p.SupportedMethods()); diff != "" {
		t.Errorf("SupportedMethods() mismatch (-want +got):\n%s", diff)
	}
}

// The cases below all fail before the provider reaches its platform
// clients, so a bare struct works as the receiver.
func TestVertexProvider_Finetune_validation(t *testing.T) {
	tests := []struct {
		name        string
		job         *types.FinetuneJob
		wantErr     string
		wantNotImpl bool
	}{
		{
			name:    "nil job",
			job:     nil,
			wantErr: "job is required",
		},
		{
			name:    "missing model",
			job:     &types.FinetuneJob{},
			wantErr: "model is required",
		},
		{
			name: "unsupported training method",
			job: &types.FinetuneJob{
				Model:   "meta-llama/Meta-Llama-3-8B-Instruct",
				Options: &types.TrainOptions{Method: types.MethodPreference},
			},
			wantErr:     "not supported",
			wantNotImpl: true,
		},
		{
			name: "model_id hyperparameter override",
			job: &types.FinetuneJob{
				Model: "meta-llama/Meta-Llama-3-8B-Instruct",
				Options: &types.TrainOptions{
					Hyperparameters: map[string]any{"model_id": "other-model"},
				},
			},
			wantErr: "model_id",
		},
		{
			name: "empty training data",
			job: &types.FinetuneJob{
				Model: "meta-llama/Meta-Llama-3-8B-Instruct",
			},
			wantErr: "unable to accept the training data",
		},
		{
			name: "records without messages",
			job: &types.FinetuneJob{
				Model: "meta-llama/Meta-Llama-3-8B-Instruct",
				TrainData: []types.Record{
					{"text": "not a chat record"},
				},
			},
			wantErr: "missing_messages_list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &VertexProvider{logger: slog.Default()}

			_, err := p.Finetune(t.Context(), tt.job)
			if err == nil {
				t.Fatal("Finetune() should return error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Finetune() error = %v, want substring %q", err, tt.wantErr)
			}

			var notImpl types.NotImplementedError
			if got := errors.As(err, &notImpl); got != tt.wantNotImpl {
				t.Errorf("errors.As(err, *NotImplementedError) = %v, want %v", got, tt.wantNotImpl)
			}
		})
	}
}

func TestVertexProvider_LaunchModel(t *testing.T) {
	p := &VertexProvider{logger: slog.Default()}

	err := p.LaunchModel(t.Context(), "tuned-model:epoch_3")
	var notImpl types.NotImplementedError
	if !errors.As(err, &notImpl) {
		t.Errorf("LaunchModel() error = %v, want NotImplementedError", err)
	}
}

func TestVertexProvider_KillModel(t *testing.T) {
	p := &VertexProvider{logger: slog.Default()}

	err := p.KillModel(t.Context(), "tuned-model:epoch_3")
	var notImpl types.NotImplementedError
	if !errors.As(err, &notImpl) {
		t.Errorf("KillModel() error = %v, want NotImplementedError", err)
	}
}

func TestVertexProvider_IsVertexTunedModel(t *testing.T) {
	p := &VertexProvider{logger: slog.Default()}

	if p.IsVertexTunedModel(t.Context(), "meta-llama/Meta-Llama-3-8B-Instruct:epoch_3") {
		t.Error("IsVertexTunedModel() = true, want false")
	}
}

func TestOutputPrefixFor(t *testing.T) {
	first := outputPrefixFor("gs://bucket/artifacts")
	if !strings.HasPrefix(first, "gs://bucket/artifacts/runs/") {
		t.Errorf("outputPrefixFor() = %q, want a runs/ folder under the root", first)
	}
	if second := outputPrefixFor("gs://bucket/artifacts"); second == first {
		t.Errorf("outputPrefixFor() = %q twice, want a fresh prefix per run", second)
	}

	if got := outputPrefixFor("s3://bucket/artifacts"); got != "" {
		t.Errorf("outputPrefixFor(s3 root) = %q, want empty", got)
	}
	if got := outputPrefixFor("/tmp/artifacts"); got != "" {
		t.Errorf("outputPrefixFor(local root) = %q, want empty", got)
	}
}

func TestJobNumber(t *testing.T) {
	tests := []struct {
		name  string
		jobID string
		want  string
	}{
		{
			name:  "full resource name",
			jobID: "projects/test-project/locations/us-central1/customJobs/8452913975",
			want:  "8452913975",
		},
		{
			name:  "bare identifier",
			jobID: "8452913975",
			want:  "8452913975",
		},
		{
			name:  "empty",
			jobID: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := jobNumber(tt.jobID); got != tt.want {
				t.Errorf("jobNumber(%q) = %q, want %q", tt.jobID, got, tt.want)
			}
		})
	}
}
