// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

package customjob

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/aiplatform/apiv1beta1/aiplatformpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/go-tune/tunekit/types"
)

// fakeJobClient plays back scripted job states in order, repeating the
// last state once the script runs out.
type fakeJobClient struct {
	jobName string
	states  []aiplatformpb.JobState
	errMsg  string
	labels  map[string]string
	output  string

	created *aiplatformpb.CreateCustomJobRequest
	gets    int
}

func (f *fakeJobClient) CreateCustomJob(_ context.Context, req *aiplatformpb.CreateCustomJobRequest, _ ...gax.CallOption) (*aiplatformpb.CustomJob, error) {
	f.created = req
	return &aiplatformpb.CustomJob{Name: f.jobName}, nil
}

func (f *fakeJobClient) GetCustomJob(_ context.Context, req *aiplatformpb.GetCustomJobRequest, _ ...gax.CallOption) (*aiplatformpb.CustomJob, error) {
	i := min(f.gets, len(f.states)-1)
	f.gets++

	job := &aiplatformpb.CustomJob{
		Name:   req.GetName(),
		State:  f.states[i],
		Labels: f.labels,
	}
	if f.errMsg != "" {
		job.Error = status.New(codes.Internal, f.errMsg).Proto()
	}
	if f.output != "" {
		job.JobSpec = &aiplatformpb.CustomJobSpec{
			BaseOutputDirectory: &aiplatformpb.GcsDestination{OutputUriPrefix: f.output},
		}
	}
	return job, nil
}

func (f *fakeJobClient) CancelCustomJob(_ context.Context, _ *aiplatformpb.CancelCustomJobRequest, _ ...gax.CallOption) error {
	return nil
}

func (f *fakeJobClient) Close() error { return nil }

// newTestService wires a service to a fake client with a poll interval
// short enough for tests.
func newTestService(client jobClient) *Service {
	return &Service{
		client:       client,
		projectID:    "acme-project",
		location:     "us-central1",
		logger:       slog.Default(),
		pollInterval: time.Millisecond,
	}
}

func TestService_Submit(t *testing.T) {
	t.Parallel()

	fake := &fakeJobClient{jobName: "projects/acme-project/locations/us-central1/customJobs/8452"}
	s := newTestService(fake)

	config := NewConfig("/gcs/bucket/artifacts/model_config_tunekit_7.yaml")
	config.OutputURIPrefix = "gs://bucket/artifacts/runs/1"
	config.Labels = map[string]string{LabelBaseModelID: "llama-3-8b"}

	jobID, err := s.Submit(context.Background(), config)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if jobID != fake.jobName {
		t.Errorf("Submit() = %q, want %q", jobID, fake.jobName)
	}

	if got := fake.created.GetParent(); got != "projects/acme-project/locations/us-central1" {
		t.Errorf("Parent = %q, want the project location", got)
	}
	job := fake.created.GetCustomJob()
	if got := job.GetJobSpec().GetBaseOutputDirectory().GetOutputUriPrefix(); got != config.OutputURIPrefix {
		t.Errorf("BaseOutputDirectory = %q, want %q", got, config.OutputURIPrefix)
	}
	if got := job.GetLabels()[LabelBaseModelID]; got != "llama-3-8b" {
		t.Errorf("Labels[%s] = %q, want llama-3-8b", LabelBaseModelID, got)
	}
	args := job.GetJobSpec().GetWorkerPoolSpecs()[0].GetContainerSpec().GetArgs()
	wantArgs := []string{"finetune", "/gcs/bucket/artifacts/model_config_tunekit_7.yaml"}
	if !slices.Equal(args, wantArgs) {
		t.Errorf("Args = %v, want %v", args, wantArgs)
	}
}

func TestService_Submit_missingOutputPrefix(t *testing.T) {
	t.Parallel()

	fake := &fakeJobClient{jobName: "unused"}
	s := newTestService(fake)

	if _, err := s.Submit(context.Background(), NewConfig("model_config_tunekit_7.yaml")); err == nil {
		t.Error("Submit() error = nil without output prefix, want error")
	}
	if fake.created != nil {
		t.Error("Submit() reached the API with an incomplete config")
	}
}

func TestService_Wait(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		states  []aiplatformpb.JobState
		errMsg  string
		wantErr string
	}{
		{
			name:   "succeeds immediately",
			states: []aiplatformpb.JobState{aiplatformpb.JobState_JOB_STATE_SUCCEEDED},
		},
		{
			name: "polls through to success",
			states: []aiplatformpb.JobState{
				aiplatformpb.JobState_JOB_STATE_PENDING,
				aiplatformpb.JobState_JOB_STATE_RUNNING,
				aiplatformpb.JobState_JOB_STATE_SUCCEEDED,
			},
		},
		{
			name: "surfaces the failure message",
			states: []aiplatformpb.JobState{
				aiplatformpb.JobState_JOB_STATE_RUNNING,
				aiplatformpb.JobState_JOB_STATE_FAILED,
			},
			errMsg:  "CUDA out of memory",
			wantErr: "CUDA out of memory",
		},
		{
			name:    "cancelled",
			states:  []aiplatformpb.JobState{aiplatformpb.JobState_JOB_STATE_CANCELLED},
			wantErr: "cancelled",
		},
		{
			name:    "expired",
			states:  []aiplatformpb.JobState{aiplatformpb.JobState_JOB_STATE_EXPIRED},
			wantErr: "expired",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := &fakeJobClient{states: tt.states, errMsg: tt.errMsg}
			s := newTestService(fake)

			job, err := s.Wait(context.Background(), "projects/p/locations/l/customJobs/1", time.Second)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Wait() error = %v, want it to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Wait() error = %v", err)
			}
			if job.State != types.JobStateSucceeded {
				t.Errorf("State = %v, want %v", job.State, types.JobStateSucceeded)
			}
			if fake.gets < len(tt.states) {
				t.Errorf("polled %d times, want at least %d", fake.gets, len(tt.states))
			}
		})
	}
}

func TestService_Wait_timeout(t *testing.T) {
	t.Parallel()

	fake := &fakeJobClient{states: []aiplatformpb.JobState{aiplatformpb.JobState_JOB_STATE_RUNNING}}
	s := newTestService(fake)

	_, err := s.Wait(context.Background(), "projects/p/locations/l/customJobs/1", 20*time.Millisecond)
	if err == nil || !strings.Contains(err.Error(), "timeout") {
		t.Fatalf("Wait() error = %v, want a timeout error", err)
	}
	if fake.gets < 2 {
		t.Errorf("polled %d times before the deadline, want repeated polling", fake.gets)
	}
}

func TestService_Wait_contextCancelled(t *testing.T) {
	t.Parallel()

	fake := &fakeJobClient{states: []aiplatformpb.JobState{aiplatformpb.JobState_JOB_STATE_RUNNING}}
	s := newTestService(fake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Wait(ctx, "projects/p/locations/l/customJobs/1", time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() error = %v, want context.Canceled", err)
	}
}

func TestService_TunedModelInfo(t *testing.T) {
	t.Parallel()

	fake := &fakeJobClient{
		states: []aiplatformpb.JobState{aiplatformpb.JobState_JOB_STATE_SUCCEEDED},
		labels: map[string]string{LabelBaseModelID: "llama-3-8b"},
		output: "gs://bucket/artifacts/runs/1",
	}
	s := newTestService(fake)

	info, err := s.TunedModelInfo(context.Background(), "projects/p/locations/l/customJobs/1")
	if err != nil {
		t.Fatalf("TunedModelInfo() error = %v", err)
	}
	if info.StorageURI != "gs://bucket/artifacts/runs/1/model" {
		t.Errorf("StorageURI = %q, want the model folder under the output prefix", info.StorageURI)
	}
	if info.BaseModelID != "llama-3-8b" {
		t.Errorf("BaseModelID = %q, want llama-3-8b", info.BaseModelID)
	}
}

func TestService_TunedModelInfo_noOutputDirectory(t *testing.T) {
	t.Parallel()

	fake := &fakeJobClient{states: []aiplatformpb.JobState{aiplatformpb.JobState_JOB_STATE_SUCCEEDED}}
	s := newTestService(fake)

	if _, err := s.TunedModelInfo(context.Background(), "projects/p/locations/l/customJobs/1"); err == nil {
		t.Error("TunedModelInfo() error = nil without an output directory, want error")
	}
}
