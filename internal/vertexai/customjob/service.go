// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

package customjob

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	aiplatform "cloud.google.com/go/aiplatform/apiv1beta1"
	"cloud.google.com/go/aiplatform/apiv1beta1/aiplatformpb"
	"cloud.google.com/go/auth/credentials"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"

	"github.com/go-tune/tunekit/pkg/logging"
	"github.com/go-tune/tunekit/types"
)

const (
	// DefaultWaitTimeout bounds how long [Service.Wait] polls before
	// giving up on a job.
	DefaultWaitTimeout = 18000 * time.Second

	// defaultPollInterval is the delay between successive job state checks.
	defaultPollInterval = 10 * time.Second
)

// jobClient is the slice of the Vertex AI job API the service uses,
// satisfied by [aiplatform.JobClient].
type jobClient interface {
	CreateCustomJob(ctx context.Context, req *aiplatformpb.CreateCustomJobRequest, opts ...gax.CallOption) (*aiplatformpb.CustomJob, error)
	GetCustomJob(ctx context.Context, req *aiplatformpb.GetCustomJobRequest, opts ...gax.CallOption) (*aiplatformpb.CustomJob, error)
	CancelCustomJob(ctx context.Context, req *aiplatformpb.CancelCustomJobRequest, opts ...gax.CallOption) error
	Close() error
}

var _ jobClient = (*aiplatform.JobClient)(nil)

// Service submits and tracks custom training jobs on Vertex AI.
type Service struct {
	client       jobClient
	projectID    string
	location     string
	logger       *slog.Logger
	pollInterval time.Duration
}

// ServiceOption is a functional option for configuring the service.
type ServiceOption func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a custom job service for the given project and
// location. It uses Application Default Credentials for authentication
// and talks to the regional Vertex AI endpoint.
func NewService(ctx context.Context, projectID, location string, opts ...ServiceOption) (*Service, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required")
	}
	if location == "" {
		return nil, fmt.Errorf("location is required")
	}

	service := &Service{
		projectID:    projectID,
		location:     location,
		logger:       logging.FromContext(ctx),
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(service)
	}

	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		Scopes: []string{
			"https://www.googleapis.com/auth/cloud-platform",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to detect credentials: %w", err)
	}

	client, err := aiplatform.NewJobClient(ctx,
		option.WithAuthCredentials(creds),
		option.WithEndpoint(fmt.Sprintf("%s-aiplatform.googleapis.com:443", location)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create job client: %w", err)
	}
	service.client = client

	service.logger.InfoContext(ctx, "Custom job service initialized successfully",
		slog.String("project_id", projectID),
		slog.String("location", location),
	)

	return service, nil
}

// Close closes the service and releases all resources.
func (s *Service) Close() error {
	s.logger.Info("Closing custom job service")

	if s.client != nil {
		if err := s.client.Close(); err != nil {
			return fmt.Errorf("failed to close job client: %w", err)
		}
	}
	return nil
}

// parent returns the resource parent for jobs in this service.
func (s *Service) parent() string {
	return fmt.Sprintf("projects/%s/locations/%s", s.projectID, s.location)
}

// Submit creates a custom job running config and returns its resource name.
// The config must carry an output URI prefix, which becomes the base output
// directory the tuned model is read back from.
func (s *Service) Submit(ctx context.Context, config *Config) (string, error) {
	if config.OutputURIPrefix == "" {
		return "", fmt.Errorf("output URI prefix is required")
	}
	spec, err := workerPoolSpec(config)
	if err != nil {
		return "", err
	}

	jobSpec := &aiplatformpb.CustomJobSpec{
		WorkerPoolSpecs: []*aiplatformpb.WorkerPoolSpec{spec},
		BaseOutputDirectory: &aiplatformpb.GcsDestination{
			OutputUriPrefix: config.OutputURIPrefix,
		},
	}

	job, err := s.client.CreateCustomJob(ctx, &aiplatformpb.CreateCustomJobRequest{
		Parent: s.parent(),
		CustomJob: &aiplatformpb.CustomJob{
			DisplayName: config.DisplayName,
			JobSpec:     jobSpec,
			Labels:      config.Labels,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create custom job: %w", err)
	}

	s.logger.InfoContext(ctx, "Submitted custom job",
		slog.String("job_id", job.GetName()),
		slog.String("display_name", config.DisplayName),
	)

	return job.GetName(), nil
}

// Get fetches the current state of a job by resource name.
func (s *Service) Get(ctx context.Context, jobID string) (*Job, error) {
	job, err := s.client.GetCustomJob(ctx, &aiplatformpb.GetCustomJobRequest{
		Name: jobID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get custom job %s: %w", jobID, err)
	}

	j := &Job{
		ID:          job.GetName(),
		DisplayName: job.GetDisplayName(),
		State:       StateOf(job.GetState()),
		Error:       job.GetError().GetMessage(),
		Labels:      job.GetLabels(),
	}
	if dir := job.GetJobSpec().GetBaseOutputDirectory(); dir != nil {
		j.OutputURIPrefix = dir.GetOutputUriPrefix()
	}
	return j, nil
}

// Cancel requests cancellation of a running job.
func (s *Service) Cancel(ctx context.Context, jobID string) error {
	if err := s.client.CancelCustomJob(ctx, &aiplatformpb.CancelCustomJobRequest{
		Name: jobID,
	}); err != nil {
		return fmt.Errorf("failed to cancel custom job %s: %w", jobID, err)
	}

	s.logger.InfoContext(ctx, "Requested custom job cancellation",
		slog.String("job_id", jobID),
	)
	return nil
}

// Wait blocks until the job reaches a terminal state or the timeout
// elapses. A non-positive timeout falls back to [DefaultWaitTimeout].
// It returns the final job on success and an error when the job fails,
// is cancelled, expires, or the timeout is hit.
func (s *Service) Wait(ctx context.Context, jobID string, timeout time.Duration) (*Job, error) {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	interval := s.pollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		job, err := s.Get(ctx, jobID)
		if err != nil {
			return nil, err
		}

		switch job.State {
		case types.JobStateSucceeded:
			return job, nil
		case types.JobStateFailed:
			return nil, fmt.Errorf("custom job failed: %s", job.Error)
		case types.JobStateCancelled:
			return nil, fmt.Errorf("custom job was cancelled")
		case types.JobStateExpired:
			return nil, fmt.Errorf("custom job expired")
		default:
			// Still running, wait and check again
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(interval):
				continue
			}
		}
	}

	return nil, fmt.Errorf("timeout waiting for custom job %s to complete", jobID)
}

// TunedModelInfo returns where a finished job left its tuned model.
//
// The storage URI points at the model folder under the job's output
// prefix, which is where the trainer writes final weights. The base model
// comes from the label recorded at submission.
func (s *Service) TunedModelInfo(ctx context.Context, jobID string) (*ModelInfo, error) {
	job, err := s.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.OutputURIPrefix == "" {
		return nil, fmt.Errorf("custom job %s has no output directory", jobID)
	}

	return &ModelInfo{
		StorageURI:  job.OutputURIPrefix + "/model",
		BaseModelID: job.Labels[LabelBaseModelID],
	}, nil
}

// workerPoolSpec builds the single worker pool for a job config.
func workerPoolSpec(config *Config) (*aiplatformpb.WorkerPoolSpec, error) {
	accel, ok := aiplatformpb.AcceleratorType_value[config.AcceleratorType]
	if !ok {
		return nil, fmt.Errorf("unknown accelerator type %q", config.AcceleratorType)
	}

	env := make([]*aiplatformpb.EnvVar, 0, len(config.Env))
	for _, key := range slices.Sorted(maps.Keys(config.Env)) {
		env = append(env, &aiplatformpb.EnvVar{
			Name:  key,
			Value: config.Env[key],
		})
	}

	return &aiplatformpb.WorkerPoolSpec{
		Task: &aiplatformpb.WorkerPoolSpec_ContainerSpec{
			ContainerSpec: &aiplatformpb.ContainerSpec{
				ImageUri: config.ImageURI,
				Command:  config.Command,
				Args:     config.Args,
				Env:      env,
			},
		},
		MachineSpec: &aiplatformpb.MachineSpec{
			MachineType:      config.MachineType,
			AcceleratorType:  aiplatformpb.AcceleratorType(accel),
			AcceleratorCount: int32(config.AcceleratorCount),
		},
		ReplicaCount: int64(config.ReplicaCount),
	}, nil
}
