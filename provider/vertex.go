// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

package provider

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/go-tune/tunekit/artifact"
	"github.com/go-tune/tunekit/dataset"
	"github.com/go-tune/tunekit/internal/vertexai/customjob"
	"github.com/go-tune/tunekit/pkg/logging"
	"github.com/go-tune/tunekit/serving"
	"github.com/go-tune/tunekit/trainconfig"
	"github.com/go-tune/tunekit/types"
)

// VertexProvider fine-tunes models with containerized llmforge runs on
// Vertex AI custom jobs.
type VertexProvider struct {
	projectID string
	location  string

	jobs     *customjob.Service
	renderer *trainconfig.Renderer
	logger   *slog.Logger

	waitTimeout time.Duration
}

var _ Provider = (*VertexProvider)(nil)

// VertexOption is a functional option for configuring the provider.
type VertexOption func(*VertexProvider)

// WithLogger sets a custom logger for the provider.
func WithLogger(logger *slog.Logger) VertexOption {
	return func(p *VertexProvider) {
		p.logger = logger
	}
}

// WithWaitTimeout bounds how long a fine-tuning run waits for the remote
// job before giving up.
func WithWaitTimeout(timeout time.Duration) VertexOption {
	return func(p *VertexProvider) {
		p.waitTimeout = timeout
	}
}

// NewVertexProvider creates a provider for the given project and location.
// It uses Application Default Credentials for authentication.
func NewVertexProvider(ctx context.Context, projectID, location string, opts ...VertexOption) (*VertexProvider, error) {
	p := &VertexProvider{
		projectID:   projectID,
		location:    location,
		logger:      logging.FromContext(ctx),
		waitTimeout: customjob.DefaultWaitTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}

	jobs, err := customjob.NewService(ctx, projectID, location, customjob.WithLogger(p.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create custom job service: %w", err)
	}
	p.jobs = jobs
	p.renderer = trainconfig.NewRenderer(trainconfig.WithLogger(p.logger))

	return p, nil
}

// Close releases the provider's platform clients.
func (p *VertexProvider) Close() error {
	return p.jobs.Close()
}

// Name implements [Provider].
func (p *VertexProvider) Name() string {
	return "vertex"
}

// SupportedMethods implements [Provider].
func (p *VertexProvider) SupportedMethods() []types.TrainingMethod {
	return []types.TrainingMethod{types.MethodSFT}
}

// Finetune implements [Provider].
//
// The run is strictly sequential: validate, save and upload the data,
// render and stage the training config, submit the custom job, wait,
// relocate the adapter weights, and patch the serving config. Failures at
// any step are logged and returned unchanged.
func (p *VertexProvider) Finetune(ctx context.Context, job *types.FinetuneJob) (string, error) {
	modelName, err := p.finetune(ctx, job)
	if err != nil {
		p.logger.ErrorContext(ctx, "Fine-tuning run failed",
			slog.String("error", err.Error()),
		)
		return "", err
	}
	return modelName, nil
}

func (p *VertexProvider) finetune(ctx context.Context, job *types.FinetuneJob) (string, error) {
	if job == nil {
		return "", fmt.Errorf("job is required")
	}
	if job.Model == "" {
		return "", fmt.Errorf("job model is required")
	}
	if job.Options == nil {
		job.Options = &types.TrainOptions{}
	}
	opts := job.Options.WithDefaults()

	p.logger.InfoContext(ctx, "Starting fine-tuning run",
		slog.String("provider", p.Name()),
		slog.String("model", job.Model),
	)

	if !slices.Contains(p.SupportedMethods(), opts.Method) {
		return "", types.NotImplementedError(
			fmt.Sprintf("training method %q is not supported on %s", opts.Method, p.Name()),
		)
	}
	if _, ok := opts.Hyperparameters["model_id"]; ok {
		return "", fmt.Errorf("hyperparameters must not set model_id, the job model is used")
	}

	p.logger.InfoContext(ctx, "Validating training data format")
	if report := dataset.Validate(job.TrainData); !report.Valid() {
		err := report.Err()
		p.logger.ErrorContext(ctx, "Training data failed validation",
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("unable to accept the training data: %w", err)
	}
	if stats := dataset.Lengths(job.TrainData); stats.OverLimit > 0 {
		p.logger.WarnContext(ctx, "Examples exceed the trainer context window and may be truncated",
			slog.Int("over_limit", stats.OverLimit),
			slog.Int("max_tokens", stats.Max),
		)
	}

	p.logger.InfoContext(ctx, "Saving training data")
	trainPath, err := dataset.Save(job.TrainData, p.Name())
	if err != nil {
		return "", fmt.Errorf("failed to save training data: %w", err)
	}
	validPath := ""
	if len(opts.ValidationData) > 0 {
		validPath, err = dataset.Save(opts.ValidationData, p.Name())
		if err != nil {
			return "", fmt.Errorf("failed to save validation data: %w", err)
		}
	}

	p.logger.InfoContext(ctx, "Submitting data to remote storage")
	storageRoot, err := artifact.StorageRootFromEnv()
	if err != nil {
		return "", err
	}
	uploader, err := artifact.NewUploader(storageRoot, artifact.WithLogger(p.logger))
	if err != nil {
		return "", err
	}
	remoteTrain, remoteValid, err := uploader.UploadSplits(ctx, trainPath, validPath)
	if err != nil {
		return "", err
	}

	p.logger.InfoContext(ctx, "Rendering training config")
	rendered, err := p.renderer.Render(ctx, &trainconfig.Params{
		Model:           job.Model,
		TrainPath:       remoteTrain,
		ValidPath:       remoteValid,
		UseLoRA:         opts.UseLoRA,
		BaseConfigPath:  opts.TrainConfigPath,
		Hyperparameters: opts.Hyperparameters,
		OutputDir:       opts.OutputDir,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render training config: %w", err)
	}

	p.logger.InfoContext(ctx, "Staging training config",
		slog.String("config", rendered.Filename),
	)
	remoteConfig, err := uploader.Upload(ctx, rendered.Path)
	if err != nil {
		return "", fmt.Errorf("failed to stage training config: %w", err)
	}

	p.logger.InfoContext(ctx, "Starting remote training")
	config := customjob.NewConfig(customjob.ContainerPath(remoteConfig))
	config.ApplyOverrides(opts.Compute)
	if config.OutputURIPrefix == "" {
		config.OutputURIPrefix = outputPrefixFor(storageRoot)
	}
	config.Labels = map[string]string{
		customjob.LabelBaseModelID: customjob.SanitizeLabelValue(job.Model),
	}
	jobID, err := p.jobs.Submit(ctx, config)
	if err != nil {
		return "", err
	}
	job.JobID = jobID

	p.logger.InfoContext(ctx, "Waiting for training to complete",
		slog.String("job_id", jobID),
	)
	if _, err := p.jobs.Wait(ctx, jobID, p.waitTimeout); err != nil {
		return "", err
	}

	p.logger.InfoContext(ctx, "Retrieving tuned model information")
	info, err := p.jobs.TunedModelInfo(ctx, jobID)
	if err != nil {
		return "", err
	}

	p.logger.InfoContext(ctx, "Relocating adapter weights for serving",
		slog.String("storage_uri", info.StorageURI),
		slog.String("base_model", info.BaseModelID),
	)
	relocator, err := artifact.NewRelocator(ctx, artifact.WithLogger(p.logger))
	if err != nil {
		return "", err
	}
	defer relocator.Close()

	relocation, err := relocator.Relocate(ctx, info.StorageURI, jobNumber(jobID), job.Model)
	if err != nil {
		return "", err
	}
	job.ModelNames = relocation.ModelNames
	last := relocation.ModelNames[len(relocation.ModelNames)-1]

	p.logger.InfoContext(ctx, "Updating serving model config",
		slog.String("serve_config", opts.ServeConfigPath),
		slog.String("dynamic_path", relocation.DynamicPath),
	)
	if err := serving.PatchDynamicWeights(opts.ServeConfigPath, relocation.DynamicPath); err != nil {
		return "", err
	}

	p.logger.InfoContext(ctx, "Fine-tuning run complete",
		slog.String("model_name", last),
	)
	return last, nil
}

// IsVertexTunedModel reports whether modelName was produced by a Vertex
// fine-tuning run. Detection is not implemented yet and always reports
// false.
func (p *VertexProvider) IsVertexTunedModel(ctx context.Context, modelName string) bool {
	p.logger.InfoContext(ctx, "Tuned model detection is not implemented, returning false",
		slog.String("model", modelName),
	)
	return false
}

// LaunchModel implements [Provider].
func (p *VertexProvider) LaunchModel(ctx context.Context, modelName string) error {
	return types.NotImplementedError("launching tuned models is not supported yet")
}

// KillModel implements [Provider].
func (p *VertexProvider) KillModel(ctx context.Context, modelName string) error {
	return types.NotImplementedError("killing tuned model deployments is not supported yet")
}

// jobNumber returns the trailing segment of a job resource name. Storage
// paths key off it instead of the slash-separated resource name.
func jobNumber(jobID string) string {
	if i := strings.LastIndex(jobID, "/"); i >= 0 {
		return jobID[i+1:]
	}
	return jobID
}

// outputPrefixFor returns a fresh per-run base output directory under the
// storage root. Only gs:// roots are addressable by Vertex AI jobs, so any
// other root yields an empty prefix.
func outputPrefixFor(storageRoot string) string {
	if !strings.HasPrefix(storageRoot, "gs://") {
		return ""
	}
	return storageRoot + "/runs/" + uuid.NewString()
}
