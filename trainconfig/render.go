// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

package trainconfig

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"maps"
	"os"
	"path/filepath"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/tiendc/go-deepcopy"
	"gopkg.in/yaml.v3"

	"github.com/go-tune/tunekit/internal/xmaps"
)

const (
	// loggerProvider is the experiment tracker wired into every run.
	loggerProvider = "wandb"

	// numCheckpointsToKeep bounds checkpoint retention on the trainer side.
	numCheckpointsToKeep = 10

	// filenamePrefix starts every rendered config file name.
	filenamePrefix = "model_config_tunekit_"
)

// Params carries the inputs for a single rendered training config.
type Params struct {
	// Model is the base model identifier to fine-tune.
	Model string

	// TrainPath is the storage location of the training split.
	TrainPath string

	// ValidPath is the storage location of the validation split. Leave
	// empty when no validation data was submitted.
	ValidPath string

	// UseLoRA selects the low-rank adapter recipe instead of full
	// parameter training when no BaseConfigPath is given.
	UseLoRA bool

	// BaseConfigPath optionally points at a YAML file to use as the
	// base config instead of the built-in templates.
	BaseConfigPath string

	// Hyperparameters overlays caller-tuned fields on the base config.
	Hyperparameters map[string]any

	// OutputDir, when set, is passed through to the trainer as the
	// checkpoint output location.
	OutputDir string

	// Dir is the directory the rendered file is written to. Defaults
	// to the current working directory.
	Dir string
}

// Rendered describes a training config written to disk.
type Rendered struct {
	// Path is the location of the written YAML file.
	Path string

	// Filename is the base name of the file, content-addressed from
	// the final config.
	Filename string

	// Config is the final merged mapping.
	Config map[string]any
}

// Renderer produces training config files for job submission.
type Renderer struct {
	logger *slog.Logger
}

// RendererOption configures a [Renderer].
type RendererOption func(*Renderer)

// WithLogger sets a custom logger for the renderer.
func WithLogger(logger *slog.Logger) RendererOption {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// NewRenderer returns a renderer with the given options applied.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render merges the base config for params.Model with the caller's
// hyperparameters and the per-run fields, writes the result to a
// content-addressed YAML file, and returns it.
//
// Merge order is base config, then hyperparameters, then the per-run
// fields, so the model identifier, data paths, logger and checkpoint
// retention always win. Top-level nil values are dropped from the final
// mapping before it is written.
func (r *Renderer) Render(ctx context.Context, params *Params) (*Rendered, error) {
	if params.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if params.TrainPath == "" {
		return nil, fmt.Errorf("train path is required")
	}

	config, err := r.baseConfig(ctx, params)
	if err != nil {
		return nil, err
	}

	if len(params.Hyperparameters) > 0 {
		var hp map[string]any
		if err := deepcopy.Copy(&hp, params.Hyperparameters); err != nil {
			return nil, fmt.Errorf("failed to copy hyperparameters: %w", err)
		}
		maps.Copy(config, hp)
	}

	config["model_id"] = params.Model
	config["train_path"] = params.TrainPath
	if params.ValidPath != "" {
		config["valid_path"] = params.ValidPath
	} else {
		config["valid_path"] = nil
	}
	config["logger"] = map[string]any{
		"provider": loggerProvider,
	}
	config["num_checkpoints_to_keep"] = numCheckpointsToKeep
	if params.OutputDir != "" {
		config["output_dir"] = params.OutputDir
	}

	xmaps.DropNil(config)

	digest, err := hashConfig(config)
	if err != nil {
		return nil, err
	}
	filename := fmt.Sprintf("%s%d.yaml", filenamePrefix, digest)

	data, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal training config: %w", err)
	}

	dir := params.Dir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write training config: %w", err)
	}

	r.logger.InfoContext(ctx, "Rendered training config",
		slog.String("path", path),
		slog.String("model_id", params.Model),
	)

	return &Rendered{
		Path:     path,
		Filename: filename,
		Config:   config,
	}, nil
}

// baseConfig loads the starting mapping, either from the caller-provided
// YAML file or from the built-in template for the model family.
func (r *Renderer) baseConfig(ctx context.Context, params *Params) (map[string]any, error) {
	if params.BaseConfigPath != "" {
		data, err := os.ReadFile(params.BaseConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read base config: %w", err)
		}
		var config map[string]any
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse base config %s: %w", params.BaseConfigPath, err)
		}
		return config, nil
	}

	variant := VariantFullParam
	if params.UseLoRA {
		variant = VariantLoRA
	}
	name, err := TemplateName(params.Model)
	if err != nil {
		return nil, err
	}
	r.logger.InfoContext(ctx, "Using built-in config template",
		slog.String("template", name),
		slog.String("variant", string(variant)),
	)

	var config map[string]any
	if err := yaml.Unmarshal([]byte(templates[variant][name]), &config); err != nil {
		return nil, fmt.Errorf("failed to parse built-in template %s: %w", name, err)
	}
	return config, nil
}

// hashConfig returns a stable digest of config.
//
// The mapping is serialized to JSON and canonicalized per RFC 8785 before
// hashing, so object keys are sorted while array order stays significant.
// Equal logical configs digest identically across processes.
func hashConfig(config map[string]any) (uint64, error) {
	data, err := json.Marshal(config)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config for hashing: %w", err)
	}
	value := jsontext.Value(data)
	if err := value.Canonicalize(); err != nil {
		return 0, fmt.Errorf("failed to canonicalize config: %w", err)
	}
	h := fnv.New64a()
	h.Write(value)
	return h.Sum64(), nil
}
