// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

package serving

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ModelConfigPath returns the model config file referenced by the serve
// config at serveConfigPath.
//
// The serve config follows the Ray Serve layout: the first application's
// args carry an llm_configs list whose first entry is the model config
// path. Relative entries resolve against the serve config's directory,
// matching how the serve runtime loads them.
func ModelConfigPath(serveConfigPath string) (string, error) {
	data, err := os.ReadFile(serveConfigPath)
	if err != nil {
		return "", fmt.Errorf("failed to read serve config: %w", err)
	}
	var serveConfig map[string]any
	if err := yaml.Unmarshal(data, &serveConfig); err != nil {
		return "", fmt.Errorf("failed to parse serve config %s: %w", serveConfigPath, err)
	}

	path, err := modelConfigLocation(serveConfig)
	if err != nil {
		return "", fmt.Errorf("serve config %s: %w", serveConfigPath, err)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(serveConfigPath), path)
	}
	return path, nil
}

// PatchDynamicWeights points the model config referenced by the serve
// config at dynamicPath.
//
// The referenced model config gains, or updates, the nested
// lora_config.dynamic_lora_loading_path field and is written back in
// place. Serving picks up relocated adapter weights from that path.
func PatchDynamicWeights(serveConfigPath, dynamicPath string) error {
	modelConfigPath, err := ModelConfigPath(serveConfigPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(modelConfigPath)
	if err != nil {
		return fmt.Errorf("failed to read model config: %w", err)
	}
	var modelConfig map[string]any
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return fmt.Errorf("failed to parse model config %s: %w", modelConfigPath, err)
	}

	loraConfig, ok := modelConfig["lora_config"].(map[string]any)
	if !ok {
		loraConfig = make(map[string]any)
		modelConfig["lora_config"] = loraConfig
	}
	loraConfig["dynamic_lora_loading_path"] = dynamicPath

	out, err := yaml.Marshal(modelConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal model config: %w", err)
	}
	if err := os.WriteFile(modelConfigPath, out, 0o644); err != nil {
		return fmt.Errorf("failed to write model config: %w", err)
	}
	return nil
}

// modelConfigLocation digs the model config path out of a parsed serve
// config, naming the first missing element on failure.
func modelConfigLocation(serveConfig map[string]any) (string, error) {
	apps, ok := serveConfig["applications"].([]any)
	if !ok || len(apps) == 0 {
		return "", fmt.Errorf("no applications list")
	}
	app, ok := apps[0].(map[string]any)
	if !ok {
		return "", fmt.Errorf("first application is not a mapping")
	}
	args, ok := app["args"].(map[string]any)
	if !ok {
		return "", fmt.Errorf("first application has no args mapping")
	}
	llmConfigs, ok := args["llm_configs"].([]any)
	if !ok || len(llmConfigs) == 0 {
		return "", fmt.Errorf("args has no llm_configs list")
	}
	path, ok := llmConfigs[0].(string)
	if !ok || path == "" {
		return "", fmt.Errorf("first llm_configs entry is not a path")
	}
	return path, nil
}
