// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

package trainconfig

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
)

// Variant selects between the low-rank adapter and full parameter recipes.
type Variant string

const (
	VariantLoRA      Variant = "lora"
	VariantFullParam Variant = "full_param"
)

// TemplateName picks the built-in template file for a model name.
//
// Family matching is case-insensitive; size matching follows the raw model
// string. Mid-size llama models run the large recipe.
func TemplateName(model string) (string, error) {
	lower := strings.ToLower(model)
	switch {
	case strings.Contains(lower, "llama"):
		switch {
		case strings.Contains(model, "70b"):
			return "llama-3-70b.yaml", nil
		case strings.Contains(model, "13b"):
			return "llama-3-70b.yaml", nil
		default:
			return "llama-3-8b.yaml", nil
		}
	case strings.Contains(lower, "mixtral"):
		return "mixtral-8x7b.yaml", nil
	case strings.Contains(lower, "mistral"):
		return "mistral-7b.yaml", nil
	default:
		return "", fmt.Errorf("no default config template for model %q", model)
	}
}

// templates holds the built-in base configs, keyed by variant and template
// file name. The renderer overlays hyperparameters and the run specific
// fields on top of these.
var templates = map[Variant]map[string]string{
	VariantLoRA: {
		"llama-3-8b.yaml":   llamaLoRA8B,
		"llama-3-70b.yaml":  llamaLoRA70B,
		"mistral-7b.yaml":   mistralLoRA7B,
		"mixtral-8x7b.yaml": mixtralLoRA8x7B,
	},
	VariantFullParam: {
		"llama-3-8b.yaml":   llamaFull8B,
		"llama-3-70b.yaml":  llamaFull70B,
		"mistral-7b.yaml":   mistralFull7B,
		"mixtral-8x7b.yaml": mixtralFull8x7B,
	},
}

var llamaLoRA8B = heredoc.Doc(`
	context_length: 512
	num_devices: 4
	num_epochs: 3
	train_batch_size_per_device: 16
	eval_batch_size_per_device: 16
	learning_rate: 1e-4
	padding: longest
	no_gradient_checkpoint: false
	flash_attention_2: true
	worker_resources:
	  accelerator_type:A10G: 0.001
	lora_config:
	  r: 8
	  lora_alpha: 16
	  lora_dropout: 0.05
	  target_modules:
	    - q_proj
	    - v_proj
	    - k_proj
	    - o_proj
	    - gate_proj
	    - up_proj
	    - down_proj
	    - embed_tokens
	    - lm_head
	  task_type: CAUSAL_LM
	  modules_to_save: []
	  bias: none
	  fan_in_fan_out: false
	  init_lora_weights: true
`)

var llamaLoRA70B = heredoc.Doc(`
	context_length: 4096
	num_devices: 32
	num_epochs: 3
	train_batch_size_per_device: 8
	eval_batch_size_per_device: 8
	learning_rate: 1e-4
	padding: longest
	no_gradient_checkpoint: false
	flash_attention_2: true
	worker_resources:
	  accelerator_type:A100-80G: 0.001
	lora_config:
	  r: 8
	  lora_alpha: 16
	  lora_dropout: 0.05
	  target_modules:
	    - q_proj
	    - v_proj
	    - k_proj
	    - o_proj
	    - gate_proj
	    - up_proj
	    - down_proj
	    - embed_tokens
	    - lm_head
	  task_type: CAUSAL_LM
	  modules_to_save: []
	  bias: none
	  fan_in_fan_out: false
	  init_lora_weights: true
`)

var mistralLoRA7B = heredoc.Doc(`
	context_length: 512
	num_devices: 4
	num_epochs: 3
	train_batch_size_per_device: 16
	eval_batch_size_per_device: 16
	learning_rate: 1e-4
	padding: longest
	no_gradient_checkpoint: false
	flash_attention_2: true
	worker_resources:
	  accelerator_type:A10G: 0.001
	lora_config:
	  r: 8
	  lora_alpha: 16
	  lora_dropout: 0.05
	  target_modules:
	    - q_proj
	    - v_proj
	    - k_proj
	    - o_proj
	    - gate_proj
	    - up_proj
	    - down_proj
	    - embed_tokens
	    - lm_head
	  task_type: CAUSAL_LM
	  modules_to_save: []
	  bias: none
	  fan_in_fan_out: false
	  init_lora_weights: true
`)

var mixtralLoRA8x7B = heredoc.Doc(`
	context_length: 4096
	num_devices: 16
	num_epochs: 3
	train_batch_size_per_device: 8
	eval_batch_size_per_device: 8
	learning_rate: 1e-4
	padding: longest
	no_gradient_checkpoint: false
	flash_attention_2: true
	worker_resources:
	  accelerator_type:A100-80G: 0.001
	lora_config:
	  r: 8
	  lora_alpha: 16
	  lora_dropout: 0.05
	  target_modules:
	    - q_proj
	    - v_proj
	    - k_proj
	    - o_proj
	    - w1
	    - w2
	    - w3
	    - embed_tokens
	    - lm_head
	  task_type: CAUSAL_LM
	  modules_to_save: []
	  bias: none
	  fan_in_fan_out: false
	  init_lora_weights: true
`)

var llamaFull8B = heredoc.Doc(`
	context_length: 512
	num_devices: 16
	num_epochs: 3
	train_batch_size_per_device: 8
	eval_batch_size_per_device: 8
	learning_rate: 5e-6
	padding: longest
	no_gradient_checkpoint: false
	flash_attention_2: true
	worker_resources:
	  accelerator_type:A10G: 0.001
	deepspeed:
	  config_path: deepspeed_configs/zero_3_offload_optim+param.json
`)

var llamaFull70B = heredoc.Doc(`
	context_length: 4096
	num_devices: 64
	num_epochs: 3
	train_batch_size_per_device: 4
	eval_batch_size_per_device: 4
	learning_rate: 5e-6
	padding: longest
	no_gradient_checkpoint: false
	flash_attention_2: true
	worker_resources:
	  accelerator_type:A100-80G: 0.001
	deepspeed:
	  config_path: deepspeed_configs/zero_3_offload_optim+param.json
`)

var mistralFull7B = heredoc.Doc(`
	context_length: 512
	num_devices: 16
	num_epochs: 3
	train_batch_size_per_device: 8
	eval_batch_size_per_device: 8
	learning_rate: 5e-6
	padding: longest
	no_gradient_checkpoint: false
	flash_attention_2: true
	worker_resources:
	  accelerator_type:A10G: 0.001
	deepspeed:
	  config_path: deepspeed_configs/zero_3_offload_optim+param.json
`)

var mixtralFull8x7B = heredoc.Doc(`
	context_length: 4096
	num_devices: 32
	num_epochs: 3
	train_batch_size_per_device: 4
	eval_batch_size_per_device: 4
	learning_rate: 5e-6
	padding: longest
	no_gradient_checkpoint: false
	flash_attention_2: true
	worker_resources:
	  accelerator_type:A100-80G: 0.001
	deepspeed:
	  config_path: deepspeed_configs/zero_3_offload_optim+param.json
`)
