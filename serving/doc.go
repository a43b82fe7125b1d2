// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

// Package serving wires freshly tuned adapter weights into Ray Serve
// deployment configs.
//
// A serve config references one or more model config YAML files. After a
// fine-tuning run relocates its adapter weights, the referenced model
// config is patched to load adapters dynamically from the new storage
// path, so a running deployment can pick up the tuned model without a
// config rewrite.
package serving
