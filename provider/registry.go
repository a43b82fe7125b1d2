// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

package provider

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
)

// init registers the built-in providers.
func init() {
	// The Vertex provider covers the model families it ships training
	// config templates for.
	RegisterProviderType(
		[]string{
			`(?i).*llama.*`,
			`(?i).*mistral.*`,
			`(?i).*mixtral.*`,
		},
		func(ctx context.Context, projectID, location string) (Provider, error) {
			return NewVertexProvider(ctx, projectID, location)
		},
	)
}

// CreatorFunc is a function type that creates a provider instance bound to
// a project and location.
type CreatorFunc func(ctx context.Context, projectID, location string) (Provider, error)

// registryEntry represents a registry entry with a regex pattern and
// provider creator function.
type registryEntry struct {
	pattern *regexp.Regexp
	creator CreatorFunc
}

// Registry resolves fine-tuning providers from model names.
// It allows registering and resolving provider implementations based on
// regex patterns over the base model identifier.
type Registry struct {
	mu        sync.RWMutex
	entries   []registryEntry
	cacheSize int
	cache     map[string]CreatorFunc
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// GetRegistry returns the singleton registry instance.
func GetRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry(32)
	})
	return defaultRegistry
}

// NewRegistry creates a new provider registry with the specified cache size.
func NewRegistry(cacheSize int) *Registry {
	return &Registry{
		entries:   make([]registryEntry, 0),
		cacheSize: cacheSize,
		cache:     make(map[string]CreatorFunc),
	}
}

// RegisterProvider registers a model pattern with a creator function.
// If the pattern already exists, it will be updated with the new creator.
func (r *Registry) RegisterProvider(modelPattern string, creator CreatorFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	regex, err := regexp.Compile(modelPattern)
	if err != nil {
		slog.Default().Error("Failed to compile provider pattern",
			slog.String("pattern", modelPattern),
			slog.String("error", err.Error()),
		)
		return
	}

	// Look for existing entry to update
	for i, entry := range r.entries {
		if entry.pattern.String() == modelPattern {
			r.entries[i].creator = creator
			return
		}
	}

	r.entries = append(r.entries, registryEntry{
		pattern: regex,
		creator: creator,
	})
}

// ResolveProvider finds the provider creator for the given model name.
// Uses regex pattern matching and caching for performance.
func (r *Registry) ResolveProvider(modelName string) (CreatorFunc, error) {
	r.mu.RLock()
	if creator, ok := r.cache[modelName]; ok {
		r.mu.RUnlock()
		return creator, nil
	}

	var matched CreatorFunc
	for _, entry := range r.entries {
		if entry.pattern.MatchString(modelName) {
			matched = entry.creator
			break
		}
	}
	r.mu.RUnlock()

	if matched == nil {
		return nil, fmt.Errorf("no fine-tuning provider for model %s", modelName)
	}

	r.mu.Lock()
	if len(r.cache) >= r.cacheSize {
		// Wholesale eviction when full
		r.cache = make(map[string]CreatorFunc)
	}
	r.cache[modelName] = matched
	r.mu.Unlock()

	return matched, nil
}

// NewProvider creates a provider for the given model name, bound to the
// given project and location.
func (r *Registry) NewProvider(ctx context.Context, projectID, location, modelName string) (Provider, error) {
	creator, err := r.ResolveProvider(modelName)
	if err != nil {
		return nil, err
	}

	return creator(ctx, projectID, location)
}

// RegisterProvider is a convenience function to register a model pattern
// on the singleton registry.
func RegisterProvider(modelPattern string, creator CreatorFunc) {
	GetRegistry().RegisterProvider(modelPattern, creator)
}

// RegisterProviderType registers multiple patterns for a single provider
// creator.
func RegisterProviderType(patterns []string, creator CreatorFunc) {
	registry := GetRegistry()
	for _, pattern := range patterns {
		registry.RegisterProvider(pattern, creator)
	}
}

// NewProvider is a convenience function to create a provider for a model
// from the singleton registry.
func NewProvider(ctx context.Context, projectID, location, modelName string) (Provider, error) {
	return GetRegistry().NewProvider(ctx, projectID, location, modelName)
}
