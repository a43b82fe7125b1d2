// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

package xmaps

import (
	"cmp"
	"maps"
	"slices"
)

// Contains reports whether key is present in m.
func Contains[Map ~map[K]V, K cmp.Ordered, V any](m Map, key K) bool {
	return slices.Contains(slices.Sorted(maps.Keys(m)), key)
}

// DropNil removes top-level keys whose value is nil from m in place.
func DropNil[Map ~map[K]any, K cmp.Ordered](m Map) {
	maps.DeleteFunc(m, func(_ K, v any) bool {
		return v == nil
	})
}
