// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

// Package pool provides strongly-typed object pooling built on [sync.Pool].
//
// The generic [Pool] keeps hot-path allocations off the garbage collector
// while preserving compile-time type safety. [Buffer] is the predefined
// [*bytes.Buffer] pool used by the JSONL codec. A pooled buffer carries
// whatever the previous user left in it, so Reset after Get:
//
//	buf := pool.Buffer.Get()
//	buf.Reset()
//	defer pool.Buffer.Put(buf)
package pool
