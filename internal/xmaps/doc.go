// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

// Package xmaps provides small map helpers that complement the standard
// maps package.
//
// [Contains] reports key membership for any map with ordered keys, which
// keeps generic validation code free of two-value index expressions.
// [DropNil] strips top-level nil values in place, used to drop optional
// fields from rendered configs before they are serialized.
package xmaps
