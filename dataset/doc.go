// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

// Package dataset validates and serializes chat-format training data.
//
// Fine-tuning datasets are lists of [types.Record] values in the provider
// chat format. Before a run, [Validate] checks every record against the
// format rules and reports failures by class; [Lengths] approximates token
// counts so the caller can warn about examples that exceed the provider
// context limit. [Save] serializes a dataset to a uniquely named JSON Lines
// file ready for upload.
//
// # Validation
//
//	report := dataset.Validate(records)
//	if err := report.Err(); err != nil {
//		// err names each failure class with its count, e.g.
//		// "dataset validation failed: unrecognized_role: 2"
//	}
//
// Length checking is informational only: an overlong example is logged, not
// rejected, because the trainer truncates rather than fails.
//
// # Serialization
//
// Records round-trip through JSON Lines, one record per line:
//
//	path, err := dataset.Save(records, "vertex")
//	records, err = dataset.ReadFile(path)
package dataset
