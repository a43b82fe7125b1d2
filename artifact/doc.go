// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

// Package artifact moves fine-tuning data and adapter weights between the
// local filesystem and remote object storage.
//
// The package has two halves. [Uploader] submits prepared dataset and
// training config files under a storage root, shelling out to the `aws` or
// `gcloud` CLI for cloud destinations and copying directly for local ones.
// [Relocator]
// runs after training: it copies the per-epoch adapter checkpoints a job
// produced into the dynamic loading layout that serving configs point at,
// and reports the serveable model names that result.
package artifact
