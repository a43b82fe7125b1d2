// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

package customjob

import (
	"strings"

	"cloud.google.com/go/aiplatform/apiv1beta1/aiplatformpb"

	"github.com/go-tune/tunekit/types"
)

// LabelBaseModelID is the job label recording which base model a job tunes.
const LabelBaseModelID = "base_model_id"

// maxLabelLength is the Vertex AI limit on label value length.
const maxLabelLength = 63

// gcsFuseRoot is where Vertex AI mounts Cloud Storage inside custom job
// containers.
const gcsFuseRoot = "/gcs/"

// Job is a provider-neutral view of a Vertex AI custom job.
type Job struct {
	// ID is the fully qualified resource name of the job.
	ID string

	// DisplayName is the job name shown in the console.
	DisplayName string

	// State is the current lifecycle state.
	State types.JobState

	// Error holds the failure message of a failed job.
	Error string

	// OutputURIPrefix is the storage prefix the job writes output under.
	OutputURIPrefix string

	// Labels are the job labels.
	Labels map[string]string
}

// ModelInfo describes where a finished job left its tuned model.
type ModelInfo struct {
	// StorageURI points at the model output of the job.
	StorageURI string

	// BaseModelID is the base model label recorded at submission.
	BaseModelID string
}

// StateOf maps a Vertex AI job state onto the provider-neutral one.
func StateOf(state aiplatformpb.JobState) types.JobState {
	switch state {
	case aiplatformpb.JobState_JOB_STATE_QUEUED:
		return types.JobStateQueued
	case aiplatformpb.JobState_JOB_STATE_PENDING:
		return types.JobStatePending
	case aiplatformpb.JobState_JOB_STATE_RUNNING:
		return types.JobStateRunning
	case aiplatformpb.JobState_JOB_STATE_SUCCEEDED:
		return types.JobStateSucceeded
	case aiplatformpb.JobState_JOB_STATE_FAILED:
		return types.JobStateFailed
	case aiplatformpb.JobState_JOB_STATE_CANCELLING:
		return types.JobStateCancelling
	case aiplatformpb.JobState_JOB_STATE_CANCELLED:
		return types.JobStateCancelled
	case aiplatformpb.JobState_JOB_STATE_PAUSED:
		return types.JobStatePaused
	case aiplatformpb.JobState_JOB_STATE_EXPIRED:
		return types.JobStateExpired
	default:
		return types.JobStateUnspecified
	}
}

// ContainerPath converts a gs:// URI into the path the object is visible
// at inside a custom job container, through the Cloud Storage FUSE mount.
// Anything else is returned unchanged.
func ContainerPath(storageURI string) string {
	if rest, ok := strings.CutPrefix(storageURI, "gs://"); ok {
		return gcsFuseRoot + rest
	}
	return storageURI
}

// SanitizeLabelValue converts s into a valid Vertex AI label value:
// lowercase letters, digits, dashes and underscores, at most 63 characters.
// Model identifiers with org prefixes contain slashes, which labels do not
// allow.
func SanitizeLabelValue(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	out := b.String()
	if len(out) > maxLabelLength {
		out = out[:maxLabelLength]
	}
	return out
}
