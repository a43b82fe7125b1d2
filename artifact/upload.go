// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/go-tune/tunekit/dataset"
)

// EnvArtifactStorage names the environment variable holding the remote
// storage root for submitted datasets.
const EnvArtifactStorage = "TUNEKIT_ARTIFACT_STORAGE"

// StorageRootFromEnv returns the artifact storage root from the environment.
func StorageRootFromEnv() (string, error) {
	root := os.Getenv(EnvArtifactStorage)
	if root == "" {
		return "", fmt.Errorf("%s is not set", EnvArtifactStorage)
	}
	return root, nil
}

// Uploader submits dataset files under a storage root.
//
// Cloud destinations shell out to the matching provider CLI, so uploads
// authenticate with whatever the ambient `aws` or `gcloud` setup provides.
// Any other root is treated as a local directory.
type Uploader struct {
	storageRoot string
	logger      *slog.Logger
}

// NewUploader creates an [Uploader] writing under storageRoot.
func NewUploader(storageRoot string, opts ...Option) (*Uploader, error) {
	if storageRoot == "" {
		return nil, fmt.Errorf("storageRoot is required")
	}
	o := newOptions(slog.Default(), opts...)

	return &Uploader{
		storageRoot: storageRoot,
		logger:      o.logger,
	}, nil
}

// UploadSplits submits the training split and, when given, the validation
// split. It returns the destination of each; remoteValid is empty when no
// validation split was provided.
func (u *Uploader) UploadSplits(ctx context.Context, trainPath, validPath string) (remoteTrain, remoteValid string, err error) {
	remoteTrain, err = u.uploadSplit(ctx, "train", trainPath)
	if err != nil {
		return "", "", err
	}
	if validPath == "" {
		return remoteTrain, "", nil
	}
	remoteValid, err = u.uploadSplit(ctx, "val", validPath)
	if err != nil {
		return "", "", err
	}
	return remoteTrain, remoteValid, nil
}

func (u *Uploader) uploadSplit(ctx context.Context, split, path string) (string, error) {
	records, err := dataset.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s dataset: %w", split, err)
	}
	u.logger.InfoContext(ctx, "Submitting dataset",
		slog.String("split", split),
		slog.Int("items", len(records)),
	)
	remote, err := u.Upload(ctx, path)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s dataset: %w", split, err)
	}
	return remote, nil
}

// Upload copies localPath under the storage root and returns the
// destination path.
func (u *Uploader) Upload(ctx context.Context, localPath string) (string, error) {
	remote := u.remotePath(localPath)
	switch {
	case strings.HasPrefix(remote, "s3"):
		if err := runCLI(ctx, "aws", "s3", "cp", localPath, remote); err != nil {
			return "", err
		}
	case strings.HasPrefix(remote, "gs"):
		if err := runCLI(ctx, "gcloud", "storage", "cp", localPath, remote); err != nil {
			return "", err
		}
	default:
		if err := copyLocal(localPath, remote); err != nil {
			return "", err
		}
	}
	return remote, nil
}

// remotePath joins the storage root with the base name of localPath.
func (u *Uploader) remotePath(localPath string) string {
	return u.storageRoot + "/" + filepath.Base(localPath)
}

// runCLI invokes a storage provider CLI and surfaces its output on failure.
func runCLI(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}

// copyLocal copies src to dst on the local filesystem, creating parent
// directories as needed.
func copyLocal(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create destination directory: %w", err)
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	return out.Close()
}
