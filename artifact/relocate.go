// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"cloud.google.com/go/auth/credentials"
	"cloud.google.com/go/storage"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/go-tune/tunekit/pkg/logging"
)

// loraPathPrefix anchors relocated adapter weights inside the bucket.
const loraPathPrefix = "tunekit/lora_weights"

// Relocation describes adapter weights copied into the serving layout.
type Relocation struct {
	// ModelNames lists the serveable model identifiers, one per epoch
	// checkpoint, in epoch order.
	ModelNames []string

	// DynamicPath is the storage URI that serving configs load adapter
	// weights from.
	DynamicPath string
}

// Relocator copies trained adapter weights into the well-known layout
// that serving configs resolve at load time.
type Relocator struct {
	client *storage.Client
	logger *slog.Logger
}

// NewRelocator creates a [Relocator] using application default credentials.
func NewRelocator(ctx context.Context, opts ...Option) (*Relocator, error) {
	o := newOptions(logging.FromContext(ctx), opts...)

	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		Scopes: []string{
			storage.ScopeFullControl,
			storage.ScopeReadWrite,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get credentials for storage: %w", err)
	}

	client, err := storage.NewGRPCClient(ctx, option.WithAuthCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &Relocator{
		client: client,
		logger: o.logger,
	}, nil
}

// Relocate copies every epoch checkpoint found under storageURI into the
// dynamic adapter layout for jobID and returns the serveable model names
// together with the destination URI.
//
// The listing prefix is the parent of the URI's final path segment, which
// is where the trainer writes its per-epoch subfolders.
func (r *Relocator) Relocate(ctx context.Context, storageURI, jobID, baseModelID string) (*Relocation, error) {
	bucketName, sourceFolder, err := parseStorageURI(storageURI)
	if err != nil {
		return nil, err
	}
	bucket := r.client.Bucket(bucketName)

	subfolders, err := r.checkpointFolders(ctx, bucket, sourceFolder)
	if err != nil {
		return nil, err
	}

	loraPath := fmt.Sprintf("%s/%s/%s", loraPathPrefix, jobID, baseModelID)
	steps := epochSteps(subfolders, loraPath)
	if len(steps) == 0 {
		return nil, fmt.Errorf("no epoch checkpoints found under gs://%s/%s", bucketName, sourceFolder)
	}

	modelNames := make([]string, len(steps))
	eg, gctx := errgroup.WithContext(ctx)
	for i, step := range steps {
		modelNames[i] = modelName(step.destination)
		eg.Go(func() error {
			return r.copyFolder(gctx, bucket, step.source, step.destination)
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &Relocation{
		ModelNames:  modelNames,
		DynamicPath: fmt.Sprintf("gs://%s/%s", bucketName, loraPath),
	}, nil
}

// Close releases the underlying storage client.
func (r *Relocator) Close() error {
	return r.client.Close()
}

// checkpointFolders lists the distinct folders holding objects below
// sourceFolder, sorted for deterministic epoch ordering.
func (r *Relocator) checkpointFolders(ctx context.Context, bucket *storage.BucketHandle, sourceFolder string) ([]string, error) {
	seen := make(map[string]struct{})
	it := bucket.Objects(ctx, &storage.Query{
		Prefix: sourceFolder,
	})
	for {
		objAttrs, err := it.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return nil, fmt.Errorf("list objects under %s: %w", sourceFolder, err)
		}

		if !strings.Contains(objAttrs.Name[len(sourceFolder):], "/") {
			continue
		}
		folder := objAttrs.Name[:strings.LastIndex(objAttrs.Name, "/")]
		seen[folder] = struct{}{}
	}

	return slices.Sorted(maps.Keys(seen)), nil
}

// copyFolder copies every object under the subfolder prefix into the
// destination folder, flattening object names to their base name.
func (r *Relocator) copyFolder(ctx context.Context, bucket *storage.BucketHandle, subfolder, destination string) error {
	it := bucket.Objects(ctx, &storage.Query{
		Prefix: subfolder,
	})
	for {
		objAttrs, err := it.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return fmt.Errorf("list objects under %s: %w", subfolder, err)
		}

		fileName := objAttrs.Name[strings.LastIndex(objAttrs.Name, "/")+1:]
		dst := bucket.Object(destination + "/" + fileName)
		if _, err := dst.CopierFrom(bucket.Object(objAttrs.Name)).Run(ctx); err != nil {
			return fmt.Errorf("copy %s: %w", objAttrs.Name, err)
		}
	}

	r.logger.InfoContext(ctx, "Copied adapter weights",
		slog.String("source", subfolder),
		slog.String("destination", destination),
	)
	return nil
}

// copyStep pairs a checkpoint folder with its destination folder.
type copyStep struct {
	source      string
	destination string
}

// epochSteps selects the epoch checkpoint folders and pairs each with its
// destination under loraPath, preserving the input order.
func epochSteps(subfolders []string, loraPath string) []copyStep {
	var steps []copyStep
	for _, subfolder := range subfolders {
		epoch := subfolder[strings.LastIndex(subfolder, "/")+1:]
		if !strings.HasPrefix(epoch, "epoch") {
			continue
		}
		steps = append(steps, copyStep{
			source:      subfolder,
			destination: loraPath + ":" + epoch,
		})
	}
	return steps
}

// parseStorageURI splits a gs:// URI into its bucket and the parent
// folder of the final path segment.
func parseStorageURI(storageURI string) (bucket, sourceFolder string, err error) {
	rest, ok := strings.CutPrefix(storageURI, "gs://")
	if !ok {
		return "", "", fmt.Errorf("storage uri %q is not a gs:// location", storageURI)
	}
	parts := strings.Split(rest, "/")
	if len(parts) < 2 || parts[0] == "" {
		return "", "", fmt.Errorf("unexpected storage uri %q", storageURI)
	}
	return parts[0], strings.Join(parts[1:len(parts)-1], "/"), nil
}

// modelName derives the serveable model identifier from a destination
// folder: the last two path segments joined back together.
func modelName(destination string) string {
	parts := strings.Split(destination, "/")
	if len(parts) < 2 {
		return destination
	}
	return strings.Join(parts[len(parts)-2:], "/")
}
