// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

package dataset

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/go-tune/tunekit/internal/pool"
	"github.com/go-tune/tunekit/types"
)

// maxLineBytes bounds a single JSONL line. Chat examples carrying long
// contexts can exceed the default scanner limit.
const maxLineBytes = 16 * 1024 * 1024

// WriteFile writes records to path in JSON Lines format, one record per line.
func WriteFile(path string, records []types.Record) error {
	buf := pool.Buffer.Get()
	buf.Reset()
	defer pool.Buffer.Put(buf)

	for _, rec := range records {
		line, err := sonic.ConfigFastest.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadFile reads a JSON Lines file into records. Blank lines are skipped.
func ReadFile(path string) ([]types.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var records []types.Record
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec types.Record
		if err := sonic.ConfigFastest.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parse line %d of %s: %w", lineNo, path, err)
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}

// Save writes records as JSONL into the local dataset directory and returns
// the file path. The filename embeds providerName and a fresh UUID so that
// repeated runs never collide.
func Save(records []types.Record, providerName string) (string, error) {
	dir := filepath.Join(os.TempDir(), "tunekit", "datasets")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create dataset directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.jsonl", providerName, uuid.NewString()))
	if err := WriteFile(path, records); err != nil {
		return "", err
	}
	return path, nil
}
