// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

package dataset

import (
	"github.com/go-tune/tunekit/types"
)

// ContextLength is the provider context limit, in tokens, that the length
// check warns against. Examples longer than this may be truncated during
// fine-tuning.
const ContextLength = 4096

// Approximation constants for the per-message formatting overhead of chat
// style prompts.
const (
	tokensPerMessage = 3
	tokensPerName    = 1
	tokensPerReply   = 3
)

// LengthStats summarizes the approximate token length of each record.
type LengthStats struct {
	// Min and Max are the shortest and longest example lengths.
	Min, Max int

	// Mean is the average example length.
	Mean float64

	// OverLimit counts examples exceeding [ContextLength].
	OverLimit int

	// Lengths holds the per-example counts, in record order.
	Lengths []int
}

// Lengths approximates the token length of every record.
//
// Counting uses a bytes-per-token heuristic rather than a tokenizer, so the
// result is informational: it feeds the oversize warning, never a validation
// failure.
func Lengths(records []types.Record) *LengthStats {
	stats := &LengthStats{Lengths: make([]int, 0, len(records))}

	total := 0
	for i, rec := range records {
		n := approxTokens(chatMessages(rec))
		stats.Lengths = append(stats.Lengths, n)
		total += n

		if i == 0 || n < stats.Min {
			stats.Min = n
		}
		if n > stats.Max {
			stats.Max = n
		}
		if n > ContextLength {
			stats.OverLimit++
		}
	}
	if len(stats.Lengths) > 0 {
		stats.Mean = float64(total) / float64(len(stats.Lengths))
	}

	return stats
}

// approxTokens estimates the token count of one message list: a fixed
// per-message overhead plus roughly four bytes of content per token.
func approxTokens(messages []map[string]any) int {
	n := tokensPerReply
	for _, msg := range messages {
		if msg == nil {
			continue
		}
		n += tokensPerMessage
		if content, ok := msg["content"].(string); ok {
			n += (len(content) + 3) / 4
		}
		if name, ok := msg["name"].(string); ok {
			n += tokensPerName + (len(name)+3)/4
		}
	}
	return n
}
