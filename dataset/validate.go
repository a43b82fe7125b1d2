// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

package dataset

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/go-tune/tunekit/internal/xmaps"
	"github.com/go-tune/tunekit/types"
)

// Failure classes reported by [Validate]. The names follow the chat
// fine-tuning format checks published for OpenAI-style datasets so that
// operators can correlate reports across tooling.
const (
	FailureEmptyDataset     = "empty_dataset"
	FailureMissingMessages  = "missing_messages_list"
	FailureMissingKey       = "message_missing_key"
	FailureUnrecognizedKey  = "message_unrecognized_key"
	FailureUnrecognizedRole = "unrecognized_role"
	FailureMissingContent   = "missing_content"
	FailureMissingAssistant = "example_missing_assistant_message"
)

// validRoles are the message roles accepted by the chat fine-tuning format.
var validRoles = []string{"system", "user", "assistant", "function"}

// validMessageKeys are the keys recognized inside a chat message.
var validMessageKeys = map[string]struct{}{
	"role":          {},
	"content":       {},
	"name":          {},
	"function_call": {},
	"weight":        {},
}

// Report aggregates dataset validation failures by class.
type Report struct {
	// Counts maps a failure class to the number of occurrences.
	Counts map[string]int

	// Examined is the number of records examined.
	Examined int
}

// add records one failure of the given class.
func (r *Report) add(class string) {
	if r.Counts == nil {
		r.Counts = make(map[string]int)
	}
	r.Counts[class]++
}

// Valid reports whether no failures were recorded.
func (r *Report) Valid() bool {
	return len(r.Counts) == 0
}

// Err returns an error summarizing the recorded failures, or nil when the
// dataset validated cleanly. Classes are listed in sorted order so the
// message is stable.
func (r *Report) Err() error {
	if r.Valid() {
		return nil
	}
	parts := make([]string, 0, len(r.Counts))
	for _, class := range slices.Sorted(maps.Keys(r.Counts)) {
		parts = append(parts, fmt.Sprintf("%s: %d", class, r.Counts[class]))
	}
	return fmt.Errorf("dataset validation failed: %s", strings.Join(parts, ", "))
}

// Validate checks records against the chat fine-tuning format.
//
// Every record must carry a non-empty "messages" list. Each message must use
// recognized keys only, name a recognized role, and carry string content;
// missing or empty content is tolerated only alongside a function call. At
// least one message per record must come from the assistant, since that is
// the completion the model trains on.
func Validate(records []types.Record) *Report {
	report := &Report{Examined: len(records)}
	if len(records) == 0 {
		report.add(FailureEmptyDataset)
		return report
	}

	for _, rec := range records {
		messages := chatMessages(rec)
		if len(messages) == 0 {
			report.add(FailureMissingMessages)
			continue
		}

		sawAssistant := false
		for _, msg := range messages {
			if msg == nil {
				report.add(FailureMissingKey)
				continue
			}

			if !xmaps.Contains(msg, "role") || !xmaps.Contains(msg, "content") {
				report.add(FailureMissingKey)
			}

			for key := range msg {
				if !xmaps.Contains(validMessageKeys, key) {
					report.add(FailureUnrecognizedKey)
					break
				}
			}

			role, _ := msg["role"].(string)
			if !slices.Contains(validRoles, role) {
				report.add(FailureUnrecognizedRole)
			}
			if role == "assistant" {
				sawAssistant = true
			}

			content, isString := msg["content"].(string)
			if (!isString || content == "") && msg["function_call"] == nil {
				report.add(FailureMissingContent)
			}
		}

		if !sawAssistant {
			report.add(FailureMissingAssistant)
		}
	}

	return report
}

// chatMessages extracts the message list of a record. A missing or malformed
// list yields nil; a non-mapping element yields a nil entry at its position.
func chatMessages(rec types.Record) []map[string]any {
	raw, ok := rec["messages"].([]any)
	if !ok {
		return nil
	}
	messages := make([]map[string]any, len(raw))
	for i, m := range raw {
		msg, _ := m.(map[string]any)
		messages[i] = msg
	}
	return messages
}
