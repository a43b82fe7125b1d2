// Copyright 2026 The Go Tune Authors
// SPDX-License-Identifier: Apache-2.0

package types

// NotImplementedError is the error type for surfaces that are intentionally
// left unimplemented.
type NotImplementedError string

// Error returns a string representation of the [NotImplementedError].
func (e NotImplementedError) Error() string {
	return string(e)
}
