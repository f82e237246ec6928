// MIT License
//
// Copyright (c) 2026 extreg contributors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package errors defines the sentinel error values and wrapped error types
// surfaced by the registry core.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrStaleHandle is returned when a Handle is resolved after its target
	// id has been physically removed from the object manager.
	ErrStaleHandle = errors.New("handle is stale: object no longer resident")

	// ErrKindMismatch is returned when an id is resolved against a kind other
	// than the one it was stored under.
	ErrKindMismatch = errors.New("object kind mismatch")

	// ErrOrphanConsistency is returned when a configuration element's parent
	// chain does not terminate at an extension within the bounded walk limit.
	ErrOrphanConsistency = errors.New("parent chain did not resolve to a declaring extension")

	// ErrCacheIO is returned when a cache file cannot be read or written.
	ErrCacheIO = errors.New("registry cache: I/O failure")

	// ErrCacheFormat is returned when a cache file's contents do not match
	// the expected binary layout.
	ErrCacheFormat = errors.New("registry cache: malformed contents")

	// ErrStampMismatch identifies an on-disk cache stamp that does not
	// match the stamp the caller expects; NewStampMismatchError wraps it.
	// cache.Reader.Init reports a mismatch as (false, nil), not as this
	// error.
	ErrStampMismatch = errors.New("registry cache: stamp mismatch")

	// ErrNilExtensionPointIdentifier is returned when an extension is added
	// with no target extension point identifier.
	ErrNilExtensionPointIdentifier = errors.New("extension has no target extension point identifier")

	// ErrDuplicateExtensionPoint is returned when an extension point's unique
	// identifier collides with one already resident in the registry.
	ErrDuplicateExtensionPoint = errors.New("extension point identifier already registered")

	// ErrExtensionPointHasChildren identifies an extension point added
	// while already carrying linked children. No code path returns it:
	// contrib.ExtensionPoint carries no children, so an incoming point
	// cannot arrive with any.
	ErrExtensionPointHasChildren = errors.New("extension point already has linked children at add time")

	// ErrNotStarted is returned when a mutation or query is attempted on a
	// registry that has been stopped.
	ErrNotStarted = errors.New("registry has been stopped")
)

// NewCacheIOError wraps an underlying I/O error with ErrCacheIO, naming the
// file that failed.
func NewCacheIOError(file string, cause error) error {
	return fmt.Errorf("%s: %w: %w", file, ErrCacheIO, cause)
}

// NewCacheFormatError wraps a decoding failure with ErrCacheFormat, naming
// the file that failed to decode.
func NewCacheFormatError(file string, cause error) error {
	return fmt.Errorf("%s: %w: %w", file, ErrCacheFormat, cause)
}

// NewStampMismatchError reports the on-disk and expected stamps that
// disagreed.
func NewStampMismatchError(onDisk, expected int64) error {
	return fmt.Errorf("on-disk stamp=%d expected=%d: %w", onDisk, expected, ErrStampMismatch)
}

// NewKindMismatchError reports the id and kinds involved in a mismatch.
func NewKindMismatchError(id int64, want, got fmt.Stringer) error {
	return fmt.Errorf("id=%d want=%s got=%s: %w", id, want, got, ErrKindMismatch)
}

// NewStaleHandleError reports the id and kind of the handle that went stale.
func NewStaleHandleError(id int64, kind fmt.Stringer) error {
	return fmt.Errorf("id=%d kind=%s: %w", id, kind, ErrStaleHandle)
}

// ListenerFailure wraps the panic or error value recovered from a single
// registry change listener invocation, alongside the listener's index in
// the dispatch snapshot so a caller inspecting the aggregate status can
// tell which registration misbehaved.
type ListenerFailure struct {
	ListenerIndex int
	Err           error
}

// enforce compilation error
var _ error = (*ListenerFailure)(nil)

// NewListenerFailure creates a ListenerFailure for the given snapshot index.
func NewListenerFailure(index int, cause error) *ListenerFailure {
	return &ListenerFailure{ListenerIndex: index, Err: cause}
}

// Error implements the standard error interface.
func (l *ListenerFailure) Error() string {
	return fmt.Sprintf("listener[%d]: %v", l.ListenerIndex, l.Err)
}

// Unwrap returns the underlying cause.
func (l *ListenerFailure) Unwrap() error {
	return l.Err
}
