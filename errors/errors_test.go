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

package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrappedErrors(t *testing.T) {
	t.Run("NewCacheIOError wraps ErrCacheIO", func(t *testing.T) {
		cause := errors.New("disk full")
		err := NewCacheIOError("main.bin", cause)
		require.ErrorIs(t, err, ErrCacheIO)
		require.ErrorIs(t, err, cause)
		require.Contains(t, err.Error(), "main.bin")
	})

	t.Run("NewCacheFormatError wraps ErrCacheFormat", func(t *testing.T) {
		cause := errors.New("bad magic")
		err := NewCacheFormatError("namespaces.bin", cause)
		require.ErrorIs(t, err, ErrCacheFormat)
		require.ErrorIs(t, err, cause)
	})

	t.Run("NewStampMismatchError wraps ErrStampMismatch", func(t *testing.T) {
		err := NewStampMismatchError(1, 2)
		require.ErrorIs(t, err, ErrStampMismatch)
		require.Contains(t, err.Error(), "on-disk stamp=1")
		require.Contains(t, err.Error(), "expected=2")
	})

	t.Run("NewKindMismatchError wraps ErrKindMismatch", func(t *testing.T) {
		err := NewKindMismatchError(5, stringerStub{"Extension"}, stringerStub{"ExtensionPoint"})
		require.ErrorIs(t, err, ErrKindMismatch)
	})

	t.Run("NewStaleHandleError wraps ErrStaleHandle", func(t *testing.T) {
		err := NewStaleHandleError(5, stringerStub{"Extension"})
		require.ErrorIs(t, err, ErrStaleHandle)
	})
}

func TestListenerFailure(t *testing.T) {
	cause := errors.New("listener panic: boom")
	failure := NewListenerFailure(2, cause)
	require.Equal(t, 2, failure.ListenerIndex)
	require.ErrorIs(t, failure, cause)
	require.Contains(t, failure.Error(), "listener[2]")
}

type stringerStub struct{ s string }

func (s stringerStub) String() string { return s.s }
