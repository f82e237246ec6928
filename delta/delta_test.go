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

package delta

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccumulator(t *testing.T) {
	t.Run("starts empty", func(t *testing.T) {
		acc := NewAccumulator()
		require.True(t, acc.IsEmpty(1))
	})

	t.Run("RecordExtension accumulates under the owning bundle", func(t *testing.T) {
		acc := NewAccumulator()
		acc.RecordExtension(1, 100, "com.example.point", Added)
		acc.RecordExtension(1, 101, "com.example.point", Removed)
		require.False(t, acc.IsEmpty(1))

		snap := acc.Snapshot()
		require.Len(t, snap, 1)
		d := snap[1]
		require.Len(t, d.Extensions, 2)
		require.Equal(t, Added, d.Extensions[0].Kind)
		require.Equal(t, Removed, d.Extensions[1].Kind)
	})

	t.Run("RecordExtensionPointRemoved is recorded even with zero extension deltas", func(t *testing.T) {
		acc := NewAccumulator()
		acc.RecordExtensionPointRemoved(2, "com.example.point")
		require.False(t, acc.IsEmpty(2))

		snap := acc.Snapshot()
		require.True(t, snap[2].HasRemovedExtensionPoint("com.example.point"))
	})

	t.Run("Snapshot clears the accumulator", func(t *testing.T) {
		acc := NewAccumulator()
		acc.RecordExtension(1, 100, "com.example.point", Added)
		_ = acc.Snapshot()
		require.True(t, acc.IsEmpty(1))

		second := acc.Snapshot()
		require.Empty(t, second)
	})

	t.Run("Kind renders a label for every known value and an unknown one", func(t *testing.T) {
		require.Equal(t, "ADDED", Added.String())
		require.Equal(t, "REMOVED", Removed.String())
		require.Equal(t, "UNKNOWN", Kind(99).String())
	})
}
