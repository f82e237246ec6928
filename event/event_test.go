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

package event

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coreforge/extreg/delta"
)

func sampleDeltas() map[int64]*delta.RegistryDelta {
	return map[int64]*delta.RegistryDelta{
		1: {BundleID: 1, RemovedExtensionPoints: map[string]struct{}{}},
		2: {BundleID: 2, RemovedExtensionPoints: map[string]struct{}{}},
	}
}

func TestFilter(t *testing.T) {
	t.Run("nil filter matches everything", func(t *testing.T) {
		var f *Filter
		require.True(t, f.matches(1))
		require.True(t, f.matches(2))
	})

	t.Run("ForBundle matches only its own bundle", func(t *testing.T) {
		f := ForBundle(1)
		require.True(t, f.matches(1))
		require.False(t, f.matches(2))
	})
}

func TestRegistryChangeEvent(t *testing.T) {
	deltas := sampleDeltas()

	t.Run("unfiltered event exposes every bundle in the snapshot", func(t *testing.T) {
		evt := New(deltas, nil)
		require.ElementsMatch(t, []int64{1, 2}, evt.BundleIDs())
		d, ok := evt.DeltaFor(2)
		require.True(t, ok)
		require.Equal(t, int64(2), d.BundleID)
		require.Len(t, evt.Deltas(), 2)
	})

	t.Run("filtered event exposes only its own bundle", func(t *testing.T) {
		evt := New(deltas, ForBundle(1))
		require.Equal(t, []int64{1}, evt.BundleIDs())
		_, ok := evt.DeltaFor(2)
		require.False(t, ok)
		require.Len(t, evt.Deltas(), 1)
	})
}

func TestHasBundle(t *testing.T) {
	deltas := sampleDeltas()

	t.Run("nil filter has a bundle whenever deltas is non-empty", func(t *testing.T) {
		require.True(t, HasBundle(deltas, nil))
		require.False(t, HasBundle(nil, nil))
	})

	t.Run("filter requires its own bundle to be present", func(t *testing.T) {
		require.True(t, HasBundle(deltas, ForBundle(1)))
		require.False(t, HasBundle(deltas, ForBundle(99)))
	})
}

func TestListenerFunc(t *testing.T) {
	var got *RegistryChangeEvent
	fn := ListenerFunc(func(e *RegistryChangeEvent) { got = e })

	var l Listener = fn
	evt := New(sampleDeltas(), nil)
	l.RegistryChanged(evt)
	require.Same(t, evt, got)
}
