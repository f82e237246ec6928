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

package object

import (
	"testing"

	"github.com/stretchr/testify/require"

	xerrors "github.com/coreforge/extreg/errors"
	"github.com/coreforge/extreg/handle"
)

type fakeColdStore struct {
	objects map[handle.ID]handle.RegistryObject
	calls   int
}

func (f *fakeColdStore) FaultIn(id handle.ID, kind handle.Kind) (handle.RegistryObject, bool, error) {
	f.calls++
	obj, ok := f.objects[id]
	return obj, ok, nil
}

func TestTable(t *testing.T) {
	t.Run("hot miss falls through to cold store and caches the result", func(t *testing.T) {
		tbl := newTable(handle.KindExtension)
		cold := &fakeColdStore{objects: map[handle.ID]handle.RegistryObject{
			5: &extensionRecord{id: 5, bundleID: 1, simpleID: "ext"},
		}}
		tbl.setCold(cold)

		obj, err := tbl.get(5)
		require.NoError(t, err)
		require.Equal(t, handle.ID(5), obj.ID())
		require.Equal(t, 1, cold.calls)

		// second get is served hot, without consulting the cold store again.
		_, err = tbl.get(5)
		require.NoError(t, err)
		require.Equal(t, 1, cold.calls)
	})

	t.Run("a cold miss surfaces ErrStaleHandle", func(t *testing.T) {
		tbl := newTable(handle.KindExtension)
		tbl.setCold(&fakeColdStore{objects: map[handle.ID]handle.RegistryObject{}})

		_, err := tbl.get(42)
		require.ErrorIs(t, err, xerrors.ErrStaleHandle)
	})

	t.Run("delete tombstones an id so it can never resurrect from a stale cold generation", func(t *testing.T) {
		tbl := newTable(handle.KindExtension)
		rec := &extensionRecord{id: 7, bundleID: 1}
		tbl.put(rec)
		tbl.delete(7)

		cold := &fakeColdStore{objects: map[handle.ID]handle.RegistryObject{
			7: rec, // stale cache generation still thinks 7 is resident
		}}
		tbl.setCold(cold)

		_, err := tbl.get(7)
		require.ErrorIs(t, err, xerrors.ErrStaleHandle)
		require.Zero(t, cold.calls, "a tombstoned id must never consult the cold store")
	})

	t.Run("put lifts a tombstone", func(t *testing.T) {
		tbl := newTable(handle.KindExtension)
		rec := &extensionRecord{id: 7, bundleID: 1}
		tbl.put(rec)
		tbl.delete(7)
		tbl.put(rec)

		obj, err := tbl.get(7)
		require.NoError(t, err)
		require.Equal(t, handle.ID(7), obj.ID())
	})

	t.Run("has reports only hot residency, never consulting the cold store", func(t *testing.T) {
		tbl := newTable(handle.KindExtension)
		cold := &fakeColdStore{objects: map[handle.ID]handle.RegistryObject{9: &extensionRecord{id: 9}}}
		tbl.setCold(cold)

		require.False(t, tbl.has(9))
		require.Zero(t, cold.calls)
	})

	t.Run("all returns every hot record", func(t *testing.T) {
		tbl := newTable(handle.KindExtension)
		tbl.put(&extensionRecord{id: 1})
		tbl.put(&extensionRecord{id: 2})
		require.Len(t, tbl.all(), 2)
	})
}
