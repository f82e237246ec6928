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
	xerrors "github.com/coreforge/extreg/errors"
	"github.com/coreforge/extreg/handle"
	"github.com/coreforge/extreg/internal/syncmap"
)

// ColdStore is implemented by the cache reader. A table consults it only
// on a miss against its hot map, and only when lazy fault-in is enabled;
// the hot table always shadows the cold one so that mutated rows take
// precedence.
type ColdStore interface {
	FaultIn(id handle.ID, kind handle.Kind) (handle.RegistryObject, bool, error)
}

// table holds the resident (hot) records for exactly one handle.Kind, with
// an optional cold store consulted on miss. tombstones masks ids that were
// physically removed from this table during the current process lifetime,
// so a stale cache generation can never resurrect them on the next cold
// fault-in.
//
// hot and tombstones are each independently mutex-guarded maps: the
// dispatcher's deferred cleanup phase deletes rows from a worker goroutine
// that holds none of the registry's own locks, concurrently with queries
// that only read-lock the registry, so a table cannot rely on an external
// lock to serialize access to its own state.
type table struct {
	kind       handle.Kind
	hot        *syncmap.Map[handle.ID, handle.RegistryObject]
	cold       ColdStore
	tombstones *syncmap.Map[handle.ID, struct{}]
}

func newTable(kind handle.Kind) *table {
	return &table{
		kind:       kind,
		hot:        syncmap.New[handle.ID, handle.RegistryObject](),
		tombstones: syncmap.New[handle.ID, struct{}](),
	}
}

// setCold installs the lazy fault-in source for cold misses.
func (t *table) setCold(cs ColdStore) {
	t.cold = cs
}

// put inserts or overwrites a hot record. A record re-added under an id
// that was previously tombstoned (which cannot happen through the id
// allocator, since ids are never reused) lifts the tombstone.
func (t *table) put(obj handle.RegistryObject) {
	t.hot.Set(obj.ID(), obj)
	t.tombstones.Delete(obj.ID())
}

// delete removes a hot record and tombstones its id so a later get can
// never resurrect it from a stale cold-store generation.
func (t *table) delete(id handle.ID) {
	t.hot.Delete(id)
	t.tombstones.Set(id, struct{}{})
}

// get resolves id, consulting the cold store on a hot miss. The fault-in
// call and the write of its result both run under the hot map's own write
// lock (via LoadOrCompute), so two goroutines cold-faulting the same id at
// once neither call the cold store twice nor race writing the result back.
func (t *table) get(id handle.ID) (handle.RegistryObject, error) {
	if obj, ok := t.hot.Get(id); ok {
		return obj, nil
	}
	if _, dead := t.tombstones.Get(id); dead {
		return nil, xerrors.NewStaleHandleError(int64(id), t.kind)
	}
	if t.cold != nil {
		obj, found, err := t.hot.LoadOrCompute(id, func() (handle.RegistryObject, bool, error) {
			return t.cold.FaultIn(id, t.kind)
		})
		if err != nil {
			return nil, xerrors.NewCacheIOError("cold-fault-in", err)
		}
		if found {
			return obj, nil
		}
	}
	return nil, xerrors.NewStaleHandleError(int64(id), t.kind)
}

// has reports whether id is resident hot, without touching the cold store.
func (t *table) has(id handle.ID) bool {
	_, ok := t.hot.Get(id)
	return ok
}

// all returns every hot record, for cache writing. Records that are only
// in the cold store are not included.
func (t *table) all() []handle.RegistryObject {
	out := make([]handle.RegistryObject, 0, t.hot.Len())
	t.hot.Range(func(_ handle.ID, obj handle.RegistryObject) {
		out = append(out, obj)
	})
	return out
}
