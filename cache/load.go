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

package cache

import (
	"github.com/coreforge/extreg/handle"
	"github.com/coreforge/extreg/object"
)

// Load is the object manager's init(expectedStamp) operation, implemented
// here (rather than as an object.Manager method) so that package object
// never needs to import package cache — object stays the leaf dependency
// cache builds on, not the other way around.
//
// It wires r as m's cold-fault-in source, rebuilds the namespace index and
// orphan table from the namespace file, raises the id allocator past the
// highest restored id, and — when fullFaultIn is set (the
// noLazyCacheLoading ambient flag) — eagerly faults in every record
// instead of leaving the rest for on-demand resolution.
//
// Load returns (false, nil) whenever Reader.Init does (stamp mismatch,
// missing or malformed cache); the caller falls back to a full rebuild
// from source manifests.
func Load(m *object.Manager, r *Reader, expectedStamp int64, checkStamp, fullFaultIn bool) (bool, error) {
	ok, err := r.Init(expectedStamp, checkStamp)
	if err != nil || !ok {
		return false, err
	}

	m.InstallColdStore(r)
	m.SetAllocatorFloor(r.MaxID())

	entries, orphans, err := r.LoadNamespaces()
	if err != nil {
		return false, nil //nolint:nilerr // malformed namespace file, fall back to rebuild
	}

	for _, ns := range entries {
		m.RestoreNamespace(ns.BundleID, ns.UniqueID, ns.ExtensionPoints, ns.Extensions)
	}
	m.RestoreOrphans(orphans)

	if fullFaultIn {
		for _, kind := range []handle.Kind{
			handle.KindExtensionPoint,
			handle.KindExtension,
			handle.KindConfigurationElement,
			handle.KindThirdLevelConfigurationElement,
		} {
			for _, id := range r.AllIDs(kind) {
				if _, err := m.GetObject(id, kind); err != nil {
					return false, nil //nolint:nilerr // corrupt record, fall back to rebuild
				}
			}
		}
	}

	return true, nil
}
