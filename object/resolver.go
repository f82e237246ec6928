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
	"github.com/coreforge/extreg/delta"
	"github.com/coreforge/extreg/handle"
)

// LinkNamespace runs the resolver over a namespace that was
// just ingested by AddNamespace: it walks the namespace's own extension
// points, absorbing any orphans waiting for them, then walks its own
// extensions, linking each into its target point or parking it as an
// orphan. bundleID is the namespace being added; deltas are recorded under
// it regardless of which namespace the formerly-orphan extensions belong
// to.
func (m *Manager) LinkNamespace(bundleID int64, pointIDs, extensionIDs []handle.ID, acc *delta.Accumulator, hasListeners bool) {
	for _, pointID := range pointIDs {
		obj, err := m.extensionPoints.get(pointID)
		if err != nil {
			continue
		}
		point := obj.(*extensionPointRecord)
		orphaned, ok := m.orphans[point.uniqueID]
		if !ok || len(orphaned) == 0 {
			continue
		}
		delete(m.orphans, point.uniqueID)
		point.rawChildren = orphaned
		if hasListeners {
			for _, extID := range orphaned {
				acc.RecordExtension(bundleID, int64(extID), point.uniqueID, delta.Added)
			}
		}
	}

	for _, extID := range extensionIDs {
		obj, err := m.extensions.get(extID)
		if err != nil {
			continue
		}
		ext := obj.(*extensionRecord)
		pointID, ok := m.extensionPointByID.Get(ext.extensionPointID)
		if !ok {
			m.orphans[ext.extensionPointID] = append(m.orphans[ext.extensionPointID], extID)
			continue
		}
		pointObj, err := m.extensionPoints.get(pointID)
		if err != nil {
			m.orphans[ext.extensionPointID] = append(m.orphans[ext.extensionPointID], extID)
			continue
		}
		point := pointObj.(*extensionPointRecord)
		point.rawChildren = append(point.rawChildren, extID)
		if hasListeners {
			acc.RecordExtension(bundleID, int64(extID), ext.extensionPointID, delta.Added)
		}
	}
}

// UnlinkNamespace runs the symmetric removal algorithm. It must be called
// before RemoveExtensionPoint/RemoveNamespace; the ids it collects for
// deferred physical removal (the departing namespace's own extensions,
// plus the unique ids of its extension points; extensions from other
// namespaces that were linked into a departing point go back to the
// orphan table instead) are returned so the
// caller can hand them to the dispatcher's physical-cleanup phase rather
// than deleting them immediately — they must stay resolvable until every
// listener has observed the outgoing deltas.
func (m *Manager) UnlinkNamespace(bundleID int64, acc *delta.Accumulator, hasListeners bool) (removedExtensionIDs []handle.ID, removedExtensionPointUniqueIDs []string) {
	ns, ok := m.namespaces[bundleID]
	if !ok {
		return nil, nil
	}

	// Step 1: extensions owned by the departing namespace.
	for _, extID := range ns.extensions {
		obj, err := m.extensions.get(extID)
		if err != nil {
			continue
		}
		ext := obj.(*extensionRecord)
		if pointID, ok := m.extensionPointByID.Get(ext.extensionPointID); ok {
			if pointObj, err := m.extensionPoints.get(pointID); err == nil {
				point := pointObj.(*extensionPointRecord)
				point.rawChildren = removeID(point.rawChildren, extID)
				if hasListeners {
					acc.RecordExtension(bundleID, int64(extID), ext.extensionPointID, delta.Removed)
				}
			}
		} else {
			m.orphans[ext.extensionPointID] = removeID(m.orphans[ext.extensionPointID], extID)
		}
	}

	// Step 2: extension points owned by the departing namespace.
	for _, pointID := range ns.extensionPoints {
		obj, err := m.extensionPoints.get(pointID)
		if err != nil {
			continue
		}
		point := obj.(*extensionPointRecord)
		linked := point.rawChildren
		point.rawChildren = nil
		if len(linked) > 0 {
			for _, extID := range linked {
				acc.RecordExtension(bundleID, int64(extID), point.uniqueID, delta.Removed)
				m.orphans[point.uniqueID] = append(m.orphans[point.uniqueID], extID)
			}
		}
		acc.RecordExtensionPointRemoved(bundleID, point.uniqueID)
		removedExtensionPointUniqueIDs = append(removedExtensionPointUniqueIDs, point.uniqueID)
	}

	removedExtensionIDs = append([]handle.ID(nil), ns.extensions...)
	return removedExtensionIDs, removedExtensionPointUniqueIDs
}

func removeID(ids []handle.ID, target handle.ID) []handle.ID {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
