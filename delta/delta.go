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

// Package delta accumulates per-namespace change records during a
// mutation. Accumulation is a pure in-memory activity; callers must
// hold the registry's write lock for the duration of a mutation.
package delta

// Kind distinguishes an extension joining or leaving an extension point's
// linked children.
type Kind uint8

const (
	// Added records that an extension became linked into an extension point.
	Added Kind = iota + 1
	// Removed records that an extension became unlinked from an extension
	// point (either physically removed, or returned to the orphan table).
	Removed
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "ADDED"
	case Removed:
		return "REMOVED"
	default:
		return "UNKNOWN"
	}
}

// ExtensionDelta records one extension joining or leaving the children of
// extensionPointID.
type ExtensionDelta struct {
	ExtensionID      int64
	ExtensionPointID string
	Kind             Kind
}

// RegistryDelta is the per-bundle accumulation for a single mutation cycle:
// an ordered list of extension deltas plus the set of extension-point
// unique identifiers that were removed outright.
type RegistryDelta struct {
	BundleID               int64
	Extensions             []ExtensionDelta
	RemovedExtensionPoints map[string]struct{}
}

func newRegistryDelta(bundleID int64) *RegistryDelta {
	return &RegistryDelta{
		BundleID:               bundleID,
		RemovedExtensionPoints: make(map[string]struct{}),
	}
}

// HasRemovedExtensionPoint reports whether uniqueID was recorded as removed.
func (d *RegistryDelta) HasRemovedExtensionPoint(uniqueID string) bool {
	_, ok := d.RemovedExtensionPoints[uniqueID]
	return ok
}

// Accumulator collects RegistryDelta entries keyed by bundle id across one
// mutation. It is not safe for concurrent use; the facade serializes access
// to it under the registry write lock.
type Accumulator struct {
	byBundle map[int64]*RegistryDelta
}

// NewAccumulator returns an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{byBundle: make(map[int64]*RegistryDelta)}
}

func (a *Accumulator) entry(bundleID int64) *RegistryDelta {
	d, ok := a.byBundle[bundleID]
	if !ok {
		d = newRegistryDelta(bundleID)
		a.byBundle[bundleID] = d
	}
	return d
}

// RecordExtension appends an ExtensionDelta under bundleID. The method
// itself records unconditionally; the skip-recording optimization lives in
// its callers (object.Manager.LinkNamespace/UnlinkNamespace take a
// hasListeners flag and do not call this for a plain extension add/remove
// when no listener is registered). Extension point removal is never
// skipped this way — see RecordExtensionPointRemoved.
func (a *Accumulator) RecordExtension(bundleID int64, extensionID int64, extensionPointID string, kind Kind) {
	d := a.entry(bundleID)
	d.Extensions = append(d.Extensions, ExtensionDelta{
		ExtensionID:      extensionID,
		ExtensionPointID: extensionPointID,
		Kind:             kind,
	})
}

// RecordExtensionPointRemoved marks uniqueID as a removed extension point
// under bundleID. Unlike RecordExtension, callers invoke this
// unconditionally even with zero listeners. The physical cleanup of the
// removed point is scheduled from the registry's dispatch.CleanupSet, not
// from this record.
func (a *Accumulator) RecordExtensionPointRemoved(bundleID int64, uniqueID string) {
	d := a.entry(bundleID)
	d.RemovedExtensionPoints[uniqueID] = struct{}{}
}

// IsEmpty reports whether any delta has been recorded for bundleID.
func (a *Accumulator) IsEmpty(bundleID int64) bool {
	d, ok := a.byBundle[bundleID]
	if !ok {
		return true
	}
	return len(d.Extensions) == 0 && len(d.RemovedExtensionPoints) == 0
}

// Snapshot returns the accumulated deltas keyed by bundle id and clears
// the accumulator so a fresh mutation starts from an empty map. An empty,
// non-nil map is returned when nothing was recorded.
func (a *Accumulator) Snapshot() map[int64]*RegistryDelta {
	snapshot := a.byBundle
	a.byBundle = make(map[int64]*RegistryDelta)
	return snapshot
}
