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

// Package object implements the object manager and the
// resolver: the four id-indexed tables, the namespace index,
// the orphan table, and the link/unlink algorithm that wires extensions to
// extension points.
package object

import (
	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/coreforge/extreg/contrib"
	xerrors "github.com/coreforge/extreg/errors"
	"github.com/coreforge/extreg/handle"
	"github.com/coreforge/extreg/internal/syncmap"
)

// Manager owns the four kind-tagged tables, the namespace index, the
// orphan table, and the id allocator. It implements handle.Resolver so
// that Handle values created against it resolve lazily, and it implements
// the ColdStore-consuming side of the cache layer: InstallColdStore (called
// by cache.Load) wires a ColdStore into every table before any query runs.
//
// extensionPointByID is mutex-guarded independently of namespaces and
// orphans: RemoveExtensionPoint runs from the dispatcher's deferred
// cleanup goroutine, which holds none of the registry's own locks, so the
// index it mutates cannot rely on an external lock for safety the way
// namespaces and orphans (touched only from the synchronous, lock-held
// mutation path) can.
type Manager struct {
	extensionPoints *table
	extensions      *table
	configElements  *table
	thirdLevel      *table

	namespaces         map[int64]*namespaceRecord
	extensionPointByID *syncmap.Map[string, handle.ID] // uniqueID -> extension point id
	orphans            map[string][]handle.ID

	nextID atomic.Int64
	dirty  atomic.Bool
}

// NewManager returns an empty Manager with its id allocator starting above
// zero so that a zero handle.ID is never valid (catches uninitialized
// handles early).
func NewManager() *Manager {
	m := &Manager{
		extensionPoints:    newTable(handle.KindExtensionPoint),
		extensions:         newTable(handle.KindExtension),
		configElements:     newTable(handle.KindConfigurationElement),
		thirdLevel:         newTable(handle.KindThirdLevelConfigurationElement),
		namespaces:         make(map[int64]*namespaceRecord),
		extensionPointByID: syncmap.New[string, handle.ID](),
		orphans:            make(map[string][]handle.ID),
	}
	m.nextID.Store(1)
	return m
}

func (m *Manager) allocID() handle.ID {
	return handle.ID(m.nextID.Add(1) - 1)
}

func (m *Manager) tableFor(kind handle.Kind) *table {
	switch kind {
	case handle.KindExtensionPoint:
		return m.extensionPoints
	case handle.KindExtension:
		return m.extensions
	case handle.KindConfigurationElement:
		return m.configElements
	case handle.KindThirdLevelConfigurationElement:
		return m.thirdLevel
	default:
		return nil
	}
}

// IsDirty reports whether any mutation has occurred since the last call to
// ClearDirty.
func (m *Manager) IsDirty() bool { return m.dirty.Load() }

// ClearDirty resets the dirty flag; the cache writer calls this after a
// successful saveCache.
func (m *Manager) ClearDirty() { m.dirty.Store(false) }

// InstallColdStore wires cs into every table as the lazy fault-in source.
// Passing nil disables lazy fault-in (noRegistryCache / the cache was
// absent or failed to open).
func (m *Manager) InstallColdStore(cs ColdStore) {
	m.extensionPoints.setCold(cs)
	m.extensions.setCold(cs)
	m.configElements.setCold(cs)
	m.thirdLevel.setCold(cs)
}

// Resolve implements handle.Resolver.
func (m *Manager) Resolve(id handle.ID, kind handle.Kind) (handle.RegistryObject, error) {
	t := m.tableFor(kind)
	if t == nil {
		return nil, xerrors.NewKindMismatchError(int64(id), kind, kind)
	}
	return t.get(id)
}

// GetObject is the strict, kind-checked single-record accessor. A record
// resident under a different kind than requested still surfaces
// as ErrStaleHandle, since tables are partitioned by kind and a genuine
// kind mismatch can only be observed by a caller holding a handle minted
// for a different kind against the same id value.
func (m *Manager) GetObject(id handle.ID, kind handle.Kind) (handle.RegistryObject, error) {
	return m.Resolve(id, kind)
}

// GetHandle returns a Handle bound to this manager for (id, kind),
// verifying residency first so stale ids fail immediately rather than on
// first use.
func (m *Manager) GetHandle(id handle.ID, kind handle.Kind) (handle.Handle, error) {
	if _, err := m.GetObject(id, kind); err != nil {
		return handle.Handle{}, err
	}
	return handle.New(id, kind, m), nil
}

// GetObjects resolves every id in ids against kind, short-circuiting on
// the first failure.
func (m *Manager) GetObjects(ids []handle.ID, kind handle.Kind) ([]handle.RegistryObject, error) {
	out := make([]handle.RegistryObject, 0, len(ids))
	for _, id := range ids {
		obj, err := m.GetObject(id, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return out, nil
}

// GetHandles is the handle-returning counterpart of GetObjects.
func (m *Manager) GetHandles(ids []handle.ID, kind handle.Kind) ([]handle.Handle, error) {
	out := make([]handle.Handle, 0, len(ids))
	for _, id := range ids {
		h, err := m.GetHandle(id, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}

// AddNamespace inserts ns and its contained extension/extension-point
// records into their tables. It does not resolve links; call LinkNamespace
// to wire extensions to extension points. Returns the
// allocated extension-point and extension ids in ns's declaration order so
// the resolver can walk them afterward.
func (m *Manager) AddNamespace(ns contrib.Namespace) (pointIDs, extensionIDs []handle.ID, err error) {
	nsID := ns.UniqueID
	if nsID == "" {
		nsID = uuid.NewString()
	}
	rec := &namespaceRecord{bundleID: ns.BundleID, uniqueID: nsID}

	pointIDs = make([]handle.ID, 0, len(ns.ExtensionPoints))
	for _, ep := range ns.ExtensionPoints {
		if _, exists := m.extensionPointByID.Get(ep.UniqueID); exists {
			return nil, nil, xerrors.ErrDuplicateExtensionPoint
		}
		id := m.allocID()
		rec2 := &extensionPointRecord{
			id:       id,
			bundleID: ns.BundleID,
			uniqueID: ep.UniqueID,
			simpleID: ep.SimpleID,
			schema:   ep.Schema,
			label:    ep.Label,
		}
		m.extensionPoints.put(rec2)
		m.extensionPointByID.Set(ep.UniqueID, id)
		pointIDs = append(pointIDs, id)
		rec.extensionPoints = append(rec.extensionPoints, id)
	}

	extensionIDs = make([]handle.ID, 0, len(ns.Extensions))
	for _, ext := range ns.Extensions {
		if ext.ExtensionPointID == "" {
			return nil, nil, xerrors.ErrNilExtensionPointIdentifier
		}
		id := m.allocID()
		children := m.addConfigurationElements(ns.BundleID, id, handle.KindExtension, ext.Children)
		rec2 := &extensionRecord{
			id:               id,
			bundleID:         ns.BundleID,
			simpleID:         ext.SimpleID,
			extensionPointID: ext.ExtensionPointID,
			label:            ext.Label,
			rawChildren:      children,
		}
		m.extensions.put(rec2)
		extensionIDs = append(extensionIDs, id)
		rec.extensions = append(rec.extensions, id)
	}

	m.namespaces[ns.BundleID] = rec
	m.dirty.Store(true)
	return pointIDs, extensionIDs, nil
}

// addConfigurationElements materializes a contrib.ConfigurationElement
// tree under (parentID, parentKind), returning the direct children's ids.
func (m *Manager) addConfigurationElements(bundleID int64, parentID handle.ID, parentKind handle.Kind, elems []contrib.ConfigurationElement) []handle.ID {
	ids := make([]handle.ID, 0, len(elems))
	for _, e := range elems {
		id := m.allocID()
		childIDs := m.addConfigurationElements(bundleID, id, handle.KindConfigurationElement, e.Children)
		rec := &configurationElementRecord{
			id:          id,
			bundleID:    bundleID,
			name:        e.Name,
			value:       e.Value,
			attributes:  append([]string(nil), e.Attributes...),
			parentID:    parentID,
			parentKind:  parentKind,
			rawChildren: childIDs,
		}
		if e.ExtraData != nil {
			rec.thirdLevel = true
			rec.extraData = append([]byte(nil), e.ExtraData...)
			rec.extraOffset = -1 // assigned by the cache writer on save
			m.thirdLevel.put(rec)
		} else {
			m.configElements.put(rec)
		}
		ids = append(ids, id)
	}
	return ids
}

// RemoveExtensionPoint deletes the extension-point record itself (not its
// linked children) and its uniqueID index entry. Callers handle unlinking
// the children first.
func (m *Manager) RemoveExtensionPoint(uniqueID string) {
	id, ok := m.extensionPointByID.Get(uniqueID)
	if !ok {
		return
	}
	m.extensionPoints.delete(id)
	m.extensionPointByID.Delete(uniqueID)
	m.dirty.Store(true)
}

// Remove deletes a single row from its kind's table. When disposeDeep is
// false and the row is a configuration-element-bearing kind, Remove also
// recursively removes its rawChildren; when true, the caller has already
// expanded the transitive closure itself and each id is removed
// individually with disposeDeep=true to avoid double recursion. The
// dispatcher's physical cleanup phase passes false and lets Remove expand
// each extension's subtree.
func (m *Manager) Remove(id handle.ID, kind handle.Kind, disposeDeep bool) {
	t := m.tableFor(kind)
	if t == nil {
		return
	}
	if !disposeDeep {
		if obj, err := t.get(id); err == nil {
			for _, childID := range obj.RawChildren() {
				childKind := m.childKind(kind, childID)
				m.Remove(childID, childKind, false)
			}
		}
	}
	t.delete(id)
	m.dirty.Store(true)
}

// childKind reports the table a child id lives in, given its parent's
// kind. Extensions parent configuration elements; configuration elements
// parent either configuration elements or third-level configuration
// elements, decided by residency (mirrors the extraDataOffset rule: tree
// walks use the parent element's extraDataOffset field to decide which
// kind to read children as).
func (m *Manager) childKind(parentKind handle.Kind, childID handle.ID) handle.Kind {
	switch parentKind {
	case handle.KindExtension, handle.KindConfigurationElement, handle.KindThirdLevelConfigurationElement:
		if m.thirdLevel.has(childID) {
			return handle.KindThirdLevelConfigurationElement
		}
		return handle.KindConfigurationElement
	default:
		return handle.KindConfigurationElement
	}
}

// RemoveNamespace deletes the namespace record itself. It does not touch
// the extensions/extension-points it owned; the resolver unlinks those
// first, and the dispatcher's cleanup phase removes them afterwards.
func (m *Manager) RemoveNamespace(bundleID int64) {
	delete(m.namespaces, bundleID)
	m.dirty.Store(true)
}

// Namespace returns the resident namespace for bundleID, if any.
func (m *Manager) Namespace(bundleID int64) (*namespaceRecord, bool) {
	ns, ok := m.namespaces[bundleID]
	return ns, ok
}

// Namespaces returns every resident namespace's bundle id.
func (m *Manager) Namespaces() []int64 {
	out := make([]int64, 0, len(m.namespaces))
	for id := range m.namespaces {
		out = append(out, id)
	}
	return out
}

// ExtensionPointIDByUniqueID returns the id of the extension point
// registered under uniqueID, if resident.
func (m *Manager) ExtensionPointIDByUniqueID(uniqueID string) (handle.ID, bool) {
	return m.extensionPointByID.Get(uniqueID)
}

// ExtensionPointsFrom returns the ids of every extension point contributed
// by bundleID.
func (m *Manager) ExtensionPointsFrom(bundleID int64) []handle.ID {
	ns, ok := m.namespaces[bundleID]
	if !ok {
		return nil
	}
	return ns.extensionPoints
}

// ExtensionsFrom returns the ids of every extension contributed by
// bundleID.
func (m *Manager) ExtensionsFrom(bundleID int64) []handle.ID {
	ns, ok := m.namespaces[bundleID]
	if !ok {
		return nil
	}
	return ns.extensions
}

// AllExtensionPoints returns every resident extension-point record, for
// cache writing and facade-level unfiltered listing.
func (m *Manager) AllExtensionPoints() []handle.RegistryObject { return m.extensionPoints.all() }

// AllExtensions returns every resident extension record.
func (m *Manager) AllExtensions() []handle.RegistryObject { return m.extensions.all() }

// AllConfigurationElements returns every resident plain configuration
// element record.
func (m *Manager) AllConfigurationElements() []handle.RegistryObject { return m.configElements.all() }

// AllThirdLevelConfigurationElements returns every resident third-level
// configuration element record.
func (m *Manager) AllThirdLevelConfigurationElements() []handle.RegistryObject {
	return m.thirdLevel.all()
}

// Orphans returns the orphan table, keyed by the extension-point
// identifier each list is waiting for. Callers must not mutate the
// returned map or slices; it is exposed read-only for cache writing.
func (m *Manager) Orphans() map[string][]handle.ID { return m.orphans }

// AllNamespaces returns every resident namespace record.
func (m *Manager) AllNamespaces() map[int64]*namespaceRecord {
	out := make(map[int64]*namespaceRecord, len(m.namespaces))
	for k, v := range m.namespaces {
		out[k] = v
	}
	return out
}
