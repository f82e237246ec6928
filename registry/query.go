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

// This file implements the read-only half of the facade: every operation
// here takes the monitor's read lock, so queries proceed concurrently with
// each other and block only for the duration of a concurrent Add/Remove.
package registry

import (
	"strings"

	xerrors "github.com/coreforge/extreg/errors"
	"github.com/coreforge/extreg/handle"
	"github.com/coreforge/extreg/object"
)

// GetExtensionPoint resolves an extension point by its dotted unique
// identifier.
func (r *Registry) GetExtensionPoint(uniqueID string) (object.ExtensionPointHandle, error) {
	if err := r.checkStarted(); err != nil {
		return object.ExtensionPointHandle{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.manager.ExtensionPointIDByUniqueID(uniqueID)
	if !ok {
		return object.ExtensionPointHandle{}, xerrors.NewStaleHandleError(0, handle.KindExtensionPoint)
	}
	h, err := r.manager.GetHandle(id, handle.KindExtensionPoint)
	if err != nil {
		return object.ExtensionPointHandle{}, err
	}
	return object.ExtensionPointHandle{Handle: h}, nil
}

// GetExtensionPointByName resolves an extension point from its owning
// namespace and local simple identifier (namespace + "." + simpleID),
// matching the dotted-identifier convention this registry is modeled on.
func (r *Registry) GetExtensionPointByName(namespace, simpleID string) (object.ExtensionPointHandle, error) {
	return r.GetExtensionPoint(namespace + "." + simpleID)
}

// GetExtensionPoints returns every resident extension point.
func (r *Registry) GetExtensionPoints() ([]object.ExtensionPointHandle, error) {
	if err := r.checkStarted(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := r.manager.AllExtensionPoints()
	out := make([]object.ExtensionPointHandle, 0, len(recs))
	for _, rec := range recs {
		h, err := r.manager.GetHandle(rec.ID(), handle.KindExtensionPoint)
		if err != nil {
			continue
		}
		out = append(out, object.ExtensionPointHandle{Handle: h})
	}
	return out, nil
}

// GetExtensionPointsFor returns every extension point contributed by
// bundleID.
func (r *Registry) GetExtensionPointsFor(bundleID int64) ([]object.ExtensionPointHandle, error) {
	if err := r.checkStarted(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.manager.ExtensionPointsFrom(bundleID)
	out := make([]object.ExtensionPointHandle, 0, len(ids))
	for _, id := range ids {
		h, err := r.manager.GetHandle(id, handle.KindExtensionPoint)
		if err != nil {
			continue
		}
		out = append(out, object.ExtensionPointHandle{Handle: h})
	}
	return out, nil
}

// GetExtension resolves a single extension by its internal id.
func (r *Registry) GetExtension(id handle.ID) (object.ExtensionHandle, error) {
	if err := r.checkStarted(); err != nil {
		return object.ExtensionHandle{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, err := r.manager.GetHandle(id, handle.KindExtension)
	if err != nil {
		return object.ExtensionHandle{}, err
	}
	return object.ExtensionHandle{Handle: h}, nil
}

// GetExtensionByFullID resolves an extension by its fully dotted
// identifier: the owning namespace's unique id, followed by a dot and the
// extension's own simple id. It scans every extension contributed by the
// matching namespace looking for a simple-id match, rather than
// maintaining a full-id index that only this one convenience accessor
// would need.
func (r *Registry) GetExtensionByFullID(fullID string) (object.ExtensionHandle, error) {
	if err := r.checkStarted(); err != nil {
		return object.ExtensionHandle{}, err
	}
	lastDot := strings.LastIndex(fullID, ".")
	if lastDot == -1 {
		return object.ExtensionHandle{}, xerrors.NewStaleHandleError(0, handle.KindExtension)
	}
	namespace := fullID[:lastDot]

	r.mu.RLock()
	defer r.mu.RUnlock()

	bundleID, ok := r.bundleIDForNamespace(namespace)
	if !ok {
		return object.ExtensionHandle{}, xerrors.NewStaleHandleError(0, handle.KindExtension)
	}
	for _, id := range r.manager.ExtensionsFrom(bundleID) {
		h, err := r.manager.GetHandle(id, handle.KindExtension)
		if err != nil {
			continue
		}
		ext := object.ExtensionHandle{Handle: h}
		simpleID, err := ext.SimpleID()
		if err == nil && namespace+"."+simpleID == fullID {
			return ext, nil
		}
	}
	return object.ExtensionHandle{}, xerrors.NewStaleHandleError(0, handle.KindExtension)
}

// GetExtensionByPointID resolves an extension by the dotted identifier of
// the extension point it targets, plus its own simple id.
func (r *Registry) GetExtensionByPointID(extensionPointID, extensionID string) (object.ExtensionHandle, error) {
	lastDot := strings.LastIndex(extensionPointID, ".")
	if lastDot == -1 {
		return object.ExtensionHandle{}, xerrors.NewStaleHandleError(0, handle.KindExtensionPoint)
	}
	return r.GetExtensionByName(extensionPointID[:lastDot], extensionPointID[lastDot+1:], extensionID)
}

// GetExtensionByName resolves a single extension by the owning namespace's
// unique id, the target extension point's local simple id, and the
// extension's own simple id — the fully decomposed form
// GetExtensionByPointID reduces to. GetExtensionByFullID does not go
// through it; it scans the owning namespace's extensions directly.
func (r *Registry) GetExtensionByName(namespace, pointSimpleID, extensionID string) (object.ExtensionHandle, error) {
	if err := r.checkStarted(); err != nil {
		return object.ExtensionHandle{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.extensionByName(namespace, pointSimpleID, extensionID)
}

// extensionByName assumes the caller already holds r.mu.
func (r *Registry) extensionByName(namespace, pointSimpleID, extensionID string) (object.ExtensionHandle, error) {
	pointID, ok := r.manager.ExtensionPointIDByUniqueID(namespace + "." + pointSimpleID)
	if !ok {
		return object.ExtensionHandle{}, xerrors.NewStaleHandleError(0, handle.KindExtensionPoint)
	}
	pointHandle, err := r.manager.GetHandle(pointID, handle.KindExtensionPoint)
	if err != nil {
		return object.ExtensionHandle{}, err
	}
	ids, err := (object.ExtensionPointHandle{Handle: pointHandle}).Extensions()
	if err != nil {
		return object.ExtensionHandle{}, err
	}
	for _, id := range ids {
		h, err := r.manager.GetHandle(id, handle.KindExtension)
		if err != nil {
			continue
		}
		ext := object.ExtensionHandle{Handle: h}
		simpleID, err := ext.SimpleID()
		if err == nil && simpleID == extensionID {
			return ext, nil
		}
	}
	return object.ExtensionHandle{}, xerrors.NewStaleHandleError(0, handle.KindExtension)
}

// bundleIDForNamespace scans resident namespaces for one whose unique id
// matches namespace. Assumes the caller already holds r.mu.
func (r *Registry) bundleIDForNamespace(namespace string) (int64, bool) {
	for _, bundleID := range r.manager.Namespaces() {
		ns, ok := r.manager.Namespace(bundleID)
		if ok && ns.UniqueID() == namespace {
			return bundleID, true
		}
	}
	return 0, false
}

// GetExtensions returns every extension currently linked into the
// extension point named by uniqueID.
func (r *Registry) GetExtensions(extensionPointUniqueID string) ([]object.ExtensionHandle, error) {
	if err := r.checkStarted(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	pointID, ok := r.manager.ExtensionPointIDByUniqueID(extensionPointUniqueID)
	if !ok {
		return nil, xerrors.NewStaleHandleError(0, handle.KindExtensionPoint)
	}
	pointHandle, err := r.manager.GetHandle(pointID, handle.KindExtensionPoint)
	if err != nil {
		return nil, err
	}
	point := object.ExtensionPointHandle{Handle: pointHandle}
	ids, err := point.Extensions()
	if err != nil {
		return nil, err
	}
	out := make([]object.ExtensionHandle, 0, len(ids))
	for _, id := range ids {
		h, err := r.manager.GetHandle(id, handle.KindExtension)
		if err != nil {
			continue
		}
		out = append(out, object.ExtensionHandle{Handle: h})
	}
	return out, nil
}

// GetExtensionsFor returns every extension contributed by bundleID,
// regardless of whether it is currently linked or still orphaned.
func (r *Registry) GetExtensionsFor(bundleID int64) ([]object.ExtensionHandle, error) {
	if err := r.checkStarted(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.manager.ExtensionsFrom(bundleID)
	out := make([]object.ExtensionHandle, 0, len(ids))
	for _, id := range ids {
		h, err := r.manager.GetHandle(id, handle.KindExtension)
		if err != nil {
			continue
		}
		out = append(out, object.ExtensionHandle{Handle: h})
	}
	return out, nil
}

// GetConfigurationElementsFor returns the top-level configuration-element
// children of a single extension.
func (r *Registry) GetConfigurationElementsFor(extensionID handle.ID) ([]object.ConfigurationElementHandle, error) {
	if err := r.checkStarted(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	extHandle, err := r.manager.GetHandle(extensionID, handle.KindExtension)
	if err != nil {
		return nil, err
	}
	ext := object.ExtensionHandle{Handle: extHandle}
	ids, err := ext.ConfigurationElements()
	if err != nil {
		return nil, err
	}
	return r.resolveConfigurationElements(ids)
}

// GetConfigurationElementsForPoint returns the configuration elements of
// every extension currently linked into the extension point named by its
// dotted identifier.
func (r *Registry) GetConfigurationElementsForPoint(extensionPointID string) ([]object.ConfigurationElementHandle, error) {
	lastDot := strings.LastIndex(extensionPointID, ".")
	if lastDot == -1 {
		return nil, xerrors.NewStaleHandleError(0, handle.KindExtensionPoint)
	}
	return r.GetConfigurationElementsForPointByName(extensionPointID[:lastDot], extensionPointID[lastDot+1:])
}

// GetConfigurationElementsForPointByName is the namespace/simple-id form of
// GetConfigurationElementsForPoint.
func (r *Registry) GetConfigurationElementsForPointByName(namespace, pointSimpleID string) ([]object.ConfigurationElementHandle, error) {
	if err := r.checkStarted(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	pointID, ok := r.manager.ExtensionPointIDByUniqueID(namespace + "." + pointSimpleID)
	if !ok {
		return nil, xerrors.NewStaleHandleError(0, handle.KindExtensionPoint)
	}
	pointHandle, err := r.manager.GetHandle(pointID, handle.KindExtensionPoint)
	if err != nil {
		return nil, err
	}
	extIDs, err := (object.ExtensionPointHandle{Handle: pointHandle}).Extensions()
	if err != nil {
		return nil, err
	}

	var elementIDs []handle.ID
	for _, extID := range extIDs {
		extHandle, err := r.manager.GetHandle(extID, handle.KindExtension)
		if err != nil {
			continue
		}
		ids, err := (object.ExtensionHandle{Handle: extHandle}).ConfigurationElements()
		if err != nil {
			continue
		}
		elementIDs = append(elementIDs, ids...)
	}
	return r.resolveConfigurationElements(elementIDs)
}

// GetConfigurationElementsForExtension returns the configuration elements
// of the single extension named by its owning namespace, the target
// extension point's local simple id, and the extension's own simple id.
func (r *Registry) GetConfigurationElementsForExtension(namespace, pointSimpleID, extensionID string) ([]object.ConfigurationElementHandle, error) {
	if err := r.checkStarted(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	ext, err := r.extensionByName(namespace, pointSimpleID, extensionID)
	if err != nil {
		return nil, err
	}
	ids, err := ext.ConfigurationElements()
	if err != nil {
		return nil, err
	}
	return r.resolveConfigurationElements(ids)
}

// resolveConfigurationElements resolves ids against whichever table each is
// actually resident in; a configuration element carrying a third-level
// payload lives in a separate table from a plain one.
func (r *Registry) resolveConfigurationElements(ids []handle.ID) ([]object.ConfigurationElementHandle, error) {
	out := make([]object.ConfigurationElementHandle, 0, len(ids))
	for _, id := range ids {
		h, err := r.manager.GetHandle(id, handle.KindConfigurationElement)
		if err != nil {
			h, err = r.manager.GetHandle(id, handle.KindThirdLevelConfigurationElement)
			if err != nil {
				continue
			}
		}
		out = append(out, object.ConfigurationElementHandle{Handle: h})
	}
	return out, nil
}

// GetNamespaces returns a snapshot of every resident namespace.
func (r *Registry) GetNamespaces() ([]NamespaceInfo, error) {
	if err := r.checkStarted(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	bundleIDs := r.manager.Namespaces()
	out := make([]NamespaceInfo, 0, len(bundleIDs))
	for _, bundleID := range bundleIDs {
		ns, ok := r.manager.Namespace(bundleID)
		if !ok {
			continue
		}
		out = append(out, NamespaceInfo{BundleID: ns.BundleID(), UniqueID: ns.UniqueID()})
	}
	return out, nil
}

// NamespaceInfo is the read-only snapshot returned by GetNamespaces.
type NamespaceInfo struct {
	BundleID int64
	UniqueID string
}
