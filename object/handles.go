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
)

// maxDeclaringExtensionWalk bounds the parent-chain walk performed by
// ConfigurationElementHandle.DeclaringExtension. An unbounded walk loops
// forever on a corrupted parent chain; this caps it and fails with
// ErrOrphanConsistency instead.
const maxDeclaringExtensionWalk = 64

// ExtensionPointHandle is a typed accessor over a handle.Handle known to
// target an extension point.
type ExtensionPointHandle struct{ handle.Handle }

func (h ExtensionPointHandle) resolve() (*extensionPointRecord, error) {
	obj, err := h.Handle.Resolve()
	if err != nil {
		return nil, err
	}
	rec, ok := obj.(*extensionPointRecord)
	if !ok {
		return nil, xerrors.NewKindMismatchError(int64(h.ID()), handle.KindExtensionPoint, h.Kind())
	}
	return rec, nil
}

// UniqueID returns the extension point's dotted identifier.
func (h ExtensionPointHandle) UniqueID() (string, error) {
	rec, err := h.resolve()
	if err != nil {
		return "", err
	}
	return rec.uniqueID, nil
}

// SimpleID returns the extension point's unqualified local name.
func (h ExtensionPointHandle) SimpleID() (string, error) {
	rec, err := h.resolve()
	if err != nil {
		return "", err
	}
	return rec.simpleID, nil
}

// Label returns the extension point's display label.
func (h ExtensionPointHandle) Label() (string, error) {
	rec, err := h.resolve()
	if err != nil {
		return "", err
	}
	return rec.label, nil
}

// Schema returns the extension point's schema reference.
func (h ExtensionPointHandle) Schema() (string, error) {
	rec, err := h.resolve()
	if err != nil {
		return "", err
	}
	return rec.schema, nil
}

// Extensions returns the ids currently linked into this extension point.
func (h ExtensionPointHandle) Extensions() ([]handle.ID, error) {
	rec, err := h.resolve()
	if err != nil {
		return nil, err
	}
	return append([]handle.ID(nil), rec.rawChildren...), nil
}

// ExtensionHandle is a typed accessor over a handle.Handle known to target
// an extension.
type ExtensionHandle struct{ handle.Handle }

func (h ExtensionHandle) resolve() (*extensionRecord, error) {
	obj, err := h.Handle.Resolve()
	if err != nil {
		return nil, err
	}
	rec, ok := obj.(*extensionRecord)
	if !ok {
		return nil, xerrors.NewKindMismatchError(int64(h.ID()), handle.KindExtension, h.Kind())
	}
	return rec, nil
}

// SimpleID returns the extension's local identifier, which may be empty.
func (h ExtensionHandle) SimpleID() (string, error) {
	rec, err := h.resolve()
	if err != nil {
		return "", err
	}
	return rec.simpleID, nil
}

// ExtensionPointID returns the dotted identifier this extension targets.
func (h ExtensionHandle) ExtensionPointID() (string, error) {
	rec, err := h.resolve()
	if err != nil {
		return "", err
	}
	return rec.extensionPointID, nil
}

// Label returns the extension's display label.
func (h ExtensionHandle) Label() (string, error) {
	rec, err := h.resolve()
	if err != nil {
		return "", err
	}
	return rec.label, nil
}

// ConfigurationElements returns the ids of this extension's top-level
// configuration-element children.
func (h ExtensionHandle) ConfigurationElements() ([]handle.ID, error) {
	rec, err := h.resolve()
	if err != nil {
		return nil, err
	}
	return append([]handle.ID(nil), rec.rawChildren...), nil
}

// ConfigurationElementHandle is a typed accessor over a handle.Handle known
// to target a configuration element (plain or third-level).
type ConfigurationElementHandle struct{ handle.Handle }

func (h ConfigurationElementHandle) resolve() (*configurationElementRecord, error) {
	obj, err := h.Handle.Resolve()
	if err != nil {
		return nil, err
	}
	rec, ok := obj.(*configurationElementRecord)
	if !ok {
		return nil, xerrors.NewKindMismatchError(int64(h.ID()), handle.KindConfigurationElement, h.Kind())
	}
	return rec, nil
}

// Name returns the configuration element's tag name.
func (h ConfigurationElementHandle) Name() (string, error) {
	rec, err := h.resolve()
	if err != nil {
		return "", err
	}
	return rec.name, nil
}

// Value returns the configuration element's text value.
func (h ConfigurationElementHandle) Value() (string, error) {
	rec, err := h.resolve()
	if err != nil {
		return "", err
	}
	return rec.value, nil
}

// Attributes returns the interleaved name/value attribute vector.
func (h ConfigurationElementHandle) Attributes() ([]string, error) {
	rec, err := h.resolve()
	if err != nil {
		return nil, err
	}
	return append([]string(nil), rec.attributes...), nil
}

// ExtraData returns the opaque third-level payload (a class-loader-bound
// executable-factory descriptor, or similar) carried by a
// ThirdLevelConfigurationElement. It is nil for a plain ConfigurationElement.
func (h ConfigurationElementHandle) ExtraData() ([]byte, error) {
	rec, err := h.resolve()
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), rec.extraData...), nil
}

// Children returns the ids of this element's children, which the caller
// must resolve against whichever kind childKind returns: tree walks use
// the parent element's extraDataOffset field to decide which kind to read
// children as.
func (h ConfigurationElementHandle) Children() ([]handle.ID, error) {
	rec, err := h.resolve()
	if err != nil {
		return nil, err
	}
	return append([]handle.ID(nil), rec.rawChildren...), nil
}

// parent returns the (id, kind) this element was recorded with as its
// parent. A configuration element rooted directly under an extension
// reports handle.KindExtension.
func (h ConfigurationElementHandle) parent() (handle.ID, handle.Kind, error) {
	rec, err := h.resolve()
	if err != nil {
		return 0, 0, err
	}
	return rec.parentID, rec.parentKind, nil
}

// DeclaringExtension walks this element's parent chain until it reaches an
// extension, resolving against the same manager this handle was bound to.
// The walk is bounded to guard against a corrupted parent chain that never
// terminates at an extension; exceeding the bound surfaces
// ErrOrphanConsistency rather than looping forever.
func (h ConfigurationElementHandle) DeclaringExtension(resolver handle.Resolver) (ExtensionHandle, error) {
	id, kind, err := h.parent()
	if err != nil {
		return ExtensionHandle{}, err
	}
	for depth := 0; depth < maxDeclaringExtensionWalk; depth++ {
		if kind == handle.KindExtension {
			return ExtensionHandle{handle.New(id, kind, resolver)}, nil
		}
		obj, err := resolver.Resolve(id, kind)
		if err != nil {
			return ExtensionHandle{}, err
		}
		elem, ok := obj.(*configurationElementRecord)
		if !ok {
			return ExtensionHandle{}, xerrors.ErrOrphanConsistency
		}
		id, kind = elem.parentID, elem.parentKind
	}
	return ExtensionHandle{}, xerrors.ErrOrphanConsistency
}
