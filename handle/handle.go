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

// Package handle defines the identifier/handle layer: stable,
// kind-tagged integer ids and the lightweight handles that resolve them
// lazily against whichever object manager they were bound to.
package handle

import (
	"fmt"

	xerrors "github.com/coreforge/extreg/errors"
)

// ID is a monotonically-assigned, never-reused integer identifier for a
// registry entity.
type ID int64

// Kind tags the table an ID was allocated from.
type Kind uint8

const (
	// KindExtensionPoint tags an ExtensionPoint record.
	KindExtensionPoint Kind = iota + 1
	// KindExtension tags an Extension record.
	KindExtension
	// KindConfigurationElement tags a ConfigurationElement record.
	KindConfigurationElement
	// KindThirdLevelConfigurationElement tags a ThirdLevelConfigurationElement
	// record: a ConfigurationElement carrying an extras-segment offset.
	KindThirdLevelConfigurationElement
)

// String renders the Kind for log lines and error messages.
func (k Kind) String() string {
	switch k {
	case KindExtensionPoint:
		return "ExtensionPoint"
	case KindExtension:
		return "Extension"
	case KindConfigurationElement:
		return "ConfigurationElement"
	case KindThirdLevelConfigurationElement:
		return "ThirdLevelConfigurationElement"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// RegistryObject is the shared, polymorphic contract every resolvable entity
// implements: an id, the bundle that contributed it, and its ordered list of
// child ids. Concrete entity types live in package object.
type RegistryObject interface {
	ID() ID
	Kind() Kind
	BundleID() int64
	RawChildren() []ID
	SetRawChildren(children []ID)
}

// NestedRegistryModelObject refines RegistryObject with a display name.
type NestedRegistryModelObject interface {
	RegistryObject
	Name() string
}

// Resolver is implemented by the object manager. A Handle holds a Resolver
// and calls back into it lazily, binding to the manager at creation rather
// than through a process-global manager slot, so multiple registries in
// the same process (as in tests) never cross-resolve each other's handles.
type Resolver interface {
	Resolve(id ID, kind Kind) (RegistryObject, error)
}

// Handle is a lightweight, kind-tagged reference that resolves lazily
// against the Resolver it was created with. Handles must not outlive the
// object manager they reference; resolving a handle whose target has been
// physically removed returns ErrStaleHandle.
type Handle struct {
	id       ID
	kind     Kind
	resolver Resolver
}

// New creates a Handle bound to resolver for the given id and kind.
func New(id ID, kind Kind, resolver Resolver) Handle {
	return Handle{id: id, kind: kind, resolver: resolver}
}

// ID returns the handle's target id.
func (h Handle) ID() ID { return h.id }

// Kind returns the handle's target kind.
func (h Handle) Kind() Kind { return h.kind }

// IsNil reports whether the handle was never bound to an id/resolver.
func (h Handle) IsNil() bool { return h.resolver == nil }

// Equals compares handles by (id, kind).
func (h Handle) Equals(other Handle) bool {
	return h.id == other.id && h.kind == other.kind
}

// Resolve returns the live entity snapshot the handle refers to. A cold
// cache hit triggers lazy fault-in inside the resolver;
// accessing a removed id returns ErrStaleHandle.
func (h Handle) Resolve() (RegistryObject, error) {
	if h.resolver == nil {
		return nil, xerrors.NewStaleHandleError(int64(h.id), h.kind)
	}
	return h.resolver.Resolve(h.id, h.kind)
}
