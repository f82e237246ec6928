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

import "github.com/coreforge/extreg/handle"

// extensionPointRecord is the resident form of an ExtensionPoint: a unique
// dotted identifier, a simple local name, and the ordered list of extension
// ids currently linked into it.
type extensionPointRecord struct {
	id          handle.ID
	bundleID    int64
	uniqueID    string
	simpleID    string
	schema      string
	label       string
	rawChildren []handle.ID
}

func (r *extensionPointRecord) ID() handle.ID     { return r.id }
func (r *extensionPointRecord) Kind() handle.Kind { return handle.KindExtensionPoint }
func (r *extensionPointRecord) BundleID() int64   { return r.bundleID }
func (r *extensionPointRecord) Name() string      { return r.simpleID }
func (r *extensionPointRecord) RawChildren() []handle.ID {
	return r.rawChildren
}
func (r *extensionPointRecord) SetRawChildren(children []handle.ID) {
	r.rawChildren = children
}

// extensionRecord is the resident form of an Extension: the dotted
// identifier it claims to target, plus the configuration-element ids
// forming its declarative tree.
type extensionRecord struct {
	id               handle.ID
	bundleID         int64
	simpleID         string
	extensionPointID string
	label            string
	rawChildren      []handle.ID
}

func (r *extensionRecord) ID() handle.ID     { return r.id }
func (r *extensionRecord) Kind() handle.Kind { return handle.KindExtension }
func (r *extensionRecord) BundleID() int64   { return r.bundleID }
func (r *extensionRecord) Name() string      { return r.simpleID }
func (r *extensionRecord) RawChildren() []handle.ID {
	return r.rawChildren
}
func (r *extensionRecord) SetRawChildren(children []handle.ID) {
	r.rawChildren = children
}

// configurationElementRecord is a node of the declarative tree carried by
// an extension. thirdLevel marks the second, deeper element kind; extraData
// is its payload (a class-loader-bound executable-factory descriptor,
// opaque to the core) and extraOffset is where that payload lives in the
// cache's extras segment once saved — a pure file-addressing detail, never
// exposed past the cache reader/writer boundary.
type configurationElementRecord struct {
	id          handle.ID
	bundleID    int64
	name        string
	value       string
	attributes  []string
	parentID    handle.ID
	parentKind  handle.Kind
	rawChildren []handle.ID
	thirdLevel  bool
	extraData   []byte
	extraOffset int64
}

func (r *configurationElementRecord) ID() handle.ID { return r.id }
func (r *configurationElementRecord) Kind() handle.Kind {
	if r.thirdLevel {
		return handle.KindThirdLevelConfigurationElement
	}
	return handle.KindConfigurationElement
}
func (r *configurationElementRecord) BundleID() int64 { return r.bundleID }
func (r *configurationElementRecord) Name() string    { return r.name }
func (r *configurationElementRecord) RawChildren() []handle.ID {
	return r.rawChildren
}
func (r *configurationElementRecord) SetRawChildren(children []handle.ID) {
	r.rawChildren = children
}

var (
	_ handle.NestedRegistryModelObject = (*extensionPointRecord)(nil)
	_ handle.NestedRegistryModelObject = (*extensionRecord)(nil)
	_ handle.NestedRegistryModelObject = (*configurationElementRecord)(nil)
)

// namespaceRecord is the resident form of a Namespace. It is not addressed
// through the handle layer: the object manager indexes it by bundle id
// directly rather than through the generic id allocator.
type namespaceRecord struct {
	bundleID        int64
	uniqueID        string
	extensionPoints []handle.ID
	extensions      []handle.ID
}

// BundleID returns the owning bundle id.
func (n *namespaceRecord) BundleID() int64 { return n.bundleID }

// UniqueID returns the namespace's dotted identifier, possibly empty.
func (n *namespaceRecord) UniqueID() string { return n.uniqueID }

// ExtensionPointIDs returns the ids of extension points this namespace
// contributed, for package cache's namespace-file writer.
func (n *namespaceRecord) ExtensionPointIDs() []handle.ID { return n.extensionPoints }

// ExtensionIDs returns the ids of extensions this namespace contributed.
func (n *namespaceRecord) ExtensionIDs() []handle.ID { return n.extensions }
