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

// ExtensionPointFields exposes the fields of an ExtensionPoint record
// beyond the shared handle.RegistryObject contract, so that package cache
// can serialize a resident extension point without reaching into its
// unexported struct.
type ExtensionPointFields interface {
	UniqueID() string
	SimpleIdentifier() string
	SchemaRef() string
	LabelText() string
}

// ExtensionFields is the Extension counterpart of ExtensionPointFields.
type ExtensionFields interface {
	SimpleIdentifier() string
	TargetExtensionPointID() string
	LabelText() string
}

// ConfigurationElementFields is the ConfigurationElement/
// ThirdLevelConfigurationElement counterpart of ExtensionPointFields.
type ConfigurationElementFields interface {
	ElementName() string
	ElementValue() string
	ElementAttributes() []string
	ParentID() handle.ID
	ParentKind() handle.Kind
	IsThirdLevel() bool
	ExtraData() []byte
	ExtraOffset() int64
	SetExtraOffset(int64)
}

func (r *extensionPointRecord) UniqueID() string         { return r.uniqueID }
func (r *extensionPointRecord) SimpleIdentifier() string { return r.simpleID }
func (r *extensionPointRecord) SchemaRef() string        { return r.schema }
func (r *extensionPointRecord) LabelText() string        { return r.label }

func (r *extensionRecord) SimpleIdentifier() string       { return r.simpleID }
func (r *extensionRecord) TargetExtensionPointID() string { return r.extensionPointID }
func (r *extensionRecord) LabelText() string              { return r.label }

func (r *configurationElementRecord) ElementName() string         { return r.name }
func (r *configurationElementRecord) ElementValue() string        { return r.value }
func (r *configurationElementRecord) ElementAttributes() []string { return r.attributes }
func (r *configurationElementRecord) ParentID() handle.ID         { return r.parentID }
func (r *configurationElementRecord) ParentKind() handle.Kind     { return r.parentKind }
func (r *configurationElementRecord) IsThirdLevel() bool          { return r.thirdLevel }
func (r *configurationElementRecord) ExtraData() []byte           { return r.extraData }
func (r *configurationElementRecord) ExtraOffset() int64          { return r.extraOffset }
func (r *configurationElementRecord) SetExtraOffset(off int64)    { r.extraOffset = off }

var (
	_ ExtensionPointFields       = (*extensionPointRecord)(nil)
	_ ExtensionFields            = (*extensionRecord)(nil)
	_ ConfigurationElementFields = (*configurationElementRecord)(nil)
)

// NewExtensionPointRecord builds a resident ExtensionPoint from decoded
// cache fields. Used only by package cache when faulting in a cold record.
func NewExtensionPointRecord(id handle.ID, bundleID int64, uniqueID, simpleID, schema, label string, rawChildren []handle.ID) handle.RegistryObject {
	return &extensionPointRecord{
		id: id, bundleID: bundleID, uniqueID: uniqueID, simpleID: simpleID,
		schema: schema, label: label, rawChildren: rawChildren,
	}
}

// NewExtensionRecord builds a resident Extension from decoded cache fields.
func NewExtensionRecord(id handle.ID, bundleID int64, simpleID, extensionPointID, label string, rawChildren []handle.ID) handle.RegistryObject {
	return &extensionRecord{
		id: id, bundleID: bundleID, simpleID: simpleID,
		extensionPointID: extensionPointID, label: label, rawChildren: rawChildren,
	}
}

// NewConfigurationElementRecord builds a resident (third-level or plain)
// ConfigurationElement from decoded cache fields.
func NewConfigurationElementRecord(id handle.ID, bundleID int64, name, value string, attrs []string, parentID handle.ID, parentKind handle.Kind, rawChildren []handle.ID, thirdLevel bool, extraData []byte, extraOffset int64) handle.RegistryObject {
	return &configurationElementRecord{
		id: id, bundleID: bundleID, name: name, value: value, attributes: attrs,
		parentID: parentID, parentKind: parentKind, rawChildren: rawChildren,
		thirdLevel: thirdLevel, extraData: extraData, extraOffset: extraOffset,
	}
}

// NamespaceUniqueID returns the dotted identifier of a resident namespace,
// for package cache's namespace-file writer.
func (m *Manager) NamespaceUniqueID(bundleID int64) (string, bool) {
	ns, ok := m.namespaces[bundleID]
	if !ok {
		return "", false
	}
	return ns.uniqueID, true
}

// RestoreNamespace re-inserts a namespace record loaded from the cache,
// bypassing AddNamespace's id-allocation path since the extension and
// extension-point ids were already assigned in a prior process lifetime
// and are being restored verbatim.
func (m *Manager) RestoreNamespace(bundleID int64, uniqueID string, extensionPointIDs, extensionIDs []handle.ID) {
	m.namespaces[bundleID] = &namespaceRecord{
		bundleID:        bundleID,
		uniqueID:        uniqueID,
		extensionPoints: extensionPointIDs,
		extensions:      extensionIDs,
	}
	for _, id := range extensionPointIDs {
		if obj, err := m.extensionPoints.get(id); err == nil {
			m.extensionPointByID.Set(obj.(*extensionPointRecord).uniqueID, id)
		}
	}
}

// RestoreOrphans re-installs the orphan table loaded from the cache.
func (m *Manager) RestoreOrphans(orphans map[string][]handle.ID) {
	m.orphans = orphans
}

// SetAllocatorFloor ensures the id allocator never reissues an id at or
// below the highest id restored from the cache: ids freed by removal are
// not reused, and restored ids must not be reused either.
func (m *Manager) SetAllocatorFloor(highest handle.ID) {
	if int64(highest) >= m.nextID.Load() {
		m.nextID.Store(int64(highest) + 1)
	}
}
