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

// Package contrib holds the plain data shapes the manifest parser and
// bundle-lifecycle listener hand to the registry. The parser delivers
// fully-populated Namespace values; the core trusts and does not
// re-validate these. None of these carry ids — the object manager assigns
// those on ingestion.
package contrib

// ConfigurationElement is one node of the declarative tree carried by an
// Extension: a name, a value, interleaved attribute name/value pairs, and
// an ordered list of children. ExtraData, when non-nil, marks this node as
// a third-level element and is opaque to the core beyond being stashed in
// the cache's extras segment (executable-factory descriptors, source-
// location hints).
type ConfigurationElement struct {
	Name       string
	Value      string
	Attributes []string // interleaved name, value, name, value, ...
	Children   []ConfigurationElement
	ExtraData  []byte
}

// Extension is a contribution targeting an extension point by identifier.
// SimpleID may be empty; ExtensionPointID is the dotted identifier this
// extension claims to target and must be non-empty or the ingester has a
// bug the core refuses to paper over.
type Extension struct {
	SimpleID         string
	ExtensionPointID string
	Label            string
	Children         []ConfigurationElement
}

// ExtensionPoint is a declared socket into which contributions may plug.
// UniqueID is the dotted identifier extensions target; SimpleID is the
// unqualified local name within the owning namespace.
type ExtensionPoint struct {
	UniqueID string
	SimpleID string
	Schema   string
	Label    string
}

// Namespace is the contribution of one dynamically-installed unit. BundleID
// identifies the contributing unit; UniqueID is its dotted identifier and
// may be empty for anonymous contributors.
type Namespace struct {
	BundleID        int64
	UniqueID        string
	ExtensionPoints []ExtensionPoint
	Extensions      []Extension
}
