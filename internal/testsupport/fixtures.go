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

// Package testsupport builds contrib.Namespace fixtures shared by the core
// packages' test suites. It is internal, not a public testkit: each suite
// wants the same handful of small namespace shapes and this avoids
// redeclaring them five times.
package testsupport

import "github.com/coreforge/extreg/contrib"

// Point returns a single-extension-point namespace contributed by bundleID,
// with uniqueID as its dotted identifier.
func Point(bundleID int64, uniqueID string) contrib.Namespace {
	return contrib.Namespace{
		BundleID: bundleID,
		UniqueID: uniqueID + ".namespace",
		ExtensionPoints: []contrib.ExtensionPoint{
			{UniqueID: uniqueID, SimpleID: lastSegment(uniqueID), Label: "Test Point " + uniqueID},
		},
	}
}

// ExtensionFor returns a single-extension namespace contributed by bundleID,
// targeting extensionPointUniqueID, with children as its configuration
// elements.
func ExtensionFor(bundleID int64, extensionPointUniqueID string, children ...contrib.ConfigurationElement) contrib.Namespace {
	return contrib.Namespace{
		BundleID: bundleID,
		Extensions: []contrib.Extension{
			{
				ExtensionPointID: extensionPointUniqueID,
				SimpleID:         "ext",
				Label:            "Test Extension",
				Children:         children,
			},
		},
	}
}

// Element builds a configuration element carrying name/value attributes,
// interleaved as contrib.ConfigurationElement.Attributes expects.
func Element(name string, attrs ...string) contrib.ConfigurationElement {
	return contrib.ConfigurationElement{Name: name, Attributes: attrs}
}

// ThirdLevelElement builds a configuration element carrying an opaque
// extras-segment payload, marking it a third-level element.
func ThirdLevelElement(name string, extraData []byte) contrib.ConfigurationElement {
	return contrib.ConfigurationElement{Name: name, ExtraData: extraData}
}

// PointAndExtension returns a namespace that both declares an extension
// point and targets it from one of its own extensions, the common case
// exercised by most resolver tests.
func PointAndExtension(bundleID int64, uniqueID string, children ...contrib.ConfigurationElement) contrib.Namespace {
	ns := Point(bundleID, uniqueID)
	ns.Extensions = []contrib.Extension{
		{ExtensionPointID: uniqueID, SimpleID: "ext", Label: "Test Extension", Children: children},
	}
	return ns
}

func lastSegment(uniqueID string) string {
	for i := len(uniqueID) - 1; i >= 0; i-- {
		if uniqueID[i] == '.' {
			return uniqueID[i+1:]
		}
	}
	return uniqueID
}
