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

package cache

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coreforge/extreg/delta"
	"github.com/coreforge/extreg/handle"
	"github.com/coreforge/extreg/internal/testsupport"
	"github.com/coreforge/extreg/object"
)

func buildManager(t *testing.T) (m *object.Manager, pointIDs, extIDs []handle.ID) {
	t.Helper()
	m = object.NewManager()
	acc := delta.NewAccumulator()

	ns := testsupport.PointAndExtension(1, "com.example.point",
		testsupport.Element("child", "k", "v"),
		testsupport.ThirdLevelElement("blob", []byte("payload bytes")),
	)
	pointIDs, extIDs, err := m.AddNamespace(ns)
	require.NoError(t, err)
	m.LinkNamespace(1, pointIDs, extIDs, acc, true)
	return m, pointIDs, extIDs
}

func TestWriterReaderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m, pointIDs, extIDs := buildManager(t)

	extObj, err := m.GetObject(extIDs[0], handle.KindExtension)
	require.NoError(t, err)
	childIDs := extObj.RawChildren()
	require.Len(t, childIDs, 2)

	require.NoError(t, NewWriter(dir).SaveCache(m, 42))
	require.False(t, m.IsDirty())

	m2 := object.NewManager()
	r := NewReader(dir)
	ok, err := Load(m2, r, 42, true, false)
	require.NoError(t, err)
	require.True(t, ok)
	defer r.Close()

	obj, err := m2.GetObject(pointIDs[0], handle.KindExtensionPoint)
	require.NoError(t, err)
	require.Equal(t, int64(1), obj.BundleID(), "bundleID must survive the main-file round trip")

	extObj2, err := m2.GetObject(extIDs[0], handle.KindExtension)
	require.NoError(t, err)
	require.Equal(t, int64(1), extObj2.BundleID())
	require.Equal(t, childIDs, extObj2.RawChildren())

	plainChild, err := m2.GetObject(childIDs[0], handle.KindConfigurationElement)
	require.NoError(t, err)
	require.Equal(t, int64(1), plainChild.BundleID())

	thirdLevel, err := m2.GetObject(childIDs[1], handle.KindThirdLevelConfigurationElement)
	require.NoError(t, err)
	require.Equal(t, int64(1), thirdLevel.BundleID())

	pointID, ok := m2.ExtensionPointIDByUniqueID("com.example.point")
	require.True(t, ok)
	require.Equal(t, pointIDs[0], pointID)
}

func TestReaderInitStampMismatch(t *testing.T) {
	dir := t.TempDir()
	m, _, _ := buildManager(t)
	require.NoError(t, NewWriter(dir).SaveCache(m, 7))

	r := NewReader(dir)
	ok, err := r.Init(999, true)
	require.NoError(t, err)
	require.False(t, ok, "a mismatched stamp must be rejected, not errored")
}

func TestReaderInitStampCheckDisabled(t *testing.T) {
	dir := t.TempDir()
	m, _, _ := buildManager(t)
	require.NoError(t, NewWriter(dir).SaveCache(m, 7))

	r := NewReader(dir)
	ok, err := r.Init(999, false)
	require.NoError(t, err)
	require.True(t, ok, "checkStamp=false must accept any on-disk stamp")
}

func TestReaderInitMissingCache(t *testing.T) {
	r := NewReader(t.TempDir())
	ok, err := r.Init(1, true)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFaultInLazilyConsultsColdStore(t *testing.T) {
	dir := t.TempDir()
	m, pointIDs, _ := buildManager(t)
	require.NoError(t, NewWriter(dir).SaveCache(m, 1))

	r := NewReader(dir)
	ok, err := r.Init(1, true)
	require.NoError(t, err)
	require.True(t, ok)
	defer r.Close()

	obj, found, err := r.FaultIn(pointIDs[0], handle.KindExtensionPoint)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, pointIDs[0], obj.ID())

	_, found, err = r.FaultIn(handle.ID(999999), handle.KindExtensionPoint)
	require.NoError(t, err)
	require.False(t, found)
}
