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
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"

	xerrors "github.com/coreforge/extreg/errors"
	"github.com/coreforge/extreg/handle"
	"github.com/coreforge/extreg/internal/compress"
	"github.com/coreforge/extreg/object"
)

const (
	tableFileName     = "registry.table"
	mainFileName      = "registry.main"
	extraFileName     = "registry.extra"
	namespaceFileName = "registry.namespace"
)

// Writer emits the four cache files under dir. SaveCache writes to temp
// files first and only swaps them into place once every write has
// completed, so a crash mid-save never corrupts the previous generation.
type Writer struct {
	dir string
}

// NewWriter returns a Writer that persists into dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// SaveCache serializes every resident record in m to the four cache files,
// stamped with stamp, and atomically swaps them into place. It returns
// success iff every write completed; on any failure no file in dir is
// modified (the temp files are removed and the prior generation, if any,
// is left untouched).
func (w *Writer) SaveCache(m *object.Manager, stamp int64) error {
	tableBuf := &bytes.Buffer{}
	mainBuf := &bytes.Buffer{}
	extraBuf := &bytes.Buffer{}

	entries := make([]tableEntry, 0, 256)

	for _, obj := range m.AllExtensionPoints() {
		rec := obj.(object.ExtensionPointFields)
		entries = append(entries, w.emitExtensionPoint(mainBuf, obj, rec))
	}
	for _, obj := range m.AllExtensions() {
		rec := obj.(object.ExtensionFields)
		entries = append(entries, w.emitExtension(mainBuf, obj, rec))
	}
	for _, obj := range m.AllConfigurationElements() {
		rec := obj.(object.ConfigurationElementFields)
		entries = append(entries, w.emitConfigurationElement(mainBuf, extraBuf, obj, rec))
	}
	for _, obj := range m.AllThirdLevelConfigurationElements() {
		rec := obj.(object.ConfigurationElementFields)
		entries = append(entries, w.emitConfigurationElement(mainBuf, extraBuf, obj, rec))
	}

	if err := binary.Write(tableBuf, binary.LittleEndian, stamp); err != nil {
		return xerrors.NewCacheIOError(tableFileName, err)
	}
	if err := binary.Write(tableBuf, binary.LittleEndian, uint32(len(entries))); err != nil {
		return xerrors.NewCacheIOError(tableFileName, err)
	}
	for _, e := range entries {
		if err := encodeTableEntry(tableBuf, e); err != nil {
			return xerrors.NewCacheIOError(tableFileName, err)
		}
	}

	namespaceBuf, err := w.encodeNamespaces(m)
	if err != nil {
		return xerrors.NewCacheIOError(namespaceFileName, err)
	}

	files := map[string][]byte{
		tableFileName:     tableBuf.Bytes(),
		mainFileName:      mainBuf.Bytes(),
		extraFileName:     extraBuf.Bytes(),
		namespaceFileName: namespaceBuf,
	}

	tempPaths, err := w.writeTempFiles(files)
	if err != nil {
		w.cleanup(tempPaths)
		return err
	}
	if err := w.swapIntoPlace(tempPaths); err != nil {
		return err
	}
	m.ClearDirty()
	return nil
}

func (w *Writer) emitExtensionPoint(mainBuf *bytes.Buffer, obj handle.RegistryObject, rec object.ExtensionPointFields) tableEntry {
	offset := int64(mainBuf.Len())
	mainBuf.WriteByte(byte(handle.KindExtensionPoint))
	_ = encodeExtensionPoint(mainBuf, obj.BundleID(), rec, obj.RawChildren())
	return tableEntry{id: obj.ID(), kind: handle.KindExtensionPoint, mainOffset: offset, extraOffset: -1}
}

func (w *Writer) emitExtension(mainBuf *bytes.Buffer, obj handle.RegistryObject, rec object.ExtensionFields) tableEntry {
	offset := int64(mainBuf.Len())
	mainBuf.WriteByte(byte(handle.KindExtension))
	_ = encodeExtension(mainBuf, obj.BundleID(), rec, obj.RawChildren())
	return tableEntry{id: obj.ID(), kind: handle.KindExtension, mainOffset: offset, extraOffset: -1}
}

func (w *Writer) emitConfigurationElement(mainBuf, extraBuf *bytes.Buffer, obj handle.RegistryObject, rec object.ConfigurationElementFields) tableEntry {
	extraOffset := int64(-1)
	if rec.IsThirdLevel() {
		extraOffset = int64(extraBuf.Len())
		compressed := compress.Compress(rec.ExtraData())
		_ = binary.Write(extraBuf, binary.LittleEndian, uint32(len(compressed)))
		extraBuf.Write(compressed)
	}

	mainOffset := int64(mainBuf.Len())
	mainBuf.WriteByte(byte(obj.Kind()))
	_ = encodeConfigurationElement(mainBuf, obj.BundleID(), rec, obj.RawChildren(), extraOffset)

	return tableEntry{id: obj.ID(), kind: obj.Kind(), mainOffset: mainOffset, extraOffset: extraOffset}
}

func (w *Writer) encodeNamespaces(m *object.Manager) ([]byte, error) {
	buf := &bytes.Buffer{}
	namespaces := m.AllNamespaces()
	if err := binary.Write(buf, binary.LittleEndian, uint32(len(namespaces))); err != nil {
		return nil, err
	}
	for bundleID, ns := range namespaces {
		if err := binary.Write(buf, binary.LittleEndian, bundleID); err != nil {
			return nil, err
		}
		uniqueID, _ := m.NamespaceUniqueID(bundleID)
		if err := writeString(buf, uniqueID); err != nil {
			return nil, err
		}
		if err := writeIDs(buf, ns.ExtensionPointIDs()); err != nil {
			return nil, err
		}
		if err := writeIDs(buf, ns.ExtensionIDs()); err != nil {
			return nil, err
		}
	}

	orphans := m.Orphans()
	if err := binary.Write(buf, binary.LittleEndian, uint32(len(orphans))); err != nil {
		return nil, err
	}
	for key, ids := range orphans {
		if err := writeString(buf, key); err != nil {
			return nil, err
		}
		if err := writeIDs(buf, ids); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func (w *Writer) writeTempFiles(files map[string][]byte) (map[string]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, xerrors.NewCacheIOError(w.dir, err)
	}
	temps := make(map[string]string, len(files))
	for name, data := range files {
		f, err := os.CreateTemp(w.dir, name+".tmp-*")
		if err != nil {
			return temps, xerrors.NewCacheIOError(name, err)
		}
		_, writeErr := f.Write(data)
		closeErr := f.Close()
		if writeErr != nil {
			temps[name] = f.Name()
			return temps, xerrors.NewCacheIOError(name, writeErr)
		}
		if closeErr != nil {
			temps[name] = f.Name()
			return temps, xerrors.NewCacheIOError(name, closeErr)
		}
		temps[name] = f.Name()
	}
	return temps, nil
}

func (w *Writer) swapIntoPlace(tempPaths map[string]string) error {
	for name, tmp := range tempPaths {
		final := filepath.Join(w.dir, name)
		if err := os.Rename(tmp, final); err != nil {
			return xerrors.NewCacheIOError(name, err)
		}
	}
	return nil
}

func (w *Writer) cleanup(tempPaths map[string]string) {
	for _, tmp := range tempPaths {
		_ = os.Remove(tmp)
	}
}
