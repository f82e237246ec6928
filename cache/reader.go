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
	"io"
	"os"
	"path/filepath"

	xerrors "github.com/coreforge/extreg/errors"
	"github.com/coreforge/extreg/handle"
	"github.com/coreforge/extreg/internal/compress"
)

// NamespaceEntry is one decoded row of the namespace file, returned by
// LoadNamespaces so the object manager can rebuild its namespace index
// without going through AddNamespace's id allocation path.
type NamespaceEntry struct {
	BundleID        int64
	UniqueID        string
	ExtensionPoints []handle.ID
	Extensions      []handle.ID
}

// Reader implements object.ColdStore against the four on-disk cache files.
// Init validates the stamp and indexes the table file; record bodies are
// decoded lazily, on first fault-in, from the main/extra files.
type Reader struct {
	dir string

	table     *os.File
	main      *os.File
	extra     *os.File
	namespace *os.File

	index map[handle.ID]tableEntry
	maxID handle.ID
	stamp int64
}

// NewReader returns a Reader over the cache files in dir.
func NewReader(dir string) *Reader {
	return &Reader{dir: dir}
}

// Init opens the four cache files and validates the on-disk stamp against
// expectedStamp. It returns (false, nil) on a stamp mismatch or a missing
// cache — never an error for those cases, since the registry falls back
// to a full rebuild from source manifests. checkStamp=false (what the
// registry passes when CheckConfig is off) accepts any on-disk stamp
// unconditionally.
func (r *Reader) Init(expectedStamp int64, checkStamp bool) (ok bool, err error) {
	tablePath := filepath.Join(r.dir, tableFileName)
	tableData, err := os.ReadFile(tablePath)
	if err != nil {
		return false, nil //nolint:nilerr // missing cache is not an error
	}

	tr := bytes.NewReader(tableData)
	var stamp int64
	if err := binary.Read(tr, binary.LittleEndian, &stamp); err != nil {
		return false, nil //nolint:nilerr // malformed header, fall back to rebuild
	}
	if checkStamp && stamp != 0 && stamp != expectedStamp {
		return false, nil
	}

	var count uint32
	if err := binary.Read(tr, binary.LittleEndian, &count); err != nil {
		return false, nil //nolint:nilerr
	}

	index := make(map[handle.ID]tableEntry, count)
	var maxID handle.ID
	for i := uint32(0); i < count; i++ {
		e, err := decodeTableEntry(tr)
		if err != nil {
			return false, nil //nolint:nilerr
		}
		index[e.id] = e
		if e.id > maxID {
			maxID = e.id
		}
	}

	mainFile, err := os.Open(filepath.Join(r.dir, mainFileName))
	if err != nil {
		return false, nil //nolint:nilerr
	}
	namespaceFile, err := os.Open(filepath.Join(r.dir, namespaceFileName))
	if err != nil {
		_ = mainFile.Close()
		return false, nil //nolint:nilerr
	}
	extraFile, openErr := os.Open(filepath.Join(r.dir, extraFileName))
	if openErr != nil {
		extraFile = nil // no third-level records persisted; not fatal
	}

	r.stamp = stamp
	r.index = index
	r.maxID = maxID
	r.main = mainFile
	r.namespace = namespaceFile
	r.extra = extraFile
	return true, nil
}

// Close releases the open file handles. Safe to call on a Reader whose
// Init returned false.
func (r *Reader) Close() error {
	var err error
	for _, f := range []*os.File{r.main, r.namespace, r.extra} {
		if f != nil {
			if cerr := f.Close(); cerr != nil {
				err = cerr
			}
		}
	}
	return err
}

// MaxID returns the highest id seen in the table file, so the object
// manager's id allocator never reissues a restored id.
func (r *Reader) MaxID() handle.ID { return r.maxID }

// AllIDs returns every resident id of the given kind, for the
// noLazyCacheLoading full fault-in path.
func (r *Reader) AllIDs(kind handle.Kind) []handle.ID {
	out := make([]handle.ID, 0)
	for id, e := range r.index {
		if e.kind == kind {
			out = append(out, id)
		}
	}
	return out
}

// FaultIn implements object.ColdStore: it decodes the main-file body (and,
// for a third-level element, the extras-segment payload) for id/kind on
// demand.
func (r *Reader) FaultIn(id handle.ID, kind handle.Kind) (handle.RegistryObject, bool, error) {
	e, ok := r.index[id]
	if !ok || e.kind != kind {
		return nil, false, nil
	}

	if _, err := r.main.Seek(e.mainOffset, 0); err != nil {
		return nil, false, xerrors.NewCacheIOError(mainFileName, err)
	}
	tag := make([]byte, 1)
	if _, err := r.main.Read(tag); err != nil {
		return nil, false, xerrors.NewCacheIOError(mainFileName, err)
	}
	if handle.Kind(tag[0]) != kind {
		return nil, false, xerrors.NewCacheFormatError(mainFileName, xerrors.ErrKindMismatch)
	}

	switch kind {
	case handle.KindExtensionPoint:
		obj, err := decodeExtensionPoint(r.main, id)
		return obj, err == nil, wrapDecodeErr(err)
	case handle.KindExtension:
		obj, err := decodeExtension(r.main, id)
		return obj, err == nil, wrapDecodeErr(err)
	case handle.KindConfigurationElement:
		obj, err := decodeConfigurationElement(r.main, id, false, nil)
		return obj, err == nil, wrapDecodeErr(err)
	case handle.KindThirdLevelConfigurationElement:
		extraData, err := r.readExtra(e.extraOffset)
		if err != nil {
			return nil, false, err
		}
		obj, err := decodeConfigurationElement(r.main, id, true, extraData)
		return obj, err == nil, wrapDecodeErr(err)
	default:
		return nil, false, nil
	}
}

func (r *Reader) readExtra(offset int64) ([]byte, error) {
	if r.extra == nil || offset < 0 {
		return nil, nil
	}
	if _, err := r.extra.Seek(offset, 0); err != nil {
		return nil, xerrors.NewCacheIOError(extraFileName, err)
	}
	var length uint32
	if err := binary.Read(r.extra, binary.LittleEndian, &length); err != nil {
		return nil, xerrors.NewCacheIOError(extraFileName, err)
	}
	compressed := make([]byte, length)
	if _, err := io.ReadFull(r.extra, compressed); err != nil {
		return nil, xerrors.NewCacheIOError(extraFileName, err)
	}
	data, err := compress.Decompress(compressed)
	if err != nil {
		return nil, xerrors.NewCacheFormatError(extraFileName, err)
	}
	return data, nil
}

func wrapDecodeErr(err error) error {
	if err == nil {
		return nil
	}
	return xerrors.NewCacheFormatError(mainFileName, err)
}

// LoadNamespaces decodes the entire namespace file (small, read once at
// startup) plus the trailing orphan-table section.
func (r *Reader) LoadNamespaces() ([]NamespaceEntry, map[string][]handle.ID, error) {
	if _, err := r.namespace.Seek(0, 0); err != nil {
		return nil, nil, xerrors.NewCacheIOError(namespaceFileName, err)
	}

	var count uint32
	if err := binary.Read(r.namespace, binary.LittleEndian, &count); err != nil {
		return nil, nil, xerrors.NewCacheFormatError(namespaceFileName, err)
	}
	entries := make([]NamespaceEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		var bundleID int64
		if err := binary.Read(r.namespace, binary.LittleEndian, &bundleID); err != nil {
			return nil, nil, xerrors.NewCacheFormatError(namespaceFileName, err)
		}
		uniqueID, err := readString(r.namespace)
		if err != nil {
			return nil, nil, xerrors.NewCacheFormatError(namespaceFileName, err)
		}
		points, err := readIDs(r.namespace)
		if err != nil {
			return nil, nil, xerrors.NewCacheFormatError(namespaceFileName, err)
		}
		extensions, err := readIDs(r.namespace)
		if err != nil {
			return nil, nil, xerrors.NewCacheFormatError(namespaceFileName, err)
		}
		entries = append(entries, NamespaceEntry{
			BundleID: bundleID, UniqueID: uniqueID,
			ExtensionPoints: points, Extensions: extensions,
		})
	}

	var orphanCount uint32
	if err := binary.Read(r.namespace, binary.LittleEndian, &orphanCount); err != nil {
		return nil, nil, xerrors.NewCacheFormatError(namespaceFileName, err)
	}
	orphans := make(map[string][]handle.ID, orphanCount)
	for i := uint32(0); i < orphanCount; i++ {
		key, err := readString(r.namespace)
		if err != nil {
			return nil, nil, xerrors.NewCacheFormatError(namespaceFileName, err)
		}
		ids, err := readIDs(r.namespace)
		if err != nil {
			return nil, nil, xerrors.NewCacheFormatError(namespaceFileName, err)
		}
		orphans[key] = ids
	}

	return entries, orphans, nil
}
