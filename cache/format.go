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
	"errors"
	"io"

	"github.com/coreforge/extreg/handle"
	"github.com/coreforge/extreg/object"
)

var errStringTooLong = errors.New("registry cache: string exceeds u16 length prefix")

// tableEntry is one row of the table file: where a record's body lives in
// the main file, and (for third-level configuration elements) in the
// extras file.
type tableEntry struct {
	id          handle.ID
	kind        handle.Kind
	mainOffset  int64
	extraOffset int64 // -1 when the record has no extras-segment payload
}

func encodeTableEntry(buf *bytes.Buffer, e tableEntry) error {
	if err := binary.Write(buf, binary.LittleEndian, int32(e.id)); err != nil {
		return err
	}
	if err := binary.Write(buf, binary.LittleEndian, uint8(e.kind)); err != nil {
		return err
	}
	if err := binary.Write(buf, binary.LittleEndian, e.mainOffset); err != nil {
		return err
	}
	return binary.Write(buf, binary.LittleEndian, e.extraOffset)
}

func decodeTableEntry(r io.Reader) (tableEntry, error) {
	var e tableEntry
	var id int32
	var kind uint8
	if err := binary.Read(r, binary.LittleEndian, &id); err != nil {
		return e, err
	}
	if err := binary.Read(r, binary.LittleEndian, &kind); err != nil {
		return e, err
	}
	if err := binary.Read(r, binary.LittleEndian, &e.mainOffset); err != nil {
		return e, err
	}
	if err := binary.Read(r, binary.LittleEndian, &e.extraOffset); err != nil {
		return e, err
	}
	e.id = handle.ID(id)
	e.kind = handle.Kind(kind)
	return e, nil
}

// encodeExtensionPoint writes an ExtensionPoint main-file body (tag byte
// already written by the caller).
func encodeExtensionPoint(buf *bytes.Buffer, bundleID int64, rec object.ExtensionPointFields, children []handle.ID) error {
	if err := binary.Write(buf, binary.LittleEndian, bundleID); err != nil {
		return err
	}
	if err := writeString(buf, rec.UniqueID()); err != nil {
		return err
	}
	if err := writeString(buf, rec.SimpleIdentifier()); err != nil {
		return err
	}
	if err := writeString(buf, rec.SchemaRef()); err != nil {
		return err
	}
	if err := writeString(buf, rec.LabelText()); err != nil {
		return err
	}
	return writeIDs(buf, children)
}

func decodeExtensionPoint(r io.Reader, id handle.ID) (handle.RegistryObject, error) {
	var bundleID int64
	if err := binary.Read(r, binary.LittleEndian, &bundleID); err != nil {
		return nil, err
	}
	uniqueID, err := readString(r)
	if err != nil {
		return nil, err
	}
	simpleID, err := readString(r)
	if err != nil {
		return nil, err
	}
	schema, err := readString(r)
	if err != nil {
		return nil, err
	}
	label, err := readString(r)
	if err != nil {
		return nil, err
	}
	children, err := readIDs(r)
	if err != nil {
		return nil, err
	}
	return object.NewExtensionPointRecord(id, bundleID, uniqueID, simpleID, schema, label, children), nil
}

// encodeExtension writes an Extension main-file body.
func encodeExtension(buf *bytes.Buffer, bundleID int64, rec object.ExtensionFields, children []handle.ID) error {
	if err := binary.Write(buf, binary.LittleEndian, bundleID); err != nil {
		return err
	}
	if err := writeString(buf, rec.SimpleIdentifier()); err != nil {
		return err
	}
	if err := writeString(buf, rec.TargetExtensionPointID()); err != nil {
		return err
	}
	if err := writeString(buf, rec.LabelText()); err != nil {
		return err
	}
	return writeIDs(buf, children)
}

func decodeExtension(r io.Reader, id handle.ID) (handle.RegistryObject, error) {
	var bundleID int64
	if err := binary.Read(r, binary.LittleEndian, &bundleID); err != nil {
		return nil, err
	}
	simpleID, err := readString(r)
	if err != nil {
		return nil, err
	}
	extensionPointID, err := readString(r)
	if err != nil {
		return nil, err
	}
	label, err := readString(r)
	if err != nil {
		return nil, err
	}
	children, err := readIDs(r)
	if err != nil {
		return nil, err
	}
	return object.NewExtensionRecord(id, bundleID, simpleID, extensionPointID, label, children), nil
}

// encodeConfigurationElement writes a ConfigurationElement/
// ThirdLevelConfigurationElement main-file body. extraOffset is the value
// to persist for a third-level element (assigned by the writer once the
// extras-segment frame has been appended); it is ignored for a plain
// element.
func encodeConfigurationElement(buf *bytes.Buffer, bundleID int64, rec object.ConfigurationElementFields, children []handle.ID, extraOffset int64) error {
	if err := binary.Write(buf, binary.LittleEndian, bundleID); err != nil {
		return err
	}
	if err := writeString(buf, rec.ElementName()); err != nil {
		return err
	}
	if err := writeString(buf, rec.ElementValue()); err != nil {
		return err
	}
	if err := writeStrings(buf, rec.ElementAttributes()); err != nil {
		return err
	}
	if err := binary.Write(buf, binary.LittleEndian, int64(rec.ParentID())); err != nil {
		return err
	}
	if err := binary.Write(buf, binary.LittleEndian, uint8(rec.ParentKind())); err != nil {
		return err
	}
	if err := writeIDs(buf, children); err != nil {
		return err
	}
	if rec.IsThirdLevel() {
		return binary.Write(buf, binary.LittleEndian, extraOffset)
	}
	return nil
}

func decodeConfigurationElement(r io.Reader, id handle.ID, thirdLevel bool, extraData []byte) (handle.RegistryObject, error) {
	var bundleID int64
	if err := binary.Read(r, binary.LittleEndian, &bundleID); err != nil {
		return nil, err
	}
	name, err := readString(r)
	if err != nil {
		return nil, err
	}
	value, err := readString(r)
	if err != nil {
		return nil, err
	}
	attrs, err := readStrings(r)
	if err != nil {
		return nil, err
	}
	var parentID int64
	if err := binary.Read(r, binary.LittleEndian, &parentID); err != nil {
		return nil, err
	}
	var parentKind uint8
	if err := binary.Read(r, binary.LittleEndian, &parentKind); err != nil {
		return nil, err
	}
	children, err := readIDs(r)
	if err != nil {
		return nil, err
	}
	var extraOffset int64 = -1
	if thirdLevel {
		if err := binary.Read(r, binary.LittleEndian, &extraOffset); err != nil {
			return nil, err
		}
	}
	return object.NewConfigurationElementRecord(id, bundleID, name, value, attrs, handle.ID(parentID), handle.Kind(parentKind), children, thirdLevel, extraData, extraOffset), nil
}
