// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package propwire

import (
	"fmt"
	"log/slog"

	"github.com/propwire/propwire/go/propwire/bitio"
)

// Eligible reports whether a field takes part in an encode or decode: its
// flags must contain every bit of the mask, and a deprecated field is kept
// only when dirty encoding is on and the field is marked PropAlwaysEncode.
func Eligible(f *Field, mask PropertyFlags, flags SerializerFlags) bool {
	if f.Flags&mask != mask {
		return false
	}
	if !f.Flags.Has(PropDeprecated) {
		return true
	}
	return flags.Has(FlagDirtyEncode) && f.Flags.Has(PropAlwaysEncode)
}

// ============================================================================
// WriteContext - Holds all state needed during serialization
// ============================================================================

// WriteContext carries the state of one encode call.
type WriteContext struct {
	writer   *bitio.Writer
	header   ObjectHeader
	mode     Mode
	flags    SerializerFlags
	mask     PropertyFlags
	depth    int
	maxDepth int
	logger   *slog.Logger
}

// Writer returns the underlying bit stream.
func (c *WriteContext) Writer() *bitio.Writer {
	return c.writer
}

// WriteObject writes the object header followed by the object body. A nil
// object writes a null header only.
func (c *WriteContext) WriteObject(obj PropertyClass) error {
	if isNil(obj) {
		return c.header.WriteHeader(c.writer, nil)
	}
	if c.depth >= c.maxDepth {
		return fmt.Errorf("%w: %d", ErrMaxDepth, c.maxDepth)
	}
	c.depth++
	defer func() { c.depth-- }()

	if err := c.header.WriteHeader(c.writer, obj); err != nil {
		return err
	}
	info := obj.PropertyType()
	if c.mode == Versionable {
		return c.writeVersionable(obj, info)
	}
	return c.writeCompact(obj, info)
}

func (c *WriteContext) writeCompact(obj PropertyClass, info *TypeInfo) error {
	for i := range info.fields {
		f := &info.fields[i]
		if !Eligible(f, c.mask, c.flags) {
			continue
		}
		if err := f.write(c, obj); err != nil {
			return fmt.Errorf("%s.%s: %w", info.name, f.Name, err)
		}
	}
	return nil
}

// writeVersionable frames the body as a bit size followed by a sequence of
// (bit size, hash, payload) properties. Sizes count from the first bit of
// the size field and are patched in once the payload is written.
func (c *WriteContext) writeVersionable(obj PropertyClass, info *TypeInfo) error {
	w := c.writer
	w.Align()
	objStart := w.Position()
	w.WriteUint32(0)

	for i := range info.fields {
		f := &info.fields[i]
		if !Eligible(f, c.mask, c.flags) {
			continue
		}
		w.Align()
		start := w.Position()
		w.WriteUint32(0)
		w.WriteUint32(f.Hash)
		if err := f.write(c, obj); err != nil {
			return fmt.Errorf("%s.%s: %w", info.name, f.Name, err)
		}
		patchSize(w, start)
	}
	patchSize(w, objStart)
	return nil
}

func patchSize(w *bitio.Writer, start int) {
	end := w.Position()
	w.Seek(start)
	w.WriteUint32(uint32(end - start))
	w.Seek(end)
}

// ============================================================================
// ReadContext - Holds all state needed during deserialization
// ============================================================================

// ReadContext carries the state of one decode call.
type ReadContext struct {
	reader   *bitio.Reader
	header   ObjectHeader
	types    TypeResolver
	mode     Mode
	flags    SerializerFlags
	mask     PropertyFlags
	depth    int
	maxDepth int
	logger   *slog.Logger
}

// Reader returns the underlying bit stream.
func (c *ReadContext) Reader() *bitio.Reader {
	return c.reader
}

// ReadObject reads an object header and, unless it names a null object, a
// freshly instantiated object body. No partially decoded object is returned
// on error.
func (c *ReadContext) ReadObject() (PropertyClass, error) {
	obj, err := c.header.ReadHeader(c.reader, c.types)
	if err != nil {
		c.logger.Debug("object header rejected", "bit", c.reader.Position(), "error", err)
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	if c.depth >= c.maxDepth {
		return nil, fmt.Errorf("%w: %d", ErrMaxDepth, c.maxDepth)
	}
	if err := c.readBody(obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// readObjectInto reads an object whose header must name the type of obj and
// decodes the body into obj.
func (c *ReadContext) readObjectInto(obj PropertyClass) error {
	decoded, err := c.header.ReadHeader(c.reader, c.types)
	if err != nil {
		return err
	}
	if decoded == nil {
		return fmt.Errorf("%w: stream holds a null object", ErrNilObject)
	}
	want := obj.PropertyType()
	if got := decoded.PropertyType(); got != want {
		return fmt.Errorf("%w: stream holds %s, target is %s", ErrTypeMismatch, got, want)
	}
	if src, ok := decoded.(TemplateCarrier); ok {
		if dst, ok := obj.(TemplateCarrier); ok {
			dst.SetTemplateID(src.TemplateID())
		}
	}
	return c.readBody(obj)
}

func (c *ReadContext) readBody(obj PropertyClass) error {
	c.depth++
	defer func() { c.depth-- }()

	info := obj.PropertyType()
	if c.mode == Versionable {
		return c.readVersionable(obj, info)
	}
	return c.readCompact(obj, info)
}

func (c *ReadContext) readCompact(obj PropertyClass, info *TypeInfo) error {
	for i := range info.fields {
		f := &info.fields[i]
		if !Eligible(f, c.mask, c.flags) {
			continue
		}
		if err := f.read(c, obj); err != nil {
			return fmt.Errorf("%s.%s: %w", info.name, f.Name, err)
		}
	}
	return nil
}

const propertyHeaderBits = 64

func (c *ReadContext) readVersionable(obj PropertyClass, info *TypeInfo) error {
	r := c.reader
	r.Align()
	objStart := r.Position()
	objSize := int(r.ReadUint32())
	objEnd := objStart + objSize
	if objSize < 32 || objEnd > r.Len()<<3 {
		return fmt.Errorf("%w: %s declares %d bits at bit %d of %d",
			ErrSizeMismatch, info.name, objSize, objStart, r.Len()<<3)
	}

	for r.Position() < objEnd {
		r.Align()
		start := r.Position()
		size := int(r.ReadUint32())
		if size == 0 {
			return fmt.Errorf("%w: %s at bit %d", ErrZeroPropertySize, info.name, start)
		}
		end := start + size
		if size < propertyHeaderBits || end > objEnd {
			return fmt.Errorf("%w: %s property at bit %d declares %d bits, object ends at %d",
				ErrSizeMismatch, info.name, start, size, objEnd)
		}
		hash := r.ReadUint32()

		f, ok := info.FieldByHash(hash)
		if !ok || !Eligible(f, c.mask, c.flags) {
			c.logger.Debug("skipping property",
				"type", info.name, "hash", fmt.Sprintf("0x%08X", hash), "bits", size, "known", ok)
			r.Seek(end)
			continue
		}
		if err := f.read(c, obj); err != nil {
			return fmt.Errorf("%s.%s: %w", info.name, f.Name, err)
		}
		if pos := r.Position(); pos != end {
			return fmt.Errorf("%w: %s.%s ended at bit %d, declared end %d",
				ErrSizeMismatch, info.name, f.Name, pos, end)
		}
	}
	if pos := r.Position(); pos != objEnd {
		return fmt.Errorf("%w: %s ended at bit %d, declared end %d", ErrSizeMismatch, info.name, pos, objEnd)
	}
	return nil
}

// readCount reads a sequence count and rejects counts that cannot fit in the
// remaining input, every element taking at least one bit.
func (c *ReadContext) readCount() (int, error) {
	n := c.reader.ReadSeqLength()
	if n < 0 || n > c.reader.Remaining() {
		return 0, fmt.Errorf("%w: sequence of %d elements, %d bits left",
			bitio.ErrLengthOverflow, n, c.reader.Remaining())
	}
	return n, nil
}
