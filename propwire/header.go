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

	"github.com/propwire/propwire/go/propwire/bitio"
)

// ObjectHeader writes and reads the identification header in front of every
// object body, top-level and nested alike. The field encoding that follows
// is the same whatever header is in use.
type ObjectHeader interface {
	// WriteHeader identifies obj, which may be nil.
	WriteHeader(w *bitio.Writer, obj PropertyClass) error
	// ReadHeader reads a header and returns a blank instance of the type it
	// names, or nil for a null object.
	ReadHeader(r *bitio.Reader, types TypeResolver) (PropertyClass, error)
}

// HashHeader is the default header: the 32-bit content hash of the type,
// zero for a null object.
type HashHeader struct{}

func (HashHeader) WriteHeader(w *bitio.Writer, obj PropertyClass) error {
	if isNil(obj) {
		w.WriteUint32(0)
		return nil
	}
	w.WriteUint32(obj.PropertyType().Hash())
	return nil
}

func (HashHeader) ReadHeader(r *bitio.Reader, types TypeResolver) (PropertyClass, error) {
	hash := r.ReadUint32()
	if hash == 0 {
		return nil, nil
	}
	return instantiate(types, hash)
}

func instantiate(types TypeResolver, hash uint32) (PropertyClass, error) {
	info, ok := types.Lookup(hash)
	if !ok {
		return nil, fmt.Errorf("%w: 0x%08X", ErrUnknownType, hash)
	}
	return info.New(), nil
}

// CoreCategory is the category/subtype pair of a CoreObject type.
type CoreCategory struct {
	Category uint8
	Subtype  uint8
}

// IsZero reports whether c is the (0,0) pair meaning plain hash dispatch.
func (c CoreCategory) IsZero() bool {
	return c.Category == 0 && c.Subtype == 0
}

// CoreObjectHeader frames objects as [u8 category][u8 subtype][u32 id].
// Types listed in its table write their category pair followed by their
// template id; every other type writes (0,0) followed by its content hash.
type CoreObjectHeader struct {
	categories map[uint32]CoreCategory
	types      map[CoreCategory]uint32
}

// NewCoreObjectHeader builds the header from a table keyed by type hash.
// Entries mapping to (0,0) are ignored.
func NewCoreObjectHeader(table map[uint32]CoreCategory) *CoreObjectHeader {
	h := &CoreObjectHeader{
		categories: make(map[uint32]CoreCategory, len(table)),
		types:      make(map[CoreCategory]uint32, len(table)),
	}
	for hash, c := range table {
		if c.IsZero() {
			continue
		}
		h.categories[hash] = c
		h.types[c] = hash
	}
	return h
}

// Category returns the pair registered for a type hash, (0,0) if none.
func (h *CoreObjectHeader) Category(hash uint32) CoreCategory {
	return h.categories[hash]
}

func (h *CoreObjectHeader) WriteHeader(w *bitio.Writer, obj PropertyClass) error {
	if isNil(obj) {
		w.WriteUint8(0)
		w.WriteUint8(0)
		w.WriteUint32(0)
		return nil
	}
	hash := obj.PropertyType().Hash()
	c, ok := h.categories[hash]
	if !ok {
		w.WriteUint8(0)
		w.WriteUint8(0)
		w.WriteUint32(hash)
		return nil
	}
	var template uint32
	if tc, ok := obj.(TemplateCarrier); ok {
		template = tc.TemplateID()
	}
	w.WriteUint8(c.Category)
	w.WriteUint8(c.Subtype)
	w.WriteUint32(template)
	return nil
}

func (h *CoreObjectHeader) ReadHeader(r *bitio.Reader, types TypeResolver) (PropertyClass, error) {
	c := CoreCategory{Category: r.ReadUint8(), Subtype: r.ReadUint8()}
	id := r.ReadUint32()
	if c.IsZero() {
		if id == 0 {
			return nil, nil
		}
		return instantiate(types, id)
	}
	hash, ok := h.types[c]
	if !ok {
		return nil, fmt.Errorf("%w: core category (%d,%d)", ErrUnknownType, c.Category, c.Subtype)
	}
	obj, err := instantiate(types, hash)
	if err != nil {
		return nil, err
	}
	if tc, ok := obj.(TemplateCarrier); ok {
		tc.SetTemplateID(id)
	}
	return obj, nil
}
