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

	"github.com/spaolacci/murmur3"
)

// PropertyClass is implemented by every serializable object. The returned
// TypeInfo is the static descriptor table shared by all instances of the
// concrete type.
type PropertyClass interface {
	PropertyType() *TypeInfo
}

// TemplateCarrier is implemented by objects that remember the template id
// read from (and written to) a CoreObjectHeader.
type TemplateCarrier interface {
	TemplateID() uint32
	SetTemplateID(id uint32)
}

// Shape classifies the value a field holds.
type Shape uint8

const (
	ShapeScalar Shape = iota
	ShapeEnum
	ShapeObject
)

func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeEnum:
		return "enum"
	case ShapeObject:
		return "object"
	default:
		return fmt.Sprintf("Shape(%d)", uint8(s))
	}
}

// hashSeed is part of every derived hash and must not change.
const hashSeed = 47

// HashName derives a stable, non-zero 31-bit hash from a type or field
// name. Descriptor tables use it when no hash was taken from a type dump.
func HashName(name string) uint32 {
	h := murmur3.Sum32WithSeed([]byte(name), hashSeed) & 0x7FFFFFFF
	if h == 0 {
		h = 1
	}
	return h
}

// ============================================================================
// Field descriptors
// ============================================================================

// fieldCodec encodes and decodes one field of an object. Implementations are
// generic over the concrete object type and reach the field through a static
// accessor, so a codec is shared by every instance of the type.
type fieldCodec interface {
	write(ctx *WriteContext, obj PropertyClass) error
	read(ctx *ReadContext, obj PropertyClass) error
	value(obj PropertyClass) (any, error)
}

// Field describes one serializable member of a property type.
type Field struct {
	Name  string
	Hash  uint32
	Flags PropertyFlags
	Shape Shape
	List  bool

	enum  *EnumInfo
	codec fieldCodec
	// view maps an instance of the owning type to the instance the codec
	// expects; it is set on fields inherited from a base type.
	view func(PropertyClass) PropertyClass
}

// IsList reports whether the field holds a homogeneous sequence.
func (f *Field) IsList() bool { return f.List }

// IsEnum reports whether the field holds an enumerated value.
func (f *Field) IsEnum() bool { return f.Shape == ShapeEnum }

// Enum returns the symbol table of an enum field, nil otherwise.
func (f *Field) Enum() *EnumInfo { return f.enum }

// Value returns the current value of the field in obj: the scalar, enum
// ordinal (int64), nested object, or a slice of those.
func (f *Field) Value(obj PropertyClass) (any, error) {
	return f.codec.value(f.target(obj))
}

func (f *Field) target(obj PropertyClass) PropertyClass {
	if f.view != nil {
		return f.view(obj)
	}
	return obj
}

func (f *Field) write(ctx *WriteContext, obj PropertyClass) error {
	return f.codec.write(ctx, f.target(obj))
}

func (f *Field) read(ctx *ReadContext, obj PropertyClass) error {
	return f.codec.read(ctx, f.target(obj))
}

func newField(name string, hash uint32, flags PropertyFlags, shape Shape, list bool, codec fieldCodec) Field {
	if hash == 0 {
		hash = HashName(name)
	}
	return Field{Name: name, Hash: hash, Flags: flags, Shape: shape, List: list, codec: codec}
}

// accessTarget asserts obj to the concrete type a field accessor expects.
func accessTarget[T PropertyClass](obj PropertyClass) (T, error) {
	t, ok := obj.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: field of %T used on %T", ErrTypeMismatch, zero, obj)
	}
	return t, nil
}

// ============================================================================
// Type descriptors
// ============================================================================

// TypeInfo is the descriptor table of one concrete property type: its name,
// content hash, factory, and ordered fields. Base-type fields come first,
// followed by the type's own fields in declaration order.
type TypeInfo struct {
	name   string
	hash   uint32
	base   *TypeInfo
	fields []Field
	byHash map[uint32]int
	newFn  func() PropertyClass
}

// NewType builds the descriptor table for a type with no base. A zero hash
// is replaced by HashName(name). It panics on duplicate field hashes, which
// can only come from a broken table.
func NewType[T any, PT interface {
	*T
	PropertyClass
}](name string, hash uint32, fields ...Field) *TypeInfo {
	return buildType(name, hash, nil, func() PropertyClass { return PT(new(T)) }, fields)
}

// NewDerivedType builds the descriptor table for a type that embeds base.
// up returns the embedded base value of an instance; the base fields are
// rebound through it and placed before fields.
func NewDerivedType[T any, PT interface {
	*T
	PropertyClass
}, B PropertyClass](name string, hash uint32, base *TypeInfo, up func(PT) B, fields ...Field) *TypeInfo {
	all := make([]Field, 0, len(base.fields)+len(fields))
	for _, f := range base.fields {
		inner := f.view
		f.view = func(obj PropertyClass) PropertyClass {
			d, ok := obj.(PT)
			if !ok {
				return obj
			}
			var b PropertyClass = up(d)
			if inner != nil {
				b = inner(b)
			}
			return b
		}
		all = append(all, f)
	}
	all = append(all, fields...)
	return buildType(name, hash, base, func() PropertyClass { return PT(new(T)) }, all)
}

func buildType(name string, hash uint32, base *TypeInfo, newFn func() PropertyClass, fields []Field) *TypeInfo {
	if hash == 0 {
		hash = HashName(name)
	}
	info := &TypeInfo{
		name:   name,
		hash:   hash,
		base:   base,
		fields: fields,
		byHash: make(map[uint32]int, len(fields)),
		newFn:  newFn,
	}
	for i, f := range fields {
		if j, dup := info.byHash[f.Hash]; dup {
			panic(fmt.Sprintf("propwire: type %s: fields %s and %s share hash 0x%08X",
				name, fields[j].Name, f.Name, f.Hash))
		}
		info.byHash[f.Hash] = i
	}
	return info
}

// Name returns the type's name.
func (t *TypeInfo) Name() string { return t.name }

// Hash returns the type's content hash.
func (t *TypeInfo) Hash() uint32 { return t.hash }

// Base returns the base type, nil for a root type.
func (t *TypeInfo) Base() *TypeInfo { return t.base }

// Fields returns the ordered field table. Callers must not modify it.
func (t *TypeInfo) Fields() []Field { return t.fields }

// NumFields returns the number of fields, inherited ones included.
func (t *TypeInfo) NumFields() int { return len(t.fields) }

// FieldByHash finds a field by its hash.
func (t *TypeInfo) FieldByHash(hash uint32) (*Field, bool) {
	i, ok := t.byHash[hash]
	if !ok {
		return nil, false
	}
	return &t.fields[i], true
}

// FieldByName finds a field by its name.
func (t *TypeInfo) FieldByName(name string) (*Field, bool) {
	for i := range t.fields {
		if t.fields[i].Name == name {
			return &t.fields[i], true
		}
	}
	return nil, false
}

// New returns a blank instance of the type.
func (t *TypeInfo) New() PropertyClass {
	return t.newFn()
}

// IsA reports whether t is other or derives from it.
func (t *TypeInfo) IsA(other *TypeInfo) bool {
	for c := t; c != nil; c = c.base {
		if c == other {
			return true
		}
	}
	return false
}

func (t *TypeInfo) String() string {
	return fmt.Sprintf("%s(0x%08X)", t.name, t.hash)
}
