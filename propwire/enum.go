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
	"strconv"
	"strings"
)

// Integer is the set of types an enum field may be declared with.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// EnumValue is one symbol of an enumeration.
type EnumValue struct {
	Name  string
	Value int64
}

// EnumInfo is the symbol table of an enumeration. Enums travel either as
// 32-bit ordinals or, with FlagEnumAsString, as their symbolic names.
type EnumInfo struct {
	name    string
	values  []EnumValue
	byValue map[int64]string
	byName  map[string]int64
}

// NewEnum builds a symbol table. The first name given for a value is the
// one written on encode.
func NewEnum(name string, values ...EnumValue) *EnumInfo {
	e := &EnumInfo{
		name:    name,
		values:  values,
		byValue: make(map[int64]string, len(values)),
		byName:  make(map[string]int64, len(values)),
	}
	for _, v := range values {
		if _, ok := e.byValue[v.Value]; !ok {
			e.byValue[v.Value] = v.Name
		}
		e.byName[normalizeEnumName(v.Name)] = v.Value
	}
	return e
}

// Name returns the enumeration's name.
func (e *EnumInfo) Name() string { return e.name }

// Values returns the declared symbols in declaration order.
func (e *EnumInfo) Values() []EnumValue { return e.values }

// NameOf returns the symbol of v.
func (e *EnumInfo) NameOf(v int64) (string, bool) {
	name, ok := e.byValue[v]
	return name, ok
}

// Parse resolves a symbol written by any producer of the format. Hyphens
// match underscores, case is ignored, and a namespace-qualified name such as
// "LootType::LOOT_GOLD" matches on its last segment. A decimal ordinal is
// accepted as-is.
func (e *EnumInfo) Parse(s string) (int64, error) {
	if v, ok := e.byName[normalizeEnumName(s)]; ok {
		return v, nil
	}
	if v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
		return v, nil
	}
	return 0, fmt.Errorf("%w: %q is not a member of %s", ErrUnknownEnum, s, e.name)
}

func normalizeEnumName(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, "::"); i >= 0 {
		s = s[i+2:]
	}
	return strings.ToUpper(strings.ReplaceAll(s, "-", "_"))
}

func writeEnum(ctx *WriteContext, info *EnumInfo, v int64) {
	if ctx.flags.Has(FlagEnumAsString) {
		name, ok := info.NameOf(v)
		if !ok {
			name = strconv.FormatInt(v, 10)
		}
		ctx.writer.WriteString(name)
		return
	}
	ctx.writer.WriteUint32(uint32(v))
}

func readEnum(ctx *ReadContext, info *EnumInfo) (int64, error) {
	if ctx.flags.Has(FlagEnumAsString) {
		name, err := ctx.reader.ReadString()
		if err != nil {
			return 0, err
		}
		return info.Parse(name)
	}
	return int64(int32(ctx.reader.ReadUint32())), nil
}

type enumCodec[T PropertyClass, E Integer] struct {
	info *EnumInfo
	get  func(T) *E
}

func (c enumCodec[T, E]) write(ctx *WriteContext, obj PropertyClass) error {
	t, err := accessTarget[T](obj)
	if err != nil {
		return err
	}
	writeEnum(ctx, c.info, int64(*c.get(t)))
	return nil
}

func (c enumCodec[T, E]) read(ctx *ReadContext, obj PropertyClass) error {
	t, err := accessTarget[T](obj)
	if err != nil {
		return err
	}
	v, err := readEnum(ctx, c.info)
	if err != nil {
		return err
	}
	*c.get(t) = E(v)
	return nil
}

func (c enumCodec[T, E]) value(obj PropertyClass) (any, error) {
	t, err := accessTarget[T](obj)
	if err != nil {
		return nil, err
	}
	return int64(*c.get(t)), nil
}

type enumListCodec[T PropertyClass, E Integer] struct {
	info *EnumInfo
	get  func(T) *[]E
}

func (c enumListCodec[T, E]) write(ctx *WriteContext, obj PropertyClass) error {
	t, err := accessTarget[T](obj)
	if err != nil {
		return err
	}
	values := *c.get(t)
	ctx.writer.WriteSeqLength(len(values))
	for _, v := range values {
		writeEnum(ctx, c.info, int64(v))
	}
	return nil
}

func (c enumListCodec[T, E]) read(ctx *ReadContext, obj PropertyClass) error {
	t, err := accessTarget[T](obj)
	if err != nil {
		return err
	}
	n, err := ctx.readCount()
	if err != nil {
		return err
	}
	values := makeList[E](n)
	for i := range values {
		v, err := readEnum(ctx, c.info)
		if err != nil {
			return err
		}
		values[i] = E(v)
	}
	*c.get(t) = values
	return nil
}

func (c enumListCodec[T, E]) value(obj PropertyClass) (any, error) {
	t, err := accessTarget[T](obj)
	if err != nil {
		return nil, err
	}
	values := *c.get(t)
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = int64(v)
	}
	return out, nil
}

// Enum declares an enumerated field. PropEnum is added to flags.
func Enum[T PropertyClass, E Integer](name string, hash uint32, flags PropertyFlags, info *EnumInfo, get func(T) *E) Field {
	f := newField(name, hash, flags|PropEnum, ShapeEnum, false, enumCodec[T, E]{info: info, get: get})
	f.enum = info
	return f
}

// EnumList declares a sequence of enumerated values.
func EnumList[T PropertyClass, E Integer](name string, hash uint32, flags PropertyFlags, info *EnumInfo, get func(T) *[]E) Field {
	f := newField(name, hash, flags|PropEnum, ShapeEnum, true, enumListCodec[T, E]{info: info, get: get})
	f.enum = info
	return f
}
