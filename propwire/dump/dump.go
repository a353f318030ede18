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

// Package dump renders decoded property objects as generic trees for
// inspection tools: a map per object keyed by field name, with enums
// resolved to their symbols. Trees encode deterministically to CBOR.
package dump

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/propwire/propwire/go/propwire"
)

const (
	// TypeKey holds the type name of a dumped object.
	TypeKey = "$type"
	// HashKey holds the type hash of a dumped object.
	HashKey = "$hash"
)

// encMode uses Core Deterministic Encoding (RFC 8949 section 4.2) so the
// same tree always produces the same bytes.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("dump: CBOR encoder initialization failed: " + err.Error())
	}
}

// Options selects what a dump includes.
type Options struct {
	// Mask and Flags restrict the dump to the fields a serializer with the
	// same settings would encode. The zero value dumps every field.
	Mask  propwire.PropertyFlags
	Flags propwire.SerializerFlags
	// All ignores Mask and Flags, deprecated fields included.
	All bool
}

// Tree converts obj to a map keyed by field name. Nested objects become
// nested maps, enums become their symbol (or ordinal when the value has
// no symbol), and a nil object becomes nil.
func Tree(obj propwire.PropertyClass) (map[string]any, error) {
	return Options{All: true}.Tree(obj)
}

// Tree converts obj to a map keyed by field name.
func (o Options) Tree(obj propwire.PropertyClass) (map[string]any, error) {
	node, err := o.object(obj)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, nil
	}
	return node.(map[string]any), nil
}

// CBOR encodes the tree of obj with Core Deterministic Encoding.
func CBOR(obj propwire.PropertyClass) ([]byte, error) {
	return Options{All: true}.CBOR(obj)
}

// CBOR encodes the tree of obj with Core Deterministic Encoding.
func (o Options) CBOR(obj propwire.PropertyClass) ([]byte, error) {
	tree, err := o.Tree(obj)
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(tree)
}

// Diagnose renders CBOR produced by this package in diagnostic notation.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}

func (o Options) includes(f *propwire.Field) bool {
	return o.All || propwire.Eligible(f, o.Mask, o.Flags)
}

func (o Options) object(obj propwire.PropertyClass) (any, error) {
	if obj == nil {
		return nil, nil
	}
	if v := reflect.ValueOf(obj); v.Kind() == reflect.Pointer && v.IsNil() {
		return nil, nil
	}
	info := obj.PropertyType()
	node := map[string]any{
		TypeKey: info.Name(),
		HashKey: info.Hash(),
	}
	fields := info.Fields()
	for i := range fields {
		f := &fields[i]
		if !o.includes(f) {
			continue
		}
		v, err := f.Value(obj)
		if err != nil {
			return nil, fmt.Errorf("dump: %s.%s: %w", info.Name(), f.Name, err)
		}
		if node[f.Name], err = o.value(f, v); err != nil {
			return nil, fmt.Errorf("dump: %s.%s: %w", info.Name(), f.Name, err)
		}
	}
	return node, nil
}

func (o Options) value(f *propwire.Field, v any) (any, error) {
	switch f.Shape {
	case propwire.ShapeEnum:
		if f.IsList() {
			ordinals := v.([]int64)
			out := make([]any, len(ordinals))
			for i, ord := range ordinals {
				out[i] = enumSymbol(f.Enum(), ord)
			}
			return out, nil
		}
		return enumSymbol(f.Enum(), v.(int64)), nil
	case propwire.ShapeObject:
		if f.IsList() {
			objs := v.([]propwire.PropertyClass)
			out := make([]any, len(objs))
			for i, child := range objs {
				node, err := o.object(child)
				if err != nil {
					return nil, err
				}
				out[i] = node
			}
			return out, nil
		}
		if v == nil {
			return nil, nil
		}
		return o.object(v.(propwire.PropertyClass))
	default:
		return v, nil
	}
}

func enumSymbol(info *propwire.EnumInfo, v int64) any {
	if name, ok := info.NameOf(v); ok {
		return name
	}
	return v
}
