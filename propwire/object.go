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
	"reflect"
)

// isNil reports whether obj is nil or a typed nil pointer.
func isNil(obj PropertyClass) bool {
	if obj == nil {
		return true
	}
	v := reflect.ValueOf(obj)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// assignObject converts a decoded object to the static type of a field.
// A nil object yields the zero value.
func assignObject[V PropertyClass](obj PropertyClass) (V, error) {
	var zero V
	if obj == nil {
		return zero, nil
	}
	v, ok := obj.(V)
	if !ok {
		return zero, fmt.Errorf("%w: decoded %s cannot be stored as %T",
			ErrTypeMismatch, obj.PropertyType().Name(), zero)
	}
	return v, nil
}

type objectCodec[T PropertyClass, V PropertyClass] struct {
	get func(T) *V
}

func (c objectCodec[T, V]) write(ctx *WriteContext, obj PropertyClass) error {
	t, err := accessTarget[T](obj)
	if err != nil {
		return err
	}
	return ctx.WriteObject(*c.get(t))
}

func (c objectCodec[T, V]) read(ctx *ReadContext, obj PropertyClass) error {
	t, err := accessTarget[T](obj)
	if err != nil {
		return err
	}
	decoded, err := ctx.ReadObject()
	if err != nil {
		return err
	}
	v, err := assignObject[V](decoded)
	if err != nil {
		return err
	}
	*c.get(t) = v
	return nil
}

func (c objectCodec[T, V]) value(obj PropertyClass) (any, error) {
	t, err := accessTarget[T](obj)
	if err != nil {
		return nil, err
	}
	v := *c.get(t)
	if isNil(v) {
		return nil, nil
	}
	return PropertyClass(v), nil
}

type objectListCodec[T PropertyClass, V PropertyClass] struct {
	get func(T) *[]V
}

func (c objectListCodec[T, V]) write(ctx *WriteContext, obj PropertyClass) error {
	t, err := accessTarget[T](obj)
	if err != nil {
		return err
	}
	values := *c.get(t)
	ctx.writer.WriteSeqLength(len(values))
	for _, v := range values {
		if err := ctx.WriteObject(v); err != nil {
			return err
		}
	}
	return nil
}

func (c objectListCodec[T, V]) read(ctx *ReadContext, obj PropertyClass) error {
	t, err := accessTarget[T](obj)
	if err != nil {
		return err
	}
	n, err := ctx.readCount()
	if err != nil {
		return err
	}
	values := makeList[V](n)
	for i := range values {
		decoded, err := ctx.ReadObject()
		if err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		if values[i], err = assignObject[V](decoded); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	*c.get(t) = values
	return nil
}

func (c objectListCodec[T, V]) value(obj PropertyClass) (any, error) {
	t, err := accessTarget[T](obj)
	if err != nil {
		return nil, err
	}
	values := *c.get(t)
	out := make([]PropertyClass, len(values))
	for i, v := range values {
		if !isNil(v) {
			out[i] = v
		}
	}
	return out, nil
}

// Object declares a field holding a nested, possibly polymorphic object.
// V is either a concrete pointer type or an interface satisfied by every
// type the field may hold.
func Object[T PropertyClass, V PropertyClass](name string, hash uint32, flags PropertyFlags, get func(T) *V) Field {
	return newField(name, hash, flags, ShapeObject, false, objectCodec[T, V]{get: get})
}

// ObjectList declares a sequence of nested objects.
func ObjectList[T PropertyClass, V PropertyClass](name string, hash uint32, flags PropertyFlags, get func(T) *[]V) Field {
	return newField(name, hash, flags, ShapeObject, true, objectListCodec[T, V]{get: get})
}
