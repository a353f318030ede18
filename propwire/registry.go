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
	"sort"
)

// TypeResolver maps a content hash to a type descriptor. A miss is reported
// as (nil, false); the caller decides whether that is fatal.
type TypeResolver interface {
	Lookup(hash uint32) (*TypeInfo, bool)
}

// Registry is a hash-keyed table of property types.
//
// Registration is not synchronized: populate a Registry before it is shared,
// after which concurrent lookups are safe.
type Registry struct {
	types map[uint32]*TypeInfo
}

// NewRegistry returns a registry holding types.
func NewRegistry(types ...*TypeInfo) (*Registry, error) {
	r := &Registry{types: make(map[uint32]*TypeInfo, len(types))}
	if err := r.Register(types...); err != nil {
		return nil, err
	}
	return r, nil
}

// MustNewRegistry is like NewRegistry but panics on error. It is meant for
// package-level registries built from static descriptor tables.
func MustNewRegistry(types ...*TypeInfo) *Registry {
	r, err := NewRegistry(types...)
	if err != nil {
		panic(err)
	}
	return r
}

// Register adds types. Registering the same descriptor twice is a no-op;
// registering a different descriptor under a taken hash fails.
func (r *Registry) Register(types ...*TypeInfo) error {
	if r.types == nil {
		r.types = make(map[uint32]*TypeInfo)
	}
	for _, t := range types {
		if existing, ok := r.types[t.hash]; ok {
			if existing == t {
				continue
			}
			return fmt.Errorf("%w: 0x%08X claimed by %s and %s", ErrDuplicateType, t.hash, existing.name, t.name)
		}
		r.types[t.hash] = t
	}
	return nil
}

// Lookup implements TypeResolver.
func (r *Registry) Lookup(hash uint32) (*TypeInfo, bool) {
	t, ok := r.types[hash]
	return t, ok
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	return len(r.types)
}

// Types returns the registered types ordered by name.
func (r *Registry) Types() []*TypeInfo {
	out := make([]*TypeInfo, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

type chain []TypeResolver

// Chain returns a resolver that consults primary and then each fallback in
// order; the first hit wins.
func Chain(primary TypeResolver, fallbacks ...TypeResolver) TypeResolver {
	c := chain{primary}
	for _, f := range fallbacks {
		if f != nil {
			c = append(c, f)
		}
	}
	return c
}

func (c chain) Lookup(hash uint32) (*TypeInfo, bool) {
	for _, r := range c {
		if t, ok := r.Lookup(hash); ok {
			return t, true
		}
	}
	return nil, false
}
