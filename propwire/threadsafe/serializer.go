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

// Package threadsafe provides a serializer wrapper for concurrent callers.
// Encoding scratch buffers come from a sync.Pool and the configuration is
// frozen at construction, so one instance can be shared freely.
package threadsafe

import (
	"sync"

	"github.com/propwire/propwire/go/propwire"
	"github.com/propwire/propwire/go/propwire/bitio"
)

// Serializer is a concurrency-safe wrapper around propwire.Serializer.
type Serializer struct {
	inner *propwire.Serializer
	pool  *sync.Pool
}

// New creates a serializer resolving types through types.
func New(types propwire.TypeResolver, opts ...propwire.Option) *Serializer {
	return wrap(propwire.New(types, opts...))
}

func wrap(inner *propwire.Serializer) *Serializer {
	return &Serializer{
		inner: inner,
		pool: &sync.Pool{
			New: func() any {
				return bitio.NewWriter(bitio.Options{})
			},
		},
	}
}

func (s *Serializer) acquire() *bitio.Writer {
	return s.pool.Get().(*bitio.Writer)
}

func (s *Serializer) release(w *bitio.Writer) {
	w.Reset()
	s.pool.Put(w)
}

// With returns a serializer with opts applied on top of the current
// configuration. The receiver is left unchanged.
func (s *Serializer) With(opts ...propwire.Option) *Serializer {
	return wrap(s.inner.With(opts...))
}

// Config returns the frozen configuration.
func (s *Serializer) Config() propwire.Config {
	return s.inner.Config()
}

// ============================================================================
// Encoding
// ============================================================================

// Marshal encodes obj using a pooled scratch writer.
func (s *Serializer) Marshal(obj propwire.PropertyClass) ([]byte, error) {
	w := s.acquire()
	defer s.release(w)
	return s.inner.MarshalBuffer(w, obj)
}

// MarshalFile encodes obj as a BiND file.
func (s *Serializer) MarshalFile(obj propwire.PropertyClass) ([]byte, error) {
	return s.inner.MarshalFile(obj)
}

// ============================================================================
// Decoding
// ============================================================================

// Unmarshal decodes an object produced by Marshal.
func (s *Serializer) Unmarshal(data []byte) (propwire.PropertyClass, error) {
	return s.inner.Unmarshal(data)
}

// UnmarshalInto decodes data into obj.
func (s *Serializer) UnmarshalInto(data []byte, obj propwire.PropertyClass) error {
	return s.inner.UnmarshalInto(data, obj)
}

// UnmarshalFile decodes a BiND file.
func (s *Serializer) UnmarshalFile(data []byte) (propwire.PropertyClass, error) {
	return s.inner.UnmarshalFile(data)
}
