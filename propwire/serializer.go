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
	"bytes"
	"fmt"
	"log/slog"

	"github.com/propwire/propwire/go/propwire/bitio"
)

// ============================================================================
// Options
// ============================================================================

// Option configures a Serializer.
type Option func(*Serializer)

// WithConfig replaces the whole configuration.
func WithConfig(config Config) Option {
	return func(s *Serializer) {
		s.config = config
	}
}

// WithMode sets the framing mode.
func WithMode(mode Mode) Option {
	return func(s *Serializer) {
		s.config.Mode = mode
	}
}

// WithFlags sets the behavior flags.
func WithFlags(flags SerializerFlags) Option {
	return func(s *Serializer) {
		s.config.Flags = flags
	}
}

// WithMask sets the property mask every field must contain to be encoded.
func WithMask(mask PropertyFlags) Option {
	return func(s *Serializer) {
		s.config.Mask = mask
	}
}

// WithMaxDepth bounds object nesting.
func WithMaxDepth(depth int) Option {
	return func(s *Serializer) {
		s.config.MaxDepth = depth
	}
}

// WithObjectHeader replaces the default HashHeader.
func WithObjectHeader(header ObjectHeader) Option {
	return func(s *Serializer) {
		s.header = header
	}
}

// WithFallback adds a registry consulted only when the primary one misses.
func WithFallback(types TypeResolver) Option {
	return func(s *Serializer) {
		s.fallback = types
	}
}

// WithLogger sets the logger used for debug records about skipped data.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Serializer) {
		s.logger = logger
	}
}

// ============================================================================
// Serializer
// ============================================================================

// Serializer encodes and decodes property objects.
//
// A Serializer is cheap and holds no per-call state, so one instance may
// run concurrent calls as long as its configuration is not changed while
// they are in flight. The TypeResolver it reads from must be fully
// populated before use.
type Serializer struct {
	config   Config
	types    TypeResolver
	fallback TypeResolver
	header   ObjectHeader
	logger   *slog.Logger
}

// New returns a serializer resolving types through types.
func New(types TypeResolver, opts ...Option) *Serializer {
	s := &Serializer{
		config: DefaultConfig(),
		types:  types,
		header: HashHeader{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.config.MaxDepth <= 0 {
		s.config.MaxDepth = DefaultMaxDepth
	}
	return s
}

// With returns a copy of s with opts applied.
func (s *Serializer) With(opts ...Option) *Serializer {
	c := *s
	for _, opt := range opts {
		opt(&c)
	}
	if c.config.MaxDepth <= 0 {
		c.config.MaxDepth = DefaultMaxDepth
	}
	return &c
}

// Config returns the current configuration.
func (s *Serializer) Config() Config {
	return s.config
}

// SetMode changes the framing mode between calls.
func (s *Serializer) SetMode(mode Mode) {
	s.config.Mode = mode
}

// SetFlags changes the behavior flags between calls.
func (s *Serializer) SetFlags(flags SerializerFlags) {
	s.config.Flags = flags
}

// SetMask changes the property mask between calls.
func (s *Serializer) SetMask(mask PropertyFlags) {
	s.config.Mask = mask
}

// Resolver returns the effective type resolver: the primary registry, then
// the fallback if one is configured.
func (s *Serializer) Resolver() TypeResolver {
	if s.fallback == nil {
		return s.types
	}
	return Chain(s.types, s.fallback)
}

// Eligible reports whether f takes part in encoding with the current
// mask and flags.
func (s *Serializer) Eligible(f *Field) bool {
	return Eligible(f, s.config.Mask, s.config.Flags)
}

func (s *Serializer) streamOptions() bitio.Options {
	return bitio.Options{CompactLengths: s.config.Flags.Has(FlagCompactLengths)}
}

// Marshal encodes obj, which may be nil, and compresses the result when
// FlagCompress is set.
func (s *Serializer) Marshal(obj PropertyClass) ([]byte, error) {
	w := bitio.NewWriter(s.streamOptions())
	if err := s.EncodeTo(w, obj); err != nil {
		return nil, err
	}
	data := w.Bytes()
	if s.config.Flags.Has(FlagCompress) {
		return compress(data)
	}
	return data, nil
}

// MarshalBuffer is like Marshal but encodes through a scratch writer owned
// by the caller. w is reset first; the returned slice does not alias it.
func (s *Serializer) MarshalBuffer(w *bitio.Writer, obj PropertyClass) ([]byte, error) {
	w.Reset()
	if err := s.EncodeTo(w, obj); err != nil {
		return nil, err
	}
	data := w.Bytes()
	if s.config.Flags.Has(FlagCompress) {
		return compress(data)
	}
	return bytes.Clone(data), nil
}

// Unmarshal decodes an object produced by Marshal with the same
// configuration. A null object decodes to nil with no error.
func (s *Serializer) Unmarshal(data []byte) (PropertyClass, error) {
	r, err := s.payloadReader(data)
	if err != nil {
		return nil, err
	}
	return s.DecodeFrom(r)
}

// UnmarshalInto decodes data into obj. The encoded object must be of
// exactly obj's type. On error obj may be partially written.
func (s *Serializer) UnmarshalInto(data []byte, obj PropertyClass) error {
	if isNil(obj) {
		return ErrNilObject
	}
	r, err := s.payloadReader(data)
	if err != nil {
		return err
	}
	if err := s.newReadContext(r).readObjectInto(obj); err != nil {
		return fmt.Errorf("propwire: decode: %w", err)
	}
	return nil
}

func (s *Serializer) payloadReader(data []byte) (*bitio.Reader, error) {
	if s.config.Flags.Has(FlagCompress) {
		inflated, err := decompress(data)
		if err != nil {
			return nil, err
		}
		data = inflated
	}
	return bitio.NewReader(data, s.streamOptions()), nil
}

// EncodeTo writes obj into a stream owned by the caller, for formats that
// embed property objects among their own data. Compression is not applied.
// A length that does not fit its prefix fails with bitio.ErrLengthOverflow.
func (s *Serializer) EncodeTo(w *bitio.Writer, obj PropertyClass) error {
	saved := w.Options()
	w.SetOptions(s.streamOptions())
	defer w.SetOptions(saved)

	ctx := &WriteContext{
		writer:   w,
		header:   s.header,
		mode:     s.config.Mode,
		flags:    s.config.Flags,
		mask:     s.config.Mask,
		maxDepth: s.config.MaxDepth,
		logger:   s.logger,
	}
	if err := ctx.WriteObject(obj); err != nil {
		return fmt.Errorf("propwire: encode: %w", err)
	}
	if err := w.Err(); err != nil {
		return fmt.Errorf("propwire: encode: %w", err)
	}
	return nil
}

// DecodeFrom reads one object from a stream owned by the caller.
func (s *Serializer) DecodeFrom(r *bitio.Reader) (PropertyClass, error) {
	saved := r.Options()
	r.SetOptions(s.streamOptions())
	defer r.SetOptions(saved)

	obj, err := s.newReadContext(r).ReadObject()
	if err != nil {
		return nil, fmt.Errorf("propwire: decode: %w", err)
	}
	return obj, nil
}

func (s *Serializer) newReadContext(r *bitio.Reader) *ReadContext {
	return &ReadContext{
		reader:   r,
		header:   s.header,
		types:    s.Resolver(),
		mode:     s.config.Mode,
		flags:    s.config.Flags,
		mask:     s.config.Mask,
		maxDepth: s.config.MaxDepth,
		logger:   s.logger,
	}
}
