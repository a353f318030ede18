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

// FileMagic opens every BiND file. On the wire it reads as the bytes "BINd".
const FileMagic uint32 = 0x644E4942

const fileHeaderSize = 8

// IsFile reports whether data starts with the BiND magic.
func IsFile(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	return bitio.NewReader(data[:4], bitio.Options{}).ReadUint32() == FileMagic
}

// FileFlags returns the serializer flags stored in a BiND header.
func FileFlags(data []byte) (SerializerFlags, error) {
	if len(data) < fileHeaderSize || !IsFile(data) {
		return 0, ErrBadMagic
	}
	return SerializerFlags(bitio.NewReader(data[4:fileHeaderSize], bitio.Options{}).ReadUint32()), nil
}

// MarshalFile encodes obj as a self-contained BiND file:
// [u32 magic][u32 flags][object payload], using the serializer's flags.
func (s *Serializer) MarshalFile(obj PropertyClass) ([]byte, error) {
	w := bitio.NewWriter(bitio.Options{})
	w.WriteUint32(FileMagic)
	w.WriteUint32(uint32(s.config.Flags))
	if s.config.Flags.Has(FlagCompactLengths) {
		// Readers consume one bit here; see UnmarshalFile.
		w.WriteBit(false)
	}
	header := w.Bytes()

	payload, err := s.Marshal(obj)
	if err != nil {
		return nil, err
	}
	return append(header, payload...), nil
}

// UnmarshalFile decodes a BiND file. The flags stored in the file replace
// the serializer's own for this call. Files written with compact lengths
// carry one extra bit between the header and the payload.
func (s *Serializer) UnmarshalFile(data []byte) (PropertyClass, error) {
	flags, err := FileFlags(data)
	if err != nil {
		return nil, err
	}
	r := bitio.NewReader(data, bitio.Options{})
	r.Seek(fileHeaderSize << 3)
	if flags.Has(FlagCompactLengths) {
		r.ReadBit()
	}
	r.Align()

	offset := r.Position() >> 3
	if offset > len(data) {
		return nil, fmt.Errorf("propwire: decode: file ends inside its header")
	}
	return s.With(WithFlags(flags)).Unmarshal(data[offset:])
}
