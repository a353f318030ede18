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
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// compressedHeaderSize is the little-endian uncompressed length in front of
// the raw deflate stream.
const compressedHeaderSize = 4

// compress wraps data as [u32 LE uncompressed length][raw deflate].
func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(compressedHeaderSize + len(data)/2)

	var header [compressedHeaderSize]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(data)))
	buf.Write(header[:])

	fw, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("propwire: deflate: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return nil, fmt.Errorf("propwire: deflate: %w", err)
	}
	if err := fw.Close(); err != nil {
		return nil, fmt.Errorf("propwire: deflate: %w", err)
	}
	return buf.Bytes(), nil
}

// decompress reverses compress and verifies the recorded length.
func decompress(data []byte) ([]byte, error) {
	if len(data) < compressedHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes cannot hold the length header", ErrCompressedLength, len(data))
	}
	want := binary.LittleEndian.Uint32(data)

	fr := flate.NewReader(bytes.NewReader(data[compressedHeaderSize:]))
	defer fr.Close()

	// Read at most one byte past the recorded length so an oversized
	// stream is detected without inflating all of it.
	out, err := io.ReadAll(io.LimitReader(fr, int64(want)+1))
	if err != nil {
		return nil, fmt.Errorf("propwire: inflate: %w", err)
	}
	if uint64(len(out)) != uint64(want) {
		return nil, fmt.Errorf("%w: recorded %d bytes, inflated %d", ErrCompressedLength, want, len(out))
	}
	return out, nil
}
