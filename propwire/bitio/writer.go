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

package bitio

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf16"
)

// Writer appends bits and byte-aligned values to a growable buffer.
// Writes at a position before the end of the buffer overwrite in place,
// which is how placeholders (size fields) are patched after the fact.
type Writer struct {
	buf     []byte
	pos     int   // index of the byte the pending bits belong to
	bitOff  uint8 // bits held in pending, 0 when aligned
	pending byte
	opts    Options
	err     error
}

// NewWriter returns an empty Writer.
func NewWriter(opts Options) *Writer {
	return &Writer{opts: opts}
}

// Options returns the framing options of the stream.
func (w *Writer) Options() Options {
	return w.opts
}

// SetOptions changes the framing options for subsequent writes.
func (w *Writer) SetOptions(opts Options) {
	w.opts = opts
}

// Reset discards all written data, keeping the allocated buffer.
func (w *Writer) Reset() {
	w.err = nil
	w.buf = w.buf[:0]
	w.pos = 0
	w.bitOff = 0
	w.pending = 0
}

// Position returns the absolute bit offset of the next write.
func (w *Writer) Position() int {
	return w.pos<<3 + int(w.bitOff)
}

// Seek moves the write cursor to an absolute bit offset. Pending bits
// are merged into the buffer before moving, and a mid-byte target keeps
// the bits already stored below the offset.
func (w *Writer) Seek(bit int) {
	if bit < 0 {
		bit = 0
	}
	if w.bitOff > 0 {
		w.storePending()
	}
	w.pos = bit >> 3
	w.bitOff = uint8(bit & 7)
	w.pending = 0
	if w.bitOff > 0 {
		for len(w.buf) <= w.pos {
			w.buf = append(w.buf, 0)
		}
		w.pending = w.buf[w.pos] & lowMask(w.bitOff)
	}
}

// Len returns the number of bytes the stream occupies, counting a
// partially written byte.
func (w *Writer) Len() int {
	n := len(w.buf)
	if w.bitOff > 0 && w.pos >= n {
		n = w.pos + 1
	}
	return n
}

// Bytes realigns the stream and returns the written bytes. The slice
// aliases the internal buffer until the next write.
func (w *Writer) Bytes() []byte {
	w.Align()
	return w.buf
}

// Align flushes a pending partial byte, padding the remaining bits with
// zeros. It is a no-op on an aligned stream.
func (w *Writer) Align() {
	if w.bitOff == 0 {
		return
	}
	w.storePending()
	w.pos++
	w.bitOff = 0
	w.pending = 0
}

// storePending writes the pending bits at pos without moving the cursor.
// Bits of an existing byte above the pending ones are preserved.
func (w *Writer) storePending() {
	if w.pos < len(w.buf) {
		mask := lowMask(w.bitOff)
		w.buf[w.pos] = w.buf[w.pos]&^mask | w.pending&mask
		return
	}
	for len(w.buf) < w.pos {
		w.buf = append(w.buf, 0)
	}
	w.buf = append(w.buf, w.pending)
}

func (w *Writer) putByte(b byte) {
	if w.pos < len(w.buf) {
		w.buf[w.pos] = b
	} else {
		for len(w.buf) < w.pos {
			w.buf = append(w.buf, 0)
		}
		w.buf = append(w.buf, b)
	}
	w.pos++
}

// WriteBit writes a single bit.
func (w *Writer) WriteBit(bit bool) {
	if bit {
		w.pending |= 1 << w.bitOff
	}
	w.bitOff++
	if w.bitOff == 8 {
		w.putByte(w.pending)
		w.bitOff = 0
		w.pending = 0
	}
}

// WriteBits writes the low count bits of v, least-significant bit first.
func (w *Writer) WriteBits(v uint64, count int) {
	for i := 0; i < count; i++ {
		w.WriteBit(v&(1<<uint(i)) != 0)
	}
}

// WriteBool writes a boolean as one bit without realigning.
func (w *Writer) WriteBool(v bool) {
	w.WriteBit(v)
}

// WriteBytes writes a raw byte range.
func (w *Writer) WriteBytes(p []byte) {
	w.Align()
	for _, b := range p {
		w.putByte(b)
	}
}

func (w *Writer) WriteUint8(v uint8) {
	w.Align()
	w.putByte(v)
}

func (w *Writer) WriteInt8(v int8) {
	w.WriteUint8(uint8(v))
}

func (w *Writer) WriteUint16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.WriteBytes(b[:])
}

func (w *Writer) WriteInt16(v int16) {
	w.WriteUint16(uint16(v))
}

func (w *Writer) WriteUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.WriteBytes(b[:])
}

func (w *Writer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

func (w *Writer) WriteUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.WriteBytes(b[:])
}

func (w *Writer) WriteInt64(v int64) {
	w.WriteUint64(uint64(v))
}

func (w *Writer) WriteFloat32(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

func (w *Writer) WriteFloat64(v float64) {
	w.WriteUint64(math.Float64bits(v))
}

// Err returns the first length that did not fit its prefix, wrapped in
// ErrLengthOverflow. Writes continue after a failure, but the stream is
// unusable until Reset.
func (w *Writer) Err() error {
	return w.err
}

// checkLength records an overflow when n does not fit in limit.
func (w *Writer) checkLength(n int, limit uint64, prefix string) {
	if w.err == nil && (n < 0 || uint64(n) > limit) {
		w.err = fmt.Errorf("%w: %d does not fit a %s length prefix", ErrLengthOverflow, n, prefix)
	}
}

// WriteCompactLength writes n as a flag bit followed by 7 bits when n is
// below 127, or by 31 bits otherwise.
func (w *Writer) WriteCompactLength(n int) {
	w.checkLength(n, maxCompactLength, "compact")
	if n < shortLengthLimit {
		w.WriteBit(false)
		w.WriteBits(uint64(n), shortLengthBits)
		return
	}
	w.WriteBit(true)
	w.WriteBits(uint64(n), longLengthBits)
}

// WriteStringLength writes a string length prefix: compact, or u16.
func (w *Writer) WriteStringLength(n int) {
	if w.opts.CompactLengths {
		w.WriteCompactLength(n)
		return
	}
	w.checkLength(n, math.MaxUint16, "u16")
	w.WriteUint16(uint16(n))
}

// WriteSeqLength writes a sequence count prefix: compact, or u32.
func (w *Writer) WriteSeqLength(n int) {
	if w.opts.CompactLengths {
		w.WriteCompactLength(n)
		return
	}
	w.checkLength(n, math.MaxUint32, "u32")
	w.WriteUint32(uint32(n))
}

// WriteString writes a length-prefixed byte string.
func (w *Writer) WriteString(s string) {
	w.WriteStringLength(len(s))
	w.WriteBytes([]byte(s))
}

// WriteWString writes s as UTF-16LE. The prefix counts code units.
func (w *Writer) WriteWString(s string) {
	units := utf16.Encode([]rune(s))
	w.WriteStringLength(len(units))
	w.Align()
	for _, u := range units {
		w.putByte(byte(u))
		w.putByte(byte(u >> 8))
	}
}

// WriteBigString writes a byte string behind a u32 length regardless of
// the compact length setting.
func (w *Writer) WriteBigString(s string) {
	w.checkLength(len(s), math.MaxUint32, "u32")
	w.WriteUint32(uint32(len(s)))
	w.WriteBytes([]byte(s))
}

func (w *Writer) WriteVec2(v Vec2) {
	w.WriteFloat32(v.X)
	w.WriteFloat32(v.Y)
}

func (w *Writer) WriteVec3(v Vec3) {
	w.WriteFloat32(v.X)
	w.WriteFloat32(v.Y)
	w.WriteFloat32(v.Z)
}

func (w *Writer) WriteQuat(v Quat) {
	w.WriteFloat32(v.X)
	w.WriteFloat32(v.Y)
	w.WriteFloat32(v.Z)
	w.WriteFloat32(v.W)
}

func (w *Writer) WriteMatrix3(m Matrix3) {
	for _, f := range m {
		w.WriteFloat32(f)
	}
}

func (w *Writer) WriteRect(r Rect) {
	w.WriteInt32(r.Left)
	w.WriteInt32(r.Top)
	w.WriteInt32(r.Right)
	w.WriteInt32(r.Bottom)
}

func (w *Writer) WriteRectF(r RectF) {
	w.WriteFloat32(r.Left)
	w.WriteFloat32(r.Top)
	w.WriteFloat32(r.Right)
	w.WriteFloat32(r.Bottom)
}

func (w *Writer) WritePoint(p Point) {
	w.WriteInt32(p.X)
	w.WriteInt32(p.Y)
}

func (w *Writer) WriteSize(s Size) {
	w.WriteInt32(s.Width)
	w.WriteInt32(s.Height)
}

func (w *Writer) WriteColor(c Color) {
	w.WriteBytes([]byte{c.R, c.G, c.B, c.A})
}

func lowMask(bits uint8) byte {
	return byte(1<<bits) - 1
}
