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

// Reader consumes bits and byte-aligned values from a fixed buffer.
type Reader struct {
	buf    []byte
	pos    int   // index of the next byte to load
	bitOff uint8 // bits consumed from cur; 8 means nothing buffered
	cur    byte
	opts   Options
}

// NewReader returns a Reader over data.
func NewReader(data []byte, opts Options) *Reader {
	return &Reader{buf: data, bitOff: 8, opts: opts}
}

// Options returns the framing options of the stream.
func (r *Reader) Options() Options {
	return r.opts
}

// SetOptions changes the framing options for subsequent reads.
func (r *Reader) SetOptions(opts Options) {
	r.opts = opts
}

// Position returns the absolute bit offset of the next read.
func (r *Reader) Position() int {
	if r.bitOff == 8 {
		return r.pos << 3
	}
	return (r.pos-1)<<3 + int(r.bitOff)
}

// Seek moves the read cursor to an absolute bit offset, including
// offsets in the middle of a byte.
func (r *Reader) Seek(bit int) {
	if bit < 0 {
		bit = 0
	}
	r.pos = bit >> 3
	r.bitOff = 8
	for i := 0; i < bit&7; i++ {
		r.ReadBit()
	}
}

// Len returns the size of the underlying input in bytes.
func (r *Reader) Len() int {
	return len(r.buf)
}

// Remaining returns the number of unread bits, zero once the cursor has
// moved past the end.
func (r *Reader) Remaining() int {
	n := len(r.buf)<<3 - r.Position()
	if n < 0 {
		return 0
	}
	return n
}

// Align discards the unread bits of a partially consumed byte.
func (r *Reader) Align() {
	r.bitOff = 8
}

func (r *Reader) nextByte() byte {
	var b byte
	if r.pos < len(r.buf) {
		b = r.buf[r.pos]
	}
	r.pos++
	return b
}

// ReadBit reads a single bit. Past the end of the input it returns false.
func (r *Reader) ReadBit() bool {
	if r.bitOff == 8 {
		r.cur = r.nextByte()
		r.bitOff = 0
	}
	bit := r.cur&(1<<r.bitOff) != 0
	r.bitOff++
	return bit
}

// ReadBits reads count bits, least-significant bit first.
func (r *Reader) ReadBits(count int) uint64 {
	var v uint64
	for i := 0; i < count; i++ {
		if r.ReadBit() {
			v |= 1 << uint(i)
		}
	}
	return v
}

// ReadBool reads a one-bit boolean without realigning.
func (r *Reader) ReadBool() bool {
	return r.ReadBit()
}

// readFixed realigns and fills p, zero-filling anything past the end.
func (r *Reader) readFixed(p []byte) {
	r.Align()
	for i := range p {
		p[i] = r.nextByte()
	}
}

// ReadBytes reads n raw bytes. A length running past the end of the
// input is rejected before anything is allocated. A zero length always
// succeeds, so empty strings in a truncated tail decode like any other
// zero value.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	r.Align()
	if n == 0 {
		return []byte{}, nil
	}
	avail := max(len(r.buf)-r.pos, 0)
	if n < 0 || n > avail {
		return nil, fmt.Errorf("%w: %d bytes requested, %d available", ErrLengthOverflow, n, avail)
	}
	p := make([]byte, n)
	copy(p, r.buf[r.pos:r.pos+n])
	r.pos += n
	return p, nil
}

func (r *Reader) ReadUint8() uint8 {
	var b [1]byte
	r.readFixed(b[:])
	return b[0]
}

func (r *Reader) ReadInt8() int8 {
	return int8(r.ReadUint8())
}

func (r *Reader) ReadUint16() uint16 {
	var b [2]byte
	r.readFixed(b[:])
	return binary.LittleEndian.Uint16(b[:])
}

func (r *Reader) ReadInt16() int16 {
	return int16(r.ReadUint16())
}

func (r *Reader) ReadUint32() uint32 {
	var b [4]byte
	r.readFixed(b[:])
	return binary.LittleEndian.Uint32(b[:])
}

func (r *Reader) ReadInt32() int32 {
	return int32(r.ReadUint32())
}

func (r *Reader) ReadUint64() uint64 {
	var b [8]byte
	r.readFixed(b[:])
	return binary.LittleEndian.Uint64(b[:])
}

func (r *Reader) ReadInt64() int64 {
	return int64(r.ReadUint64())
}

func (r *Reader) ReadFloat32() float32 {
	return math.Float32frombits(r.ReadUint32())
}

func (r *Reader) ReadFloat64() float64 {
	return math.Float64frombits(r.ReadUint64())
}

// ReadCompactLength reads a length written by Writer.WriteCompactLength.
func (r *Reader) ReadCompactLength() int {
	if r.ReadBit() {
		return int(r.ReadBits(longLengthBits))
	}
	return int(r.ReadBits(shortLengthBits))
}

// ReadStringLength reads a string length prefix.
func (r *Reader) ReadStringLength() int {
	if r.opts.CompactLengths {
		return r.ReadCompactLength()
	}
	return int(r.ReadUint16())
}

// ReadSeqLength reads a sequence count prefix.
func (r *Reader) ReadSeqLength() int {
	if r.opts.CompactLengths {
		return r.ReadCompactLength()
	}
	return int(r.ReadUint32())
}

// ReadString reads a length-prefixed byte string.
func (r *Reader) ReadString() (string, error) {
	p, err := r.ReadBytes(r.ReadStringLength())
	if err != nil {
		return "", err
	}
	return string(p), nil
}

// ReadWString reads a UTF-16LE string whose prefix counts code units.
func (r *Reader) ReadWString() (string, error) {
	n := r.ReadStringLength()
	p, err := r.ReadBytes(n * 2)
	if err != nil {
		return "", err
	}
	units := make([]uint16, n)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(p[i*2:])
	}
	return string(utf16.Decode(units)), nil
}

// ReadBigString reads a byte string behind a u32 length.
func (r *Reader) ReadBigString() (string, error) {
	p, err := r.ReadBytes(int(r.ReadUint32()))
	if err != nil {
		return "", err
	}
	return string(p), nil
}

func (r *Reader) ReadVec2() Vec2 {
	return Vec2{X: r.ReadFloat32(), Y: r.ReadFloat32()}
}

func (r *Reader) ReadVec3() Vec3 {
	return Vec3{X: r.ReadFloat32(), Y: r.ReadFloat32(), Z: r.ReadFloat32()}
}

func (r *Reader) ReadQuat() Quat {
	return Quat{X: r.ReadFloat32(), Y: r.ReadFloat32(), Z: r.ReadFloat32(), W: r.ReadFloat32()}
}

func (r *Reader) ReadMatrix3() Matrix3 {
	var m Matrix3
	for i := range m {
		m[i] = r.ReadFloat32()
	}
	return m
}

func (r *Reader) ReadRect() Rect {
	return Rect{Left: r.ReadInt32(), Top: r.ReadInt32(), Right: r.ReadInt32(), Bottom: r.ReadInt32()}
}

func (r *Reader) ReadRectF() RectF {
	return RectF{Left: r.ReadFloat32(), Top: r.ReadFloat32(), Right: r.ReadFloat32(), Bottom: r.ReadFloat32()}
}

func (r *Reader) ReadPoint() Point {
	return Point{X: r.ReadInt32(), Y: r.ReadInt32()}
}

func (r *Reader) ReadSize() Size {
	return Size{Width: r.ReadInt32(), Height: r.ReadInt32()}
}

func (r *Reader) ReadColor() Color {
	var b [4]byte
	r.readFixed(b[:])
	return Color{R: b[0], G: b[1], B: b[2], A: b[3]}
}
