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

// Package bitio implements the bit-addressed stream primitives of the
// property object format: a Writer and a Reader that move through a byte
// buffer one bit at a time, plus the fixed-width scalar, string and
// geometric value codecs built on top of them.
//
// Bits are numbered from the least-significant bit of the first byte
// toward its most-significant bit, then continue at the least-significant
// bit of the next byte. Every byte-aligned primitive realigns the stream
// first: a Writer pads its pending byte with zeros, a Reader discards the
// rest of a partially consumed byte. Reading past the end of the input
// yields zero bits rather than an error so that truncated optional tails
// decode as zero values.
package bitio

import (
	"errors"
)

// ErrLengthOverflow indicates a length prefix that claims more data than
// the remaining input holds.
var ErrLengthOverflow = errors.New("bitio: declared length exceeds remaining input")

const (
	// shortLengthLimit is the first length that needs the long compact form.
	shortLengthLimit = 0x7F

	shortLengthBits = 7
	longLengthBits  = 31

	maxCompactLength = 1<<longLengthBits - 1
)

// Vec2 is a two-component float vector.
type Vec2 struct {
	X, Y float32
}

// Vec3 is a three-component float vector.
type Vec3 struct {
	X, Y, Z float32
}

// Quat is a quaternion stored as four floats in X, Y, Z, W order.
type Quat struct {
	X, Y, Z, W float32
}

// Matrix3 is a row-major 3x3 float matrix.
type Matrix3 [9]float32

// Rect is an integer rectangle.
type Rect struct {
	Left, Top, Right, Bottom int32
}

// RectF is a float rectangle.
type RectF struct {
	Left, Top, Right, Bottom float32
}

// Point is an integer coordinate pair.
type Point struct {
	X, Y int32
}

// Size is an integer extent.
type Size struct {
	Width, Height int32
}

// Color is a 32-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Options configures how a stream frames variable-length values.
type Options struct {
	// CompactLengths selects the variable-width length prefix for strings
	// and sequences instead of the fixed u16 (string) and u32 (sequence)
	// prefixes.
	CompactLengths bool
}
