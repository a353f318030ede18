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

// ============================================================================
// Primitive codecs
// ============================================================================

// Primitive encodes one scalar value type on a bit stream.
type Primitive[V any] struct {
	Name  string
	Write func(w *bitio.Writer, v V)
	Read  func(r *bitio.Reader) (V, error)
}

func infallible[V any](read func(r *bitio.Reader) V) func(r *bitio.Reader) (V, error) {
	return func(r *bitio.Reader) (V, error) { return read(r), nil }
}

var (
	Bool    = Primitive[bool]{"bool", (*bitio.Writer).WriteBool, infallible((*bitio.Reader).ReadBool)}
	Int8    = Primitive[int8]{"char", (*bitio.Writer).WriteInt8, infallible((*bitio.Reader).ReadInt8)}
	Uint8   = Primitive[uint8]{"unsigned char", (*bitio.Writer).WriteUint8, infallible((*bitio.Reader).ReadUint8)}
	Int16   = Primitive[int16]{"short", (*bitio.Writer).WriteInt16, infallible((*bitio.Reader).ReadInt16)}
	Uint16  = Primitive[uint16]{"unsigned short", (*bitio.Writer).WriteUint16, infallible((*bitio.Reader).ReadUint16)}
	Int32   = Primitive[int32]{"int", (*bitio.Writer).WriteInt32, infallible((*bitio.Reader).ReadInt32)}
	Uint32  = Primitive[uint32]{"unsigned int", (*bitio.Writer).WriteUint32, infallible((*bitio.Reader).ReadUint32)}
	Int64   = Primitive[int64]{"long", (*bitio.Writer).WriteInt64, infallible((*bitio.Reader).ReadInt64)}
	Uint64  = Primitive[uint64]{"unsigned long", (*bitio.Writer).WriteUint64, infallible((*bitio.Reader).ReadUint64)}
	Float32 = Primitive[float32]{"float", (*bitio.Writer).WriteFloat32, infallible((*bitio.Reader).ReadFloat32)}
	Float64 = Primitive[float64]{"double", (*bitio.Writer).WriteFloat64, infallible((*bitio.Reader).ReadFloat64)}

	String    = Primitive[string]{"std::string", (*bitio.Writer).WriteString, (*bitio.Reader).ReadString}
	WString   = Primitive[string]{"std::wstring", (*bitio.Writer).WriteWString, (*bitio.Reader).ReadWString}
	BigString = Primitive[string]{"bigstring", (*bitio.Writer).WriteBigString, (*bitio.Reader).ReadBigString}

	Vec2    = Primitive[bitio.Vec2]{"Vector2D", (*bitio.Writer).WriteVec2, infallible((*bitio.Reader).ReadVec2)}
	Vec3    = Primitive[bitio.Vec3]{"Vector3D", (*bitio.Writer).WriteVec3, infallible((*bitio.Reader).ReadVec3)}
	Quat    = Primitive[bitio.Quat]{"Quaternion", (*bitio.Writer).WriteQuat, infallible((*bitio.Reader).ReadQuat)}
	Matrix3 = Primitive[bitio.Matrix3]{"Matrix3x3", (*bitio.Writer).WriteMatrix3, infallible((*bitio.Reader).ReadMatrix3)}
	Rect    = Primitive[bitio.Rect]{"Rect", (*bitio.Writer).WriteRect, infallible((*bitio.Reader).ReadRect)}
	RectF   = Primitive[bitio.RectF]{"Rectf", (*bitio.Writer).WriteRectF, infallible((*bitio.Reader).ReadRectF)}
	Point   = Primitive[bitio.Point]{"Point", (*bitio.Writer).WritePoint, infallible((*bitio.Reader).ReadPoint)}
	Size    = Primitive[bitio.Size]{"Size", (*bitio.Writer).WriteSize, infallible((*bitio.Reader).ReadSize)}
	Color   = Primitive[bitio.Color]{"Color", (*bitio.Writer).WriteColor, infallible((*bitio.Reader).ReadColor)}
)

// Bits returns the codec of an unsigned integer that occupies width bits
// on the wire (1 to 32). Values are truncated to width bits on write.
func Bits(width int) Primitive[uint32] {
	checkWidth(width)
	return Primitive[uint32]{
		Name: fmt.Sprintf("bui%d", width),
		Write: func(w *bitio.Writer, v uint32) {
			w.WriteBits(uint64(v), width)
		},
		Read: func(r *bitio.Reader) (uint32, error) {
			return uint32(r.ReadBits(width)), nil
		},
	}
}

// SignedBits returns the codec of a two's-complement integer that occupies
// width bits on the wire (1 to 32). Decoded values are sign-extended.
func SignedBits(width int) Primitive[int32] {
	checkWidth(width)
	shift := 32 - width
	return Primitive[int32]{
		Name: fmt.Sprintf("bi%d", width),
		Write: func(w *bitio.Writer, v int32) {
			w.WriteBits(uint64(uint32(v)), width)
		},
		Read: func(r *bitio.Reader) (int32, error) {
			return int32(uint32(r.ReadBits(width))<<shift) >> shift, nil
		},
	}
}

func checkWidth(width int) {
	if width < 1 || width > 32 {
		panic(fmt.Sprintf("propwire: bit width %d out of range 1..32", width))
	}
}

// ============================================================================
// Scalar and sequence fields
// ============================================================================

type valueCodec[T PropertyClass, V any] struct {
	prim Primitive[V]
	get  func(T) *V
}

func (c valueCodec[T, V]) write(ctx *WriteContext, obj PropertyClass) error {
	t, err := accessTarget[T](obj)
	if err != nil {
		return err
	}
	c.prim.Write(ctx.writer, *c.get(t))
	return nil
}

func (c valueCodec[T, V]) read(ctx *ReadContext, obj PropertyClass) error {
	t, err := accessTarget[T](obj)
	if err != nil {
		return err
	}
	v, err := c.prim.Read(ctx.reader)
	if err != nil {
		return err
	}
	*c.get(t) = v
	return nil
}

func (c valueCodec[T, V]) value(obj PropertyClass) (any, error) {
	t, err := accessTarget[T](obj)
	if err != nil {
		return nil, err
	}
	return *c.get(t), nil
}

// makeList allocates a decoded sequence. An empty sequence decodes as nil.
func makeList[V any](n int) []V {
	if n == 0 {
		return nil
	}
	return make([]V, n)
}

type listCodec[T PropertyClass, V any] struct {
	prim Primitive[V]
	get  func(T) *[]V
}

func (c listCodec[T, V]) write(ctx *WriteContext, obj PropertyClass) error {
	t, err := accessTarget[T](obj)
	if err != nil {
		return err
	}
	values := *c.get(t)
	ctx.writer.WriteSeqLength(len(values))
	for _, v := range values {
		c.prim.Write(ctx.writer, v)
	}
	return nil
}

func (c listCodec[T, V]) read(ctx *ReadContext, obj PropertyClass) error {
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
		if values[i], err = c.prim.Read(ctx.reader); err != nil {
			return err
		}
	}
	*c.get(t) = values
	return nil
}

func (c listCodec[T, V]) value(obj PropertyClass) (any, error) {
	t, err := accessTarget[T](obj)
	if err != nil {
		return nil, err
	}
	return *c.get(t), nil
}

// Value declares a scalar field. get returns a pointer to the field inside
// an instance and is used for both encoding and decoding.
func Value[T PropertyClass, V any](name string, hash uint32, flags PropertyFlags, prim Primitive[V], get func(T) *V) Field {
	return newField(name, hash, flags, ShapeScalar, false, valueCodec[T, V]{prim: prim, get: get})
}

// List declares a sequence of scalars.
func List[T PropertyClass, V any](name string, hash uint32, flags PropertyFlags, prim Primitive[V], get func(T) *[]V) Field {
	return newField(name, hash, flags, ShapeScalar, true, listCodec[T, V]{prim: prim, get: get})
}
