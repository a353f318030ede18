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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/propwire/propwire/go/propwire/bitio"
)

// Three revisions of one persisted type share the type hash and the field
// hashes but not the field set or order.

const (
	itemHash      = 0x11223344
	itemIDHash    = 0x0000A001
	itemNameHash  = 0x0000A002
	itemScaleHash = 0x0000A003
	itemTagsHash  = 0x0000A004
)

type itemV1 struct {
	ID   uint32
	Name string
}

var itemV1Type = NewType[itemV1]("class Item", itemHash,
	Value("m_id", itemIDHash, PropSave, Uint32, func(o *itemV1) *uint32 { return &o.ID }),
	Value("m_name", itemNameHash, PropSave, String, func(o *itemV1) *string { return &o.Name }),
)

func (o *itemV1) PropertyType() *TypeInfo { return itemV1Type }

type itemV2 struct {
	ID    uint32
	Name  string
	Scale float32
	Tags  []string
}

var itemV2Type = NewType[itemV2]("class Item", itemHash,
	Value("m_id", itemIDHash, PropSave, Uint32, func(o *itemV2) *uint32 { return &o.ID }),
	Value("m_name", itemNameHash, PropSave, String, func(o *itemV2) *string { return &o.Name }),
	Value("m_scale", itemScaleHash, PropSave, Float32, func(o *itemV2) *float32 { return &o.Scale }),
	List("m_tags", itemTagsHash, PropSave, String, func(o *itemV2) *[]string { return &o.Tags }),
)

func (o *itemV2) PropertyType() *TypeInfo { return itemV2Type }

type itemReordered struct {
	Name string
	ID   uint32
}

var itemReorderedType = NewType[itemReordered]("class Item", itemHash,
	Value("m_name", itemNameHash, PropSave, String, func(o *itemReordered) *string { return &o.Name }),
	Value("m_id", itemIDHash, PropSave, Uint32, func(o *itemReordered) *uint32 { return &o.ID }),
)

func (o *itemReordered) PropertyType() *TypeInfo { return itemReorderedType }

func versionable(types ...*TypeInfo) *Serializer {
	return New(MustNewRegistry(types...), WithMode(Versionable))
}

func TestVersionableSkipsUnknownProperties(t *testing.T) {
	data, err := versionable(itemV2Type).Marshal(&itemV2{ID: 7, Name: "staff", Scale: 1.5, Tags: []string{"rare"}})
	require.NoError(t, err)

	out, err := versionable(itemV1Type).Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, &itemV1{ID: 7, Name: "staff"}, out)
}

func TestVersionableLeavesMissingPropertiesZero(t *testing.T) {
	data, err := versionable(itemV1Type).Marshal(&itemV1{ID: 7, Name: "staff"})
	require.NoError(t, err)

	out, err := versionable(itemV2Type).Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, &itemV2{ID: 7, Name: "staff"}, out)
}

func TestVersionableToleratesReordering(t *testing.T) {
	data, err := versionable(itemV1Type).Marshal(&itemV1{ID: 7, Name: "staff"})
	require.NoError(t, err)

	out, err := versionable(itemReorderedType).Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, &itemReordered{ID: 7, Name: "staff"}, out)
}

// writeItemBody writes a hand-framed versionable item after its header.
func writeItemBody(w *bitio.Writer, objSize uint32, props ...func(w *bitio.Writer)) {
	w.WriteUint32(itemHash)
	w.WriteUint32(objSize)
	for _, p := range props {
		p(w)
	}
}

func TestVersionableRejectsZeroPropertySize(t *testing.T) {
	w := bitio.NewWriter(bitio.Options{})
	writeItemBody(w, 96, func(w *bitio.Writer) {
		w.WriteUint32(0)
		w.WriteUint32(itemIDHash)
	})

	_, err := versionable(itemV1Type).Unmarshal(w.Bytes())
	require.ErrorIs(t, err, ErrZeroPropertySize)
}

func TestVersionableSizeMismatch(t *testing.T) {
	cases := []struct {
		name  string
		build func(w *bitio.Writer)
	}{
		{
			name: "property shorter than its payload",
			build: func(w *bitio.Writer) {
				writeItemBody(w, 128, func(w *bitio.Writer) {
					w.WriteUint32(80)
					w.WriteUint32(itemIDHash)
					w.WriteUint32(7)
				})
			},
		},
		{
			name: "property longer than its payload",
			build: func(w *bitio.Writer) {
				writeItemBody(w, 160, func(w *bitio.Writer) {
					w.WriteUint32(128)
					w.WriteUint32(itemIDHash)
					w.WriteUint32(7)
					w.WriteUint32(0)
				})
			},
		},
		{
			name: "property past the object end",
			build: func(w *bitio.Writer) {
				writeItemBody(w, 96, func(w *bitio.Writer) {
					w.WriteUint32(96)
					w.WriteUint32(itemIDHash)
					w.WriteUint32(7)
				})
			},
		},
		{
			name: "property size below its own header",
			build: func(w *bitio.Writer) {
				writeItemBody(w, 128, func(w *bitio.Writer) {
					w.WriteUint32(32)
					w.WriteUint32(itemIDHash)
					w.WriteUint32(7)
				})
			},
		},
		{
			name: "object past the input",
			build: func(w *bitio.Writer) {
				writeItemBody(w, 4096)
			},
		},
		{
			name: "object size below its own header",
			build: func(w *bitio.Writer) {
				writeItemBody(w, 8)
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := bitio.NewWriter(bitio.Options{})
			tc.build(w)
			_, err := versionable(itemV1Type).Unmarshal(w.Bytes())
			require.ErrorIs(t, err, ErrSizeMismatch)
		})
	}
}

func TestVersionableSkipsUnknownHashInHandFramedData(t *testing.T) {
	w := bitio.NewWriter(bitio.Options{})
	writeItemBody(w, 32+96+96, func(w *bitio.Writer) {
		w.WriteUint32(96)
		w.WriteUint32(0x0BADF00D)
		w.WriteUint32(0xFFFFFFFF)

		w.WriteUint32(96)
		w.WriteUint32(itemNameHash)
		w.WriteString("ok")
	})

	out, err := versionable(itemV1Type).Unmarshal(w.Bytes())
	require.NoError(t, err)
	require.Equal(t, &itemV1{Name: "ok"}, out)
}
