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
	"github.com/propwire/propwire/go/propwire/bitio"
)

// Descriptor tables shared by the package tests. The loot types mirror the
// shape of a game's loot tables: a polymorphic list of entries plus a
// nested gold entry.

type LootKind int32

const (
	LootNone LootKind = iota
	LootGold
	LootMana
	LootHealth
	LootItem
	LootMagicItem
)

var lootKindEnum = NewEnum("LootType",
	EnumValue{"LOOT_NONE", int64(LootNone)},
	EnumValue{"LOOT_GOLD", int64(LootGold)},
	EnumValue{"LOOT_MANA", int64(LootMana)},
	EnumValue{"LOOT_HEALTH", int64(LootHealth)},
	EnumValue{"LOOT_ITEM", int64(LootItem)},
	EnumValue{"LOOT_MAGIC_ITEM", int64(LootMagicItem)},
)

// LootEntry is satisfied by every type deriving from LootInfoBase.
type LootEntry interface {
	PropertyClass
	Loot() *LootInfoBase
}

type LootInfoBase struct {
	LootType LootKind
}

var lootInfoBaseType = NewType[LootInfoBase]("class LootInfoBase", 0x1C2A4B33,
	Enum("m_lootType", 0, PropSave|PropTransmit, lootKindEnum,
		func(o *LootInfoBase) *LootKind { return &o.LootType }),
)

func (o *LootInfoBase) PropertyType() *TypeInfo { return lootInfoBaseType }
func (o *LootInfoBase) Loot() *LootInfoBase     { return o }

type LootInfo struct {
	LootInfoBase
	Name     string
	Quantity uint32
}

var lootInfoType = NewDerivedType[LootInfo]("class LootInfo", 0x656B8789, lootInfoBaseType,
	func(o *LootInfo) *LootInfoBase { return &o.LootInfoBase },
	Value("m_itemName", 0, PropSave|PropTransmit, String,
		func(o *LootInfo) *string { return &o.Name }),
	Value("m_quantity", 0, PropSave, Uint32,
		func(o *LootInfo) *uint32 { return &o.Quantity }),
)

func (o *LootInfo) PropertyType() *TypeInfo { return lootInfoType }

type GoldLootInfo struct {
	LootInfoBase
	GoldAmount int32
}

var goldLootInfoType = NewDerivedType[GoldLootInfo]("class GoldLootInfo", 0x1B84395E, lootInfoBaseType,
	func(o *GoldLootInfo) *LootInfoBase { return &o.LootInfoBase },
	Value("m_goldAmount", 0, PropSave|PropTransmit, Int32,
		func(o *GoldLootInfo) *int32 { return &o.GoldAmount }),
)

func (o *GoldLootInfo) PropertyType() *TypeInfo { return goldLootInfoType }

type LootInfoList struct {
	Loot []LootEntry
	Gold *GoldLootInfo
}

var lootInfoListType = NewType[LootInfoList]("class LootInfoList", 0x4867032A,
	ObjectList("m_loot", 0, PropSave|PropTransmit,
		func(o *LootInfoList) *[]LootEntry { return &o.Loot }),
	Object("m_goldInfo", 0, PropSave|PropTransmit,
		func(o *LootInfoList) **GoldLootInfo { return &o.Gold }),
)

func (o *LootInfoList) PropertyType() *TypeInfo { return lootInfoListType }

func lootRegistry() *Registry {
	return MustNewRegistry(lootInfoBaseType, lootInfoType, goldLootInfoType, lootInfoListType)
}

func sampleLootList() *LootInfoList {
	return &LootInfoList{
		Loot: []LootEntry{
			&LootInfo{LootInfoBase: LootInfoBase{LootType: LootMagicItem}, Quantity: 5},
		},
		Gold: &GoldLootInfo{LootInfoBase: LootInfoBase{LootType: LootGold}, GoldAmount: 2},
	}
}

// Everything exercises every primitive codec and field shape.
type Everything struct {
	Flag      bool
	Small     int8
	Byte      uint8
	Short     int16
	UShort    uint16
	Int       int32
	UInt      uint32
	Long      int64
	ULong     uint64
	Float     float32
	Double    float64
	Text      string
	Wide      string
	Big       string
	Nibble    uint32
	Delta     int32
	Position  bitio.Vec3
	Velocity  bitio.Vec2
	Rotation  bitio.Quat
	Transform bitio.Matrix3
	Bounds    bitio.Rect
	Area      bitio.RectF
	Origin    bitio.Point
	Extent    bitio.Size
	Tint      bitio.Color
	Scores    []int32
	Tags      []string
	Kinds     []LootKind
	Kind      LootKind
	Child     *GoldLootInfo
	Children  []LootEntry
	Legacy    uint16
	Obsolete  uint16
}

var everythingType = NewType[Everything]("class Everything", 0,
	Value("m_flag", 0, PropSave, Bool, func(o *Everything) *bool { return &o.Flag }),
	Value("m_small", 0, PropSave, Int8, func(o *Everything) *int8 { return &o.Small }),
	Value("m_byte", 0, PropSave, Uint8, func(o *Everything) *uint8 { return &o.Byte }),
	Value("m_short", 0, PropSave, Int16, func(o *Everything) *int16 { return &o.Short }),
	Value("m_ushort", 0, PropSave, Uint16, func(o *Everything) *uint16 { return &o.UShort }),
	Value("m_int", 0, PropSave, Int32, func(o *Everything) *int32 { return &o.Int }),
	Value("m_uint", 0, PropSave, Uint32, func(o *Everything) *uint32 { return &o.UInt }),
	Value("m_long", 0, PropSave, Int64, func(o *Everything) *int64 { return &o.Long }),
	Value("m_ulong", 0, PropSave, Uint64, func(o *Everything) *uint64 { return &o.ULong }),
	Value("m_float", 0, PropSave, Float32, func(o *Everything) *float32 { return &o.Float }),
	Value("m_double", 0, PropSave, Float64, func(o *Everything) *float64 { return &o.Double }),
	Value("m_text", 0, PropSave, String, func(o *Everything) *string { return &o.Text }),
	Value("m_wide", 0, PropSave|PropLocalized, WString, func(o *Everything) *string { return &o.Wide }),
	Value("m_big", 0, PropSave|PropBlob, BigString, func(o *Everything) *string { return &o.Big }),
	Value("m_nibble", 0, PropSave|PropBits, Bits(4), func(o *Everything) *uint32 { return &o.Nibble }),
	Value("m_delta", 0, PropSave|PropBits, SignedBits(5), func(o *Everything) *int32 { return &o.Delta }),
	Value("m_position", 0, PropSave, Vec3, func(o *Everything) *bitio.Vec3 { return &o.Position }),
	Value("m_velocity", 0, PropSave, Vec2, func(o *Everything) *bitio.Vec2 { return &o.Velocity }),
	Value("m_rotation", 0, PropSave|PropRadians, Quat, func(o *Everything) *bitio.Quat { return &o.Rotation }),
	Value("m_transform", 0, PropSave, Matrix3, func(o *Everything) *bitio.Matrix3 { return &o.Transform }),
	Value("m_bounds", 0, PropSave, Rect, func(o *Everything) *bitio.Rect { return &o.Bounds }),
	Value("m_area", 0, PropSave, RectF, func(o *Everything) *bitio.RectF { return &o.Area }),
	Value("m_origin", 0, PropSave, Point, func(o *Everything) *bitio.Point { return &o.Origin }),
	Value("m_extent", 0, PropSave, Size, func(o *Everything) *bitio.Size { return &o.Extent }),
	Value("m_tint", 0, PropSave|PropColor, Color, func(o *Everything) *bitio.Color { return &o.Tint }),
	List("m_scores", 0, PropSave, Int32, func(o *Everything) *[]int32 { return &o.Scores }),
	List("m_tags", 0, PropSave, String, func(o *Everything) *[]string { return &o.Tags }),
	EnumList("m_kinds", 0, PropSave, lootKindEnum, func(o *Everything) *[]LootKind { return &o.Kinds }),
	Enum("m_kind", 0, PropSave, lootKindEnum, func(o *Everything) *LootKind { return &o.Kind }),
	Object("m_child", 0, PropSave, func(o *Everything) **GoldLootInfo { return &o.Child }),
	ObjectList("m_children", 0, PropSave, func(o *Everything) *[]LootEntry { return &o.Children }),
	Value("m_legacy", 0, PropSave|PropDeprecated|PropAlwaysEncode, Uint16,
		func(o *Everything) *uint16 { return &o.Legacy }),
	Value("m_obsolete", 0, PropSave|PropDeprecated, Uint16,
		func(o *Everything) *uint16 { return &o.Obsolete }),
)

func (o *Everything) PropertyType() *TypeInfo { return everythingType }

func fullRegistry() *Registry {
	return MustNewRegistry(lootInfoBaseType, lootInfoType, goldLootInfoType, lootInfoListType, everythingType)
}

func sampleEverything() *Everything {
	return &Everything{
		Flag:      true,
		Small:     -7,
		Byte:      200,
		Short:     -1234,
		UShort:    54321,
		Int:       -123456,
		UInt:      3000000000,
		Long:      -9876543210,
		ULong:     18000000000000000000,
		Float:     3.5,
		Double:    -2.25,
		Text:      "wizard",
		Wide:      "Ünïcödé 𝄞",
		Big:       "a big string",
		Nibble:    0xA,
		Delta:     -9,
		Position:  bitio.Vec3{X: 1, Y: -2, Z: 3.5},
		Velocity:  bitio.Vec2{X: 0.5, Y: -0.25},
		Rotation:  bitio.Quat{X: 0, Y: 0, Z: 0.7071, W: 0.7071},
		Transform: bitio.Matrix3{1, 0, 0, 0, 1, 0, 0, 0, 1},
		Bounds:    bitio.Rect{Left: -1, Top: 2, Right: 30, Bottom: 40},
		Area:      bitio.RectF{Left: 0.5, Top: 1.5, Right: 2.5, Bottom: 3.5},
		Origin:    bitio.Point{X: -5, Y: 6},
		Extent:    bitio.Size{Width: 800, Height: 600},
		Tint:      bitio.Color{R: 255, G: 128, B: 0, A: 64},
		Scores:    []int32{1, -2, 3},
		Tags:      []string{"fire", "", "ice"},
		Kinds:     []LootKind{LootGold, LootItem},
		Kind:      LootHealth,
		Child:     &GoldLootInfo{LootInfoBase: LootInfoBase{LootType: LootGold}, GoldAmount: 75},
		Children: []LootEntry{
			&GoldLootInfo{LootInfoBase: LootInfoBase{LootType: LootGold}, GoldAmount: 1},
			nil,
			&LootInfo{LootInfoBase: LootInfoBase{LootType: LootItem}, Name: "sword", Quantity: 1},
		},
		Legacy:   11,
		Obsolete: 22,
	}
}
