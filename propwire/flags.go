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
	"strconv"
	"strings"
)

// Mode selects how object bodies are framed.
type Mode uint8

const (
	// Compact writes eligible fields back to back in declaration order with
	// no identifiers. Encoder and decoder must agree on the field layout.
	Compact Mode = iota
	// Versionable prefixes the object and every field with a bit size and
	// every field with its hash, so decoders can skip what they don't know.
	Versionable
)

func (m Mode) String() string {
	switch m {
	case Compact:
		return "compact"
	case Versionable:
		return "versionable"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode parses the name returned by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "compact":
		return Compact, nil
	case "versionable":
		return Versionable, nil
	default:
		return 0, fmt.Errorf("propwire: unknown mode %q", s)
	}
}

// SerializerFlags are the behavior flags of a serializer. Their bit values
// are stored in BiND files and must not change.
type SerializerFlags uint32

const (
	// FlagStatefulFlags is stored in BiND headers and restored from them
	// like every other bit, but changes nothing about encoding or
	// decoding. UnmarshalFile adopts the stored flags whether or not it
	// is set.
	FlagStatefulFlags SerializerFlags = 1 << 0
	// FlagCompactLengths selects the variable-width length prefixes.
	FlagCompactLengths SerializerFlags = 1 << 3
	// FlagEnumAsString writes enums by name instead of by ordinal.
	FlagEnumAsString SerializerFlags = 1 << 4
	// FlagCompress deflates the whole encoded object.
	FlagCompress SerializerFlags = 1 << 5
	// FlagDirtyEncode keeps deprecated fields that are marked PropAlwaysEncode.
	FlagDirtyEncode SerializerFlags = 1 << 6
)

var serializerFlagNames = []flagName[SerializerFlags]{
	{FlagStatefulFlags, "stateful_flags"},
	{FlagCompactLengths, "compact_lengths"},
	{FlagEnumAsString, "enum_as_string"},
	{FlagCompress, "compress"},
	{FlagDirtyEncode, "dirty_encode"},
}

// Has reports whether every bit of flag is set.
func (f SerializerFlags) Has(flag SerializerFlags) bool {
	return f&flag == flag
}

func (f SerializerFlags) String() string {
	return formatFlags(f, serializerFlagNames)
}

// ParseSerializerFlags parses a "|"-separated list of flag names or a number.
func ParseSerializerFlags(s string) (SerializerFlags, error) {
	return parseFlags(s, serializerFlagNames)
}

// PropertyFlags annotate a field. A serializer's mask is compared against
// them to decide which fields take part in an encode or decode.
type PropertyFlags uint32

const (
	PropSave               PropertyFlags = 1 << 0
	PropCopy               PropertyFlags = 1 << 1
	PropPublic             PropertyFlags = 1 << 2
	PropTransmit           PropertyFlags = 1 << 3
	PropPrivilegedTransmit PropertyFlags = 1 << 4
	PropPersist            PropertyFlags = 1 << 5
	PropDeprecated         PropertyFlags = 1 << 6
	PropNoScript           PropertyFlags = 1 << 7
	PropAlwaysEncode       PropertyFlags = 1 << 8
	PropBlob               PropertyFlags = 1 << 9
	PropNoEdit             PropertyFlags = 1 << 16
	PropFilename           PropertyFlags = 1 << 17
	PropColor              PropertyFlags = 1 << 18
	PropBits               PropertyFlags = 1 << 20
	PropEnum               PropertyFlags = 1 << 21
	PropLocalized          PropertyFlags = 1 << 22
	PropStringKey          PropertyFlags = 1 << 23
	PropObjectID           PropertyFlags = 1 << 24
	PropReferenceID        PropertyFlags = 1 << 25
	PropRadians            PropertyFlags = 1 << 27
)

var propertyFlagNames = []flagName[PropertyFlags]{
	{PropSave, "save"},
	{PropCopy, "copy"},
	{PropPublic, "public"},
	{PropTransmit, "transmit"},
	{PropPrivilegedTransmit, "privileged_transmit"},
	{PropPersist, "persist"},
	{PropDeprecated, "deprecated"},
	{PropNoScript, "noscript"},
	{PropAlwaysEncode, "always_encode"},
	{PropBlob, "blob"},
	{PropNoEdit, "noedit"},
	{PropFilename, "filename"},
	{PropColor, "color"},
	{PropBits, "bits"},
	{PropEnum, "enum"},
	{PropLocalized, "localized"},
	{PropStringKey, "string_key"},
	{PropObjectID, "object_id"},
	{PropReferenceID, "reference_id"},
	{PropRadians, "radians"},
}

// Has reports whether every bit of flag is set.
func (f PropertyFlags) Has(flag PropertyFlags) bool {
	return f&flag == flag
}

func (f PropertyFlags) String() string {
	return formatFlags(f, propertyFlagNames)
}

// ParsePropertyFlags parses a "|"-separated list of flag names or a number.
func ParsePropertyFlags(s string) (PropertyFlags, error) {
	return parseFlags(s, propertyFlagNames)
}

type flagName[F ~uint32] struct {
	flag F
	name string
}

func formatFlags[F ~uint32](f F, names []flagName[F]) string {
	if f == 0 {
		return "0"
	}
	var parts []string
	rest := f
	for _, n := range names {
		if f&n.flag != 0 {
			parts = append(parts, n.name)
			rest &^= n.flag
		}
	}
	if rest != 0 {
		parts = append(parts, "0x"+strconv.FormatUint(uint64(rest), 16))
	}
	return strings.Join(parts, "|")
}

func parseFlags[F ~uint32](s string, names []flagName[F]) (F, error) {
	var f F
	for _, part := range strings.Split(s, "|") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if n, err := strconv.ParseUint(part, 0, 32); err == nil {
			f |= F(n)
			continue
		}
		found := false
		for _, n := range names {
			if n.name == part {
				f |= n.flag
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("propwire: unknown flag %q", part)
		}
	}
	return f, nil
}
