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
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultMaxDepth is the nesting limit used when none is configured.
const DefaultMaxDepth = 64

// Config holds the settings of a Serializer. It can be embedded in a
// larger YAML document or loaded on its own with LoadConfig:
//
//	mode: versionable
//	flags: [compact_lengths, enum_as_string]
//	mask: save|persist
//	max_depth: 32
//
// Flags and masks accept a list of names, a "|"-separated string, or a
// number.
type Config struct {
	Mode     Mode            `yaml:"mode"`
	Flags    SerializerFlags `yaml:"flags"`
	Mask     PropertyFlags   `yaml:"mask"`
	MaxDepth int             `yaml:"max_depth"`
}

// DefaultConfig returns compact framing, no flags, an empty mask (every
// non-deprecated field is eligible) and DefaultMaxDepth.
func DefaultConfig() Config {
	return Config{
		Mode:     Compact,
		MaxDepth: DefaultMaxDepth,
	}
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("propwire: reading config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses a YAML configuration on top of DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("propwire: parsing config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Mode != Compact && c.Mode != Versionable {
		return fmt.Errorf("propwire: invalid mode %d", c.Mode)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("propwire: max_depth must not be negative, got %d", c.MaxDepth)
	}
	return nil
}

func (m Mode) MarshalYAML() (any, error) {
	return m.String(), nil
}

func (m *Mode) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseMode(node.Value)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (f SerializerFlags) MarshalYAML() (any, error) {
	return f.String(), nil
}

func (f *SerializerFlags) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := unmarshalFlags(node, ParseSerializerFlags)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

func (f PropertyFlags) MarshalYAML() (any, error) {
	return f.String(), nil
}

func (f *PropertyFlags) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := unmarshalFlags(node, ParsePropertyFlags)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

func unmarshalFlags[F ~uint32](node *yaml.Node, parse func(string) (F, error)) (F, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return parse(node.Value)
	case yaml.SequenceNode:
		var f F
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return 0, fmt.Errorf("propwire: line %d: flag list entries must be scalars", item.Line)
			}
			parsed, err := parse(item.Value)
			if err != nil {
				return 0, fmt.Errorf("propwire: line %d: %w", item.Line, err)
			}
			f |= parsed
		}
		return f, nil
	default:
		return 0, fmt.Errorf("propwire: line %d: flags must be a scalar or a list", node.Line)
	}
}
