// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package network

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Mode determines when a simulation terminates.
type Mode uint8

const (
	// RepeatMode terminates when the relay delivers the same Y value to node
	// zero twice in succession.
	RepeatMode Mode = iota
	// FirstMode terminates as soon as any packet reaches the relay.
	FirstMode
)

// ParseMode converts the name of a mode (as used on the command line and in
// configuration files) into a mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(name) {
	case "repeat":
		return RepeatMode, nil
	case "first":
		return FirstMode, nil
	default:
		return RepeatMode, fmt.Errorf("unknown mode \"%s\" (expected first or repeat)", name)
	}
}

func (p Mode) String() string {
	if p == FirstMode {
		return "first"
	}
	//
	return "repeat"
}

// MarshalText implementation for the TextMarshaler interface.
func (p Mode) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implementation for the TextUnmarshaler interface.
func (p *Mode) UnmarshalText(text []byte) error {
	mode, err := ParseMode(string(text))
	//
	if err == nil {
		*p = mode
	}
	//
	return err
}

// Config determines the shape of a simulated network.
type Config struct {
	// Number of nodes, addressed from zero.
	Nodes uint `toml:"nodes"`
	// Address of the relay.
	Relay int64 `toml:"relay"`
	// Value supplied to a node reading from an empty inbox.
	NoPacket int64 `toml:"no-packet"`
	// Termination condition.
	Mode Mode `toml:"mode"`
	// Maximum number of rounds to simulate (where zero means unbounded).
	MaxRounds uint `toml:"max-rounds"`
}

// DefaultConfig returns the standard network configuration: fifty nodes, a
// relay at address 255, -1 signalling an empty inbox.
func DefaultConfig() Config {
	return Config{Nodes: 50, Relay: 255, NoPacket: -1, Mode: RepeatMode}
}

// LoadConfig reads a network configuration from a TOML file.  Keys absent from
// the file retain their default values, whilst unknown keys are rejected.
func LoadConfig(filename string) (Config, error) {
	var cfg = DefaultConfig()
	//
	meta, err := toml.DecodeFile(filename, &cfg)
	//
	if err != nil {
		return cfg, fmt.Errorf("parse error in %s: %w", filename, err)
	} else if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("unknown key \"%s\" in %s", undecoded[0].String(), filename)
	}
	//
	return cfg, cfg.Validate()
}

// Validate checks this configuration describes a sensible network.
func (p Config) Validate() error {
	if p.Nodes == 0 {
		return fmt.Errorf("network requires at least one node")
	} else if p.Relay >= 0 && p.Relay < int64(p.Nodes) {
		return fmt.Errorf("relay address %d clashes with node address", p.Relay)
	}
	//
	return nil
}
