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
package machine

import (
	"fmt"
	"maps"
	"slices"

	"github.com/consensys/go-intcode/pkg/util"
	"github.com/consensys/go-intcode/pkg/util/collection/queue"
	"github.com/consensys/go-intcode/pkg/vm/memory"
	"github.com/fxamacker/cbor/v2"
)

var checkpointEncoder cbor.EncMode

func init() {
	var err error
	// Canonical encoding ensures identical machines produce identical bytes.
	if checkpointEncoder, err = cbor.CanonicalEncOptions().EncMode(); err != nil {
		panic(err)
	}
}

// Checkpoint captures the complete state of a machine at some point during its
// execution, such that an equivalent machine can later be restored from it.
// Checkpoints can be serialised, allowing a suspended machine to be saved and
// resumed across processes.
type Checkpoint struct {
	Image        []int64         `cbor:"1,keyasint"`
	Extended     map[int64]int64 `cbor:"2,keyasint,omitempty"`
	Entry        int64           `cbor:"3,keyasint"`
	PC           int64           `cbor:"4,keyasint"`
	RelativeBase int64           `cbor:"5,keyasint"`
	Input        []int64         `cbor:"6,keyasint,omitempty"`
	Output       []int64         `cbor:"7,keyasint,omitempty"`
	Status       Status          `cbor:"8,keyasint"`
	Fault        *Fault          `cbor:"9,keyasint,omitempty"`
	Steps        uint64          `cbor:"10,keyasint"`
}

// Used to encode a checkpoint without recursing through its marshalling
// methods.
type checkpoint Checkpoint

// Checkpoint captures the current state of this machine.  The checkpoint
// shares nothing with the machine.
func (p *Machine) Checkpoint() Checkpoint {
	var fault *Fault
	//
	if p.fault.HasValue() {
		f := p.fault.Unwrap()
		fault = &f
	}
	//
	return Checkpoint{
		Image:        slices.Clone(p.memory.Image()),
		Extended:     maps.Clone(p.memory.Extended()),
		Entry:        p.entry,
		PC:           p.pc,
		RelativeBase: p.relbase,
		Input:        slices.Clone(p.input.Items()),
		Output:       slices.Clone(p.output),
		Status:       p.status,
		Fault:        fault,
		Steps:        p.steps,
	}
}

// Restore constructs a fresh machine from this checkpoint.  Multiple machines
// can be restored from the same checkpoint, and none of them share state.
func (p *Checkpoint) Restore() *Machine {
	var fault = util.None[Fault]()
	//
	if p.Fault != nil {
		fault = util.Some(*p.Fault)
	}
	//
	return &Machine{
		memory:  memory.Restore(p.Image, p.Extended),
		entry:   p.Entry,
		pc:      p.PC,
		relbase: p.RelativeBase,
		input:   *queue.NewQueue(p.Input...),
		output:  slices.Clone(p.Output),
		status:  p.Status,
		fault:   fault,
		steps:   p.Steps,
	}
}

// MarshalBinary implementation for the BinaryMarshaler interface.
func (p *Checkpoint) MarshalBinary() ([]byte, error) {
	return checkpointEncoder.Marshal((*checkpoint)(p))
}

// UnmarshalBinary implementation for the BinaryUnmarshaler interface.
func (p *Checkpoint) UnmarshalBinary(data []byte) error {
	var tmp checkpoint
	//
	if err := cbor.Unmarshal(data, &tmp); err != nil {
		return fmt.Errorf("malformed checkpoint: %w", err)
	} else if tmp.Status > Error {
		return fmt.Errorf("malformed checkpoint: invalid status %d", tmp.Status)
	}
	//
	for addr := range tmp.Extended {
		if addr < int64(len(tmp.Image)) {
			return fmt.Errorf("malformed checkpoint: extended address %d inside image", addr)
		}
	}
	//
	*p = Checkpoint(tmp)
	//
	return nil
}
