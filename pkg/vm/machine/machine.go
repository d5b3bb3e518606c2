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
	"slices"
	"strings"

	"github.com/consensys/go-intcode/pkg/util"
	"github.com/consensys/go-intcode/pkg/util/collection/queue"
	"github.com/consensys/go-intcode/pkg/vm/memory"
	"github.com/consensys/go-intcode/pkg/vm/program"
)

// Machine represents an executing Intcode program, including its memory,
// instruction pointer, relative base and input / output streams.  A machine is
// exclusively owned by whoever created it; independent machines never share
// state and, in particular, Clone() produces a deep copy which can be executed
// without affecting the original.
type Machine struct {
	// Memory holding program and data
	memory *memory.Sparse
	// Address at which execution (re)starts.
	entry int64
	// Instruction pointer
	pc int64
	// Offset added to relative-mode parameters
	relbase int64
	// Values waiting to be read by input instructions.
	input queue.Queue[int64]
	// Values written by output instructions.
	output []int64
	// Status after the most recently executed instruction.
	status Status
	// Identifies the offending instruction when status is Error.
	fault util.Option[Fault]
	// Number of instructions executed so far.
	steps uint64
}

// New constructs a machine from program text (i.e. comma-separated integers).
// An error is returned if the text is malformed.
func New(text string) (*Machine, error) {
	image, err := program.ParseString(text)
	//
	if err != nil {
		return nil, err
	}
	//
	return NewFromImage(image...), nil
}

// NewFromImage constructs a machine whose memory is initialised with a given
// program image.  The image is copied.
func NewFromImage(image ...int64) *Machine {
	return &Machine{memory: memory.NewSparse(image...)}
}

// Clone returns a deep copy of this machine.  Execution of the clone (e.g.
// writing memory, consuming input or producing output) is never visible in the
// original, and vice versa.
func (p *Machine) Clone() *Machine {
	var clone = *p
	//
	clone.memory = p.memory.Clone()
	clone.input = p.input.Clone()
	clone.output = slices.Clone(p.output)
	//
	return &clone
}

// ============================================================================
// Memory access
// ============================================================================

// Read the value at a given address of this machine's memory.  This is
// typically used to inspect results after the machine halts.  This panics if
// the address is negative.
func (p *Machine) Read(address int64) int64 {
	return p.memory.Read(address)
}

// Write a value to a given address of this machine's memory.  This is
// typically used to patch a program before running it.  This panics if the
// address is negative.
func (p *Machine) Write(address int64, value int64) {
	p.memory.Write(address, value)
}

// Memory provides read-only access to the memory of this machine, for example
// to disassemble it.
func (p *Machine) Memory() memory.ReadOnlyMemory {
	return p.memory
}

// ============================================================================
// Input / Output
// ============================================================================

// Push zero or more values onto the back of the input queue.
func (p *Machine) Push(values ...int64) {
	p.input.PushAll(values)
}

// PushASCII pushes each character of a given string onto the input queue.
func (p *Machine) PushASCII(text string) {
	for _, b := range []byte(text) {
		p.input.Push(int64(b))
	}
}

// PendingInput returns the number of values waiting on the input queue.
func (p *Machine) PendingInput() uint {
	return p.input.Len()
}

// Output returns the values output so far (and not yet drained).  The returned
// slice must not be modified.
func (p *Machine) Output() []int64 {
	return p.output
}

// DrainOutput removes all values from the output buffer, returning them.
func (p *Machine) DrainOutput() []int64 {
	var output = p.output
	//
	p.output = nil
	//
	return output
}

// TakeOutput removes the first n values from the output buffer, returning
// them.  This panics if fewer than n values are available.
func (p *Machine) TakeOutput(n uint) []int64 {
	var taken = slices.Clone(p.output[:n])
	//
	p.output = p.output[n:]
	//
	return taken
}

// OutputASCII renders the output buffer as text.  Values outside the ASCII
// range (e.g. a final numeric answer) are omitted.
func (p *Machine) OutputASCII() string {
	var builder strings.Builder
	//
	for _, v := range p.output {
		if v >= 0 && v < 128 {
			builder.WriteByte(byte(v))
		}
	}
	//
	return builder.String()
}

// ============================================================================
// State
// ============================================================================

// Status returns the status produced by the most recently executed
// instruction.
func (p *Machine) Status() Status {
	return p.status
}

// Fault returns the offending instruction when this machine has terminated
// with an Error status.
func (p *Machine) Fault() util.Option[Fault] {
	return p.fault
}

// PC returns the current instruction pointer.
func (p *Machine) PC() int64 {
	return p.pc
}

// RelativeBase returns the current relative base.
func (p *Machine) RelativeBase() int64 {
	return p.relbase
}

// Steps returns the number of instructions executed by this machine.
// Suspended input instructions are not counted.
func (p *Machine) Steps() uint64 {
	return p.steps
}
