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
package instruction

import (
	"fmt"
	"strings"

	"github.com/consensys/go-intcode/pkg/vm/memory"
)

// Encoded represents an instruction as it appears in memory, prior to its
// parameters being resolved.  That is, the opcode and modes have been split out
// of the instruction word, and the raw operand words have been fetched, but no
// memory has been dereferenced.
type Encoded struct {
	// The raw instruction word.
	Word int64
	// Decoded opcode.
	Opcode Opcode
	// Mode of each parameter.  Entries beyond the arity are Positional.
	Modes [MAX_PARAMETERS]Mode
	// Raw operand words.  Entries beyond the arity are zero.
	Operands [MAX_PARAMETERS]int64
}

// Split decodes an instruction word into its opcode and parameter modes.  Any
// word whose opcode is not recognised, or which has an invalid mode digit for
// one of its parameters, decodes as Unknown.
func Split(word int64) (Opcode, [MAX_PARAMETERS]Mode) {
	var (
		opcode = OpcodeOf(word)
		modes  [MAX_PARAMETERS]Mode
	)
	//
	for i := range opcode.Arity() {
		mode, ok := ModeOf(word, i)
		//
		if !ok {
			return Unknown, [MAX_PARAMETERS]Mode{}
		}
		//
		modes[i] = mode
	}
	//
	return opcode, modes
}

// Fetch the instruction located at a given address in memory.  This consumes
// exactly one word for the instruction itself, plus one for each parameter.
// An error is returned only if an address is invalid, including when the
// instruction runs off the end of the address space.
func Fetch(mem memory.ReadOnlyMemory, pc int64) (Encoded, error) {
	var insn Encoded
	//
	if err := memory.CheckAddress(pc); err != nil {
		return insn, err
	}
	//
	insn.Word = mem.Read(pc)
	insn.Opcode, insn.Modes = Split(insn.Word)
	//
	for i := range insn.Opcode.Arity() {
		// Wraps negative on overflow
		address := pc + 1 + int64(i)
		//
		if err := memory.CheckAddress(address); err != nil {
			return insn, err
		}
		//
		insn.Operands[i] = mem.Read(address)
	}
	//
	return insn, nil
}

// Width returns the number of words occupied by this instruction.
func (p *Encoded) Width() int64 {
	return 1 + int64(p.Opcode.Arity())
}

// Resolve the parameters of this instruction.  Source parameters are resolved
// to values (reading memory as necessary), whilst the destination parameter
// (if any) is resolved to an address.  A destination is never dereferenced:
// its operand is taken literally as an address, with the relative base added
// when in relative mode.  An error is returned if resolution produces a
// negative address.
func (p *Encoded) Resolve(mem memory.ReadOnlyMemory, relbase int64) (Instruction, error) {
	var (
		insn      = Instruction{Opcode: p.Opcode, Width: p.Width()}
		target, _ = p.Opcode.Target()
	)
	//
	for i := range p.Opcode.Arity() {
		var (
			operand = p.Operands[i]
			mode    = p.Modes[i]
		)
		//
		if mode == Relative {
			operand += relbase
		}
		//
		switch {
		case i+1 == target:
			// Destinations are addresses
			if err := memory.CheckAddress(operand); err != nil {
				return insn, err
			}
			//
			insn.Params[i] = operand
		case mode == Immediate:
			insn.Params[i] = operand
		default:
			if err := memory.CheckAddress(operand); err != nil {
				return insn, err
			}
			//
			insn.Params[i] = mem.Read(operand)
		}
	}
	//
	return insn, nil
}

func (p *Encoded) String() string {
	var builder strings.Builder
	//
	if p.Opcode == Unknown {
		return fmt.Sprintf(".word %d", p.Word)
	}
	//
	builder.WriteString(p.Opcode.String())
	//
	target, hasTarget := p.Opcode.Target()
	//
	for i := range p.Opcode.Arity() {
		var mode = p.Modes[i]
		//
		switch {
		case hasTarget && i+1 == target:
			builder.WriteString(" -> ")
			// Destinations are never immediate
			if mode == Immediate {
				mode = Positional
			}
		case i == 0:
			builder.WriteString(" ")
		default:
			builder.WriteString(", ")
		}
		//
		builder.WriteString(mode.Render(p.Operands[i]))
	}
	//
	return builder.String()
}

// Instruction represents a fully decoded instruction ready for execution.
type Instruction struct {
	// Kind of instruction being executed
	Opcode Opcode
	// Resolved parameters.  For source parameters these are values, whilst for
	// the destination parameter (if any) this is an address.
	Params [MAX_PARAMETERS]int64
	// Number of words consumed by this instruction.
	Width int64
}

// Decode the instruction at a given address in memory, resolving its
// parameters using a given relative base.
func Decode(mem memory.ReadOnlyMemory, pc int64, relbase int64) (Instruction, error) {
	encoded, err := Fetch(mem, pc)
	//
	if err != nil {
		return Instruction{}, err
	}
	//
	return encoded.Resolve(mem, relbase)
}

// Disassemble a region of memory by a linear sweep from a given address,
// returning the address of each instruction along with its encoding.  Observe
// that a linear sweep cannot distinguish code from data, hence data embedded
// within a program is shown as whatever instruction it happens to decode as.
func Disassemble(mem memory.ReadOnlyMemory, start int64, end int64) []Listing {
	var listing []Listing
	//
	for pc := max(start, 0); pc < end; {
		insn, _ := Fetch(mem, pc)
		listing = append(listing, Listing{pc, insn})
		pc += insn.Width()
	}
	//
	return listing
}

// Listing associates an encoded instruction with its address.
type Listing struct {
	Address     int64
	Instruction Encoded
}
