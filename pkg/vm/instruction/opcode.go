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

// Opcode identifies the kind of an instruction.  Opcodes are decoded once per
// instruction from the low two decimal digits of the instruction word, after
// which execution dispatches on this tag alone.
type Opcode uint8

const (
	// Unknown is used for any instruction word which does not decode to a
	// valid instruction.  Executing it terminates the machine with an error.
	Unknown Opcode = iota
	// Add writes p1 + p2 to p3.
	Add
	// Multiply writes p1 * p2 to p3.
	Multiply
	// Input pops the next value from the input queue and writes it to p1.
	Input
	// Output appends p1 to the output buffer.
	Output
	// JumpIfTrue sets the instruction pointer to p2 if p1 is non-zero.
	JumpIfTrue
	// JumpIfFalse sets the instruction pointer to p2 if p1 is zero.
	JumpIfFalse
	// LessThan writes 1 to p3 if p1 < p2, and 0 otherwise.
	LessThan
	// Equals writes 1 to p3 if p1 == p2, and 0 otherwise.
	Equals
	// AdjustRelativeBase adds p1 to the relative base.
	AdjustRelativeBase
	// Halt terminates the machine.
	Halt
)

// Properties of each opcode, indexed by opcode.
var opcodes = [...]struct {
	code  int64
	name  string
	arity uint
	// Index of the destination parameter (or zero if none), counting from 1.
	target uint
}{
	Unknown:            {0, "???", 0, 0},
	Add:                {1, "add", 3, 3},
	Multiply:           {2, "mul", 3, 3},
	Input:              {3, "in", 1, 1},
	Output:             {4, "out", 1, 0},
	JumpIfTrue:         {5, "jt", 2, 0},
	JumpIfFalse:        {6, "jf", 2, 0},
	LessThan:           {7, "lt", 3, 3},
	Equals:             {8, "eq", 3, 3},
	AdjustRelativeBase: {9, "arb", 1, 0},
	Halt:               {99, "halt", 0, 0},
}

// OpcodeOf determines the opcode of a given instruction word, ignoring any
// parameter modes.  Words whose low two digits do not identify an operation
// (including all negative words) decode as Unknown.
func OpcodeOf(word int64) Opcode {
	var code = word % 100
	//
	for i, op := range opcodes {
		if op.code == code && Opcode(i) != Unknown {
			return Opcode(i)
		}
	}
	//
	return Unknown
}

// Code returns the numeric code (i.e. low two digits of an instruction word)
// for this opcode, or 0 for Unknown.
func (p Opcode) Code() int64 {
	return opcodes[p].code
}

// Arity returns the number of parameters taken by instructions of this kind.
// The width of an encoded instruction is always one more than this.
func (p Opcode) Arity() uint {
	return opcodes[p].arity
}

// Target returns the index (counting from 1) of the parameter which this
// instruction writes to, or false if it writes nothing to memory.
func (p Opcode) Target() (uint, bool) {
	var target = opcodes[p].target
	//
	return target, target != 0
}

func (p Opcode) String() string {
	if int(p) < len(opcodes) {
		return opcodes[p].name
	}
	//
	return "???"
}
