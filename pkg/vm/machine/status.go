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

import "fmt"

// Status signals the outcome of executing one or more instructions.
type Status uint8

const (
	// Running indicates the machine can continue executing.  This is only
	// ever returned from a single step, never as the result of running to
	// completion.
	Running Status = iota
	// WaitForInput indicates the machine is suspended on an input instruction
	// whose input queue was empty.  Execution can be resumed (i.e. with
	// Continue or Step) once more input is pushed.
	WaitForInput
	// Halt indicates the machine executed a halt instruction.
	Halt
	// EndOfProgram indicates the instruction pointer moved beyond all
	// allocated memory without encountering a halt instruction.
	EndOfProgram
	// Error indicates the machine attempted to execute an unknown
	// instruction, or to access an invalid address.
	Error
)

// IsTerminal checks whether this status indicates the machine can no longer
// execute (without being reset).
func (p Status) IsTerminal() bool {
	return p == Halt || p == EndOfProgram || p == Error
}

func (p Status) String() string {
	switch p {
	case Running:
		return "running"
	case WaitForInput:
		return "waiting for input"
	case Halt:
		return "halted"
	case EndOfProgram:
		return "end of program"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", uint8(p))
	}
}

// RunMode determines how much a machine executes when it is (re)started.
type RunMode uint8

const (
	// RunFree executes until the machine suspends or terminates.
	RunFree RunMode = iota
	// RunStep executes exactly one instruction.
	RunStep
)

// Fault describes an instruction which could not be executed.
type Fault struct {
	// Address of the offending instruction.
	Address int64 `cbor:"address"`
	// The instruction word found there.
	Word int64 `cbor:"word"`
}

func (p Fault) String() string {
	return fmt.Sprintf("unknown instruction %d at address %d", p.Word, p.Address)
}
