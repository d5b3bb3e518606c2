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
	"github.com/consensys/go-intcode/pkg/util"
	"github.com/consensys/go-intcode/pkg/vm/instruction"
	log "github.com/sirupsen/logrus"
)

// Run resets the instruction pointer to the start of the program, and
// executes until the machine suspends or terminates.  Memory, the relative base
// and the input / output streams are not reset.
func (p *Machine) Run() (Status, error) {
	return p.RunWith(RunFree)
}

// RunWith resets the instruction pointer to the start of the program and then
// executes according to the given mode: either until the machine suspends or
// terminates, or for exactly one instruction.
func (p *Machine) RunWith(mode RunMode) (Status, error) {
	p.pc = p.entry
	p.status = Running
	p.fault = util.None[Fault]()
	//
	if mode == RunStep {
		return p.Step()
	}
	//
	return p.Continue()
}

// Continue resumes execution from the current instruction pointer, until the
// machine suspends or terminates.  This is used after more input has been
// pushed to a suspended machine.  A machine which has terminated remains
// terminated.
func (p *Machine) Continue() (Status, error) {
	for {
		if status, err := p.Step(); err != nil || status != Running {
			return status, err
		}
	}
}

// Step executes exactly one instruction from the current instruction pointer.
// If the instruction is an input with an empty input queue, the machine is
// suspended without any side-effect and the instruction pointer is left
// pointing at the input instruction, such that it is re-executed on the next
// step.  An error is returned only for invalid memory accesses, in which case
// the machine status becomes Error.
func (p *Machine) Step() (Status, error) {
	if p.status.IsTerminal() {
		return p.status, nil
	} else if p.pc >= p.memory.Size() {
		p.status = EndOfProgram
		return p.status, nil
	}
	//
	encoded, err := instruction.Fetch(p.memory, p.pc)
	//
	if err != nil {
		p.status = Error
		return p.status, err
	}
	//
	insn, err := encoded.Resolve(p.memory, p.relbase)
	//
	if err != nil {
		p.status = Error
		return p.status, err
	}
	//
	if log.IsLevelEnabled(log.TraceLevel) {
		log.Tracef("%06d: %-32s (rb=%d)", p.pc, encoded.String(), p.relbase)
	}
	// Decoding consumes the instruction
	p.pc += insn.Width
	//
	p.status = p.execute(insn, encoded.Word)
	//
	if p.status != WaitForInput {
		p.steps++
	}
	//
	return p.status, nil
}

// Execute a single decoded instruction whose words have already been consumed
// from the instruction stream.
func (p *Machine) execute(insn instruction.Instruction, word int64) Status {
	var params = insn.Params
	//
	switch insn.Opcode {
	case instruction.Add:
		p.memory.Write(params[2], params[0]+params[1])
	case instruction.Multiply:
		p.memory.Write(params[2], params[0]*params[1])
	case instruction.Input:
		value, ok := p.input.TryPop()
		//
		if !ok {
			// Rewind so the same instruction is decoded again on resumption.
			p.pc -= insn.Width
			return WaitForInput
		}
		//
		p.memory.Write(params[0], value)
	case instruction.Output:
		p.output = append(p.output, params[0])
	case instruction.JumpIfTrue:
		if params[0] != 0 {
			p.pc = params[1]
		}
	case instruction.JumpIfFalse:
		if params[0] == 0 {
			p.pc = params[1]
		}
	case instruction.LessThan:
		p.memory.Write(params[2], boolToWord(params[0] < params[1]))
	case instruction.Equals:
		p.memory.Write(params[2], boolToWord(params[0] == params[1]))
	case instruction.AdjustRelativeBase:
		p.relbase += params[0]
	case instruction.Halt:
		return Halt
	default:
		p.pc -= insn.Width
		p.fault = util.Some(Fault{p.pc, word})
		//
		return Error
	}
	//
	return Running
}

func boolToWord(b bool) int64 {
	if b {
		return 1
	}
	//
	return 0
}
