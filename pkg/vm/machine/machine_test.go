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
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/consensys/go-intcode/pkg/util/source"
	"github.com/consensys/go-intcode/pkg/vm/memory"
)

const equalEight = "3,9,8,9,10,9,4,9,99,-1,8"

const compareEight = "3,21,1008,21,8,20,1005,20,22,107,8,21,20,1006,20,31,1106,0,36,98,0,0," +
	"1002,21,125,20,4,20,1105,1,46,104,999,1105,1,46,1101,1000,1,20,4,20,1105,1,46,98,99"

const quine = "109,1,204,-1,1001,100,1,100,1008,100,16,101,1006,101,0,99"

// ============================================================================
// Construction
// ============================================================================

func Test_New_01(t *testing.T) {
	m, err := New(" 1, 2 ,-3\n")
	//
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	//
	checkMemory(t, m, 0, 1)
	checkMemory(t, m, 1, 2)
	checkMemory(t, m, 2, -3)
}

func Test_New_02(t *testing.T) {
	m, err := New("1,2,x")
	//
	var serr *source.SyntaxError
	//
	if m != nil {
		t.Errorf("unexpected machine")
	} else if !errors.As(err, &serr) {
		t.Fatalf("expected syntax error, got %v", err)
	} else if span := serr.Span(); span.Start() != 4 {
		t.Errorf("unexpected span %v", span)
	}
}

// ============================================================================
// Basic programs
// ============================================================================

func Test_Run_01(t *testing.T) {
	m := checkRun(t, "1,9,10,3,2,3,11,0,99,30,40,50", Halt)
	checkMemory(t, m, 0, 3500)
	checkMemory(t, m, 3, 70)
}

func Test_Run_02(t *testing.T) {
	m := checkRun(t, "1002,4,3,4,33", Halt)
	checkMemory(t, m, 4, 99)
}

func Test_Run_03(t *testing.T) {
	m := checkRun(t, "1101,100,-1,4,0", Halt)
	checkMemory(t, m, 4, 99)
}

func Test_Run_04(t *testing.T) {
	checkOutput(t, "3,0,4,0,99", []int64{42}, 42)
	checkOutput(t, "3,0,4,0,99", []int64{-7}, -7)
}

func Test_Run_05(t *testing.T) {
	m := checkRun(t, quine, Halt)
	expected := parseImage(t, quine)
	//
	if !slices.Equal(m.Output(), expected) {
		t.Errorf("expected %v, got %v", expected, m.Output())
	}
}

func Test_Run_06(t *testing.T) {
	checkOutput(t, "1102,34915192,34915192,7,4,7,99,0", nil, 1219070632396864)
}

func Test_Run_07(t *testing.T) {
	checkOutput(t, "104,1125899906842624,99", nil, 1125899906842624)
}

// Relative destination writes beyond the program image.
func Test_Run_08(t *testing.T) {
	m := checkRun(t, "109,10,21101,5,7,0,204,0,99", Halt)
	//
	checkMemory(t, m, 10, 12)
	checkOutputs(t, m, 12)
	//
	if m.RelativeBase() != 10 {
		t.Errorf("unexpected relative base %d", m.RelativeBase())
	}
}

// Relative base can be negative, provided the effective address is not.
func Test_Run_09(t *testing.T) {
	checkOutput(t, "109,-1,204,1,99", nil, 109)
}

// Same addition in each addressing mode.
func Test_Run_10(t *testing.T) {
	for _, text := range []string{"1,5,6,0,99,20,22", "1101,20,22,0,99", "109,6,22201,1,2,-6,99,20,22"} {
		m := checkRun(t, text, Halt)
		checkMemory(t, m, 0, 42)
	}
}

func Test_Run_11(t *testing.T) {
	checkOutput(t, equalEight, []int64{8}, 1)
	checkOutput(t, equalEight, []int64{7}, 0)
	checkOutput(t, "3,9,7,9,10,9,4,9,99,-1,8", []int64{5}, 1)
	checkOutput(t, "3,9,7,9,10,9,4,9,99,-1,8", []int64{8}, 0)
	checkOutput(t, "3,3,1108,-1,8,3,4,3,99", []int64{8}, 1)
	checkOutput(t, "3,3,1108,-1,8,3,4,3,99", []int64{-8}, 0)
	checkOutput(t, "3,3,1107,-1,8,3,4,3,99", []int64{7}, 1)
	checkOutput(t, "3,3,1107,-1,8,3,4,3,99", []int64{9}, 0)
}

func Test_Run_12(t *testing.T) {
	checkOutput(t, compareEight, []int64{-3}, 999)
	checkOutput(t, compareEight, []int64{7}, 999)
	checkOutput(t, compareEight, []int64{8}, 1000)
	checkOutput(t, compareEight, []int64{9}, 1001)
}

// Jumps in positional mode.
func Test_Run_13(t *testing.T) {
	const program = "3,12,6,12,15,1,13,14,13,4,13,99,-1,0,1,9"
	//
	checkOutput(t, program, []int64{0}, 0)
	checkOutput(t, program, []int64{5}, 1)
}

func Test_Run_14(t *testing.T) {
	// Build "104,7,99" at address 1000 using relative writes, then jump there.
	relative := checkRun(t, "109,1000,21101,0,104,0,21101,0,7,1,21101,0,99,2,1105,1,1000", Halt)
	// Same again using positional writes.
	positional := checkRun(t, "1101,0,104,1000,1101,0,7,1001,1101,0,99,1002,1105,1,1000", Halt)
	//
	for _, m := range []*Machine{relative, positional} {
		checkOutputs(t, m, 7)
		checkMemory(t, m, 1000, 104)
		checkMemory(t, m, 1002, 99)
		//
		if m.PC() != 1003 {
			t.Errorf("expected pc 1003, got %d", m.PC())
		}
	}
}

// ============================================================================
// Terminal statuses
// ============================================================================

func Test_Status_01(t *testing.T) {
	m := checkRun(t, "1101,1,1,0", EndOfProgram)
	checkMemory(t, m, 0, 2)
}

func Test_Status_02(t *testing.T) {
	m := checkRun(t, "1101,1,1,5,98", Error)
	//
	if m.Fault().IsEmpty() {
		t.Fatalf("expected fault")
	} else if f := m.Fault().Unwrap(); f.Address != 4 || f.Word != 98 {
		t.Errorf("unexpected fault %s", f.String())
	} else if m.PC() != 4 {
		t.Errorf("unexpected pc %d", m.PC())
	}
	//
	checkMemory(t, m, 5, 2)
}

// Invalid mode digit
func Test_Status_03(t *testing.T) {
	m := checkRun(t, "301,0,0,0,99", Error)
	checkMemory(t, m, 0, 301)
}

func Test_Status_04(t *testing.T) {
	checkAddressError(t, "1,-1,0,0,99", -1)
	checkAddressError(t, "109,-5,2201,0,0,0,99", -5)
	checkAddressError(t, "1105,1,-3", -3)
	checkAddressError(t, "109,-10,21101,1,1,0,99", -10)
	// Jump to an instruction whose operands run off the address space
	checkAddressError(t, "1101,1101,0,9223372036854775806,1105,1,9223372036854775806", math.MinInt64)
}

// Terminated machines stay terminated.
func Test_Status_05(t *testing.T) {
	m := checkRun(t, "104,1,99", Halt)
	//
	for range 3 {
		if status, err := m.Step(); status != Halt || err != nil {
			t.Errorf("unexpected status %s (%v)", status, err)
		}
		//
		if status, err := m.Continue(); status != Halt || err != nil {
			t.Errorf("unexpected status %s (%v)", status, err)
		}
	}
	//
	checkOutputs(t, m, 1)
}

// ============================================================================
// Suspension
// ============================================================================

func Test_Suspend_01(t *testing.T) {
	m := newMachine(t, "3,0,4,0,99")
	//
	checkStatus(t, m, WaitForInput)
	// Suspension is idempotent
	for range 3 {
		if status, err := m.Step(); status != WaitForInput || err != nil {
			t.Errorf("unexpected status %s (%v)", status, err)
		}
	}
	//
	if m.PC() != 0 || m.Steps() != 0 || len(m.Output()) != 0 {
		t.Errorf("unexpected state (pc=%d, steps=%d)", m.PC(), m.Steps())
	}
	//
	m.Push(7)
	//
	if status, err := m.Continue(); status != Halt || err != nil {
		t.Errorf("unexpected status %s (%v)", status, err)
	}
	//
	checkOutputs(t, m, 7)
	checkMemory(t, m, 0, 7)
}

// Feeding input one value at a time matches feeding it all upfront.
func Test_Suspend_02(t *testing.T) {
	const program = "3,11,3,12,1,11,12,13,4,13,99,0,0,0"
	//
	upfront := newMachine(t, program)
	upfront.Push(3, 4)
	checkStatus(t, upfront, Halt)
	//
	stepped := newMachine(t, program)
	checkStatus(t, stepped, WaitForInput)
	stepped.Push(3)
	//
	if status, _ := stepped.Continue(); status != WaitForInput {
		t.Fatalf("unexpected status %s", status)
	}
	//
	stepped.Push(4)
	//
	if status, _ := stepped.Continue(); status != Halt {
		t.Fatalf("unexpected status %s", status)
	}
	//
	if !slices.Equal(upfront.Memory().(*memory.Sparse).Contents(), stepped.Memory().(*memory.Sparse).Contents()) {
		t.Errorf("memory differs")
	} else if !slices.Equal(upfront.Output(), stepped.Output()) {
		t.Errorf("output differs")
	} else if upfront.Steps() != stepped.Steps() {
		t.Errorf("steps differ (%d vs %d)", upfront.Steps(), stepped.Steps())
	}
	//
	checkOutputs(t, stepped, 7)
}

func Test_Step_01(t *testing.T) {
	m := newMachine(t, "1101,1,1,0,1101,2,2,1,99")
	//
	checkStep(t, m, RunStep, Running, 4)
	checkMemory(t, m, 0, 2)
	checkStep(t, m, RunFree, Running, 8)
	checkMemory(t, m, 1, 4)
	checkStep(t, m, RunFree, Halt, 9)
	checkStep(t, m, RunFree, Halt, 9)
	//
	if m.Steps() != 3 {
		t.Errorf("unexpected steps %d", m.Steps())
	}
}

// Run always restarts from the entry point.
func Test_Step_02(t *testing.T) {
	m := newMachine(t, "104,1,104,2,99")
	//
	checkStep(t, m, RunStep, Running, 2)
	checkStep(t, m, RunStep, Running, 2)
	checkOutputs(t, m, 1, 1)
}

// ============================================================================
// Input / Output helpers
// ============================================================================

func Test_ASCII_01(t *testing.T) {
	m := newMachine(t, "3,0,4,0,3,0,4,0,3,0,4,0,99")
	m.PushASCII("hi\n")
	//
	checkStatus(t, m, Halt)
	//
	if m.OutputASCII() != "hi\n" {
		t.Errorf("unexpected output %q", m.OutputASCII())
	}
}

func Test_ASCII_02(t *testing.T) {
	m := newMachine(t, "104,72,104,105,104,1000,99")
	checkStatus(t, m, Halt)
	//
	if m.OutputASCII() != "Hi" {
		t.Errorf("unexpected output %q", m.OutputASCII())
	}
	//
	if out := m.DrainOutput(); !slices.Equal(out, []int64{72, 105, 1000}) {
		t.Errorf("unexpected output %v", out)
	} else if len(m.Output()) != 0 {
		t.Errorf("output not drained")
	}
}

func Test_Output_01(t *testing.T) {
	m := checkRun(t, "104,1,104,2,104,3,104,4,99", Halt)
	//
	if out := m.TakeOutput(3); !slices.Equal(out, []int64{1, 2, 3}) {
		t.Errorf("unexpected output %v", out)
	}
	//
	checkOutputs(t, m, 4)
}

// ============================================================================
// Clone
// ============================================================================

func Test_Clone_01(t *testing.T) {
	m := newMachine(t, "3,0,4,0,99")
	checkStatus(t, m, WaitForInput)
	//
	clone := m.Clone()
	clone.Push(5)
	//
	if status, _ := clone.Continue(); status != Halt {
		t.Fatalf("unexpected status %s", status)
	}
	// Original must be unaffected
	if m.PendingInput() != 0 || len(m.Output()) != 0 || m.Status() != WaitForInput {
		t.Errorf("original modified")
	}
	//
	checkMemory(t, m, 0, 3)
	checkMemory(t, clone, 0, 5)
	//
	m.Push(6)
	//
	if status, _ := m.Continue(); status != Halt {
		t.Fatalf("unexpected status %s", status)
	}
	//
	checkOutputs(t, m, 6)
	checkOutputs(t, clone, 5)
}

func Test_Clone_02(t *testing.T) {
	m := checkRun(t, "109,10,21101,5,7,0,204,0,99", Halt)
	clone := m.Clone()
	clone.Write(10, 1)
	clone.Write(1000, 1)
	clone.DrainOutput()
	//
	checkMemory(t, m, 10, 12)
	checkMemory(t, m, 1000, 0)
	checkOutputs(t, m, 12)
}

// ============================================================================
// Checkpoints
// ============================================================================

func Test_Checkpoint_01(t *testing.T) {
	m := newMachine(t, "109,20,21101,5,7,0,3,15,4,15,99")
	checkStatus(t, m, WaitForInput)
	//
	cp := m.Checkpoint()
	bytes, err := cp.MarshalBinary()
	//
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	//
	var decoded Checkpoint
	//
	if err := decoded.UnmarshalBinary(bytes); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	//
	restored := decoded.Restore()
	//
	if restored.PC() != 6 || restored.RelativeBase() != 20 || restored.Status() != WaitForInput {
		t.Errorf("unexpected state (pc=%d, rb=%d, %s)", restored.PC(), restored.RelativeBase(), restored.Status())
	}
	//
	checkMemory(t, restored, 20, 12)
	restored.Push(9)
	//
	if status, err := restored.Continue(); status != Halt || err != nil {
		t.Fatalf("unexpected status %s (%v)", status, err)
	}
	//
	checkOutputs(t, restored, 9)
	checkMemory(t, restored, 15, 9)
	// Original unaffected
	checkMemory(t, m, 15, 0)
	//
	if restored.Steps() != m.Steps()+3 {
		t.Errorf("unexpected steps %d", restored.Steps())
	}
}

// Encoding is canonical
func Test_Checkpoint_02(t *testing.T) {
	m := checkRun(t, "109,50,21101,5,7,0,204,0,1101,1,1,100,1101,1,1,200,99", Halt)
	//
	c1, c2 := m.Checkpoint(), m.Clone().Checkpoint()
	b1, err1 := c1.MarshalBinary()
	b2, err2 := c2.MarshalBinary()
	//
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	} else if !slices.Equal(b1, b2) {
		t.Errorf("encoding not canonical")
	}
}

func Test_Checkpoint_03(t *testing.T) {
	var cp Checkpoint
	//
	if err := cp.UnmarshalBinary([]byte{0xff, 0x00, 0x13}); err == nil {
		t.Errorf("expected error")
	}
}

func Test_Checkpoint_04(t *testing.T) {
	m := checkRun(t, "42", Error)
	cp := m.Checkpoint()
	bytes, _ := cp.MarshalBinary()
	//
	var decoded Checkpoint
	//
	if err := decoded.UnmarshalBinary(bytes); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	//
	restored := decoded.Restore()
	//
	if restored.Status() != Error || restored.Fault().IsEmpty() || restored.Fault().Unwrap().Word != 42 {
		t.Errorf("fault not restored")
	}
}

// ============================================================================
// Helpers
// ============================================================================

func newMachine(t *testing.T, text string) *Machine {
	t.Helper()
	//
	m, err := New(text)
	//
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	//
	return m
}

func parseImage(t *testing.T, text string) []int64 {
	t.Helper()
	//
	return newMachine(t, text).Memory().(*memory.Sparse).Contents()
}

func checkRun(t *testing.T, text string, expected Status) *Machine {
	t.Helper()
	//
	m := newMachine(t, text)
	checkStatus(t, m, expected)
	//
	return m
}

func checkStatus(t *testing.T, m *Machine, expected Status) {
	t.Helper()
	//
	status, err := m.Run()
	//
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	} else if status != expected {
		t.Errorf("expected status %s, got %s", expected, status)
	} else if m.Status() != status {
		t.Errorf("inconsistent status %s", m.Status())
	}
}

func checkStep(t *testing.T, m *Machine, mode RunMode, expected Status, pc int64) {
	t.Helper()
	//
	var (
		status Status
		err    error
	)
	//
	if mode == RunStep {
		status, err = m.RunWith(mode)
	} else {
		status, err = m.Step()
	}
	//
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	} else if status != expected {
		t.Errorf("expected status %s, got %s", expected, status)
	} else if m.PC() != pc {
		t.Errorf("expected pc %d, got %d", pc, m.PC())
	}
}

func checkOutput(t *testing.T, text string, input []int64, expected ...int64) {
	t.Helper()
	//
	m := newMachine(t, text)
	m.Push(input...)
	checkStatus(t, m, Halt)
	checkOutputs(t, m, expected...)
}

func checkOutputs(t *testing.T, m *Machine, expected ...int64) {
	t.Helper()
	//
	if !slices.Equal(m.Output(), expected) {
		t.Errorf("expected output %v, got %v", expected, m.Output())
	}
}

func checkMemory(t *testing.T, m *Machine, address int64, expected int64) {
	t.Helper()
	//
	if actual := m.Read(address); actual != expected {
		t.Errorf("expected %d at address %d, got %d", expected, address, actual)
	}
}

func checkAddressError(t *testing.T, text string, address int64) {
	t.Helper()
	//
	var (
		m           = newMachine(t, text)
		status, err = m.Run()
		aerr        *memory.AddressError
	)
	//
	if status != Error {
		t.Errorf("expected error status, got %s", status)
	} else if !errors.As(err, &aerr) {
		t.Errorf("expected address error, got %v", err)
	} else if aerr.Address != address {
		t.Errorf("expected address %d, got %d", address, aerr.Address)
	}
}
