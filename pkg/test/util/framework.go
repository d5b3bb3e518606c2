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
package util

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/consensys/go-intcode/pkg/util"
	"github.com/consensys/go-intcode/pkg/util/source"
	"github.com/consensys/go-intcode/pkg/vm/machine"
	"github.com/consensys/go-intcode/pkg/vm/program"
)

// TestDir determines the (relative) location of the test directory.  That is
// where the intcode test programs and their corresponding runs (accepts) are
// found.
const TestDir = "../../testdata/intcode"

// Run describes a single execution of a test program, along with its expected
// outcome.  Runs are written one per line (as JSON) in an "accepts" file.
type Run struct {
	// Memory patches applied before running.
	Patch map[string]int64 `json:"patch"`
	// Values pushed onto the input queue.
	Input []int64 `json:"input"`
	// Text pushed onto the input queue.
	Ascii string `json:"ascii"`
	// Expected output values (if given).
	Output *[]int64 `json:"output"`
	// Expected output text (if given).
	AsciiOutput *string `json:"ascii_output"`
	// Expected memory contents at given addresses.
	Memory map[string]int64 `json:"memory"`
	// Expected final status (defaults to "halted").
	Status string `json:"status"`
}

// CheckValid checks every run in a test's accepts file behaves as expected
// for the test program.
func CheckValid(t *testing.T, test string) {
	var (
		filename = fmt.Sprintf("%s/%s.int", TestDir, test)
		accepts  = fmt.Sprintf("%s/%s.accepts", TestDir, test)
	)
	// Enable testing each program in parallel
	t.Parallel()
	//
	srcfile := readSourceFile(t, filename)
	image, err := program.Parse(srcfile)
	//
	if err != nil {
		t.Fatalf("%s: %s", filename, err.Error())
	}
	//
	runs := ReadRunsFile(accepts)
	// Sanity check at least one run found.
	if len(runs) == 0 {
		t.Fatalf("missing any runs for %s", test)
	}
	//
	for line, run := range runs {
		id := fmt.Sprintf("%s:%d", accepts, line)
		checkRun(t, id, machine.NewFromImage(image...), run)
	}
}

// ReadRunsFile reads a file containing zero or more runs expressed as JSON,
// where each run is on a separate line.  Blank lines and comment lines
// (beginning ";;") are skipped.  Runs are keyed by line number.
func ReadRunsFile(filename string) map[int]Run {
	lines := util.ReadInputFile(filename)
	runs := make(map[int]Run)
	//
	for i, line := range lines {
		if strings.TrimSpace(line) != "" && !strings.HasPrefix(line, ";;") {
			var run Run
			//
			if err := json.Unmarshal([]byte(line), &run); err != nil {
				msg := fmt.Sprintf("%s:%d: %s", filename, i+1, err)
				panic(msg)
			}
			//
			runs[i+1] = run
		}
	}
	//
	return runs
}

func checkRun(t *testing.T, id string, m *machine.Machine, run Run) {
	expected := run.Status
	//
	if expected == "" {
		expected = machine.Halt.String()
	}
	//
	for addr, val := range run.Patch {
		m.Write(parseAddress(id, addr), val)
	}
	//
	m.Push(run.Input...)
	m.PushASCII(run.Ascii)
	//
	status, err := m.Run()
	//
	switch {
	case err != nil:
		t.Errorf("%s: unexpected error (%s)", id, err)
	case status.String() != expected:
		t.Errorf("%s: expected status %s, got %s", id, expected, status)
	case run.Output != nil && !slices.Equal(m.Output(), *run.Output):
		t.Errorf("%s: expected output %v, got %v", id, *run.Output, m.Output())
	case run.AsciiOutput != nil && m.OutputASCII() != *run.AsciiOutput:
		t.Errorf("%s: expected output %q, got %q", id, *run.AsciiOutput, m.OutputASCII())
	}
	//
	for addr, val := range run.Memory {
		if actual := m.Read(parseAddress(id, addr)); actual != val {
			t.Errorf("%s: expected %d at address %s, got %d", id, val, addr, actual)
		}
	}
}

func parseAddress(id string, addr string) int64 {
	address, err := strconv.ParseInt(addr, 10, 64)
	//
	if err != nil || address < 0 {
		panic(fmt.Sprintf("%s: invalid address \"%s\"", id, addr))
	}
	//
	return address
}

// Read a source file, or fail the test.
func readSourceFile(t *testing.T, filename string) *source.File {
	files, err := source.ReadFiles(filename)
	// Check test file read ok
	if err != nil {
		t.Fatal(err)
	}
	//
	return &files[0]
}
