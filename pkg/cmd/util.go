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
package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/consensys/go-intcode/pkg/util/source"
	"github.com/consensys/go-intcode/pkg/vm/machine"
	"github.com/consensys/go-intcode/pkg/vm/program"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	return r
}

// GetUint gets an expected unsigned integer flag, or exits if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	return r
}

// GetInt gets an expected (64bit) integer flag, or exits if an error arises.
func GetInt(cmd *cobra.Command, flag string) int64 {
	r, err := cmd.Flags().GetInt64(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	return r
}

// GetString gets an expected string flag, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	return r
}

// GetIntSlice gets an expected list of (64bit) integers, or exits if an error
// arises.
func GetIntSlice(cmd *cobra.Command, flag string) []int64 {
	r, err := cmd.Flags().GetInt64Slice(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	return r
}

// GetStringArray gets an expected list of strings, or exits if an error arises.
func GetStringArray(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	return r
}

// Read a program file into a fresh machine, or exit with syntax errors
// highlighted.
func readProgramFile(filename string) *machine.Machine {
	files, err := source.ReadFiles(filename)
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	image, serr := program.Parse(&files[0])
	//
	if serr != nil {
		printSyntaxError(serr)
		os.Exit(2)
	}
	//
	return machine.NewFromImage(image...)
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(err *source.SyntaxError) {
	span := err.Span()
	line := err.FirstEnclosingLine()
	// Print error + line number
	fmt.Printf("%s:%d: %s\n", err.SourceFile().Filename(), line.Number(), err.Message())
	// Print line
	fmt.Println(line.String())
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", max(0, span.Start()-line.Start())))
	// Print highlight
	fmt.Println(strings.Repeat("^", max(1, span.Length())))
}

// Apply patches of the form "address=value" to a machine.
func applyPatches(m *machine.Machine, patches []string) error {
	for _, patch := range patches {
		addr, val, ok := strings.Cut(patch, "=")
		//
		if !ok {
			return fmt.Errorf("invalid patch \"%s\" (expected address=value)", patch)
		}
		//
		address, err := strconv.ParseInt(strings.TrimSpace(addr), 10, 64)
		if err != nil || address < 0 {
			return fmt.Errorf("invalid patch address \"%s\"", addr)
		}
		//
		value, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid patch value \"%s\"", val)
		}
		//
		m.Write(address, value)
	}
	//
	return nil
}

// Push the input values and ASCII lines given on the command line.
func pushInputs(cmd *cobra.Command, m *machine.Machine) {
	m.Push(GetIntSlice(cmd, "input")...)
	//
	for _, line := range GetStringArray(cmd, "ascii") {
		m.PushASCII(line + "\n")
	}
}

// Print the output buffer of a machine, either as text or as integers.
func printOutput(w io.Writer, m *machine.Machine, ascii bool) {
	var output = m.DrainOutput()
	//
	if ascii {
		var text strings.Builder
		//
		for _, v := range output {
			if v >= 0 && v < 128 {
				text.WriteByte(byte(v))
			} else {
				// Non-ASCII values are typically final answers.
				fmt.Fprintf(&text, "%d\n", v)
			}
		}
		//
		fmt.Fprint(w, text.String())
	} else if len(output) > 0 {
		fmt.Fprintln(w, program.Format(output))
	}
}

// Print selected memory locations of a machine.
func printMemory(m *machine.Machine, addresses []int64) {
	for _, addr := range addresses {
		if addr < 0 {
			fmt.Printf("[%d] invalid address\n", addr)
		} else {
			fmt.Printf("[%d] %d\n", addr, m.Read(addr))
		}
	}
}

// Write a checkpoint of a machine to a given file.
func writeCheckpoint(filename string, m *machine.Machine) error {
	cp := m.Checkpoint()
	bytes, err := cp.MarshalBinary()
	//
	if err != nil {
		return err
	}
	//
	return os.WriteFile(filename, bytes, 0o644)
}

// Read a checkpoint from a given file, or exit.
func readCheckpoint(filename string) *machine.Machine {
	var cp machine.Checkpoint
	//
	bytes, err := os.ReadFile(filename)
	//
	if err == nil {
		err = cp.UnmarshalBinary(bytes)
	}
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return cp.Restore()
}
