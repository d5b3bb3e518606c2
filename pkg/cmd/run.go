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

	"github.com/consensys/go-intcode/pkg/util"
	"github.com/consensys/go-intcode/pkg/util/termio"
	"github.com/consensys/go-intcode/pkg/vm/machine"
	"github.com/consensys/go-intcode/pkg/vm/program"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] program_file",
	Short: "Execute an Intcode program.",
	Long: `Execute an Intcode program until it halts, or suspends waiting
	for input.  Input can be given as integers or as lines of ASCII text, and
	a suspended program can be checkpointed for later resumption.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		configureLogging(cmd)
		//
		stats := util.NewPerfStats()
		mode := getRunMode(cmd)
		m := readProgramFile(args[0])
		//
		if err := applyPatches(m, GetStringArray(cmd, "patch")); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		pushInputs(cmd, m)
		status, err := m.RunWith(mode)
		finishExecution(cmd, m, status, err)
		//
		stats.Log("Executing program")
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume [flags] checkpoint_file",
	Short: "Resume a checkpointed Intcode program.",
	Long: `Resume execution of an Intcode program from a checkpoint,
	typically after supplying further input.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			status machine.Status
			err    error
		)
		//
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		configureLogging(cmd)
		//
		stats := util.NewPerfStats()
		mode := getRunMode(cmd)
		m := readCheckpoint(args[0])
		//
		pushInputs(cmd, m)
		//
		if mode == machine.RunStep {
			status, err = m.Step()
		} else {
			status, err = m.Continue()
		}
		//
		finishExecution(cmd, m, status, err)
		//
		stats.Log("Resuming program")
	},
}

func getRunMode(cmd *cobra.Command) machine.RunMode {
	switch mode := GetString(cmd, "mode"); mode {
	case "free":
		return machine.RunFree
	case "step":
		return machine.RunStep
	default:
		fmt.Printf("unknown run mode \"%s\" (expected free or step)\n", mode)
		os.Exit(1)
	}
	// unreachable
	return machine.RunFree
}

// Report the outcome of executing a machine, optionally interacting with the
// user whilst it waits for input.
func finishExecution(cmd *cobra.Command, m *machine.Machine, status machine.Status, err error) {
	var (
		ascii      = GetFlag(cmd, "ascii-output")
		checkpoint = GetString(cmd, "checkpoint")
	)
	//
	if err == nil && GetFlag(cmd, "interactive") {
		status, err = interact(m, status, ascii)
	}
	//
	printOutput(os.Stdout, m, ascii)
	printMemory(m, GetIntSlice(cmd, "memory"))
	//
	if err != nil {
		log.Error(err)
		os.Exit(4)
	}
	//
	switch status {
	case machine.Error:
		log.Error(describeFault(m))
		os.Exit(4)
	case machine.EndOfProgram:
		log.Warnf("program ended without halting (pc=%d)", m.PC())
	case machine.Running, machine.WaitForInput:
		log.Infof("program %s (pc=%d, %d steps)", status, m.PC(), m.Steps())
		//
		if checkpoint != "" {
			if err := writeCheckpoint(checkpoint, m); err != nil {
				log.Error(err)
				os.Exit(4)
			}
			//
			log.Infof("checkpoint written to %s", checkpoint)
		}
	}
	//
	log.Debugf("executed %d steps", m.Steps())
}

// Interact with the user whenever the machine is waiting for input.  When
// stdin is a terminal, lines are read with editing and history.  Each line is
// supplied either as ASCII text, or as comma-separated integers.  Interaction
// ends when the machine no longer waits for input, or no more lines are
// available.
func interact(m *machine.Machine, status machine.Status, ascii bool) (machine.Status, error) {
	var (
		reader termio.LineReader = termio.NewLineReader(os.Stdin)
		writer io.Writer         = os.Stdout
		err    error
	)
	//
	if termio.IsTerminal() {
		console, cerr := termio.NewConsole("> ")
		//
		if cerr != nil {
			return status, cerr
		}
		//
		defer func() {
			if rerr := console.Restore(); rerr != nil {
				log.Error(rerr)
			}
		}()
		//
		reader, writer = console, console
	}
	//
	for status == machine.WaitForInput {
		printOutput(writer, m, ascii)
		//
		line, rerr := reader.ReadLine()
		//
		if rerr != nil {
			// End of input leaves the machine suspended
			break
		} else if ascii {
			m.PushASCII(line + "\n")
		} else if values, serr := program.ParseString(line); serr != nil {
			fmt.Fprintf(writer, "%s\n", serr.Message())
			continue
		} else {
			m.Push(values...)
		}
		//
		if status, err = m.Continue(); err != nil {
			break
		}
	}
	//
	return status, err
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(resumeCmd)
	//
	for _, cmd := range []*cobra.Command{runCmd, resumeCmd} {
		cmd.Flags().Int64SliceP("input", "i", nil, "values to push onto the input queue")
		cmd.Flags().StringArrayP("ascii", "a", nil, "line of text to push onto the input queue")
		cmd.Flags().Bool("ascii-output", false, "print output as ASCII text")
		cmd.Flags().Bool("interactive", false, "read further input from stdin whilst the program waits")
		cmd.Flags().Int64Slice("memory", nil, "memory addresses to print on completion")
		cmd.Flags().String("checkpoint", "", "file to write a checkpoint to if the program suspends")
		cmd.Flags().String("mode", "free", "execution mode (free or step)")
	}
	//
	runCmd.Flags().StringArrayP("patch", "p", nil, "patch memory before running (address=value)")
}

// Describe why a machine stopped with an error.  Not every error leaves a fault
// behind (e.g. an invalid address, or a checkpoint restored in that state).
func describeFault(m *machine.Machine) string {
	if fault := m.Fault(); fault.HasValue() {
		return fault.Unwrap().String()
	}
	//
	return fmt.Sprintf("program %s (pc=%d)", m.Status(), m.PC())
}
