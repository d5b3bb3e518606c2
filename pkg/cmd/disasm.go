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
	"os"

	"github.com/consensys/go-intcode/pkg/util/termio"
	"github.com/consensys/go-intcode/pkg/vm/instruction"
	"github.com/consensys/go-intcode/pkg/vm/program"
	"github.com/spf13/cobra"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm [flags] program_file",
	Short: "Disassemble an Intcode program.",
	Long: `Disassemble an Intcode program by a linear sweep from address
	zero.  Since code and data are indistinguishable, data embedded within a
	program is shown as whatever instruction it happens to decode as.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		configureLogging(cmd)
		//
		var (
			m       = readProgramFile(args[0])
			mem     = m.Memory()
			listing = instruction.Disassemble(mem, GetInt(cmd, "start"), mem.Size())
			table   = termio.NewTablePrinter(3, uint(len(listing)))
		)
		//
		table.AnsiEscapes(termio.IsTerminalOutput())
		table.AlignLeft(1, true)
		table.AlignLeft(2, true)
		//
		for i, item := range listing {
			var (
				row   = uint(i)
				words = make([]int64, item.Instruction.Width())
			)
			//
			for j := range words {
				words[j] = mem.Read(item.Address + int64(j))
			}
			//
			table.SetRow(row, fmt.Sprintf("%d", item.Address), program.Format(words), item.Instruction.String())
			//
			if item.Instruction.Opcode == instruction.Unknown {
				table.SetEscape(2, row, termio.NewAnsiEscape().FgColour(termio.TERM_RED))
			} else {
				table.SetEscape(2, row, termio.NewAnsiEscape().FgColour(termio.TERM_CYAN))
			}
		}
		//
		table.Print()
	},
}

func init() {
	rootCmd.AddCommand(disasmCmd)
	disasmCmd.Flags().Int64("start", 0, "address to start disassembling from")
}
