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

	"github.com/consensys/go-intcode/pkg/explore"
	"github.com/consensys/go-intcode/pkg/util"
	"github.com/consensys/go-intcode/pkg/vm/program"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var amplifyCmd = &cobra.Command{
	Use:   "amplify [flags] program_file",
	Short: "Find the best phase settings for a chain of amplifiers.",
	Long: `Run a chain of amplifiers, each a copy of the given program, over
	every arrangement of the given phase settings and report the arrangement
	producing the largest signal.  Amplifiers are either chained in series, or
	connected in a feedback loop.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		configureLogging(cmd)
		//
		var (
			perf     = util.NewPerfStats()
			feedback = GetFlag(cmd, "feedback")
			phases   = GetIntSlice(cmd, "phases")
			base     = readProgramFile(args[0])
			best     explore.Setting
			err      error
		)
		//
		if !cmd.Flags().Changed("phases") && feedback {
			phases = []int64{5, 6, 7, 8, 9}
		}
		//
		switch {
		case GetFlag(cmd, "fixed") && feedback:
			best.Phases = phases
			best.Signal, err = explore.Feedback(base, phases, GetInt(cmd, "signal"))
		case GetFlag(cmd, "fixed"):
			best.Phases = phases
			best.Signal, err = explore.Series(base, phases, GetInt(cmd, "signal"))
		default:
			best, err = explore.MaxSignal(base, phases, feedback)
		}
		//
		if err != nil {
			log.Error(err)
			os.Exit(4)
		}
		//
		fmt.Printf("phases %s: signal %d\n", program.Format(best.Phases), best.Signal)
		//
		perf.Log("Exploring amplifiers")
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [flags] program_file",
	Short: "Search for a patch producing a given result.",
	Long: `Search for the noun (address 1) and verb (address 2) which, when
	patched into the given program, leave the target value at address 0 once
	the program halts.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		configureLogging(cmd)
		//
		perf := util.NewPerfStats()
		base := readProgramFile(args[0])
		patch, err := explore.SearchPatch(base, GetInt(cmd, "target"), GetInt(cmd, "max"))
		//
		if err != nil {
			log.Error(err)
			os.Exit(4)
		}
		//
		fmt.Printf("noun %d, verb %d (%d)\n", patch.Noun, patch.Verb, 100*patch.Noun+patch.Verb)
		//
		perf.Log("Searching patches")
	},
}

func init() {
	rootCmd.AddCommand(amplifyCmd)
	rootCmd.AddCommand(searchCmd)
	amplifyCmd.Flags().Int64Slice("phases", []int64{0, 1, 2, 3, 4}, "phase settings to arrange")
	amplifyCmd.Flags().Bool("feedback", false, "connect amplifiers in a feedback loop")
	amplifyCmd.Flags().Bool("fixed", false, "use phase settings in the order given")
	amplifyCmd.Flags().Int64("signal", 0, "initial signal (with --fixed)")
	searchCmd.Flags().Int64("target", 19690720, "value required at address 0")
	searchCmd.Flags().Int64("max", 99, "largest noun and verb to try")
}
