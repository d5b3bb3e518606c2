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

	"github.com/consensys/go-intcode/pkg/network"
	"github.com/consensys/go-intcode/pkg/util"
	"github.com/consensys/go-intcode/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var networkCmd = &cobra.Command{
	Use:   "network [flags] program_file",
	Short: "Simulate a network of Intcode machines.",
	Long: `Simulate a network of machines, each running the given program,
	which communicate by sending packets.  Packets sent to the relay address
	are retained by the relay, which restarts the network with the most recent
	of these whenever the network goes idle.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		configureLogging(cmd)
		//
		perf := util.NewPerfStats()
		config := getNetworkConfig(cmd)
		base := readProgramFile(args[0])
		//
		sim, err := network.NewSimulator(base, config)
		//
		if err != nil {
			log.Error(err)
			os.Exit(4)
		}
		//
		result, err := sim.Run()
		//
		if GetFlag(cmd, "stats") {
			printNodeStats(sim.Stats())
		}
		//
		if err != nil {
			log.Error(err)
			os.Exit(4)
		}
		//
		log.Infof("terminated after %d rounds (%d relay deliveries)", result.Rounds, result.Deliveries)
		fmt.Println(result.Value)
		//
		perf.Log("Simulating network")
	},
}

// Construct the network configuration from the configuration file (if given),
// overridden by any flags given explicitly.
func getNetworkConfig(cmd *cobra.Command) network.Config {
	var (
		config = network.DefaultConfig()
		err    error
	)
	//
	if filename := GetString(cmd, "config"); filename != "" {
		if config, err = network.LoadConfig(filename); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	}
	//
	if cmd.Flags().Changed("nodes") {
		config.Nodes = GetUint(cmd, "nodes")
	}
	//
	if cmd.Flags().Changed("relay") {
		config.Relay = GetInt(cmd, "relay")
	}
	//
	if cmd.Flags().Changed("no-packet") {
		config.NoPacket = GetInt(cmd, "no-packet")
	}
	//
	if cmd.Flags().Changed("max-rounds") {
		config.MaxRounds = GetUint(cmd, "max-rounds")
	}
	//
	if cmd.Flags().Changed("mode") {
		if config.Mode, err = network.ParseMode(GetString(cmd, "mode")); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}
	//
	return config
}

func printNodeStats(stats []network.NodeStats) {
	table := termio.NewTablePrinter(7, uint(len(stats)+1))
	table.SetRow(0, "node", "state", "status", "sent", "received", "pending", "steps")
	table.AnsiEscapes(termio.IsTerminalOutput())
	//
	for i, s := range stats {
		row := uint(i + 1)
		table.SetRow(row, fmt.Sprintf("%d", s.Address), s.State.String(), s.Status.String(),
			fmt.Sprintf("%d", s.Sent), fmt.Sprintf("%d", s.Received), fmt.Sprintf("%d", s.Pending),
			fmt.Sprintf("%d", s.Steps))
		//
		if s.State == network.Idle {
			table.SetEscape(1, row, termio.NewAnsiEscape().FgColour(termio.TERM_GREEN))
		} else {
			table.SetEscape(1, row, termio.NewAnsiEscape().FgColour(termio.TERM_YELLOW))
		}
	}
	//
	table.AlignLeft(1, true)
	table.AlignLeft(2, true)
	table.Print()
}

func init() {
	rootCmd.AddCommand(networkCmd)
	networkCmd.Flags().String("config", "", "network configuration file (TOML)")
	networkCmd.Flags().Uint("nodes", 50, "number of nodes")
	networkCmd.Flags().Int64("relay", 255, "address of the relay")
	networkCmd.Flags().Int64("no-packet", -1, "value read by a node when its inbox is empty")
	networkCmd.Flags().String("mode", "repeat", "termination mode (first or repeat)")
	networkCmd.Flags().Uint("max-rounds", 0, "maximum number of rounds (0 for unbounded)")
	networkCmd.Flags().Bool("stats", false, "print per-node statistics")
}
