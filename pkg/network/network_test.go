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
package network

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/consensys/go-intcode/pkg/vm/machine"
	"github.com/consensys/go-intcode/pkg/vm/memory"
)

// Each node sends (address, address+10) to the relay, then reads input forever.
const relayProgram = "3,100,1001,100,10,101,104,255,4,100,4,101,3,102,1105,1,12"

// Node zero sends (5, 6) to node one, whilst every other node forwards whatever
// it receives to the relay.
const forwardProgram = "3,100,1005,100,18,104,1,104,5,104,6,3,101,1105,1,11,99,99," +
	"3,101,1008,101,-1,102,1005,102,18,3,103,104,255,4,101,4,103,1105,1,18"

// ============================================================================
// Simulation
// ============================================================================

func Test_Network_01(t *testing.T) {
	result := checkRun(t, relayProgram, Config{Nodes: 2, Relay: 255, NoPacket: -1, Mode: FirstMode})
	//
	checkResult(t, result, Result{10, 4, 0})
}

func Test_Network_02(t *testing.T) {
	result := checkRun(t, relayProgram, Config{Nodes: 2, Relay: 255, NoPacket: -1, Mode: RepeatMode})
	//
	checkResult(t, result, Result{11, 16, 1})
}

func Test_Network_03(t *testing.T) {
	result := checkRun(t, relayProgram, DefaultConfig())
	// Most recent relay packet comes from the highest address
	checkResult(t, result, Result{59, 16, 1})
}

func Test_Network_04(t *testing.T) {
	result := checkRun(t, forwardProgram, Config{Nodes: 2, Relay: 255, NoPacket: -1, Mode: FirstMode})
	//
	if result.Value != 6 {
		t.Errorf("expected 6, got %d", result.Value)
	}
}

func Test_Network_05(t *testing.T) {
	result := checkRun(t, forwardProgram, Config{Nodes: 3, Relay: 99, NoPacket: -1, Mode: RepeatMode})
	//
	if result.Value != 6 || result.Deliveries != 1 {
		t.Errorf("unexpected result %v", result)
	}
}

// Packets are delivered only after the round in which they are sent.
func Test_Network_06(t *testing.T) {
	sim := newSimulator(t, forwardProgram, Config{Nodes: 2, Relay: 255, NoPacket: -1, Mode: FirstMode})
	//
	for range 3 {
		checkRound(t, sim, 0)
	}
	//
	packets := checkRound(t, sim, 1)
	//
	if packets[0] != (Packet{1, 5, 6}) {
		t.Errorf("unexpected packet %s", packets[0].String())
	} else if sim.Nodes()[1].Stats().Pending != 1 {
		t.Errorf("packet not delivered")
	} else if sim.Nodes()[1].Stats().Received != 0 {
		t.Errorf("packet consumed early")
	} else if sim.Nodes()[0].Stats().Sent != 1 {
		t.Errorf("packet not counted")
	}
}

func Test_Network_07(t *testing.T) {
	sim := newSimulator(t, relayProgram, Config{Nodes: 2, Relay: 255, NoPacket: -1, Mode: RepeatMode})
	//
	if _, err := sim.Run(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	//
	stats := sim.Stats()
	//
	if stats[0].Sent != 1 || stats[0].Received != 1 || stats[0].State != Idle {
		t.Errorf("unexpected stats for node 0: %v", stats[0])
	} else if stats[1].Sent != 1 || stats[1].Received != 0 || stats[1].State != Idle {
		t.Errorf("unexpected stats for node 1: %v", stats[1])
	} else if sim.Relay().Unwrap() != (Packet{255, 1, 11}) {
		t.Errorf("unexpected relay packet %s", sim.Relay().Unwrap().String())
	}
}

// ============================================================================
// Failures
// ============================================================================

func Test_Network_08(t *testing.T) {
	_, err := runSimulator(t, "3,100,104,7,104,0,104,0,99", Config{Nodes: 2, Relay: 255, NoPacket: -1})
	//
	if !errors.Is(err, ErrUnroutable) {
		t.Errorf("expected unroutable packet, got %v", err)
	}
}

func Test_Network_09(t *testing.T) {
	_, err := runSimulator(t, "3,100,42", Config{Nodes: 2, Relay: 255, NoPacket: -1})
	//
	var nerr *NodeError
	//
	if !errors.As(err, &nerr) {
		t.Fatalf("expected node error, got %v", err)
	} else if nerr.Address != 0 || nerr.Fault.IsEmpty() || nerr.Fault.Unwrap().Word != 42 {
		t.Errorf("unexpected node error %s", nerr.Error())
	}
}

func Test_Network_10(t *testing.T) {
	m, _ := machine.New("3,-1")
	_, err := NewSimulator(m, Config{Nodes: 2, Relay: 255, NoPacket: -1})
	//
	var aerr *memory.AddressError
	//
	if !errors.As(err, &aerr) || aerr.Address != -1 {
		t.Errorf("expected address error, got %v", err)
	}
}

func Test_Network_11(t *testing.T) {
	result, err := runSimulator(t, relayProgram, Config{Nodes: 2, Relay: 255, NoPacket: -1, MaxRounds: 3})
	//
	if !errors.Is(err, ErrRoundLimit) {
		t.Errorf("expected round limit, got %v", err)
	} else if result.Rounds != 3 {
		t.Errorf("unexpected rounds %d", result.Rounds)
	}
}

func Test_Network_12(t *testing.T) {
	for _, mode := range []Mode{FirstMode, RepeatMode} {
		_, err := runSimulator(t, "3,100,99", Config{Nodes: 3, Relay: 255, NoPacket: -1, Mode: mode})
		//
		if !errors.Is(err, ErrTerminated) {
			t.Errorf("expected termination, got %v", err)
		}
	}
}

func Test_Network_14(t *testing.T) {
	// Every node sends (1,2) to the relay and halts.  The relay's delivery to
	// node zero is never read, so this cannot count as a repeat.
	sim := newSimulator(t, "3,100,104,255,104,1,104,2,99", Config{Nodes: 2, Relay: 255, NoPacket: -1})
	_, err := sim.Run()
	//
	if !errors.Is(err, ErrTerminated) {
		t.Errorf("expected termination, got %v", err)
	} else if sim.Nodes()[0].IsIdle() {
		t.Errorf("node zero should hold an undelivered packet")
	}
}

func Test_Network_13(t *testing.T) {
	m, _ := machine.New(relayProgram)
	//
	if _, err := NewSimulator(m, Config{Nodes: 0, Relay: 255}); err == nil {
		t.Errorf("expected error for empty network")
	}
	//
	if _, err := NewSimulator(m, Config{Nodes: 2, Relay: 1}); err == nil {
		t.Errorf("expected error for clashing relay")
	}
}

// ============================================================================
// Nodes
// ============================================================================

func Test_Node_01(t *testing.T) {
	m, _ := machine.New("3,100,3,101,3,102,99")
	node, err := Boot(7, m)
	//
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	// Base machine untouched
	if m.Status() != machine.Running || m.PendingInput() != 0 {
		t.Errorf("base machine modified")
	}
	//
	checkTick(t, node, Active)
	checkTick(t, node, Passive)
	// Machine is halted
	checkTick(t, node, Idle)
	//
	if node.Machine().Read(100) != 7 || node.Machine().Read(101) != -1 || node.Machine().Read(102) != -1 {
		t.Errorf("unexpected inputs")
	}
	//
	if !node.IsIdle() {
		t.Errorf("halted node should be idle")
	}
	//
	node.Deliver(Packet{7, 1, 2})
	//
	if node.IsIdle() {
		t.Errorf("halted node with pending packet should not be idle")
	}
}

func Test_Node_02(t *testing.T) {
	m, _ := machine.New("3,100,3,101,3,102,3,103,3,104,1105,1,2")
	node, _ := Boot(0, m)
	//
	node.Deliver(Packet{0, 8, 9})
	// in (wait)
	checkTick(t, node, Active)
	// in x, in y
	checkTick(t, node, Active)
	// in (wait)
	checkTick(t, node, Active)
	// in -1, in (wait)
	checkTick(t, node, Passive)
	// in -1, jump
	checkTick(t, node, Idle)
	//
	if node.Machine().Read(101) != 8 || node.Machine().Read(102) != 9 || node.Machine().Read(104) != -1 {
		t.Errorf("unexpected inputs")
	} else if !node.IsIdle() {
		t.Errorf("node should be idle")
	}
	//
	node.Deliver(Packet{0, 1, 2})
	//
	if node.IsIdle() {
		t.Errorf("node with pending packet should not be idle")
	}
}

// ============================================================================
// Configuration
// ============================================================================

func Test_Config_01(t *testing.T) {
	cfg := checkConfig(t, "nodes = 4\nmode = \"first\"\nmax-rounds = 100\n")
	//
	expected := Config{Nodes: 4, Relay: 255, NoPacket: -1, Mode: FirstMode, MaxRounds: 100}
	//
	if cfg != expected {
		t.Errorf("unexpected config %v", cfg)
	}
}

func Test_Config_02(t *testing.T) {
	cfg := checkConfig(t, "relay = 1000\nno-packet = -99\n")
	//
	expected := Config{Nodes: 50, Relay: 1000, NoPacket: -99, Mode: RepeatMode}
	//
	if cfg != expected {
		t.Errorf("unexpected config %v", cfg)
	}
}

func Test_Config_03(t *testing.T) {
	for _, text := range []string{"nodes = 4\nrelays = 3\n", "mode = \"forever\"\n", "nodes = 0\n", "nodes = [\n"} {
		if _, err := LoadConfig(writeConfig(t, text)); err == nil {
			t.Errorf("expected error for %q", text)
		}
	}
}

func Test_Config_04(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Errorf("expected error for missing file")
	}
}

// ============================================================================
// Helpers
// ============================================================================

func newSimulator(t *testing.T, text string, config Config) *Simulator {
	t.Helper()
	//
	m, err := machine.New(text)
	//
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	//
	sim, err := NewSimulator(m, config)
	//
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	//
	return sim
}

func runSimulator(t *testing.T, text string, config Config) (Result, error) {
	t.Helper()
	//
	return newSimulator(t, text, config).Run()
}

func checkRun(t *testing.T, text string, config Config) Result {
	t.Helper()
	//
	result, err := runSimulator(t, text, config)
	//
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	//
	return result
}

func checkResult(t *testing.T, actual Result, expected Result) {
	t.Helper()
	//
	if actual != expected {
		t.Errorf("expected %v, got %v", expected, actual)
	}
}

func checkRound(t *testing.T, sim *Simulator, n int) []Packet {
	t.Helper()
	//
	packets, err := sim.Round()
	//
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	} else if len(packets) != n {
		t.Fatalf("expected %d packets, got %d", n, len(packets))
	}
	//
	return packets
}

func checkTick(t *testing.T, node *Node, expected State) {
	t.Helper()
	//
	if _, err := node.Tick(-1); err != nil {
		t.Fatalf("unexpected error: %s", err)
	} else if node.State() != expected {
		t.Errorf("expected %s, got %s", expected, node.State())
	}
}

func checkConfig(t *testing.T, text string) Config {
	t.Helper()
	//
	cfg, err := LoadConfig(writeConfig(t, text))
	//
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	//
	return cfg
}

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	//
	filename := filepath.Join(t.TempDir(), "network.toml")
	//
	if err := os.WriteFile(filename, []byte(text), 0o644); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	//
	return filename
}
