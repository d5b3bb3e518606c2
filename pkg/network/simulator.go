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
	"fmt"

	"github.com/consensys/go-intcode/pkg/util"
	"github.com/consensys/go-intcode/pkg/vm/machine"
	log "github.com/sirupsen/logrus"
)

// ErrUnroutable indicates a packet was addressed to neither a node nor the
// relay.
var ErrUnroutable = errors.New("unroutable packet")

// ErrRoundLimit indicates the simulation did not terminate within the
// configured number of rounds.
var ErrRoundLimit = errors.New("round limit exceeded")

// ErrTerminated indicates every node has terminated, hence the network can make
// no further progress.
var ErrTerminated = errors.New("all nodes terminated")

// Result summarises a completed simulation.
type Result struct {
	// The Y value which triggered termination.
	Value int64
	// Number of rounds simulated.
	Rounds uint
	// Number of packets delivered from the relay to node zero.
	Deliveries uint
}

// Simulator executes a network of nodes, each running a copy of the same
// program, in lockstep rounds.  Within a round every node is advanced once (in
// address order), and any packets sent are delivered only once the round is
// complete.  Packets sent to the relay are not delivered, but retained.
// Whenever the network goes idle, the most recent of these is delivered to node
// zero to restart activity.
type Simulator struct {
	config Config
	nodes  []*Node
	// Most recent packet received by the relay.
	relay util.Option[Packet]
	// Y value of the most recent relay delivery.
	delivered util.Option[int64]
	// Number of rounds so far
	rounds uint
	// Number of relay deliveries so far
	deliveries uint
}

// NewSimulator constructs a network according to a given configuration, where
// every node runs its own copy of a base machine.  Each node is booted with its
// own address.
func NewSimulator(base *machine.Machine, config Config) (*Simulator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	//
	nodes := make([]*Node, config.Nodes)
	//
	for i := range nodes {
		node, err := Boot(int64(i), base)
		//
		if err != nil {
			return nil, err
		}
		//
		nodes[i] = node
	}
	//
	return &Simulator{config: config, nodes: nodes}, nil
}

// Config returns the configuration of this network.
func (p *Simulator) Config() Config {
	return p.config
}

// Nodes returns the nodes of this network, indexed by address.
func (p *Simulator) Nodes() []*Node {
	return p.nodes
}

// Relay returns the most recent packet received by the relay (if any).
func (p *Simulator) Relay() util.Option[Packet] {
	return p.relay
}

// Rounds returns the number of rounds simulated so far.
func (p *Simulator) Rounds() uint {
	return p.rounds
}

// IsIdle checks whether every node in the network is idle.
func (p *Simulator) IsIdle() bool {
	for _, node := range p.nodes {
		if !node.IsIdle() {
			return false
		}
	}
	//
	return true
}

// Round advances every node by one tick, and then routes the packets they sent.
// The packets sent during the round are returned in the order they were sent.
func (p *Simulator) Round() ([]Packet, error) {
	var packets []Packet
	//
	p.rounds++
	//
	for _, node := range p.nodes {
		packet, err := node.Tick(p.config.NoPacket)
		//
		if err != nil {
			return nil, err
		} else if packet.HasValue() {
			packets = append(packets, packet.Unwrap())
		}
	}
	//
	for _, packet := range packets {
		switch {
		case packet.Destination == p.config.Relay:
			log.Debugf("round %d: relay received %s", p.rounds, packet.String())
			p.relay = util.Some(packet)
		case packet.Destination >= 0 && packet.Destination < int64(len(p.nodes)):
			p.nodes[packet.Destination].Deliver(packet)
		default:
			return nil, fmt.Errorf("%w (%s in round %d)", ErrUnroutable, packet.String(), p.rounds)
		}
	}
	//
	return packets, nil
}

// Run simulates the network until it terminates according to the configured
// mode.  In FirstMode, this is when the first packet reaches the relay.  In
// RepeatMode, this is when the relay (on seeing the network idle) would deliver
// a packet to node zero with the same Y value as it delivered last time.
func (p *Simulator) Run() (Result, error) {
	for {
		if p.config.MaxRounds > 0 && p.rounds >= p.config.MaxRounds {
			return p.result(0), fmt.Errorf("%w (%d rounds)", ErrRoundLimit, p.rounds)
		}
		//
		packets, err := p.Round()
		//
		if err != nil {
			return p.result(0), err
		}
		//
		if p.config.Mode == FirstMode {
			for _, packet := range packets {
				if packet.Destination == p.config.Relay {
					return p.result(packet.Y), nil
				}
			}
		} else if p.relay.HasValue() && p.IsIdle() {
			packet := p.relay.Unwrap()
			//
			if p.delivered.HasValue() && p.delivered.Unwrap() == packet.Y {
				log.Debugf("round %d: relay repeated %d", p.rounds, packet.Y)
				return p.result(packet.Y), nil
			}
			//
			log.Debugf("round %d: network idle, relay delivering (%d, %d)", p.rounds, packet.X, packet.Y)
			p.delivered = util.Some(packet.Y)
			p.deliveries++
			p.nodes[0].Deliver(Packet{0, packet.X, packet.Y})
			//
			continue
		}
		//
		if p.isTerminated() {
			return p.result(0), fmt.Errorf("%w (round %d)", ErrTerminated, p.rounds)
		}
	}
}

// Stats returns a summary of each node's activity.
func (p *Simulator) Stats() []NodeStats {
	stats := make([]NodeStats, len(p.nodes))
	//
	for i, node := range p.nodes {
		stats[i] = node.Stats()
	}
	//
	return stats
}

func (p *Simulator) isTerminated() bool {
	for _, node := range p.nodes {
		if !node.Machine().Status().IsTerminal() {
			return false
		}
	}
	//
	return true
}

func (p *Simulator) result(value int64) Result {
	return Result{value, p.rounds, p.deliveries}
}
