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
	"fmt"

	"github.com/consensys/go-intcode/pkg/util"
	"github.com/consensys/go-intcode/pkg/util/collection/queue"
	"github.com/consensys/go-intcode/pkg/vm/machine"
)

// State captures the recent activity of a node, as needed to decide whether the
// network as a whole has gone quiet.
type State uint8

const (
	// Active indicates the node recently received or sent a packet.
	Active State = iota
	// Passive indicates the node found its inbox empty once since it was last
	// active.
	Passive
	// Idle indicates the node found its inbox empty at least twice in a row,
	// without sending anything in between.
	Idle
)

func (p State) String() string {
	switch p {
	case Active:
		return "active"
	case Passive:
		return "passive"
	case Idle:
		return "idle"
	default:
		return fmt.Sprintf("state(%d)", uint8(p))
	}
}

// Node is a single machine attached to the network.  A node owns its machine
// exclusively, along with an inbox of packets delivered to it but not yet
// consumed.
type Node struct {
	address int64
	machine *machine.Machine
	inbox   queue.Queue[Packet]
	state   State
	// Statistics
	sent     uint
	received uint
}

// NodeStats summarises the activity of a single node.
type NodeStats struct {
	Address  int64
	State    State
	Status   machine.Status
	Sent     uint
	Received uint
	Steps    uint64
	Pending  uint
}

// NodeError reports a node whose machine failed, either by executing an
// unknown instruction or by accessing an invalid address.
type NodeError struct {
	// Address of the failing node.
	Address int64
	// Fault which occurred (if any).
	Fault util.Option[machine.Fault]
	// Underlying error (if any).
	Err error
}

// Error implementation for the error interface.
func (p *NodeError) Error() string {
	switch {
	case p.Err != nil:
		return fmt.Sprintf("node %d failed: %s", p.Address, p.Err)
	case p.Fault.HasValue():
		return fmt.Sprintf("node %d failed: %s", p.Address, p.Fault.Unwrap().String())
	default:
		return fmt.Sprintf("node %d failed", p.Address)
	}
}

// Unwrap provides access to the underlying error.
func (p *NodeError) Unwrap() error {
	return p.Err
}

// Boot a node with a given address, running on its own copy of a base machine.
// The node learns its address as its first input value, and executes exactly
// one instruction.
func Boot(address int64, base *machine.Machine) (*Node, error) {
	node := &Node{address: address, machine: base.Clone(), state: Active}
	//
	node.machine.Push(address)
	//
	if _, err := node.machine.RunWith(machine.RunStep); err != nil {
		return nil, node.failure(err)
	} else if node.machine.Status() == machine.Error {
		return nil, node.failure(nil)
	}
	//
	return node, nil
}

// Address returns the network address of this node.
func (p *Node) Address() int64 {
	return p.address
}

// Machine returns the machine running on this node.
func (p *Node) Machine() *machine.Machine {
	return p.machine
}

// State returns the current activity state of this node.
func (p *Node) State() State {
	return p.state
}

// Deliver a packet into this node's inbox.
func (p *Node) Deliver(packet Packet) {
	p.inbox.Push(packet)
}

// IsIdle determines whether this node is idle, meaning it has nothing waiting
// in its inbox and has repeatedly found it empty.  A node whose machine has
// terminated can never do anything again, and is considered idle provided no
// packets remain undelivered in its inbox.
func (p *Node) IsIdle() bool {
	return (p.machine.Status().IsTerminal() || p.state == Idle) && p.inbox.IsEmpty()
}

// Tick advances this node by one round.  If the machine is suspended waiting
// for input, then the next packet (or the given sentinel when the inbox is
// empty) is supplied and the pending input instruction is executed.  Then one
// further instruction is executed.  Finally, if three output values are
// available, they are taken as a packet and returned.
func (p *Node) Tick(noPacket int64) (util.Option[Packet], error) {
	if p.machine.Status() == machine.WaitForInput {
		if packet, ok := p.inbox.TryPop(); ok {
			p.machine.Push(packet.X, packet.Y)
			p.state = Active
			p.received++
		} else {
			p.machine.Push(noPacket)
			//
			if p.state == Active {
				p.state = Passive
			} else {
				p.state = Idle
			}
		}
		//
		if err := p.step(); err != nil {
			return util.None[Packet](), err
		}
	}
	//
	if err := p.step(); err != nil {
		return util.None[Packet](), err
	}
	//
	if len(p.machine.Output()) >= 3 {
		out := p.machine.TakeOutput(3)
		p.state = Active
		p.sent++
		//
		return util.Some(Packet{out[0], out[1], out[2]}), nil
	}
	//
	return util.None[Packet](), nil
}

// Stats returns a summary of this node's activity so far.
func (p *Node) Stats() NodeStats {
	return NodeStats{
		Address:  p.address,
		State:    p.state,
		Status:   p.machine.Status(),
		Sent:     p.sent,
		Received: p.received,
		Steps:    p.machine.Steps(),
		Pending:  p.inbox.Len(),
	}
}

func (p *Node) step() error {
	if status, err := p.machine.Step(); err != nil || status == machine.Error {
		return p.failure(err)
	}
	//
	return nil
}

func (p *Node) failure(err error) *NodeError {
	return &NodeError{p.address, p.machine.Fault(), err}
}
