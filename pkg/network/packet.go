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

import "fmt"

// Packet is the unit of communication between nodes.  A packet is emitted by a
// node as three consecutive output values, and consumed by its recipient as two
// consecutive input values (X then Y).
type Packet struct {
	// Address of the recipient (either a node or the relay).
	Destination int64
	// First payload value.
	X int64
	// Second payload value.
	Y int64
}

func (p Packet) String() string {
	return fmt.Sprintf("%d <- (%d, %d)", p.Destination, p.X, p.Y)
}
