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
package instruction

import "fmt"

// Mode determines how an instruction parameter is resolved.
type Mode uint8

const (
	// Positional parameters hold the address of their value.
	Positional Mode = 0
	// Immediate parameters hold their value literally.
	Immediate Mode = 1
	// Relative parameters hold an offset from the relative base, giving the
	// address of their value.
	Relative Mode = 2
)

// MAX_PARAMETERS determines the maximum number of parameters of any
// instruction, and hence the number of mode digits in an instruction word.
const MAX_PARAMETERS = 3

// ModeOf extracts the mode digit for the ith parameter (counting from 0) of a
// given instruction word, returning false if the digit does not identify a
// valid mode.  Absent digits correspond to Positional.
func ModeOf(word int64, i uint) (Mode, bool) {
	var divisor int64 = 100
	//
	for range i {
		divisor *= 10
	}
	//
	switch digit := (word / divisor) % 10; digit {
	case 0, 1, 2:
		return Mode(digit), true
	default:
		return Positional, false
	}
}

// Render an operand according to this mode.  Positional operands are shown as
// [a], immediate operands as a, and relative operands as [rb+a].
func (p Mode) Render(operand int64) string {
	switch p {
	case Immediate:
		return fmt.Sprintf("%d", operand)
	case Relative:
		if operand < 0 {
			return fmt.Sprintf("[rb%d]", operand)
		}
		//
		return fmt.Sprintf("[rb+%d]", operand)
	default:
		return fmt.Sprintf("[%d]", operand)
	}
}

func (p Mode) String() string {
	switch p {
	case Positional:
		return "positional"
	case Immediate:
		return "immediate"
	case Relative:
		return "relative"
	default:
		return fmt.Sprintf("mode(%d)", uint8(p))
	}
}
