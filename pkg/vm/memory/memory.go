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
package memory

import "fmt"

// ReadOnlyMemory represents a form of memory that can only be read.  This is
// the view of memory required by the instruction decoder, which must never
// modify the program being decoded.
type ReadOnlyMemory interface {
	// Read the value stored at a given (non-negative) address.  Addresses
	// which have never been written read as zero.
	Read(address int64) int64
	// Size returns one past the highest address which currently exists in
	// this memory (i.e. either within the initial image, or allocated by a
	// subsequent write).
	Size() int64
}

// Memory represents (in many ways) the simplest form of memory which can be
// read or written without restrictions.  Initially, all locations beyond the
// program image can be considered to hold zero.  Thus, reading a location which
// has not yet been written will return zero; otherwise, it will return the last
// value written.  Reads and writes never fail due to address magnitude alone;
// only negative addresses are invalid.
type Memory interface {
	ReadOnlyMemory
	// Write a given value to a given (non-negative) address, overwriting the
	// previous value stored at that address.
	Write(address int64, value int64)
	// Return the contents of this memory as a dense sequence of words, from
	// address 0 upto (but not including) Size().
	Contents() []int64
}

// AddressError reports an attempt to access a negative address.  Negative
// addresses arise either from a corrupt program, or from relative-base
// arithmetic going wrong.  They are never recoverable.
type AddressError struct {
	// Address which was accessed.
	Address int64
}

// Error implementation for the error interface.
func (p *AddressError) Error() string {
	return fmt.Sprintf("invalid memory address %d", p.Address)
}

// CheckAddress returns an error if the given address is not a valid memory
// address, or nil otherwise.
func CheckAddress(address int64) error {
	if address < 0 {
		return &AddressError{address}
	}
	//
	return nil
}
