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

import (
	"maps"
	"slices"
)

// Sparse is the standard implementation of Memory.  The initial program image
// is held as a flat slice, whilst any address beyond the image is held in a
// map which is populated on first write.  This avoids allocating an unbounded
// array for programs which scatter writes across large addresses, whilst
// retaining constant time access to the image itself.
type Sparse struct {
	image    []int64
	extended map[int64]int64
	// One past the highest address allocated so far.
	size int64
}

// NewSparse constructs a new memory initialised with a given program image.
// The image is copied, so the caller is free to reuse it.
func NewSparse(image ...int64) *Sparse {
	return &Sparse{slices.Clone(image), nil, int64(len(image))}
}

// Read implementation for ReadOnlyMemory interface.
func (p *Sparse) Read(address int64) int64 {
	if address < 0 {
		panic(&AddressError{address})
	} else if address < int64(len(p.image)) {
		return p.image[address]
	}
	// Unallocated locations hold zero
	return p.extended[address]
}

// Write implementation for Memory interface.
func (p *Sparse) Write(address int64, value int64) {
	if address < 0 {
		panic(&AddressError{address})
	} else if address < int64(len(p.image)) {
		p.image[address] = value
		return
	}
	//
	if p.extended == nil {
		p.extended = make(map[int64]int64)
	}
	//
	p.extended[address] = value
	p.size = max(p.size, address+1)
}

// Size implementation for ReadOnlyMemory interface.
func (p *Sparse) Size() int64 {
	return p.size
}

// Contents implementation for Memory interface.  Observe that this can be
// expensive when a distant address has been written.
func (p *Sparse) Contents() []int64 {
	contents := make([]int64, p.size)
	//
	copy(contents, p.image)
	//
	for addr, val := range p.extended {
		contents[addr] = val
	}
	//
	return contents
}

// Image returns the (current) contents of the initial program image.  The
// returned slice must not be modified.
func (p *Sparse) Image() []int64 {
	return p.image
}

// Extended returns the locations allocated beyond the initial program image.
// The returned map must not be modified.
func (p *Sparse) Extended() map[int64]int64 {
	return p.extended
}

// Clone returns a deep copy of this memory, such that writes to either copy
// are never visible in the other.
func (p *Sparse) Clone() *Sparse {
	return &Sparse{slices.Clone(p.image), maps.Clone(p.extended), p.size}
}

// Restore constructs a memory from a previously captured image and extended
// region (see Image() and Extended()).
func Restore(image []int64, extended map[int64]int64) *Sparse {
	var mem = NewSparse(image...)
	//
	for addr, val := range extended {
		mem.Write(addr, val)
	}
	//
	return mem
}
