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
package queue

// Queue represents a reusable FIFO queue which is implemented using an array.
// The zero value is an empty queue ready for use.  Copying a queue by value
// aliases its backing array, hence Clone() must be used when an independent
// copy is required.
type Queue[T any] struct {
	items []T
}

// NewQueue returns an empty queue, optionally initialised with some items
// (where the first item given will be the first dequeued).
func NewQueue[T any](items ...T) *Queue[T] {
	var q Queue[T]
	//
	q.PushAll(items)
	//
	return &q
}

// IsEmpty checks whether or not there are still items in the queue
func (p *Queue[T]) IsEmpty() bool {
	return p.Len() == 0
}

// Len returns the number of items in the queue.
func (p *Queue[T]) Len() uint {
	return uint(len(p.items))
}

// Push a new item onto the back of the queue
func (p *Queue[T]) Push(item T) {
	p.items = append(p.items, item)
}

// PushAll pushes zero or more items onto the back of the queue, such that the
// first given will be the first dequeued.
func (p *Queue[T]) PushAll(items []T) {
	p.items = append(p.items, items...)
}

// Pop the first item off the front of the queue
func (p *Queue[T]) Pop() T {
	if len(p.items) == 0 {
		panic("cannot pop from empty queue")
	}
	// Get first item
	item := p.items[0]
	// Remove first item.  Once drained, the backing array is released so that
	// long-running queues do not hold onto dead prefixes.
	if len(p.items) == 1 {
		p.items = nil
	} else {
		p.items = p.items[1:]
	}
	// Done
	return item
}

// TryPop pops the first item off the front of the queue if there is one,
// returning false otherwise.
func (p *Queue[T]) TryPop() (T, bool) {
	var empty T
	//
	if p.IsEmpty() {
		return empty, false
	}
	//
	return p.Pop(), true
}

// Items returns the items currently in the queue, front first.  The returned
// slice must not be modified.
func (p *Queue[T]) Items() []T {
	return p.items
}

// Clone returns an independent copy of this queue.
func (p *Queue[T]) Clone() Queue[T] {
	var items []T
	//
	if len(p.items) > 0 {
		items = make([]T, len(p.items))
		copy(items, p.items)
	}
	//
	return Queue[T]{items}
}
