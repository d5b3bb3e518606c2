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
package util

import (
	"cmp"
	"slices"
)

// NextPermutation rearranges items into the lexicographically next greater
// permutation, returning false (and leaving items sorted in ascending order)
// when items was already the greatest permutation.  Duplicate items are
// handled, in that each distinct arrangement is produced exactly once.
func NextPermutation[T cmp.Ordered](items []T) bool {
	// Find rightmost ascent
	i := len(items) - 2
	for i >= 0 && items[i] >= items[i+1] {
		i--
	}
	//
	if i < 0 {
		slices.Reverse(items)
		return false
	}
	// Find rightmost item greater than the ascent
	j := len(items) - 1
	for items[j] <= items[i] {
		j--
	}
	//
	items[i], items[j] = items[j], items[i]
	slices.Reverse(items[i+1:])
	//
	return true
}

// Permutations returns every distinct arrangement of the given items, in
// lexicographic order.  The given slice is not modified.
func Permutations[T cmp.Ordered](items []T) [][]T {
	var (
		current = slices.Clone(items)
		perms   [][]T
	)
	//
	slices.Sort(current)
	//
	for {
		perms = append(perms, slices.Clone(current))
		//
		if !NextPermutation(current) {
			return perms
		}
	}
}
