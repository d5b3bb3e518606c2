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
package explore

import (
	"errors"

	"github.com/consensys/go-intcode/pkg/vm/machine"
	log "github.com/sirupsen/logrus"
)

// ErrNoPatch indicates no patch in the search space produced the target.
var ErrNoPatch = errors.New("no patch produces target")

// Patch identifies the values written to addresses one (the noun) and two (the
// verb) of a program before running it.
type Patch struct {
	Noun int64
	Verb int64
}

// Apply this patch to a given machine.
func (p Patch) Apply(m *machine.Machine) {
	m.Write(1, p.Noun)
	m.Write(2, p.Verb)
}

// SearchPatch tries every patch whose noun and verb lie between zero and limit
// (inclusive), in order of increasing noun then verb, running each on a fresh
// copy of a base machine.  The first patch leaving the target value at address
// zero is returned.  Patches on which the program fails are skipped.
func SearchPatch(base *machine.Machine, target int64, limit int64) (Patch, error) {
	for noun := int64(0); noun <= limit; noun++ {
		for verb := int64(0); verb <= limit; verb++ {
			var (
				patch = Patch{noun, verb}
				m     = base.Clone()
			)
			//
			patch.Apply(m)
			//
			if status, err := m.Run(); err != nil || status != machine.Halt {
				log.Debugf("patch %d/%d failed (%s)", noun, verb, status)
				continue
			} else if m.Read(0) == target {
				return patch, nil
			}
		}
	}
	//
	return Patch{}, ErrNoPatch
}
