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
	"fmt"

	"github.com/consensys/go-intcode/pkg/util"
	"github.com/consensys/go-intcode/pkg/vm/machine"
	log "github.com/sirupsen/logrus"
)

// Setting identifies a choice of phase settings, along with the signal it
// produced.
type Setting struct {
	Phases []int64
	Signal int64
}

// Series runs a chain of amplifiers, each a fresh copy of a base machine.  Each
// amplifier receives its phase setting followed by the output of the previous
// amplifier (or the initial signal for the first amplifier), and must halt.
// The first output of the final amplifier is returned.
func Series(base *machine.Machine, phases []int64, signal int64) (int64, error) {
	for i, phase := range phases {
		amp := base.Clone()
		amp.Push(phase, signal)
		//
		if status, err := amp.Run(); err != nil {
			return 0, fmt.Errorf("amplifier %d: %w", i, err)
		} else if status != machine.Halt {
			return 0, fmt.Errorf("amplifier %d: %s", i, status)
		} else if len(amp.Output()) == 0 {
			return 0, fmt.Errorf("amplifier %d: no output", i)
		}
		//
		signal = amp.Output()[0]
	}
	//
	return signal, nil
}

// Feedback runs a loop of amplifiers, each a fresh copy of a base machine.  Each
// amplifier is first given its phase setting, and the first amplifier is then
// given the initial signal.  Thereafter, the amplifiers are resumed in turn with
// whatever the previous amplifier (cyclically) has output since, until the
// final amplifier halts.  Its last output is returned.
func Feedback(base *machine.Machine, phases []int64, signal int64) (int64, error) {
	if len(phases) == 0 {
		return signal, nil
	}
	//
	var amps = make([]*machine.Machine, len(phases))
	//
	for i, phase := range phases {
		amps[i] = base.Clone()
		amps[i].Push(phase)
		//
		if err := check(i, amps[i].Run); err != nil {
			return 0, err
		}
	}
	//
	amps[0].Push(signal)
	//
	for last := amps[len(amps)-1]; last.Status() != machine.Halt; {
		var moved = 0
		//
		for i, amp := range amps {
			prev := amps[(i+len(amps)-1)%len(amps)]
			values := prev.DrainOutput()
			moved += len(values)
			amp.Push(values...)
			//
			if err := check(i, amp.Continue); err != nil {
				return 0, err
			}
		}
		//
		// Every amplifier is suspended or terminated
		if moved == 0 && last.Status() != machine.Halt {
			return 0, fmt.Errorf("amplifiers deadlocked")
		}
	}
	//
	output := amps[len(amps)-1].Output()
	//
	if len(output) == 0 {
		return 0, fmt.Errorf("amplifier %d: no output", len(amps)-1)
	}
	//
	return output[len(output)-1], nil
}

// MaxSignal tries every arrangement of the given phase settings (in either
// series or feedback configuration), returning the arrangement producing the
// largest signal from an initial signal of zero.
func MaxSignal(base *machine.Machine, settings []int64, feedback bool) (Setting, error) {
	var (
		best  Setting
		found bool
		run   = Series
	)
	//
	if feedback {
		run = Feedback
	}
	//
	for _, phases := range util.Permutations(settings) {
		signal, err := run(base, phases, 0)
		//
		if err != nil {
			return best, fmt.Errorf("phases %v: %w", phases, err)
		}
		//
		log.Debugf("phases %v: signal %d", phases, signal)
		//
		if !found || signal > best.Signal {
			best = Setting{phases, signal}
			found = true
		}
	}
	//
	return best, nil
}

// Execute one amplifier until it suspends or terminates, failing if it does
// not terminate cleanly.
func check(index int, run func() (machine.Status, error)) error {
	status, err := run()
	//
	if err != nil {
		return fmt.Errorf("amplifier %d: %w", index, err)
	} else if status == machine.Error || status == machine.EndOfProgram {
		return fmt.Errorf("amplifier %d: %s", index, status)
	}
	//
	return nil
}
