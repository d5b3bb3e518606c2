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
package cmd

import (
	"testing"

	"github.com/consensys/go-intcode/pkg/vm/machine"
)

func Test_DescribeFault_01(t *testing.T) {
	m := checkStopped(t, "1101,1,1,5,98")
	//
	if msg := describeFault(m); msg != m.Fault().Unwrap().String() {
		t.Errorf("unexpected message %q", msg)
	}
}

func Test_DescribeFault_02(t *testing.T) {
	// Invalid address leaves no fault
	m := checkStopped(t, "1,-1,0,0,99")
	//
	if msg := describeFault(m); msg != "program error (pc=0)" {
		t.Errorf("unexpected message %q", msg)
	}
}

func Test_DescribeFault_03(t *testing.T) {
	var (
		m          = checkStopped(t, "1,-1,0,0,99")
		checkpoint = m.Checkpoint()
		restored   machine.Checkpoint
	)
	//
	bytes, err := checkpoint.MarshalBinary()
	//
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	} else if err := restored.UnmarshalBinary(bytes); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	//
	r := restored.Restore()
	//
	if status, err := r.Continue(); status != machine.Error || err != nil {
		t.Fatalf("unexpected status %s (%v)", status, err)
	} else if msg := describeFault(r); msg != "program error (pc=0)" {
		t.Errorf("unexpected message %q", msg)
	}
}

func checkStopped(t *testing.T, text string) *machine.Machine {
	t.Helper()
	//
	m, err := machine.New(text)
	//
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	//
	if status, _ := m.Run(); status != machine.Error {
		t.Fatalf("expected error status, got %s", status)
	}
	//
	return m
}
