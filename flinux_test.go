// Copyright 2024 The Flinux Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package flinux_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thirdpartystuff/flinux"
	"github.com/thirdpartystuff/flinux/lx"

	. "github.com/jacobsa/ogletest"
)

func TestFlinux(t *testing.T) { RunTests(t) }

type FlinuxTest struct {
	s *flinux.Syscalls
}

func init() { RegisterTestSuite(&FlinuxTest{}) }

func (t *FlinuxTest) SetUp(ti *TestInfo) {
	t.s = flinux.New(flinux.Config{})
}

func (t *FlinuxTest) SetRobustListIsANoop() {
	ExpectEq(nil, t.s.SetRobustList(0x1234, 24))
}

func (t *FlinuxTest) UnknownSocketCallOpIsEinval() {
	_, err := t.s.SocketCall(context.Background(), lx.SocketCallOp(99), flinux.SocketCallArgs{})
	ExpectEq(lx.EINVAL, err)
}

// Scenario S5: a waiter blocked in FUTEX_WAIT returns success once woken
// by FUTEX_WAKE, exercised through the same Futex entry point a futex(2)
// dispatch would use.
func (t *FlinuxTest) FutexWaitWokenByWake() {
	var x int32
	load := func() int32 { return atomic.LoadInt32(&x) }

	done := make(chan error, 1)
	go func() {
		_, err := t.s.Futex(context.Background(), lx.FUTEX_WAIT, flinux.FutexArgs{
			Addr: 0x7000, Val: 0, Load: load, Timeout: -1,
		})
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	atomic.StoreInt32(&x, 1)
	n, err := t.s.Futex(context.Background(), lx.FUTEX_WAKE, flinux.FutexArgs{Addr: 0x7000, Val: 1})
	AssertEq(nil, err)
	ExpectEq(1, n)

	select {
	case err := <-done:
		ExpectEq(nil, err)
	case <-time.After(time.Second):
		AssertTrue(false, "FUTEX_WAIT did not return after FUTEX_WAKE")
	}
}

// Scenario S6: a timed FUTEX_WAIT with nobody waking it returns ETIMEDOUT.
func (t *FlinuxTest) FutexWaitTimesOut() {
	var x int32
	_, err := t.s.Futex(context.Background(), lx.FUTEX_WAIT, flinux.FutexArgs{
		Addr: 0x8000, Val: 0, Load: func() int32 { return atomic.LoadInt32(&x) }, Timeout: 20 * time.Millisecond,
	})
	ExpectEq(lx.ETIMEDOUT, err)
}

// FUTEX_PRIVATE_FLAG must not change dispatch: original_source masks it
// off before switching on the command.
func (t *FlinuxTest) PrivateFlagIsMaskedBeforeDispatch() {
	op := lx.FUTEX_WAKE | lx.FUTEX_PRIVATE_FLAG
	n, err := t.s.Futex(context.Background(), op, flinux.FutexArgs{Addr: 0x9000, Val: 1})
	AssertEq(nil, err)
	ExpectEq(0, n)
}
