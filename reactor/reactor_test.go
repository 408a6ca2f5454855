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

package reactor_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/thirdpartystuff/flinux/hostnet"
	"github.com/thirdpartystuff/flinux/hostnet/hostnettest"
	"github.com/thirdpartystuff/flinux/lx"
	"github.com/thirdpartystuff/flinux/reactor"

	. "github.com/jacobsa/ogletest"
)

func TestReactor(t *testing.T) { RunTests(t) }

// fakeShared is a minimal SharedState used only by this package's tests;
// socketfile.SocketShared is the real implementation.
type fakeShared struct {
	mu            sync.Mutex
	events        lx.Events
	connectErr    error
}

func (s *fakeShared) OrEvents(bits lx.Events) lx.Events {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events |= bits
	return s.events
}

func (s *fakeShared) ClearEvents(bits lx.Events) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events &^= bits
}

func (s *fakeShared) Events() lx.Events {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events
}

func (s *fakeShared) SetConnectError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connectErr = err
}

func (s *fakeShared) takeConnectError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.connectErr
	s.connectErr = nil
	return err
}

const (
	hostFDRead    = 1 << 0
	hostFDWrite   = 1 << 1
	hostFDAccept  = 1 << 3
	hostFDConnect = 1 << 4
	hostFDClose   = 1 << 5
)

type ReactorTest struct {
	sock   *hostnettest.FakeSocket
	event  *hostnettest.FakeEvent
	shared *fakeShared
	r      *reactor.Reactor
}

func init() { RegisterTestSuite(&ReactorTest{}) }

func (t *ReactorTest) SetUp(ti *TestInfo) {
	t.sock = hostnettest.NewFakeSocket()
	t.event = hostnettest.NewFakeEvent()
	t.shared = &fakeShared{}
	t.r = reactor.New(t.sock, t.event, t.shared)
}

func (t *ReactorTest) DrainOrsBitsIntoSharedEvents() {
	t.sock.PushEvents(hostnet.NetworkEvents{Bits: hostFDRead})
	val, err := t.r.UpdateEvents(lx.EventRead)
	AssertEq(nil, err)
	ExpectEq(lx.EventRead, val)
}

func (t *ReactorTest) AccumulatorIsMonotonicAcrossDrains() {
	t.sock.PushEvents(hostnet.NetworkEvents{Bits: hostFDRead})
	t.r.UpdateEvents(lx.EventRead)

	t.sock.PushEvents(hostnet.NetworkEvents{Bits: hostFDWrite})
	val, err := t.r.UpdateEvents(lx.EventWrite)
	AssertEq(nil, err)
	ExpectEq(lx.EventRead|lx.EventWrite, val)
}

// Central edge-triggered idiom: clearing a bit before a WOULDBLOCK
// operation leaves it cleared until the next drain reasserts it.
func (t *ReactorTest) ClearedBitStaysClearedUntilReasserted() {
	t.sock.PushEvents(hostnet.NetworkEvents{Bits: hostFDRead})
	t.r.UpdateEvents(lx.EventRead)
	ExpectEq(lx.EventRead, t.r.Events())

	// Caller is about to attempt recv() and clears READ first.
	t.r.ClearEvents(lx.EventRead)
	ExpectEq(lx.Events(0), t.r.Events())

	// Host reports WOULDBLOCK (no new NetworkEvents pushed); a drain with
	// nothing pending must not reassert the bit.
	val, err := t.r.UpdateEvents(lx.EventRead)
	AssertEq(nil, err)
	ExpectEq(lx.Events(0), val)

	// Only a fresh readiness notification reasserts it.
	t.sock.PushEvents(hostnet.NetworkEvents{Bits: hostFDRead})
	val, err = t.r.UpdateEvents(lx.EventRead)
	AssertEq(nil, err)
	ExpectEq(lx.EventRead, val)
}

func (t *ReactorTest) ConnectBitCapturesAndClearsError() {
	t.sock.PushEvents(hostnet.NetworkEvents{
		Bits:   hostFDConnect,
		Errors: [5]int32{0, 0, 0, 10061}, // ECONNREFUSED, Connect index = 3
	})

	val, err := t.r.UpdateEvents(lx.EventConnect)
	AssertEq(nil, err)
	// The caller sees CONNECT fire on this call...
	ExpectEq(lx.EventConnect, val)
	// ...but it is already cleared from the persisted accumulator, since
	// CONNECT is a one-shot event.
	ExpectEq(lx.Events(0), t.r.Events())

	captured := t.shared.takeConnectError()
	ExpectNe(nil, captured)
}

func (t *ReactorTest) ConnectBitWithNoErrorIsSuccess() {
	t.sock.PushEvents(hostnet.NetworkEvents{Bits: hostFDConnect})
	val, err := t.r.UpdateEvents(lx.EventConnect)
	AssertEq(nil, err)
	ExpectEq(lx.EventConnect, val)
	ExpectEq(lx.Events(0), t.r.Events())
	ExpectEq(nil, t.shared.takeConnectError())
}

// Testable Property 3: non-blocking wait never suspends.
func (t *ReactorTest) NonblockingWaitReturnsEwouldblock() {
	_, err := t.r.WaitEvent(context.Background(), lx.EventRead, true /* nonblocking */)
	ExpectEq(lx.EWOULDBLOCK, err)
}

func (t *ReactorTest) WaitReturnsAssoonAsReady() {
	t.sock.PushEvents(hostnet.NetworkEvents{Bits: hostFDRead})
	val, err := t.r.WaitEvent(context.Background(), lx.EventRead, false)
	AssertEq(nil, err)
	ExpectEq(lx.EventRead, val)
}

// Testable Property 4: a blocked wait returns EINTR when the caller's
// context is cancelled (modeling pending-signal delivery).
func (t *ReactorTest) InterruptedWaitReturnsEintr() {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	var gotErr error
	go func() {
		_, gotErr = t.r.WaitEvent(ctx, lx.EventRead, false)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	returned := false
	select {
	case <-done:
		returned = true
	case <-time.After(time.Second):
	}
	AssertTrue(returned, "WaitEvent did not return after cancellation")
	ExpectEq(lx.EINTR, gotErr)
}
