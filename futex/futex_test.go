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

package futex_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thirdpartystuff/flinux/futex"
	"github.com/thirdpartystuff/flinux/lx"

	. "github.com/jacobsa/ogletest"
)

func TestFutex(t *testing.T) { RunTests(t) }

func loadOf(v *int32) func() int32 {
	return func() int32 { return atomic.LoadInt32(v) }
}

func waitAsync(f *futex.Futex, ctx context.Context, addr uintptr, v *int32, expected int32, timeout time.Duration) <-chan error {
	ch := make(chan error, 1)
	go func() {
		ch <- f.Wait(ctx, addr, loadOf(v), expected, timeout)
	}()
	return ch
}

// waitUntilBlocked gives the goroutine started by waitAsync a chance to
// reach the point of being parked; there is no observable signal for
// "enqueued in the bucket" from outside the package, so tests use a short
// sleep the same way reactor_test.go does for its interrupted-wait case.
func waitUntilBlocked() { time.Sleep(10 * time.Millisecond) }

type FutexTest struct {
	f *futex.Futex
}

func init() { RegisterTestSuite(&FutexTest{}) }

func (t *FutexTest) SetUp(ti *TestInfo) {
	t.f = futex.New(futex.Config{})
}

// Testable Property 6 (O1 deviation): a value mismatch at the moment of
// the call returns success, not EAGAIN.
func (t *FutexTest) WaitReturnsImmediatelyOnValueMismatch() {
	v := int32(5)
	err := t.f.Wait(context.Background(), 0x1000, loadOf(&v), 1 /* expected */, time.Second)
	ExpectEq(nil, err)
}

func (t *FutexTest) WaitBlocksThenWokenByWake() {
	v := int32(1)
	ch := waitAsync(t.f, context.Background(), 0x2000, &v, 1, -1)
	waitUntilBlocked()

	n := t.f.Wake(0x2000, 1)
	ExpectEq(1, n)

	select {
	case err := <-ch:
		ExpectEq(nil, err)
	case <-time.After(time.Second):
		AssertTrue(false, "Wait did not return after Wake")
	}
}

// Testable Property 7: a timed wait returns ETIMEDOUT when nobody wakes it.
func (t *FutexTest) WaitTimesOut() {
	v := int32(1)
	err := t.f.Wait(context.Background(), 0x3000, loadOf(&v), 1, 20*time.Millisecond)
	ExpectEq(lx.ETIMEDOUT, err)
}

// Testable Property 8: a blocked wait returns EINTR when the caller's
// context is cancelled, mirroring reactor's interrupted-wait behavior.
func (t *FutexTest) InterruptedWaitReturnsEintr() {
	ctx, cancel := context.WithCancel(context.Background())
	v := int32(1)
	ch := waitAsync(t.f, ctx, 0x4000, &v, 1, -1)
	waitUntilBlocked()

	cancel()

	select {
	case err := <-ch:
		ExpectEq(lx.EINTR, err)
	case <-time.After(time.Second):
		AssertTrue(false, "Wait did not return after cancellation")
	}
}

func (t *FutexTest) WakeOnlyTouchesMatchingAddress() {
	v1, v2 := int32(1), int32(1)
	ch1 := waitAsync(t.f, context.Background(), 0x5000, &v1, 1, -1)
	ch2 := waitAsync(t.f, context.Background(), 0x6000, &v2, 1, -1)
	waitUntilBlocked()

	n := t.f.Wake(0x5000, 10)
	ExpectEq(1, n)

	select {
	case err := <-ch1:
		ExpectEq(nil, err)
	case <-time.After(time.Second):
		AssertTrue(false, "waiter on 0x5000 was not woken")
	}

	select {
	case <-ch2:
		AssertTrue(false, "waiter on 0x6000 should not have been woken")
	case <-time.After(50 * time.Millisecond):
	}

	t.f.Wake(0x6000, 1)
	<-ch2
}

func (t *FutexTest) WakeHonorsCountAmongMultipleWaiters() {
	vs := make([]int32, 3)
	chans := make([]<-chan error, 3)
	for i := range vs {
		vs[i] = 1
		chans[i] = waitAsync(t.f, context.Background(), 0x7000, &vs[i], 1, -1)
	}
	waitUntilBlocked()

	n := t.f.Wake(0x7000, 2)
	ExpectEq(2, n)

	woken := 0
	for _, ch := range chans {
		select {
		case <-ch:
			woken++
		case <-time.After(50 * time.Millisecond):
		}
	}
	ExpectEq(2, woken)

	// Clean up the still-parked waiter so the goroutine doesn't leak past
	// the test.
	t.f.Wake(0x7000, 1)
}

func (t *FutexTest) RequeueMovesRemainingWaitersToDestinationBucket() {
	vs := make([]int32, 3)
	chans := make([]<-chan error, 3)
	for i := range vs {
		vs[i] = 1
		chans[i] = waitAsync(t.f, context.Background(), 0x8000, &vs[i], 1, -1)
	}
	waitUntilBlocked()

	// Wake one directly, requeue the rest to a different address.
	n := t.f.Requeue(0x8000, 1, 0x9000)
	ExpectEq(1, n)

	woken := 0
	select {
	case <-chans[0]:
		woken++
	case <-time.After(100 * time.Millisecond):
	}
	ExpectEq(1, woken)

	// The remaining two are now parked on 0x9000, not 0x8000.
	ExpectEq(0, t.f.Wake(0x8000, 10))
	ExpectEq(2, t.f.Wake(0x9000, 10))

	for _, ch := range chans[1:] {
		select {
		case err := <-ch:
			ExpectEq(nil, err)
		case <-time.After(time.Second):
			AssertTrue(false, "requeued waiter was not woken on destination address")
		}
	}
}

// When both addresses hash to the same bucket, requeued waiters simply
// stay where they are (their addr field is rewritten but the list is
// untouched) — this exercises that coincidence path without relying on
// internals, by using the same literal address for source and
// destination.
func (t *FutexTest) RequeueToSameBucketStillRewritesAddr() {
	v := int32(1)
	ch := waitAsync(t.f, context.Background(), 0xA000, &v, 1, -1)
	waitUntilBlocked()

	n := t.f.Requeue(0xA000, 0, 0xA000)
	ExpectEq(0, n)

	ExpectEq(1, t.f.Wake(0xA000, 10))
	select {
	case err := <-ch:
		ExpectEq(nil, err)
	case <-time.After(time.Second):
		AssertTrue(false, "waiter requeued onto its own address was not woken")
	}
}

func (t *FutexTest) CmpRequeueFailsEagainOnMismatch() {
	v := int32(1)
	ch := waitAsync(t.f, context.Background(), 0xB000, &v, 1, -1)
	waitUntilBlocked()

	n, err := t.f.CmpRequeue(0xB000, 1, 0xC000, 99 /* wrong expected */, loadOf(&v))
	ExpectEq(lx.EAGAIN, err)
	ExpectEq(0, n)

	// Nothing was touched: the waiter is still parked on the original
	// address.
	ExpectEq(1, t.f.Wake(0xB000, 10))
	select {
	case <-ch:
	case <-time.After(time.Second):
		AssertTrue(false, "waiter should still be reachable on its original address")
	}
}

func (t *FutexTest) CmpRequeueSucceedsOnMatch() {
	v := int32(7)
	ch := waitAsync(t.f, context.Background(), 0xD000, &v, 7, -1)
	waitUntilBlocked()

	n, err := t.f.CmpRequeue(0xD000, 0, 0xE000, 7, loadOf(&v))
	ExpectEq(nil, err)
	ExpectEq(0, n)

	ExpectEq(1, t.f.Wake(0xE000, 10))
	select {
	case <-ch:
	case <-time.After(time.Second):
		AssertTrue(false, "waiter was not moved to destination address")
	}
}

// Concurrent Requeue(A -> B) and Wait(B) calls share B's bucket lock and
// must not deadlock. This doesn't prove the ascending-bucket-order
// discipline directly (bucket indices aren't exposed, and no second
// Requeue runs in the opposite direction), but it does drive genuinely
// concurrent cross-address traffic through the same two addresses and
// requires the whole thing to finish promptly.
func (t *FutexTest) ConcurrentRequeueAndWaitDoNotDeadlock() {
	const iterations = 200
	addrA, addrB := uintptr(0x1111), uintptr(0x2222)

	var wg sync.WaitGroup
	done := make(chan struct{})

	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			t.f.Requeue(addrA, 1, addrB)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			v := int32(1)
			t.f.Wait(context.Background(), addrB, loadOf(&v), 1, time.Millisecond)
		}
	}()

	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		AssertTrue(false, "concurrent Requeue/Wait traffic deadlocked")
	}
}
