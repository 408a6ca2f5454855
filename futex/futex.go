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

package futex

import (
	"container/list"
	"context"
	"log"
	"time"

	"github.com/jacobsa/timeutil"

	"github.com/thirdpartystuff/flinux/lx"
)

// Config carries Futex's collaborators, following the same
// explicit-struct-of-dependencies shape as socketfile.Config.
type Config struct {
	Clock    timeutil.Clock
	DebugLog *log.Logger
}

func (c Config) clock() timeutil.Clock {
	if c.Clock == nil {
		return timeutil.RealClock()
	}
	return c.Clock
}

func (c Config) debugf(format string, args ...interface{}) {
	if c.DebugLog != nil {
		c.DebugLog.Printf(format, args...)
	}
}

// Futex is the bucketed wait/wake core: 256 hash buckets, each an
// independent spinlock-guarded wait list.
type Futex struct {
	cfg     Config
	buckets [bucketCount]bucket
}

// New builds a Futex with all buckets empty.
func New(cfg Config) *Futex {
	return &Futex{cfg: cfg}
}

// Wait implements FUTEX_WAIT. load is invoked exactly once, under the
// target bucket's lock, to read the current value at addr — reading and
// comparing guest memory is the memory manager's job, so the caller
// supplies the read instead of a pointer this package could dereference
// itself. A timeout of exactly 0 or positive is a deadline; negative means
// wait forever.
//
// Per spec.md §9's explicit call-out (an intentional deviation from
// Linux, not a bug to "fix"): a value mismatch returns nil (success), not
// EAGAIN.
func (f *Futex) Wait(ctx context.Context, addr uintptr, load func() int32, expected int32, timeout time.Duration) error {
	b := &f.buckets[hashAddr(addr)]

	b.lock.Lock()
	if load() != expected {
		b.lock.Unlock()
		return nil
	}
	wb := &waitBlock{addr: addr, wake: make(chan struct{}, 1)}
	el := b.waiters.PushBack(wb)
	b.lock.Unlock()

	var deadlineCh <-chan time.Time
	if timeout >= 0 {
		deadline := f.cfg.clock().Now().Add(timeout)
		timer := time.NewTimer(time.Until(deadline))
		defer timer.Stop()
		deadlineCh = timer.C
	}

	select {
	case <-wb.wake:
		return nil
	case <-deadlineCh:
		return f.finishWait(b, el, wb, lx.ETIMEDOUT)
	case <-ctx.Done():
		return f.finishWait(b, el, wb, lx.EINTR)
	}
}

// finishWait resolves the race the original source calls out explicitly:
// the timer or context may fire at the same instant Wake is signaling
// this waiter, so the outcome is decided under the bucket lock by
// rechecking wb.wake one more time before removing the (possibly
// already-removed) element.
func (f *Futex) finishWait(b *bucket, el *list.Element, wb *waitBlock, onNotWoken error) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	select {
	case <-wb.wake:
		return nil
	default:
	}
	b.waiters.Remove(el)
	return onNotWoken
}

// Wake implements FUTEX_WAKE: wake up to count waiters on addr, in list
// order. Returns the number actually woken.
func (f *Futex) Wake(addr uintptr, count int) int {
	b := &f.buckets[hashAddr(addr)]
	b.lock.Lock()
	defer b.lock.Unlock()
	return wakeLocked(b, addr, count)
}

func wakeLocked(b *bucket, addr uintptr, count int) int {
	woken := 0
	var next *list.Element
	for el := b.waiters.Front(); el != nil && woken < count; el = next {
		next = el.Next()
		wb := el.Value.(*waitBlock)
		if wb.addr != addr {
			continue
		}
		b.waiters.Remove(el)
		wb.wake <- struct{}{}
		woken++
	}
	return woken
}

// lockTwo acquires b1 then b2 (or just b1 if they coincide). requeue
// passes them in ascending bucket-index order, matching spec.md §4.5's
// deterministic two-bucket ordering that prevents deadlock against a
// concurrent REQUEUE/CMP_REQUEUE the other way around. It returns the
// unlock func the caller must defer.
func lockTwo(b1, b2 *bucket, same bool) func() {
	if same {
		b1.lock.Lock()
		return b1.lock.Unlock
	}
	b1.lock.Lock()
	b2.lock.Lock()
	return func() {
		b1.lock.Unlock()
		b2.lock.Unlock()
	}
}

// requeue is the shared core of REQUEUE and CMP_REQUEUE: wake the first
// count matching waiters on addr, then move every later match to addr2's
// bucket (rewriting its addr field), or leave it in place if the two
// addresses hash to the same bucket. check, if non-nil, is evaluated under
// both locks before anything else happens; a false result aborts with
// EAGAIN and touches nothing.
func (f *Futex) requeue(addr uintptr, count int, addr2 uintptr, check func() bool) (int, error) {
	i, j := hashAddr(addr), hashAddr(addr2)
	bi, bj := &f.buckets[i], &f.buckets[j]

	var unlock func()
	if i <= j {
		unlock = lockTwo(bi, bj, i == j)
	} else {
		unlock = lockTwo(bj, bi, false)
	}
	defer unlock()

	if check != nil && !check() {
		return 0, lx.EAGAIN
	}

	woken := 0
	var next *list.Element
	for el := bi.waiters.Front(); el != nil; el = next {
		next = el.Next()
		wb := el.Value.(*waitBlock)
		if wb.addr != addr {
			continue
		}
		if woken < count {
			bi.waiters.Remove(el)
			wb.wake <- struct{}{}
			woken++
			continue
		}
		wb.addr = addr2
		if i != j {
			bi.waiters.Remove(el)
			bj.waiters.PushBack(wb)
		}
	}
	return woken, nil
}

// Requeue implements FUTEX_REQUEUE: no value check.
func (f *Futex) Requeue(addr uintptr, count int, addr2 uintptr) int {
	n, _ := f.requeue(addr, count, addr2, nil)
	return n
}

// CmpRequeue implements FUTEX_CMP_REQUEUE: like Requeue, but first checks
// the current value at addr against expected (via load, invoked under
// both bucket locks) and fails EAGAIN on mismatch without touching
// anything.
func (f *Futex) CmpRequeue(addr uintptr, count int, addr2 uintptr, expected int32, load func() int32) (int, error) {
	return f.requeue(addr, count, addr2, func() bool { return load() == expected })
}
