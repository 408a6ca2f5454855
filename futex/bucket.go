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
	"runtime"
	"sync/atomic"
)

// bucketCount is FUTEX_HASH_BUCKETS from the original source.
const bucketCount = 256

// waitBlock is one waiter's entry in a bucket's list: the address it's
// waiting on (rewritten in place by REQUEUE) and the channel its waker
// signals. Its lifetime is the call to Wait; removal from its bucket is
// guaranteed on every return path.
type waitBlock struct {
	addr uintptr
	wake chan struct{} // buffered, capacity 1: a send from Wake never blocks
}

// spinlock is a bare test-and-set lock with a processor-hint backoff,
// matching the original's InterlockedCompareExchange/YieldProcessor pair.
// Bucket locks are held only for bounded, non-blocking list manipulation,
// which is exactly the workload a spinlock (rather than a blocking mutex)
// is for; spec.md §9 leaves the primitive open but calls out that
// property explicitly.
type spinlock struct {
	locked int32
}

func (s *spinlock) Lock() {
	for !atomic.CompareAndSwapInt32(&s.locked, 0, 1) {
		runtime.Gosched()
	}
}

func (s *spinlock) Unlock() {
	atomic.StoreInt32(&s.locked, 0)
}

// bucket is one hash slot: a spinlock guarding an intrusive-in-spirit list
// of waitBlocks (container/list is used in place of the original's
// hand-rolled intrusive list node, the idiomatic Go substitute for the
// same structure).
type bucket struct {
	lock    spinlock
	waiters list.List
}

func hashAddr(addr uintptr) int {
	return int(addr % bucketCount)
}
