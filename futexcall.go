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

package flinux

import (
	"context"
	"time"

	"github.com/thirdpartystuff/flinux/lx"
)

// FutexArgs carries futex(2)'s argument set, already resolved by the
// memory manager: addr/addr2 are used only as hash/equality keys (see
// futex.Futex's doc comment), Val is the value WAIT compares against or
// WAKE/REQUEUE's count, Val2 is CMP_REQUEUE's comparison value, and Load/
// Load2 read the current guest word at Addr/Addr2 respectively. Timeout
// is WAIT's relative deadline; negative means wait forever.
type FutexArgs struct {
	Addr    uintptr
	Addr2   uintptr
	Val     int32
	Val2    int32
	Load    func() int32
	Load2   func() int32
	Timeout time.Duration
}

// Futex dispatches on op the same way original_source's syscall switch
// does (after FUTEX_PRIVATE_FLAG is masked off by FutexOp.Cmd, since there
// is no shared/private distinction without interprocess futexes), and
// returns the count WAKE/REQUEUE/CMP_REQUEUE report or 0 for WAIT.
func (s *Syscalls) Futex(ctx context.Context, op lx.FutexOp, args FutexArgs) (int, error) {
	switch op.Cmd() {
	case lx.FUTEX_WAIT:
		err := s.fx.Wait(ctx, args.Addr, args.Load, args.Val, args.Timeout)
		return 0, err

	case lx.FUTEX_WAKE:
		return s.fx.Wake(args.Addr, int(args.Val)), nil

	case lx.FUTEX_REQUEUE:
		return s.fx.Requeue(args.Addr, int(args.Val), args.Addr2), nil

	case lx.FUTEX_CMP_REQUEUE:
		return s.fx.CmpRequeue(args.Addr, int(args.Val), args.Addr2, args.Val2, args.Load)

	default:
		return 0, lx.ENOSYS
	}
}
