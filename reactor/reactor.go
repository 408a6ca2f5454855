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

package reactor

import (
	"context"
	"syscall"

	"github.com/thirdpartystuff/flinux/hostnet"
	"github.com/thirdpartystuff/flinux/lx"
)

// Bit positions within hostnet.NetworkEvents.Errors, fixed by
// enumNetworkEvents's layout: Read, Write, Accept, Connect, Close.
const connectErrIndex = 3

// Bit positions within hostnet.NetworkEvents.Bits, mirroring Winsock's
// FD_READ/FD_WRITE/FD_ACCEPT/FD_CONNECT/FD_CLOSE numbering.
const (
	hostBitRead    = 0
	hostBitWrite   = 1
	hostBitAccept  = 3
	hostBitConnect = 4
	hostBitClose   = 5
)

func eventsFromHostMask(bits uint32) lx.Events {
	var e lx.Events
	if bits&(1<<hostBitRead) != 0 {
		e |= lx.EventRead
	}
	if bits&(1<<hostBitWrite) != 0 {
		e |= lx.EventWrite
	}
	if bits&(1<<hostBitAccept) != 0 {
		e |= lx.EventAccept
	}
	if bits&(1<<hostBitConnect) != 0 {
		e |= lx.EventConnect
	}
	if bits&(1<<hostBitClose) != 0 {
		e |= lx.EventClose
	}
	return e
}

// SharedState is the cross-process event/error record a Reactor mutates.
// socketfile.SocketShared implements this; it is expressed as an
// interface here so reactor stays ignorant of SocketShared's other
// fields (af, type) and of how it is placed in shared memory.
type SharedState interface {
	// OrEvents atomically ORs bits into the accumulated event set and
	// returns the value after the OR.
	OrEvents(bits lx.Events) lx.Events
	// ClearEvents atomically clears bits from the accumulated event set.
	ClearEvents(bits lx.Events)
	// Events returns the current accumulated event set.
	Events() lx.Events
	// SetConnectError records the error captured on the most recent
	// CONNECT event.
	SetConnectError(err error)
}

// Reactor drives one socket's event accumulator: draining host readiness
// into SharedState, and blocking on the socket's event when a caller
// needs to wait for readiness.
type Reactor struct {
	sock   hostnet.Socket
	event  hostnet.Event
	shared SharedState
}

// New builds a Reactor over a host socket/event pair and the SocketShared
// record they should accumulate events into.
func New(sock hostnet.Socket, event hostnet.Event, shared SharedState) *Reactor {
	return &Reactor{sock: sock, event: event, shared: shared}
}

// UpdateEvents drains the host's pending network-events record, ORs it
// into the shared event set, and — if CONNECT is both requested and now
// set — moves the captured connect error into SharedState and clears the
// CONNECT bit for future drains. It returns the post-OR value (spec.md
// §4.2 step 4), i.e. including CONNECT if this drain is what just set it,
// even though the bit has already been cleared from the persisted
// accumulator by the time this call returns: CONNECT is a one-shot event,
// and the caller waiting on it needs to observe that it fired exactly
// once, on this call, whether the connection succeeded or failed.
func (r *Reactor) UpdateEvents(requested lx.Events) (lx.Events, error) {
	ne, err := hostnet.DrainEvents(r.sock, r.event)
	if err != nil {
		return 0, err
	}

	drained := eventsFromHostMask(ne.Bits)
	post := r.shared.OrEvents(drained)

	if requested&lx.EventConnect != 0 && post&lx.EventConnect != 0 {
		hostErr := ne.Errors[connectErrIndex]
		r.shared.ClearEvents(lx.EventConnect)
		if hostErr != 0 {
			r.shared.SetConnectError(syscall.Errno(hostErr))
		}
	}

	return post, nil
}

// ClearEvents clears bits immediately before a caller issues the host
// operation that would consume that readiness; if the host operation then
// reports WOULDBLOCK, the caller does not re-set the bit, so the next
// drained readiness notification is what reasserts it.
func (r *Reactor) ClearEvents(bits lx.Events) {
	r.shared.ClearEvents(bits)
}

// Events returns the currently accumulated event set, e.g. for
// poll_status.
func (r *Reactor) Events() lx.Events {
	return r.shared.Events()
}

// WaitEvent implements wait_event: it repeatedly calls UpdateEvents(required)
// until a required bit is set, returning that event set. If no bit is set
// and nonblocking is true (O_NONBLOCK or MSG_DONTWAIT), it returns
// EWOULDBLOCK instead of suspending. Otherwise it blocks on the socket's
// event; a context cancellation (signal delivery) during that block
// yields EINTR.
func (r *Reactor) WaitEvent(ctx context.Context, required lx.Events, nonblocking bool) (lx.Events, error) {
	for {
		val, err := r.UpdateEvents(required)
		if err != nil {
			return 0, err
		}
		if val&required != 0 {
			return val, nil
		}
		if nonblocking {
			return 0, lx.EWOULDBLOCK
		}

		res, err := r.event.Wait(ctx, -1)
		if err != nil {
			return 0, err
		}
		if res == hostnet.WaitInterrupted {
			return 0, lx.EINTR
		}
		// WaitSignaled or WaitTimeout (shouldn't occur with an infinite
		// timeout, but loop defensively): retry UpdateEvents.
	}
}
