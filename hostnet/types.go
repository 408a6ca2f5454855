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

package hostnet

import (
	"context"
	"time"
)

// RawSockAddr is a host-native address: a numeric family (the host's own
// numbering, already translated by abi) plus the remaining address bytes.
type RawSockAddr struct {
	Family int
	Bytes  []byte
}

// NetworkEvents is the result of draining a socket's pending readiness,
// mirroring WSAEnumNetworkEvents's WSANETWORKEVENTS struct: an accumulated
// bitmask plus a per-bit error code.
type NetworkEvents struct {
	Bits   uint32   // Winsock FD_* bit numbering (READ=0, WRITE=1, ACCEPT=3, CONNECT=4, CLOSE=5); reactor translates it to lx.Events
	Errors [5]int32 // indexed by bit position in lx.Events (Read,Write,Accept,Connect,Close)
}

// Socket is the host socket handle abstraction that socketfile.SocketFile
// wraps.
type Socket interface {
	Bind(sa RawSockAddr) error
	Connect(sa RawSockAddr) error
	Listen(backlog int) error
	Accept() (Socket, RawSockAddr, error)

	Send(buf []byte, flags int) (int, error)
	Recv(buf []byte, flags int) (int, error)
	SendTo(buf []byte, flags int, sa RawSockAddr) (int, error)
	RecvFrom(buf []byte, flags int) (int, RawSockAddr, error)

	Shutdown(how int) error

	GetSockName() (RawSockAddr, error)
	GetPeerName() (RawSockAddr, error)

	SetSockOpt(level, name int, value []byte) error
	GetSockOpt(level, name int, out []byte) (int, error)

	// LastError returns the socket's pending error (SO_ERROR-style), used
	// to surface a captured CONNECT error.
	LastError() error

	Close() error
}

// Event is the host event object associated with a Socket for readiness
// notification.
type Event interface {
	// Wait blocks until the event is signaled, the timeout elapses, or ctx
	// is done (which the caller uses to plumb pending-signal delivery into
	// a blocking wait).
	Wait(ctx context.Context, timeout time.Duration) (WaitResult, error)
	Close() error
}

// WaitResult is the outcome of Event.Wait.
type WaitResult int

const (
	WaitSignaled WaitResult = iota
	WaitTimeout
	WaitInterrupted
)

// Mutex is the inheritable mutex guarding blocking operations on a socket.
type Mutex interface {
	Lock()
	Unlock()
	Close() error
}

// NewSocket creates a host socket for the given host-native family and
// type, with an inheritable event already associated for the full event
// mask.
func NewSocket(family, sockType, protocol int) (Socket, Event, error) {
	return newSocket(family, sockType, protocol)
}

// NewInheritableMutex creates a mutex usable across a fork boundary.
func NewInheritableMutex() (Mutex, error) {
	return newInheritableMutex()
}

// ForkCookie is an opaque blob sufficient for a child process to recreate a
// host socket handle.
type ForkCookie []byte

// DuplicateForChild produces a fork cookie for the given child process ID,
// called before fork while the file's lock is held exclusively.
func DuplicateForChild(s Socket, childPID uint32) (ForkCookie, error) {
	return duplicateForChild(s, childPID)
}

// RecreateFromCookie recreates a host socket from a fork cookie in the
// child process immediately after fork.
func RecreateFromCookie(cookie ForkCookie) (Socket, Event, error) {
	return recreateFromCookie(cookie)
}

// EventDrainer is implemented by every Socket this package produces (real
// or fake); it is kept as a separate interface rather than folded into
// Socket so that hostnettest.FakeSocket's queue-based Drain can satisfy it
// without pretending to implement the rest of Socket's host-specific
// semantics identically.
type EventDrainer interface {
	DrainEvents(ev Event) (NetworkEvents, error)
}

// DrainEvents drains the pending network-events record for sock/ev. This
// is the one primitive reactor.UpdateEvents needs from hostnet.
func DrainEvents(sock Socket, ev Event) (NetworkEvents, error) {
	d, ok := sock.(EventDrainer)
	if !ok {
		return NetworkEvents{}, errNotDrainable
	}
	return d.DrainEvents(ev)
}

var errNotDrainable = drainError("hostnet: socket does not support event draining")

type drainError string

func (e drainError) Error() string { return string(e) }

// EventAttacher is implemented by every Socket this package produces; it
// lets a socket that doesn't yet have an associated Event (one just
// returned by Socket.Accept, which carries none of its own) have one
// created and wired up after the fact.
type EventAttacher interface {
	AttachEvent() (Event, error)
}

// AttachEvent creates and associates a fresh event with sock, the way
// NewSocket does internally for a freshly created socket. socketfile calls
// this once per accept4 success, since the host hands back an accepted
// socket with no event of its own.
func AttachEvent(sock Socket) (Event, error) {
	a, ok := sock.(EventAttacher)
	if !ok {
		return nil, errNotAttachable
	}
	return a.AttachEvent()
}

var errNotAttachable = drainError("hostnet: socket does not support event attachment")
