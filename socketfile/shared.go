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

package socketfile

import (
	"log"
	"sync/atomic"
	"syscall"

	"github.com/thirdpartystuff/flinux/abi"
	"github.com/thirdpartystuff/flinux/lx"
)

// SocketShared is the cross-process control block a SocketFile points at:
// address family and type as originally requested, the accumulated
// readiness bitset the reactor drives, and the most recently captured
// CONNECT error. A real multi-process rendition would place this in a
// shared-memory segment keyed by an inherited handle/index; here it lives
// as an ordinary heap value, since the process model that would make the
// distinction observable is the external collaborator spec.md §1 excludes.
//
// Every field is touched only through atomic operations so that
// concurrent reactor drains (§5: "shared.events is updated only
// atomically; no lock protects it") compose correctly without a mutex.
type SocketShared struct {
	af     int32 // lx.Family; immutable after New
	typ    int32 // lx.SockType; immutable after New
	events uint32
	connectErrCode int32 // raw host errno captured off NetworkEvents.Errors[3], 0 = none
	listening      uint32
	connected      uint32
}

// newShared returns a SocketShared fixing af/type for the lifetime of the
// socket.
func newShared(af lx.Family, typ lx.SockType) *SocketShared {
	return &SocketShared{af: int32(af), typ: int32(typ)}
}

// Family and Type report the immutable values recorded at construction,
// consulted by SO_TYPE and by accept4 when building the
// child SocketFile.
func (s *SocketShared) Family() lx.Family   { return lx.Family(atomic.LoadInt32(&s.af)) }
func (s *SocketShared) Type() lx.SockType   { return lx.SockType(atomic.LoadInt32(&s.typ)) }

// OrEvents implements reactor.SharedState.
func (s *SocketShared) OrEvents(bits lx.Events) lx.Events {
	for {
		old := atomic.LoadUint32(&s.events)
		next := old | uint32(bits)
		if old == next || atomic.CompareAndSwapUint32(&s.events, old, next) {
			return lx.Events(next)
		}
	}
}

// ClearEvents implements reactor.SharedState.
func (s *SocketShared) ClearEvents(bits lx.Events) {
	for {
		old := atomic.LoadUint32(&s.events)
		next := old &^ uint32(bits)
		if old == next || atomic.CompareAndSwapUint32(&s.events, old, next) {
			return
		}
	}
}

// Events implements reactor.SharedState.
func (s *SocketShared) Events() lx.Events {
	return lx.Events(atomic.LoadUint32(&s.events))
}

// SetConnectError implements reactor.SharedState. The reactor calls this
// with the raw host errno (a syscall.Errno), not yet translated, so that
// translation can be deferred to whichever caller eventually surfaces it
// and can supply a logger for unmapped codes.
func (s *SocketShared) SetConnectError(err error) {
	var code int32
	if errno, ok := err.(syscall.Errno); ok {
		code = int32(errno)
	}
	atomic.StoreInt32(&s.connectErrCode, code)
}

// ConnectError returns and clears the captured connect error, translated
// to a Linux errno. spec.md §3: "connect_error ... cleared when surfaced."
func (s *SocketShared) ConnectError(logger *log.Logger) error {
	code := atomic.SwapInt32(&s.connectErrCode, 0)
	if code == 0 {
		return nil
	}
	return abi.TranslateErrno(syscall.Errno(code), logger)
}

// SetListening records that listen(2) has succeeded, so SO_ACCEPTCONN can
// be answered locally without asking the host (original_source/src/fs/
// socket.c answers SO_ACCEPTCONN this way rather than querying winsock,
// whose numbering for it doesn't correspond to Linux's boolean semantics).
func (s *SocketShared) SetListening() {
	atomic.StoreUint32(&s.listening, 1)
}

// Listening reports whether listen(2) has succeeded on this socket.
func (s *SocketShared) Listening() bool {
	return atomic.LoadUint32(&s.listening) != 0
}

// SetConnected records that the socket has a peer, either via a completed
// connect(2) or because it was produced by accept4. getpeername consults
// this to answer ENOTCONN itself rather than rely on whatever the host's
// equivalent call happens to return for a peerless socket.
func (s *SocketShared) SetConnected() {
	atomic.StoreUint32(&s.connected, 1)
}

// Connected reports whether the socket currently has a peer.
func (s *SocketShared) Connected() bool {
	return atomic.LoadUint32(&s.connected) != 0
}
