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
	"github.com/jacobsa/syncutil"

	"github.com/thirdpartystuff/flinux/abi"
	"github.com/thirdpartystuff/flinux/hostnet"
	"github.com/thirdpartystuff/flinux/lx"
	"github.com/thirdpartystuff/flinux/reactor"
)

// SocketFile is one emulated socket descriptor: a host handle, its
// reactor-driven readiness state, and the inheritable mutex serializing
// blocking operations against it (spec.md §3).
//
// Two mutexes guard disjoint things, matching the distinction spec.md §3
// draws between `mutex` (cross-process, held across any state-machine-like
// operation) and purely-local bookkeeping:
//   - ipcMutex is spec.md's `mutex`: held for the duration of every vtable
//     operation below, inheritable across fork so a child process
//     continuing a blocking call serializes against its parent correctly.
//   - mu is a local syncutil.InvariantMutex guarding the Go-level fields
//     (sock/event/reactor/closed) that a fork hook swaps out from under a
//     concurrently-executing vtable call; it is held only briefly to take
//     a snapshot, never across a blocking host operation.
type SocketFile struct {
	cfg Config

	mu syncutil.InvariantMutex

	// GUARDED_BY(mu)
	sock    hostnet.Socket
	event   hostnet.Event
	reactor *reactor.Reactor
	// GUARDED_BY(mu)
	closed bool

	// shared is immutable for the lifetime of the SocketFile: af/type are
	// fixed at construction (spec.md §3), and the pointer itself never
	// changes, including across fork.
	shared *SocketShared

	ipcMutex hostnet.Mutex

	// nonblock is the O_NONBLOCK file status flag captured from socket(2)'s
	// or accept4's type/flags argument. It never changes after
	// construction; an fcntl(F_SETFL) path to toggle it would belong to
	// the VFS layer this package doesn't implement.
	nonblock bool
}

func (f *SocketFile) checkInvariants() {
	if f.shared == nil {
		panic("SocketFile: nil shared")
	}
	if f.closed {
		if f.sock != nil || f.event != nil || f.reactor != nil {
			panic("SocketFile: closed but handle/event/reactor still set")
		}
	} else {
		if f.sock == nil || f.event == nil || f.reactor == nil {
			panic("SocketFile: open but missing handle/event/reactor")
		}
	}
}

// New implements socket(2): translate family & type, create the host
// socket and its inheritable event, create the inheritable mutex,
// allocate SocketShared. Failure at either inheritable-resource-attach
// step destroys whatever was already created and returns ENFILE, per
// spec.md §4.3.
func New(cfg Config, family lx.Family, rawType int) (*SocketFile, bool, error) {
	typ, nonblock, cloexec := lx.SplitTypeFlags(rawType)
	_ = cloexec // belongs to the descriptor table, an external collaborator; accepted and ignored here

	hostFam, err := abi.TranslateFamily(family)
	if err != nil {
		return nil, false, err
	}
	hostTyp, err := abi.TranslateSockType(typ)
	if err != nil {
		return nil, false, err
	}

	sock, event, err := hostnet.NewSocket(hostFam, hostTyp, 0)
	if err != nil {
		return nil, false, lx.ENFILE
	}

	ipcMu, err := hostnet.NewInheritableMutex()
	if err != nil {
		event.Close()
		sock.Close()
		return nil, false, lx.ENFILE
	}

	f := newFile(cfg, sock, event, ipcMu, newShared(family, typ), nonblock)
	return f, cloexec, nil
}

// wrapAccepted builds the child SocketFile accept4 hands back: it attaches
// a fresh event to the host socket Accept returned (which carries none of
// its own — see hostnet.AttachEvent's doc comment) and a fresh inheritable
// mutex, inheriting af/type from the listening parent.
func wrapAccepted(cfg Config, sock hostnet.Socket, parent *SocketShared, nonblock bool) (*SocketFile, error) {
	event, err := hostnet.AttachEvent(sock)
	if err != nil {
		sock.Close()
		return nil, lx.ENFILE
	}

	ipcMu, err := hostnet.NewInheritableMutex()
	if err != nil {
		event.Close()
		sock.Close()
		return nil, lx.ENFILE
	}

	shared := newShared(parent.Family(), parent.Type())
	shared.SetConnected()
	return newFile(cfg, sock, event, ipcMu, shared, nonblock), nil
}

func newFile(cfg Config, sock hostnet.Socket, event hostnet.Event, ipcMu hostnet.Mutex, shared *SocketShared, nonblock bool) *SocketFile {
	f := &SocketFile{
		cfg:      cfg,
		sock:     sock,
		event:    event,
		shared:   shared,
		ipcMutex: ipcMu,
		nonblock: nonblock,
	}
	f.reactor = reactor.New(sock, event, shared)
	f.mu = syncutil.NewInvariantMutex(f.checkInvariants)
	return f
}

// Shared returns the socket's cross-process control block, consulted by
// sockopt (SO_TYPE/SO_ACCEPTCONN) and poll_status.
func (f *SocketFile) Shared() *SocketShared { return f.shared }

// Nonblocking reports the O_NONBLOCK file status flag this descriptor was
// created or accepted with.
func (f *SocketFile) Nonblocking() bool { return f.nonblock }

// enter locks ipcMutex for the duration of a vtable operation — spec.md
// §4.3's "every vtable entry takes mutex for the duration of the call" —
// and returns a snapshot of the socket/reactor to operate on. The caller
// must invoke the returned release func exactly once, on every exit path.
func (f *SocketFile) enter() (hostnet.Socket, *reactor.Reactor, func(), error) {
	f.ipcMutex.Lock()

	f.mu.Lock()
	closed := f.closed
	sock := f.sock
	rc := f.reactor
	f.mu.Unlock()

	if closed {
		f.ipcMutex.Unlock()
		return nil, nil, nil, lx.ENOTSOCK
	}
	return sock, rc, f.ipcMutex.Unlock, nil
}

// Close implements close(2): close the host socket and event, release the
// SocketFile. SocketShared has no refcount to drop in this single-process
// model — spec.md assigns that bookkeeping to the shared-memory
// collaborator, out of scope here.
func (f *SocketFile) Close() (err error) {
	f.ipcMutex.Lock()
	defer f.ipcMutex.Unlock()

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	sock, event := f.sock, f.event
	f.closed = true
	f.sock, f.event, f.reactor = nil, nil, nil
	f.mu.Unlock()

	sockErr := sock.Close()
	evErr := event.Close()
	if sockErr != nil {
		return translateErr(sockErr, f.cfg.ErrorLog)
	}
	if evErr != nil {
		return translateErr(evErr, f.cfg.ErrorLog)
	}
	return nil
}

// PreFork acquires the file's lock exclusively and requests a fork cookie
// for childPID, per spec.md §4.3's pre-fork protocol. The lock is released
// by whichever of PostForkParent/PostForkChild runs next; callers must
// call exactly one of them after PreFork succeeds.
func (f *SocketFile) PreFork(childPID uint32) (hostnet.ForkCookie, error) {
	f.ipcMutex.Lock()

	f.mu.Lock()
	sock := f.sock
	f.mu.Unlock()

	cookie, err := hostnet.DuplicateForChild(sock, childPID)
	if err != nil {
		f.ipcMutex.Unlock()
		return nil, translateErr(err, f.cfg.ErrorLog)
	}
	return cookie, nil
}

// PostForkParent releases the lock PreFork acquired, in the parent.
func (f *SocketFile) PostForkParent() {
	f.ipcMutex.Unlock()
}

// PostForkChild recreates the host socket from cookie in the child
// process. event and ipcMutex are already valid in the child because they
// were created inheritable; only the socket handle itself needs
// recreating. A failure here is a host-level catastrophic failure per
// spec.md §7 ("post-fork socket recreation failures terminate the
// emulated process") — the caller is expected to treat a non-nil return
// as fatal rather than attempt recovery.
func (f *SocketFile) PostForkChild(cookie hostnet.ForkCookie) error {
	defer f.ipcMutex.Unlock()

	sock, event, err := hostnet.RecreateFromCookie(cookie)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.sock = sock
	f.event = event
	f.reactor = reactor.New(sock, event, f.shared)
	f.mu.Unlock()
	return nil
}
