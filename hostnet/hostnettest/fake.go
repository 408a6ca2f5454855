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

// Package hostnettest provides a hand-rolled fake of hostnet.Socket/Event
// for exercising reactor and socketfile without a real Winsock host,
// mirroring the role fusetesting plays for the teacher's FileSystem tests:
// a small helper package, not a generated mock, since the pending
// NetworkEvents queue this fake models (FakeSocket.PushEvents) doesn't fit the
// oglemock "expect a call, return a value" shape.
package hostnettest

import (
	"context"
	"sync"
	"time"

	"github.com/thirdpartystuff/flinux/hostnet"
)

// FakeEvent is a hostnet.Event whose readiness is driven explicitly by
// tests via Signal, rather than by a real host event-selection mechanism.
type FakeEvent struct {
	mu        sync.Mutex
	signaled  bool
	interrupt bool
	ch        chan struct{}
}

func NewFakeEvent() *FakeEvent {
	return &FakeEvent{ch: make(chan struct{}, 1)}
}

// Signal marks the event ready, as if the host had just delivered a
// network event.
func (e *FakeEvent) Signal() {
	e.mu.Lock()
	e.signaled = true
	e.mu.Unlock()
	select {
	case e.ch <- struct{}{}:
	default:
	}
}

func (e *FakeEvent) Wait(ctx context.Context, timeout time.Duration) (hostnet.WaitResult, error) {
	e.mu.Lock()
	if e.signaled {
		e.mu.Unlock()
		return hostnet.WaitSignaled, nil
	}
	e.mu.Unlock()

	var timeoutCh <-chan time.Time
	if timeout >= 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timeoutCh = t.C
	}

	select {
	case <-e.ch:
		return hostnet.WaitSignaled, nil
	case <-timeoutCh:
		return hostnet.WaitTimeout, nil
	case <-ctx.Done():
		return hostnet.WaitInterrupted, nil
	}
}

func (e *FakeEvent) Close() error { return nil }

// FakeSocket is a hostnet.Socket whose pending NetworkEvents are queued
// explicitly by tests via PushEvents, and whose Send/Recv/Accept behavior
// is scripted via the exported function fields.
type FakeSocket struct {
	mu      sync.Mutex
	pending []hostnet.NetworkEvents

	BindFunc       func(hostnet.RawSockAddr) error
	ConnectFunc    func(hostnet.RawSockAddr) error
	ListenFunc     func(int) error
	AcceptFunc     func() (hostnet.Socket, hostnet.RawSockAddr, error)
	SendFunc       func([]byte, int) (int, error)
	RecvFunc       func([]byte, int) (int, error)
	SendToFunc     func([]byte, int, hostnet.RawSockAddr) (int, error)
	RecvFromFunc   func([]byte, int) (int, hostnet.RawSockAddr, error)
	ShutdownFunc   func(int) error
	GetSockNameFunc func() (hostnet.RawSockAddr, error)
	GetPeerNameFunc func() (hostnet.RawSockAddr, error)
	SetSockOptFunc func(int, int, []byte) error
	GetSockOptFunc func(int, int, []byte) (int, error)

	lastErr error
	closed  bool
}

func NewFakeSocket() *FakeSocket { return &FakeSocket{} }

// PushEvents queues a NetworkEvents record to be returned by the next
// hostnet.DrainEvents call against this socket (FakeSocket implements
// hostnet.EventDrainer; see DrainEvents below).
func (s *FakeSocket) PushEvents(ne hostnet.NetworkEvents) {
	s.mu.Lock()
	s.pending = append(s.pending, ne)
	s.mu.Unlock()
}

// Drain pops the next queued NetworkEvents record, or a zero value if none
// is queued. reactor.UpdateEvents calls this indirectly through
// hostnet.DrainEvents in tests that inject a FakeSocket.
func (s *FakeSocket) Drain() hostnet.NetworkEvents {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return hostnet.NetworkEvents{}
	}
	ne := s.pending[0]
	s.pending = s.pending[1:]
	return ne
}

// DrainEvents implements hostnet.EventDrainer by popping the next queued
// record, making a *FakeSocket usable anywhere hostnet.DrainEvents is
// called with a real hostnet.Socket.
func (s *FakeSocket) DrainEvents(ev hostnet.Event) (hostnet.NetworkEvents, error) {
	return s.Drain(), nil
}

// AttachEvent implements hostnet.EventAttacher by handing back a fresh
// FakeEvent, so accept4 tests can exercise the attach-on-accept path
// without a real Winsock host.
func (s *FakeSocket) AttachEvent() (hostnet.Event, error) {
	return NewFakeEvent(), nil
}

func (s *FakeSocket) Bind(sa hostnet.RawSockAddr) error {
	if s.BindFunc != nil {
		return s.BindFunc(sa)
	}
	return nil
}

func (s *FakeSocket) Connect(sa hostnet.RawSockAddr) error {
	if s.ConnectFunc != nil {
		return s.ConnectFunc(sa)
	}
	return nil
}

func (s *FakeSocket) Listen(backlog int) error {
	if s.ListenFunc != nil {
		return s.ListenFunc(backlog)
	}
	return nil
}

func (s *FakeSocket) Accept() (hostnet.Socket, hostnet.RawSockAddr, error) {
	if s.AcceptFunc != nil {
		return s.AcceptFunc()
	}
	return nil, hostnet.RawSockAddr{}, nil
}

func (s *FakeSocket) Send(buf []byte, flags int) (int, error) {
	if s.SendFunc != nil {
		return s.SendFunc(buf, flags)
	}
	return len(buf), nil
}

func (s *FakeSocket) Recv(buf []byte, flags int) (int, error) {
	if s.RecvFunc != nil {
		return s.RecvFunc(buf, flags)
	}
	return 0, nil
}

func (s *FakeSocket) SendTo(buf []byte, flags int, sa hostnet.RawSockAddr) (int, error) {
	if s.SendToFunc != nil {
		return s.SendToFunc(buf, flags, sa)
	}
	return len(buf), nil
}

func (s *FakeSocket) RecvFrom(buf []byte, flags int) (int, hostnet.RawSockAddr, error) {
	if s.RecvFromFunc != nil {
		return s.RecvFromFunc(buf, flags)
	}
	return 0, hostnet.RawSockAddr{}, nil
}

func (s *FakeSocket) Shutdown(how int) error {
	if s.ShutdownFunc != nil {
		return s.ShutdownFunc(how)
	}
	return nil
}

func (s *FakeSocket) GetSockName() (hostnet.RawSockAddr, error) {
	if s.GetSockNameFunc != nil {
		return s.GetSockNameFunc()
	}
	return hostnet.RawSockAddr{}, nil
}

func (s *FakeSocket) GetPeerName() (hostnet.RawSockAddr, error) {
	if s.GetPeerNameFunc != nil {
		return s.GetPeerNameFunc()
	}
	return hostnet.RawSockAddr{}, nil
}

func (s *FakeSocket) SetSockOpt(level, name int, value []byte) error {
	if s.SetSockOptFunc != nil {
		return s.SetSockOptFunc(level, name, value)
	}
	return nil
}

func (s *FakeSocket) GetSockOpt(level, name int, out []byte) (int, error) {
	if s.GetSockOptFunc != nil {
		return s.GetSockOptFunc(level, name, out)
	}
	return 0, nil
}

func (s *FakeSocket) SetLastError(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *FakeSocket) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.lastErr
	s.lastErr = nil
	return err
}

func (s *FakeSocket) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func (s *FakeSocket) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// FakeMutex is a hostnet.Mutex backed by an ordinary sync.Mutex, standing
// in for the inheritable mutex a real fork needs but a single-process test
// never exercises across.
type FakeMutex struct {
	mu sync.Mutex
}

func NewFakeMutex() *FakeMutex { return &FakeMutex{} }

func (m *FakeMutex) Lock()       { m.mu.Lock() }
func (m *FakeMutex) Unlock()     { m.mu.Unlock() }
func (m *FakeMutex) Close() error { return nil }
