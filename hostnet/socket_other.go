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

//go:build !windows

package hostnet

import (
	"errors"
	"fmt"
	"net"
	"sync"
)

// portableSocket is a best-effort stand-in for winSocket, built on the Go
// standard library's net package, so that packages above hostnet can be
// built and unit-tested on any platform. It does not reproduce Winsock's
// WOULDBLOCK/event-driven semantics; reactor and socketfile tests that need
// that exercise a fake hostnet.Socket/Event directly instead (see
// reactor/reactor_test.go).
type portableSocket struct {
	mu   sync.Mutex
	conn net.Conn
	ln   net.Listener
	pkt  net.PacketConn
	fam  int
	typ  int

	lastErr error
}

func newSocket(family, sockType, protocol int) (Socket, Event, error) {
	s := &portableSocket{fam: family, typ: sockType}
	ev := newChanEvent()
	return s, ev, nil
}

func (s *portableSocket) Bind(sa RawSockAddr) error {
	return errors.New("hostnet: Bind not supported on the portable fallback; build for windows")
}

func (s *portableSocket) Connect(sa RawSockAddr) error {
	return errors.New("hostnet: Connect not supported on the portable fallback; build for windows")
}

func (s *portableSocket) Listen(backlog int) error {
	return errors.New("hostnet: Listen not supported on the portable fallback; build for windows")
}

func (s *portableSocket) Accept() (Socket, RawSockAddr, error) {
	return nil, RawSockAddr{}, errors.New("hostnet: Accept not supported on the portable fallback; build for windows")
}

func (s *portableSocket) Send(buf []byte, flags int) (int, error) {
	if s.conn == nil {
		return 0, errors.New("hostnet: not connected")
	}
	return s.conn.Write(buf)
}

func (s *portableSocket) Recv(buf []byte, flags int) (int, error) {
	if s.conn == nil {
		return 0, errors.New("hostnet: not connected")
	}
	return s.conn.Read(buf)
}

func (s *portableSocket) SendTo(buf []byte, flags int, sa RawSockAddr) (int, error) {
	return 0, errors.New("hostnet: SendTo not supported on the portable fallback; build for windows")
}

func (s *portableSocket) RecvFrom(buf []byte, flags int) (int, RawSockAddr, error) {
	return 0, RawSockAddr{}, errors.New("hostnet: RecvFrom not supported on the portable fallback; build for windows")
}

func (s *portableSocket) Shutdown(how int) error {
	return errors.New("hostnet: Shutdown not supported on the portable fallback; build for windows")
}

func (s *portableSocket) GetSockName() (RawSockAddr, error) {
	return RawSockAddr{}, errors.New("hostnet: GetSockName not supported on the portable fallback; build for windows")
}

func (s *portableSocket) GetPeerName() (RawSockAddr, error) {
	return RawSockAddr{}, errors.New("hostnet: GetPeerName not supported on the portable fallback; build for windows")
}

func (s *portableSocket) SetSockOpt(level, name int, value []byte) error {
	return nil
}

func (s *portableSocket) GetSockOpt(level, name int, out []byte) (int, error) {
	return 0, errors.New("hostnet: GetSockOpt not supported on the portable fallback; build for windows")
}

func (s *portableSocket) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.lastErr
	s.lastErr = nil
	return err
}

func (s *portableSocket) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	if s.ln != nil {
		return s.ln.Close()
	}
	return nil
}

func duplicateForChild(sock Socket, childPID uint32) (ForkCookie, error) {
	return nil, fmt.Errorf("hostnet: fork cookies require windows")
}

func recreateFromCookie(cookie ForkCookie) (Socket, Event, error) {
	return nil, nil, fmt.Errorf("hostnet: fork cookies require windows")
}

// DrainEvents implements hostnet.EventDrainer. The portable fallback has no
// real Winsock event-selection mechanism behind it, so it always reports no
// pending events; tests that need draining semantics use hostnettest.FakeSocket.
func (s *portableSocket) DrainEvents(ev Event) (NetworkEvents, error) {
	return NetworkEvents{}, nil
}

// AttachEvent implements hostnet.EventAttacher with a fresh, never-signaled
// channel event, for the same reason DrainEvents above never reports
// anything: the portable fallback has no Winsock event-select mechanism to
// attach.
func (s *portableSocket) AttachEvent() (Event, error) {
	return newChanEvent(), nil
}
