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

//go:build windows

package hostnet

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Winsock entry points that golang.org/x/sys/windows does not already wrap.
// This is the same NewLazySystemDLL/NewProc idiom x/sys/windows itself (and
// Microsoft/go-winio) use for any Win32/Winsock call the package hasn't
// generated a binding for.
var (
	modws2_32              = windows.NewLazySystemDLL("ws2_32.dll")
	procWSAEventSelect     = modws2_32.NewProc("WSAEventSelect")
	procWSAEnumNetworkEvents = modws2_32.NewProc("WSAEnumNetworkEvents")
	procWSADuplicateSocketW = modws2_32.NewProc("WSADuplicateSocketW")
	procWSASocketW         = modws2_32.NewProc("WSASocketW")
)

const (
	fdReadBit    = 0
	fdWriteBit   = 1
	fdAcceptBit  = 3
	fdConnectBit = 4
	fdCloseBit   = 5
)

func lxEventsToWinsockMask() uint32 {
	return 1<<fdReadBit | 1<<fdWriteBit | 1<<fdAcceptBit | 1<<fdConnectBit | 1<<fdCloseBit
}

type winSocket struct {
	mu   sync.Mutex
	h    windows.Handle
	fam  int
	typ  int
	proto int
	lastErr error
}

func newSocket(family, sockType, protocol int) (Socket, Event, error) {
	h, err := windows.Socket(family, sockType, protocol)
	if err != nil {
		return nil, nil, err
	}

	s := &winSocket{h: h, fam: family, typ: sockType, proto: protocol}

	ev, err := s.AttachEvent()
	if err != nil {
		windows.Closesocket(h)
		return nil, nil, err
	}

	return s, ev, nil
}

// AttachEvent implements hostnet.EventAttacher: it creates a fresh
// inheritable event and selects this socket's full event mask onto it. Used
// both by newSocket and, for a socket handed back by Accept (which carries
// no event of its own yet), by socketfile after accept4 succeeds.
func (s *winSocket) AttachEvent() (Event, error) {
	ev, err := newInheritableEvent()
	if err != nil {
		return nil, err
	}
	if err := eventSelect(s.h, ev.(*winEvent).h, lxEventsToWinsockMask()); err != nil {
		ev.Close()
		return nil, err
	}
	return ev, nil
}

func eventSelect(s windows.Handle, event windows.Handle, mask uint32) error {
	r1, _, e1 := procWSAEventSelect.Call(uintptr(s), uintptr(event), uintptr(mask))
	if r1 != 0 {
		return e1
	}
	return nil
}

// enumNetworkEvents drains the pending network-events record for s: a
// bitmask of fired events plus a per-bit error code.
func enumNetworkEvents(s windows.Handle, event windows.Handle) (NetworkEvents, error) {
	var raw struct {
		NetworkEvents uint32
		ErrorCode     [10]int32
	}
	r1, _, e1 := procWSAEnumNetworkEvents.Call(uintptr(s), uintptr(event), uintptr(unsafe.Pointer(&raw)))
	if r1 != 0 {
		return NetworkEvents{}, e1
	}

	var ne NetworkEvents
	ne.Bits = raw.NetworkEvents
	ne.Errors[0] = raw.ErrorCode[fdReadBit]
	ne.Errors[1] = raw.ErrorCode[fdWriteBit]
	ne.Errors[2] = raw.ErrorCode[fdAcceptBit]
	ne.Errors[3] = raw.ErrorCode[fdConnectBit]
	ne.Errors[4] = raw.ErrorCode[fdCloseBit]
	return ne, nil
}

func toWindowsSockaddr(sa RawSockAddr) (windows.Sockaddr, error) {
	switch len(sa.Bytes) {
	case 6: // 4 bytes addr + 2 bytes port
		port := int(sa.Bytes[4])<<8 | int(sa.Bytes[5])
		var a [4]byte
		copy(a[:], sa.Bytes[0:4])
		return &windows.SockaddrInet4{Port: port, Addr: a}, nil
	case 18: // 16 bytes addr + 2 bytes port
		port := int(sa.Bytes[16])<<8 | int(sa.Bytes[17])
		var a [16]byte
		copy(a[:], sa.Bytes[0:16])
		return &windows.SockaddrInet6{Port: port, Addr: a}, nil
	default:
		return nil, fmt.Errorf("hostnet: unrecognized RawSockAddr length %d", len(sa.Bytes))
	}
}

func fromWindowsSockaddr(sa windows.Sockaddr) RawSockAddr {
	switch v := sa.(type) {
	case *windows.SockaddrInet4:
		b := make([]byte, 6)
		copy(b[0:4], v.Addr[:])
		b[4] = byte(v.Port >> 8)
		b[5] = byte(v.Port)
		return RawSockAddr{Family: windows.AF_INET, Bytes: b}
	case *windows.SockaddrInet6:
		b := make([]byte, 18)
		copy(b[0:16], v.Addr[:])
		b[16] = byte(v.Port >> 8)
		b[17] = byte(v.Port)
		return RawSockAddr{Family: windows.AF_INET6, Bytes: b}
	default:
		return RawSockAddr{}
	}
}

// DrainEvents implements hostnet.EventDrainer.
func (s *winSocket) DrainEvents(ev Event) (NetworkEvents, error) {
	we, ok := ev.(*winEvent)
	if !ok {
		return NetworkEvents{}, fmt.Errorf("hostnet: not a windows event")
	}
	return enumNetworkEvents(s.h, we.h)
}

func (s *winSocket) Bind(sa RawSockAddr) error {
	wsa, err := toWindowsSockaddr(sa)
	if err != nil {
		return err
	}
	return windows.Bind(s.h, wsa)
}

func (s *winSocket) Connect(sa RawSockAddr) error {
	wsa, err := toWindowsSockaddr(sa)
	if err != nil {
		return err
	}
	return windows.Connect(s.h, wsa)
}

func (s *winSocket) Listen(backlog int) error {
	return windows.Listen(s.h, backlog)
}

func (s *winSocket) Accept() (Socket, RawSockAddr, error) {
	nh, sa, err := windows.Accept(s.h)
	if err != nil {
		return nil, RawSockAddr{}, err
	}
	return &winSocket{h: nh, fam: s.fam, typ: s.typ, proto: s.proto}, fromWindowsSockaddr(sa), nil
}

func (s *winSocket) Send(buf []byte, flags int) (int, error) {
	return windows.Send(s.h, buf, flags)
}

func (s *winSocket) Recv(buf []byte, flags int) (int, error) {
	return windows.Recv(s.h, buf, flags)
}

func (s *winSocket) SendTo(buf []byte, flags int, sa RawSockAddr) (int, error) {
	wsa, err := toWindowsSockaddr(sa)
	if err != nil {
		return 0, err
	}
	return len(buf), windows.Sendto(s.h, buf, flags, wsa)
}

func (s *winSocket) RecvFrom(buf []byte, flags int) (int, RawSockAddr, error) {
	n, from, err := windows.Recvfrom(s.h, buf, flags)
	if err != nil {
		return 0, RawSockAddr{}, err
	}
	return n, fromWindowsSockaddr(from), nil
}

func (s *winSocket) Shutdown(how int) error {
	return windows.Shutdown(s.h, how)
}

func (s *winSocket) GetSockName() (RawSockAddr, error) {
	sa, err := windows.Getsockname(s.h)
	if err != nil {
		return RawSockAddr{}, err
	}
	return fromWindowsSockaddr(sa), nil
}

func (s *winSocket) GetPeerName() (RawSockAddr, error) {
	sa, err := windows.Getpeername(s.h)
	if err != nil {
		return RawSockAddr{}, err
	}
	return fromWindowsSockaddr(sa), nil
}

func (s *winSocket) SetSockOpt(level, name int, value []byte) error {
	return windows.Setsockopt(s.h, int32(level), int32(name), (*byte)(unsafe.Pointer(&value[0])), int32(len(value)))
}

func (s *winSocket) GetSockOpt(level, name int, out []byte) (int, error) {
	n := int32(len(out))
	err := windows.Getsockopt(s.h, int32(level), int32(name), (*byte)(unsafe.Pointer(&out[0])), &n)
	return int(n), err
}

func (s *winSocket) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.lastErr
	s.lastErr = nil
	return err
}

func (s *winSocket) setLastError(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *winSocket) Close() error {
	return windows.Closesocket(s.h)
}

func duplicateForChild(sock Socket, childPID uint32) (ForkCookie, error) {
	ws, ok := sock.(*winSocket)
	if !ok {
		return nil, fmt.Errorf("hostnet: not a windows socket")
	}

	var info struct {
		protocolInfo [404]byte // WSAPROTOCOL_INFOW is large; opaque blob round-tripped through WSADuplicateSocketW/WSASocketW
	}

	r1, _, e1 := procWSADuplicateSocketW.Call(uintptr(ws.h), uintptr(childPID), uintptr(unsafe.Pointer(&info)))
	if r1 != 0 {
		return nil, e1
	}

	return ForkCookie(info.protocolInfo[:]), nil
}

func recreateFromCookie(cookie ForkCookie) (Socket, Event, error) {
	var info [404]byte
	copy(info[:], cookie)

	const FROM_PROTOCOL_INFO = ^uintptr(0)
	r1, _, e1 := procWSASocketW.Call(
		FROM_PROTOCOL_INFO, FROM_PROTOCOL_INFO, FROM_PROTOCOL_INFO,
		uintptr(unsafe.Pointer(&info[0])), 0, 0)
	if windows.Handle(r1) == windows.InvalidHandle {
		return nil, nil, e1
	}

	h := windows.Handle(r1)
	s := &winSocket{h: h}

	ev, err := newInheritableEvent()
	if err != nil {
		windows.Closesocket(h)
		return nil, nil, err
	}
	if err := eventSelect(h, ev.(*winEvent).h, lxEventsToWinsockMask()); err != nil {
		ev.Close()
		windows.Closesocket(h)
		return nil, nil, err
	}

	return s, ev, nil
}
