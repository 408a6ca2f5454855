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
	"context"
	"encoding/binary"

	"github.com/jacobsa/reqtrace"

	"github.com/thirdpartystuff/flinux/abi"
	"github.com/thirdpartystuff/flinux/hostnet"
	"github.com/thirdpartystuff/flinux/lx"
)

// pageSize is the block size Stat reports; the host's actual page size is
// a property of the (external) memory manager, not of this socket, so a
// fixed, conventional value is reported instead of querying it.
const pageSize = 4096

// GetSockOpt implements getsockopt(2). SO_TYPE and SO_ACCEPTCONN are
// answered locally from SocketShared rather than asked of the host: the
// host's SO_ACCEPTCONN-equivalent numbering doesn't correspond to Linux's
// boolean semantics (original_source/src/fs/socket.c does the same).
func (f *SocketFile) GetSockOpt(ctx context.Context, level, name int, outLen int) (value []byte, err error) {
	_, report := reqtrace.StartSpan(ctx, "socketfile.GetSockOpt")
	defer func() { report(err) }()

	if level == lx.SOL_SOCKET && name == lx.SO_TYPE {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, uint32(f.shared.Type()))
		return b, nil
	}
	if level == lx.SOL_SOCKET && name == lx.SO_ACCEPTCONN {
		var v uint32
		if f.shared.Listening() {
			v = 1
		}
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, v)
		return b, nil
	}

	hostLevel, hostName, terr := abi.TranslateSockOpt(level, name)
	if terr != nil {
		return nil, terr
	}

	sock, _, done, err := f.enter()
	if err != nil {
		return nil, err
	}
	defer done()

	if level == lx.SOL_SOCKET && name == lx.SO_LINGER {
		hostBuf := make([]byte, 4)
		n, gerr := sock.GetSockOpt(hostLevel, hostName, hostBuf)
		if gerr != nil {
			return nil, translateErr(gerr, f.cfg.ErrorLog)
		}
		l := abi.TranslateLingerIn(hostBuf[:n])
		out := make([]byte, 8)
		binary.LittleEndian.PutUint32(out[0:4], uint32(l.OnOff))
		binary.LittleEndian.PutUint32(out[4:8], uint32(l.Linger))
		return out, nil
	}

	buf := make([]byte, outLen)
	n, gerr := sock.GetSockOpt(hostLevel, hostName, buf)
	if gerr != nil {
		return nil, translateErr(gerr, f.cfg.ErrorLog)
	}
	return buf[:n], nil
}

// SetSockOpt implements setsockopt(2). SO_TYPE/SO_ACCEPTCONN are read-only
// derived properties; setting either is rejected with ENOPROTOOPT.
func (f *SocketFile) SetSockOpt(ctx context.Context, level, name int, value []byte) (err error) {
	_, report := reqtrace.StartSpan(ctx, "socketfile.SetSockOpt")
	defer func() { report(err) }()

	if level == lx.SOL_SOCKET && (name == lx.SO_TYPE || name == lx.SO_ACCEPTCONN) {
		return lx.ENOPROTOOPT
	}

	hostLevel, hostName, terr := abi.TranslateSockOpt(level, name)
	if terr != nil {
		return terr
	}

	sock, _, done, err := f.enter()
	if err != nil {
		return err
	}
	defer done()

	if level == lx.SOL_SOCKET && name == lx.SO_LINGER {
		if len(value) < 8 {
			return lx.EINVAL
		}
		l := lx.Linger{
			OnOff:  int32(binary.LittleEndian.Uint32(value[0:4])),
			Linger: int32(binary.LittleEndian.Uint32(value[4:8])),
		}
		return translateErr(sock.SetSockOpt(hostLevel, hostName, abi.TranslateLingerOut(l)), f.cfg.ErrorLog)
	}

	return translateErr(sock.SetSockOpt(hostLevel, hostName, value), f.cfg.ErrorLog)
}

// zeroSockAddr synthesizes the all-zero sockaddr GetSockName reports for
// an unbound socket (the host returns EINVAL rather than a zeroed
// address).
func zeroSockAddr(fam lx.Family) lx.SockAddr {
	switch fam {
	case lx.AF_INET:
		return lx.SockAddr{Family: lx.AF_INET, Raw: make([]byte, lx.SockAddrInetMinLen-2)}
	case lx.AF_INET6:
		return lx.SockAddr{Family: lx.AF_INET6, Raw: make([]byte, lx.SockAddrInet6MinLen-2)}
	default:
		return lx.SockAddr{Family: fam}
	}
}

// GetSockName implements getsockname(2). AF_UNIX sockets report an
// unnamed address: this package doesn't persist the guest path a UNIX
// socket was bound to for later introspection, only the loopback port
// unixbridge published it under.
func (f *SocketFile) GetSockName(ctx context.Context) (sa lx.SockAddr, err error) {
	_, report := reqtrace.StartSpan(ctx, "socketfile.GetSockName")
	defer func() { report(err) }()

	if f.shared.Family() == lx.AF_UNIX {
		return lx.SockAddr{Family: lx.AF_UNIX}, nil
	}

	sock, _, done, err := f.enter()
	if err != nil {
		return lx.SockAddr{}, err
	}
	defer done()

	raw, gerr := sock.GetSockName()
	if gerr != nil {
		if translateErr(gerr, f.cfg.ErrorLog) == lx.EINVAL {
			return zeroSockAddr(f.shared.Family()), nil
		}
		return lx.SockAddr{}, translateErr(gerr, f.cfg.ErrorLog)
	}
	return abi.TranslateSockAddrIn(raw)
}

// GetPeerName implements getpeername(2). It checks the locally-tracked
// connected flag before asking the host, so an unconnected socket reliably
// gets ENOTCONN instead of whatever the host's equivalent call returns for
// a peerless handle.
func (f *SocketFile) GetPeerName(ctx context.Context) (sa lx.SockAddr, err error) {
	_, report := reqtrace.StartSpan(ctx, "socketfile.GetPeerName")
	defer func() { report(err) }()

	if !f.shared.Connected() {
		return lx.SockAddr{}, lx.ENOTCONN
	}

	if f.shared.Family() == lx.AF_UNIX {
		return lx.SockAddr{Family: lx.AF_UNIX}, nil
	}

	sock, _, done, err := f.enter()
	if err != nil {
		return lx.SockAddr{}, err
	}
	defer done()

	raw, gerr := sock.GetPeerName()
	if gerr != nil {
		return lx.SockAddr{}, translateErr(gerr, f.cfg.ErrorLog)
	}
	return abi.TranslateSockAddrIn(raw)
}

// Shutdown implements shutdown(2). Linux's SHUT_RD/WR/RDWR numbering
// (0/1/2) coincides with the host's SD_RECEIVE/SD_SEND/SD_BOTH, so how
// passes through unchanged; anything else is EINVAL.
func (f *SocketFile) Shutdown(ctx context.Context, how lx.ShutHow) (err error) {
	_, report := reqtrace.StartSpan(ctx, "socketfile.Shutdown")
	defer func() { report(err) }()

	if how != lx.SHUT_RD && how != lx.SHUT_WR && how != lx.SHUT_RDWR {
		return lx.EINVAL
	}

	sock, _, done, err := f.enter()
	if err != nil {
		return err
	}
	defer done()

	return translateErr(sock.Shutdown(int(how)), f.cfg.ErrorLog)
}

// Stat reports the fixed metadata a socket descriptor's fstat(2) exposes.
type Stat struct {
	Mode    uint32
	Nlink   uint32
	BlkSize uint32
}

// Stat implements fstat(2) for a socket descriptor: S_IFSOCK | 0644,
// nlink=1, block size equal to the page size, everything else zero.
func (f *SocketFile) Stat(ctx context.Context) (Stat, error) {
	return Stat{Mode: uint32(lx.SocketStatMode), Nlink: 1, BlkSize: pageSize}, nil
}

// PollStatus implements poll(2)/select(2)'s readiness query: the poll mask
// derived from the socket's currently accumulated events.
func (f *SocketFile) PollStatus() int {
	return lx.PollMask(f.shared.Events())
}

// PollHandle returns the host event object a poll/select implementation
// should wait on, plus the interest mask it always registers for (every
// vtable operation below already drains and interprets both directions
// itself).
func (f *SocketFile) PollHandle() (hostnet.Event, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.event, lx.POLLIN | lx.POLLOUT
}
