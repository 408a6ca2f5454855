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

	"github.com/thirdpartystuff/flinux/lx"
	"github.com/thirdpartystuff/flinux/socketfile"
)

// SocketCallArgs is the decoded argument set for one socketcall(2) op.
// Only the fields a given op actually reads are meaningful; this mirrors
// original_source's nargs table (which records how many uintptr_t slots
// each op consumes) without needing the raw slice it indexes into, since
// unpacking and bounds-checking that slice is the memory manager's job.
type SocketCallArgs struct {
	File    *socketfile.SocketFile // unused for SYS_SOCKET
	Family  lx.Family
	RawType int
	Addr    lx.SockAddr
	Backlog int
	Flags   int
	Buf     []byte
	Msg     lx.Msghdr
	Msgs    []lx.Msghdr
	How     lx.ShutHow
	Level   int
	Name    int
	OptVal  []byte
	OutLen  int
}

// SocketCallResult is whichever of these fields the dispatched op
// populates; the rest are zero. A real socketcall(2) caller marshals the
// populated field back into guest memory itself (again the memory
// manager's job), so this is returned as a struct rather than forced
// through a single int the way the C multiplexer's return value is.
type SocketCallResult struct {
	Socket *socketfile.SocketFile
	Cloexec bool
	Addr    lx.SockAddr
	N       int
	OptVal  []byte
}

// SocketCall dispatches op exactly the way original_source's
// sys_socketcall switch does, one case per syscall it forwards to.
func (s *Syscalls) SocketCall(ctx context.Context, op lx.SocketCallOp, a SocketCallArgs) (SocketCallResult, error) {
	switch op {
	case lx.SYS_SOCKET:
		sock, cloexec, err := s.Socket(a.Family, a.RawType)
		return SocketCallResult{Socket: sock, Cloexec: cloexec}, err

	case lx.SYS_BIND:
		return SocketCallResult{}, a.File.Bind(ctx, a.Addr)

	case lx.SYS_CONNECT:
		return SocketCallResult{}, a.File.Connect(ctx, a.Addr)

	case lx.SYS_LISTEN:
		return SocketCallResult{}, a.File.Listen(ctx, a.Backlog)

	case lx.SYS_ACCEPT:
		child, peer, err := a.File.Accept4(ctx, 0)
		return SocketCallResult{Socket: child, Addr: peer}, err

	case lx.SYS_ACCEPT4:
		child, peer, err := a.File.Accept4(ctx, a.Flags)
		return SocketCallResult{Socket: child, Addr: peer}, err

	case lx.SYS_GETSOCKNAME:
		sa, err := a.File.GetSockName(ctx)
		return SocketCallResult{Addr: sa}, err

	case lx.SYS_GETPEERNAME:
		sa, err := a.File.GetPeerName(ctx)
		return SocketCallResult{Addr: sa}, err

	case lx.SYS_SEND:
		n, err := a.File.Send(ctx, a.Buf, a.Flags)
		return SocketCallResult{N: n}, err

	case lx.SYS_RECV:
		n, err := a.File.Recv(ctx, a.Buf, a.Flags)
		return SocketCallResult{N: n}, err

	case lx.SYS_SENDTO:
		n, err := a.File.SendTo(ctx, a.Buf, a.Flags, a.Addr)
		return SocketCallResult{N: n}, err

	case lx.SYS_RECVFROM:
		n, from, err := a.File.RecvFrom(ctx, a.Buf, a.Flags)
		return SocketCallResult{N: n, Addr: from}, err

	case lx.SYS_SENDMSG:
		n, err := a.File.SendMsg(ctx, a.Msg, a.Flags)
		return SocketCallResult{N: n}, err

	case lx.SYS_RECVMSG:
		msg := a.Msg
		n, err := a.File.RecvMsg(ctx, &msg, a.Flags)
		return SocketCallResult{N: n, Addr: msg.Name}, err

	case lx.SYS_SENDMMSG:
		n, err := a.File.SendMmsg(ctx, a.Msgs, a.Flags)
		return SocketCallResult{N: n}, err

	case lx.SYS_SHUTDOWN:
		return SocketCallResult{}, a.File.Shutdown(ctx, a.How)

	case lx.SYS_SETSOCKOPT:
		return SocketCallResult{}, a.File.SetSockOpt(ctx, a.Level, a.Name, a.OptVal)

	case lx.SYS_GETSOCKOPT:
		v, err := a.File.GetSockOpt(ctx, a.Level, a.Name, a.OutLen)
		return SocketCallResult{OptVal: v}, err

	default:
		return SocketCallResult{}, lx.EINVAL
	}
}
