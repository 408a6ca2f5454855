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

package lx

// SocketCallOp is the operation code passed to the legacy socketcall(2)
// multiplexer, numbered exactly as Linux numbers them (1-indexed, no 0
// value) so a guest dispatching through socketcall needs no translation.
type SocketCallOp int

const (
	SYS_SOCKET      SocketCallOp = 1
	SYS_BIND        SocketCallOp = 2
	SYS_CONNECT     SocketCallOp = 3
	SYS_LISTEN      SocketCallOp = 4
	SYS_ACCEPT      SocketCallOp = 5
	SYS_GETSOCKNAME SocketCallOp = 6
	SYS_GETPEERNAME SocketCallOp = 7
	SYS_SOCKETPAIR  SocketCallOp = 8
	SYS_SEND        SocketCallOp = 9
	SYS_RECV        SocketCallOp = 10
	SYS_SENDTO      SocketCallOp = 11
	SYS_RECVFROM    SocketCallOp = 12
	SYS_SHUTDOWN    SocketCallOp = 13
	SYS_SETSOCKOPT  SocketCallOp = 14
	SYS_GETSOCKOPT  SocketCallOp = 15
	SYS_SENDMSG     SocketCallOp = 16
	SYS_RECVMSG     SocketCallOp = 17
	SYS_ACCEPT4     SocketCallOp = 18
	SYS_RECVMMSG    SocketCallOp = 19
	SYS_SENDMMSG    SocketCallOp = 20
)

func (op SocketCallOp) String() string {
	switch op {
	case SYS_SOCKET:
		return "SYS_SOCKET"
	case SYS_BIND:
		return "SYS_BIND"
	case SYS_CONNECT:
		return "SYS_CONNECT"
	case SYS_LISTEN:
		return "SYS_LISTEN"
	case SYS_ACCEPT:
		return "SYS_ACCEPT"
	case SYS_GETSOCKNAME:
		return "SYS_GETSOCKNAME"
	case SYS_GETPEERNAME:
		return "SYS_GETPEERNAME"
	case SYS_SOCKETPAIR:
		return "SYS_SOCKETPAIR"
	case SYS_SEND:
		return "SYS_SEND"
	case SYS_RECV:
		return "SYS_RECV"
	case SYS_SENDTO:
		return "SYS_SENDTO"
	case SYS_RECVFROM:
		return "SYS_RECVFROM"
	case SYS_SHUTDOWN:
		return "SYS_SHUTDOWN"
	case SYS_SETSOCKOPT:
		return "SYS_SETSOCKOPT"
	case SYS_GETSOCKOPT:
		return "SYS_GETSOCKOPT"
	case SYS_SENDMSG:
		return "SYS_SENDMSG"
	case SYS_RECVMSG:
		return "SYS_RECVMSG"
	case SYS_ACCEPT4:
		return "SYS_ACCEPT4"
	case SYS_RECVMMSG:
		return "SYS_RECVMMSG"
	case SYS_SENDMMSG:
		return "SYS_SENDMMSG"
	default:
		return "SYS_SOCKETCALL_?"
	}
}
