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

// Family is a Linux address family (AF_*), as requested by the guest in
// socket(2)'s domain argument.
type Family int

const (
	AF_UNSPEC Family = 0
	AF_UNIX   Family = 1
	AF_INET   Family = 2
	AF_INET6  Family = 10
)

func (f Family) String() string {
	switch f {
	case AF_UNSPEC:
		return "AF_UNSPEC"
	case AF_UNIX:
		return "AF_UNIX"
	case AF_INET:
		return "AF_INET"
	case AF_INET6:
		return "AF_INET6"
	default:
		return "AF_?"
	}
}

// SockType is a Linux socket type (SOCK_*), as requested by the guest in
// socket(2)'s type argument, with the NONBLOCK/CLOEXEC flag bits already
// stripped out (see SplitTypeFlags).
type SockType int

const (
	SOCK_STREAM    SockType = 1
	SOCK_DGRAM     SockType = 2
	SOCK_RAW       SockType = 3
	SOCK_RDM       SockType = 4
	SOCK_SEQPACKET SockType = 5
)

// The top bits of socket(2)'s type argument that carry flags rather than a
// socket type. Values match Linux's bits/socket_type.h.
const (
	SOCK_NONBLOCK SockType = 0004000
	SOCK_CLOEXEC  SockType = 02000000
)

// SplitTypeFlags separates the flag bits carried in the top of a raw
// socket(2) type argument from the actual socket type,
func SplitTypeFlags(raw int) (typ SockType, nonblock, cloexec bool) {
	nonblock = raw&int(SOCK_NONBLOCK) != 0
	cloexec = raw&int(SOCK_CLOEXEC) != 0
	typ = SockType(raw &^ int(SOCK_NONBLOCK) &^ int(SOCK_CLOEXEC))
	return
}

func (t SockType) String() string {
	switch t {
	case SOCK_STREAM:
		return "SOCK_STREAM"
	case SOCK_DGRAM:
		return "SOCK_DGRAM"
	case SOCK_RAW:
		return "SOCK_RAW"
	case SOCK_RDM:
		return "SOCK_RDM"
	case SOCK_SEQPACKET:
		return "SOCK_SEQPACKET"
	default:
		return "SOCK_?"
	}
}

// Shutdown how(2) values.
type ShutHow int

const (
	SHUT_RD   ShutHow = 0
	SHUT_WR   ShutHow = 1
	SHUT_RDWR ShutHow = 2
)

// Message flags relevant to send/recv family calls.
const (
	MSG_DONTWAIT = 0x40
	MSG_PEEK     = 0x02
)

// File status flag carried on the descriptor (as opposed to per-call
// message flags).
const O_NONBLOCK = 0x800
