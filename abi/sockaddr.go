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

package abi

import (
	"github.com/thirdpartystuff/flinux/hostnet"
	"github.com/thirdpartystuff/flinux/lx"
)

// familyFieldLen is the size of sa_family within the wire structures
// below; lx.SockAddr.Raw holds everything after that field, while the
// lx.SockAddrInet*MinLen constants count the family field too.
const familyFieldLen = 2

// TranslateSockAddrOut translates a guest-supplied sockaddr into the
// host-native encoding hostnet.Socket accepts, for the INET/INET6
// families. UNSPEC zeroes the destination. UNIX addresses are never
// passed through this function: the caller threads them through
// unixbridge and only ever translates the resulting loopback INET address
// here.
func TranslateSockAddrOut(sa lx.SockAddr) (hostnet.RawSockAddr, error) {
	switch sa.Family {
	case lx.AF_UNSPEC:
		return hostnet.RawSockAddr{Family: hostAFUnspec}, nil

	case lx.AF_INET:
		if len(sa.Raw) < lx.SockAddrInetMinLen-familyFieldLen {
			return hostnet.RawSockAddr{}, lx.EINVAL
		}
		return hostnet.RawSockAddr{Family: hostAFInet, Bytes: sockAddrInToHost(sa.Raw)}, nil

	case lx.AF_INET6:
		if len(sa.Raw) < lx.SockAddrInet6MinLen-familyFieldLen {
			return hostnet.RawSockAddr{}, lx.EINVAL
		}
		return hostnet.RawSockAddr{Family: hostAFInet6, Bytes: sockAddrIn6ToHost(sa.Raw)}, nil

	default:
		return hostnet.RawSockAddr{}, lx.EAFNOSUPPORT
	}
}

// TranslateSockAddrIn translates a host-native address back into a guest
// sockaddr, rewriting the family field to the guest's numbering. Used for
// getsockname/getpeername/accept results.
func TranslateSockAddrIn(raw hostnet.RawSockAddr) (lx.SockAddr, error) {
	fam, err := FamilyFromHost(raw.Family)
	if err != nil {
		return lx.SockAddr{}, err
	}

	switch fam {
	case lx.AF_UNSPEC:
		return lx.SockAddr{Family: lx.AF_UNSPEC}, nil
	case lx.AF_INET:
		return lx.SockAddr{Family: lx.AF_INET, Raw: sockAddrInFromHost(raw.Bytes)}, nil
	case lx.AF_INET6:
		return lx.SockAddr{Family: lx.AF_INET6, Raw: sockAddrIn6FromHost(raw.Bytes)}, nil
	default:
		return lx.SockAddr{}, lx.EAFNOSUPPORT
	}
}

// sockAddrInToHost converts struct sockaddr_in's post-family bytes
// (2-byte network-order port, 4-byte address, 8 bytes of zero padding)
// into the host encoding (4-byte address, 2-byte port).
func sockAddrInToHost(raw []byte) []byte {
	b := make([]byte, 6)
	copy(b[0:4], raw[2:6])
	b[4], b[5] = raw[0], raw[1]
	return b
}

func sockAddrInFromHost(b []byte) []byte {
	raw := make([]byte, lx.SockAddrInetMinLen-familyFieldLen)
	raw[0], raw[1] = b[4], b[5]
	copy(raw[2:6], b[0:4])
	return raw
}

// sockAddrIn6ToHost converts struct sockaddr_in6's post-family bytes
// (2-byte port, 4-byte flowinfo, 16-byte address, 4-byte scope id) into
// the host encoding (16-byte address, 2-byte port).
func sockAddrIn6ToHost(raw []byte) []byte {
	b := make([]byte, 18)
	copy(b[0:16], raw[6:22])
	b[16], b[17] = raw[0], raw[1]
	return b
}

func sockAddrIn6FromHost(b []byte) []byte {
	raw := make([]byte, lx.SockAddrInet6MinLen-familyFieldLen)
	raw[0], raw[1] = b[16], b[17]
	copy(raw[6:22], b[0:16])
	return raw
}
