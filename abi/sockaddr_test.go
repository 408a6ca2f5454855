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

package abi_test

import (
	"github.com/kylelemons/godebug/pretty"
	"github.com/thirdpartystuff/flinux/abi"
	"github.com/thirdpartystuff/flinux/lx"

	. "github.com/jacobsa/ogletest"
)

type SockAddrTest struct {
}

func init() { RegisterTestSuite(&SockAddrTest{}) }

func buildInet6Raw(port uint16, addr [16]byte, scopeID uint32) []byte {
	raw := make([]byte, lx.SockAddrInet6MinLen-2)
	raw[0] = byte(port >> 8)
	raw[1] = byte(port)
	// raw[2:6] flowinfo left zero
	copy(raw[6:22], addr[:])
	raw[22] = byte(scopeID >> 24)
	raw[23] = byte(scopeID >> 16)
	raw[24] = byte(scopeID >> 8)
	raw[25] = byte(scopeID)
	return raw
}

// Testable Property 2: for any INET6 sockaddr written by the guest, the
// sequence guest->host->guest preserves port and address bytes and
// restores the Linux family value.
func (t *SockAddrTest) Inet6RoundTripPreservesPortAndAddress() {
	addr := [16]byte{0x20, 0x01, 0x0d, 0xb8, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}
	raw := buildInet6Raw(8080, addr, 0)

	guestOut := lx.SockAddr{Family: lx.AF_INET6, Raw: raw}
	hostAddr, err := abi.TranslateSockAddrOut(guestOut)
	AssertEq(nil, err)

	guestIn, err := abi.TranslateSockAddrIn(hostAddr)
	AssertEq(nil, err)

	ExpectEq(lx.AF_INET6, guestIn.Family)
	ExpectEq("", pretty.Compare(raw[:2], guestIn.Raw[:2]))     // port
	ExpectEq("", pretty.Compare(raw[6:22], guestIn.Raw[6:22])) // address
}

func (t *SockAddrTest) InetRoundTripPreservesPortAndAddress() {
	raw := make([]byte, lx.SockAddrInetMinLen-2)
	raw[0], raw[1] = 0x1F, 0x90 // port 8080
	raw[2], raw[3], raw[4], raw[5] = 127, 0, 0, 1

	guestOut := lx.SockAddr{Family: lx.AF_INET, Raw: raw}
	hostAddr, err := abi.TranslateSockAddrOut(guestOut)
	AssertEq(nil, err)

	guestIn, err := abi.TranslateSockAddrIn(hostAddr)
	AssertEq(nil, err)

	ExpectEq(lx.AF_INET, guestIn.Family)
	ExpectEq("", pretty.Compare(raw, guestIn.Raw))
}

func (t *SockAddrTest) UndersizedInetBufferIsEinval() {
	_, err := abi.TranslateSockAddrOut(lx.SockAddr{Family: lx.AF_INET, Raw: []byte{1, 2, 3}})
	ExpectEq(lx.EINVAL, err)
}

func (t *SockAddrTest) UnspecZeroesDestination() {
	hostAddr, err := abi.TranslateSockAddrOut(lx.SockAddr{Family: lx.AF_UNSPEC})
	AssertEq(nil, err)

	guestIn, err := abi.TranslateSockAddrIn(hostAddr)
	AssertEq(nil, err)
	ExpectEq(lx.AF_UNSPEC, guestIn.Family)
}

func (t *SockAddrTest) UnsupportedFamilyFailsAfnosupport() {
	_, err := abi.TranslateSockAddrOut(lx.SockAddr{Family: lx.Family(99)})
	ExpectEq(lx.EAFNOSUPPORT, err)
}
