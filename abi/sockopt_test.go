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
	"github.com/thirdpartystuff/flinux/abi"
	"github.com/thirdpartystuff/flinux/lx"

	. "github.com/jacobsa/ogletest"
)

type SockOptTest struct {
}

func init() { RegisterTestSuite(&SockOptTest{}) }

func (t *SockOptTest) RecognizedPairsPassThrough() {
	level, name, err := abi.TranslateSockOpt(lx.SOL_SOCKET, lx.SO_REUSEADDR)
	AssertEq(nil, err)
	ExpectEq(lx.SOL_SOCKET, level)
	ExpectEq(lx.SO_REUSEADDR, name)
}

func (t *SockOptTest) UnknownPairFailsEinval() {
	_, _, err := abi.TranslateSockOpt(lx.SOL_SOCKET, 0xDEAD)
	ExpectEq(lx.EINVAL, err)
}

func (t *SockOptTest) SoTypeIsNotInTheHostTable() {
	// SO_TYPE is answered locally by socketfile, never sent to the host.
	_, _, err := abi.TranslateSockOpt(lx.SOL_SOCKET, lx.SO_TYPE)
	ExpectEq(lx.EINVAL, err)
}

func (t *SockOptTest) LingerRoundTrip() {
	in := lx.Linger{OnOff: 1, Linger: 30}
	host := abi.TranslateLingerOut(in)
	ExpectEq(4, len(host))

	out := abi.TranslateLingerIn(host)
	ExpectEq(in.OnOff, out.OnOff)
	ExpectEq(in.Linger, out.Linger)
}
