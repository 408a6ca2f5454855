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
	"syscall"
	"testing"

	"github.com/thirdpartystuff/flinux/abi"
	"github.com/thirdpartystuff/flinux/lx"

	. "github.com/jacobsa/ogletest"
)

func TestAbi(t *testing.T) { RunTests(t) }

type ErrnoTest struct {
}

func init() { RegisterTestSuite(&ErrnoTest{}) }

func (t *ErrnoTest) NilIsZero() {
	ExpectEq(lx.Errno(0), abi.TranslateErrno(nil, nil))
}

// Testable Property 1: every host error kind the translator recognizes
// round-trips to its documented Linux errno.
func (t *ErrnoTest) RecognizedKindsMapAsDocumented() {
	cases := []struct {
		host int
		want lx.Errno
	}{
		{10004, lx.EINTR},
		{10022, lx.EINVAL},
		{10035, lx.EWOULDBLOCK},
		{10036, lx.EINPROGRESS},
		{10038, lx.ENOTSOCK},
		{10048, lx.EADDRINUSE},
		{10054, lx.ECONNRESET},
		{10057, lx.ENOTCONN},
		{10060, lx.ETIMEDOUT},
		{10061, lx.ECONNREFUSED},
		// HOSTDOWN deliberately maps to ETIMEDOUT, not EHOSTDOWN.
		{10064, lx.ETIMEDOUT},
	}
	for _, c := range cases {
		got := abi.TranslateErrno(syscall.Errno(c.host), nil)
		ExpectEq(c.want, got)
	}
}

func (t *ErrnoTest) UnknownHostCodeMapsToEIO() {
	got := abi.TranslateErrno(syscall.Errno(999999), nil)
	ExpectEq(lx.EIO, got)
}

func (t *ErrnoTest) NonErrnoErrorMapsToEIO() {
	got := abi.TranslateErrno(someOtherError{}, nil)
	ExpectEq(lx.EIO, got)
}

func (t *ErrnoTest) AlreadyTranslatedErrnoPassesThrough() {
	got := abi.TranslateErrno(lx.ECONNRESET, nil)
	ExpectEq(lx.ECONNRESET, got)
}

type someOtherError struct{}

func (someOtherError) Error() string { return "some other error" }
