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

package unixbridge

import (
	"testing"

	. "github.com/jacobsa/ogletest"
)

func TestHeader(t *testing.T) { RunTests(t) }

type HeaderTest struct {
}

func init() { RegisterTestSuite(&HeaderTest{}) }

// The tag plus ASCII port, no trailing newline, is the on-disk contract;
// this pins the exact bytes so a future edit can't silently change it.
func (t *HeaderTest) EncodedFormIsTagFollowedByAsciiPort() {
	ExpectEq("UNIX header4242", string(encodeHeader(4242)))
}

func (t *HeaderTest) DecodeRoundTripsEncode() {
	port, ok := decodeHeader(encodeHeader(65535))
	AssertTrue(ok)
	ExpectEq(65535, port)
}

func (t *HeaderTest) DecodeRejectsMissingTag() {
	_, ok := decodeHeader([]byte("garbage5000"))
	ExpectFalse(ok)
}

func (t *HeaderTest) DecodeRejectsTagWithoutDigits() {
	_, ok := decodeHeader([]byte("UNIX header"))
	ExpectFalse(ok)
}

func (t *HeaderTest) DecodeRejectsNonNumericSuffix() {
	_, ok := decodeHeader([]byte("UNIX headerabc"))
	ExpectFalse(ok)
}
