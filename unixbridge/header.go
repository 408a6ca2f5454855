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
	"strconv"
	"strings"
)

// headerTag is the fixed byte sequence every rendezvous file starts with.
// It is part of the on-disk contract between a binder and a connector and
// must never change independently in the two directions.
const headerTag = "UNIX header"

// encodeHeader renders the rendezvous file's contents for the given
// loopback port: the tag immediately followed by the ASCII decimal port,
// with no trailing newline.
func encodeHeader(port uint16) []byte {
	return []byte(headerTag + strconv.Itoa(int(port)))
}

// decodeHeader parses a rendezvous file's contents, returning the port the
// binder published. A missing or malformed header is reported via ok=false
// so the caller can translate it to ECONNREFUSED rather than a lower-level
// parse error.
func decodeHeader(contents []byte) (port uint16, ok bool) {
	s := string(contents)
	if !strings.HasPrefix(s, headerTag) {
		return 0, false
	}
	digits := s[len(headerTag):]
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(digits, 10, 16)
	if err != nil {
		return 0, false
	}
	return uint16(n), true
}
