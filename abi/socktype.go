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

import "github.com/thirdpartystuff/flinux/lx"

// TranslateSockType maps a guest socket type (after lx.SplitTypeFlags has
// already stripped NONBLOCK/CLOEXEC) to its host equivalent. The host's
// socket-type numbering coincides with Linux's for every type recognized
// here, so this is mostly a validity check rather than a real remapping.
func TranslateSockType(t lx.SockType) (hostType int, err error) {
	switch t {
	case lx.SOCK_STREAM, lx.SOCK_DGRAM, lx.SOCK_RAW, lx.SOCK_RDM, lx.SOCK_SEQPACKET:
		return int(t), nil
	default:
		return 0, lx.EPROTONOSUPPORT
	}
}
