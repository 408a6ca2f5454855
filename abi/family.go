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

// Host address family numbers, in ws2_32.dll's own numbering (the same
// values golang.org/x/sys/windows exposes as windows.AF_INET /
// windows.AF_INET6). AF_INET happens to coincide with Linux's numbering;
// AF_INET6 does not, so it must be rewritten on the way out and the way
// back in.
const (
	hostAFUnspec = 0
	hostAFInet   = 2
	hostAFInet6  = 23
)

// TranslateFamily maps a guest address family to its host equivalent.
// AF_UNIX is silently demoted to loopback AF_INET; the caller (unixbridge)
// is responsible for the path-to-port rendezvous that makes that
// substitution meaningful. Any other family fails with EAFNOSUPPORT.
func TranslateFamily(f lx.Family) (hostFamily int, err error) {
	switch f {
	case lx.AF_UNSPEC:
		return hostAFUnspec, nil
	case lx.AF_UNIX:
		return hostAFInet, nil
	case lx.AF_INET:
		return hostAFInet, nil
	case lx.AF_INET6:
		return hostAFInet6, nil
	default:
		return 0, lx.EAFNOSUPPORT
	}
}

// FamilyFromHost maps a host address family number back to its guest
// equivalent. Used when rewriting a sockaddr the host handed back, e.g.
// from getsockname/getpeername/accept.
func FamilyFromHost(hostFamily int) (lx.Family, error) {
	switch hostFamily {
	case hostAFUnspec:
		return lx.AF_UNSPEC, nil
	case hostAFInet:
		return lx.AF_INET, nil
	case hostAFInet6:
		return lx.AF_INET6, nil
	default:
		return 0, lx.EAFNOSUPPORT
	}
}
