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

package socketfile

import (
	"context"

	"github.com/jacobsa/reqtrace"

	"github.com/thirdpartystuff/flinux/abi"
	"github.com/thirdpartystuff/flinux/lx"
)

// Accept4 implements accept4(2) (spec.md §4.3): wait for ACCEPT
// readiness, call accept, wrap the new host socket in a child SocketFile
// inheriting af/type from this listener and applying NONBLOCK from flags;
// CLOEXEC in flags is accepted and left to the caller's descriptor table,
// nothing here records it. On WOULDBLOCK it clears the ACCEPT bit (the edge-triggered
// protocol in spec.md §4.2) and loops.
func (f *SocketFile) Accept4(ctx context.Context, flags int) (child *SocketFile, peer lx.SockAddr, err error) {
	ctx, report := reqtrace.StartSpan(ctx, "socketfile.Accept4")
	defer func() { report(err) }()

	nonblock := flags&int(lx.SOCK_NONBLOCK) != 0
	cloexec := flags&int(lx.SOCK_CLOEXEC) != 0
	_ = cloexec // descriptor-table concern, an external collaborator; accepted and ignored here

	sock, rc, done, err := f.enter()
	if err != nil {
		return nil, lx.SockAddr{}, err
	}
	defer done()

	for {
		rc.ClearEvents(lx.EventAccept)

		newSock, hostPeer, aerr := sock.Accept()
		if aerr == nil {
			child, werr := wrapAccepted(f.cfg, newSock, f.shared, nonblock)
			if werr != nil {
				return nil, lx.SockAddr{}, werr
			}

			if f.shared.Family() == lx.AF_UNIX {
				// UNIX-unnamed semantics: family-only prefix, no address bytes.
				return child, lx.SockAddr{Family: lx.AF_UNIX}, nil
			}

			addr, terr := abi.TranslateSockAddrIn(hostPeer)
			if terr != nil {
				return nil, lx.SockAddr{}, terr
			}
			return child, addr, nil
		}

		translated := translateErr(aerr, f.cfg.ErrorLog)
		if translated != lx.EWOULDBLOCK {
			return nil, lx.SockAddr{}, translated
		}
		if f.nonblock {
			return nil, lx.SockAddr{}, lx.EWOULDBLOCK
		}
		if _, werr := rc.WaitEvent(ctx, lx.EventAccept, false); werr != nil {
			return nil, lx.SockAddr{}, werr
		}
	}
}
