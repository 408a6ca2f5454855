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
	"encoding/binary"

	"github.com/jacobsa/reqtrace"

	"github.com/thirdpartystuff/flinux/abi"
	"github.com/thirdpartystuff/flinux/hostnet"
	"github.com/thirdpartystuff/flinux/lx"
	"github.com/thirdpartystuff/flinux/unixbridge"
)

// loopbackHostAddr builds the host-native sockaddr for 127.0.0.1:port,
// reusing abi.TranslateFamily(lx.AF_INET) rather than hardcoding the
// host's address-family number, since only abi owns that mapping.
func loopbackHostAddr(port uint16) (hostnet.RawSockAddr, error) {
	hostFam, err := abi.TranslateFamily(lx.AF_INET)
	if err != nil {
		return hostnet.RawSockAddr{}, err
	}
	b := []byte{127, 0, 0, 1, 0, 0}
	binary.BigEndian.PutUint16(b[4:6], port)
	return hostnet.RawSockAddr{Family: hostFam, Bytes: b}, nil
}

func portOf(sa hostnet.RawSockAddr) uint16 {
	if len(sa.Bytes) < 6 {
		return 0
	}
	return binary.BigEndian.Uint16(sa.Bytes[4:6])
}

// Bind implements bind(2) (spec.md §4.3). For AF_UNIX it binds the host
// socket to loopback:0, queries the port the host assigned, and publishes
// it through unixbridge's rendezvous file at the path the guest named.
// For AF_INET/AF_INET6 it translates and binds directly.
func (f *SocketFile) Bind(ctx context.Context, sa lx.SockAddr) (err error) {
	_, report := reqtrace.StartSpan(ctx, "socketfile.Bind")
	defer func() { report(err) }()

	sock, _, done, err := f.enter()
	if err != nil {
		return err
	}
	defer done()

	if f.shared.Family() == lx.AF_UNIX {
		return f.bindUnix(sock, sa)
	}

	raw, err := abi.TranslateSockAddrOut(sa)
	if err != nil {
		return err
	}
	if err := sock.Bind(raw); err != nil {
		return translateErr(err, f.cfg.ErrorLog)
	}
	return nil
}

func (f *SocketFile) bindUnix(sock hostnet.Socket, sa lx.SockAddr) error {
	path, err := unixbridge.PathFromSockAddr(sa.Raw)
	if err != nil {
		return err
	}

	loopback, err := loopbackHostAddr(0)
	if err != nil {
		return err
	}
	if err := sock.Bind(loopback); err != nil {
		return translateErr(err, f.cfg.ErrorLog)
	}

	assigned, err := sock.GetSockName()
	if err != nil {
		return translateErr(err, f.cfg.ErrorLog)
	}

	return translateErr(unixbridge.Bind(f.cfg.unixConfig(), path, portOf(assigned)), f.cfg.ErrorLog)
}

// Connect implements connect(2) (spec.md §4.3). For AF_UNIX it reads the
// rendezvous file's published port and connects to loopback:port. For
// AF_INET/AF_INET6 it translates and connects directly. Non-blocking
// sockets turn a host WOULDBLOCK into EINPROGRESS; blocking sockets wait
// for CONNECT readiness and surface the captured connect error.
func (f *SocketFile) Connect(ctx context.Context, sa lx.SockAddr) (err error) {
	ctx, report := reqtrace.StartSpan(ctx, "socketfile.Connect")
	defer func() { report(err) }()

	sock, rc, done, err := f.enter()
	if err != nil {
		return err
	}
	defer done()

	var raw hostnet.RawSockAddr
	if f.shared.Family() == lx.AF_UNIX {
		path, perr := unixbridge.PathFromSockAddr(sa.Raw)
		if perr != nil {
			return perr
		}
		port, perr := unixbridge.Connect(f.cfg.unixConfig(), path)
		if perr != nil {
			return perr
		}
		raw, err = loopbackHostAddr(port)
	} else {
		raw, err = abi.TranslateSockAddrOut(sa)
	}
	if err != nil {
		return err
	}

	if cerr := sock.Connect(raw); cerr != nil {
		translated := translateErr(cerr, f.cfg.ErrorLog)
		if translated != lx.EWOULDBLOCK {
			return translated
		}
		if f.nonblock {
			return lx.EINPROGRESS
		}
	} else if f.nonblock {
		f.shared.SetConnected()
		return nil
	}

	if _, err := rc.WaitEvent(ctx, lx.EventConnect, false); err != nil {
		return err
	}
	if cerr := f.shared.ConnectError(f.cfg.ErrorLog); cerr != nil {
		return cerr
	}
	f.shared.SetConnected()
	return nil
}

// Listen implements listen(2). Errno translated; marks the socket as
// accepting connections so SO_ACCEPTCONN can answer locally afterward.
func (f *SocketFile) Listen(ctx context.Context, backlog int) (err error) {
	_, report := reqtrace.StartSpan(ctx, "socketfile.Listen")
	defer func() { report(err) }()

	sock, _, done, err := f.enter()
	if err != nil {
		return err
	}
	defer done()

	if err := sock.Listen(backlog); err != nil {
		return translateErr(err, f.cfg.ErrorLog)
	}
	f.shared.SetListening()
	return nil
}
