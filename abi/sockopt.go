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
	"encoding/binary"

	"github.com/thirdpartystuff/flinux/lx"
)

type sockoptKey struct {
	level int
	name  int
}

// sockoptTable is the set of recognized (level, name) pairs. The host
// level/name numbers coincide with Linux's for every pair here, so this
// table is a whitelist rather than a real remapping; SO_TYPE and
// SO_ACCEPTCONN are deliberately absent because socketfile answers those
// locally from SocketShared instead of asking the host.
var sockoptTable = map[sockoptKey]sockoptKey{
	{lx.SOL_IP, lx.IP_HDRINCL}:       {lx.SOL_IP, lx.IP_HDRINCL},
	{lx.SOL_SOCKET, lx.SO_REUSEADDR}: {lx.SOL_SOCKET, lx.SO_REUSEADDR},
	{lx.SOL_SOCKET, lx.SO_ERROR}:     {lx.SOL_SOCKET, lx.SO_ERROR},
	{lx.SOL_SOCKET, lx.SO_BROADCAST}: {lx.SOL_SOCKET, lx.SO_BROADCAST},
	{lx.SOL_SOCKET, lx.SO_SNDBUF}:    {lx.SOL_SOCKET, lx.SO_SNDBUF},
	{lx.SOL_SOCKET, lx.SO_RCVBUF}:    {lx.SOL_SOCKET, lx.SO_RCVBUF},
	{lx.SOL_SOCKET, lx.SO_KEEPALIVE}: {lx.SOL_SOCKET, lx.SO_KEEPALIVE},
	{lx.SOL_SOCKET, lx.SO_LINGER}:    {lx.SOL_SOCKET, lx.SO_LINGER},
	{lx.SOL_TCP, lx.TCP_NODELAY}:     {lx.SOL_TCP, lx.TCP_NODELAY},
}

// TranslateSockOpt maps a Linux (level, name) sockopt pair to its host
// equivalent. Unknown pairs fail with EINVAL.
func TranslateSockOpt(level, name int) (hostLevel, hostName int, err error) {
	k, ok := sockoptTable[sockoptKey{level, name}]
	if !ok {
		return 0, 0, lx.EINVAL
	}
	return k.level, k.name, nil
}

// TranslateLingerOut converts a guest lx.Linger (two int32 fields) into
// Winsock's struct linger wire layout (two u_short fields), field by
// field.
func TranslateLingerOut(l lx.Linger) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint16(b[0:2], uint16(l.OnOff))
	binary.LittleEndian.PutUint16(b[2:4], uint16(l.Linger))
	return b
}

// TranslateLingerIn converts a host struct linger back into lx.Linger.
func TranslateLingerIn(host []byte) lx.Linger {
	if len(host) < 4 {
		return lx.Linger{}
	}
	return lx.Linger{
		OnOff:  int32(binary.LittleEndian.Uint16(host[0:2])),
		Linger: int32(binary.LittleEndian.Uint16(host[2:4])),
	}
}
