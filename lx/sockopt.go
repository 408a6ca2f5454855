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

package lx

// Sockopt levels (the "level" argument of setsockopt(2)/getsockopt(2)).
const (
	SOL_IP     = 0
	SOL_SOCKET = 1
	SOL_TCP    = 6
)

// Sockopt names recognized at SOL_SOCKET.
const (
	SO_REUSEADDR = 2
	SO_ERROR     = 4
	SO_BROADCAST = 6
	SO_SNDBUF    = 7
	SO_RCVBUF    = 8
	SO_KEEPALIVE = 9
	SO_LINGER    = 13
	SO_TYPE      = 3
	SO_ACCEPTCONN = 30
)

// Sockopt names recognized at SOL_IP.
const (
	IP_HDRINCL = 3
)

// Sockopt names recognized at SOL_TCP.
const (
	TCP_NODELAY = 1
)

// Linger mirrors Linux's struct linger, copied field-by-field to/from the
// host's layout by abi.TranslateLingerOut/TranslateLingerIn.
type Linger struct {
	OnOff  int32
	Linger int32
}
