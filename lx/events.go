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

// Events is the bitset of accumulated socket readiness kept by
// SocketShared and driven by the reactor. Bits are a small guest-agnostic
// vocabulary; it has nothing to do with the host's own event numbering.
type Events uint32

const (
	EventRead Events = 1 << iota
	EventWrite
	EventAccept
	EventConnect
	EventClose
)

// All is every bit a SocketFile registers interest in.
const All = EventRead | EventWrite | EventAccept | EventConnect | EventClose

// Poll mask bits (poll(2)/select(2) semantics), used by socketfile's
// poll_status.
const (
	POLLIN  = 0x0001
	POLLOUT = 0x0004
	POLLHUP = 0x0010
)

// PollMask derives the poll(2) mask from accumulated events: POLLIN iff
// READ or CLOSE is set, POLLHUP iff CLOSE is set, POLLOUT iff WRITE is set.
func PollMask(e Events) (mask int) {
	if e&(EventRead|EventClose) != 0 {
		mask |= POLLIN
	}
	if e&EventClose != 0 {
		mask |= POLLHUP
	}
	if e&EventWrite != 0 {
		mask |= POLLOUT
	}
	return
}
