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

// Msghdr is the guest's scatter/gather descriptor for sendmsg/recvmsg,
// already unmarshalled by the (external) memory manager: Name is the
// optional peer address (zero Family means "no name supplied"), Iov is
// the already-resolved list of buffers the memory manager validated and
// mapped from the guest's iovec array, and Control carries ancillary data
// verbatim.
type Msghdr struct {
	Name    SockAddr
	Iov     [][]byte
	Control []byte
	Flags   int
}
