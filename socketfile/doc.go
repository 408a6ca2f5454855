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

// Package socketfile implements the socket descriptor object that the
// guest syscall surface operates on: SocketFile bundles a host socket
// handle, its reactor-driven readiness state, and the inheritable mutex
// that serializes blocking operations, behind the fixed operation set
// bind/connect/listen/accept4/send-recv family/sendmmsg/shutdown/sockopt/
// getsockname/getpeername/stat/close/poll.
//
// The vtable shape mirrors fuseops.FileSystem: a fixed, enumerable set of
// operations implemented as methods on one type. The operations that call
// the host socket hold the file's mutex while they call it, and the socket
// calls (bind through shutdown) each open a reqtrace span; stat, close, the
// poll queries and the fork hooks open none.
package socketfile
