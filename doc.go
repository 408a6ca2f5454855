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

// Package flinux wires the socket personality layer and the futex
// subsystem together behind the guest-facing entry points a syscall
// dispatcher calls into once it has already resolved a file descriptor to
// a socketfile.SocketFile (fd assignment is the VFS's job, out of scope
// here).
//
// Socket(2) itself is exposed directly (nothing to resolve beforehand),
// every other socket operation is a method on the *socketfile.SocketFile*
// the caller already holds, and SocketCall multiplexes all of them behind
// the legacy socketcall(2) op code the same way Linux's 32-bit ABI does.
// Futex and SetRobustList round out the surface; see lx.FutexOp and
// lx.SocketCallOp for the op numbering.
package flinux
