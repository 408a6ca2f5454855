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

package flinux

import (
	"github.com/thirdpartystuff/flinux/futex"
	"github.com/thirdpartystuff/flinux/lx"
	"github.com/thirdpartystuff/flinux/socketfile"
)

// Syscalls is the module's single entry point: one Futex core shared by
// every emulated thread, and a socketfile.Config every socket(2) call
// constructs a new SocketFile against. It holds no descriptor table — the
// VFS that owns fd numbers is an external collaborator — so every method
// below past Socket takes the *socketfile.SocketFile the caller already
// resolved.
type Syscalls struct {
	cfg   Config
	sfCfg socketfile.Config
	fx    *futex.Futex
}

// New builds a Syscalls ready to serve socket and futex operations.
func New(cfg Config) *Syscalls {
	return &Syscalls{
		cfg:   cfg,
		sfCfg: cfg.socketfileConfig(),
		fx:    futex.New(cfg.futexConfig()),
	}
}

// Socket implements socket(2): family and rawType are the guest's raw
// domain/type/flags triple (rawType packs SOCK_NONBLOCK/SOCK_CLOEXEC, see
// lx.SplitTypeFlags). The returned cloexec flag is the VFS's concern to
// act on; this layer only reports it.
func (s *Syscalls) Socket(family lx.Family, rawType int) (sock *socketfile.SocketFile, cloexec bool, err error) {
	return socketfile.New(s.sfCfg, family, rawType)
}

// SetRobustList is the required no-op stub: the guest's per-thread robust
// futex list is consulted by the kernel only to clean up mutexes held by
// a thread that dies holding them, a lifecycle concern this layer doesn't
// model since there is no interprocess/cross-thread-death futex cleanup
// here (spec.md's Non-goals: no interprocess futex).
func (s *Syscalls) SetRobustList(head uintptr, length int) error {
	return nil
}
