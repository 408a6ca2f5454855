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

// Package futex implements the "fast userspace mutex" wait/wake core:
// WAIT/WAKE/REQUEUE/CMP_REQUEUE keyed on a guest-memory address, hashed
// into one of 256 spinlock-guarded buckets. Reading and comparing the
// guest word at that address is the memory manager's job (an external
// collaborator this package has no access to), so every operation takes
// the current value as an already-resolved load callback rather than a
// raw pointer.
//
// No interprocess futex: every bucket lives in this process's heap, so
// two emulated processes sharing guest memory across a real fork never
// see the same Futex. Abstract/shared-memory futexes are an explicit
// non-goal, mirroring the comment in the original source ("TODO: How to
// implement interprocess futex?").
package futex
