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

// Package reactor implements the edge-triggered readiness accumulator
// that sits between a socket's host event and the blocking/non-blocking
// semantics the vtable operations need: drained host readiness bits are
// OR-ed into a persistent, monotonic bitset; a caller about to act on a
// bit clears it first, so a host WOULDBLOCK leaves the bit cleared and
// the next readiness notification reasserts it. This turns the host's
// level-triggered event object into the edge-triggered semantics Linux
// callers expect from repeated non-blocking calls.
package reactor
