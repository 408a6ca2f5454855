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

// Package hostnet is the host collaborator boundary: the host socket
// handle, the inheritable event used for readiness notification, the
// inheritable mutex, and fork-time socket duplication. Everything else in
// this module is host-agnostic and talks only to the small interfaces
// declared here.
//
// The real implementation (socket_windows.go, event_windows.go,
// mutex_windows.go) binds straight to Winsock and Win32 via
// golang.org/x/sys/windows, the way flock_darwin.go/flock_linux.go isolate
// one platform primitive per file in the teacher. A portable fallback
// (socket_other.go, event_other.go, mutex_other.go) lets the rest of the
// module build and be exercised by tests on any platform; it does not
// attempt to reproduce Winsock's exact non-blocking/event semantics, only
// the interfaces, so unit tests above this package can run anywhere.
package hostnet
