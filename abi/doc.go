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

// Package abi holds the pure translation functions between the lx (guest)
// vocabulary and the host's native socket ABI: address families, socket
// types, sockaddr byte layouts, sockopt level/name pairs, and error codes.
// Nothing in this package touches a host handle; it only converts values,
// so it builds and is testable on every platform regardless of which
// hostnet backend is wired in at runtime.
package abi
