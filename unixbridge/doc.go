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

// Package unixbridge emulates AF_UNIX stream sockets by proxying through a
// loopback TCP connection whose port is published in a rendezvous file at
// the socket's path: the binder writes a fixed header tag plus the ASCII
// decimal port once bind() has picked one, and the connector opens the same
// path, reads the header back, and dials loopback:port instead of the path
// itself. Everything below the rendezvous-file boundary is ordinary TCP;
// this package only owns the on-disk header format and path handling.
package unixbridge
