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

// File-type bits of st_mode (bits/stat.h), as reported by a socket file's
// stat().
const (
	S_IFSOCK = 0140000
	S_IFMT   = 0170000
)

// SocketStatMode is the fixed st_mode a socket descriptor reports: the
// socket file-type bits plus rw-r--r--.
const SocketStatMode = S_IFSOCK | 0644
