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

// Package lx holds the Linux ABI constants that the rest of this module
// translates to and from: address families, socket types, flag bits,
// errno numbers and sockopt level/name pairs, exactly as a Linux guest
// expects to see them on the wire.
//
// Nothing in this package depends on the host OS. That is deliberate: lx
// describes the guest-visible ABI, independent of whatever platform the
// personality layer happens to be hosted on.
package lx
