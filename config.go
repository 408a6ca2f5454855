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
	"log"

	"github.com/jacobsa/timeutil"

	"github.com/thirdpartystuff/flinux/futex"
	"github.com/thirdpartystuff/flinux/socketfile"
	"github.com/thirdpartystuff/flinux/unixbridge"
)

// Config carries every collaborator Syscalls needs, following the same
// explicit-struct-of-dependencies shape socketfile.Config and
// fuse.MountConfig use.
type Config struct {
	// DebugLog and ErrorLog are shared by every socket this Syscalls
	// creates and by the futex core; both may be nil.
	DebugLog *log.Logger
	ErrorLog *log.Logger

	// Unix carries the FileOpener the UNIX-domain loopback bridge uses;
	// the zero value opens real OS files.
	Unix unixbridge.Config

	// Clock is the futex core's timeout source; the zero value uses the
	// real wall clock.
	Clock timeutil.Clock
}

func (c Config) socketfileConfig() socketfile.Config {
	return socketfile.Config{
		DebugLog: c.DebugLog,
		ErrorLog: c.ErrorLog,
		Unix:     c.Unix,
	}
}

func (c Config) futexConfig() futex.Config {
	return futex.Config{
		Clock:    c.Clock,
		DebugLog: c.DebugLog,
	}
}
