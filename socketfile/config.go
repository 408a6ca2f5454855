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

package socketfile

import (
	"log"

	"github.com/thirdpartystuff/flinux/unixbridge"
)

// Config carries the collaborators a SocketFile needs beyond the host
// socket itself, following the same explicit-struct-of-dependencies shape
// fuse.MountConfig uses for fuse.Connection.
type Config struct {
	// DebugLog and ErrorLog receive loggable events (unmapped errno
	// translations, fork-recreation failures, reactor drains). Both may be
	// nil, in which case the corresponding class of event is dropped
	// silently, mirroring fuse.MountConfig's optional logger fields.
	DebugLog *log.Logger
	ErrorLog *log.Logger

	// Unix carries the FileOpener the UNIX-domain loopback bridge binds
	// and connects through; the zero value uses unixbridge.OSFileOpener.
	Unix unixbridge.Config
}

func (c Config) unixConfig() unixbridge.Config {
	if c.Unix.Files == nil {
		return unixbridge.Config{Files: unixbridge.OSFileOpener{}}
	}
	return c.Unix
}

func (c Config) debugf(format string, args ...interface{}) {
	if c.DebugLog != nil {
		c.DebugLog.Printf(format, args...)
	}
}

func (c Config) errorf(format string, args ...interface{}) {
	if c.ErrorLog != nil {
		c.ErrorLog.Printf(format, args...)
	}
}
