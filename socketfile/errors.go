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
	"errors"
	"log"
	"syscall"

	"github.com/thirdpartystuff/flinux/abi"
	"github.com/thirdpartystuff/flinux/lx"
)

// translateErr normalizes an error from hostnet or unixbridge into a
// lx.Errno. unixbridge already returns lx.Errno values directly for its
// own protocol failures (EPERM/ECONNREFUSED/EINVAL), but CreateExclusive/
// OpenRead can also fail with an *fs.PathError wrapping a raw
// syscall.Errno (e.g. EEXIST on a second bind to the same path); errors.As
// unwraps that one level of wrapping before handing off to
// abi.TranslateErrno, which only recognizes a bare syscall.Errno.
func translateErr(err error, logger *log.Logger) error {
	if err == nil {
		return nil
	}
	if errno, ok := err.(lx.Errno); ok {
		return errno
	}

	var sysErrno syscall.Errno
	if errors.As(err, &sysErrno) {
		return abi.TranslateErrno(sysErrno, logger)
	}

	return abi.TranslateErrno(err, logger)
}
