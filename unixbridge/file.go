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

package unixbridge

import (
	"io"
	"os"

	fallocate "github.com/detailyang/go-fallocate"
)

// RendezvousFile is the small slice of a host-native file unixbridge needs:
// create-exclusive for the binder, read for the connector. It stands in for
// the real VFS/WinFS file this runs against in the full personality layer,
// which is an external collaborator out of scope for this package.
type RendezvousFile interface {
	io.ReadWriteCloser

	// HostNative reports whether the underlying file is backed by a real
	// host filesystem entry (as opposed to a virtual/synthetic file). Bind
	// fails EPERM-equivalent when this is false.
	HostNative() bool
}

// FileOpener creates and opens rendezvous files by path. The real
// implementation below opens plain OS files; callers plumbing this through
// a VFS substitute a different FileOpener that also knows how to reject
// virtual files.
type FileOpener interface {
	// CreateExclusive creates path with create+exclusive semantics,
	// failing if it already exists.
	CreateExclusive(path string) (RendezvousFile, error)
	// OpenRead opens path for reading.
	OpenRead(path string) (RendezvousFile, error)
}

// OSFileOpener is the default FileOpener, backed directly by the host
// filesystem. Every file it returns reports HostNative() true.
type OSFileOpener struct{}

type osFile struct {
	*os.File
}

func (osFile) HostNative() bool { return true }

func (OSFileOpener) CreateExclusive(path string) (RendezvousFile, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
	if err != nil {
		return nil, err
	}
	return osFile{f}, nil
}

func (OSFileOpener) OpenRead(path string) (RendezvousFile, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	return osFile{f}, nil
}

// preallocate reserves size bytes for f so the rendezvous file is never
// left sparse between creation and the header write that follows bind.
func preallocate(f RendezvousFile, size int64) error {
	osf, ok := f.(osFile)
	if !ok {
		return nil
	}
	return fallocate.Fallocate(osf.File, 0, size)
}
