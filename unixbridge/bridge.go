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
	"bytes"
	"io"

	"github.com/thirdpartystuff/flinux/lx"
)

// maxHeaderLen bounds the read-back buffer: the tag plus a 5-digit port
// comfortably fits; anything larger than this is not a file this package
// wrote and is treated as malformed.
const maxHeaderLen = 32

// Config carries the collaborators unixbridge needs from its caller
// (socketfile), following the same explicit-struct-of-dependencies shape
// as fuse.MountConfig.
type Config struct {
	Files FileOpener
}

// PathFromSockAddr extracts the filesystem path from a UNIX sockaddr's raw
// bytes (everything after sa_family), rejecting the abstract namespace and
// an empty path, the same checks socket_bind/socket_connect make before
// ever touching the rendezvous file.
func PathFromSockAddr(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", lx.EINVAL
	}
	if lx.IsAbstractUnix(raw) {
		return "", lx.EINVAL
	}
	if raw[0] == 0 {
		return "", lx.EINVAL
	}
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	if len(raw) == 0 {
		return "", lx.EINVAL
	}
	return string(raw), nil
}

// Bind creates the rendezvous file at path and publishes port into it. It
// fails EPERM if path does not resolve to a host-native file, mirroring
// "must refer to a host-native file; otherwise bind returns EPERM."
func Bind(cfg Config, path string, port uint16) error {
	f, err := cfg.Files.CreateExclusive(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if !f.HostNative() {
		return lx.EPERM
	}

	header := encodeHeader(port)
	if err := preallocate(f, int64(len(header))); err != nil {
		return err
	}
	if _, err := f.Write(header); err != nil {
		return err
	}
	return nil
}

// Connect opens the rendezvous file at path and returns the loopback port
// its binder published. It fails ECONNREFUSED if the file is missing the
// header or the port is unparsable, the same failure spec.md assigns to
// "the header is missing or malformed."
func Connect(cfg Config, path string) (uint16, error) {
	f, err := cfg.Files.OpenRead(path)
	if err != nil {
		return 0, lx.ECONNREFUSED
	}
	defer f.Close()

	buf := make([]byte, maxHeaderLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return 0, lx.ECONNREFUSED
	}

	port, ok := decodeHeader(buf[:n])
	if !ok {
		return 0, lx.ECONNREFUSED
	}
	return port, nil
}
