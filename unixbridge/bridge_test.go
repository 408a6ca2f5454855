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

package unixbridge_test

import (
	"bytes"
	"net"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/net/nettest"

	"github.com/thirdpartystuff/flinux/lx"
	"github.com/thirdpartystuff/flinux/unixbridge"

	. "github.com/jacobsa/ogletest"
)

func TestUnixBridge(t *testing.T) { RunTests(t) }

// memFile is an in-memory RendezvousFile, used to test header encode/decode
// plumbing without touching a real filesystem.
type memFile struct {
	buf        *bytes.Buffer
	hostNative bool
}

func (f *memFile) Read(p []byte) (int, error)  { return f.buf.Read(p) }
func (f *memFile) Write(p []byte) (int, error) { return f.buf.Write(p) }
func (f *memFile) Close() error                { return nil }
func (f *memFile) HostNative() bool            { return f.hostNative }

type memOpener struct {
	files map[string]*memFile
}

func newMemOpener() *memOpener { return &memOpener{files: map[string]*memFile{}} }

func (o *memOpener) CreateExclusive(path string) (unixbridge.RendezvousFile, error) {
	if _, ok := o.files[path]; ok {
		return nil, os.ErrExist
	}
	f := &memFile{buf: &bytes.Buffer{}, hostNative: true}
	o.files[path] = f
	return f, nil
}

func (o *memOpener) OpenRead(path string) (unixbridge.RendezvousFile, error) {
	f, ok := o.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return &memFile{buf: bytes.NewBuffer(f.buf.Bytes()), hostNative: f.hostNative}, nil
}

type UnixBridgeTest struct {
}

func init() { RegisterTestSuite(&UnixBridgeTest{}) }

func (t *UnixBridgeTest) BindThenConnectRecoversThePublishedPort() {
	opener := newMemOpener()
	cfg := unixbridge.Config{Files: opener}

	AssertEq(nil, unixbridge.Bind(cfg, "/tmp/x.sock", 54321))

	port, err := unixbridge.Connect(cfg, "/tmp/x.sock")
	AssertEq(nil, err)
	ExpectEq(54321, port)
}

func (t *UnixBridgeTest) ConnectWithoutBindIsConnectionRefused() {
	opener := newMemOpener()
	cfg := unixbridge.Config{Files: opener}

	_, err := unixbridge.Connect(cfg, "/tmp/missing.sock")
	ExpectEq(lx.ECONNREFUSED, err)
}

func (t *UnixBridgeTest) MalformedHeaderIsConnectionRefused() {
	opener := newMemOpener()
	opener.files["/tmp/bad.sock"] = &memFile{buf: bytes.NewBufferString("not a header"), hostNative: true}
	cfg := unixbridge.Config{Files: opener}

	_, err := unixbridge.Connect(cfg, "/tmp/bad.sock")
	ExpectEq(lx.ECONNREFUSED, err)
}

func (t *UnixBridgeTest) BindToNonHostNativeFileFailsEperm() {
	// A stub opener hands back a file marked non-host-native; Bind must
	// reject it before ever writing the header.
	opener := &stubOpener{f: &memFile{buf: &bytes.Buffer{}, hostNative: false}}
	cfg := unixbridge.Config{Files: opener}

	err := unixbridge.Bind(cfg, "/tmp/virtual", 1)
	ExpectEq(lx.EPERM, err)
}

type stubOpener struct{ f *memFile }

func (o *stubOpener) CreateExclusive(path string) (unixbridge.RendezvousFile, error) {
	return o.f, nil
}
func (o *stubOpener) OpenRead(path string) (unixbridge.RendezvousFile, error) {
	return o.f, nil
}

func (t *UnixBridgeTest) PathFromSockAddrRejectsAbstractNamespace() {
	raw := append([]byte{0}, []byte("abstract")...)
	_, err := unixbridge.PathFromSockAddr(raw)
	ExpectEq(lx.EINVAL, err)
}

func (t *UnixBridgeTest) PathFromSockAddrTrimsTrailingNul() {
	raw := append([]byte("/tmp/x.sock"), 0, 0, 0)
	path, err := unixbridge.PathFromSockAddr(raw)
	AssertEq(nil, err)
	ExpectEq("/tmp/x.sock", path)
}

func (t *UnixBridgeTest) PathFromSockAddrRejectsEmpty() {
	_, err := unixbridge.PathFromSockAddr(nil)
	ExpectEq(lx.EINVAL, err)
}

// BindAgainstOSFileOpenerPublishesARealLoopbackPort exercises the real
// OSFileOpener end-to-end against a real loopback listener, confirming the
// header round-trips through an actual file on disk (Testable Property
// covering on-disk byte-stability rather than the in-memory fake's
// bookkeeping).
func (t *UnixBridgeTest) BindAgainstOSFileOpenerPublishesARealLoopbackPort() {
	ln, err := nettest.NewLocalListener("tcp")
	AssertEq(nil, err)
	defer ln.Close()

	port := uint16(ln.Addr().(*net.TCPAddr).Port)

	dir, err := os.MkdirTemp("", "unixbridge")
	AssertEq(nil, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "x.sock")
	cfg := unixbridge.Config{Files: unixbridge.OSFileOpener{}}

	AssertEq(nil, unixbridge.Bind(cfg, path, port))

	got, err := unixbridge.Connect(cfg, path)
	AssertEq(nil, err)
	ExpectEq(port, got)
}
