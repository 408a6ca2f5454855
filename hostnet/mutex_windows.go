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

//go:build windows

package hostnet

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modkernel32      = windows.NewLazySystemDLL("kernel32.dll")
	procReleaseMutex = modkernel32.NewProc("ReleaseMutex")
)

func releaseMutex(h windows.Handle) {
	procReleaseMutex.Call(uintptr(h))
}

type winMutex struct {
	h windows.Handle
}

func newInheritableMutex() (Mutex, error) {
	sa := &windows.SecurityAttributes{
		Length:        uint32(unsafe.Sizeof(windows.SecurityAttributes{})),
		InheritHandle: 1,
	}

	h, err := windows.CreateMutex(sa, false, nil)
	if err != nil {
		return nil, err
	}
	return &winMutex{h: h}, nil
}

func (m *winMutex) Lock() {
	windows.WaitForSingleObject(m.h, windows.INFINITE)
}

func (m *winMutex) Unlock() {
	releaseMutex(m.h)
}

func (m *winMutex) Close() error {
	return windows.CloseHandle(m.h)
}
