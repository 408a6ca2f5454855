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
	"context"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

type winEvent struct {
	h windows.Handle
}

// newInheritableEvent creates a manual-reset event with an inheritable
// handle, so it survives a fork-style child process duplication.
func newInheritableEvent() (Event, error) {
	sa := &windows.SecurityAttributes{
		Length:        uint32(unsafe.Sizeof(windows.SecurityAttributes{})),
		InheritHandle: 1,
	}

	h, err := windows.CreateEvent(sa, 1 /* manual reset */, 0, nil)
	if err != nil {
		return nil, err
	}
	return &winEvent{h: h}, nil
}

func (e *winEvent) Wait(ctx context.Context, timeout time.Duration) (WaitResult, error) {
	ms := uint32(windows.INFINITE)
	if timeout >= 0 {
		ms = uint32(timeout / time.Millisecond)
	}

	done := ctx.Done()
	if done == nil {
		r, err := windows.WaitForSingleObject(e.h, ms)
		return classifyWait(r, err)
	}

	// Race the host wait against context cancellation, which the caller
	// uses to plumb pending-signal delivery into a blocking wait.
	type result struct {
		r   uint32
		err error
	}
	ch := make(chan result, 1)
	go func() {
		r, err := windows.WaitForSingleObject(e.h, ms)
		ch <- result{r, err}
	}()

	select {
	case res := <-ch:
		return classifyWait(res.r, res.err)
	case <-done:
		return WaitInterrupted, nil
	}
}

func classifyWait(r uint32, err error) (WaitResult, error) {
	switch r {
	case windows.WAIT_OBJECT_0:
		return WaitSignaled, nil
	case uint32(windows.WAIT_TIMEOUT):
		return WaitTimeout, nil
	default:
		return WaitTimeout, err
	}
}

func (e *winEvent) Close() error {
	return windows.CloseHandle(e.h)
}
