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

//go:build !windows

package hostnet

import (
	"context"
	"time"
)

// chanEvent is a portable stand-in for winEvent, backed by a single-slot
// channel: signal fills the slot and the Wait that observes it consumes
// it, so the event resets as it is waited on.
type chanEvent struct {
	ch     chan struct{}
	closed chan struct{}
}

func newChanEvent() *chanEvent {
	return &chanEvent{ch: make(chan struct{}, 1), closed: make(chan struct{})}
}

func (e *chanEvent) signal() {
	select {
	case e.ch <- struct{}{}:
	default:
	}
}

func (e *chanEvent) Wait(ctx context.Context, timeout time.Duration) (WaitResult, error) {
	var timer *time.Timer
	var timeoutCh <-chan time.Time
	if timeout >= 0 {
		timer = time.NewTimer(timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	select {
	case <-e.ch:
		return WaitSignaled, nil
	case <-timeoutCh:
		return WaitTimeout, nil
	case <-e.closed:
		return WaitTimeout, nil
	case <-ctx.Done():
		return WaitInterrupted, nil
	}
}

func (e *chanEvent) Close() error {
	close(e.closed)
	return nil
}
