// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package event provides an event that goroutines wait for against a
// deadline set in advance.
package event

import "time"

import "v.io/x/conc/internal/cond"
import "v.io/x/conc/timeout"

// A Timed is an auto-reset event with a deadline.  Signal sets the event;
// a wait that finds it set clears it and succeeds, and a wait that finds it
// clear blocks until it is set or the deadline passes.  A Signal with no
// goroutine waiting is kept for the next wait.
//
// The deadline is armed once, by New or Arm, and holds for every wait until
// it is armed again, so a goroutine that waits repeatedly cannot extend its
// total wait.
type Timed struct {
	c         cond.Conditional
	deadline  time.Time
	signalled bool
}

// New returns a clear Timed armed to expire after d.
func New(d time.Duration) *Timed {
	return &Timed{deadline: timeout.Deadline(d)}
}

// Arm sets the deadline to d from now.
func (e *Timed) Arm(d time.Duration) {
	deadline := timeout.Deadline(d)
	e.c.Lock()
	e.deadline = deadline
	e.c.Unlock()
}

// Signal sets the event, waking one waiter.
func (e *Timed) Signal() {
	e.c.Lock()
	e.signalled = true
	e.c.Signal()
	e.c.Unlock()
}

// Wait waits for the event, and returns true if it was set before the
// deadline passed.
func (e *Timed) Wait() bool {
	e.c.Lock()
	defer e.c.Unlock()
	return e.wait()
}

// Lock locks the event's mutex, which Expire waits on.  Callers may use it
// to guard state that goes with the event.
func (e *Timed) Lock() {
	e.c.Lock()
}

// Unlock unlocks the event's mutex.
func (e *Timed) Unlock() {
	e.c.Unlock()
}

// Expire is Wait for a caller that holds the event's mutex, which is
// released while waiting.  It returns true if the deadline passed without
// the event being set.
func (e *Timed) Expire() bool {
	return !e.wait()
}

func (e *Timed) wait() bool {
	for !e.signalled {
		if !e.c.WaitUntil(e.deadline) && !e.signalled {
			return false
		}
	}
	e.signalled = false
	return true
}
