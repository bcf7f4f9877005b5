// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cond

import "time"

import "v.io/x/lib/nsync"

import "v.io/x/conc/timeout"

// An Event is a wait queue that uses the mutex of a Conditional.  The zero
// Event is valid and empty.  An Event is bound to the Conditional of its
// first wait; using it with any other Conditional panics.
//
// All methods require the Conditional's mutex to be held.  The wait calls
// take the Conditional as an argument as a reminder that they release and
// re-acquire it.
type Event struct {
	c     *Conditional
	cv    nsync.CV
	waits int // goroutines inside a wait call, woken or not; under c
}

func (e *Event) bind(c *Conditional) {
	if e.c == nil {
		e.c = c
	} else if e.c != c {
		panic("multiple conditionals used with cond.Event")
	}
}

// Wait atomically releases c and parks the caller until the Event is
// signalled, then re-acquires c.
func (e *Event) Wait(c *Conditional) {
	e.WaitUntil(c, timeout.NoDeadline)
}

// WaitUntil is Wait with an absolute deadline.  It returns true if the
// caller was signalled and false if the deadline passed first.  A wakeup
// that races with the deadline is reported, never dropped.
func (e *Event) WaitUntil(c *Conditional, deadline time.Time) bool {
	c.AssertHeld()
	e.bind(c)
	if timeout.Expired(deadline) {
		return false
	}
	e.waits++
	outcome := e.cv.WaitWithDeadline(&c.mu, deadline, nil)
	e.waits--
	return outcome == nsync.OK
}

// WaitFor is WaitUntil with a relative timeout.
func (e *Event) WaitFor(c *Conditional, d time.Duration) bool {
	return e.WaitUntil(c, timeout.Deadline(d))
}

// Signal wakes the longest-parked waiter, if any, and reports whether any
// goroutine was waiting.
func (e *Event) Signal() bool {
	if e.waits == 0 {
		return false
	}
	e.c.AssertHeld()
	e.cv.Signal()
	return true
}

// Broadcast wakes every waiter and returns how many goroutines were
// waiting.
func (e *Event) Broadcast() int {
	if e.waits == 0 {
		return 0
	}
	e.c.AssertHeld()
	e.cv.Broadcast()
	return e.waits
}

// Waiters returns the number of goroutines waiting on the Event.  A waiter
// that has been woken counts until it has re-acquired the Conditional.
func (e *Event) Waiters() int {
	return e.waits
}
