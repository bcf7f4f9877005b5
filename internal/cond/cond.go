// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cond provides the Conditional, the single wait/notify primitive
// from which every lock, barrier, semaphore, pool and container in this
// module is built.
//
// A Conditional pairs one nsync.Mu with one nsync.CV.  Components that need
// to wake different classes of goroutine separately (readers and writers,
// producers and consumers) attach further Events to the same Conditional;
// the lock stays single, so a component's counters are always inspected and
// changed under exactly one mutex.
//
// As with all Mesa-style condition variables, waits must be used in a loop
// that re-tests the predicate after every wakeup:
//
//	c.Lock()
//	deadline := timeout.Deadline(d)
//	for !predicate && c.WaitUntil(deadline) {
//	}
//	ok := predicate
//	c.Unlock()
//
// No ordering is promised among waiters; fairness is the business of the
// component's own counters.
package cond

import "time"

import "v.io/x/lib/nsync"

import "v.io/x/conc/timeout"

// A Conditional is a mutex and a wait queue.  Its zero value is unlocked and
// has no waiters.  A Conditional must not be copied after first use.
type Conditional struct {
	mu    nsync.Mu
	queue Event
}

// Lock acquires the Conditional's mutex.
func (c *Conditional) Lock() {
	c.mu.Lock()
}

// Unlock releases the Conditional's mutex.  It panics if the mutex is free.
func (c *Conditional) Unlock() {
	c.mu.Unlock()
}

// AssertHeld panics if the Conditional's mutex is not held.
func (c *Conditional) AssertHeld() {
	c.mu.AssertHeld()
}

// Wait atomically releases the mutex and parks the caller until it is
// signalled, then re-acquires the mutex.
func (c *Conditional) Wait() {
	c.queue.Wait(c)
}

// WaitUntil is Wait with an absolute deadline.  It returns false if the
// deadline passed without the caller being signalled; a deadline that has
// already passed returns false at once, without releasing the mutex.
func (c *Conditional) WaitUntil(deadline time.Time) bool {
	return c.queue.WaitUntil(c, deadline)
}

// WaitFor is WaitUntil with a relative timeout.  The timeout is converted
// into a deadline on entry; loops should convert once and call WaitUntil.
func (c *Conditional) WaitFor(d time.Duration) bool {
	return c.queue.WaitUntil(c, timeout.Deadline(d))
}

// Signal wakes one waiter, if there is one, and reports whether any
// goroutine was waiting.  The mutex must be held.
func (c *Conditional) Signal() bool {
	c.AssertHeld()
	return c.queue.Signal()
}

// Broadcast wakes every waiter and returns how many goroutines were
// waiting.  The mutex must be held.
func (c *Conditional) Broadcast() int {
	c.AssertHeld()
	return c.queue.Broadcast()
}

// Waiters returns the number of goroutines waiting on the default queue.
// The mutex must be held.
func (c *Conditional) Waiters() int {
	return c.queue.waits
}
