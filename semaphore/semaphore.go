// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package semaphore provides a counting semaphore whose limit can be changed
// while it is in use, and whose requests may take several units at once and
// give up after a timeout.
package semaphore

import "time"

import "v.io/x/conc/internal/cond"
import "v.io/x/conc/timeout"

// A Semaphore hands out up to Limit units.  A request for n units blocks
// until n units are free.
type Semaphore struct {
	c       cond.Conditional
	limit   int
	used    int
	waiting int
}

// New returns a Semaphore with limit units, all free.
func New(limit int) *Semaphore {
	if limit < 0 {
		panic("semaphore.New with a negative limit")
	}
	return &Semaphore{limit: limit}
}

// Request takes n units, waiting up to d for them to become free.  It
// returns false, having taken nothing, if d expired first.
//
// Waiters are not served in order: every release wakes all of them and each
// re-checks whether its own request fits, so a large request never holds
// back a smaller one that could proceed.
func (s *Semaphore) Request(n int, d time.Duration) bool {
	if n <= 0 {
		panic("semaphore.Semaphore.Request of a non-positive count")
	}
	deadline := timeout.Deadline(d)
	s.c.Lock()
	defer s.c.Unlock()
	for s.used+n > s.limit {
		s.waiting++
		ok := s.c.WaitUntil(deadline)
		s.waiting--
		if !ok && s.used+n > s.limit {
			return false
		}
	}
	s.used += n
	return true
}

// Acquire takes one unit, waiting as long as it takes.
func (s *Semaphore) Acquire() {
	s.Request(1, timeout.Inf)
}

// Wait takes one unit, waiting up to d.  It returns false if d expired
// first.
func (s *Semaphore) Wait(d time.Duration) bool {
	return s.Request(1, d)
}

// Release returns n units, which must be positive.  Releasing more units
// than are in use leaves none in use.
func (s *Semaphore) Release(n int) {
	if n <= 0 {
		panic("semaphore.Semaphore.Release of a non-positive count")
	}
	s.c.Lock()
	s.used -= n
	if s.used < 0 {
		s.used = 0
	}
	if s.waiting > 0 {
		s.c.Broadcast()
	}
	s.c.Unlock()
}

// Set changes the limit.  Raising it wakes the waiters to claim the new
// units.  Lowering it below the units in use takes effect as they are
// released: no new request succeeds until Used falls below the new limit.
func (s *Semaphore) Set(limit int) {
	if limit < 0 {
		panic("semaphore.Semaphore.Set with a negative limit")
	}
	s.c.Lock()
	s.limit = limit
	if s.used < s.limit && s.waiting > 0 {
		s.c.Broadcast()
	}
	s.c.Unlock()
}

// Limit returns the number of units the Semaphore hands out.
func (s *Semaphore) Limit() int {
	s.c.Lock()
	defer s.c.Unlock()
	return s.limit
}

// Used returns the number of units taken.
func (s *Semaphore) Used() int {
	s.c.Lock()
	defer s.c.Unlock()
	return s.used
}

// Waiting returns the number of goroutines blocked in Request.
func (s *Semaphore) Waiting() int {
	s.c.Lock()
	defer s.c.Unlock()
	return s.waiting
}
