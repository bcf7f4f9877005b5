// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lock

import "v.io/x/conc/internal/cond"

// A Convertible is a shared lock optimised for readers, whose shared holds
// can be converted to exclusive access in place and back again without being
// released.  The zero value is unlocked.
//
// Exclusive access is held through the lock's own mutex: between Exclusive
// (or Modify) and the matching Share (or Commit) the caller owns the mutex,
// and every other call on the lock, including the accessors, blocks.
//
// Usage, converting a read into a brief write:
//
//	l.Access()
//	if needsUpdate() {
//		l.Exclusive()
//		update()
//		l.Share()
//	}
//	l.Release()
type Convertible struct {
	c       cond.Conditional
	shareQ  cond.Event // goroutines waiting to share
	excQ    cond.Event // goroutines waiting to go exclusive
	sharing int
	pending int
	waiting int
}

// Access acquires shared access.  It waits while any goroutine is waiting
// to go exclusive, so converters are not starved.
func (l *Convertible) Access() {
	l.c.Lock()
	for l.pending > 0 {
		l.waiting++
		l.shareQ.Wait(&l.c)
		l.waiting--
	}
	l.sharing++
	l.c.Unlock()
}

// Protect acquires shared access without the protection against starving
// converters: it only waits when a conversion is pending and nobody shares
// the lock.  It is for code that may already share the lock further up the
// stack, where Access could deadlock behind a converter that is waiting for
// that very hold to be released.
func (l *Convertible) Protect() {
	l.c.Lock()
	for l.pending > 0 && l.sharing == 0 {
		l.waiting++
		l.shareQ.Wait(&l.c)
		l.waiting--
	}
	l.sharing++
	l.c.Unlock()
}

// Release releases one shared hold.
func (l *Convertible) Release() {
	l.c.Lock()
	if l.sharing == 0 {
		l.c.Unlock()
		panic("attempt to Release a free lock.Convertible")
	}
	l.sharing--
	l.wake()
	l.c.Unlock()
}

// Exclusive converts the caller's shared hold into exclusive access,
// waiting for the other sharers to release.  It returns with the lock's
// mutex held; Share converts back.
func (l *Convertible) Exclusive() {
	l.c.Lock()
	if l.sharing == 0 {
		l.c.Unlock()
		panic("lock.Convertible.Exclusive without a shared hold")
	}
	l.sharing--
	for l.sharing > 0 {
		l.pending++
		l.excQ.Wait(&l.c)
		l.pending--
	}
}

// Share returns from exclusive access to a shared hold.
func (l *Convertible) Share() {
	l.c.AssertHeld()
	if l.sharing != 0 {
		panic("lock.Convertible.Share outside exclusive access")
	}
	l.sharing = 1
	if l.pending == 0 && l.waiting > 0 {
		l.shareQ.Broadcast()
	}
	l.c.Unlock()
}

// Modify acquires exclusive access from an unshared state, waiting for all
// sharers to release.  Commit releases it.
func (l *Convertible) Modify() {
	l.c.Lock()
	for l.sharing > 0 {
		l.pending++
		l.excQ.Wait(&l.c)
		l.pending--
	}
}

// Commit releases exclusive access acquired by Modify.
func (l *Convertible) Commit() {
	l.c.AssertHeld()
	l.wake()
	l.c.Unlock()
}

// wake wakes one converter if the lock has no sharers, or otherwise every
// waiting sharer if no converter is waiting.
func (l *Convertible) wake() {
	if l.pending > 0 {
		if l.sharing == 0 {
			l.excQ.Signal()
		}
	} else if l.waiting > 0 {
		l.shareQ.Broadcast()
	}
}

// Reading acquires shared access and returns a function that releases it.
// The function may be called more than once.
func (l *Convertible) Reading() (release func()) {
	l.Access()
	return once(l.Release)
}

// Writing acquires exclusive access with Modify and returns a function that
// commits it.  The function may be called more than once.
func (l *Convertible) Writing() (commit func()) {
	l.Modify()
	return once(l.Commit)
}

// Readers returns the number of shared holds.
func (l *Convertible) Readers() int {
	l.c.Lock()
	defer l.c.Unlock()
	return l.sharing
}

// Waiters returns the number of goroutines waiting to share or to go
// exclusive.
func (l *Convertible) Waiters() int {
	l.c.Lock()
	defer l.c.Unlock()
	return l.pending + l.waiting
}
