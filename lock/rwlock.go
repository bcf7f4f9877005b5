// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lock

import "time"

import "v.io/x/conc/internal/cond"
import "v.io/x/conc/timeout"

// An RW is a reader/writer lock with timed acquisition.  The zero value is
// unlocked.
//
// Writers are preferred: once a writer is waiting for the lock, new readers
// wait behind it, so a continuous stream of readers cannot starve writers.
// The goroutine that holds the write lock may take it again without
// blocking; it must release it once per acquisition.
//
// Readers and writers wait on separate queues of the same Conditional.  When
// the write lock is released by its last hold, one pending writer is woken
// if there is one, and otherwise every waiting reader is woken together.
type RW struct {
	c       cond.Conditional
	readQ   cond.Event // readers blocked behind a writer
	writeQ  cond.Event // pending writers
	readers int        // active readers
	writers int        // depth of the write hold
	writer  int64      // goroutine holding the write lock, if writers > 0
	pending int        // writers waiting in Modify
	waiting int        // readers waiting in Access
}

// Modify acquires the write lock, waiting up to d for the active readers and
// any other writer to leave.  It returns false if d expired first.
func (l *RW) Modify(d time.Duration) bool {
	self := cond.GoroutineID()
	deadline := timeout.Deadline(d)
	ok := true
	l.c.Lock()
	for ok && (l.writers > 0 || l.readers > 0) {
		if l.writers > 0 && l.writer == self {
			break
		}
		l.pending++
		ok = l.writeQ.WaitUntil(&l.c, deadline)
		l.pending--
	}
	if ok {
		if l.writers == 0 {
			l.writer = self
		}
		l.writers++
	} else if l.pending == 0 && l.writers == 0 && l.waiting > 0 {
		// This writer was holding readers back; let them in.
		l.readQ.Broadcast()
	}
	l.c.Unlock()
	return ok
}

// Access acquires a read lock, waiting up to d while a writer holds the lock
// or is waiting for it.  It returns false if d expired first.
func (l *RW) Access(d time.Duration) bool {
	deadline := timeout.Deadline(d)
	ok := true
	l.c.Lock()
	for ok && (l.writers > 0 || l.pending > 0) {
		l.waiting++
		ok = l.readQ.WaitUntil(&l.c, deadline)
		l.waiting--
	}
	if ok {
		l.readers++
	}
	l.c.Unlock()
	return ok
}

// Release releases one hold of the lock, read or write.
func (l *RW) Release() {
	l.c.Lock()
	defer l.c.Unlock()
	switch {
	case l.writers > 0:
		if l.writer != cond.GoroutineID() {
			panic("lock.RW write lock released by a goroutine that does not hold it")
		}
		l.writers--
		if l.writers > 0 {
			return
		}
		if l.pending > 0 {
			l.writeQ.Signal()
		} else if l.waiting > 0 {
			l.readQ.Broadcast()
		}
	case l.readers > 0:
		l.readers--
		if l.pending == 0 {
			if l.waiting > 0 {
				l.readQ.Broadcast()
			}
		} else if l.readers == 0 {
			l.writeQ.Signal()
		}
	default:
		panic("attempt to Release a free lock.RW")
	}
}

// Lock is Modify(timeout.Inf); with Unlock it makes an RW a sync.Locker.
func (l *RW) Lock() {
	l.Modify(timeout.Inf)
}

// Unlock is Release.
func (l *RW) Unlock() {
	l.Release()
}

// RLock is Access(timeout.Inf).
func (l *RW) RLock() {
	l.Access(timeout.Inf)
}

// RUnlock is Release.
func (l *RW) RUnlock() {
	l.Release()
}

// Write acquires the write lock as Modify does.  On success it returns a
// function that releases it; the function may be called more than once.
func (l *RW) Write(d time.Duration) (release func(), ok bool) {
	if !l.Modify(d) {
		return func() {}, false
	}
	return once(l.Release), true
}

// Read acquires a read lock as Access does, returning a release function as
// Write does.
func (l *RW) Read(d time.Duration) (release func(), ok bool) {
	if !l.Access(d) {
		return func() {}, false
	}
	return once(l.Release), true
}

// Readers returns the number of goroutines holding read locks.
func (l *RW) Readers() int {
	l.c.Lock()
	defer l.c.Unlock()
	return l.readers
}

// Writers returns the depth of the write hold, 0 if no writer holds the lock.
func (l *RW) Writers() int {
	l.c.Lock()
	defer l.c.Unlock()
	return l.writers
}

// Pending returns the number of writers waiting for the lock.
func (l *RW) Pending() int {
	l.c.Lock()
	defer l.c.Unlock()
	return l.pending
}

// Waiting returns the number of goroutines, readers and writers, waiting for
// the lock.
func (l *RW) Waiting() int {
	l.c.Lock()
	defer l.c.Unlock()
	return l.waiting + l.pending
}
