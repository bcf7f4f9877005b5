// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lock

import "v.io/x/conc/internal/cond"

// A Recursive is a reentrant exclusive lock: the goroutine that holds it may
// lock it again without blocking, and must release it once per Lock.  The
// zero value is unlocked.
//
// Ownership belongs to a goroutine.  Releasing a Recursive from any other
// goroutine than the one that locked it panics.
type Recursive struct {
	c       cond.Conditional
	owner   int64 // goroutine id; meaningful only while depth > 0
	depth   int
	waiting int
}

// Lock acquires r, or deepens the hold if the caller already owns it.
func (r *Recursive) Lock() {
	self := cond.GoroutineID()
	r.c.Lock()
	for r.depth > 0 && r.owner != self {
		r.waiting++
		r.c.Wait()
		r.waiting--
	}
	r.owner = self
	r.depth++
	r.c.Unlock()
}

// Release undoes one Lock.  When the last hold is released one waiting
// goroutine, if any, is woken; only one of them could take the lock.
func (r *Recursive) Release() {
	self := cond.GoroutineID()
	r.c.Lock()
	if r.depth == 0 {
		r.c.Unlock()
		panic("attempt to Release a free lock.Recursive")
	}
	if r.owner != self {
		r.c.Unlock()
		panic("lock.Recursive released by a goroutine that does not own it")
	}
	r.depth--
	if r.depth == 0 && r.waiting > 0 {
		r.c.Signal()
	}
	r.c.Unlock()
}

// Unlock is Release; it lets a Recursive serve as a sync.Locker.
func (r *Recursive) Unlock() {
	r.Release()
}

// Locked acquires r and returns a function that releases it.  The function
// is safe to call more than once; only the first call releases.
func (r *Recursive) Locked() (release func()) {
	r.Lock()
	return once(r.Release)
}

// Locking returns the depth of the current hold, 0 if r is free.
func (r *Recursive) Locking() int {
	r.c.Lock()
	defer r.c.Unlock()
	return r.depth
}

// Waiting returns the number of goroutines blocked in Lock.
func (r *Recursive) Waiting() int {
	r.c.Lock()
	defer r.c.Unlock()
	return r.waiting
}

// Owned returns whether the calling goroutine holds r.
func (r *Recursive) Owned() bool {
	self := cond.GoroutineID()
	r.c.Lock()
	defer r.c.Unlock()
	return r.depth > 0 && r.owner == self
}
