// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lock

import "sync"
import "sync/atomic"

import "v.io/x/conc/internal/cond"

// A Step is a lock entered in steps from a parent lock shared with other
// Steps.  A goroutine takes the parent with Lock to do work that needs
// every Step excluded, then steps down with Access to the Step's own lock,
// handing the parent back to the other Steps while keeping this one.
//
//	s.Lock()   // parent held
//	prepare()
//	s.Access() // own lock held, parent released
//	finish()
//	s.Release()
type Step struct {
	parent  sync.Locker
	c       cond.Conditional
	stepper atomic.Int64 // goroutine holding parent through this Step, or 0
}

// NewStep returns a Step descending from parent.
func NewStep(parent sync.Locker) *Step {
	return &Step{parent: parent}
}

// Lock acquires the parent lock.
func (s *Step) Lock() {
	s.parent.Lock()
	s.stepper.Store(cond.GoroutineID())
}

// Access acquires the Step's own lock and, if the caller holds the parent
// through this Step, releases the parent.
func (s *Step) Access() {
	s.c.Lock()
	if s.stepper.CompareAndSwap(cond.GoroutineID(), 0) {
		s.parent.Unlock()
	}
}

// Release releases the parent if the caller holds it through this Step, and
// the Step's own lock otherwise.
func (s *Step) Release() {
	if s.stepper.CompareAndSwap(cond.GoroutineID(), 0) {
		s.parent.Unlock()
		return
	}
	s.c.Unlock()
}
