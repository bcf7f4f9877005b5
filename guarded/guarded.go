// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package guarded provides pointers that one goroutine can replace while
// others are using what they point to.
//
// A Locked holds a reference-counted object: readers take their own
// reference to the current object, so a replacement never disposes of an
// object still in use.  A Shared holds a plain value behind a convertible
// lock: readers share the lock for as long as they use the value, and a
// replacement waits for them to finish before it disposes of the old value.
package guarded

import (
	"io"
	"sync"

	"v.io/x/conc/lock"
	"v.io/x/conc/ref"
	"v.io/x/lib/vlog"
)

// A Locked is a replaceable pointer to a reference-counted object.  The
// zero value points to nothing.
type Locked[T any] struct {
	mu  sync.Mutex
	obj *ref.Object[T]
}

// Replace makes l point to obj, which may be nil, and drops l's reference
// to the object it pointed to before.  l takes a reference of its own to
// obj; the caller keeps its reference.
func (l *Locked[T]) Replace(obj *ref.Object[T]) {
	if obj != nil {
		obj.Retain()
	}
	l.mu.Lock()
	old := l.obj
	l.obj = obj
	l.mu.Unlock()
	if old != nil {
		old.Release()
	}
}

// Dup returns a new reference to the current object, or nil if l points
// to nothing.  The caller must release the reference.
func (l *Locked[T]) Dup() *ref.Object[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.obj == nil {
		return nil
	}
	return l.obj.Retain()
}

// Instance returns a scoped reference to the current object.
func (l *Locked[T]) Instance() *Instance[T] {
	return &Instance[T]{obj: l.Dup()}
}

// An Instance is a reference to the object a Locked pointed to when the
// Instance was made.  The object stays valid until Release, whatever
// happens to the Locked meanwhile.
type Instance[T any] struct {
	obj  *ref.Object[T]
	once sync.Once
}

// Get returns the value of the referenced object, or the zero value if the
// Locked pointed to nothing.
func (i *Instance[T]) Get() T {
	if i.obj == nil {
		var zero T
		return zero
	}
	return i.obj.Get()
}

// Valid returns whether the Instance references an object.
func (i *Instance[T]) Valid() bool {
	return i.obj != nil
}

// Release drops the reference.  Calls after the first do nothing.
func (i *Instance[T]) Release() {
	i.once.Do(func() {
		if i.obj != nil {
			i.obj.Release()
		}
	})
}

// A Committer is notified when it is installed in a Shared.
type Committer interface {
	// Commit is called by Shared.Replace after the value is installed,
	// before any reader can see it.
	Commit()
}

// A Shared holds a value that readers use in place.  A value that is an
// io.Closer is closed when it is replaced, once no reader is using it.  The
// zero value holds the zero value of T, which is never closed.
type Shared[T any] struct {
	l   lock.Convertible
	v   T
	set bool
}

// NewShared returns a Shared holding v.
func NewShared[T any](v T) *Shared[T] {
	s := &Shared[T]{}
	s.Replace(v)
	return s
}

// Replace installs v, waiting for every View of the current value to be
// released.  The current value is closed if it is an io.Closer, and v is
// committed if it is a Committer, both before any new View can be taken.
func (s *Shared[T]) Replace(v T) {
	s.l.Modify()
	defer s.l.Commit()
	s.dispose()
	s.v = v
	s.set = true
	if c, ok := any(v).(Committer); ok {
		c.Commit()
	}
}

// Close disposes of the current value as Replace would, leaving s holding
// the zero value.
func (s *Shared[T]) Close() error {
	s.l.Modify()
	defer s.l.Commit()
	err := s.dispose()
	var zero T
	s.v = zero
	s.set = false
	return err
}

// dispose closes the current value.  Called under exclusive access.
func (s *Shared[T]) dispose() error {
	if !s.set {
		return nil
	}
	c, ok := any(s.v).(io.Closer)
	if !ok {
		return nil
	}
	err := c.Close()
	if err != nil {
		vlog.Errorf("guarded: closing replaced value: %v", err)
	}
	return err
}

// Share returns a View of the current value.  The value cannot be replaced
// until the View is released.
func (s *Shared[T]) Share() *View[T] {
	s.l.Access()
	return &View[T]{s: s}
}

// Load returns the current value.  Unlike a View it does not keep the value
// from being replaced, and closed, while the caller uses it.
func (s *Shared[T]) Load() T {
	s.l.Access()
	defer s.l.Release()
	return s.v
}

// A View is shared access to the value of a Shared.
type View[T any] struct {
	s    *Shared[T]
	once sync.Once
}

// Get returns the value.  It must not be called after Release.
func (v *View[T]) Get() T {
	return v.s.v
}

// Release ends the View.  Calls after the first do nothing.
func (v *View[T]) Release() {
	v.once.Do(v.s.l.Release)
}
