// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ref provides reference-counted handles, for values that must be
// disposed of once, when the last goroutine using them is done.
package ref

import "sync/atomic"

// An Object holds a value and a count of the references to it.  New returns
// an Object holding one reference; each Retain adds one and each Release
// drops one.  The release that drops the last reference calls the
// Object's onLast function, after which the Object must not be used.
type Object[T any] struct {
	v      T
	refs   atomic.Int64
	onLast func(T)
}

// New returns an Object holding v with one reference.  onLast, which may be
// nil, is called with v when the last reference is released.
func New[T any](v T, onLast func(T)) *Object[T] {
	o := &Object[T]{v: v, onLast: onLast}
	o.refs.Store(1)
	return o
}

// Retain adds a reference and returns o.  Retaining an Object whose last
// reference has been released panics.
func (o *Object[T]) Retain() *Object[T] {
	for {
		n := o.refs.Load()
		if n <= 0 {
			panic("ref.Object retained after its last release")
		}
		if o.refs.CompareAndSwap(n, n+1) {
			return o
		}
	}
}

// Release drops a reference, and reports whether it was the last one.
func (o *Object[T]) Release() bool {
	switch n := o.refs.Add(-1); {
	case n > 0:
		return false
	case n < 0:
		panic("ref.Object released more times than retained")
	}
	if o.onLast != nil {
		o.onLast(o.v)
	}
	return true
}

// Get returns the value held by o.
func (o *Object[T]) Get() T {
	return o.v
}

// Refs returns the number of references held.
func (o *Object[T]) Refs() int {
	return int(o.refs.Load())
}
