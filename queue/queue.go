// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package queue provides bounded, blocking containers for handing values
// between goroutines: a Queue, which can be drained from either end, and a
// Stack.
//
// A container of capacity 0 is unbounded.  Otherwise a producer blocks while
// the container is full and a consumer blocks while it is empty, each for no
// longer than the timeout it passes.  The Try variants never block.
//
// Containers recycle their nodes through a freelist, and can draw new nodes
// from a Pager instead of allocating them one by one.  Neither bounds the
// number of values held; only the capacity does.
package queue

import "time"

import "v.io/x/conc/internal/cond"
import "v.io/x/conc/timeout"

// container is the state shared by Queue and Stack.
type container[T comparable] struct {
	c        cond.Conditional
	notEmpty cond.Event // consumers
	notFull  cond.Event // producers
	items    list[T]
	nodes    nodes[T]
	capacity int
}

func (q *container[T]) init(capacity int, pager *Pager[T]) {
	if capacity < 0 {
		panic("queue: negative capacity")
	}
	q.items.init()
	q.capacity = capacity
	q.nodes.pager = pager
}

// put adds v at the front or back of the list.
func (q *container[T]) put(v T, d time.Duration, front bool) bool {
	deadline := timeout.Deadline(d)
	q.c.Lock()
	defer q.c.Unlock()
	for q.full() {
		if !q.notFull.WaitUntil(&q.c, deadline) && q.full() {
			return false
		}
	}
	n := q.nodes.get(v)
	if front {
		q.items.pushFront(n)
	} else {
		q.items.pushBack(n)
	}
	q.notEmpty.Signal()
	return true
}

// take removes a value from the front or back of the list.
func (q *container[T]) take(d time.Duration, back bool) (T, bool) {
	deadline := timeout.Deadline(d)
	q.c.Lock()
	defer q.c.Unlock()
	for q.items.n == 0 {
		if !q.notEmpty.WaitUntil(&q.c, deadline) && q.items.n == 0 {
			var zero T
			return zero, false
		}
	}
	n := q.items.front()
	if back {
		n = q.items.back()
	}
	v := n.v
	q.unlink(n)
	return v, true
}

// remove cancels the value nearest the front equal to v.
func (q *container[T]) remove(v T) bool {
	q.c.Lock()
	defer q.c.Unlock()
	for n := q.items.front(); n != &q.items.root; n = n.next {
		if n.v == v {
			q.unlink(n)
			return true
		}
	}
	return false
}

// unlink removes n from the list, recycles it and admits a producer.
// Called with q.c held.
func (q *container[T]) unlink(n *node[T]) {
	q.items.remove(n)
	q.nodes.put(n)
	q.notFull.Signal()
}

func (q *container[T]) full() bool {
	return q.capacity > 0 && q.items.n >= q.capacity
}

func (q *container[T]) count() int {
	q.c.Lock()
	defer q.c.Unlock()
	return q.items.n
}

func (q *container[T]) free() int {
	q.c.Lock()
	defer q.c.Unlock()
	return q.nodes.nfree
}

// A Queue holds values in the order they were posted.  Consumers take the
// oldest value with FIFO or the newest with LIFO.
type Queue[T comparable] struct {
	q container[T]
}

// New returns an empty Queue holding up to capacity values, or any number
// if capacity is 0.  If pager is not nil, nodes the Queue cannot recycle
// are allocated from it.
func New[T comparable](capacity int, pager *Pager[T]) *Queue[T] {
	q := &Queue[T]{}
	q.q.init(capacity, pager)
	return q
}

// Post appends v, waiting up to d while the Queue is full.  It returns false
// if d expired first.
func (q *Queue[T]) Post(v T, d time.Duration) bool {
	return q.q.put(v, d, false)
}

// TryPost is Post without waiting.
func (q *Queue[T]) TryPost(v T) bool {
	return q.q.put(v, timeout.Immediate, false)
}

// FIFO removes and returns the oldest value, waiting up to d while the
// Queue is empty.  It returns false if d expired first.
func (q *Queue[T]) FIFO(d time.Duration) (T, bool) {
	return q.q.take(d, false)
}

// TryFIFO is FIFO without waiting.
func (q *Queue[T]) TryFIFO() (T, bool) {
	return q.q.take(timeout.Immediate, false)
}

// LIFO removes and returns the newest value, waiting up to d while the
// Queue is empty.  It returns false if d expired first.
func (q *Queue[T]) LIFO(d time.Duration) (T, bool) {
	return q.q.take(d, true)
}

// Remove removes the oldest value equal to v before it is taken, and
// reports whether there was one.
func (q *Queue[T]) Remove(v T) bool {
	return q.q.remove(v)
}

// Count returns the number of values in the Queue.
func (q *Queue[T]) Count() int {
	return q.q.count()
}

// Capacity returns the most values the Queue holds, 0 if unbounded.
func (q *Queue[T]) Capacity() int {
	return q.q.capacity
}

// Free returns the number of nodes waiting for reuse.
func (q *Queue[T]) Free() int {
	return q.q.free()
}

// A Stack holds values to be taken newest first.
type Stack[T comparable] struct {
	q container[T]
}

// NewStack returns an empty Stack, with capacity and pager as for New.
func NewStack[T comparable](capacity int, pager *Pager[T]) *Stack[T] {
	s := &Stack[T]{}
	s.q.init(capacity, pager)
	return s
}

// Push adds v on top, waiting up to d while the Stack is full.  It returns
// false if d expired first.
func (s *Stack[T]) Push(v T, d time.Duration) bool {
	return s.q.put(v, d, true)
}

// TryPush is Push without waiting.
func (s *Stack[T]) TryPush(v T) bool {
	return s.q.put(v, timeout.Immediate, true)
}

// Pull removes and returns the top value, waiting up to d while the Stack
// is empty.  It returns false if d expired first.
func (s *Stack[T]) Pull(d time.Duration) (T, bool) {
	return s.q.take(d, false)
}

// TryPull is Pull without waiting.
func (s *Stack[T]) TryPull() (T, bool) {
	return s.q.take(timeout.Immediate, false)
}

// Remove removes the topmost value equal to v, and reports whether there
// was one.
func (s *Stack[T]) Remove(v T) bool {
	return s.q.remove(v)
}

// Count returns the number of values on the Stack.
func (s *Stack[T]) Count() int {
	return s.q.count()
}

// Capacity returns the most values the Stack holds, 0 if unbounded.
func (s *Stack[T]) Capacity() int {
	return s.q.capacity
}
