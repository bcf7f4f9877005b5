// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package queue

import "v.io/x/lib/vlog"

// A node holds one value in a container.  While free, a node is linked
// through next alone, on its container's freelist.
type node[T any] struct {
	next *node[T]
	prev *node[T]
	v    T
}

// A list is a circular doubly-linked list of nodes around a sentinel.
type list[T any] struct {
	root node[T]
	n    int
}

func (l *list[T]) init() {
	l.root.next = &l.root
	l.root.prev = &l.root
}

func (l *list[T]) front() *node[T] { return l.root.next }
func (l *list[T]) back() *node[T]  { return l.root.prev }

// insertAfter links e after at.
func (l *list[T]) insertAfter(e, at *node[T]) {
	e.prev = at
	e.next = at.next
	at.next.prev = e
	at.next = e
	l.n++
}

func (l *list[T]) pushFront(e *node[T]) { l.insertAfter(e, &l.root) }
func (l *list[T]) pushBack(e *node[T])  { l.insertAfter(e, l.root.prev) }

func (l *list[T]) remove(e *node[T]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.next = nil
	e.prev = nil
	l.n--
}

// A Pager carves container nodes out of pages holding a fixed number of
// nodes each, so that a busy container allocates once per page rather than
// once per value.  A Pager belongs to the one container it is given to, and
// is used under that container's lock.
type Pager[T any] struct {
	size  int
	page  []node[T]
	pages int
}

// NewPager returns a Pager whose pages hold size nodes.
func NewPager[T any](size int) *Pager[T] {
	if size < 1 {
		panic("queue.NewPager with a page size below 1")
	}
	return &Pager[T]{size: size}
}

func (p *Pager[T]) alloc() *node[T] {
	if len(p.page) == 0 {
		p.page = make([]node[T], p.size)
		p.pages++
		vlog.VI(3).Infof("queue: pager page %d allocated, %d nodes", p.pages, p.size)
	}
	n := &p.page[0]
	p.page = p.page[1:]
	return n
}

// Pages returns the number of pages allocated.
func (p *Pager[T]) Pages() int {
	return p.pages
}

// nodes is the node source of a container: its freelist first, then its
// Pager if it has one, then the heap.
type nodes[T any] struct {
	free  *node[T]
	nfree int
	pager *Pager[T]
}

func (s *nodes[T]) get(v T) *node[T] {
	n := s.free
	switch {
	case n != nil:
		s.free = n.next
		s.nfree--
		n.next = nil
	case s.pager != nil:
		n = s.pager.alloc()
	default:
		n = new(node[T])
	}
	n.v = v
	return n
}

// put returns n to the freelist, dropping its value.
func (s *nodes[T]) put(n *node[T]) {
	var zero T
	n.v = zero
	n.next = s.free
	s.free = n
	s.nfree++
}
