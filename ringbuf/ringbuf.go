// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ringbuf provides a blocking ring buffer of fixed-size records.
//
// Records are copied in by Put, but read in place: Get returns the oldest
// record's slot without removing it, and the consumer calls Release once it
// is done with the record, which frees the slot for producers.
//
//	rec, ok := b.Get(timeout.Inf)
//	if ok {
//		defer b.Release()
//		process(rec)
//	}
//
// Every successful Get must be followed by a Release, on every path, or the
// buffer stalls.  A Buffer has any number of producers but one consumer at a
// time.
package ringbuf

import "time"

import "v.io/x/conc/internal/cond"
import "v.io/x/conc/timeout"

// A Buffer holds up to Size records of ElemSize bytes each.
type Buffer struct {
	c        cond.Conditional
	notEmpty cond.Event
	notFull  cond.Event
	data     []byte
	elemSize int
	size     int
	head     int // slot of the oldest record
	tail     int // slot the next record goes in
	count    int
	gotten   bool // the head record has been returned by Get
}

// New returns an empty Buffer of capacity records of elemSize bytes.
func New(elemSize, capacity int) *Buffer {
	if elemSize < 1 || capacity < 1 {
		panic("ringbuf.New with a non-positive size")
	}
	return &Buffer{
		data:     make([]byte, elemSize*capacity),
		elemSize: elemSize,
		size:     capacity,
	}
}

func (b *Buffer) slot(i int) []byte {
	off := i * b.elemSize
	return b.data[off : off+b.elemSize : off+b.elemSize]
}

// Put copies data into the buffer as a new record, waiting up to d while
// the buffer is full.  A record is always ElemSize bytes: shorter data is
// padded with zeroes and longer data is cut short.  Put returns false if d
// expired first.
func (b *Buffer) Put(data []byte, d time.Duration) bool {
	deadline := timeout.Deadline(d)
	b.c.Lock()
	defer b.c.Unlock()
	for b.count == b.size {
		if !b.notFull.WaitUntil(&b.c, deadline) && b.count == b.size {
			return false
		}
	}
	s := b.slot(b.tail)
	n := copy(s, data)
	clear(s[n:])
	b.tail++
	if b.tail == b.size {
		b.tail = 0
	}
	b.count++
	b.notEmpty.Signal()
	return true
}

// Get returns the oldest record, waiting up to d while the buffer is
// empty.  The record is not removed: it stays in the buffer, and the
// returned slice stays valid, until Release.  Get returns false if d
// expired first.
func (b *Buffer) Get(d time.Duration) ([]byte, bool) {
	deadline := timeout.Deadline(d)
	b.c.Lock()
	defer b.c.Unlock()
	for b.count == 0 {
		if !b.notEmpty.WaitUntil(&b.c, deadline) && b.count == 0 {
			return nil, false
		}
	}
	b.gotten = true
	return b.slot(b.head), true
}

// Release removes the record returned by Get.
func (b *Buffer) Release() {
	b.c.Lock()
	defer b.c.Unlock()
	if !b.gotten {
		panic("ringbuf.Buffer.Release without a record from Get")
	}
	b.gotten = false
	b.head++
	if b.head == b.size {
		b.head = 0
	}
	b.count--
	b.notFull.Signal()
}

// Count returns the number of records in the buffer.
func (b *Buffer) Count() int {
	b.c.Lock()
	defer b.c.Unlock()
	return b.count
}

// Empty returns whether the buffer holds no records.
func (b *Buffer) Empty() bool {
	return b.Count() == 0
}

// Size returns the number of records the buffer holds when full.
func (b *Buffer) Size() int {
	return b.size
}

// ElemSize returns the size of a record in bytes.
func (b *Buffer) ElemSize() int {
	return b.elemSize
}
