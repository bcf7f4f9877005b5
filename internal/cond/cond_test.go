// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cond_test

import "sync"
import "testing"
import "time"

import "v.io/x/conc/internal/cond"
import "v.io/x/conc/timeout"

// A testData is the state shared between the threads in each of the tests below.
type testData struct {
	nThreads  int // Number of test threads; constant after init.
	loopCount int // Iteration count for each test thread; constant after init.

	c  cond.Conditional // Protects i, id, and finishedThreads.
	i  int              // Counter incremented by test loops.
	id int              // id of current lock-holding thread in some tests.

	done            cond.Event // Signalled when finishedThread==nThreads.
	finishedThreads int        // Count of threads that have finished.
}

// threadFinished() indicates that a thread has finished its operations on testData
// by incrementing td.finishedThreads, and broadcasting td.done when it reaches td.nThreads.
// We could use sync.WaitGroup here, but this code exercises cond more.
func (td *testData) threadFinished() {
	td.c.Lock()
	td.finishedThreads++
	if td.finishedThreads == td.nThreads {
		td.done.Broadcast()
	}
	td.c.Unlock()
}

// waitForAllThreads() waits until all td.nThreads have called threadFinished().
func (td *testData) waitForAllThreads() {
	td.c.Lock()
	for td.finishedThreads != td.nThreads {
		td.done.Wait(&td.c)
	}
	td.c.Unlock()
}

// countingLoop() is the body of each thread executed by TestConditionalNThread().
func countingLoop(td *testData, id int) {
	for i := 0; i != td.loopCount; i++ {
		td.c.Lock()
		td.id = id
		td.i++
		if td.id != id {
			panic("td.id != id")
		}
		td.c.Unlock()
	}
	td.threadFinished()
}

// TestConditionalNThread creates a few threads, each of which increment an
// integer a fixed number of times, using a Conditional for mutual exclusion.
func TestConditionalNThread(t *testing.T) {
	td := testData{nThreads: 5, loopCount: 100000}
	for i := 0; i != td.nThreads; i++ {
		go countingLoop(&td, i)
	}
	td.waitForAllThreads()
	if td.i != td.nThreads*td.loopCount {
		t.Fatalf("final count inconsistent: want %d, got %d", td.nThreads*td.loopCount, td.i)
	}
}

// ---------------------------

// A queue represents a FIFO queue with up to Limit elements, using one
// Conditional and two Events.
type queue struct {
	Limit    int
	c        cond.Conditional
	nonEmpty cond.Event
	nonFull  cond.Event
	data     []int
}

func (q *queue) Put(v int, d time.Duration) bool {
	deadline := timeout.Deadline(d)
	q.c.Lock()
	defer q.c.Unlock()
	for len(q.data) == q.Limit && q.nonFull.WaitUntil(&q.c, deadline) {
	}
	if len(q.data) == q.Limit {
		return false
	}
	q.data = append(q.data, v)
	q.nonEmpty.Signal()
	return true
}

func (q *queue) Get(d time.Duration) (int, bool) {
	deadline := timeout.Deadline(d)
	q.c.Lock()
	defer q.c.Unlock()
	for len(q.data) == 0 && q.nonEmpty.WaitUntil(&q.c, deadline) {
	}
	if len(q.data) == 0 {
		return 0, false
	}
	v := q.data[0]
	q.data = q.data[1:]
	q.nonFull.Signal()
	return v, true
}

// TestProducerConsumer sends a stream of integers from a producer thread to
// a consumer thread via queues of a few sizes.
func TestProducerConsumer(t *testing.T) {
	const n = 50000
	for _, limit := range []int{1, 10, 100} {
		q := &queue{Limit: limit}
		go func() {
			for i := 0; i != n; i++ {
				if !q.Put(i*3, timeout.Inf) {
					panic("queue.Put() returned false with no deadline")
				}
			}
		}()
		for i := 0; i != n; i++ {
			v, ok := q.Get(timeout.Inf)
			if !ok {
				t.Fatalf("limit %d: queue.Get() returned false with no deadline", limit)
			}
			if v != i*3 {
				t.Fatalf("limit %d: queue.Get() returned bad value; want %d, got %d", limit, i*3, v)
			}
		}
	}
}

// TestWaitTimeout checks that a wait with nobody to signal it times out
// close to its deadline, and that an expired deadline does not block.
func TestWaitTimeout(t *testing.T) {
	var c cond.Conditional
	c.Lock()
	start := time.Now()
	if c.WaitFor(50 * time.Millisecond) {
		t.Errorf("WaitFor() reported a signal nobody sent")
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("WaitFor() returned after %v, before its deadline", elapsed)
	}
	if c.WaitFor(timeout.Immediate) {
		t.Errorf("WaitFor(Immediate) reported a signal")
	}
	if got := c.Waiters(); got != 0 {
		t.Errorf("Waiters() after timeouts: got %d, want 0", got)
	}
	c.Unlock()
}

// TestSignalWakesOne checks that Signal wakes exactly one of several
// waiters and Broadcast wakes the rest.
func TestSignalWakesOne(t *testing.T) {
	var c cond.Conditional
	var woken int
	var wg sync.WaitGroup
	const n = 4
	for i := 0; i != n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Lock()
			c.Wait()
			woken++
			c.Unlock()
		}()
	}
	waitForWaiters(t, &c, n)
	c.Lock()
	if !c.Signal() {
		t.Errorf("Signal() found no waiter")
	}
	c.Unlock()
	waitForWaiters(t, &c, n-1)
	c.Lock()
	for woken != 1 {
		c.Unlock()
		time.Sleep(time.Millisecond)
		c.Lock()
	}
	if got := c.Broadcast(); got != n-1 {
		t.Errorf("Broadcast() woke %d, want %d", got, n-1)
	}
	c.Unlock()
	wg.Wait()
	if woken != n {
		t.Errorf("woken: got %d, want %d", woken, n)
	}
}

// TestSignalNotLostToTimeout races short timed waits against signals and
// checks that every signal is accounted for by some waiter.
func TestSignalNotLostToTimeout(t *testing.T) {
	var c cond.Conditional
	var tokens, consumed int
	const n = 2000
	done := make(chan struct{})
	go func() {
		c.Lock()
		for consumed != n {
			deadline := timeout.Deadline(time.Microsecond)
			for tokens == 0 && c.WaitUntil(deadline) {
			}
			if tokens != 0 {
				tokens--
				consumed++
			}
		}
		c.Unlock()
		close(done)
	}()
	for i := 0; i != n; i++ {
		c.Lock()
		tokens++
		c.Signal()
		c.Unlock()
	}
	<-done
}

func TestUnlockFreePanics(t *testing.T) {
	var c cond.Conditional
	defer func() {
		if recover() == nil {
			t.Errorf("Unlock() of a free Conditional did not panic")
		}
	}()
	c.Unlock()
}

func TestEventBoundToOneConditional(t *testing.T) {
	var c1, c2 cond.Conditional
	var e cond.Event
	c1.Lock()
	e.WaitFor(&c1, time.Millisecond)
	c1.Unlock()
	c2.Lock()
	defer c2.Unlock()
	defer func() {
		if recover() == nil {
			t.Errorf("Event used with a second Conditional did not panic")
		}
	}()
	e.WaitFor(&c2, time.Millisecond)
}

// TestPassedDeadline checks that a wait whose deadline has already passed
// returns at once, keeping the mutex.
func TestPassedDeadline(t *testing.T) {
	var c cond.Conditional
	c.Lock()
	start := time.Now()
	if c.WaitUntil(timeout.Deadline(timeout.Immediate)) {
		t.Errorf("WaitUntil(passed deadline) reported a wakeup")
	}
	c.AssertHeld()
	if c.Waiters() != 0 {
		t.Errorf("Waiters() after an immediate wait: got %d, want 0", c.Waiters())
	}
	c.Unlock()
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("WaitUntil(passed deadline) blocked for %v", elapsed)
	}
}

func TestGoroutineID(t *testing.T) {
	me := cond.GoroutineID()
	if me <= 0 || me != cond.GoroutineID() {
		t.Fatalf("GoroutineID() unstable or invalid: %d", me)
	}
	ch := make(chan int64)
	go func() { ch <- cond.GoroutineID() }()
	if other := <-ch; other == me {
		t.Errorf("two goroutines share id %d", me)
	}
}

// waitForWaiters polls until exactly n goroutines are parked on c.
func waitForWaiters(t *testing.T, c *cond.Conditional, n int) {
	for start := time.Now(); ; time.Sleep(time.Millisecond) {
		c.Lock()
		got := c.Waiters()
		c.Unlock()
		if got == n {
			return
		}
		if time.Since(start) > 10*time.Second {
			t.Fatalf("timed out waiting for %d waiters, have %d", n, got)
		}
	}
}
