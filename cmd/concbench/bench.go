// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"v.io/x/conc/barrier"
	"v.io/x/conc/lock"
	"v.io/x/conc/pool"
	"v.io/x/conc/queue"
	"v.io/x/conc/ringbuf"
	"v.io/x/conc/semaphore"
	"v.io/x/conc/timeout"
	"v.io/x/lib/cmdline"
	"v.io/x/lib/vlog"
)

var cmdRWLock = newBenchCmd("rwlock", "Load a reader/writer lock", `
Each worker takes the lock repeatedly, for writing one time in eight and for
reading otherwise.
`, benchRWLock)

func benchRWLock(env *cmdline.Env, workers, iterations, capacity int) (uint64, interface{}, error) {
	var l lock.RW
	var shared uint64
	var writes atomic.Uint64
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			for i := 0; i < iterations; i++ {
				if (w+i)%8 == 0 {
					l.Lock()
					shared++
					l.Unlock()
					writes.Add(1)
					continue
				}
				l.RLock()
				_ = shared
				l.RUnlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, nil, err
	}
	if n := writes.Load(); shared != n {
		return 0, nil, fmt.Errorf("lost writes: %d of %d", n-shared, n)
	}
	return uint64(workers * iterations), &l, nil
}

var cmdQueue = newBenchCmd("queue", "Load a bounded queue", `
Half the workers (at least one) post values to a queue of the given capacity
and the others take them off in order.
`, benchQueue)

func benchQueue(env *cmdline.Env, workers, iterations, capacity int) (uint64, interface{}, error) {
	q := queue.New(capacity, queue.NewPager[int](capacity))
	producers := max(workers/2, 1)
	consumers := max(workers-producers, 1)
	total := producers * iterations
	var taken atomic.Int64
	var g errgroup.Group
	for p := 0; p < producers; p++ {
		g.Go(func() error {
			for i := 0; i < iterations; i++ {
				q.Post(i, timeout.Inf)
			}
			return nil
		})
	}
	for c := 0; c < consumers; c++ {
		g.Go(func() error {
			for taken.Load() < int64(total) {
				if _, ok := q.FIFO(10 * time.Millisecond); ok {
					taken.Add(1)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, nil, err
	}
	return uint64(2 * total), q, nil
}

var cmdRing = newBenchCmd("ring", "Load a ring buffer", `
The workers put 8 byte records into a ring buffer of the given capacity while
a single consumer gets and releases them.
`, benchRing)

func benchRing(env *cmdline.Env, workers, iterations, capacity int) (uint64, interface{}, error) {
	b := ringbuf.New(8, capacity)
	total := workers * iterations
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			var rec [8]byte
			for i := 0; i < iterations; i++ {
				binary.LittleEndian.PutUint64(rec[:], uint64(i))
				b.Put(rec[:], timeout.Inf)
			}
			return nil
		})
	}
	g.Go(func() error {
		for i := 0; i < total; i++ {
			if _, ok := b.Get(timeout.Inf); !ok {
				return fmt.Errorf("get %d failed", i)
			}
			b.Release()
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return 0, nil, err
	}
	return uint64(2 * total), b, nil
}

var cmdBarrier = newBenchCmd("barrier", "Load a barrier", `
The workers meet at a barrier with one party per worker, once per iteration.
`, benchBarrier)

func benchBarrier(env *cmdline.Env, workers, iterations, capacity int) (uint64, interface{}, error) {
	b := barrier.New(workers)
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < iterations; i++ {
				b.Wait()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, nil, err
	}
	return uint64(iterations), b, nil
}

var cmdSemaphore = newBenchCmd("semaphore", "Load a counting semaphore", `
The workers acquire and release one unit of a semaphore with as many units as
the given capacity.
`, benchSemaphore)

func benchSemaphore(env *cmdline.Env, workers, iterations, capacity int) (uint64, interface{}, error) {
	s := semaphore.New(capacity)
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < iterations; i++ {
				s.Acquire()
				s.Release(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, nil, err
	}
	return uint64(workers * iterations), s, nil
}

var cmdPool = newBenchCmd("pool", "Load a worker pool", `
A pool of workers takes jobs off a queue of the given capacity, suspending
itself when the queue is empty.  One suspended worker is woken after each job
is posted; workers leave once every job is done.
`, benchPool)

func benchPool(env *cmdline.Env, workers, iterations, capacity int) (uint64, interface{}, error) {
	jobs := queue.New[int](capacity, nil)
	var done atomic.Int64
	total := int64(workers * iterations)
	p := pool.New(func(w *pool.Worker) {
		for done.Load() < total {
			if _, ok := jobs.TryFIFO(); ok {
				done.Add(1)
				continue
			}
			w.SuspendFor(10 * time.Millisecond)
		}
		w.Sync()
	}, pool.OnClose(func() {
		vlog.VI(1).Infof("pool: all %d jobs done", done.Load())
	}))
	if err := p.StartN(workers); err != nil {
		return 0, nil, err
	}
	for i := int64(0); i < total; i++ {
		jobs.Post(int(i), timeout.Inf)
		p.Wakeup(1)
	}
	<-p.Done()
	return uint64(total), p, nil
}
