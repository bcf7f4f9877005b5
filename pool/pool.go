// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pool runs a group of worker goroutines that share one body and
// coordinate through the pool: workers suspend themselves when idle, are
// woken a few at a time, and can rendezvous with every other active worker.
//
// A pool lives as long as its workers.  Workers exit by returning from the
// body; when the last one exits the pool closes, and cannot be restarted.
//
//	p := pool.New(func(w *pool.Worker) {
//		for {
//			job, ok := jobs.FIFO(timeout.Immediate)
//			if !ok {
//				if !w.SuspendFor(time.Second) {
//					return // idle too long
//				}
//				continue
//			}
//			job.Do()
//		}
//	})
//	p.StartN(4)
//	...
//	jobs.Post(job, timeout.Inf)
//	p.Wakeup(1)
package pool

import (
	"errors"
	"runtime"
	"time"

	"github.com/google/uuid"

	"v.io/x/conc/internal/cond"
	"v.io/x/conc/timeout"
	"v.io/x/lib/vlog"
)

// ErrClosed is returned when starting workers in a pool whose workers have
// all exited.
var ErrClosed = errors.New("pool: closed")

// Opt is an option to New or NewJoinable.
type Opt interface {
	PoolOpt()
}

// LockThread, when true, runs each worker on an OS thread of its own for
// the worker's whole life.  The thread is discarded when the worker exits.
type LockThread bool

// OnClose is called, once, after the last worker of a pool has exited.
type OnClose func()

// PoolOpt implements Opt.
func (LockThread) PoolOpt() {}

// PoolOpt implements Opt.
func (OnClose) PoolOpt() {}

// A Pool is a set of worker goroutines running the same body.
type Pool struct {
	id         uuid.UUID
	run        func(*Worker)
	lockThread bool
	onClose    func()
	done       chan struct{}

	c          cond.Conditional
	idle       []*Worker  // workers parked in Suspend, oldest first
	rendezvous cond.Event // workers parked in Sync
	active     int
	started    int
	arrived    int    // workers in the current Sync round
	round      uint64 // incremented as each Sync round is released
	closed     bool
}

// New returns a pool whose workers will run run.  No worker is started.
func New(run func(*Worker), opts ...Opt) *Pool {
	p := &Pool{
		id:   uuid.New(),
		run:  run,
		done: make(chan struct{}),
	}
	for _, o := range opts {
		switch v := o.(type) {
		case LockThread:
			p.lockThread = bool(v)
		case OnClose:
			p.onClose = v
		}
	}
	return p
}

// ID returns the pool's identifier, as it appears in log messages.
func (p *Pool) ID() uuid.UUID {
	return p.id
}

// Start starts one more worker.
func (p *Pool) Start() error {
	p.c.Lock()
	defer p.c.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.spawn()
	return nil
}

// StartN starts workers until count are active.  It does nothing if count
// or more are already active.
func (p *Pool) StartN(count int) error {
	p.c.Lock()
	defer p.c.Unlock()
	if p.closed {
		return ErrClosed
	}
	for p.active < count {
		p.spawn()
	}
	return nil
}

// spawn starts a worker.  Called with p.c held.
func (p *Pool) spawn() {
	w := &Worker{p: p, index: p.started}
	p.active++
	p.started++
	go w.main()
}

// Wakeup resumes suspended workers one at a time, letting each run before
// choosing the next, until fewer than limit remain suspended.  A limit below
// 1 is taken as 1.  At most as many workers are resumed as were suspended
// when Wakeup was called: a resumed worker that finds nothing to do and
// suspends again is not resumed a second time.  It returns the number of
// workers resumed.
func (p *Pool) Wakeup(limit int) int {
	if limit < 1 {
		limit = 1
	}
	n := 0
	p.c.Lock()
	for was := len(p.idle); n < was && len(p.idle) >= limit; {
		w := p.idle[0]
		p.idle[0] = nil
		p.idle = p.idle[1:]
		w.resumed = true
		w.resume.Signal()
		n++
		p.c.Unlock()
		runtime.Gosched()
		p.c.Lock()
	}
	p.c.Unlock()
	if n > 0 {
		vlog.VI(2).Infof("pool %s: resumed %d workers", p.id, n)
	}
	return n
}

// Active returns the number of workers that have started and not exited.
func (p *Pool) Active() int {
	p.c.Lock()
	defer p.c.Unlock()
	return p.active
}

// Suspended returns the number of workers parked in Suspend or SuspendFor.
func (p *Pool) Suspended() int {
	p.c.Lock()
	defer p.c.Unlock()
	return len(p.idle)
}

// Done returns a channel that is closed when the pool closes.
func (p *Pool) Done() <-chan struct{} {
	return p.done
}

// Closed returns whether every worker of the pool has exited.
func (p *Pool) Closed() bool {
	p.c.Lock()
	defer p.c.Unlock()
	return p.closed
}

// sync implements Worker.Sync.
func (p *Pool) sync() {
	p.c.Lock()
	defer p.c.Unlock()
	if p.active < 2 {
		return
	}
	p.arrived++
	if p.arrived >= p.active {
		p.releaseRound()
		return
	}
	round := p.round
	for round == p.round {
		p.rendezvous.Wait(&p.c)
	}
}

// releaseRound ends the current Sync round.  Called with p.c held.
func (p *Pool) releaseRound() {
	p.arrived = 0
	p.round++
	p.rendezvous.Broadcast()
}

// exit accounts for a worker that has returned from the body, closing the
// pool after the last one.
func (p *Pool) exit(w *Worker) {
	p.c.Lock()
	p.active--
	// The exiting worker may have been the one a Sync round waited for.
	if p.arrived > 0 && p.arrived >= p.active {
		p.releaseRound()
	}
	last := p.active == 0
	if last {
		p.closed = true
		close(p.done)
	}
	p.c.Unlock()
	vlog.VI(2).Infof("pool %s: worker %d exited", p.id, w.index)
	if last {
		vlog.VI(1).Infof("pool %s: closed after %d workers", p.id, w.index+1)
		if p.onClose != nil {
			p.onClose()
		}
	}
}

// A Worker is the handle a worker body uses to reach its pool.
type Worker struct {
	p     *Pool
	index int
	tid   int

	resume  cond.Event // signalled by Wakeup; under p.c
	resumed bool
}

func (w *Worker) main() {
	if w.p.lockThread {
		// Never unlocked: the thread exits with the goroutine.
		runtime.LockOSThread()
		w.tid = threadID()
	}
	vlog.VI(2).Infof("pool %s: worker %d started (thread %d)", w.p.id, w.index, w.tid)
	defer w.p.exit(w)
	w.p.run(w)
}

// Pool returns the worker's pool.
func (w *Worker) Pool() *Pool {
	return w.p
}

// Index returns the worker's start order within its pool, from 0.
func (w *Worker) Index() int {
	return w.index
}

// ThreadID returns the OS thread id of a worker started with LockThread, on
// platforms that expose one, and 0 otherwise.
func (w *Worker) ThreadID() int {
	return w.tid
}

// Suspend parks the worker until Wakeup resumes it.
func (w *Worker) Suspend() {
	w.suspend(timeout.NoDeadline)
}

// SuspendFor is Suspend with a timeout.  It returns false if d expired
// before the worker was resumed.
func (w *Worker) SuspendFor(d time.Duration) bool {
	return w.suspend(timeout.Deadline(d))
}

func (w *Worker) suspend(deadline time.Time) bool {
	p := w.p
	p.c.Lock()
	defer p.c.Unlock()
	if timeout.Expired(deadline) {
		return false
	}
	w.resumed = false
	p.idle = append(p.idle, w)
	for !w.resumed && w.resume.WaitUntil(&p.c, deadline) {
	}
	if !w.resumed {
		for i, v := range p.idle {
			if v == w {
				p.idle = append(p.idle[:i], p.idle[i+1:]...)
				break
			}
		}
	}
	return w.resumed
}

// Sync blocks until every active worker of the pool has called Sync, then
// releases them all.  The number of workers needed is read as each worker
// arrives, so workers that exit meanwhile are not waited for.  With fewer
// than two active workers Sync returns at once.
func (w *Worker) Sync() {
	w.p.sync()
}
