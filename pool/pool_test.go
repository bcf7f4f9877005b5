// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pool_test

import (
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"v.io/x/conc/pool"
)

func waitFor(t *testing.T, what string, f func() bool) {
	t.Helper()
	for start := time.Now(); !f(); time.Sleep(time.Millisecond) {
		if time.Since(start) > 10*time.Second {
			t.Fatalf("timed out waiting for %s", what)
		}
	}
}

func TestCloseAfterLastWorker(t *testing.T) {
	var ran, closed atomic.Int32
	p := pool.New(func(w *pool.Worker) {
		ran.Add(1)
	}, pool.OnClose(func() { closed.Add(1) }))
	if err := p.StartN(3); err != nil {
		t.Fatal(err)
	}
	<-p.Done()
	waitFor(t, "close hook", func() bool { return closed.Load() == 1 })
	if got := ran.Load(); got != 3 {
		t.Errorf("workers run: got %d, want 3", got)
	}
	if got := p.Active(); got != 0 {
		t.Errorf("Active(): got %d, want 0", got)
	}
	if !p.Closed() {
		t.Errorf("Closed() is false")
	}
	if err := p.Start(); err != pool.ErrClosed {
		t.Errorf("Start on a closed pool: got %v, want %v", err, pool.ErrClosed)
	}
	if got := closed.Load(); got != 1 {
		t.Errorf("close hook calls: got %d, want 1", got)
	}
}

func TestStartN(t *testing.T) {
	release := make(chan struct{})
	indexes := make(chan int, 8)
	p := pool.New(func(w *pool.Worker) {
		indexes <- w.Index()
		<-release
	})
	p.StartN(2)
	p.StartN(1) // already above
	p.StartN(4)
	if got := p.Active(); got != 4 {
		t.Fatalf("Active(): got %d, want 4", got)
	}
	close(release)
	<-p.Done()
	close(indexes)
	seen := map[int]bool{}
	for i := range indexes {
		seen[i] = true
	}
	for i := 0; i < 4; i++ {
		if !seen[i] {
			t.Errorf("no worker with index %d", i)
		}
	}
}

func TestWakeupThrottled(t *testing.T) {
	var resumed atomic.Int32
	p := pool.New(func(w *pool.Worker) {
		w.Suspend()
		resumed.Add(1)
	})
	p.StartN(4)
	waitFor(t, "workers to suspend", func() bool { return p.Suspended() == 4 })

	if got, want := p.Wakeup(3), 2; got != want {
		t.Errorf("Wakeup(3): got %d, want %d", got, want)
	}
	if got, want := p.Suspended(), 2; got != want {
		t.Errorf("Suspended(): got %d, want %d", got, want)
	}
	if got, want := p.Wakeup(0), 2; got != want {
		t.Errorf("Wakeup(0): got %d, want %d", got, want)
	}
	<-p.Done()
	if got := resumed.Load(); got != 4 {
		t.Errorf("resumed: got %d, want 4", got)
	}
	if got := p.Wakeup(1); got != 0 {
		t.Errorf("Wakeup on a closed pool: got %d, want 0", got)
	}
}

// TestWakeupIdleWorkersResuspend has workers that go straight back to
// Suspend when woken with nothing to do, so the suspended count never drops
// below the limit; Wakeup must still return.
func TestWakeupIdleWorkersResuspend(t *testing.T) {
	var jobs, taken atomic.Int32
	var stop atomic.Bool
	p := pool.New(func(w *pool.Worker) {
		for !stop.Load() {
			if jobs.Add(-1) >= 0 {
				taken.Add(1)
				continue
			}
			jobs.Add(1)
			w.Suspend()
		}
	})
	p.StartN(4)
	waitFor(t, "workers to suspend", func() bool { return p.Suspended() == 4 })

	jobs.Add(1)
	resumed := make(chan int)
	go func() { resumed <- p.Wakeup(1) }()
	select {
	case n := <-resumed:
		if n < 1 || n > 4 {
			t.Errorf("Wakeup(1): resumed %d workers, want 1 to 4", n)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("Wakeup(1) did not return, %d suspended", p.Suspended())
	}
	waitFor(t, "job to be taken", func() bool { return taken.Load() == 1 })

	stop.Store(true)
	waitFor(t, "pool to close", func() bool {
		p.Wakeup(1)
		return p.Closed()
	})
}

func TestSuspendFor(t *testing.T) {
	result := make(chan bool, 1)
	p := pool.New(func(w *pool.Worker) {
		result <- w.SuspendFor(10 * time.Millisecond)
	})
	p.Start()
	if <-result {
		t.Errorf("SuspendFor reported a wakeup nobody sent")
	}
	<-p.Done()
}

func TestSync(t *testing.T) {
	const workers = 5
	var before atomic.Int32
	p := pool.New(func(w *pool.Worker) {
		for round := int32(1); round <= 3; round++ {
			before.Add(1)
			w.Sync()
			if got := before.Load(); got < round*workers {
				panic("Sync released before every worker arrived")
			}
			w.Sync()
		}
	})
	p.StartN(workers)
	<-p.Done()
	if got := before.Load(); got != 3*workers {
		t.Errorf("arrivals: got %d, want %d", got, 3*workers)
	}
}

// TestSyncSkipsExitedWorkers checks that a worker leaving the pool does not
// leave the others waiting for it in Sync.
func TestSyncSkipsExitedWorkers(t *testing.T) {
	leave := make(chan struct{})
	var synced atomic.Int32
	p := pool.New(func(w *pool.Worker) {
		if w.Index() == 0 {
			<-leave
			return
		}
		w.Sync()
		synced.Add(1)
	})
	p.StartN(3)
	time.Sleep(10 * time.Millisecond)
	close(leave)
	<-p.Done()
	if got := synced.Load(); got != 2 {
		t.Errorf("synced: got %d, want 2", got)
	}
}

func TestSyncAlone(t *testing.T) {
	p := pool.New(func(w *pool.Worker) {
		w.Sync()
	})
	p.Start()
	<-p.Done()
}

func TestLockThread(t *testing.T) {
	tids := make(chan int, 2)
	p := pool.New(func(w *pool.Worker) {
		tids <- w.ThreadID()
	}, pool.LockThread(true))
	p.StartN(2)
	<-p.Done()
	a, b := <-tids, <-tids
	if runtime.GOOS == "linux" {
		if a == 0 || b == 0 || a == b {
			t.Errorf("thread ids: got %d and %d, want two distinct non-zero ids", a, b)
		}
	}
}

func TestJoinable(t *testing.T) {
	release := make(chan struct{})
	var runs atomic.Int32
	j := pool.NewJoinable(func() {
		runs.Add(1)
		<-release
	})
	if err := j.Start(); err != nil {
		t.Fatal(err)
	}
	if !j.Running() {
		t.Errorf("Running() is false after Start")
	}
	if err := j.Start(); err != pool.ErrRunning {
		t.Errorf("second Start: got %v, want %v", err, pool.ErrRunning)
	}
	close(release)
	j.Join()
	if j.Running() {
		t.Errorf("Running() is true after Join")
	}
	if err := j.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	j.Join()
	j.Join()
	if got := runs.Load(); got != 2 {
		t.Errorf("runs: got %d, want 2", got)
	}
}
