// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pool

import (
	"errors"
	"runtime"

	"v.io/x/conc/internal/cond"
	"v.io/x/lib/vlog"
)

// ErrRunning is returned when starting a Joinable that is still running.
var ErrRunning = errors.New("pool: already running")

// A Joinable runs a function on a goroutine of its own that other
// goroutines can wait for.  Unlike a pool worker it may be run again once it
// has finished.
type Joinable struct {
	run        func()
	lockThread bool

	c       cond.Conditional
	running bool
	runs    int
}

// NewJoinable returns a Joinable for run.  Of the pool options only
// LockThread applies.
func NewJoinable(run func(), opts ...Opt) *Joinable {
	j := &Joinable{run: run}
	for _, o := range opts {
		if v, ok := o.(LockThread); ok {
			j.lockThread = bool(v)
		}
	}
	return j
}

// Start runs the function on a new goroutine.  It returns ErrRunning if the
// previous run has not finished.
func (j *Joinable) Start() error {
	j.c.Lock()
	defer j.c.Unlock()
	if j.running {
		return ErrRunning
	}
	j.running = true
	j.runs++
	go j.main(j.runs)
	return nil
}

func (j *Joinable) main(run int) {
	if j.lockThread {
		runtime.LockOSThread()
	}
	defer func() {
		j.c.Lock()
		j.running = false
		j.c.Broadcast()
		j.c.Unlock()
		vlog.VI(2).Infof("joinable: run %d finished", run)
	}()
	j.run()
}

// Join waits for the current run, if any, to finish.
func (j *Joinable) Join() {
	j.c.Lock()
	for j.running {
		j.c.Wait()
	}
	j.c.Unlock()
}

// Running returns whether a run is in progress.
func (j *Joinable) Running() bool {
	j.c.Lock()
	defer j.c.Unlock()
	return j.running
}
