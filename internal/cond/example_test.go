// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cond_test

import "fmt"
import "time"

import "v.io/x/conc/internal/cond"
import "v.io/x/conc/timeout"

// A jobList is a bounded list of job names.  Posters wait on room and
// takers on ready; both share the list's one Conditional.
type jobList struct {
	c     cond.Conditional
	room  cond.Event
	ready cond.Event
	jobs  []string
	limit int
}

func (l *jobList) post(job string, d time.Duration) bool {
	l.c.Lock()
	defer l.c.Unlock()
	deadline := timeout.Deadline(d)
	for len(l.jobs) == l.limit && l.room.WaitUntil(&l.c, deadline) {
	}
	if len(l.jobs) == l.limit {
		return false
	}
	l.jobs = append(l.jobs, job)
	l.ready.Signal()
	return true
}

func (l *jobList) take(d time.Duration) (string, bool) {
	l.c.Lock()
	defer l.c.Unlock()
	deadline := timeout.Deadline(d)
	for len(l.jobs) == 0 && l.ready.WaitUntil(&l.c, deadline) {
	}
	if len(l.jobs) == 0 {
		return "", false
	}
	job := l.jobs[0]
	l.jobs = l.jobs[1:]
	l.room.Signal()
	return job, true
}

// ExampleEvent shows two Events sharing a Conditional: a list of two jobs
// refuses a third post until a take makes room, and a take from the empty
// list gives up at its deadline.
func ExampleEvent() {
	l := &jobList{limit: 2}
	fmt.Println(l.post("build", timeout.Immediate), l.post("test", timeout.Immediate))
	fmt.Println(l.post("deploy", 10*time.Millisecond))

	go func() {
		time.Sleep(10 * time.Millisecond)
		l.take(timeout.Inf)
	}()
	fmt.Println(l.post("deploy", timeout.Inf))

	for {
		job, ok := l.take(10 * time.Millisecond)
		if !ok {
			fmt.Println("no job")
			break
		}
		fmt.Println(job)
	}
	// Output:
	// true true
	// false
	// true
	// test
	// deploy
	// no job
}
