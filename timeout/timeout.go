// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package timeout defines the relative timeouts accepted by the blocking
// operations of this module, and their conversion into absolute deadlines.
//
// Every blocking call converts its timeout into a deadline exactly once, on
// entry, and then waits against that deadline for as many wakeups as it
// takes.  A goroutine that is woken spuriously (or loses a race for the
// resource it was woken for) therefore never gets a fresh budget, and the
// total time spent in the call is bounded by the timeout it was given.
package timeout

import "math"
import "time"

import "v.io/x/lib/nsync"

const (
	// Inf waits for as long as it takes.
	Inf time.Duration = math.MaxInt64

	// Immediate never waits: an operation that would have to block
	// fails at once.
	Immediate time.Duration = 0
)

// NoDeadline is the deadline that never expires.  It is nsync's, so a
// deadline derived from Inf passes straight through to nsync waits.
var NoDeadline = nsync.NoDeadline

// Deadline returns the absolute deadline for a wait of duration d starting
// now.  Inf maps to NoDeadline; Immediate and negative durations map to a
// deadline that has already passed.
func Deadline(d time.Duration) time.Time {
	switch {
	case d == Inf:
		return NoDeadline
	case d <= 0:
		return time.Time{}
	}
	return time.Now().Add(d)
}

// Expired returns whether deadline has passed.
func Expired(deadline time.Time) bool {
	if deadline == NoDeadline {
		return false
	}
	return !time.Now().Before(deadline)
}
