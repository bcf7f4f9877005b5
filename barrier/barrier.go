// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package barrier provides a reusable rendezvous point for a fixed number of
// goroutines.
//
// A Barrier of n parties blocks each caller of Wait until n of them have
// arrived, then releases all of them together and resets, ready for the next
// round:
//
//	b := barrier.New(3)
//	for i := 0; i < 3; i++ {
//		go func() {
//			phaseOne()
//			b.Wait()
//			phaseTwo()
//		}()
//	}
package barrier

import "time"

import "v.io/x/conc/internal/cond"
import "v.io/x/conc/timeout"

// Opt is an option to New.
type Opt interface {
	BarrierOpt()
}

// TimeoutPolicy selects what WaitFor does with the arrival of a party that
// gives up waiting.
type TimeoutPolicy int

const (
	// RetractOnTimeout withdraws a timed-out party's arrival, so that the
	// round still needs the full number of parties.  It is the default.
	RetractOnTimeout TimeoutPolicy = iota
	// KeepOnTimeout leaves a timed-out party counted as arrived, so the
	// round completes with one fewer live party.
	KeepOnTimeout
)

// BarrierOpt implements Opt.
func (TimeoutPolicy) BarrierOpt() {}

// A Barrier releases its waiters in rounds of a fixed number of parties.
type Barrier struct {
	c       cond.Conditional
	parties int
	arrived int
	round   uint64 // incremented each time a round is released
	policy  TimeoutPolicy
}

// New returns a Barrier for n parties.  A Barrier for 0 parties lets every
// Wait through at once.
func New(n int, opts ...Opt) *Barrier {
	if n < 0 {
		panic("barrier.New with a negative party count")
	}
	b := &Barrier{parties: n}
	for _, o := range opts {
		switch v := o.(type) {
		case TimeoutPolicy:
			b.policy = v
		}
	}
	return b
}

// Wait blocks until the round's last party arrives.
func (b *Barrier) Wait() {
	b.wait(timeout.NoDeadline)
}

// WaitFor is Wait with a timeout.  It returns false if d expired before the
// round was released; what happens to the caller's arrival then depends on
// the Barrier's TimeoutPolicy.
func (b *Barrier) WaitFor(d time.Duration) bool {
	return b.wait(timeout.Deadline(d))
}

func (b *Barrier) wait(deadline time.Time) bool {
	b.c.Lock()
	defer b.c.Unlock()
	if b.parties == 0 {
		return true
	}
	b.arrived++
	if b.arrived >= b.parties {
		b.release()
		return true
	}
	round := b.round
	for round == b.round {
		if !b.c.WaitUntil(deadline) && round == b.round {
			if b.policy == RetractOnTimeout {
				b.arrived--
			}
			return false
		}
	}
	return true
}

// release ends the current round.  Called with b.c held.
func (b *Barrier) release() {
	b.arrived = 0
	b.round++
	b.c.Broadcast()
}

// Set changes the number of parties.  If at least n parties are already
// waiting, the round is released at once.  Set(0) releases any waiters and
// makes the Barrier a pass-through, which is how a Barrier in use is torn
// down.
func (b *Barrier) Set(n int) {
	if n < 0 {
		panic("barrier.Barrier.Set with a negative party count")
	}
	b.c.Lock()
	b.parties = n
	if b.arrived > 0 && b.arrived >= n {
		b.release()
	}
	b.c.Unlock()
}

// Parties returns the number of parties per round.
func (b *Barrier) Parties() int {
	b.c.Lock()
	defer b.c.Unlock()
	return b.parties
}

// Arrived returns the number of parties waiting in the current round.
func (b *Barrier) Arrived() int {
	b.c.Lock()
	defer b.c.Unlock()
	return b.arrived
}
