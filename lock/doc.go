// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lock provides locks with scheduling policies that sync does not
// offer, all built from a single mutex and condition queue:
//
//   - Recursive, a reentrant exclusive lock owned by a goroutine;
//   - RW, a reader/writer lock with timed acquisition, reentrant writers and
//     writer preference, so a stream of readers cannot starve a writer;
//   - Convertible, a shared lock whose holders can convert to exclusive
//     access in place and back, without releasing;
//   - Step, a lock taken in two steps from a parent lock.
//
// Each lock also hands out scoped holds: a call that acquires and returns a
// release function, safe to defer and safe to call more than once.
//
// Misuse, such as releasing a lock that is not held, panics.
package lock

import "sync"

// once returns a function that calls f the first time it is called.
func once(f func()) func() {
	var o sync.Once
	return func() { o.Do(f) }
}
