// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cond

import "bytes"
import "runtime"
import "strconv"

var goroutinePrefix = []byte("goroutine ")

// GoroutineID returns the id of the calling goroutine, as printed in the
// header of its stack trace.  It is the "thread identity" recorded by the
// reentrant locks; it is not cheap, and is only read on lock acquisition.
func GoroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := bytes.TrimPrefix(buf[:n], goroutinePrefix)
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		panic("cannot parse goroutine id from " + strconv.Quote(string(buf[:n])))
	}
	return id
}
