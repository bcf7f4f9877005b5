// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package pool

import "golang.org/x/sys/unix"

func threadID() int {
	return unix.Gettid()
}
