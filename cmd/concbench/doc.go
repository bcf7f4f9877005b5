// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This file was auto-generated via go generate.
// DO NOT UPDATE MANUALLY

/*
Command concbench runs a load against one of the concurrency primitives of
v.io/x/conc and reports the operations completed and the time taken.

Usage:

	concbench <command>

The concbench commands are:

	rwlock      Load a reader/writer lock
	queue       Load a bounded queue
	ring        Load a ring buffer
	barrier     Load a barrier
	pool        Load a worker pool
	semaphore   Load a counting semaphore
	help        Display help for commands or topics

The global flags are:

	-alsologtostderr=true
	  log to standard error as well as files
	-log_backtrace_at=:0
	  when logging hits line file:N, emit a stack trace
	-log_dir=
	  if non-empty, write log files to this directory
	-logtostderr=false
	  log to standard error instead of files
	-max_stack_buf_size=4292608
	  max size in bytes of the buffer to use for logging stack traces
	-metadata=<just specify -metadata to activate>
	  Displays metadata for the program and exits.
	-stderrthreshold=2
	  logs at or above this threshold go to stderr
	-time=false
	  Dump timing information to stderr before exiting the program.
	-v=0
	  log level for V logs
	-vmodule=
	  comma-separated list of globpattern=N settings for filename-filtered logging
	  (without the .go suffix).  E.g. foo/bar/baz.go is matched by patterns baz or
	  *az or b* but not by bar/baz or baz.go or az or b.*
	-vpath=
	  comma-separated list of regexppattern=N settings for file pathname-filtered
	  logging (without the .go suffix).  E.g. foo/bar/baz.go is matched by patterns
	  foo/bar/baz or fo.*az or oo/ba or b.z but not by foo/bar/baz.go or fo*az

Concbench rwlock - Load a reader/writer lock

Each worker takes the lock repeatedly, for writing one time in eight and for
reading otherwise.

Usage:

	concbench rwlock [flags]

The concbench rwlock flags are:

	-capacity=16
	  capacity of the container or semaphore under test
	-dump=false
	  dump the final state of the primitive under test
	-format=text
	  stats output format; either text or json
	-iterations=100000
	  number of operations per worker
	-workers=<logical CPUs>
	  number of goroutines to run; defaults to the number of logical CPUs

Concbench queue - Load a bounded queue

Half the workers (at least one) post values to a queue of the given capacity
and the others take them off in order.

Usage:

	concbench queue [flags]

The concbench queue flags are:

	-capacity=16
	  capacity of the container or semaphore under test
	-dump=false
	  dump the final state of the primitive under test
	-format=text
	  stats output format; either text or json
	-iterations=100000
	  number of operations per worker
	-workers=<logical CPUs>
	  number of goroutines to run; defaults to the number of logical CPUs

Concbench ring - Load a ring buffer

The workers put 8 byte records into a ring buffer of the given capacity while
a single consumer gets and releases them.

Usage:

	concbench ring [flags]

The concbench ring flags are:

	-capacity=16
	  capacity of the container or semaphore under test
	-dump=false
	  dump the final state of the primitive under test
	-format=text
	  stats output format; either text or json
	-iterations=100000
	  number of operations per worker
	-workers=<logical CPUs>
	  number of goroutines to run; defaults to the number of logical CPUs

Concbench barrier - Load a barrier

The workers meet at a barrier with one party per worker, once per iteration.

Usage:

	concbench barrier [flags]

The concbench barrier flags are:

	-capacity=16
	  capacity of the container or semaphore under test
	-dump=false
	  dump the final state of the primitive under test
	-format=text
	  stats output format; either text or json
	-iterations=100000
	  number of operations per worker
	-workers=<logical CPUs>
	  number of goroutines to run; defaults to the number of logical CPUs

Concbench pool - Load a worker pool

A pool of workers takes jobs off a queue of the given capacity, suspending
itself when the queue is empty.  One suspended worker is woken after each job
is posted; workers leave once every job is done.

Usage:

	concbench pool [flags]

The concbench pool flags are:

	-capacity=16
	  capacity of the container or semaphore under test
	-dump=false
	  dump the final state of the primitive under test
	-format=text
	  stats output format; either text or json
	-iterations=100000
	  number of operations per worker
	-workers=<logical CPUs>
	  number of goroutines to run; defaults to the number of logical CPUs

Concbench semaphore - Load a counting semaphore

The workers acquire and release one unit of a semaphore with as many units as
the given capacity.

Usage:

	concbench semaphore [flags]

The concbench semaphore flags are:

	-capacity=16
	  capacity of the container or semaphore under test
	-dump=false
	  dump the final state of the primitive under test
	-format=text
	  stats output format; either text or json
	-iterations=100000
	  number of operations per worker
	-workers=<logical CPUs>
	  number of goroutines to run; defaults to the number of logical CPUs

Concbench help - Display help for commands or topics

Help with no args displays the usage of the parent command.

Help with args displays the usage of the specified sub-command or help topic.

"help ..." recursively displays help for all commands and topics.

Usage:

	concbench help [flags] [command/topic ...]

[command/topic ...] optionally identifies a specific sub-command or help topic.

The concbench help flags are:

	-style=compact
	  The formatting style for help output:
	     compact   - Good for compact cmdline output.
	     full      - Good for cmdline output, shows all global flags.
	     godoc     - Good for godoc processing.
	     shortonly - Only output short description.
	  Override the default by setting the CMDLINE_STYLE environment variable.
	-width=<terminal width>
	  Format output to this target width in runes, or unlimited if width < 0.
	  Defaults to the terminal width if available.  Override the default by setting
	  the CMDLINE_WIDTH environment variable.
*/
package main
