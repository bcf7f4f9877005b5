// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The following enables go generate to generate the doc.go file.
//go:generate go run v.io/x/lib/cmdline/gendoc .

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/shirou/gopsutil/v3/cpu"

	"v.io/x/lib/cmdline"
	"v.io/x/lib/vlog"
)

var (
	flagWorkers    int
	flagIterations int
	flagCapacity   int
	flagDump       bool
	flagFormat     string
)

// benchmark runs a load against one primitive and returns the number of
// operations done and the primitive, for -dump.
type benchmark func(env *cmdline.Env, workers, iterations, capacity int) (ops uint64, state interface{}, err error)

type benchStats struct {
	Name       string
	Workers    int
	Operations uint64
	Elapsed    time.Duration
	OpsPerSec  float64
}

func defaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		vlog.VI(1).Infof("cpu count unavailable (%v), using GOMAXPROCS", err)
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// newBenchCmd returns the command for a benchmark, with the flags shared by
// all of them.
func newBenchCmd(name, short, long string, bench benchmark) *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  name,
		Short: short,
		Long:  long,
	}
	cmd.Runner = cmdline.RunnerFunc(func(env *cmdline.Env, args []string) error {
		return runBench(env, args, name, bench)
	})
	cmd.Flags.IntVar(&flagWorkers, "workers", defaultWorkers(), "number of goroutines to run; defaults to the number of logical CPUs")
	cmd.Flags.IntVar(&flagIterations, "iterations", 100000, "number of operations per worker")
	cmd.Flags.IntVar(&flagCapacity, "capacity", 16, "capacity of the container or semaphore under test")
	cmd.Flags.BoolVar(&flagDump, "dump", false, "dump the final state of the primitive under test")
	cmd.Flags.StringVar(&flagFormat, "format", "text", "stats output format; either text or json")
	// Keep the generated documentation independent of the build machine.
	cmd.Flags.Lookup("workers").DefValue = "<logical CPUs>"
	return cmd
}

func runBench(env *cmdline.Env, args []string, name string, bench benchmark) error {
	if len(args) != 0 {
		return env.UsageErrorf("%s takes no arguments", name)
	}
	if flagWorkers < 1 || flagIterations < 1 || flagCapacity < 1 {
		return env.UsageErrorf("-workers, -iterations and -capacity must be positive")
	}
	if flagFormat != "text" && flagFormat != "json" {
		return env.UsageErrorf("invalid output format: %s", flagFormat)
	}
	if err := vlog.ConfigureLibraryLoggerFromFlags(); err != nil {
		return err
	}
	vlog.VI(1).Infof("%s: %d workers, %d iterations, capacity %d", name, flagWorkers, flagIterations, flagCapacity)

	start := time.Now()
	ops, state, err := bench(env, flagWorkers, flagIterations, flagCapacity)
	if err != nil {
		return err
	}
	stats := benchStats{
		Name:       name,
		Workers:    flagWorkers,
		Operations: ops,
		Elapsed:    time.Since(start),
	}
	stats.OpsPerSec = float64(ops) / stats.Elapsed.Seconds()
	if err := outStats(env.Stdout, flagFormat, &stats); err != nil {
		return err
	}
	if flagDump {
		spew.Fdump(env.Stdout, state)
	}
	return nil
}

func outStats(w io.Writer, format string, stats *benchStats) error {
	switch format {
	case "text":
		fmt.Fprintf(w, "%s:\n", stats.Name)
		fmt.Fprintf(w, "\tworkers:\t\t%d\n", stats.Workers)
		fmt.Fprintf(w, "\toperations:\t\t%d\n", stats.Operations)
		fmt.Fprintf(w, "\telapsed:\t\t%v\n", stats.Elapsed)
		fmt.Fprintf(w, "\toperations/sec:\t\t%.2f\n", stats.OpsPerSec)
	case "json":
		b, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\n", b)
	default:
		return fmt.Errorf("invalid output format: %s", format)
	}
	return nil
}

func main() {
	cmdRoot := &cmdline.Command{
		Name:  "concbench",
		Short: "drives the concurrency primitives under load",
		Long: `
Command concbench runs a load against one of the concurrency primitives of
v.io/x/conc and reports the operations completed and the time taken.
`,
		Children: []*cmdline.Command{
			cmdRWLock,
			cmdQueue,
			cmdRing,
			cmdBarrier,
			cmdPool,
			cmdSemaphore,
		},
	}
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(cmdRoot)
}
