// Command bftrace is a minimal, non-interactive front-end over
// github.com/wartmanm/bfdebug: it runs one program to completion (or to a
// breakpoint/watchpoint), optionally tracing every step and dumping a final
// memory window. It exists to demonstrate the engine's public API; it is
// not itself part of the engine's specification.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wartmanm/bfdebug"
	"github.com/wartmanm/bfdebug/internal/fileinput"
	"github.com/wartmanm/bfdebug/internal/logio"
	"github.com/wartmanm/bfdebug/internal/panicerr"
)

// readSource concatenates one or more program files, in argument order,
// through fileinput.Input, so "bftrace a.bf b.bf" behaves like a single
// program built by pasting the files together.
func readSource(paths []string) (string, error) {
	var in fileinput.Input
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return "", err
		}
		defer f.Close()
		in.Queue = append(in.Queue, namedFile{f, p})
	}

	var sb strings.Builder
	for {
		r, _, err := in.ReadRune()
		if err != nil {
			if err == io.EOF {
				break
			}
			return "", err
		}
		if r != 0 {
			sb.WriteRune(r)
		}
	}
	return sb.String(), nil
}

type namedFile struct {
	*os.File
	path string
}

func (nf namedFile) Name() string { return nf.path }

func main() {
	var (
		tapeSize  uint
		pageSize  uint
		memLimit  uint
		timeout   time.Duration
		trace      bool
		dump       bool
		breakList  string
		watchList  string
		teeOutPath string
	)
	flag.UintVar(&tapeSize, "tape-size", 0, "override the tape's nominal size")
	flag.UintVar(&pageSize, "page-size", 0, "override the tape's paged-memory page size")
	flag.UintVar(&memLimit, "mem-limit", 0, "bound the tape to addresses below this")
	flag.DurationVar(&timeout, "timeout", 0, "specify a time limit")
	flag.BoolVar(&trace, "trace", false, "enable step trace logging")
	flag.BoolVar(&dump, "dump", false, "print a memory window after execution")
	flag.StringVar(&breakList, "break", "", "comma-separated source lines to break on")
	flag.StringVar(&watchList, "watch", "", "comma-separated name=index watches")
	flag.StringVar(&teeOutPath, "tee", "", "additionally mirror '.' output to this file")
	flag.Parse()

	log := logio.Logger{}
	log.SetOutput(os.Stderr)
	defer func() { os.Exit(log.ExitCode()) }()

	if flag.NArg() < 1 {
		log.Errorf("usage: bftrace [flags] <program-file>...")
		return
	}
	src, err := readSource(flag.Args())
	if err != nil {
		log.Errorf("%v", err)
		return
	}

	opts := []bfdebug.Option{
		bfdebug.WithInput(os.Stdin),
		bfdebug.WithOutput(os.Stdout),
		bfdebug.WithMemLimit(memLimit),
	}
	if tapeSize != 0 {
		opts = append(opts, bfdebug.WithTapeSize(tapeSize))
	}
	if pageSize != 0 {
		opts = append(opts, bfdebug.WithPageSize(pageSize))
	}
	if trace {
		opts = append(opts, bfdebug.WithLogf(log.Leveledf("TRACE")))
	}
	if teeOutPath != "" {
		f, err := os.Create(teeOutPath)
		if err != nil {
			log.Errorf("%v", err)
			return
		}
		opts = append(opts, bfdebug.WithTee(f))
	}

	ctrl, err := bfdebug.New(src, opts...)
	if err != nil {
		log.Errorf("%v", err)
		return
	}
	defer ctrl.Close()

	for _, spec := range splitNonEmpty(breakList) {
		line, perr := strconv.ParseUint(spec, 10, 32)
		if perr != nil {
			log.Errorf("bad -break entry %q: %v", spec, perr)
			return
		}
		if ok, msg := ctrl.AddBreakpoint(uint32(line)); !ok {
			log.Errorf("%v", msg)
			return
		}
	}
	for _, spec := range splitNonEmpty(watchList) {
		name, idxStr, found := strings.Cut(spec, "=")
		if !found {
			log.Errorf("bad -watch entry %q: want name=index", spec)
			return
		}
		idx, perr := strconv.ParseUint(idxStr, 10, 64)
		if perr != nil {
			log.Errorf("bad -watch entry %q: %v", spec, perr)
			return
		}
		if ok, msg := ctrl.AddWatch(name, uint(idx)); !ok {
			log.Errorf("%v", msg)
			return
		}
	}

	ctx := context.Background()
	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	runErr := panicerr.Recover("bftrace", func() error {
		return runToCompletion(ctx, ctrl, &log)
	})
	log.ErrorIf(runErr)

	if dump {
		rows, _ := ctrl.MemoryWindow(0, 16, 4)
		for _, row := range rows {
			log.Printf("DUMP", "%v", dumpRow(row))
		}
	}
}

// runToCompletion runs ctrl to the end, logging (rather than stopping for)
// any breakpoint or watchpoint hit along the way: there is no interactive
// frontend here to act on a stop.
func runToCompletion(ctx context.Context, ctrl *bfdebug.Controller, log *logio.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		unfinished, err := ctrl.Step(true)
		if err != nil {
			return err
		}
		if !unfinished {
			return nil
		}
		if ctrl.IsAtBreakpoint() {
			log.Printf("BREAK", "%v", ctrl.CurrentCommand().Span)
		}
		if ctrl.IsAtWatchpoint() {
			log.Printf("WATCH", "ptr=%v", ctrl.Pointer())
		}
	}
}

func dumpRow(row bfdebug.MemoryRow) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%08x:", row.Base)
	for i, v := range row.Cells {
		switch {
		case i == row.PointerAt:
			fmt.Fprintf(&sb, " [%02x]", v)
		case row.WatchCols[i] != "":
			fmt.Fprintf(&sb, " <%02x>", v)
		default:
			fmt.Fprintf(&sb, " %02x", v)
		}
	}
	return sb.String()
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
