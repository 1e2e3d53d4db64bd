// Package bfdebug is a time-reversible interpreter and debugger engine for
// a minimal eight-instruction tape-machine language: pointer move (< >),
// cell increment/decrement (+ -), byte input/output (, .), and a
// zero-tests-exit loop ([ ]).
//
// Source is parsed once into an immutable command graph (Parse), coalescing
// runs of +/- and </> into single Add/Move nodes. A VM executes that graph
// one command at a time, recording a forward and backward StepDelta for
// every step so that execution can be undone exactly as well as redone by
// replay, without re-running the program from the start. Controller wraps a
// VM with the structured concerns a debugger front-end needs: a dynamic
// loop stack, line-based breakpoints, tape-cell watchpoints, and the
// composite steppers (Run, Over, Over2, Out, NextLine) built over the VM's
// primitive Step.
//
// The engine is single-threaded and synchronous by design: every
// operation runs to completion on the calling goroutine, and the only
// blocking point is a Read step waiting on its input stream.
package bfdebug
