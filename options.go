package bfdebug

import (
	"bufio"
	"bytes"
	"io"
	"io/ioutil"

	"github.com/wartmanm/bfdebug/internal/flushio"
)

// Option configures a VM at construction time, per functional-options
// conventions.
type Option interface{ apply(vm *VM) }

var defaultOptions = Options(
	WithInput(bytes.NewReader(nil)),
	WithOutput(ioutil.Discard),
)

// Options flattens a list of Options into one, so New can apply a single
// value regardless of how many were passed.
func Options(opts ...Option) Option {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil, noption:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, opt)
		}
	}
	switch len(res) {
	case 0:
		return noption{}
	case 1:
		return res[0]
	default:
		return res
	}
}

type noption struct{}

func (noption) apply(vm *VM) {}

type options []Option

func (opts options) apply(vm *VM) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(vm)
		}
	}
}

type withLogfn func(mess string, args ...interface{})

func (logfn withLogfn) apply(vm *VM) { vm.logfn = logfn }

// WithLogf wires a trace logging func, e.g. an internal/logio.Logger's
// Leveledf, to the VM's step tracing (core.go's logging.logf).
func WithLogf(logfn func(mess string, args ...interface{})) Option { return withLogfn(logfn) }

type inputOption struct{ io.Reader }

// WithInput sets the byte stream a Read ',' command consumes from.
func WithInput(r io.Reader) Option { return inputOption{r} }

func (i inputOption) apply(vm *VM) { vm.in = bufio.NewReader(i.Reader) }

type inputFileOption string

// WithInputFile opens path and uses it as the Read ',' stream, closing it
// when the VM is closed.
func WithInputFile(path string) Option { return inputFileOption(path) }

func (p inputFileOption) apply(vm *VM) {
	f, err := openInputFile(string(p))
	if err != nil {
		vm.logf("!", "open input %v: %v", string(p), err)
		return
	}
	vm.in = bufio.NewReader(f)
	vm.inName = string(p)
	vm.closers = append(vm.closers, f)
}

type outputOption struct{ io.Writer }

// WithOutput sets the byte stream a Write '.' command writes to.
func WithOutput(w io.Writer) Option { return outputOption{w} }

func (o outputOption) apply(vm *VM) {
	if vm.out != nil {
		vm.out.Flush()
	}
	vm.out = flushio.NewWriteFlusher(o.Writer)
	if cl, ok := o.Writer.(io.Closer); ok {
		vm.closers = append(vm.closers, cl)
	}
}

type teeOption struct{ io.Writer }

// WithTee additionally mirrors all '.' output to w, e.g. for a CLI -trace
// sidecar that captures program output alongside step tracing.
func WithTee(w io.Writer) Option { return teeOption{w} }

func (o teeOption) apply(vm *VM) {
	vm.out = flushio.WriteFlushers(vm.out, flushio.NewWriteFlusher(o.Writer))
	if cl, ok := o.Writer.(io.Closer); ok {
		vm.closers = append(vm.closers, cl)
	}
}

type memLimitOption uint

// WithMemLimit bounds the tape to addresses below limit; any access at or
// past it fails with TapeOutOfRangeError instead of growing the tape
// further. A limit of 0 (the default) means unbounded.
func WithMemLimit(limit uint) Option { return memLimitOption(limit) }

func (lim memLimitOption) apply(vm *VM) { vm.memLimit = uint(lim) }

type tapeSizeOption uint

// WithTapeSize overrides the tape's nominal pre-allocated size (see
// DefaultTapeSize).
func WithTapeSize(size uint) Option { return tapeSizeOption(size) }

func (sz tapeSizeOption) apply(vm *VM) { vm.tapeSize = uint(sz) }

type pageSizeOption uint

// WithPageSize overrides the tape's underlying paged-memory page size (see
// internal/mem.DefaultBytesPageSize).
func WithPageSize(size uint) Option { return pageSizeOption(size) }

func (sz pageSizeOption) apply(vm *VM) { vm.pageSize = uint(sz) }
