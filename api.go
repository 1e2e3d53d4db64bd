package bfdebug

import (
	"strconv"

	"github.com/wartmanm/bfdebug/internal/mem"
)

// New parses source and constructs a ready-to-step Controller over it,
// applying opts (see options.go) on top of the defaults: empty input,
// discarded output, DefaultTapeSize tape, no memory limit, no tracing.
func New(source string, opts ...Option) (*Controller, error) {
	prog, err := Parse(source)
	if err != nil {
		return nil, err
	}

	vm := &VM{prog: prog, frontier: prog.Entry()}
	defaultOptions.apply(vm)
	Options(opts...).apply(vm)

	if vm.tapeSize == 0 {
		vm.tapeSize = DefaultTapeSize
	}
	if vm.pageSize == 0 {
		vm.pageSize = mem.DefaultBytesPageSize
	}
	tape, err := newTape(vm.pageSize, vm.tapeSize, vm.memLimit)
	if err != nil {
		return nil, err
	}
	vm.tape = tape

	return newController(vm), nil
}

// Close flushes the VM's output, then closes input files it opened (see
// WithInputFile) and any output or tee writer that implements io.Closer.
func (c *Controller) Close() error { return c.vm.Close() }

// Command is a snapshot of one command graph node, safe to hand to a
// frontend (it does not expose the internal arena index type).
type Command struct {
	Kind string
	Span SourcePos
}

// CurrentCommand returns the command at the cursor (see VM.CurrentCmd).
func (c *Controller) CurrentCommand() Command {
	ref := c.vm.CurrentCmd()
	return Command{Kind: c.vm.prog.Kind(ref).String(), Span: c.vm.prog.Span(ref)}
}

// Pointer returns the current data pointer.
func (c *Controller) Pointer() uint { return c.vm.Pointer() }

// TapeCell returns the byte at tape index i.
func (c *Controller) TapeCell(i uint) (byte, error) { return c.vm.TapeRead(i) }

// LoopStack returns the dynamic chain of enclosing loops of the
// about-to-execute command, outermost first.
func (c *Controller) LoopStack() []Command {
	refs := c.loopStackRefs()
	out := make([]Command, len(refs))
	for i, ref := range refs {
		out[i] = Command{Kind: c.vm.prog.Kind(ref).String(), Span: c.vm.prog.Span(ref)}
	}
	return out
}

// AddBreakpoint adds line to the breakpoint set. ok is false, with an
// explanatory message, if line is already present.
func (c *Controller) AddBreakpoint(line uint32) (ok bool, msg string) {
	if _, exists := c.breakpoints[line]; exists {
		return false, DuplicateBreakpointError{Line: line}.Error()
	}
	c.breakpoints[line] = struct{}{}
	return true, ""
}

// RemoveBreakpoint removes line from the breakpoint set. ok is false, with
// an explanatory message, if line was not present.
func (c *Controller) RemoveBreakpoint(line uint32) (ok bool, msg string) {
	if _, exists := c.breakpoints[line]; !exists {
		return false, NoSuchBreakpointError{Line: line}.Error()
	}
	delete(c.breakpoints, line)
	return true, ""
}

// AddWatch adds a named watch at tape index i. ok is false, with an
// explanatory message, if i already has a watch.
func (c *Controller) AddWatch(name string, i uint) (ok bool, msg string) {
	if existing, exists := c.watches[i]; exists {
		return false, DuplicateWatchError{Index: i, Name: existing}.Error()
	}
	c.watches[i] = name
	return true, ""
}

// RemoveWatchByIndex removes the watch at tape index i, if any.
func (c *Controller) RemoveWatchByIndex(i uint) (ok bool, msg string) {
	if _, exists := c.watches[i]; !exists {
		return false, NoSuchWatchError{Key: indexKey(i)}.Error()
	}
	delete(c.watches, i)
	return true, ""
}

// RemoveWatchByName removes the watch named n, if any, searching by the
// name the caller passed.
func (c *Controller) RemoveWatchByName(n string) (ok bool, msg string) {
	for i, name := range c.watches {
		if name == n {
			delete(c.watches, i)
			return true, ""
		}
	}
	return false, NoSuchWatchError{Key: n}.Error()
}

func indexKey(i uint) string { return "index " + strconv.FormatUint(uint64(i), 10) }

// SetInputFromFile opens path in binary mode and swaps it in as the VM's
// input stream for subsequent Read (',') steps.
func (c *Controller) SetInputFromFile(path string) error {
	f, err := openInputFile(path)
	if err != nil {
		return err
	}
	f.Close()
	WithInputFile(path).apply(c.vm)
	return nil
}
