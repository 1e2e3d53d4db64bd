package bfdebug

// Controller wraps a VM with structured execution context — the dynamic
// loop stack, line tracking for breakpoints, and the composite steppers
// built over the VM's primitive step_forward/step_backward — plus
// breakpoint and watchpoint policy. It is the engine's public surface; see
// api.go for construction and the remaining query/I-O methods, and views.go
// for the view helpers.
type Controller struct {
	vm *VM

	loopStack []cmdRef
	lineNow   uint32
	linePrev  uint32

	breakpoints map[uint32]struct{}
	watches     map[uint]string
}

func newController(vm *VM) *Controller {
	c := &Controller{
		vm:          vm,
		breakpoints: make(map[uint32]struct{}),
		watches:     make(map[uint]string),
	}
	c.lineNow = vm.prog.Span(vm.CurrentCmd()).Line
	c.linePrev = c.lineNow
	return c
}

// Step executes one primitive step in the given direction, returning
// unfinished=false if the program has ended that way (EndOfProgram going
// forward, AtOrigin going backward). Any other error is returned as-is and
// leaves all state unchanged.
func (c *Controller) Step(forward bool) (unfinished bool, err error) {
	if forward {
		err = c.vm.StepForward()
	} else {
		err = c.vm.StepBackward()
	}
	if err != nil {
		switch err.(type) {
		case EndOfProgramError, AtOriginError:
			return false, nil
		default:
			return true, err
		}
	}
	c.bookkeep()
	return true, nil
}

// bookkeep updates the loop stack and line tracking after a successful
// step. It is direction-agnostic, driven only by the current command and
// its static parent.
func (c *Controller) bookkeep() {
	cmd := c.vm.CurrentCmd()

	var head cmdRef = noRef
	if n := len(c.loopStack); n > 0 {
		head = c.loopStack[n-1]
	}

	parent := c.vm.prog.Parent(cmd)
	switch {
	case cmd == head:
		c.loopStack = c.loopStack[:len(c.loopStack)-1]
	case parent.valid() && parent != head:
		c.loopStack = append(c.loopStack, parent)
	}

	c.linePrev = c.lineNow
	c.lineNow = c.vm.prog.Span(cmd).Line
}

// loopStackRefs returns the dynamic chain of enclosing loops of the
// about-to-execute command, outermost first.
func (c *Controller) loopStackRefs() []cmdRef {
	out := make([]cmdRef, len(c.loopStack))
	copy(out, c.loopStack)
	return out
}

func (c *Controller) lineTransitioned() bool { return c.lineNow != c.linePrev }

func (c *Controller) isBreakpointLine(line uint32) bool {
	_, ok := c.breakpoints[line]
	return ok
}

// IsAtBreakpoint reports whether the current command sits at a line
// transition into a breakpointed line.
func (c *Controller) IsAtBreakpoint() bool {
	return c.lineTransitioned() && c.isBreakpointLine(c.lineNow)
}

// IsAtWatchpoint reports whether the last step wrote to a watched index.
func (c *Controller) IsAtWatchpoint() bool {
	cursor := c.vm.hist.Cursor()
	if cursor == 0 {
		return false
	}
	d := c.vm.hist.forwardAt(cursor - 1)
	if !d.HasValue {
		return false
	}
	_, ok := c.watches[c.vm.Pointer()]
	return ok
}

// Run steps until a breakpoint, a watchpoint, or the program ends in the
// given direction.
func (c *Controller) Run(forward bool) (unfinished bool, err error) {
	for {
		unfinished, err = c.Step(forward)
		if !unfinished || err != nil {
			return unfinished, err
		}
		if c.IsAtBreakpoint() || c.IsAtWatchpoint() {
			return true, nil
		}
	}
}

// Over steps until the loop stack depth is back to at most what it was on
// entry: one body iteration completes, or we fall out of the loop entirely.
func (c *Controller) Over(forward bool) (unfinished bool, err error) {
	d := len(c.loopStack)
	for {
		unfinished, err = c.Step(forward)
		if !unfinished || err != nil {
			return unfinished, err
		}
		if len(c.loopStack) <= d {
			return true, nil
		}
	}
}

// Over2 repeats Over until the current command differs from the one at
// entry, skipping every remaining pass through the loop.
func (c *Controller) Over2(forward bool) (unfinished bool, err error) {
	guard := c.vm.CurrentCmd()
	for {
		unfinished, err = c.Over(forward)
		if !unfinished || err != nil {
			return unfinished, err
		}
		if c.vm.CurrentCmd() != guard {
			return true, nil
		}
	}
}

// Out steps until the loop stack is shallower than it was on entry and the
// current command is not the parent loop we started in (i.e. we've truly
// left it, not merely re-entered its guard). No-ops if not currently in a
// loop.
func (c *Controller) Out(forward bool) (unfinished bool, err error) {
	d := len(c.loopStack)
	if d == 0 {
		return true, nil
	}
	parent := c.vm.prog.Parent(c.vm.CurrentCmd())
	for {
		unfinished, err = c.Step(forward)
		if !unfinished || err != nil {
			return unfinished, err
		}
		if len(c.loopStack) < d && c.vm.CurrentCmd() != parent {
			return true, nil
		}
	}
}

// NextLine steps until the about-to-execute command's line differs from
// the one at entry.
func (c *Controller) NextLine(forward bool) (unfinished bool, err error) {
	entryLine := c.lineNow
	for {
		unfinished, err = c.Step(forward)
		if !unfinished || err != nil {
			return unfinished, err
		}
		if c.lineNow != entryLine {
			return true, nil
		}
	}
}
