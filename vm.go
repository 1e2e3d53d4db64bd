package bfdebug

// VM is the execution engine: it owns the command graph, tape, and
// execution history, and provides the primitive forward/backward stepping
// operations every composite stepper in Controller is built from.
type VM struct {
	ioCore

	prog *Program
	tape *Tape
	hist ExecutionHistory

	ptr      int
	frontier cmdRef // command about to execute once the cursor reaches Len()

	pageSize uint
	tapeSize uint
	memLimit uint
}

// Pointer returns the current data pointer.
func (vm *VM) Pointer() uint { return uint(vm.ptr) }

// SetPointer directly edits the data pointer, bypassing history. Callers
// that do this should usually follow with ResetFuture, since any replay
// steps recorded against the old pointer position are now stale.
func (vm *VM) SetPointer(i uint) { vm.ptr = int(i) }

// TapeRead returns the byte at tape index i.
func (vm *VM) TapeRead(i uint) (byte, error) { return vm.tape.Read(i) }

// TapeWrite directly edits tape index i, bypassing history.
func (vm *VM) TapeWrite(i uint, v byte) error { return vm.tape.Write(i, v) }

// TapeSize reports one past the highest tape index backed by an allocated
// page so far, including the tape's initial preallocation.
func (vm *VM) TapeSize() uint { return vm.tape.Size() }

// Program returns the parsed command graph this VM is executing.
func (vm *VM) Program() *Program { return vm.prog }

// History returns the VM's execution history.
func (vm *VM) History() *ExecutionHistory { return &vm.hist }

// CurrentCmd returns the command at the cursor: the one about to execute
// if stepping forward, or (when replaying) the one whose recorded forward
// delta will be re-applied.
func (vm *VM) CurrentCmd() cmdRef {
	if vm.hist.Cursor() < vm.hist.Len() {
		return vm.hist.forwardAt(vm.hist.Cursor()).Cmd
	}
	return vm.frontier
}

// StepForwardNew executes the command at cursor == Len(), appending a new
// forward/backward delta pair and advancing both cursor and Len(). Returns
// EndOfProgramError if already at the terminal sentinel.
func (vm *VM) StepForwardNew() error {
	cmd := vm.frontier
	if vm.prog.at(cmd).kind == cmdEnd {
		return EndOfProgramError{}
	}

	fwd, bwd, err := vm.dispatch(cmd)
	if err != nil {
		vm.logf("!", "step %v failed: %v", cmd, err)
		return err
	}

	vm.hist.append(fwd, bwd)
	vm.apply(fwd)
	vm.frontier = vm.next(cmd)
	vm.logStep(cmd)
	return nil
}

// StepForwardReplay re-applies the forward delta already recorded at the
// cursor, advancing it without creating a new delta.
func (vm *VM) StepForwardReplay() error {
	if vm.hist.Cursor() >= vm.hist.Len() {
		return EndOfProgramError{}
	}
	d := vm.hist.forwardAt(vm.hist.Cursor())
	vm.apply(d)
	vm.hist.advance()
	return nil
}

// StepForward dispatches to StepForwardReplay while there is recorded
// future to replay, else to StepForwardNew.
func (vm *VM) StepForward() error {
	if vm.hist.Cursor() < vm.hist.Len() {
		return vm.StepForwardReplay()
	}
	return vm.StepForwardNew()
}

// StepBackward applies the backward delta immediately before the cursor,
// retreating it. Returns AtOriginError if the cursor is already 0.
func (vm *VM) StepBackward() error {
	if vm.hist.Cursor() == 0 {
		return AtOriginError{}
	}
	d := vm.hist.backwardAt(vm.hist.Cursor() - 1)
	vm.apply(d)
	vm.hist.retreat()
	return nil
}

// ResetFuture truncates the history to cursor+keep, discarding replayable
// future beyond it and restoring the frontier to the command that would
// have executed there. A no-op if there is nothing to discard.
func (vm *VM) ResetFuture(keep int) {
	if keep < 0 {
		keep = 0
	}
	length := vm.hist.Cursor() + keep
	if length >= vm.hist.Len() {
		return
	}
	vm.frontier = vm.hist.forwardAt(length).Cmd
	vm.hist.resetFuture(keep)
}

// ResetPast shifts the history window so at most keep backward steps
// remain before the cursor, bounding history memory.
func (vm *VM) ResetPast(keep int) {
	vm.hist.resetPast(keep)
}

// apply restores/advances tape+pointer state per one delta record, shared
// by new steps, replay, and backward undo: the three only differ in which
// delta they pick and which direction the cursor moves.
func (vm *VM) apply(d StepDelta) {
	if d.HasPos {
		vm.ptr = int(d.Pos)
	}
	if d.HasValue {
		// tape writes here cannot themselves fail: the position they target
		// was already range-checked by dispatch before this delta existed.
		_ = vm.tape.Write(uint(vm.ptr), d.Value)
	}
}

// dispatch executes the effect of cmd once, without touching history or
// the frontier, returning the forward/backward delta pair to record. A
// dispatch that returns an error must not have mutated anything.
func (vm *VM) dispatch(cmd cmdRef) (fwd, bwd StepDelta, err error) {
	c := vm.prog.at(cmd)
	switch c.kind {
	case cmdRead:
		b, rerr := vm.readByte()
		if rerr != nil {
			return StepDelta{}, StepDelta{}, InputExhaustedError{}
		}
		old, rerr := vm.tape.Read(uint(vm.ptr))
		if rerr != nil {
			return StepDelta{}, StepDelta{}, rerr
		}
		fwd = StepDelta{Cmd: cmd, HasValue: true, Value: b}
		bwd = StepDelta{Cmd: cmd, HasValue: true, Value: old}
		return fwd, bwd, nil

	case cmdWrite:
		v, rerr := vm.tape.Read(uint(vm.ptr))
		if rerr != nil {
			return StepDelta{}, StepDelta{}, rerr
		}
		if werr := vm.writeByte(v); werr != nil {
			return StepDelta{}, StepDelta{}, werr
		}
		return StepDelta{Cmd: cmd}, StepDelta{Cmd: cmd}, nil

	case cmdMove:
		newPtr := vm.ptr + int(c.delta)
		if newPtr < 0 {
			return StepDelta{}, StepDelta{}, TapeOutOfRangeError{Addr: uint(-newPtr)}
		}
		fwd = StepDelta{Cmd: cmd, HasPos: true, Pos: uint32(newPtr)}
		bwd = StepDelta{Cmd: cmd, HasPos: true, Pos: uint32(vm.ptr)}
		return fwd, bwd, nil

	case cmdAdd:
		old, rerr := vm.tape.Read(uint(vm.ptr))
		if rerr != nil {
			return StepDelta{}, StepDelta{}, rerr
		}
		nv := wrapByte(int(old) + int(c.delta))
		fwd = StepDelta{Cmd: cmd, HasValue: true, Value: nv}
		bwd = StepDelta{Cmd: cmd, HasValue: true, Value: old}
		return fwd, bwd, nil

	case cmdLoop:
		// No delta: the branch taken is recomputed by next() below, from
		// the live tape, and is implicitly recorded by *which* command
		// ends up as the next forward delta's Cmd.
		return StepDelta{Cmd: cmd}, StepDelta{Cmd: cmd}, nil

	default:
		return StepDelta{}, StepDelta{}, EndOfProgramError{}
	}
}

// next computes the command that follows cmd once its effect (if any) has
// already been applied, consulting the live tape only for cmdLoop.
func (vm *VM) next(cmd cmdRef) cmdRef {
	c := vm.prog.at(cmd)
	if c.kind == cmdLoop {
		v, _ := vm.tape.Read(uint(vm.ptr))
		if v != 0 {
			return c.body
		}
	}
	return c.next
}

func wrapByte(v int) byte {
	v &= 0xff
	return byte(v)
}

func (vm *VM) logStep(cmd cmdRef) {
	if vm.logfn == nil {
		return
	}
	span := vm.prog.Span(cmd)
	vm.logf("@", "%v %v ptr:%v", span, vm.prog.Kind(cmd), vm.ptr)
}
