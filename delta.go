package bfdebug

// StepDelta is the before (backward) or after (forward) record of one
// atomic command execution. Exactly one of Value/Pos is set for an
// effectful step (Read and Add carry Value, Move carries Pos); both are
// unset for Write, loop-guard dispatches and the terminal sentinel.
type StepDelta struct {
	Cmd cmdRef

	HasValue bool
	Value    byte

	HasPos bool
	Pos    uint32
}

// ExecutionHistory holds the two parallel delta sequences that make
// stepping reversible: forward[i] is what step i did, backward[i] is the
// value/position it overwrote. cursor is the current playback position;
// indices below it are past, at-or-above are replayable future.
type ExecutionHistory struct {
	forward  []StepDelta
	backward []StepDelta
	cursor   int
}

// Len reports how many steps have ever been executed (the high-water mark
// of the history, not the current cursor).
func (h *ExecutionHistory) Len() int { return len(h.forward) }

// Cursor reports the current playback position, 0 <= cursor <= Len().
func (h *ExecutionHistory) Cursor() int { return h.cursor }

func (h *ExecutionHistory) append(fwd, bwd StepDelta) {
	h.forward = append(h.forward, fwd)
	h.backward = append(h.backward, bwd)
	h.cursor = len(h.forward)
}

func (h *ExecutionHistory) advance() { h.cursor++ }
func (h *ExecutionHistory) retreat() { h.cursor-- }

func (h *ExecutionHistory) forwardAt(i int) StepDelta  { return h.forward[i] }
func (h *ExecutionHistory) backwardAt(i int) StepDelta { return h.backward[i] }

// resetFuture truncates both delta arrays to length cursor+keep, discarding
// replayable future beyond that point. A no-op if there is nothing to
// discard.
func (h *ExecutionHistory) resetFuture(keep int) {
	if keep < 0 {
		keep = 0
	}
	length := h.cursor + keep
	if length >= len(h.forward) {
		return
	}
	h.forward = h.forward[:length]
	h.backward = h.backward[:length]
}

// resetPast shifts the history window so that at most keep backward steps
// remain before the cursor, lowering Len() and Cursor() by the same amount.
// Bounds history memory for long-running sessions.
func (h *ExecutionHistory) resetPast(keep int) {
	if keep < 0 {
		keep = 0
	}
	start := h.cursor - keep
	if start <= 0 {
		return
	}
	h.forward = append([]StepDelta(nil), h.forward[start:]...)
	h.backward = append([]StepDelta(nil), h.backward[start:]...)
	h.cursor -= start
}
