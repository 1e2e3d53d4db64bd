package bfdebug

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S5: over stops after one pass; over2 stops after all passes.
func TestController_OverVsOver2(t *testing.T) {
	const src = "+++[->+<]"

	ctrlOver, err := New(src)
	require.NoError(t, err)
	// step onto the '[' (the Add(3) runs first).
	unfinished, err := ctrlOver.Step(true)
	require.NoError(t, err)
	require.True(t, unfinished)
	require.Equal(t, "loop", ctrlOver.CurrentCommand().Kind)

	unfinished, err = ctrlOver.Over(true)
	require.NoError(t, err)
	require.True(t, unfinished)
	c0, _ := ctrlOver.TapeCell(0)
	c1, _ := ctrlOver.TapeCell(1)
	assert.Equal(t, uint(0), ctrlOver.Pointer())
	assert.Equal(t, byte(2), c0)
	assert.Equal(t, byte(1), c1)

	ctrlOver2, err := New(src)
	require.NoError(t, err)
	_, err = ctrlOver2.Step(true)
	require.NoError(t, err)

	unfinished, err = ctrlOver2.Over2(true)
	require.NoError(t, err)
	require.True(t, unfinished)
	c0, _ = ctrlOver2.TapeCell(0)
	c1, _ = ctrlOver2.TapeCell(1)
	assert.Equal(t, byte(0), c0)
	assert.Equal(t, byte(3), c1)
}

// S6: a watch at index 1 on `>+` fires exactly once, after the '+' step.
func TestController_Watchpoint(t *testing.T) {
	ctrl, err := New(">+")
	require.NoError(t, err)
	ok, msg := ctrl.AddWatch("w", 1)
	require.True(t, ok, msg)

	unfinished, err := ctrl.Step(true) // '>'
	require.NoError(t, err)
	require.True(t, unfinished)
	assert.False(t, ctrl.IsAtWatchpoint())

	fires := 0
	unfinished, err = ctrl.Step(true) // '+'
	require.NoError(t, err)
	require.True(t, unfinished)
	if ctrl.IsAtWatchpoint() {
		fires++
	}
	assert.Equal(t, 1, fires)

	entries := ctrl.WatchList()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].HasPending)
	assert.Equal(t, byte(0), entries[0].PendingFrom)
	assert.Equal(t, byte(1), entries[0].PendingTo)
}

func TestController_LoopStackInvariant(t *testing.T) {
	prog, err := Parse("+[->+[->+<]<]")
	require.NoError(t, err)
	vm := &VM{prog: prog, frontier: prog.Entry()}
	defaultOptions.apply(vm)
	tape, err := newTape(4096, DefaultTapeSize, 0)
	require.NoError(t, err)
	vm.tape = tape

	ctrl := newController(vm)
	for {
		unfinished, serr := ctrl.Step(true)
		if serr != nil || !unfinished {
			break
		}
		cur := vm.CurrentCmd()
		refs := ctrl.loopStackRefs()
		for _, loop := range refs {
			// every loop on the stack must be a (possibly transitive)
			// ancestor loop of the current command.
			assert.True(t, loop == prog.at(cur).parent || prog.isAncestorLoop(cur, loop),
				"loop stack entry %v is not an ancestor of %v", loop, cur)
		}
	}
}

func TestController_BreakpointLineTransition(t *testing.T) {
	ctrl, err := New("+\n+\n+")
	require.NoError(t, err)
	ok, _ := ctrl.AddBreakpoint(1)
	require.True(t, ok)

	unfinished, err := ctrl.Run(true)
	require.NoError(t, err)
	require.True(t, unfinished)
	assert.True(t, ctrl.IsAtBreakpoint())
	assert.Equal(t, uint32(1), ctrl.CurrentCommand().Span.Line)
}

func TestController_BreakpointAddRemoveRoundTrip(t *testing.T) {
	ctrl, err := New("+")
	require.NoError(t, err)
	ok, _ := ctrl.AddBreakpoint(5)
	require.True(t, ok)
	ok, _ = ctrl.RemoveBreakpoint(5)
	require.True(t, ok)
	assert.False(t, ctrl.isBreakpointLine(5))

	ok, msg := ctrl.RemoveBreakpoint(5)
	assert.False(t, ok)
	assert.NotEmpty(t, msg)
}

func TestController_DuplicateBreakpoint(t *testing.T) {
	ctrl, err := New("+")
	require.NoError(t, err)
	ok, _ := ctrl.AddBreakpoint(1)
	require.True(t, ok)
	ok, msg := ctrl.AddBreakpoint(1)
	assert.False(t, ok)
	assert.NotEmpty(t, msg)
}

func TestController_NoWatchpointWhenUntouched(t *testing.T) {
	ctrl, err := New("+++")
	require.NoError(t, err)
	ok, _ := ctrl.AddWatch("w", 7)
	require.True(t, ok)
	for {
		unfinished, err := ctrl.Step(true)
		require.NoError(t, err)
		if !unfinished {
			break
		}
		assert.False(t, ctrl.IsAtWatchpoint())
	}
}

func TestController_NextLine(t *testing.T) {
	ctrl, err := New("++\n++\n++")
	require.NoError(t, err)
	unfinished, err := ctrl.NextLine(true)
	require.NoError(t, err)
	require.True(t, unfinished)
	assert.Equal(t, uint32(1), ctrl.CurrentCommand().Span.Line)
}

func TestController_OutNotInLoop(t *testing.T) {
	ctrl, err := New("+")
	require.NoError(t, err)
	unfinished, err := ctrl.Out(true)
	require.NoError(t, err)
	assert.True(t, unfinished)
}
