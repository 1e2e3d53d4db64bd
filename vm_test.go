package bfdebug

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wartmanm/bfdebug/internal/mem"
)

func newTestVM(t *testing.T, src string, opts ...Option) *VM {
	t.Helper()
	prog, err := Parse(src)
	require.NoError(t, err)

	vm := &VM{prog: prog, frontier: prog.Entry()}
	defaultOptions.apply(vm)
	Options(opts...).apply(vm)

	tape, err := newTape(mem.DefaultBytesPageSize, DefaultTapeSize, vm.memLimit)
	require.NoError(t, err)
	vm.tape = tape
	return vm
}

func runAll(t *testing.T, vm *VM) {
	t.Helper()
	for {
		err := vm.StepForward()
		if err != nil {
			_, isEnd := err.(EndOfProgramError)
			require.True(t, isEnd, "unexpected step error: %v", err)
			return
		}
	}
}

// S1: Hello, World! with empty input.
func TestVM_HelloWorld(t *testing.T) {
	const src = `+[-->-[>>+>-----<<]<--<---]>-.>>>+.>>..+++[.>]<<<<.+++.------.<<-.>>>>+.`
	var out bytes.Buffer
	vm := newTestVM(t, src, WithOutput(&out))
	runAll(t, vm)
	assert.Equal(t, "Hello, World!", out.String())
}

// S2: Echo-one.
func TestVM_EchoOne(t *testing.T) {
	vm := newTestVM(t, ",.", WithInput(bytes.NewReader([]byte{0x41})))
	var out bytes.Buffer
	WithOutput(&out).apply(vm)

	require.NoError(t, vm.StepForward())
	require.NoError(t, vm.StepForward())
	assert.Equal(t, "\x41", out.String())
	assert.Equal(t, vm.hist.Len(), vm.hist.Cursor())
	assert.Equal(t, 2, vm.hist.Cursor())

	// Undoing '.' has no tape effect; undoing ',' restores cell 0.
	require.NoError(t, vm.StepBackward())
	require.NoError(t, vm.StepBackward())
	v, err := vm.TapeRead(0)
	require.NoError(t, err)
	assert.Equal(t, byte(0), v)
}

// S3: Reversibility.
func TestVM_Reversibility(t *testing.T) {
	vm := newTestVM(t, "++++[->+<]")
	runAll(t, vm)

	for vm.hist.Cursor() > 0 {
		require.NoError(t, vm.StepBackward())
	}

	c0, err := vm.TapeRead(0)
	require.NoError(t, err)
	c1, err := vm.TapeRead(1)
	require.NoError(t, err)
	assert.Equal(t, byte(0), c0)
	assert.Equal(t, byte(0), c1)
	assert.Equal(t, uint(0), vm.Pointer())
}

// S4: Loop skip — guard dispatches exactly once and leaves the tape
// untouched when the cell is already zero.
func TestVM_LoopSkip(t *testing.T) {
	vm := newTestVM(t, "[++]")
	require.NoError(t, vm.StepForward())
	assert.Equal(t, 1, vm.hist.Len())
	assert.Equal(t, vm.prog.End(), vm.CurrentCmd())

	_, isEnd := vm.StepForward().(EndOfProgramError)
	assert.True(t, isEnd)

	v, err := vm.TapeRead(0)
	require.NoError(t, err)
	assert.Equal(t, byte(0), v)
}

func TestVM_MoveBelowZero(t *testing.T) {
	vm := newTestVM(t, "<")
	err := vm.StepForward()
	var rangeErr TapeOutOfRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, 0, vm.hist.Len(), "failed step must not append a delta")
	assert.Equal(t, uint(0), vm.Pointer(), "failed step must not move the pointer")
}

func TestVM_InputExhausted(t *testing.T) {
	vm := newTestVM(t, ",", WithInput(bytes.NewReader(nil)))
	err := vm.StepForward()
	var inErr InputExhaustedError
	require.ErrorAs(t, err, &inErr)
	assert.Equal(t, 0, vm.hist.Len())
}

// Property 1: forward k steps then backward k steps restores tape/pointer.
func TestVM_ForwardBackwardSymmetry(t *testing.T) {
	progs := []string{
		"++++[->+<]",
		"+++[->++<]>---[-<+++>]",
		",.>,.>,.",
		"+>+>+>+<<<[->>>+<<<]",
	}
	for _, src := range progs {
		src := src
		t.Run(src, func(t *testing.T) {
			vm := newTestVM(t, src, WithInput(bytes.NewReader([]byte{1, 2, 3})))

			var before [8]byte
			for i := range before {
				before[i], _ = vm.TapeRead(uint(i))
			}
			startPtr := vm.Pointer()

			k := 0
			for {
				if err := vm.StepForward(); err != nil {
					break
				}
				k++
			}

			for i := 0; i < k; i++ {
				require.NoError(t, vm.StepBackward())
			}

			var after [8]byte
			for i := range after {
				after[i], _ = vm.TapeRead(uint(i))
			}
			assert.Equal(t, before, after)
			assert.Equal(t, startPtr, vm.Pointer())
			assert.Equal(t, 0, vm.hist.Cursor())
		})
	}
}

func TestVM_ResetFuture(t *testing.T) {
	vm := newTestVM(t, "+\n+\n+")
	require.NoError(t, vm.StepForward())
	require.NoError(t, vm.StepForward())
	require.NoError(t, vm.StepForward())
	require.NoError(t, vm.StepBackward())
	require.NoError(t, vm.StepBackward())

	vm.ResetFuture(0)
	assert.Equal(t, 1, vm.hist.Len())
	assert.Equal(t, 1, vm.hist.Cursor())
}

func TestVM_ResetPast(t *testing.T) {
	vm := newTestVM(t, "+\n+\n+")
	runAll(t, vm)
	vm.ResetPast(1)
	assert.LessOrEqual(t, vm.hist.Cursor(), 1)
}

func TestVM_WithTeeMirrorsOutput(t *testing.T) {
	var primary, mirror bytes.Buffer
	vm := newTestVM(t, "+.", WithOutput(&primary), WithTee(&mirror))
	runAll(t, vm)
	assert.Equal(t, []byte{1}, primary.Bytes())
	assert.Equal(t, []byte{1}, mirror.Bytes())
}
