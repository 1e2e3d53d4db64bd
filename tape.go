package bfdebug

import "github.com/wartmanm/bfdebug/internal/mem"

// DefaultTapeSize is the tape's nominal pre-allocated size.
// The tape is not bounded to this size: writes beyond it grow the
// underlying paged memory on demand (see internal/mem.Bytes), so programs
// that roam far from the origin still work, they just allocate more pages.
const DefaultTapeSize = 16384

// Tape is the VM's addressable byte memory: a paged, sparsely-allocated
// store rather than one flat slice, so that starting at DefaultTapeSize
// does not mean eagerly zeroing 16KiB up front, and growing past it does
// not mean reallocating a single backing array.
type Tape struct {
	mem mem.Bytes
}

func newTape(pageSize, prealloc, limit uint) (*Tape, error) {
	t := &Tape{}
	t.mem.PageSize = pageSize
	t.mem.Limit = limit
	if prealloc > 0 {
		if err := t.mem.Grow(prealloc); err != nil {
			return nil, TapeOutOfRangeError{Addr: prealloc - 1}
		}
	}
	return t, nil
}

// Read returns the byte at tape index i, or a TapeOutOfRangeError if i is
// past any configured memory limit.
func (t *Tape) Read(i uint) (byte, error) {
	v, err := t.mem.Load(i)
	if err != nil {
		return 0, tapeErr(i, err)
	}
	return v, nil
}

// Write stores v at tape index i, growing the tape if necessary, or
// returns a TapeOutOfRangeError if i is past any configured memory limit.
func (t *Tape) Write(i uint, v byte) error {
	if err := t.mem.Stor(i, v); err != nil {
		return tapeErr(i, err)
	}
	return nil
}

// Size reports one past the highest tape index backed by an allocated
// page so far; it is not a hard bound on addressable indices.
func (t *Tape) Size() uint { return t.mem.Size() }

func tapeErr(i uint, err error) error {
	if _, ok := err.(mem.LimitError); ok {
		return TapeOutOfRangeError{Addr: i}
	}
	return err
}
