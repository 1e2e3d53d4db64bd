package bfdebug

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/wartmanm/bfdebug/internal/flushio"
)

// ioCore holds the VM's I/O bindings: a pluggable byte input stream for ','
// and a pluggable, flushable byte output stream for '.', plus the closers to
// release with it: files opened via WithInputFile, and any output or tee
// writer that implements io.Closer.
type ioCore struct {
	logging

	in     *bufio.Reader
	inName string
	out    flushio.WriteFlusher

	closers []io.Closer
}

// Close flushes pending output, then closes every registered closer,
// most-recently-added first.
func (core *ioCore) Close() (err error) {
	if core.out != nil {
		err = core.out.Flush()
	}
	for i := len(core.closers) - 1; i >= 0; i-- {
		if cerr := core.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// readByte returns the next input byte. It flushes pending output first, so
// a program that prompts before reading is not left waiting on its own
// buffered prompt.
func (core *ioCore) readByte() (byte, error) {
	if core.out != nil {
		if err := core.out.Flush(); err != nil {
			return 0, err
		}
	}
	if core.in == nil {
		return 0, io.EOF
	}
	return core.in.ReadByte()
}

// writeByte emits one output byte.
func (core *ioCore) writeByte(b byte) error {
	if core.out == nil {
		return nil
	}
	_, err := core.out.Write([]byte{b})
	return err
}

// logging provides the VM's leveled, prefix-aligned trace output, wired to
// an internal/logio.Logger (or any compatible func) via WithLogf.
type logging struct {
	logfn func(mess string, args ...interface{})

	markWidth int
}

func (log *logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if n := log.markWidth - len(mark); n > 0 {
		for _, r := range mark {
			mark = strings.Repeat(string(r), n) + mark
			break
		}
	} else if n < 0 {
		log.markWidth = len(mark)
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}
