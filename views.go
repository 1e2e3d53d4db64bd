package bfdebug

import "sort"

// MemoryRow is one row of a memory_window view: width consecutive cells
// starting at Base, with PointerAt/WatchCols marking columns of interest
// (-1, or absence from WatchCols, meaning "not on this row").
type MemoryRow struct {
	Base      uint
	Cells     []byte
	PointerAt int
	WatchCols map[int]string
}

// MemoryWindow returns up to rows rows of width cells each, starting at
// center, plus whether the tape's allocated extent (see VM.TapeSize)
// continues beyond the last row returned.
func (c *Controller) MemoryWindow(center uint, width, rows int) (out []MemoryRow, more bool) {
	if width <= 0 || rows <= 0 {
		return nil, false
	}
	base := center
	for r := 0; r < rows; r++ {
		row := MemoryRow{Base: base, Cells: make([]byte, width), PointerAt: -1}
		for i := 0; i < width; i++ {
			v, err := c.vm.TapeRead(base + uint(i))
			if err != nil {
				v = 0
			}
			row.Cells[i] = v
		}
		if ptr := c.vm.Pointer(); ptr >= base && ptr < base+uint(width) {
			row.PointerAt = int(ptr - base)
		}
		for idx, name := range c.watches {
			if idx >= base && idx < base+uint(width) {
				if row.WatchCols == nil {
					row.WatchCols = make(map[int]string)
				}
				row.WatchCols[int(idx-base)] = name
			}
		}
		out = append(out, row)
		base += uint(width)
	}
	return out, base < c.vm.TapeSize()
}

// SourceLine is one line of a source_window view.
type SourceLine struct {
	LineNo       uint32
	Text         string
	IsBreakpoint bool
	HasSpan      bool
	SpanStart    uint32
	SpanEnd      uint32
}

// SourceWindow returns up to lineCount lines of src, centred (when
// possible) on the current command's line:
// start = center - floor(count/2); clamped into [0, lastLine].
func (c *Controller) SourceWindow(src string, lineCount int) (start, end uint32, out []SourceLine) {
	lines := splitLines(src)
	lastLine := uint32(len(lines) - 1)
	if lineCount <= 0 {
		return 0, 0, nil
	}

	center := c.vm.prog.Span(c.vm.CurrentCmd()).Line
	count := uint32(lineCount)

	var s int64 = int64(center) - int64(count/2)
	e := s + int64(count)
	if s < 0 {
		e -= s
		s = 0
	}
	if e > int64(lastLine)+1 {
		s -= e - (int64(lastLine) + 1)
		e = int64(lastLine) + 1
	}
	if s < 0 {
		s = 0
	}
	start, end = uint32(s), uint32(e)

	span := c.vm.prog.Span(c.vm.CurrentCmd())
	for ln := start; ln < end; ln++ {
		line := SourceLine{LineNo: ln, IsBreakpoint: c.isBreakpointLine(ln)}
		if int(ln) < len(lines) {
			line.Text = lines[ln]
		}
		if span.Line == ln {
			line.HasSpan = true
			line.SpanStart, line.SpanEnd = span.Start, span.End
		}
		out = append(out, line)
	}
	return start, end, out
}

func splitLines(src string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			lines = append(lines, src[start:i])
			start = i + 1
		}
	}
	lines = append(lines, src[start:])
	return lines
}

// WatchEntry is one row of a watch_list view.
type WatchEntry struct {
	Name        string
	Index       uint
	Value       byte
	HasPending  bool
	PendingFrom byte
	PendingTo   byte
}

// WatchList returns all watches sorted by tape index. PendingFrom/To is
// populated only for the watch, if any, that the last forward delta
// targeted.
func (c *Controller) WatchList() []WatchEntry {
	indices := make([]uint, 0, len(c.watches))
	for i := range c.watches {
		indices = append(indices, i)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	var pendingIdx uint
	var pendingFrom, pendingTo byte
	hasPending := false
	if cursor := c.vm.hist.Cursor(); cursor > 0 {
		fwd := c.vm.hist.forwardAt(cursor - 1)
		bwd := c.vm.hist.backwardAt(cursor - 1)
		if fwd.HasValue {
			pendingIdx = c.vm.Pointer()
			pendingFrom, pendingTo = bwd.Value, fwd.Value
			hasPending = true
		}
	}

	out := make([]WatchEntry, 0, len(indices))
	for _, i := range indices {
		v, _ := c.vm.TapeRead(i)
		e := WatchEntry{Name: c.watches[i], Index: i, Value: v}
		if hasPending && i == pendingIdx {
			e.HasPending = true
			e.PendingFrom, e.PendingTo = pendingFrom, pendingTo
		}
		out = append(out, e)
	}
	return out
}
