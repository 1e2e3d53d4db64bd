package bfdebug

import "fmt"

// SourcePos is a half-open span of byte offsets in the original source text,
// together with the (0-based) line on which it starts. Coalesced runs (see
// Parser) carry the span covering the whole run, not just its first
// character.
type SourcePos struct {
	Line  uint32
	Start uint32
	End   uint32
}

func (pos SourcePos) String() string {
	return fmt.Sprintf("%v:[%v,%v)", pos.Line, pos.Start, pos.End)
}
