package bfdebug

import "fmt"

// ParseError reports a malformed program: an unmatched '[' or ']'. Span
// covers the offending bracket (or, for an unmatched '[' run off the end of
// input, the final empty span at EOF).
type ParseError struct {
	Span   SourcePos
	Reason string
}

func (err *ParseError) Error() string {
	return fmt.Sprintf("parse error at %v: %v", err.Span, err.Reason)
}

// Parse builds a Program from source text, per spec: the eight instruction
// characters, ';'/'#'/"//" line comments, coalesced '+'/'-' and '<'/'>' runs,
// and '['/']' nesting. Any other character is a no-op that still
// participates in newline counting.
func Parse(src string) (*Program, error) {
	ps := parser{src: src, line: 0}
	prog := &Program{}
	ps.prog = prog

	end := prog.add(command{
		kind:   cmdEnd,
		span:   SourcePos{Line: ps.countNewlines(), Start: uint32(len(src)), End: uint32(len(src))},
		parent: noRef,
		next:   noRef,
	})
	prog.end = end

	cmds, err := ps.parseBlock(noRef, false)
	if err != nil {
		return nil, err
	}

	if len(cmds) == 0 {
		prog.entry = end
	} else {
		prog.entry = cmds[0]
		linkSequence(prog, cmds, end)
	}

	return prog, nil
}

// linkSequence wires next across a straight-line run of sibling commands,
// ending at tail (either the program's end sentinel, for a top-level block,
// or the owning Loop, for a loop body).
func linkSequence(prog *Program, cmds []cmdRef, tail cmdRef) {
	for i := 0; i+1 < len(cmds); i++ {
		prog.at(cmds[i]).next = cmds[i+1]
	}
	prog.at(cmds[len(cmds)-1]).next = tail
}

type parser struct {
	src  string
	pos  uint32
	line uint32
	prog *Program
}

func (ps *parser) countNewlines() uint32 {
	n := ps.line
	for i := ps.pos; i < uint32(len(ps.src)); i++ {
		if ps.src[i] == '\n' {
			n++
		}
	}
	return n
}

// parseBlock consumes commands up to either end of input (valid only when
// not nested in a loop) or a matching ']' (which it consumes), returning the
// sibling commands found. inLoop controls which of those terminations is
// the error case.
func (ps *parser) parseBlock(parent cmdRef, inLoop bool) ([]cmdRef, error) {
	var cmds []cmdRef
	for {
		if ps.pos >= uint32(len(ps.src)) {
			if inLoop {
				pos := uint32(len(ps.src))
				return cmds, &ParseError{
					Span:   SourcePos{Line: ps.line, Start: pos, End: pos},
					Reason: "unmatched '['",
				}
			}
			return cmds, nil
		}

		c := ps.src[ps.pos]
		switch {
		case c == '.':
			cmds = append(cmds, ps.prog.add(command{kind: cmdWrite, span: ps.span1(), parent: parent}))
			ps.pos++

		case c == ',':
			cmds = append(cmds, ps.prog.add(command{kind: cmdRead, span: ps.span1(), parent: parent}))
			ps.pos++

		case c == '+' || c == '-':
			cmds = ps.parseAddRun(cmds, parent)

		case c == '<' || c == '>':
			cmds = ps.parseMoveRun(cmds, parent)

		case c == '[':
			ref, err := ps.parseLoop(parent)
			if err != nil {
				return cmds, err
			}
			cmds = append(cmds, ref)

		case c == ']':
			if !inLoop {
				return cmds, &ParseError{Span: ps.span1(), Reason: "unmatched ']'"}
			}
			ps.pos++
			return cmds, nil

		case c == ';' || c == '#' || (c == '/' && ps.peek(1) == '/'):
			ps.skipComment()

		case c == '\n':
			ps.line++
			ps.pos++

		default:
			ps.pos++
		}
	}
}

func (ps *parser) parseAddRun(cmds []cmdRef, parent cmdRef) []cmdRef {
	start := ps.pos
	var sum int32
	for ps.pos < uint32(len(ps.src)) {
		switch ps.src[ps.pos] {
		case '+':
			sum++
		case '-':
			sum--
		default:
			goto done
		}
		ps.pos++
	}
done:
	if sum == 0 {
		return cmds
	}
	span := SourcePos{Line: ps.line, Start: start, End: ps.pos}
	return append(cmds, ps.prog.add(command{kind: cmdAdd, span: span, parent: parent, delta: sum}))
}

func (ps *parser) parseMoveRun(cmds []cmdRef, parent cmdRef) []cmdRef {
	start := ps.pos
	var sum int32
	for ps.pos < uint32(len(ps.src)) {
		switch ps.src[ps.pos] {
		case '<':
			sum--
		case '>':
			sum++
		default:
			goto done
		}
		ps.pos++
	}
done:
	if sum == 0 {
		return cmds
	}
	span := SourcePos{Line: ps.line, Start: start, End: ps.pos}
	return append(cmds, ps.prog.add(command{kind: cmdMove, span: span, parent: parent, delta: sum}))
}

// parseLoop consumes a '[' .. ']' block, wiring the body's internal
// sequence and the back edge from its last command to the Loop node itself:
// re-evaluation of the guard happens by falling through to the Loop node
// again, not via any special-cased "loop" control flow.
func (ps *parser) parseLoop(parent cmdRef) (cmdRef, error) {
	start := ps.pos
	ps.pos++ // consume '['

	ref := ps.prog.add(command{
		kind:   cmdLoop,
		span:   SourcePos{Line: ps.line, Start: start, End: start + 1},
		parent: parent,
	})

	body, err := ps.parseBlock(ref, true)
	if err != nil {
		return noRef, err
	}

	loop := ps.prog.at(ref)
	loop.span.End = ps.pos // parseBlock consumed the closing ']'
	if len(body) == 0 {
		// An empty loop body has no command for the guard to reach when
		// taken, so it re-dispatches the Loop node itself: if the cell is
		// non-zero this is a genuine unbounded spin, matching brainfuck's
		// usual "[]" trap semantics.
		loop.body = ref
	} else {
		linkSequence(ps.prog, body, ref)
		loop.body = body[0]
	}

	return ref, nil
}

func (ps *parser) skipComment() {
	for ps.pos < uint32(len(ps.src)) && ps.src[ps.pos] != '\n' {
		ps.pos++
	}
}

func (ps *parser) span1() SourcePos {
	return SourcePos{Line: ps.line, Start: ps.pos, End: ps.pos + 1}
}

func (ps *parser) peek(ahead int) byte {
	i := int(ps.pos) + ahead
	if i < 0 || i >= len(ps.src) {
		return 0
	}
	return ps.src[i]
}
