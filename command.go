package bfdebug

// cmdKind tags the variant of a command node in the arena.
type cmdKind uint8

const (
	cmdRead cmdKind = iota
	cmdWrite
	cmdMove
	cmdAdd
	cmdLoop
	cmdEnd
)

func (k cmdKind) String() string {
	switch k {
	case cmdRead:
		return "read"
	case cmdWrite:
		return "write"
	case cmdMove:
		return "move"
	case cmdAdd:
		return "add"
	case cmdLoop:
		return "loop"
	case cmdEnd:
		return "end"
	default:
		return "invalid"
	}
}

// cmdRef is an index into a program's command arena. noRef is the absence
// of a reference, used for a command with no parent or no successor.
type cmdRef int32

const noRef cmdRef = -1

func (ref cmdRef) valid() bool { return ref >= 0 }

// command is a tagged variant node. The enclosing loop (if any) is parent;
// next is the textual successor within the enclosing container, except for
// cmdLoop where next instead holds the exit target taken when the guard
// cell reads zero. cmdEnd's next is always noRef: it is terminal.
//
// Representing the graph as a flat arena indexed by cmdRef, rather than as
// a tree of pointers, keeps the body-end-to-loop back edge (see Parser)
// from ever becoming a reference cycle.
type command struct {
	kind   cmdKind
	span   SourcePos
	parent cmdRef

	next cmdRef // successor, or (cmdLoop) exit target

	delta int32 // cmdMove, cmdAdd
	body  cmdRef // cmdLoop: first command of the loop body
}

// Program is the immutable command graph produced by the Parser. A VM owns
// exactly one Program for its lifetime.
type Program struct {
	cmds  []command
	entry cmdRef
	end   cmdRef
}

func (p *Program) at(ref cmdRef) *command { return &p.cmds[ref] }

// Len reports how many commands (including the terminal sentinel) the
// program's arena holds.
func (p *Program) Len() int { return len(p.cmds) }

// Entry is the first command that will execute, or the end sentinel for an
// empty program.
func (p *Program) Entry() cmdRef { return p.entry }

// End is the terminal sentinel reference.
func (p *Program) End() cmdRef { return p.end }

// Span returns the source span of the given command.
func (p *Program) Span(ref cmdRef) SourcePos { return p.at(ref).span }

// Parent returns the enclosing loop of the given command, or noRef if it is
// not nested in a loop.
func (p *Program) Parent(ref cmdRef) cmdRef { return p.at(ref).parent }

// Kind returns the variant tag of the given command.
func (p *Program) Kind(ref cmdRef) cmdKind { return p.at(ref).kind }

func (p *Program) add(c command) cmdRef {
	p.cmds = append(p.cmds, c)
	return cmdRef(len(p.cmds) - 1)
}

// isAncestorLoop reports whether anc is on the static chain of enclosing
// loops of ref (used only by tests to cross-check the LoopStack invariant).
func (p *Program) isAncestorLoop(ref, anc cmdRef) bool {
	for parent := p.at(ref).parent; parent.valid(); parent = p.at(parent).parent {
		if parent == anc {
			return true
		}
	}
	return false
}
