// Package op defines the instructions understood by the brack interpreter.
package op

// Instruction is one of the eight operations in the language. Instructions
// carry no operands.
type Instruction uint8

const (
	Invalid Instruction = 0

	// Pointer movement
	MoveRight Instruction = 1
	MoveLeft  Instruction = 2

	// Cell arithmetic
	Increment Instruction = 3
	Decrement Instruction = 4

	// I/O
	Output Instruction = 5
	Input  Instruction = 6

	// Loops
	LoopOpen  Instruction = 7
	LoopClose Instruction = 8
)

// Decode maps a source byte to its Instruction. The second return value is
// false for any byte that is not one of the eight instruction characters;
// such bytes are comments and callers skip them.
func Decode(b byte) (Instruction, bool) {
	switch b {
	case '>':
		return MoveRight, true
	case '<':
		return MoveLeft, true
	case '+':
		return Increment, true
	case '-':
		return Decrement, true
	case '.':
		return Output, true
	case ',':
		return Input, true
	case '[':
		return LoopOpen, true
	case ']':
		return LoopClose, true
	default:
		return Invalid, false
	}
}

// String returns the source character for the instruction.
func (i Instruction) String() string {
	switch i {
	case MoveRight:
		return ">"
	case MoveLeft:
		return "<"
	case Increment:
		return "+"
	case Decrement:
		return "-"
	case Output:
		return "."
	case Input:
		return ","
	case LoopOpen:
		return "["
	case LoopClose:
		return "]"
	default:
		return "?"
	}
}

// Name returns the mnemonic for the instruction, for diagnostics and traces.
func (i Instruction) Name() string {
	switch i {
	case MoveRight:
		return "MOVE_RIGHT"
	case MoveLeft:
		return "MOVE_LEFT"
	case Increment:
		return "INCREMENT"
	case Decrement:
		return "DECREMENT"
	case Output:
		return "OUTPUT"
	case Input:
		return "INPUT"
	case LoopOpen:
		return "LOOP_OPEN"
	case LoopClose:
		return "LOOP_CLOSE"
	default:
		return "INVALID"
	}
}
