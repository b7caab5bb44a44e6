package cpu

import "strings"

// Register is a destination or operand register.
type Register uint8

const (
	// RegNone marks a character that is not a register.
	RegNone Register = iota
	// RegA is the address register.
	RegA
	// RegD is the data register.
	RegD
	// RegM is the memory cell addressed by A.
	RegM
)

// ParseRegister maps 'A', 'D' and 'M' to their registers, anything else to RegNone.
func ParseRegister(c byte) Register {
	switch c {
	case 'A':
		return RegA
	case 'D':
		return RegD
	case 'M':
		return RegM
	}
	return RegNone
}

func (r Register) String() string {
	switch r {
	case RegA:
		return "A"
	case RegD:
		return "D"
	case RegM:
		return "M"
	}
	return "?"
}

// Source is one operand of a computation.
type Source uint8

const (
	// SourceNone is the absent right-hand operand of unary and bare computations.
	SourceNone Source = iota
	// SourceZero is the constant 0.
	SourceZero
	// SourceOne is the constant 1.
	SourceOne
	// SourceA reads the A register.
	SourceA
	// SourceD reads the D register.
	SourceD
	// SourceM reads RAM[A].
	SourceM
)

// ParseSource maps the operand characters 0, 1, A, D and M to a Source.
func ParseSource(c byte) Source {
	switch c {
	case '0':
		return SourceZero
	case '1':
		return SourceOne
	}
	return RegisterSource(ParseRegister(c))
}

// RegisterSource wraps a register as an operand.
func RegisterSource(r Register) Source {
	switch r {
	case RegA:
		return SourceA
	case RegD:
		return SourceD
	case RegM:
		return SourceM
	}
	return SourceNone
}

// Register returns the register behind a register operand.
func (s Source) Register() (Register, bool) {
	switch s {
	case SourceA:
		return RegA, true
	case SourceD:
		return RegD, true
	case SourceM:
		return RegM, true
	}
	return RegNone, false
}

func (s Source) String() string {
	switch s {
	case SourceZero:
		return "0"
	case SourceOne:
		return "1"
	case SourceNone:
		return ""
	}
	r, _ := s.Register()
	return r.String()
}

// Operation combines the sources of a computation.
type Operation uint8

const (
	// OpNone passes the left source through unchanged.
	OpNone Operation = iota
	// OpNot is bitwise negation, written !x.
	OpNot
	// OpNegative is two's complement negation, written -x.
	OpNegative
	// OpAdd is x+y.
	OpAdd
	// OpSubtract is x-y.
	OpSubtract
	// OpAnd is bitwise x&y.
	OpAnd
	// OpOr is bitwise x|y.
	OpOr
)

// ParseUnary maps a prefix character to its unary operation.
func ParseUnary(c byte) Operation {
	switch c {
	case '!':
		return OpNot
	case '-':
		return OpNegative
	}
	return OpNone
}

// ParseBinary maps an infix character to its binary operation.
func ParseBinary(c byte) Operation {
	switch c {
	case '+':
		return OpAdd
	case '-':
		return OpSubtract
	case '&':
		return OpAnd
	case '|':
		return OpOr
	}
	return OpNone
}

// Unary reports whether the operation takes a single source.
func (o Operation) Unary() bool {
	return o == OpNot || o == OpNegative
}

func (o Operation) String() string {
	switch o {
	case OpNot:
		return "!"
	case OpNegative, OpSubtract:
		return "-"
	case OpAdd:
		return "+"
	case OpAnd:
		return "&"
	case OpOr:
		return "|"
	}
	return ""
}

// Jump is a jump condition. Its value is the 3-bit jump field.
type Jump uint8

const (
	// JumpNone never jumps.
	JumpNone Jump = iota
	// JGT jumps if out > 0.
	JGT
	// JEQ jumps if out = 0.
	JEQ
	// JGE jumps if out >= 0.
	JGE
	// JLT jumps if out < 0.
	JLT
	// JNE jumps if out != 0.
	JNE
	// JLE jumps if out <= 0.
	JLE
	// JMP always jumps.
	JMP
)

var jumpNames = [...]string{"", "JGT", "JEQ", "JGE", "JLT", "JNE", "JLE", "JMP"}

// ParseJump looks up a jump mnemonic, ignoring case.
func ParseJump(s string) (Jump, bool) {
	s = strings.ToUpper(s)
	for i := 1; i < len(jumpNames); i++ {
		if jumpNames[i] == s {
			return Jump(i), true
		}
	}
	return JumpNone, false
}

func (j Jump) String() string {
	if int(j) < len(jumpNames) {
		return jumpNames[j]
	}
	return "?"
}

// Computation is the ALU expression of a compute instruction.
// Unary and bare forms leave Right as SourceNone.
type Computation struct {
	Left  Source
	Right Source
	Op    Operation
}

func (c Computation) String() string {
	switch {
	case c.Op.Unary():
		return c.Op.String() + c.Left.String()
	case c.Op == OpNone:
		return c.Left.String()
	}
	return c.Left.String() + c.Op.String() + c.Right.String()
}

// UsesMemory reports whether either source reads M.
func (c Computation) UsesMemory() bool {
	return c.Left == SourceM || c.Right == SourceM
}
