package assembler

import (
	"strconv"
	"strings"

	"github.com/Urethramancer/hack/cpu"
)

// InstructionType defines the kind of a parsed line.
type InstructionType int

const (
	// InstructionA loads an address or symbol into A.
	InstructionA InstructionType = iota
	// InstructionC computes, stores and optionally jumps.
	InstructionC
	// InstructionLabel binds a name to the next real instruction. It occupies no address.
	InstructionLabel
)

func (t InstructionType) String() string {
	switch t {
	case InstructionA:
		return "A"
	case InstructionC:
		return "C"
	case InstructionLabel:
		return "label"
	}
	return "unknown"
}

// Location is the operand of an A-instruction: a literal address, or a symbol
// waiting for resolution when Symbol is set.
type Location struct {
	Address uint16
	Symbol  string
}

// Resolved reports whether the location is a literal address.
func (l Location) Resolved() bool {
	return l.Symbol == ""
}

func (l Location) String() string {
	if l.Resolved() {
		return strconv.Itoa(int(l.Address))
	}
	return l.Symbol
}

// Instruction is one parsed line of primitive assembly.
type Instruction struct {
	Type InstructionType

	// Location is set for InstructionA.
	Location Location

	// Dest, Comp and Jump are set for InstructionC. Dest keeps the written order.
	Dest []cpu.Register
	Comp cpu.Computation
	Jump cpu.Jump

	// Label is the name bound by InstructionLabel.
	Label string

	// Pos is where the line came from, before macro expansion.
	Pos Pos
	// Text is the normalized source text.
	Text string
}

// String renders the instruction back as assembly.
func (in Instruction) String() string {
	switch in.Type {
	case InstructionA:
		return "@" + in.Location.String()
	case InstructionLabel:
		return "(" + in.Label + ")"
	}
	var sb strings.Builder
	for _, r := range in.Dest {
		sb.WriteString(r.String())
	}
	if len(in.Dest) > 0 {
		sb.WriteByte('=')
	}
	sb.WriteString(in.Comp.String())
	if in.Jump != cpu.JumpNone {
		sb.WriteByte(';')
		sb.WriteString(in.Jump.String())
	}
	return sb.String()
}
