package assembler

import (
	"fmt"

	"github.com/Urethramancer/hack/cpu"
)

// Encode turns a resolved program into machine words.
func Encode(prog []Instruction) ([]uint16, error) {
	code := make([]uint16, 0, len(prog))
	for _, in := range prog {
		w, err := EncodeInstruction(in)
		if err != nil {
			return nil, errorAt(in.Pos, in.Text, err)
		}
		code = append(code, w)
	}
	return code, nil
}

// EncodeInstruction maps one resolved instruction to its 16-bit word.
func EncodeInstruction(in Instruction) (uint16, error) {
	switch in.Type {
	case InstructionA:
		if !in.Location.Resolved() {
			return 0, fmt.Errorf("%w: %s", ErrUnresolvedSymbol, in.Location.Symbol)
		}
		if in.Location.Address > cpu.MaxAddress {
			return 0, fmt.Errorf("%w: %d exceeds %d", ErrAddressOverflow, in.Location.Address, cpu.MaxAddress)
		}
		return in.Location.Address, nil

	case InstructionC:
		w, ok := cpu.EncodeCompute(in.Dest, in.Comp, in.Jump)
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrIllegalComputation, in.Comp)
		}
		return w, nil

	case InstructionLabel:
		return 0, fmt.Errorf("%w: label definition %s reached the encoder", ErrUnresolvedSymbol, in.Label)
	}
	return 0, fmt.Errorf("unknown instruction type %d", in.Type)
}
