package disassembler

import (
	"fmt"
	"strings"

	"github.com/Urethramancer/hack/cpu"
)

// Instruction represents a single decoded instruction at a specific address.
type Instruction struct {
	Address uint16
	Word    uint16
	Text    string
}

// Decode renders one machine word as assembly.
func Decode(word uint16) (string, error) {
	if !cpu.IsCompute(word) {
		return fmt.Sprintf("@%d", word), nil
	}

	dest, comp, jump, ok := cpu.DecodeCompute(word)
	if !ok {
		return "", fmt.Errorf("invalid compute instruction %016b", word)
	}

	var sb strings.Builder
	for _, r := range dest {
		sb.WriteString(r.String())
	}
	if len(dest) > 0 {
		sb.WriteByte('=')
	}
	sb.WriteString(comp.String())
	if jump != cpu.JumpNone {
		sb.WriteByte(';')
		sb.WriteString(jump.String())
	}
	return sb.String(), nil
}

// Decoded decodes every word, stopping at the first invalid one.
func Decoded(code []uint16) ([]Instruction, error) {
	list := make([]Instruction, 0, len(code))
	for i, w := range code {
		text, err := Decode(w)
		if err != nil {
			return nil, fmt.Errorf("address %d: %w", i, err)
		}
		list = append(list, Instruction{Address: uint16(i), Word: w, Text: text})
	}
	return list, nil
}

// Disassemble takes Hack machine code and returns an address-prefixed listing.
func Disassemble(code []uint16) (string, error) {
	list, err := Decoded(code)
	if err != nil {
		return "", err
	}

	var result strings.Builder
	for _, in := range list {
		fmt.Fprintf(&result, "%5d  %s\n", in.Address, in.Text)
	}
	return result.String(), nil
}
