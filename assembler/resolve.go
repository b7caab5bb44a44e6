package assembler

import (
	"fmt"
	"log/slog"
)

// CollectLabels is pass one: it binds every label definition to the address of the
// next real instruction and returns the program without label definitions.
func CollectLabels(prog []Instruction, st *SymbolTable, log *slog.Logger) ([]Instruction, error) {
	log = orDiscard(log)
	out := make([]Instruction, 0, len(prog))
	for _, in := range prog {
		if in.Type != InstructionLabel {
			out = append(out, in)
			continue
		}
		if err := st.DefineLabel(in.Label, len(out)); err != nil {
			return nil, errorAt(in.Pos, in.Text, err)
		}
		log.Debug("label", "name", in.Label, "address", len(out), "pos", in.Pos.String())
	}
	return out, nil
}

// ResolveSymbols is pass two: every symbolic A-instruction is rewritten in place to
// its label or predefined address, or to a freshly allocated variable.
func ResolveSymbols(prog []Instruction, st *SymbolTable, log *slog.Logger) error {
	log = orDiscard(log)
	for i := range prog {
		in := &prog[i]
		if in.Type == InstructionLabel {
			return errorAt(in.Pos, in.Text, fmt.Errorf("%w: label %s left after label pass", ErrUnresolvedSymbol, in.Label))
		}
		if in.Type != InstructionA || in.Location.Resolved() {
			continue
		}
		addr, fresh, err := st.Variable(in.Location.Symbol)
		if err != nil {
			return errorAt(in.Pos, in.Text, err)
		}
		if fresh {
			log.Debug("variable", "name", in.Location.Symbol, "address", addr)
		}
		in.Location = Location{Address: addr}
	}
	return nil
}

// Resolve runs both passes on a parsed program.
func Resolve(prog []Instruction, st *SymbolTable, log *slog.Logger) ([]Instruction, error) {
	out, err := CollectLabels(prog, st, log)
	if err != nil {
		return nil, err
	}
	if err := ResolveSymbols(out, st, log); err != nil {
		return nil, err
	}
	return out, nil
}
