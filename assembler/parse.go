package assembler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Urethramancer/hack/cpu"
)

var (
	reLabelDef = regexp.MustCompile(`^\((.*)\)$`)
	reNumber   = regexp.MustCompile(`^[0-9]+$`)
	// A symbol is letters, digits, _ . $ : and does not start with a digit.
	reSymbol = regexp.MustCompile(`^[A-Za-z_.$:][A-Za-z0-9_.$:]*$`)
)

// Parse turns expanded source lines into instructions, label definitions included.
// Lines that normalize to nothing are skipped.
func Parse(lines []Line) ([]Instruction, error) {
	var prog []Instruction
	for _, l := range lines {
		text := Normalize(l.Text)
		if text == "" {
			continue
		}
		in, err := ParseInstruction(text)
		if err != nil {
			return nil, errorAt(l.Pos, text, err)
		}
		in.Pos = l.Pos
		prog = append(prog, in)
	}
	return prog, nil
}

// ParseInstruction parses one normalized line. Label definitions are recognized
// first, then A-instructions; everything else must be a compute instruction.
func ParseInstruction(text string) (Instruction, error) {
	if in, ok, err := tryParseLabel(text); ok || err != nil {
		return in, err
	}
	if in, ok, err := tryParseAddress(text); ok || err != nil {
		return in, err
	}
	return parseCompute(text)
}

// tryParseLabel handles (NAME).
func tryParseLabel(text string) (Instruction, bool, error) {
	if !strings.HasPrefix(text, "(") {
		return Instruction{}, false, nil
	}
	m := reLabelDef.FindStringSubmatch(text)
	if m == nil {
		return Instruction{}, false, fmt.Errorf("%w: unterminated label definition", ErrSyntax)
	}
	if !reSymbol.MatchString(m[1]) {
		return Instruction{}, false, fmt.Errorf("%w: invalid label name %q", ErrSyntax, m[1])
	}
	return Instruction{Type: InstructionLabel, Label: m[1], Text: text}, true, nil
}

// tryParseAddress handles @value and @symbol.
func tryParseAddress(text string) (Instruction, bool, error) {
	target, ok := strings.CutPrefix(text, "@")
	if !ok {
		return Instruction{}, false, nil
	}
	in := Instruction{Type: InstructionA, Text: text}
	switch {
	case target == "":
		return in, false, fmt.Errorf("%w: missing address", ErrSyntax)
	case reNumber.MatchString(target):
		v, err := strconv.ParseUint(target, 10, 64)
		if err != nil || v > cpu.MaxAddress {
			return in, false, fmt.Errorf("%w: %s exceeds %d", ErrAddressOverflow, target, cpu.MaxAddress)
		}
		in.Location = Location{Address: uint16(v)}
	case reSymbol.MatchString(target):
		in.Location = Location{Symbol: target}
	default:
		return in, false, fmt.Errorf("%w: invalid symbol %q", ErrSyntax, target)
	}
	return in, true, nil
}

// parseCompute handles dest=comp;jump where dest and jump are optional.
func parseCompute(text string) (Instruction, error) {
	in := Instruction{Type: InstructionC, Text: text}
	rest := text
	if dest, after, ok := strings.Cut(text, "="); ok {
		regs, err := parseDest(dest)
		if err != nil {
			return in, err
		}
		in.Dest = regs
		rest = after
	}

	compText, jumpText, hasJump := strings.Cut(rest, ";")
	comp, err := parseComputation(compText)
	if err != nil {
		return in, err
	}
	in.Comp = comp

	if hasJump {
		j, ok := cpu.ParseJump(jumpText)
		if !ok {
			return in, fmt.Errorf("%w: unknown jump %q", ErrSyntax, jumpText)
		}
		in.Jump = j
	}
	return in, nil
}

func parseDest(s string) ([]cpu.Register, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty destination", ErrSyntax)
	}
	regs := make([]cpu.Register, 0, len(s))
	for i := 0; i < len(s); i++ {
		r := cpu.ParseRegister(s[i])
		if r == cpu.RegNone {
			return nil, fmt.Errorf("%w: invalid destination %q", ErrSyntax, s)
		}
		for _, seen := range regs {
			if seen == r {
				return nil, fmt.Errorf("%w: destination %s repeated in %q", ErrSyntax, r, s)
			}
		}
		regs = append(regs, r)
	}
	return regs, nil
}

// parseComputation accepts the shapes x, ux and xoy. Whether the ALU can actually
// compute the result is left to the encoder.
func parseComputation(s string) (cpu.Computation, error) {
	var c cpu.Computation
	switch len(s) {
	case 0:
		return c, fmt.Errorf("%w: missing computation", ErrSyntax)
	case 1:
		c.Left = cpu.ParseSource(s[0])
	case 2:
		c.Op = cpu.ParseUnary(s[0])
		c.Left = cpu.ParseSource(s[1])
		if c.Op == cpu.OpNone {
			c.Left = cpu.SourceNone
		}
	case 3:
		c.Left = cpu.ParseSource(s[0])
		c.Op = cpu.ParseBinary(s[1])
		c.Right = cpu.ParseSource(s[2])
		if c.Op == cpu.OpNone || c.Right == cpu.SourceNone {
			c.Left = cpu.SourceNone
		}
	}
	if c.Left == cpu.SourceNone {
		return cpu.Computation{}, fmt.Errorf("%w: invalid computation %q", ErrSyntax, s)
	}
	return c, nil
}
