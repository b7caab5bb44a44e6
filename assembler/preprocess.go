package assembler

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultStackPointer is the RAM cell that points at the next free call-stack slot.
// The stack itself starts just below it and grows downward.
const DefaultStackPointer = 16383

// Line is one line of source text and where it came from.
type Line struct {
	Text string
	Pos  Pos
}

// Lines wraps raw source text without expanding anything.
func Lines(name, src string) []Line {
	raw := splitLines(src)
	lines := make([]Line, 0, len(raw))
	for i, text := range raw {
		lines = append(lines, Line{Text: text, Pos: Pos{File: name, Line: i + 1}})
	}
	return lines
}

type pendingInclude struct {
	// path is as written, file as resolved by the includer.
	path string
	file string
	pos  Pos
}

// preprocessor expands #call, #ret and #include for one run.
type preprocessor struct {
	sp       string
	includer Includer
	log      *slog.Logger

	out   []Line
	queue []pendingInclude
	seen  map[string]bool
	calls int
}

func newPreprocessor(stackPointer uint16, inc Includer, log *slog.Logger) *preprocessor {
	return &preprocessor{
		sp:       "@" + strconv.Itoa(int(stackPointer)),
		includer: inc,
		log:      orDiscard(log),
		seen:     make(map[string]bool),
	}
}

// run expands the primary source, then every included file in the order the
// includes were met.
func (p *preprocessor) run(name, src string) ([]Line, error) {
	p.seen[pathKey(name)] = true
	p.emit(Pos{File: name},
		"// CALL STACK SETUP",
		p.sp,
		"D=A-1",
		"M=D",
	)
	if err := p.expand(name, src); err != nil {
		return nil, err
	}

	for len(p.queue) > 0 {
		inc := p.queue[0]
		p.queue = p.queue[1:]
		if p.includer == nil {
			return nil, &SourceError{Pos: inc.pos, Text: "#include " + inc.path, Err: fmt.Errorf("%w: no includer configured", ErrIO)}
		}
		data, err := p.includer.ReadFile(inc.file)
		if err != nil {
			return nil, &SourceError{Pos: inc.pos, Text: "#include " + inc.path, Err: fmt.Errorf("%w: %v", ErrIO, err)}
		}
		p.log.Debug("include", "path", inc.path, "file", inc.file, "bytes", len(data), "from", inc.pos.String())
		p.emit(inc.pos, "// INCLUDED FILE "+inc.path)
		if err := p.expand(inc.file, string(data)); err != nil {
			return nil, err
		}
	}
	return p.out, nil
}

func (p *preprocessor) expand(name, src string) error {
	for i, raw := range splitLines(src) {
		pos := Pos{File: name, Line: i + 1}
		line := StripComment(raw)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "#") {
			p.out = append(p.out, Line{Text: Normalize(line), Pos: pos})
			continue
		}
		if err := p.directive(pos, line); err != nil {
			return errorAt(pos, line, err)
		}
	}
	return nil
}

func (p *preprocessor) directive(pos Pos, line string) error {
	fields := strings.Fields(line[1:])
	if len(fields) == 0 {
		return fmt.Errorf("%w: empty directive", ErrMalformedDirective)
	}

	switch strings.ToLower(fields[0]) {
	case "call":
		if len(fields) < 2 {
			return fmt.Errorf("%w: #call needs a target label", ErrMalformedDirective)
		}
		if !reSymbol.MatchString(fields[1]) {
			return fmt.Errorf("%w: invalid call target %q", ErrMalformedDirective, fields[1])
		}
		p.call(pos, fields[1])
	case "ret":
		p.ret(pos)
	case "include":
		if len(fields) < 2 {
			return fmt.Errorf("%w: #include needs a path", ErrMalformedDirective)
		}
		p.include(pos, strings.Join(fields[1:], " "))
	default:
		return fmt.Errorf("%w: unknown directive #%s", ErrMalformedDirective, fields[0])
	}
	return nil
}

// call pushes the address after the jump, then jumps to target. The return
// address comes from a label generated for this call site.
func (p *preprocessor) call(pos Pos, target string) {
	ret := fmt.Sprintf("%s$ret.%d", target, p.calls)
	p.calls++
	p.emit(pos,
		"// CALL "+target,
		"@"+ret,
		"D=A",
		p.sp,
		"A=M",
		"M=D",
		p.sp,
		"M=M-1",
		"@"+target,
		"0;JMP",
		"("+ret+")",
	)
}

// ret pops the saved address and jumps through it.
func (p *preprocessor) ret(pos Pos) {
	p.emit(pos,
		"// RETURN",
		p.sp,
		"M=M+1",
		"A=M",
		"A=M",
		"0;JMP",
	)
}

func (p *preprocessor) include(pos Pos, path string) {
	p.emit(pos, "// INCLUDE "+path)
	file := filepath.Clean(path)
	if r, ok := p.includer.(Resolver); ok {
		file = r.Resolve(pos.File, path)
	}
	key := pathKey(file)
	if p.seen[key] {
		p.log.Debug("include skipped", "path", path, "file", file, "from", pos.String())
		return
	}
	p.seen[key] = true
	p.queue = append(p.queue, pendingInclude{path: path, file: file, pos: pos})
}

// pathKey identifies a file for the seen set, whatever directory it was named from.
func pathKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

func (p *preprocessor) emit(pos Pos, text ...string) {
	for _, t := range text {
		p.out = append(p.out, Line{Text: t, Pos: pos})
	}
}
