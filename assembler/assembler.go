package assembler

import (
	"io"
	"log/slog"
)

// Assembler holds the settings and the symbol table of the last run.
type Assembler struct {
	stackPointer uint16
	macros       bool
	includer     Includer
	log          *slog.Logger

	symbols *SymbolTable
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithIncluder sets where #include reads files from.
func WithIncluder(inc Includer) Option {
	return func(asm *Assembler) {
		asm.includer = inc
	}
}

// WithStackPointer moves the call-stack pointer cell used by #call and #ret.
func WithStackPointer(addr uint16) Option {
	return func(asm *Assembler) {
		asm.stackPointer = addr
	}
}

// WithMacros turns macro expansion on or off. Without it the source must be
// plain Hack assembly.
func WithMacros(enabled bool) Option {
	return func(asm *Assembler) {
		asm.macros = enabled
	}
}

// WithLogger sets the logger for debug tracing of the passes.
func WithLogger(log *slog.Logger) Option {
	return func(asm *Assembler) {
		asm.log = log
	}
}

// New creates a new Assembler. Macros are on, includes come from the working
// directory and the call stack pointer lives at DefaultStackPointer.
func New(opts ...Option) *Assembler {
	asm := &Assembler{
		stackPointer: DefaultStackPointer,
		macros:       true,
		includer:     DirIncluder{},
	}
	for _, o := range opts {
		o(asm)
	}
	asm.log = orDiscard(asm.log)
	return asm
}

// Assemble translates source text into machine words. name is used in error
// positions and as the primary file for include cycle checks.
func (asm *Assembler) Assemble(name, src string) ([]uint16, error) {
	prog, err := asm.Program(name, src)
	if err != nil {
		return nil, err
	}
	return Encode(prog)
}

// Program runs every stage except encoding and returns the resolved instructions.
func (asm *Assembler) Program(name, src string) ([]Instruction, error) {
	lines, err := asm.Preprocess(name, src)
	if err != nil {
		return nil, err
	}

	prog, err := Parse(lines)
	if err != nil {
		return nil, err
	}

	asm.symbols = NewSymbolTable()
	prog, err = Resolve(prog, asm.symbols, asm.log)
	if err != nil {
		return nil, err
	}
	asm.log.Debug("resolved", "file", name, "instructions", len(prog), "symbols", len(asm.symbols.Defined()))
	return prog, nil
}

// Preprocess expands macros, or only splits the source into lines when macros
// are off.
func (asm *Assembler) Preprocess(name, src string) ([]Line, error) {
	if !asm.macros {
		return Lines(name, src), nil
	}
	return newPreprocessor(asm.stackPointer, asm.includer, asm.log).run(name, src)
}

// Symbols returns the symbol table built by the last run, or nil before any run.
func (asm *Assembler) Symbols() *SymbolTable {
	return asm.symbols
}

func orDiscard(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return log
}
