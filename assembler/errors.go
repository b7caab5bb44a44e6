package assembler

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure returned by the assembler matches exactly one of these
// with errors.Is.
var (
	// ErrIO means an included file could not be read.
	ErrIO = errors.New("io error")
	// ErrMalformedDirective means a macro directive is unknown or lacks its argument.
	ErrMalformedDirective = errors.New("malformed directive")
	// ErrSyntax means a line matches no instruction shape.
	ErrSyntax = errors.New("syntax error")
	// ErrDuplicateLabel means a label name was bound twice.
	ErrDuplicateLabel = errors.New("duplicate label")
	// ErrUnresolvedSymbol means a symbolic location survived resolution.
	ErrUnresolvedSymbol = errors.New("unresolved symbol")
	// ErrIllegalComputation means the computation has no ALU encoding.
	ErrIllegalComputation = errors.New("illegal computation")
	// ErrAddressOverflow means an address does not fit in 15 bits.
	ErrAddressOverflow = errors.New("address overflow")
)

// Pos is a source location before macro expansion.
type Pos struct {
	File string
	Line int
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("line %d", p.Line)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// SourceError ties a failure to the line that caused it.
type SourceError struct {
	Pos  Pos
	Text string
	Err  error
}

func (e *SourceError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("%s: %v", e.Pos, e.Err)
	}
	return fmt.Sprintf("%s: %q: %v", e.Pos, e.Text, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

func errorAt(pos Pos, text string, err error) error {
	var se *SourceError
	if errors.As(err, &se) {
		return err
	}
	return &SourceError{Pos: pos, Text: text, Err: err}
}
