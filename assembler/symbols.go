package assembler

import (
	"fmt"
	"sort"

	"github.com/Urethramancer/hack/cpu"
)

// SymbolKind records how a symbol got its address.
type SymbolKind int

const (
	// SymbolPredefined is one of SP, LCL, ARG, THIS, THAT, R0-R15, SCREEN and KBD.
	SymbolPredefined SymbolKind = iota
	// SymbolLabel was bound by a (NAME) definition.
	SymbolLabel
	// SymbolVariable was allocated a RAM cell on first use.
	SymbolVariable
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolPredefined:
		return "predefined"
	case SymbolLabel:
		return "label"
	case SymbolVariable:
		return "variable"
	}
	return "unknown"
}

// FirstVariable is the address given to the first variable.
const FirstVariable = 16

// predefined is copied into every new table and never modified.
var predefined = map[string]uint16{
	"SP":     0,
	"LCL":    1,
	"ARG":    2,
	"THIS":   3,
	"THAT":   4,
	"SCREEN": 16384,
	"KBD":    24576,
}

func init() {
	for i := 0; i < 16; i++ {
		predefined[fmt.Sprintf("R%d", i)] = uint16(i)
	}
}

// Symbol is one entry in a SymbolTable.
type Symbol struct {
	Name    string
	Address uint16
	Kind    SymbolKind
}

// SymbolTable maps names to addresses for a single assembly run.
type SymbolTable struct {
	entries map[string]Symbol
	// order lists labels and variables as they were bound.
	order []string
	next  uint16
}

// NewSymbolTable creates a table holding only the predefined symbols.
func NewSymbolTable() *SymbolTable {
	st := &SymbolTable{
		entries: make(map[string]Symbol, len(predefined)),
		next:    FirstVariable,
	}
	for name, addr := range predefined {
		st.entries[name] = Symbol{Name: name, Address: addr, Kind: SymbolPredefined}
	}
	return st
}

// Lookup returns the address bound to name.
func (st *SymbolTable) Lookup(name string) (uint16, bool) {
	s, ok := st.entries[name]
	return s.Address, ok
}

// DefineLabel binds a label. Names already present, predefined ones included,
// cannot be bound again.
func (st *SymbolTable) DefineLabel(name string, addr int) error {
	if old, ok := st.entries[name]; ok {
		if old.Kind == SymbolPredefined {
			return fmt.Errorf("%w: %s is a predefined symbol", ErrDuplicateLabel, name)
		}
		return fmt.Errorf("%w: %s already bound to %d", ErrDuplicateLabel, name, old.Address)
	}
	if addr > cpu.MaxAddress {
		return fmt.Errorf("%w: label %s at %d", ErrAddressOverflow, name, addr)
	}
	st.bind(Symbol{Name: name, Address: uint16(addr), Kind: SymbolLabel})
	return nil
}

// Variable returns the address of name, allocating the next variable cell if the
// name is not bound yet.
func (st *SymbolTable) Variable(name string) (uint16, bool, error) {
	if addr, ok := st.Lookup(name); ok {
		return addr, false, nil
	}
	if st.next > cpu.MaxAddress {
		return 0, false, fmt.Errorf("%w: no room for variable %s", ErrAddressOverflow, name)
	}
	addr := st.next
	st.next++
	st.bind(Symbol{Name: name, Address: addr, Kind: SymbolVariable})
	return addr, true, nil
}

func (st *SymbolTable) bind(s Symbol) {
	st.entries[s.Name] = s
	st.order = append(st.order, s.Name)
}

// Defined returns labels and variables in binding order.
func (st *SymbolTable) Defined() []Symbol {
	list := make([]Symbol, 0, len(st.order))
	for _, name := range st.order {
		list = append(list, st.entries[name])
	}
	return list
}

// All returns every symbol sorted by address, then name.
func (st *SymbolTable) All() []Symbol {
	list := make([]Symbol, 0, len(st.entries))
	for _, s := range st.entries {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Address != list[j].Address {
			return list[i].Address < list[j].Address
		}
		return list[i].Name < list[j].Name
	})
	return list
}
