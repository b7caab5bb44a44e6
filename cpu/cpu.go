package cpu

import (
	"errors"
	"fmt"
)

// MemorySize is the number of 16-bit RAM cells, screen and keyboard included.
const MemorySize = 0x8000

// ErrStepLimit is returned by Run when the program is still going after the step budget.
var ErrStepLimit = errors.New("step limit reached")

// CPU is a Hack computer: two registers, a program counter, ROM and RAM.
type CPU struct {
	// A is the address register.
	A uint16
	// D is the data register.
	D uint16
	// PC is the program counter.
	PC uint16

	ROM []uint16
	RAM []uint16

	// Cycles count.
	Cycles int
	// Halted is set once the PC leaves ROM or the program parks in a jump-to-self loop.
	Halted bool
}

// New creates a CPU with zeroed RAM and the given program loaded.
func New(rom []uint16) *CPU {
	c := &CPU{RAM: make([]uint16, MemorySize)}
	c.LoadCode(rom)
	return c
}

// LoadCode replaces the ROM and resets the program counter.
func (c *CPU) LoadCode(rom []uint16) {
	c.ROM = rom
	c.PC = 0
	c.Cycles = 0
	c.Halted = false
}

// Execute runs a single instruction.
func (c *CPU) Execute() error {
	if c.Halted {
		return nil
	}
	if int(c.PC) >= len(c.ROM) {
		c.Halted = true
		return nil
	}

	pc := c.PC
	word := c.ROM[pc]
	c.Cycles++
	if !IsCompute(word) {
		c.A = word
		c.PC++
		return nil
	}

	y := c.A
	if word&MemoryBit != 0 {
		if int(c.A) >= len(c.RAM) {
			return fmt.Errorf("pc %d: read from M at %d outside memory", pc, c.A)
		}
		y = c.RAM[c.A]
	}
	out := alu(c.D, y, (word>>compShift)&compMask)

	addr := c.A
	if word&DestM != 0 {
		if int(addr) >= len(c.RAM) {
			return fmt.Errorf("pc %d: write to M at %d outside memory", pc, addr)
		}
		c.RAM[addr] = out
	}
	if word&DestA != 0 {
		c.A = out
	}
	if word&DestD != 0 {
		c.D = out
	}

	if !jumps(Jump(word&jumpMask), out) {
		c.PC++
		return nil
	}
	c.PC = addr
	if addr == pc || (addr+1 == pc && c.ROM[addr] == addr) {
		c.Halted = true
	}
	return nil
}

// Run executes until the CPU halts or maxSteps instructions have run.
func (c *CPU) Run(maxSteps int) error {
	for i := 0; i < maxSteps; i++ {
		if c.Halted {
			return nil
		}
		if err := c.Execute(); err != nil {
			return err
		}
	}
	if c.Halted {
		return nil
	}
	return ErrStepLimit
}

// alu evaluates the six control bits zx nx zy ny f no.
func alu(x, y, control uint16) uint16 {
	if control&0x20 != 0 {
		x = 0
	}
	if control&0x10 != 0 {
		x = ^x
	}
	if control&0x08 != 0 {
		y = 0
	}
	if control&0x04 != 0 {
		y = ^y
	}
	var out uint16
	if control&0x02 != 0 {
		out = x + y
	} else {
		out = x & y
	}
	if control&0x01 != 0 {
		out = ^out
	}
	return out
}

func jumps(j Jump, out uint16) bool {
	zero := out == 0
	neg := int16(out) < 0
	return (j&0b100 != 0 && neg) ||
		(j&0b010 != 0 && zero) ||
		(j&0b001 != 0 && !neg && !zero)
}
