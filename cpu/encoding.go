package cpu

// Word layout.
const (
	// MaxAddress is the largest value an A-instruction can load.
	MaxAddress = 0x7FFF
	// ComputePrefix marks a compute instruction (bits 15-13).
	ComputePrefix uint16 = 0xE000
	// MemoryBit selects M instead of A as the ALU's second input.
	MemoryBit uint16 = 1 << 12

	DestA uint16 = 1 << 5
	DestD uint16 = 1 << 4
	DestM uint16 = 1 << 3

	compShift = 6
	compMask  = 0x3F
	destMask  = 0x38
	jumpMask  = 0x07
)

// compCodes holds the 6-bit ALU control field for each computation. M forms are
// stored under A and selected by MemoryBit.
var compCodes = map[Computation]uint16{
	{Left: SourceZero}:                                0b101010,
	{Left: SourceOne}:                                 0b111111,
	{Left: SourceOne, Op: OpNegative}:                 0b111010,
	{Left: SourceD}:                                   0b001100,
	{Left: SourceA}:                                   0b110000,
	{Left: SourceD, Op: OpNot}:                        0b001101,
	{Left: SourceA, Op: OpNot}:                        0b110001,
	{Left: SourceD, Op: OpNegative}:                   0b001111,
	{Left: SourceA, Op: OpNegative}:                   0b110011,
	{Left: SourceD, Right: SourceOne, Op: OpAdd}:      0b011111,
	{Left: SourceA, Right: SourceOne, Op: OpAdd}:      0b110111,
	{Left: SourceD, Right: SourceOne, Op: OpSubtract}: 0b001110,
	{Left: SourceA, Right: SourceOne, Op: OpSubtract}: 0b110010,
	{Left: SourceD, Right: SourceA, Op: OpAdd}:        0b000010,
	{Left: SourceD, Right: SourceA, Op: OpSubtract}:   0b010011,
	{Left: SourceA, Right: SourceD, Op: OpSubtract}:   0b000111,
	{Left: SourceD, Right: SourceA, Op: OpAnd}:        0b000000,
	{Left: SourceD, Right: SourceA, Op: OpOr}:         0b010101,
}

var compNames map[uint16]Computation

func init() {
	compNames = make(map[uint16]Computation, len(compCodes))
	for c, code := range compCodes {
		compNames[code] = c
	}
}

// Computations returns every encodable computation, M forms included.
func Computations() []Computation {
	list := make([]Computation, 0, len(compCodes)*2)
	for c := range compCodes {
		list = append(list, c)
		if m := swapSource(c, SourceA, SourceM); m != c {
			list = append(list, m)
		}
	}
	return list
}

func swapSource(c Computation, from, to Source) Computation {
	if c.Left == from {
		c.Left = to
	}
	if c.Right == from {
		c.Right = to
	}
	return c
}

// CompBits returns the a bit and the six c bits of a computation, already in
// position. The second result is false for computations the ALU cannot express.
func CompBits(c Computation) (uint16, bool) {
	var bits uint16
	key := c
	if c.UsesMemory() {
		if c.Left == SourceA || c.Right == SourceA {
			return 0, false
		}
		key = swapSource(c, SourceM, SourceA)
		bits = MemoryBit
	}
	code, ok := compCodes[key]
	if !ok {
		return 0, false
	}
	return bits | code<<compShift, true
}

// DestBits sets d1, d2 and d3 for the registers present, regardless of order.
func DestBits(regs []Register) uint16 {
	var bits uint16
	for _, r := range regs {
		switch r {
		case RegA:
			bits |= DestA
		case RegD:
			bits |= DestD
		case RegM:
			bits |= DestM
		}
	}
	return bits
}

// DestRegisters lists the destinations set in a compute word, in A, D, M order.
func DestRegisters(word uint16) []Register {
	var regs []Register
	if word&DestA != 0 {
		regs = append(regs, RegA)
	}
	if word&DestD != 0 {
		regs = append(regs, RegD)
	}
	if word&DestM != 0 {
		regs = append(regs, RegM)
	}
	return regs
}

// EncodeCompute builds a complete compute instruction word.
func EncodeCompute(dest []Register, c Computation, j Jump) (uint16, bool) {
	comp, ok := CompBits(c)
	if !ok || j > JMP {
		return 0, false
	}
	return ComputePrefix | comp | DestBits(dest) | uint16(j), true
}

// DecodeCompute splits a compute word back into its fields. It fails on words
// without the compute prefix and on control bits outside the computation table.
func DecodeCompute(word uint16) ([]Register, Computation, Jump, bool) {
	if word&ComputePrefix != ComputePrefix {
		return nil, Computation{}, JumpNone, false
	}
	c, ok := compNames[(word>>compShift)&compMask]
	if !ok {
		return nil, Computation{}, JumpNone, false
	}
	if word&MemoryBit != 0 {
		m := swapSource(c, SourceA, SourceM)
		if m == c {
			return nil, Computation{}, JumpNone, false
		}
		c = m
	}
	return DestRegisters(word & destMask), c, Jump(word & jumpMask), true
}

// IsCompute reports whether bit 15 marks a compute instruction.
func IsCompute(word uint16) bool {
	return word&0x8000 != 0
}
