package cpu

import (
	"fmt"
	"strings"
)

// NumRegisters is the fixed size of the register file.
const NumRegisters = 32

// Named register aliases. Indices 0-25 are general purpose.
const (
	INTLR = 26 // interrupt link return
	IHDLR = 27 // interrupt handler address
	PC    = 28
	STS   = 29 // status / condition code
	SP    = 30
	LR    = 31 // subroutine link
)

// Condition codes held in STS by a compare and read by conditional jumps.
// Only NS, E, GT, LT are ever produced or consumed by the implemented
// instruction set; the remainder are reserved encodings kept for
// documentation parity with the original instruction set.
const (
	CondNS  = 0 // no condition (unconditional jump)
	CondNE  = 1
	CondE   = 2
	CondGT  = 3
	CondLT  = 4
	CondGTE = 5
	CondLTE = 6
	CondOF  = 7
	CondZ   = 8
	CondNZ  = 9
	CondNEG = 10
	CondPOS = 11
)

// Sentinel values STS takes on while it is doubling as interrupt state
// rather than a condition code: StsNotSetInitial marks "no interrupt has
// ever been serviced," distinct from StsNotSet ("the last interrupt has
// been returned from"). RFI checks the former before restoring PC.
const (
	StsNotSetInitial = 111111
	StsNotSet        = 0
)

// Registers holds the 32 words of the register file. Creation
// zero-initializes every register; mutation happens only via instruction
// write-back and the driver's own PC increment.
type Registers struct {
	r [NumRegisters]uint32
}

// NewRegisters returns a zero-initialized register file.
func NewRegisters() *Registers {
	return &Registers{}
}

// Get returns the value at idx.
func (r *Registers) Get(idx uint32) uint32 {
	return r.r[idx]
}

// Set stores v at idx.
func (r *Registers) Set(idx uint32, v uint32) {
	r.r[idx] = v
}

var aliasNames = map[uint32]string{
	INTLR: "INTLR",
	IHDLR: "IHDLR",
	PC:    "PC",
	STS:   "STS",
	SP:    "SP",
	LR:    "LR",
}

// String renders every register, one per line, general-purpose registers
// first and named aliases last.
func (r *Registers) String() string {
	var b strings.Builder
	for i := uint32(0); i < NumRegisters; i++ {
		name := aliasNames[i]
		if name == "" {
			name = fmt.Sprintf("R%d", i)
		}
		fmt.Fprintf(&b, "%-6s: %d\n", name, r.r[i])
	}
	return strings.TrimRight(b.String(), "\n")
}
