package cpu

import (
	"fmt"

	"github.com/l-e-g/legsim/bitfield"
	"github.com/l-e-g/legsim/result"
)

// Jump conditionally transfers control to another instruction, optionally
// latching the return address in LR. A zero condition field means
// unconditional; any other value must equal the status register left by
// the most recent Comp to take the branch.
type Jump struct {
	noExecute
	noMemoryAccess

	mode   AddrMode
	sub    bool
	cond   uint32
	target uint32
}

// NewJump returns an empty Jump instruction. sub selects whether the
// return address is latched into LR (a call) or not (a plain branch).
func NewJump(mode AddrMode, sub bool) *Jump { return &Jump{mode: mode, sub: sub} }

func (j *Jump) String() string {
	if j.sub {
		return fmt.Sprintf("JumpSub (%s)", j.mode)
	}
	return fmt.Sprintf("Jump (%s)", j.mode)
}

func (j *Jump) Decode(word uint32, regs *Registers) result.Result[struct{}] {
	j.cond = bitfield.Extract(word, 0, 4)

	if j.mode == RegisterDirect {
		j.target = regs.Get(bitfield.Extract(word, 10, 14))
	} else {
		j.target = bitfield.Extract(word, 10, 31)
	}
	return result.Done(struct{}{})
}

func (j *Jump) WriteBack(regs *Registers) result.Result[WriteBackEffect] {
	if j.cond != CondNS && j.cond != regs.Get(STS) {
		return result.Done(WriteBackEffect{})
	}
	if j.sub {
		regs.Set(LR, regs.Get(PC)+1)
	}
	regs.Set(PC, j.target)
	return result.Done(WriteBackEffect{SuppressPCIncrement: true})
}

// RFI (return from interrupt) restores PC from INTLR and clears STS, but
// only once an interrupt has actually been serviced: if STS still holds
// StsNotSetInitial, RFI is a no-op.
type RFI struct {
	noMemoryAccess

	target uint32
}

// NewRFI returns an empty RFI instruction.
func NewRFI() *RFI { return &RFI{} }

func (r *RFI) String() string { return "RFI" }

func (r *RFI) Decode(word uint32, regs *Registers) result.Result[struct{}] {
	r.target = regs.Get(INTLR)
	return result.Done(struct{}{})
}

func (r *RFI) Execute() result.Result[struct{}] { return result.Done(struct{}{}) }

func (r *RFI) WriteBack(regs *Registers) result.Result[WriteBackEffect] {
	if regs.Get(STS) == StsNotSetInitial {
		return result.Done(WriteBackEffect{})
	}
	regs.Set(STS, StsNotSet)
	regs.Set(PC, r.target)
	return result.Done(WriteBackEffect{SuppressPCIncrement: true})
}

// Noop does nothing in every stage.
type Noop struct {
	noExecute
	noMemoryAccess
	noWriteBack
}

// NewNoop returns a Noop instruction.
func NewNoop() *Noop { return &Noop{} }

func (Noop) String() string { return "Noop" }

func (Noop) Decode(uint32, *Registers) result.Result[struct{}] { return result.Done(struct{}{}) }

// Halt stops the driver from fetching further instructions. It carries no
// operands of its own; the driver recognizes it by type at decode time and
// latches its halted flag.
type Halt struct {
	noExecute
	noMemoryAccess
	noWriteBack
}

// NewHalt returns a Halt instruction.
func NewHalt() *Halt { return &Halt{} }

func (Halt) String() string { return "Halt" }

func (Halt) Decode(uint32, *Registers) result.Result[struct{}] { return result.Done(struct{}{}) }

// SIH and INT are reserved interrupt-handling opcodes in the original
// instruction set. No opcode value ever dispatches to them; they exist so
// their semantics are documented and exercised directly in tests, should a
// future opcode encoding claim them.

// SIH (software interrupt) latches the address after the current PC
// (PC+1) into INTLR and jumps to the handler address in IHDLR.
type SIH struct {
	noMemoryAccess

	handler uint32
	ret     uint32
}

// NewSIH returns an empty SIH instruction.
func NewSIH() *SIH { return &SIH{} }

func (SIH) String() string { return "SIH" }

func (s *SIH) Decode(word uint32, regs *Registers) result.Result[struct{}] {
	s.handler = regs.Get(IHDLR)
	s.ret = regs.Get(PC) + 1
	return result.Done(struct{}{})
}

func (s *SIH) Execute() result.Result[struct{}] { return result.Done(struct{}{}) }

func (s *SIH) WriteBack(regs *Registers) result.Result[WriteBackEffect] {
	regs.Set(INTLR, s.ret)
	regs.Set(PC, s.handler)
	return result.Done(WriteBackEffect{SuppressPCIncrement: true})
}

// INT (external interrupt) behaves identically to SIH in this simulator:
// no external interrupt controller exists to drive it.
type INT struct {
	SIH
}

// NewINT returns an empty INT instruction.
func NewINT() *INT { return &INT{} }

func (INT) String() string { return "INT" }
