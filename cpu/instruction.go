// Package cpu implements the instruction set and pipeline driver for a
// 32-bit load/store processor: register file, decoder, and per-opcode
// semantics for the fetch/decode/execute/access-memory/write-back stages.
package cpu

import (
	"fmt"

	"github.com/l-e-g/legsim/memory"
	"github.com/l-e-g/legsim/result"
)

// AddrMode selects how an instruction's operand field is interpreted.
type AddrMode int

const (
	// RegisterDirect: the operand field names a register whose value is
	// used.
	RegisterDirect AddrMode = iota
	// Immediate: the operand field is itself the value (or, for Load and
	// Store, a PC-relative offset).
	Immediate
)

func (m AddrMode) String() string {
	if m == RegisterDirect {
		return "RD"
	}
	return "I"
}

// WriteBackEffect is returned by an instruction's WriteBack stage to tell
// the driver anything beyond "ordinary register mutation" happened. Only
// instructions that commit a new PC (a taken jump, RFI once an interrupt
// has been serviced, SIH/INT) set SuppressPCIncrement, so the driver's own
// per-cycle PC++ does not move execution one word past the new PC.
type WriteBackEffect struct {
	SuppressPCIncrement bool
}

// Instruction is implemented by every decoded opcode. The four methods
// correspond to the four post-fetch pipeline stages and are called in
// that order, once per instruction, each potentially by a different
// Step() call when the pipeline is enabled.
type Instruction interface {
	fmt.Stringer

	// Decode extracts operands from the raw instruction word and the
	// register file as it stood when this instruction was fetched.
	Decode(word uint32, regs *Registers) result.Result[struct{}]

	// Execute performs any ALU computation. Instructions with no
	// computation return Wait(0, struct{}{}).
	Execute() result.Result[struct{}]

	// AccessMemory performs any load/store against mem. Instructions
	// that don't touch memory return Wait(0, struct{}{}).
	AccessMemory(mem memory.Interface) result.Result[struct{}]

	// WriteBack commits results to the register file.
	WriteBack(regs *Registers) result.Result[WriteBackEffect]
}

// noMemoryAccess is embedded by instructions with an empty access-memory
// stage.
type noMemoryAccess struct{}

func (noMemoryAccess) AccessMemory(memory.Interface) result.Result[struct{}] {
	return result.Done(struct{}{})
}

// noWriteBack is embedded by instructions with an empty write-back stage.
type noWriteBack struct{}

func (noWriteBack) WriteBack(*Registers) result.Result[WriteBackEffect] {
	return result.Done(WriteBackEffect{})
}

// noExecute is embedded by instructions with an empty execute stage.
type noExecute struct{}

func (noExecute) Execute() result.Result[struct{}] {
	return result.Done(struct{}{})
}
