package cpu

import (
	"fmt"

	"github.com/l-e-g/legsim/bitfield"
	"github.com/l-e-g/legsim/memory"
	"github.com/l-e-g/legsim/result"
)

// Load reads a value from memory into a register.
type Load struct {
	noExecute

	mode    AddrMode
	dest    uint32
	memAddr uint32
	value   uint32
}

// NewLoad returns an empty Load instruction with the given addressing
// mode for its memory-address operand.
func NewLoad(mode AddrMode) *Load { return &Load{mode: mode} }

func (l *Load) String() string { return fmt.Sprintf("Load (%s)", l.mode) }

func (l *Load) Decode(word uint32, regs *Registers) result.Result[struct{}] {
	l.dest = bitfield.Extract(word, 10, 14)

	if l.mode == RegisterDirect {
		l.memAddr = regs.Get(bitfield.Extract(word, 15, 19))
	} else {
		offset := bitfield.SignExtend(bitfield.Extract(word, 15, 31), 17)
		l.memAddr = uint32(int64(regs.Get(PC)) + 1 + int64(offset))
	}
	return result.Done(struct{}{})
}

func (l *Load) AccessMemory(mem memory.Interface) result.Result[struct{}] {
	r := mem.Get(l.memAddr)
	if r.IsErr() {
		return result.Err[struct{}](fmt.Errorf("failed to retrieve memory address %d: %w", l.memAddr, r.Error()))
	}
	l.value = r.Value()
	return result.Wait(r.Cycles(), struct{}{})
}

func (l *Load) WriteBack(regs *Registers) result.Result[WriteBackEffect] {
	regs.Set(l.dest, l.value)
	return result.Done(WriteBackEffect{})
}

// Store writes a register's value to memory.
type Store struct {
	noExecute
	noWriteBack

	mode     AddrMode
	destAddr uint32
	value    uint32
}

// NewStore returns an empty Store instruction with the given addressing
// mode for its value operand.
func NewStore(mode AddrMode) *Store { return &Store{mode: mode} }

func (s *Store) String() string { return fmt.Sprintf("Store (%s)", s.mode) }

func (s *Store) Decode(word uint32, regs *Registers) result.Result[struct{}] {
	s.destAddr = regs.Get(bitfield.Extract(word, 10, 14))

	if s.mode == RegisterDirect {
		s.value = regs.Get(bitfield.Extract(word, 15, 19))
	} else {
		offset := bitfield.SignExtend(bitfield.Extract(word, 15, 31), 17)
		s.value = uint32(int64(regs.Get(PC)) + 1 + int64(offset))
	}
	return result.Done(struct{}{})
}

func (s *Store) AccessMemory(mem memory.Interface) result.Result[struct{}] {
	r := mem.Set(s.destAddr, s.value)
	if r.IsErr() {
		return result.Err[struct{}](fmt.Errorf("failed to store value at %d: %w", s.destAddr, r.Error()))
	}
	return result.Wait(r.Cycles(), struct{}{})
}

// Push writes regs[SP]-1 to the address held in a register, then
// decrements SP.
type Push struct {
	noExecute

	addr  uint32
	value uint32
}

// NewPush returns an empty Push instruction.
func NewPush() *Push { return &Push{} }

func (p *Push) String() string { return "Push" }

func (p *Push) Decode(word uint32, regs *Registers) result.Result[struct{}] {
	p.addr = regs.Get(bitfield.Extract(word, 11, 15))
	p.value = regs.Get(SP) - 1
	return result.Done(struct{}{})
}

func (p *Push) AccessMemory(mem memory.Interface) result.Result[struct{}] {
	r := mem.Set(p.addr, p.value)
	if r.IsErr() {
		return result.Err[struct{}](fmt.Errorf("failed to push value at %d: %w", p.addr, r.Error()))
	}
	return result.Wait(r.Cycles(), struct{}{})
}

func (p *Push) WriteBack(regs *Registers) result.Result[WriteBackEffect] {
	regs.Set(SP, regs.Get(SP)-1)
	return result.Done(WriteBackEffect{})
}

// Pop reads the value at regs[SP] into a register, then increments SP.
type Pop struct {
	noExecute

	dest  uint32
	addr  uint32
	value uint32
}

// NewPop returns an empty Pop instruction.
func NewPop() *Pop { return &Pop{} }

func (p *Pop) String() string { return "Pop" }

func (p *Pop) Decode(word uint32, regs *Registers) result.Result[struct{}] {
	p.dest = bitfield.Extract(word, 11, 15)
	p.addr = regs.Get(SP)
	return result.Done(struct{}{})
}

func (p *Pop) AccessMemory(mem memory.Interface) result.Result[struct{}] {
	r := mem.Get(p.addr)
	if r.IsErr() {
		return result.Err[struct{}](fmt.Errorf("failed to pop value at %d: %w", p.addr, r.Error()))
	}
	p.value = r.Value()
	return result.Wait(r.Cycles(), struct{}{})
}

func (p *Pop) WriteBack(regs *Registers) result.Result[WriteBackEffect] {
	regs.Set(p.dest, p.value)
	regs.Set(SP, regs.Get(SP)+1)
	return result.Done(WriteBackEffect{})
}
