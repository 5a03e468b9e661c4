package cpu

import (
	"fmt"

	"github.com/l-e-g/legsim/bitfield"
	"github.com/l-e-g/legsim/result"
)

// ArithOp identifies the binary operation an arithmetic instruction
// performs.
type ArithOp int

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
)

func (op ArithOp) String() string {
	switch op {
	case OpAdd:
		return "Add"
	case OpSub:
		return "Sub"
	case OpMul:
		return "Mul"
	default:
		return "Div"
	}
}

// LogicOp identifies the three-operand bitwise operation ThreeOpLogic
// performs.
type LogicOp int

const (
	OpAnd LogicOp = iota
	OpOr
	OpXor
)

func (op LogicOp) String() string {
	switch op {
	case OpAnd:
		return "And"
	case OpOr:
		return "Or"
	default:
		return "Xor"
	}
}

// Move copies a register's value into another register.
type Move struct {
	noExecute
	noMemoryAccess

	dest  uint32
	value uint32
}

// NewMove returns an empty Move instruction.
func NewMove() *Move { return &Move{} }

func (m *Move) String() string { return "Move" }

func (m *Move) Decode(word uint32, regs *Registers) result.Result[struct{}] {
	m.value = regs.Get(bitfield.Extract(word, 18, 22))
	m.dest = bitfield.Extract(word, 13, 17)
	return result.Done(struct{}{})
}

func (m *Move) WriteBack(regs *Registers) result.Result[WriteBackEffect] {
	regs.Set(m.dest, m.value)
	return result.Done(WriteBackEffect{})
}

// ArithUnsigned performs Add/Sub/Mul/Div on unsigned 32-bit operands.
type ArithUnsigned struct {
	noMemoryAccess

	mode   AddrMode
	op     ArithOp
	dest   uint32
	op1    uint32
	op2    uint32
	result uint32
}

// NewArithUnsigned returns an empty unsigned arithmetic instruction.
func NewArithUnsigned(mode AddrMode, op ArithOp) *ArithUnsigned {
	return &ArithUnsigned{mode: mode, op: op}
}

func (a *ArithUnsigned) String() string { return fmt.Sprintf("%s unsigned (%s)", a.op, a.mode) }

func (a *ArithUnsigned) Decode(word uint32, regs *Registers) result.Result[struct{}] {
	a.dest = bitfield.Extract(word, 13, 17)
	a.op1 = regs.Get(bitfield.Extract(word, 18, 22))

	if a.mode == RegisterDirect {
		a.op2 = regs.Get(bitfield.Extract(word, 23, 27))
	} else {
		a.op2 = bitfield.Extract(word, 23, 31)
	}
	return result.Done(struct{}{})
}

func (a *ArithUnsigned) Execute() result.Result[struct{}] {
	switch a.op {
	case OpAdd:
		a.result = a.op1 + a.op2
	case OpSub:
		a.result = a.op1 - a.op2
	case OpMul:
		a.result = a.op1 * a.op2
	case OpDiv:
		if a.op2 == 0 {
			return result.Err[struct{}](fmt.Errorf("division by zero"))
		}
		a.result = a.op1 / a.op2
	}
	return result.Done(struct{}{})
}

func (a *ArithUnsigned) WriteBack(regs *Registers) result.Result[WriteBackEffect] {
	regs.Set(a.dest, a.result)
	return result.Done(WriteBackEffect{})
}

// ArithSigned performs Add/Sub/Mul/Div on signed 32-bit operands.
type ArithSigned struct {
	noMemoryAccess

	mode   AddrMode
	op     ArithOp
	dest   uint32
	op1    int32
	op2    int32
	result int32
}

// NewArithSigned returns an empty signed arithmetic instruction.
func NewArithSigned(mode AddrMode, op ArithOp) *ArithSigned {
	return &ArithSigned{mode: mode, op: op}
}

func (a *ArithSigned) String() string { return fmt.Sprintf("%s signed (%s)", a.op, a.mode) }

func (a *ArithSigned) Decode(word uint32, regs *Registers) result.Result[struct{}] {
	a.dest = bitfield.Extract(word, 14, 18)
	a.op1 = int32(regs.Get(bitfield.Extract(word, 19, 23)))

	if a.mode == RegisterDirect {
		a.op2 = int32(regs.Get(bitfield.Extract(word, 24, 28)))
	} else {
		a.op2 = int32(bitfield.Extract(word, 24, 31))
	}
	return result.Done(struct{}{})
}

func (a *ArithSigned) Execute() result.Result[struct{}] {
	switch a.op {
	case OpAdd:
		a.result = a.op1 + a.op2
	case OpSub:
		a.result = a.op1 - a.op2
	case OpMul:
		a.result = a.op1 * a.op2
	case OpDiv:
		if a.op2 == 0 {
			return result.Err[struct{}](fmt.Errorf("division by zero"))
		}
		a.result = a.op1 / a.op2
	}
	return result.Done(struct{}{})
}

func (a *ArithSigned) WriteBack(regs *Registers) result.Result[WriteBackEffect] {
	regs.Set(a.dest, uint32(a.result))
	return result.Done(WriteBackEffect{})
}

// Comp compares two registers as unsigned values and sets STS to E, GT, or
// LT.
type Comp struct {
	noExecute
	noMemoryAccess

	op1 uint32
	op2 uint32
}

// NewComp returns an empty Comp instruction.
func NewComp() *Comp { return &Comp{} }

func (c *Comp) String() string { return "Comp" }

func (c *Comp) Decode(word uint32, regs *Registers) result.Result[struct{}] {
	c.op1 = regs.Get(bitfield.Extract(word, 13, 17))
	c.op2 = regs.Get(bitfield.Extract(word, 18, 22))
	return result.Done(struct{}{})
}

func (c *Comp) WriteBack(regs *Registers) result.Result[WriteBackEffect] {
	switch {
	case c.op1 < c.op2:
		regs.Set(STS, CondLT)
	case c.op1 > c.op2:
		regs.Set(STS, CondGT)
	default:
		regs.Set(STS, CondE)
	}
	return result.Done(WriteBackEffect{})
}

// ArithmeticShift shifts the destination register's current value,
// reinterpreted as a signed integer: left for ASL, a true sign-extending
// right shift for ASR.
type ArithmeticShift struct {
	noMemoryAccess

	mode   AddrMode
	right  bool
	dest   uint32
	op     int32
	amount uint32
	result int32
}

// NewArithmeticShift returns an empty arithmetic-shift instruction. right
// selects ASR (true) or ASL (false).
func NewArithmeticShift(mode AddrMode, right bool) *ArithmeticShift {
	return &ArithmeticShift{mode: mode, right: right}
}

func (s *ArithmeticShift) String() string {
	if s.right {
		return "ASR"
	}
	return "ASL"
}

func (s *ArithmeticShift) Decode(word uint32, regs *Registers) result.Result[struct{}] {
	s.dest = bitfield.Extract(word, 13, 17)

	if s.mode == RegisterDirect {
		s.amount = regs.Get(bitfield.Extract(word, 18, 22))
	} else {
		s.amount = bitfield.Extract(word, 18, 31)
	}
	s.op = int32(regs.Get(s.dest))
	return result.Done(struct{}{})
}

func (s *ArithmeticShift) Execute() result.Result[struct{}] {
	if s.right {
		s.result = s.op >> s.amount
	} else {
		s.result = s.op << s.amount
	}
	return result.Done(struct{}{})
}

func (s *ArithmeticShift) WriteBack(regs *Registers) result.Result[WriteBackEffect] {
	regs.Set(s.dest, uint32(s.result))
	return result.Done(WriteBackEffect{})
}

// LogicalShift shifts the destination register's current value as an
// unsigned integer, zero-filling on both sides.
type LogicalShift struct {
	noMemoryAccess

	mode   AddrMode
	right  bool
	dest   uint32
	op     uint32
	amount uint32
	result uint32
}

// NewLogicalShift returns an empty logical-shift instruction. right
// selects LSR (true) or LSL (false).
func NewLogicalShift(mode AddrMode, right bool) *LogicalShift {
	return &LogicalShift{mode: mode, right: right}
}

func (s *LogicalShift) String() string {
	if s.right {
		return "LSR"
	}
	return "LSL"
}

func (s *LogicalShift) Decode(word uint32, regs *Registers) result.Result[struct{}] {
	s.dest = bitfield.Extract(word, 13, 17)

	if s.mode == RegisterDirect {
		s.amount = regs.Get(bitfield.Extract(word, 18, 22))
	} else {
		s.amount = bitfield.Extract(word, 18, 31)
	}
	s.op = regs.Get(s.dest)
	return result.Done(struct{}{})
}

func (s *LogicalShift) Execute() result.Result[struct{}] {
	if s.right {
		s.result = s.op >> s.amount
	} else {
		s.result = s.op << s.amount
	}
	return result.Done(struct{}{})
}

func (s *LogicalShift) WriteBack(regs *Registers) result.Result[WriteBackEffect] {
	regs.Set(s.dest, s.result)
	return result.Done(WriteBackEffect{})
}

// ThreeOpLogic performs And/Or/Xor on a register operand and a second
// operand that is a register (RegisterDirect) or the immediate field
// (Immediate).
type ThreeOpLogic struct {
	noMemoryAccess

	mode   AddrMode
	op     LogicOp
	dest   uint32
	op1    uint32
	op2    uint32
	result uint32
}

// NewThreeOpLogic returns an empty three-operand logic instruction.
func NewThreeOpLogic(mode AddrMode, op LogicOp) *ThreeOpLogic {
	return &ThreeOpLogic{mode: mode, op: op}
}

func (l *ThreeOpLogic) String() string { return fmt.Sprintf("%s (%s)", l.op, l.mode) }

func (l *ThreeOpLogic) Decode(word uint32, regs *Registers) result.Result[struct{}] {
	l.dest = bitfield.Extract(word, 13, 17)
	l.op1 = regs.Get(bitfield.Extract(word, 18, 22))

	if l.mode == RegisterDirect {
		l.op2 = regs.Get(bitfield.Extract(word, 23, 27))
	} else {
		l.op2 = bitfield.Extract(word, 23, 31)
	}
	return result.Done(struct{}{})
}

func (l *ThreeOpLogic) Execute() result.Result[struct{}] {
	switch l.op {
	case OpAnd:
		l.result = l.op1 & l.op2
	case OpOr:
		l.result = l.op1 | l.op2
	case OpXor:
		l.result = l.op1 ^ l.op2
	}
	return result.Done(struct{}{})
}

func (l *ThreeOpLogic) WriteBack(regs *Registers) result.Result[WriteBackEffect] {
	regs.Set(l.dest, l.result)
	return result.Done(WriteBackEffect{})
}

// Not bitwise-inverts a register's value into the destination register.
type Not struct {
	noExecute
	noMemoryAccess

	dest uint32
	op   uint32
}

// NewNot returns an empty Not instruction.
func NewNot() *Not { return &Not{} }

func (n *Not) String() string { return "Not" }

func (n *Not) Decode(word uint32, regs *Registers) result.Result[struct{}] {
	n.dest = bitfield.Extract(word, 13, 17)
	n.op = regs.Get(bitfield.Extract(word, 18, 22))
	return result.Done(struct{}{})
}

func (n *Not) WriteBack(regs *Registers) result.Result[WriteBackEffect] {
	regs.Set(n.dest, ^n.op)
	return result.Done(WriteBackEffect{})
}
