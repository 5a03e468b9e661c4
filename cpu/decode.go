package cpu

import (
	"fmt"

	"github.com/l-e-g/legsim/bitfield"
)

// InstructionType identifies which opcode table bits[5,6] of an
// instruction word select.
type InstructionType uint32

const (
	TypeControl InstructionType = 0
	TypeALU     InstructionType = 1
	TypeMemory  InstructionType = 2
)

// Memory-type opcodes, bits[7,9].
const (
	OpcodeLoadRD  = 0
	OpcodeLoadI   = 1
	OpcodeStoreRD = 2
	OpcodeStoreI  = 3
	OpcodePush    = 4
	OpcodePop     = 5
)

// Control-type opcodes, bits[7,9]. SIH/INT have no opcode here and are
// never decoded; see control_ops.go.
const (
	OpcodeHalt   = 0
	OpcodeJmpRD  = 1
	OpcodeJmpI   = 2
	OpcodeJmpSRD = 3
	OpcodeJmpSI  = 4
	OpcodeRFI    = 5
	OpcodeNoop   = 6
)

// ALU-type opcodes, bits[7,12].
const (
	OpcodeAddUIRD = 0
	OpcodeAddUII  = 1
	OpcodeAddSIRD = 2
	OpcodeAddSII  = 3
	OpcodeSubUIRD = 4
	OpcodeSubUII  = 5
	OpcodeSubSIRD = 6
	OpcodeSubSII  = 7
	OpcodeMulUIRD = 8
	OpcodeMulUII  = 9
	OpcodeMulSIRD = 10
	OpcodeMulSII  = 11
	OpcodeDivUIRD = 12
	OpcodeDivUII  = 13
	OpcodeDivSIRD = 14
	OpcodeDivSII  = 15
	OpcodeMove    = 16
	OpcodeComp    = 17
	OpcodeASLRD   = 19
	OpcodeASLI    = 20
	OpcodeASRRD   = 21
	OpcodeASRI    = 22
	OpcodeLSLRD   = 23
	OpcodeLSLI    = 24
	OpcodeLSRRD   = 25
	OpcodeLSRI    = 26
	OpcodeAndRD   = 27
	OpcodeAndI    = 28
	OpcodeOrRD    = 29
	OpcodeOrI     = 30
	OpcodeXorRD   = 31
	OpcodeXorI    = 32
	OpcodeNot     = 33
)

// Decode builds the Instruction that word's type and opcode fields name,
// or returns an error for an unknown type or opcode. It does not touch the
// driver's halt flag; the driver sets that itself when Decode returns a
// *Halt.
func Decode(word uint32) (Instruction, error) {
	itype := InstructionType(bitfield.Extract(word, 5, 6))

	switch itype {
	case TypeMemory:
		op := bitfield.Extract(word, 7, 9)
		switch op {
		case OpcodeLoadRD:
			return NewLoad(RegisterDirect), nil
		case OpcodeLoadI:
			return NewLoad(Immediate), nil
		case OpcodeStoreRD:
			return NewStore(RegisterDirect), nil
		case OpcodeStoreI:
			return NewStore(Immediate), nil
		case OpcodePush:
			return NewPush(), nil
		case OpcodePop:
			return NewPop(), nil
		default:
			return nil, fmt.Errorf("invalid operation code %d for memory type instruction", op)
		}

	case TypeControl:
		op := bitfield.Extract(word, 7, 9)
		switch op {
		case OpcodeHalt:
			return NewHalt(), nil
		case OpcodeJmpRD:
			return NewJump(RegisterDirect, false), nil
		case OpcodeJmpI:
			return NewJump(Immediate, false), nil
		case OpcodeJmpSRD:
			return NewJump(RegisterDirect, true), nil
		case OpcodeJmpSI:
			return NewJump(Immediate, true), nil
		case OpcodeRFI:
			return NewRFI(), nil
		case OpcodeNoop:
			return NewNoop(), nil
		default:
			return nil, fmt.Errorf("invalid operation code %d for control type instruction", op)
		}

	case TypeALU:
		op := bitfield.Extract(word, 7, 12)
		switch op {
		case OpcodeMove:
			return NewMove(), nil
		case OpcodeAddUIRD:
			return NewArithUnsigned(RegisterDirect, OpAdd), nil
		case OpcodeAddUII:
			return NewArithUnsigned(Immediate, OpAdd), nil
		case OpcodeAddSIRD:
			return NewArithSigned(RegisterDirect, OpAdd), nil
		case OpcodeAddSII:
			return NewArithSigned(Immediate, OpAdd), nil
		case OpcodeSubUIRD:
			return NewArithUnsigned(RegisterDirect, OpSub), nil
		case OpcodeSubUII:
			return NewArithUnsigned(Immediate, OpSub), nil
		case OpcodeSubSIRD:
			return NewArithSigned(RegisterDirect, OpSub), nil
		case OpcodeSubSII:
			return NewArithSigned(Immediate, OpSub), nil
		case OpcodeMulUIRD:
			return NewArithUnsigned(RegisterDirect, OpMul), nil
		case OpcodeMulUII:
			return NewArithUnsigned(Immediate, OpMul), nil
		case OpcodeMulSIRD:
			return NewArithSigned(RegisterDirect, OpMul), nil
		case OpcodeMulSII:
			return NewArithSigned(Immediate, OpMul), nil
		case OpcodeDivUIRD:
			return NewArithUnsigned(RegisterDirect, OpDiv), nil
		case OpcodeDivUII:
			return NewArithUnsigned(Immediate, OpDiv), nil
		case OpcodeDivSIRD:
			return NewArithSigned(RegisterDirect, OpDiv), nil
		case OpcodeDivSII:
			return NewArithSigned(Immediate, OpDiv), nil
		case OpcodeComp:
			return NewComp(), nil
		case OpcodeASLRD:
			return NewArithmeticShift(RegisterDirect, false), nil
		case OpcodeASLI:
			return NewArithmeticShift(Immediate, false), nil
		case OpcodeASRRD:
			return NewArithmeticShift(RegisterDirect, true), nil
		case OpcodeASRI:
			return NewArithmeticShift(Immediate, true), nil
		case OpcodeLSLRD:
			return NewLogicalShift(RegisterDirect, false), nil
		case OpcodeLSLI:
			return NewLogicalShift(Immediate, false), nil
		case OpcodeLSRRD:
			return NewLogicalShift(RegisterDirect, true), nil
		case OpcodeLSRI:
			return NewLogicalShift(Immediate, true), nil
		case OpcodeAndRD:
			return NewThreeOpLogic(RegisterDirect, OpAnd), nil
		case OpcodeAndI:
			return NewThreeOpLogic(Immediate, OpAnd), nil
		case OpcodeOrRD:
			return NewThreeOpLogic(RegisterDirect, OpOr), nil
		case OpcodeOrI:
			return NewThreeOpLogic(Immediate, OpOr), nil
		case OpcodeXorRD:
			return NewThreeOpLogic(RegisterDirect, OpXor), nil
		case OpcodeXorI:
			return NewThreeOpLogic(Immediate, OpXor), nil
		case OpcodeNot:
			return NewNot(), nil
		default:
			return nil, fmt.Errorf("invalid operation code %d for ALU type instruction", op)
		}

	default:
		return nil, fmt.Errorf("invalid instruction type %d", itype)
	}
}
