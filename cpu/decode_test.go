package cpu

import (
	"testing"

	"github.com/l-e-g/legsim/bitfield"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wordFor(itype InstructionType, op uint32, opHi bool) uint32 {
	word := bitfield.Set(0, 5, 6, uint32(itype))
	if opHi {
		return bitfield.Set(word, 7, 12, op)
	}
	return bitfield.Set(word, 7, 9, op)
}

func TestDecodeMemoryOpcodes(t *testing.T) {
	cases := []struct {
		op   uint32
		want Instruction
	}{
		{OpcodeLoadRD, NewLoad(RegisterDirect)},
		{OpcodeLoadI, NewLoad(Immediate)},
		{OpcodeStoreRD, NewStore(RegisterDirect)},
		{OpcodeStoreI, NewStore(Immediate)},
		{OpcodePush, NewPush()},
		{OpcodePop, NewPop()},
	}
	for _, c := range cases {
		inst, err := Decode(wordFor(TypeMemory, c.op, false))
		require.NoError(t, err)
		assert.IsType(t, c.want, inst)
	}
}

func TestDecodeControlOpcodes(t *testing.T) {
	cases := []struct {
		op   uint32
		want Instruction
	}{
		{OpcodeHalt, NewHalt()},
		{OpcodeJmpRD, NewJump(RegisterDirect, false)},
		{OpcodeJmpI, NewJump(Immediate, false)},
		{OpcodeJmpSRD, NewJump(RegisterDirect, true)},
		{OpcodeJmpSI, NewJump(Immediate, true)},
		{OpcodeRFI, NewRFI()},
		{OpcodeNoop, NewNoop()},
	}
	for _, c := range cases {
		inst, err := Decode(wordFor(TypeControl, c.op, false))
		require.NoError(t, err)
		assert.IsType(t, c.want, inst)
	}
}

func TestDecodeALUOpcodes(t *testing.T) {
	cases := []struct {
		op   uint32
		want Instruction
	}{
		{OpcodeAddUIRD, NewArithUnsigned(RegisterDirect, OpAdd)},
		{OpcodeSubSII, NewArithSigned(Immediate, OpSub)},
		{OpcodeMove, NewMove()},
		{OpcodeComp, NewComp()},
		{OpcodeASRRD, NewArithmeticShift(RegisterDirect, true)},
		{OpcodeLSLI, NewLogicalShift(Immediate, false)},
		{OpcodeAndRD, NewThreeOpLogic(RegisterDirect, OpAnd)},
		{OpcodeNot, NewNot()},
	}
	for _, c := range cases {
		inst, err := Decode(wordFor(TypeALU, c.op, true))
		require.NoError(t, err)
		assert.IsType(t, c.want, inst)
	}
}

func TestDecodeRejectsUnknownOpcode(t *testing.T) {
	_, err := Decode(wordFor(TypeALU, 63, true))
	assert.Error(t, err)
}

func TestDecodeRejectsReservedInterruptOpcodes(t *testing.T) {
	// Opcodes 1-4 under Control are occupied by Jump variants; SIH/INT are
	// never reachable through the opcode table at all.
	_, err := Decode(wordFor(TypeControl, 7, false))
	assert.Error(t, err)
}
