package cpu

import (
	"testing"

	"github.com/l-e-g/legsim/bitfield"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveDecodeAndWriteBack(t *testing.T) {
	regs := NewRegisters()
	regs.Set(6, 555)

	word := uint32(0)
	word = bitfield.Set(word, 18, 22, 6)  // src
	word = bitfield.Set(word, 13, 17, 20) // dest

	m := NewMove()
	require.False(t, m.Decode(word, regs).IsErr())
	require.False(t, m.Execute().IsErr())
	require.False(t, m.WriteBack(regs).IsErr())
	assert.Equal(t, uint32(555), regs.Get(20))
}

func TestArithUnsignedAddRegisterDirect(t *testing.T) {
	regs := NewRegisters()
	regs.Set(6, 10)
	regs.Set(7, 32)

	word := uint32(0)
	word = bitfield.Set(word, 13, 17, 20) // dest
	word = bitfield.Set(word, 18, 22, 6)  // op1
	word = bitfield.Set(word, 23, 27, 7)  // op2

	a := NewArithUnsigned(RegisterDirect, OpAdd)
	require.False(t, a.Decode(word, regs).IsErr())
	require.False(t, a.Execute().IsErr())
	require.False(t, a.WriteBack(regs).IsErr())
	assert.Equal(t, uint32(42), regs.Get(20))
}

func TestArithUnsignedDivByZeroIsError(t *testing.T) {
	regs := NewRegisters()
	regs.Set(6, 10)
	regs.Set(7, 0)

	word := uint32(0)
	word = bitfield.Set(word, 13, 17, 20)
	word = bitfield.Set(word, 18, 22, 6)
	word = bitfield.Set(word, 23, 27, 7)

	a := NewArithUnsigned(RegisterDirect, OpDiv)
	require.False(t, a.Decode(word, regs).IsErr())
	r := a.Execute()
	assert.True(t, r.IsErr())
}

func TestArithSignedSubImmediateIsNotSignExtended(t *testing.T) {
	regs := NewRegisters()
	regs.Set(6, 5)

	word := uint32(0)
	word = bitfield.Set(word, 14, 18, 20)  // dest
	word = bitfield.Set(word, 19, 23, 6)   // op1
	word = bitfield.Set(word, 24, 31, 253) // bit pattern of -3, read as +253

	a := NewArithSigned(Immediate, OpSub)
	require.False(t, a.Decode(word, regs).IsErr())
	require.False(t, a.Execute().IsErr())
	require.False(t, a.WriteBack(regs).IsErr())
	// 5 - 253 = -248
	assert.Equal(t, uint32(int32(-248)), regs.Get(20))
}

func TestCompSetsStatus(t *testing.T) {
	regs := NewRegisters()
	regs.Set(6, 5)
	regs.Set(7, 9)

	word := uint32(0)
	word = bitfield.Set(word, 13, 17, 6)
	word = bitfield.Set(word, 18, 22, 7)

	c := NewComp()
	require.False(t, c.Decode(word, regs).IsErr())
	require.False(t, c.WriteBack(regs).IsErr())
	assert.Equal(t, uint32(CondLT), regs.Get(STS))

	regs.Set(6, 9)
	c2 := NewComp()
	require.False(t, c2.Decode(word, regs).IsErr())
	require.False(t, c2.WriteBack(regs).IsErr())
	assert.Equal(t, uint32(CondGT), regs.Get(STS))
}

func TestArithmeticShiftRightIsSignExtending(t *testing.T) {
	regs := NewRegisters()
	regs.Set(20, uint32(int32(-8)))

	word := uint32(0)
	word = bitfield.Set(word, 13, 17, 20) // dest
	word = bitfield.Set(word, 18, 31, 1)  // amount

	s := NewArithmeticShift(Immediate, true)
	require.False(t, s.Decode(word, regs).IsErr())
	require.False(t, s.Execute().IsErr())
	require.False(t, s.WriteBack(regs).IsErr())
	assert.Equal(t, uint32(int32(-4)), regs.Get(20))
}

func TestLogicalShiftRightIsZeroFilling(t *testing.T) {
	regs := NewRegisters()
	regs.Set(20, uint32(int32(-8)))

	word := uint32(0)
	word = bitfield.Set(word, 13, 17, 20)
	word = bitfield.Set(word, 18, 31, 1)

	s := NewLogicalShift(Immediate, true)
	require.False(t, s.Decode(word, regs).IsErr())
	require.False(t, s.Execute().IsErr())
	require.False(t, s.WriteBack(regs).IsErr())
	assert.Equal(t, uint32(int32(-8))>>1, regs.Get(20))
}

func TestThreeOpLogicXor(t *testing.T) {
	regs := NewRegisters()
	regs.Set(6, 0b1010)
	regs.Set(7, 0b0110)

	word := uint32(0)
	word = bitfield.Set(word, 13, 17, 20)
	word = bitfield.Set(word, 18, 22, 6)
	word = bitfield.Set(word, 23, 27, 7)

	l := NewThreeOpLogic(RegisterDirect, OpXor)
	require.False(t, l.Decode(word, regs).IsErr())
	require.False(t, l.Execute().IsErr())
	require.False(t, l.WriteBack(regs).IsErr())
	assert.Equal(t, uint32(0b1100), regs.Get(20))
}

func TestNot(t *testing.T) {
	regs := NewRegisters()
	regs.Set(6, 0)

	word := uint32(0)
	word = bitfield.Set(word, 13, 17, 20)
	word = bitfield.Set(word, 18, 22, 6)

	n := NewNot()
	require.False(t, n.Decode(word, regs).IsErr())
	require.False(t, n.WriteBack(regs).IsErr())
	assert.Equal(t, ^uint32(0), regs.Get(20))
}
