package cpu

import (
	"testing"

	"github.com/l-e-g/legsim/bitfield"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJumpUnconditionalImmediateSetsPCAndSuppressesIncrement(t *testing.T) {
	regs := NewRegisters()
	regs.Set(PC, 100)

	word := uint32(0)
	word = bitfield.Set(word, 0, 4, CondNS)
	word = bitfield.Set(word, 10, 31, 42)

	j := NewJump(Immediate, false)
	require.False(t, j.Decode(word, regs).IsErr())
	require.False(t, j.Execute().IsErr())
	wb := j.WriteBack(regs)
	require.False(t, wb.IsErr())

	assert.Equal(t, uint32(42), regs.Get(PC))
	assert.True(t, wb.Value().SuppressPCIncrement)
}

func TestJumpSubLatchesLinkRegister(t *testing.T) {
	regs := NewRegisters()
	regs.Set(PC, 9)

	word := uint32(0)
	word = bitfield.Set(word, 0, 4, CondNS)
	word = bitfield.Set(word, 10, 31, 100)

	j := NewJump(Immediate, true)
	require.False(t, j.Decode(word, regs).IsErr())
	wb := j.WriteBack(regs)
	require.False(t, wb.IsErr())

	assert.Equal(t, uint32(10), regs.Get(LR))
	assert.Equal(t, uint32(100), regs.Get(PC))
}

func TestJumpConditionalOnlyFiresOnMatchingStatus(t *testing.T) {
	regs := NewRegisters()
	regs.Set(PC, 5)
	regs.Set(STS, CondGT)

	word := uint32(0)
	word = bitfield.Set(word, 0, 4, CondLT)
	word = bitfield.Set(word, 10, 31, 200)

	j := NewJump(Immediate, false)
	require.False(t, j.Decode(word, regs).IsErr())
	wb := j.WriteBack(regs)
	require.False(t, wb.IsErr())

	assert.Equal(t, uint32(5), regs.Get(PC), "mismatched condition must not jump")
	assert.False(t, wb.Value().SuppressPCIncrement)
}

func TestJumpConditionalFiresWhenStatusMatches(t *testing.T) {
	regs := NewRegisters()
	regs.Set(PC, 5)
	regs.Set(STS, CondLT)

	word := uint32(0)
	word = bitfield.Set(word, 0, 4, CondLT)
	word = bitfield.Set(word, 10, 31, 200)

	j := NewJump(Immediate, false)
	require.False(t, j.Decode(word, regs).IsErr())
	wb := j.WriteBack(regs)
	require.False(t, wb.IsErr())

	assert.Equal(t, uint32(200), regs.Get(PC))
}

func TestHaltAndNoopSatisfyInstruction(t *testing.T) {
	regs := NewRegisters()

	var insts = []Instruction{NewHalt(), NewNoop()}
	for _, inst := range insts {
		require.False(t, inst.Decode(0, regs).IsErr())
		require.False(t, inst.Execute().IsErr())
		require.False(t, inst.AccessMemory(nil).IsErr())
		require.False(t, inst.WriteBack(regs).IsErr())
	}
}

func TestRFIRestoresPCFromINTLR(t *testing.T) {
	regs := NewRegisters()
	regs.Set(STS, StsNotSet+42) // any value other than StsNotSetInitial
	regs.Set(INTLR, 77)
	regs.Set(PC, 4)

	r := NewRFI()
	require.False(t, r.Decode(0, regs).IsErr())
	wb := r.WriteBack(regs)
	require.False(t, wb.IsErr())

	assert.Equal(t, uint32(77), regs.Get(PC))
	assert.Equal(t, uint32(StsNotSet), regs.Get(STS))
	assert.True(t, wb.Value().SuppressPCIncrement)
}

func TestRFIIsNoOpBeforeAnyInterruptServiced(t *testing.T) {
	regs := NewRegisters()
	regs.Set(STS, StsNotSetInitial)
	regs.Set(INTLR, 77)
	regs.Set(PC, 4)

	r := NewRFI()
	require.False(t, r.Decode(0, regs).IsErr())
	wb := r.WriteBack(regs)
	require.False(t, wb.IsErr())

	assert.Equal(t, uint32(4), regs.Get(PC))
	assert.Equal(t, uint32(StsNotSetInitial), regs.Get(STS))
	assert.False(t, wb.Value().SuppressPCIncrement)
}

func TestSIHLatchesReturnAddressAndJumpsToHandler(t *testing.T) {
	regs := NewRegisters()
	regs.Set(IHDLR, 900)
	regs.Set(PC, 12)

	s := NewSIH()
	require.False(t, s.Decode(0, regs).IsErr())
	wb := s.WriteBack(regs)
	require.False(t, wb.IsErr())

	assert.Equal(t, uint32(13), regs.Get(INTLR))
	assert.Equal(t, uint32(900), regs.Get(PC))
}

func TestINTBehavesLikeSIHButNamesItself(t *testing.T) {
	regs := NewRegisters()
	regs.Set(IHDLR, 500)
	regs.Set(PC, 8)

	i := NewINT()
	require.False(t, i.Decode(0, regs).IsErr())
	wb := i.WriteBack(regs)
	require.False(t, wb.IsErr())

	assert.Equal(t, uint32(9), regs.Get(INTLR))
	assert.Equal(t, uint32(500), regs.Get(PC))
	assert.Equal(t, "INT", i.String())
}
