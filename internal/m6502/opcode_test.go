package m6502

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestLength(t *testing.T) {
	assert.Equal(t, uint8(3), Length(AbsoluteAddressing))
	assert.Equal(t, uint8(3), Length(AbsoluteXAddressing))
	assert.Equal(t, uint8(3), Length(AbsoluteYAddressing))
	assert.Equal(t, uint8(3), Length(IndirectAddressing))
	assert.Equal(t, uint8(2), Length(ZeroPageAddressing))
}

func TestIsAbsoluteOperand(t *testing.T) {
	assert.True(t, IsAbsoluteOperand(AbsoluteAddressing))
	assert.True(t, IsAbsoluteOperand(AbsoluteXAddressing))
	assert.True(t, IsAbsoluteOperand(AbsoluteYAddressing))
	assert.True(t, IsAbsoluteOperand(IndirectAddressing))
	assert.False(t, IsAbsoluteOperand(ZeroPageAddressing))
}

func TestIsIndexedAbsolute(t *testing.T) {
	assert.True(t, IsIndexedAbsolute(AbsoluteXAddressing))
	assert.True(t, IsIndexedAbsolute(AbsoluteYAddressing))
	assert.False(t, IsIndexedAbsolute(AbsoluteAddressing))
}

func TestDecode_JmpAbsolute(t *testing.T) {
	mem := map[uint16]byte{0x1000: 0x4C, 0x1001: 0x00, 0x1002: 0x20}
	read := func(a uint16) (byte, bool) {
		b, ok := mem[a]
		return b, ok
	}

	inst, ok := Decode(0x1000, mem[0x1000], read)
	assert.True(t, ok)
	assert.Equal(t, Jmp, inst.Mnemonic)
	assert.Equal(t, uint8(3), inst.Length)
	assert.Equal(t, uint16(0x2000), inst.AbsoluteOperand())
}

func TestDecode_TruncatedOperand(t *testing.T) {
	mem := map[uint16]byte{0x1000: 0x4C, 0x1001: 0x00}
	read := func(a uint16) (byte, bool) {
		b, ok := mem[a]
		return b, ok
	}

	_, ok := Decode(0x1000, mem[0x1000], read)
	assert.False(t, ok)
}

func TestDecode_IllegalOpcode(t *testing.T) {
	read := func(uint16) (byte, bool) { return 0, true }
	_, ok := Decode(0x1000, 0xFF, read)
	assert.False(t, ok)
}

func TestIsConditionalBranch(t *testing.T) {
	assert.True(t, IsConditionalBranch("beq"))
	assert.True(t, IsConditionalBranch("bne"))
	assert.False(t, IsConditionalBranch("jmp"))
	assert.False(t, IsConditionalBranch("jsr"))
}

func TestBranchTarget(t *testing.T) {
	inst := Instruction{Address: 0x1000, Length: 2, Operand: []byte{0x05}}
	assert.Equal(t, uint16(0x1007), inst.BranchTarget())

	inst = Instruction{Address: 0x1000, Length: 2, Operand: []byte{0xFB}} // -5
	assert.Equal(t, uint16(0x0FFD), inst.BranchTarget())
}
