// Package m6502 adapts the 6502 instruction set description needed by the
// relocation engine: mnemonic, length and addressing mode per opcode byte,
// plus decoding of a single instruction from an address.
package m6502

import (
	rm6502 "github.com/retroenv/retrogolib/arch/cpu/m6502"
)

// Instruction is a decoded 6502 instruction (spec data model §3).
type Instruction struct {
	Address  uint16
	Opcode   byte
	Mnemonic string
	Length   uint8
	Mode     rm6502.AddressingMode
	Operand  []byte
}

// conditionalBranches are the eight instructions that the disassembler
// schedules both their target and their fall-through address for.
var conditionalBranches = map[string]struct{}{
	rm6502.Beq.Name: {},
	rm6502.Bne.Name: {},
	rm6502.Bcc.Name: {},
	rm6502.Bcs.Name: {},
	rm6502.Bpl.Name: {},
	rm6502.Bmi.Name: {},
	rm6502.Bvc.Name: {},
	rm6502.Bvs.Name: {},
}

// IsConditionalBranch reports whether mnemonic is one of the eight
// conditional branch instructions.
func IsConditionalBranch(mnemonic string) bool {
	_, ok := conditionalBranches[mnemonic]
	return ok
}

// Length returns the instruction length in bytes for the given addressing
// mode. Mirrors the MODE_SIZE table in the original SID-WIZARD processor.
func Length(mode rm6502.AddressingMode) uint8 {
	switch mode {
	case rm6502.ImpliedAddressing, rm6502.AccumulatorAddressing:
		return 1
	case rm6502.ImmediateAddressing, rm6502.ZeroPageAddressing, rm6502.ZeroPageXAddressing,
		rm6502.ZeroPageYAddressing, rm6502.RelativeAddressing,
		rm6502.IndirectXAddressing, rm6502.IndirectYAddressing:
		return 2
	case rm6502.AbsoluteAddressing, rm6502.AbsoluteXAddressing, rm6502.AbsoluteYAddressing,
		rm6502.IndirectAddressing:
		return 3
	default:
		return 0
	}
}

// IsAbsoluteOperand reports whether mode carries a 16-bit absolute operand
// that the code patcher must inspect: ABS, ABX, ABY and IND, the only four
// addressing modes named in spec.md §3.
func IsAbsoluteOperand(mode rm6502.AddressingMode) bool {
	switch mode {
	case rm6502.AbsoluteAddressing, rm6502.AbsoluteXAddressing,
		rm6502.AbsoluteYAddressing, rm6502.IndirectAddressing:
		return true
	default:
		return false
	}
}

// IsIndexedAbsolute reports whether mode is ABS,X or ABS,Y, the two modes
// the pointer-table detectors watch for table-base accesses.
func IsIndexedAbsolute(mode rm6502.AddressingMode) bool {
	return mode == rm6502.AbsoluteXAddressing || mode == rm6502.AbsoluteYAddressing
}

// IsIllegal reports whether opcode has no known instruction mapping, the
// ILL sentinel from spec.md §4.1.
func IsIllegal(opcode byte) bool {
	return rm6502.Opcodes[opcode].Instruction == nil
}

// Decode decodes the instruction at address. read supplies further operand
// bytes; it returns false for addresses outside the image. Decode returns
// false for an illegal opcode or an operand that runs past the image.
func Decode(address uint16, opcode byte, read func(uint16) (byte, bool)) (Instruction, bool) {
	op := rm6502.Opcodes[opcode]
	if op.Instruction == nil {
		return Instruction{}, false
	}

	length := Length(op.Addressing)
	operand := make([]byte, 0, length-1)
	for i := uint8(1); i < length; i++ {
		b, ok := read(address + uint16(i))
		if !ok {
			return Instruction{}, false
		}
		operand = append(operand, b)
	}

	return Instruction{
		Address:  address,
		Opcode:   opcode,
		Mnemonic: op.Instruction.Name,
		Length:   length,
		Mode:     op.Addressing,
		Operand:  operand,
	}, true
}

// AbsoluteOperand returns the little-endian 16-bit operand value. Valid
// only for instructions whose mode satisfies IsAbsoluteOperand.
func (i Instruction) AbsoluteOperand() uint16 {
	return uint16(i.Operand[0]) | uint16(i.Operand[1])<<8
}

// BranchTarget returns the target address of a relative-branch instruction,
// computed from its signed 8-bit offset.
func (i Instruction) BranchTarget() uint16 {
	offset := int8(i.Operand[0])
	return uint16(int32(i.Address) + 2 + int32(offset))
}

// Names of the control-flow mnemonics the disassembler interprets directly.
var (
	Jmp = rm6502.Jmp.Name
	Jsr = rm6502.Jsr.Name
	Rts = rm6502.Rts.Name
	Rti = rm6502.Rti.Name
	Brk = rm6502.Brk.Name
)

// Addressing mode re-exports so callers outside this package never need to
// import retrogolib's m6502 package directly.
const (
	AbsoluteAddressing  = rm6502.AbsoluteAddressing
	AbsoluteXAddressing = rm6502.AbsoluteXAddressing
	AbsoluteYAddressing = rm6502.AbsoluteYAddressing
	IndirectAddressing  = rm6502.IndirectAddressing
	ZeroPageAddressing  = rm6502.ZeroPageAddressing
)
