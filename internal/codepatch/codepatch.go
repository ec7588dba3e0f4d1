// Package codepatch implements the code patcher (spec.md §4.3): it rewrites
// the absolute operand of every ABS/ABX/ABY/IND instruction the
// disassembler classified as code, redirecting SID register accesses and
// relocating tune-internal addresses.
package codepatch

import (
	"encoding/binary"

	"github.com/evo64/sidreloc/internal/m6502"
	"github.com/evo64/sidreloc/internal/sidimage"
)

// Window is a contiguous 16-bit address range, either the original or new
// SID register window (spec.md §3's 32-byte window).
type Window struct {
	Base uint16
	Size uint16
}

// Contains reports whether addr falls within the window.
func (w Window) Contains(addr uint16) bool {
	return addr >= w.Base && uint32(addr) < uint32(w.Base)+uint32(w.Size)
}

// Stats reports how many operands the code patcher touched.
type Stats struct {
	Redirected int // operands rewritten by SID redirection
	Relocated  int // operands rewritten by tune relocation
}

// Apply rewrites every absolute operand of every instruction in
// instructions (the disassembler's code map), applying SID redirection in
// strict precedence over tune relocation (spec.md §4.3): an operand inside
// originalSID is redirected to newSID; only otherwise, an operand inside
// the tune range is shifted by delta. Operands matching neither are left
// untouched. img is mutated in place.
func Apply(img *sidimage.Image, instructions map[uint16]m6502.Instruction, originalSID, newSID Window, delta int32) Stats {
	var stats Stats

	for addr, inst := range instructions {
		if !m6502.IsAbsoluteOperand(inst.Mode) {
			continue
		}

		operand := inst.AbsoluteOperand()

		var newOperand uint16
		switch {
		case originalSID.Contains(operand):
			newOperand = newSID.Base + (operand - originalSID.Base)
			stats.Redirected++
		case img.Contains(operand):
			newOperand = uint16(int32(operand) + delta)
			stats.Relocated++
		default:
			continue
		}

		operandAddr := addr + 1
		buf := make([]byte, 2)
		binary.LittleEndian.PutUint16(buf, newOperand)
		img.WriteByte(operandAddr, buf[0])
		img.WriteByte(operandAddr+1, buf[1])
	}

	return stats
}
