// Package tables implements the two pointer-table detectors and the data
// patcher (spec.md §4.4, §4.5, §4.6): split hi/lo byte tables and
// interleaved lo/hi pair tables, and the hi-byte-only rewrite both styles
// require once table bounds are known.
//
// Both detectors must run against the unmutated image, before the code
// patcher touches any operand (spec.md §7): table-base addresses are read
// out of ABX/ABY operands that codepatch.Apply would otherwise relocate.
package tables

import (
	"sort"

	"github.com/evo64/sidreloc/internal/diag"
	"github.com/evo64/sidreloc/internal/m6502"
	"github.com/evo64/sidreloc/internal/sidimage"
)

// maxLookahead bounds the forward trace from a table-base access to the
// STA zp that names the table's pairing byte (original_source Phase 1).
const maxLookahead = 3

// maxTableLength caps a boundary-clipped table length.
const maxTableLength = 64

// HiByteTable is a detected split hi/lo byte pointer table: two
// same-length byte arrays, HiBase holding the hi byte of each pointer and
// LoBase (if paired) holding the lo byte.
type HiByteTable struct {
	HiBase uint16
	LoBase uint16
	Paired bool
	Length int
}

// InterleavedTable is a detected interleaved lo/hi pair table: pointer i
// is stored as (Base+2i, Base+2i+1).
type InterleavedTable struct {
	Base  uint16
	Pairs int
}

// breakMnemonics are the instructions that terminate a forward trace
// before maxLookahead is reached (original_source Phase 1 break-list).
var breakMnemonics = map[string]struct{}{
	"stx": {}, "sty": {},
	m6502.Jsr: {}, m6502.Jmp: {}, m6502.Rts: {}, m6502.Rti: {}, m6502.Brk: {},
}

// tableAccess is an LDA tbl,X / LDA tbl,Y instruction whose base address
// lies in the data region.
type tableAccess struct {
	base uint16
	addr uint16
}

// DetectHiByteTables scans instructions for ABX/ABY reads of data-region
// tables, traces each forward up to maxLookahead instructions looking for
// an STA zp destination, and pairs odd-zeropage ("hi") candidates with
// even-zeropage ("lo") candidates one zero-page address below. A hi
// candidate with no matching lo candidate is reported unpaired, together
// with an AmbiguousTable diagnostic, and is never patched.
func DetectHiByteTables(img *sidimage.Image, instructions map[uint16]m6502.Instruction, isData func(uint16) bool) ([]HiByteTable, []diag.Diagnostic) {
	accesses := findTableAccesses(img, instructions, isData)

	hiZP := map[uint16]uint16{} // zp address -> table base
	loZP := map[uint16]uint16{}

	for _, acc := range accesses {
		zp, ok := traceStoreZP(instructions, acc.addr)
		if !ok {
			continue
		}
		if zp%2 == 1 {
			hiZP[zp] = acc.base
		} else {
			loZP[zp] = acc.base
		}
	}

	var tables []HiByteTable
	var diags []diag.Diagnostic

	hiZPs := make([]uint16, 0, len(hiZP))
	for zp := range hiZP {
		hiZPs = append(hiZPs, zp)
	}
	sort.Slice(hiZPs, func(i, j int) bool { return hiZPs[i] < hiZPs[j] })

	for _, zp := range hiZPs {
		hiBase := hiZP[zp]
		loBase, paired := loZP[zp-1]

		t := HiByteTable{HiBase: hiBase, Paired: paired}
		if paired {
			t.LoBase = loBase
			t.Length = tableLength(hiBase, loBase)
		} else {
			t.Length = boundaryClippedLength(img, hiBase, isData)
			diags = append(diags, diag.NewAt(diag.AmbiguousTable, hiBase,
				"hi-byte table has no paired lo-byte table; left unpatched"))
		}
		tables = append(tables, t)
	}

	return tables, diags
}

// tableLength derives a paired table's length from the distance between
// its hi and lo bases, falling back to 1 when they coincide.
func tableLength(hiBase, loBase uint16) int {
	var length int
	if hiBase > loBase {
		length = int(hiBase - loBase)
	} else {
		length = int(loBase - hiBase)
	}
	if length == 0 {
		length = 1
	}
	if length > maxTableLength {
		length = maxTableLength
	}
	return length
}

// boundaryClippedLength scans forward from base until hitting a code
// address or the end of the image, clipped to maxTableLength.
func boundaryClippedLength(img *sidimage.Image, base uint16, isData func(uint16) bool) int {
	length := 0
	for length < maxTableLength {
		addr := base + uint16(length)
		if !img.Contains(addr) || !isData(addr) {
			break
		}
		length++
	}
	if length == 0 {
		length = 1
	}
	return length
}

// findTableAccesses collects every LDA abs,X / LDA abs,Y instruction whose
// operand base lies in the data region.
func findTableAccesses(img *sidimage.Image, instructions map[uint16]m6502.Instruction, isData func(uint16) bool) []tableAccess {
	addrs := sortedAddrs(instructions)

	var out []tableAccess
	for _, addr := range addrs {
		inst := instructions[addr]
		if inst.Mnemonic != "lda" || !m6502.IsIndexedAbsolute(inst.Mode) {
			continue
		}
		base := inst.AbsoluteOperand()
		if !img.Contains(base) || !isData(base) {
			continue
		}
		out = append(out, tableAccess{base: base, addr: addr})
	}
	return out
}

// traceStoreZP follows the fall-through path from addr for up to
// maxLookahead instructions looking for an STA zp. It stops early at any
// break instruction (original_source Phase 1).
func traceStoreZP(instructions map[uint16]m6502.Instruction, addr uint16) (uint16, bool) {
	first, ok := instructions[addr]
	if !ok {
		return 0, false
	}
	cur := first.Address + uint16(first.Length)

	for step := 0; step < maxLookahead; step++ {
		inst, ok := instructions[cur]
		if !ok {
			return 0, false
		}
		if inst.Mnemonic == "sta" && inst.Mode == m6502.ZeroPageAddressing {
			return uint16(inst.Operand[0]), true
		}
		if _, isBreak := breakMnemonics[inst.Mnemonic]; isBreak {
			return 0, false
		}
		if inst.Mnemonic == "sta" {
			return 0, false // STA to a non-zero-page address breaks the trace
		}
		cur = inst.Address + uint16(inst.Length)
	}
	return 0, false
}

// DetectInterleavedTables scans instructions for ABS,X/ABS,Y reads of
// data-region bases that come in adjacent pairs (base, base+1) indexed by
// the same register, and infers each pair's run length by scanning
// forward while the (lo,hi) values form an in-range tune pointer.
func DetectInterleavedTables(img *sidimage.Image, instructions map[uint16]m6502.Instruction, isData func(uint16) bool) ([]InterleavedTable, []diag.Diagnostic) {
	accesses := findTableAccesses(img, instructions, isData)

	bases := set16{}
	regs := map[uint16]uint8{} // base -> bit 0: read via X, bit 1: read via Y
	for _, acc := range accesses {
		bases[acc.base] = struct{}{}
		if instructions[acc.addr].Mode == m6502.AbsoluteXAddressing {
			regs[acc.base] |= 1
		} else {
			regs[acc.base] |= 2
		}
	}

	seen := set16{}
	var tables []InterleavedTable
	var diags []diag.Diagnostic

	sorted := make([]uint16, 0, len(bases))
	for b := range bases {
		sorted = append(sorted, b)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	for _, base := range sorted {
		if _, ok := seen[base]; ok {
			continue
		}
		if _, ok := bases[base+1]; !ok {
			continue
		}
		if regs[base]&regs[base+1] == 0 {
			continue // the two reads use different index registers
		}
		seen[base] = struct{}{}
		seen[base+1] = struct{}{}

		pairs := interleavedRunLength(img, base)
		if pairs == 0 {
			diags = append(diags, diag.NewAt(diag.UnalignedInterleaved, base,
				"interleaved table has no in-range pairs at its base"))
			continue
		}
		tables = append(tables, InterleavedTable{Base: base, Pairs: pairs})
	}

	return tables, diags
}

// interleavedRunLength scans forward in 2-byte steps from base while the
// (lo,hi) pair decodes to a byte offset within the image's span, clipped
// to maxTableLength pairs.
func interleavedRunLength(img *sidimage.Image, base uint16) int {
	count := 0
	for count < maxTableLength {
		loAddr := base + uint16(2*count)
		hiAddr := loAddr + 1
		lo, ok1 := img.ReadByte(loAddr)
		hi, ok2 := img.ReadByte(hiAddr)
		if !ok1 || !ok2 {
			break
		}
		ptr := uint16(lo) | uint16(hi)<<8
		if !img.Contains(ptr) {
			break
		}
		count++
	}
	return count
}

// PatchTables rewrites the hi bytes of every confirmed (paired) hi-byte
// table and every interleaved table, shifting each decoded pointer by
// delta and writing back only its hi byte (spec.md §4.6). Unpaired
// hi-byte tables are skipped, per DetectHiByteTables.
func PatchTables(img *sidimage.Image, hiTables []HiByteTable, interleaved []InterleavedTable, delta int32) int {
	patched := 0

	for _, t := range hiTables {
		if !t.Paired {
			continue
		}
		for i := 0; i < t.Length; i++ {
			loAddr := t.LoBase + uint16(i)
			hiAddr := t.HiBase + uint16(i)
			lo, ok1 := img.ReadByte(loAddr)
			hi, ok2 := img.ReadByte(hiAddr)
			if !ok1 || !ok2 {
				continue
			}
			ptr := uint16(lo) | uint16(hi)<<8
			if !img.Contains(ptr) {
				continue
			}
			newHi := byte(uint16(int32(ptr)+delta) >> 8)
			img.WriteByte(hiAddr, newHi)
			patched++
		}
	}

	for _, t := range interleaved {
		for i := 0; i < t.Pairs; i++ {
			loAddr := t.Base + uint16(2*i)
			hiAddr := loAddr + 1
			lo, ok1 := img.ReadByte(loAddr)
			hi, ok2 := img.ReadByte(hiAddr)
			if !ok1 || !ok2 {
				continue
			}
			ptr := uint16(lo) | uint16(hi)<<8
			if !img.Contains(ptr) {
				continue
			}
			newHi := byte(uint16(int32(ptr)+delta) >> 8)
			img.WriteByte(hiAddr, newHi)
			patched++
		}
	}

	return patched
}

type set16 map[uint16]struct{}

func sortedAddrs(instructions map[uint16]m6502.Instruction) []uint16 {
	addrs := make([]uint16, 0, len(instructions))
	for a := range instructions {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}
