// Package disasm implements the recursive-descent disassembler (spec.md
// §4.2): starting from a seed set of entry points, it walks every
// statically-resolvable instruction and records the address of its first
// byte as code. Every other address in the image, including the operand
// bytes of decoded instructions, is data.
package disasm

import (
	"context"

	"github.com/retroenv/retrogolib/set"

	"github.com/evo64/sidreloc/internal/m6502"
	"github.com/evo64/sidreloc/internal/sidimage"
)

// Result is the output of a disassembly walk: the code-address set C and
// the visited-instruction map M from spec.md §3.
type Result struct {
	Code         set.Set[uint16]
	Instructions map[uint16]m6502.Instruction
}

// IsData reports whether addr lies in the image but is not the first byte
// of a decoded instruction, i.e. addr is in the derived data-address set D.
func (r Result) IsData(img *sidimage.Image, addr uint16) bool {
	return img.Contains(addr) && !r.Code.Contains(addr)
}

// Walk performs the recursive-descent disassembly described in spec.md
// §4.2. entryPoints must already be resolved true entry addresses (see
// the engine package for jump-table-slot resolution); they seed the work
// queue directly. The walk checks ctx between instructions and returns
// ctx.Err() along with whatever was decoded so far if ctx is cancelled.
func Walk(ctx context.Context, img *sidimage.Image, entryPoints []uint16) (Result, error) {
	result := Result{
		Code:         set.New[uint16](),
		Instructions: make(map[uint16]m6502.Instruction),
	}

	queue := append([]uint16(nil), entryPoints...)
	scheduled := set.New[uint16]()
	for _, a := range entryPoints {
		scheduled.Add(a)
	}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		a := queue[0]
		queue = queue[1:]

		if result.Code.Contains(a) {
			continue // address already decoded
		}
		if !img.Contains(a) {
			continue // edge case (a): walk fell outside the tune range
		}

		opcodeByte, _ := img.ReadByte(a)
		inst, ok := m6502.Decode(a, opcodeByte, img.ReadByte)
		if !ok {
			continue // ILL opcode or operand runs past the image: drop the walk
		}

		result.Code.Add(a)
		result.Instructions[a] = inst

		for _, next := range successors(inst) {
			if scheduled.Contains(next) {
				continue
			}
			scheduled.Add(next)
			queue = append(queue, next)
		}
	}

	return result, nil
}

// successors returns the addresses to schedule next after decoding inst,
// per the mnemonic-based rules in spec.md §4.2.
func successors(inst m6502.Instruction) []uint16 {
	fallThrough := inst.Address + uint16(inst.Length)

	switch inst.Mnemonic {
	case m6502.Jmp:
		if inst.Mode == m6502.IndirectAddressing {
			return nil // dynamic target, terminator
		}
		return []uint16{inst.AbsoluteOperand()}

	case m6502.Jsr:
		// JSR targets outside the tune range are dropped once popped;
		// the fall-through is still scheduled regardless (spec.md §4.2c).
		return []uint16{inst.AbsoluteOperand(), fallThrough}

	case m6502.Rts, m6502.Rti, m6502.Brk:
		return nil
	}

	if m6502.IsConditionalBranch(inst.Mnemonic) {
		return []uint16{inst.BranchTarget(), fallThrough}
	}

	return []uint16{fallThrough}
}
