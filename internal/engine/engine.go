// Package engine orchestrates the relocation pipeline (spec.md §2): it
// resolves a tune's entry points, disassembles the unmutated image, runs
// both pointer-table detectors against that same unmutated image, and only
// then mutates the image via the code patcher and data patcher.
package engine

import (
	"context"
	"fmt"

	"github.com/retroenv/retrogolib/log"

	"github.com/evo64/sidreloc/internal/codepatch"
	"github.com/evo64/sidreloc/internal/diag"
	"github.com/evo64/sidreloc/internal/disasm"
	"github.com/evo64/sidreloc/internal/m6502"
	"github.com/evo64/sidreloc/internal/sidimage"
	"github.com/evo64/sidreloc/internal/tables"
)

// jumpTableSlots is the number of JMP slots SID-WIZARD reserves at the
// tune's load address (init, play, and a third reserved vector).
const jumpTableSlots = 3

// Tune describes one relocation job: the binary's original load address
// and SID register window, and the new ones to patch in.
type Tune struct {
	OriginalBase    uint16
	OriginalSIDBase uint16
	NewBase         uint16
	NewSIDBase      uint16
}

// MalformedEntryError reports that a jump-table slot did not decode to a
// JMP abs instruction, so no true entry point could be recovered from it.
type MalformedEntryError struct {
	Slot    int
	Address uint16
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("jump table slot %d at $%04X is not a JMP abs instruction", e.Slot, e.Address)
}

// EmptyCodeError reports that disassembly from the resolved entry points
// reached no instructions at all.
type EmptyCodeError struct {
	Entries []uint16
}

func (e *EmptyCodeError) Error() string {
	return fmt.Sprintf("disassembly from %d entry point(s) produced no code", len(e.Entries))
}

// Stats summarizes what the engine changed, for logging and reporting.
type Stats struct {
	CodeInstructions    int
	RedirectedOperands  int
	RelocatedOperands   int
	HiByteTables        int
	InterleavedTables   int
	PatchedTableEntries int
}

// Result is the outcome of a successful Run: the patched binary bytes,
// any non-fatal diagnostics, and summary statistics.
type Result struct {
	Bytes       []byte
	Diagnostics []diag.Diagnostic
	Stats       Stats
}

// Run executes the full relocation pipeline against binary, producing a
// patched copy addressed at tune.NewBase. binary is never mutated; Run
// works on an internal copy. ctx is checked during the disassembly walk,
// the pipeline's only unbounded loop; a cancelled ctx aborts the run and
// Run returns ctx.Err().
func Run(ctx context.Context, logger *log.Logger, tune Tune, binary []byte) (Result, error) {
	img := sidimage.New(tune.OriginalBase, binary)
	delta := int32(tune.NewBase) - int32(tune.OriginalBase)

	entries, err := ResolveEntryPoints(img)
	if err != nil {
		return Result{}, err
	}
	logger.Debug("resolved jump table entries", log.Int("count", len(entries)))

	walk, err := disasm.Walk(ctx, img, entries)
	if err != nil {
		return Result{}, err
	}
	if len(walk.Code) == 0 {
		return Result{}, &EmptyCodeError{Entries: entries}
	}

	isData := func(addr uint16) bool { return walk.IsData(img, addr) }

	hiTables, hiDiags := tables.DetectHiByteTables(img, walk.Instructions, isData)
	interleaved, interDiags := tables.DetectInterleavedTables(img, walk.Instructions, isData)

	var diagnostics []diag.Diagnostic
	diagnostics = append(diagnostics, hiDiags...)
	diagnostics = append(diagnostics, interDiags...)
	if len(hiTables) == 0 && len(interleaved) == 0 && img.Len() > jumpTableSlots*3 {
		diagnostics = append(diagnostics, diag.New(diag.EmptyDetection,
			"neither pointer-table detector found a table in this tune"))
	}

	originalSID := codepatch.Window{Base: tune.OriginalSIDBase, Size: sidWindowSize}
	newSID := codepatch.Window{Base: tune.NewSIDBase, Size: sidWindowSize}

	codeStats := codepatch.Apply(img, walk.Instructions, originalSID, newSID, delta)
	patchedEntries := tables.PatchTables(img, hiTables, interleaved, delta)

	result := Result{
		Bytes:       img.Bytes(),
		Diagnostics: diagnostics,
		Stats: Stats{
			CodeInstructions:    len(walk.Instructions),
			RedirectedOperands:  codeStats.Redirected,
			RelocatedOperands:   codeStats.Relocated,
			HiByteTables:        len(hiTables),
			InterleavedTables:   len(interleaved),
			PatchedTableEntries: patchedEntries,
		},
	}

	for _, d := range diagnostics {
		if d.HasAddress {
			logger.Warning("diagnostic", log.String("kind", string(d.Kind)),
				log.String("message", d.Message), log.Hex("address", d.Address))
		} else {
			logger.Warning("diagnostic", log.String("kind", string(d.Kind)), log.String("message", d.Message))
		}
	}

	return result, nil
}

// sidWindowSize is the fixed 32-byte SID register window spec.md §3 names.
const sidWindowSize = 32

// ResolveEntryPoints validates each jump-table slot at the image base
// decodes to JMP abs and returns the JMP's operand as the true entry
// point the disassembler should seed from. Exported so callers that only
// need a disassembly (e.g. analysis reports) can reuse it without running
// the full relocation pipeline.
func ResolveEntryPoints(img *sidimage.Image) ([]uint16, error) {
	entries := make([]uint16, 0, jumpTableSlots)

	for slot := 0; slot < jumpTableSlots; slot++ {
		addr := img.Base() + uint16(slot*3)
		opcodeByte, ok := img.ReadByte(addr)
		if !ok {
			return nil, &MalformedEntryError{Slot: slot, Address: addr}
		}

		inst, ok := m6502.Decode(addr, opcodeByte, img.ReadByte)
		if !ok || inst.Mnemonic != m6502.Jmp || inst.Mode != m6502.AbsoluteAddressing {
			return nil, &MalformedEntryError{Slot: slot, Address: addr}
		}

		entries = append(entries, inst.AbsoluteOperand())
	}

	return entries, nil
}
