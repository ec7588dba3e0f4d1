// Package analysis produces a human-readable, non-mutating report of a
// tune's recursive-descent disassembly: code/data coverage, SID register
// reference counts and their named register meanings, and internal vs.
// I/O address reference counts. Grounded in
// original_source/tools/sid_processor.go's analyze_sid_binary.
package analysis

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/evo64/sidreloc/internal/codepatch"
	"github.com/evo64/sidreloc/internal/disasm"
	"github.com/evo64/sidreloc/internal/m6502"
	"github.com/evo64/sidreloc/internal/sidimage"
)

// registerNames maps an offset within the 32-byte SID window to the
// register's conventional name, for the first of up to four chips.
var registerNames = map[uint16]string{
	0: "Freq Lo (V1)", 1: "Freq Hi (V1)", 2: "PW Lo (V1)", 3: "PW Hi (V1)",
	4: "Ctrl (V1)", 5: "AD (V1)", 6: "SR (V1)",
	7: "Freq Lo (V2)", 8: "Freq Hi (V2)", 9: "PW Lo (V2)", 10: "PW Hi (V2)",
	11: "Ctrl (V2)", 12: "AD (V2)", 13: "SR (V2)",
	14: "Freq Lo (V3)", 15: "Freq Hi (V3)", 16: "PW Lo (V3)", 17: "PW Hi (V3)",
	18: "Ctrl (V3)", 19: "AD (V3)", 20: "SR (V3)",
	21: "FC Lo", 22: "FC Hi", 23: "Res/Filt", 24: "Mode/Vol",
	25: "Pot X", 26: "Pot Y", 27: "OSC3 Random", 28: "ENV3",
}

// ioWindow is the full $D000-$DFFF C64 I/O address space; references that
// land here but miss the SID window are reported separately.
var ioWindow = codepatch.Window{Base: 0xD000, Size: 0x1000}

// Report summarizes a disassembly walk's findings.
type Report struct {
	CodeBytes    int
	DataBytes    int
	TotalBytes   int
	CodeStart    uint16
	CodeEnd      uint16
	Instructions int
	InternalRefs int
	IORefs       int
	SIDRefs      map[uint16]int
}

// Analyze runs disasm.Walk and tallies reference categories without
// mutating img, for reporting only (spec.md's engine never produces this
// view; it is ambient diagnostics tooling around it). It returns ctx.Err()
// if ctx is cancelled mid-walk.
func Analyze(ctx context.Context, img *sidimage.Image, entryPoints []uint16, sidWindow codepatch.Window) (Report, error) {
	walk, err := disasm.Walk(ctx, img, entryPoints)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		TotalBytes: img.Len(),
		SIDRefs:    map[uint16]int{},
	}
	covered := map[uint16]struct{}{}
	for _, inst := range walk.Instructions {
		for i := uint16(0); i < uint16(inst.Length); i++ {
			covered[inst.Address+i] = struct{}{}
		}
	}
	report.CodeBytes = len(covered)
	report.DataBytes = report.TotalBytes - report.CodeBytes
	report.Instructions = len(walk.Instructions)

	var codeStart, codeEnd uint16
	first := true
	for addr := range walk.Code {
		if first || addr < codeStart {
			codeStart = addr
		}
		if first || addr > codeEnd {
			codeEnd = addr
		}
		first = false
	}
	report.CodeStart = codeStart
	report.CodeEnd = codeEnd

	for _, inst := range walk.Instructions {
		if !m6502.IsAbsoluteOperand(inst.Mode) || len(inst.Operand) < 2 {
			continue
		}
		addr := inst.AbsoluteOperand()
		switch {
		case sidWindow.Contains(addr):
			report.SIDRefs[addr]++
		case img.Contains(addr):
			report.InternalRefs++
		case ioWindow.Contains(addr):
			report.IORefs++
		}
	}

	return report, nil
}

// String renders the report in the original tool's section layout.
func (r Report) String() string {
	var b strings.Builder
	pct := func(n int) int {
		if r.TotalBytes == 0 {
			return 0
		}
		return n * 100 / r.TotalBytes
	}

	fmt.Fprintf(&b, "Recursive Descent Analysis:\n")
	fmt.Fprintf(&b, "  Code bytes found:      %d (%d%% of binary)\n", r.CodeBytes, pct(r.CodeBytes))
	fmt.Fprintf(&b, "  Data bytes found:      %d (%d%% of binary)\n", r.DataBytes, pct(r.DataBytes))
	fmt.Fprintf(&b, "  Code region:           $%04X-$%04X\n", r.CodeStart, r.CodeEnd)
	fmt.Fprintf(&b, "  Instructions in code:  %d\n", r.Instructions)
	fmt.Fprintf(&b, "  Internal addr refs:    %d\n", r.InternalRefs)
	fmt.Fprintf(&b, "  I/O register refs:     %d\n\n", r.IORefs)

	total := 0
	for _, n := range r.SIDRefs {
		total += n
	}
	fmt.Fprintf(&b, "SID Register References (%d total):\n", total)

	addrs := make([]uint16, 0, len(r.SIDRefs))
	for a := range r.SIDRefs {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	for _, addr := range addrs {
		name := registerNames[addr%32]
		if name == "" {
			name = fmt.Sprintf("Reg %d", addr%32)
		}
		fmt.Fprintf(&b, "  $%04X (%s): %dx\n", addr, name, r.SIDRefs[addr])
	}

	return b.String()
}
