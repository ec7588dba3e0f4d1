// Package harnessconfig emits a KickAssembler include file describing a
// batch of relocated tunes: per-tune base/init/play/size/SID constants
// plus the shared PAL raster-line constants used to stagger the IRQ
// handlers driving a multi-SID player. Grounded in
// original_source/tools/sid_processor.go's generate_kickasm_config and its
// hardcoded four-SID raster spacing.
package harnessconfig

import (
	"fmt"
	"strings"
)

// palRasterLines is the total number of raster lines in a PAL C64 frame.
const palRasterLines = 312

// sidBaseCount and sidBaseStep describe the EVO64 Super Quattro quad-SID
// addressing: four 32-byte SID windows starting at $D400, spaced $20 apart.
const (
	sidBaseCount = 4
	sidBaseStep  = 0x20
	sidBaseStart = 0xD400
)

// Record is one tune's entry in the generated include file.
type Record struct {
	Label   string
	Base    uint16
	Init    uint16
	Play    uint16
	Size    int
	SIDBase uint16
}

// RasterLines returns n evenly spaced raster trigger lines across a PAL
// frame: floor(312*k/n) for k in [0, n).
func RasterLines(n int) []uint16 {
	if n <= 0 {
		return nil
	}
	lines := make([]uint16, n)
	for k := 0; k < n; k++ {
		lines[k] = uint16(palRasterLines * k / n)
	}
	return lines
}

// WriteKickAsm renders a KickAssembler .inc file for records: the fixed
// SID1_BASE..SID4_BASE quad-SID addresses, TUNE{i}_* constants for each
// record, and RASTER_IRQ{k} constants spaced evenly across the PAL frame
// by RasterLines(len(records)).
func WriteKickAsm(records []Record) string {
	var b strings.Builder

	b.WriteString("// ============================================================\n")
	b.WriteString("// Auto-generated harness configuration - do not edit by hand\n")
	b.WriteString("// Regenerate by re-running the relocation engine\n")
	b.WriteString("// ============================================================\n\n")

	b.WriteString("// SID chip base addresses (EVO64 Super Quattro addressing)\n")
	for i := 0; i < sidBaseCount; i++ {
		fmt.Fprintf(&b, ".const SID%d_BASE = $%04X\n", i+1, sidBaseStart+i*sidBaseStep)
	}
	b.WriteString("\n")

	b.WriteString("// PAL timing constants\n")
	fmt.Fprintf(&b, ".const PAL_RASTER_LINES = %d\n\n", palRasterLines)

	lines := RasterLines(len(records))
	b.WriteString("// Raster IRQ trigger lines (evenly spaced across the frame)\n")
	for i, line := range lines {
		fmt.Fprintf(&b, ".const RASTER_IRQ%d = $%02X\n", i+1, line)
	}
	b.WriteString("\n")

	for i, r := range records {
		n := i + 1
		fmt.Fprintf(&b, "// Tune %d: %s\n", n, r.Label)
		fmt.Fprintf(&b, ".const TUNE%d_BASE = $%04X\n", n, r.Base)
		fmt.Fprintf(&b, ".const TUNE%d_INIT = $%04X\n", n, r.Init)
		fmt.Fprintf(&b, ".const TUNE%d_PLAY = $%04X\n", n, r.Play)
		fmt.Fprintf(&b, ".const TUNE%d_SIZE = %d\n", n, r.Size)
		fmt.Fprintf(&b, ".const TUNE%d_SID  = $%04X\n\n", n, r.SIDBase)
	}

	return b.String()
}
