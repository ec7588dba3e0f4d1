package harnessconfig

import (
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestRasterLines_EvenSpacing(t *testing.T) {
	lines := RasterLines(4)
	assert.Equal(t, []uint16{0, 78, 156, 234}, lines)
}

func TestRasterLines_ZeroCount(t *testing.T) {
	assert.Equal(t, 0, len(RasterLines(0)))
}

func TestWriteKickAsm_ContainsTuneConstants(t *testing.T) {
	records := []Record{
		{Label: "Quad Core (tune 1)", Base: 0x1000, Init: 0x1009, Play: 0x100C, Size: 4096, SIDBase: 0xD400},
		{Label: "Quad Core (tune 2)", Base: 0x3000, Init: 0x3009, Play: 0x300C, Size: 4096, SIDBase: 0xD420},
	}

	out := WriteKickAsm(records)

	assert.True(t, strings.Contains(out, ".const TUNE1_BASE = $1000"))
	assert.True(t, strings.Contains(out, ".const TUNE2_SID  = $D420"))
	assert.True(t, strings.Contains(out, ".const RASTER_IRQ1 = $00"))
	assert.True(t, strings.Contains(out, ".const RASTER_IRQ2 = $9C"))
}

func TestWriteKickAsm_ContainsSIDBaseConstants(t *testing.T) {
	out := WriteKickAsm(nil)

	assert.True(t, strings.Contains(out, ".const SID1_BASE = $D400"))
	assert.True(t, strings.Contains(out, ".const SID2_BASE = $D420"))
	assert.True(t, strings.Contains(out, ".const SID3_BASE = $D440"))
	assert.True(t, strings.Contains(out, ".const SID4_BASE = $D460"))
}
