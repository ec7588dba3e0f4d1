package codepatch

import (
	"context"
	"testing"

	"github.com/retroenv/retrogolib/assert"

	"github.com/evo64/sidreloc/internal/disasm"
	"github.com/evo64/sidreloc/internal/sidimage"
)

func TestApply_TuneRelocation(t *testing.T) {
	data := []byte{
		0x20, 0x10, 0x10, // $1000 JSR $1010
		0x60,                                                                   // $1003 RTS
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // $1004-$100F unreached padding
		0xEA,       // $1010 NOP
		0x60,       // $1011 RTS
	}
	img := sidimage.New(0x1000, data)
	walk, err := disasm.Walk(context.Background(), img, []uint16{0x1000})
	assert.NoError(t, err)

	originalSID := Window{Base: 0xD400, Size: 32}
	newSID := Window{Base: 0xD400, Size: 32}
	delta := int32(0x3000) - int32(0x1000)

	stats := Apply(img, walk.Instructions, originalSID, newSID, delta)

	assert.Equal(t, 1, stats.Relocated)
	assert.Equal(t, 0, stats.Redirected)

	b0, _ := img.ReadByte(0x1001)
	b1, _ := img.ReadByte(0x1002)
	assert.Equal(t, byte(0x10), b0)
	assert.Equal(t, byte(0x30), b1)
}

func TestApply_SIDRedirectionPrecedence(t *testing.T) {
	data := []byte{
		0xA9, 0x0F, // $1000 LDA #$0F
		0x8D, 0x04, 0xD4, // $1002 STA $D404 (SID voice 1 control)
		0x60, // $1005 RTS
	}
	img := sidimage.New(0x1000, data)
	walk, err := disasm.Walk(context.Background(), img, []uint16{0x1000})
	assert.NoError(t, err)

	originalSID := Window{Base: 0xD400, Size: 32}
	newSID := Window{Base: 0xD440, Size: 32}
	delta := int32(0x3000) - int32(0x1000)

	stats := Apply(img, walk.Instructions, originalSID, newSID, delta)

	assert.Equal(t, 1, stats.Redirected)
	assert.Equal(t, 0, stats.Relocated)

	lo, _ := img.ReadByte(0x1003)
	hi, _ := img.ReadByte(0x1004)
	assert.Equal(t, byte(0x44), lo)
	assert.Equal(t, byte(0xD4), hi)
}

func TestApply_UnrelatedOperandUntouched(t *testing.T) {
	data := []byte{
		0x2C, 0x00, 0x02, // $1000 BIT $0200 (outside both the tune and SID windows)
		0x60, // $1003 RTS
	}
	img := sidimage.New(0x1000, data)
	walk, err := disasm.Walk(context.Background(), img, []uint16{0x1000})
	assert.NoError(t, err)

	originalSID := Window{Base: 0xD400, Size: 32}
	newSID := Window{Base: 0xD440, Size: 32}

	stats := Apply(img, walk.Instructions, originalSID, newSID, 0x2000)

	assert.Equal(t, 0, stats.Redirected)
	assert.Equal(t, 0, stats.Relocated)

	lo, _ := img.ReadByte(0x1001)
	hi, _ := img.ReadByte(0x1002)
	assert.Equal(t, byte(0x00), lo)
	assert.Equal(t, byte(0x02), hi)
}

func TestWindow_Contains(t *testing.T) {
	w := Window{Base: 0xD400, Size: 32}
	assert.True(t, w.Contains(0xD400))
	assert.True(t, w.Contains(0xD41F))
	assert.False(t, w.Contains(0xD420))
}
