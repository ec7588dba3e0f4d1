package sidimage

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestImage_ContainsAndBounds(t *testing.T) {
	img := New(0x1000, []byte{1, 2, 3, 4})

	assert.True(t, img.Contains(0x1000))
	assert.True(t, img.Contains(0x1003))
	assert.False(t, img.Contains(0x1004))
	assert.False(t, img.Contains(0x0FFF))
	assert.Equal(t, 4, img.Len())
	assert.Equal(t, 0x1004, img.End())
}

func TestImage_ReadWriteByte(t *testing.T) {
	img := New(0x1000, []byte{0xAA, 0xBB})

	b, ok := img.ReadByte(0x1001)
	assert.True(t, ok)
	assert.Equal(t, byte(0xBB), b)

	_, ok = img.ReadByte(0x2000)
	assert.False(t, ok)

	assert.True(t, img.WriteByte(0x1000, 0xFF))
	b, _ = img.ReadByte(0x1000)
	assert.Equal(t, byte(0xFF), b)

	assert.False(t, img.WriteByte(0x2000, 0x00))
}

func TestImage_New_CopiesInput(t *testing.T) {
	src := []byte{1, 2, 3}
	img := New(0x1000, src)
	src[0] = 0xFF

	b, _ := img.ReadByte(0x1000)
	assert.Equal(t, byte(1), b)
}

func TestImage_Bytes_ReturnsCopy(t *testing.T) {
	img := New(0x1000, []byte{1, 2, 3})
	out := img.Bytes()
	out[0] = 0xFF

	b, _ := img.ReadByte(0x1000)
	assert.Equal(t, byte(1), b)
}
