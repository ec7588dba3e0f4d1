package psid

import (
	"encoding/binary"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

// buildHeader assembles a minimal version-2 PSID header followed by body
// (which a caller may start with a two-byte embedded load address), mirroring the layout
// original_source/tools/sid_processor.go's parse_sid_header expects.
func buildHeader(version uint16, loadAddress uint16, body []byte) []byte {
	data := make([]byte, 0x7C)
	copy(data[0:4], "PSID")
	binary.BigEndian.PutUint16(data[4:6], version)
	binary.BigEndian.PutUint16(data[6:8], 0x7C) // data offset
	binary.BigEndian.PutUint16(data[8:10], loadAddress)
	binary.BigEndian.PutUint16(data[10:12], 0x1000) // init
	binary.BigEndian.PutUint16(data[12:14], 0x1003)  // play
	copy(data[0x16:], "Test Tune")
	copy(data[0x36:], "Test Author")

	if version >= 2 {
		data[0x78] = 0x00 // start page
		data[0x79] = 0x00 // page length
		data[0x7A] = 0x00 // second SID
		data[0x7B] = 0x00 // third SID
	}

	return append(data, body...)
}

func TestParseHeader_ExplicitLoadAddress(t *testing.T) {
	file := buildHeader(2, 0x1000, []byte{0xEA, 0x60})

	h, err := ParseHeader(file)
	assert.NoError(t, err)
	assert.Equal(t, "PSID", h.Magic)
	assert.Equal(t, uint16(2), h.Version)
	assert.Equal(t, uint16(0x1000), h.LoadAddress)
	assert.Equal(t, "Test Tune", h.Name)
	assert.Equal(t, "Test Author", h.Author)
}

func TestParseHeader_RejectsBadMagic(t *testing.T) {
	file := buildHeader(2, 0x1000, nil)
	copy(file[0:4], "XXXX")

	_, err := ParseHeader(file)
	assert.Error(t, err)
}

func TestExtractBinary_ExplicitLoadAddress(t *testing.T) {
	body := []byte{0xEA, 0x60}
	file := buildHeader(2, 0x1000, body)

	h, err := ParseHeader(file)
	assert.NoError(t, err)

	loadAddr, bin, err := ExtractBinary(file, h)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x1000), loadAddr)
	assert.Equal(t, body, bin)
}

func TestExtractBinary_EmbeddedLoadAddress(t *testing.T) {
	body := []byte{0xEA, 0x60}
	embedded := append([]byte{0x00, 0x30}, body...) // little-endian $3000
	file := buildHeader(2, 0, embedded)

	h, err := ParseHeader(file)
	assert.NoError(t, err)

	loadAddr, bin, err := ExtractBinary(file, h)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x3000), loadAddr)
	assert.Equal(t, body, bin)
}

func TestParseHeader_TooShort(t *testing.T) {
	_, err := ParseHeader([]byte{0x50, 0x53, 0x49, 0x44})
	assert.Error(t, err)
}
