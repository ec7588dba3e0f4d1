// Package psid parses PSID/RSID container files and extracts the raw C64
// binary payload they wrap, grounded on the header layout documented and
// implemented by the EVO64 Super Quattro Quad-SID Player's original
// Python tooling (original_source/tools/sid_processor.py).
//
// Container parsing is ambient plumbing around the relocation engine, not
// part of spec.md's own data model; it exists so cmd/sidreloc can load a
// real .sid file end to end.
package psid

import (
	"encoding/binary"
	"fmt"
)

// minHeaderLen is the length of a version-1 PSID/RSID header.
const minHeaderLen = 0x76

// v2HeaderLen is the length of a version-2-or-later header, including the
// flags/page/second-SID/third-SID fields.
const v2HeaderLen = 0x7C

// Header is a parsed PSID/RSID header.
type Header struct {
	Magic            string
	Version          uint16
	DataOffset       uint16
	LoadAddress      uint16
	InitAddress      uint16
	PlayAddress      uint16
	Songs            uint16
	StartSong        uint16
	Speed            uint32
	Name             string
	Author           string
	Released         string
	Flags            uint16
	StartPage        byte
	PageLength       byte
	SecondSIDAddress byte
	ThirdSIDAddress  byte
}

// FormatError reports that the input does not start with a PSID/RSID
// magic, or is too short to hold a header.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("not a valid SID file: %s", e.Reason)
}

// ParseHeader parses the PSID/RSID header from the start of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < minHeaderLen {
		return Header{}, &FormatError{Reason: fmt.Sprintf("file too short for a header (%d bytes)", len(data))}
	}

	magic := string(data[0:4])
	if magic != "PSID" && magic != "RSID" {
		return Header{}, &FormatError{Reason: fmt.Sprintf("magic=%q", magic)}
	}

	h := Header{
		Magic:       magic,
		Version:     binary.BigEndian.Uint16(data[4:6]),
		DataOffset:  binary.BigEndian.Uint16(data[6:8]),
		LoadAddress: binary.BigEndian.Uint16(data[8:10]),
		InitAddress: binary.BigEndian.Uint16(data[10:12]),
		PlayAddress: binary.BigEndian.Uint16(data[12:14]),
		Songs:       binary.BigEndian.Uint16(data[14:16]),
		StartSong:   binary.BigEndian.Uint16(data[16:18]),
		Speed:       binary.BigEndian.Uint32(data[18:22]),
		Name:        trimField(data[0x16:0x36]),
		Author:      trimField(data[0x36:0x56]),
		Released:    trimField(data[0x56:0x76]),
	}

	if h.Version >= 2 && len(data) >= v2HeaderLen {
		h.Flags = binary.BigEndian.Uint16(data[0x76:0x78])
		h.StartPage = data[0x78]
		h.PageLength = data[0x79]
		h.SecondSIDAddress = data[0x7A]
		h.ThirdSIDAddress = data[0x7B]
	}

	return h, nil
}

// trimField decodes a nul-terminated, fixed-width Latin-1 text field.
func trimField(field []byte) string {
	for i, b := range field {
		if b == 0 {
			field = field[:i]
			break
		}
	}
	return string(field)
}

// ExtractBinary returns the load address and raw C64 binary payload for a
// parsed header against the full file contents. When the header's
// LoadAddress field is zero, the true load address is stored little-endian
// in the first two bytes of the payload (the C64 PRG convention).
func ExtractBinary(data []byte, h Header) (uint16, []byte, error) {
	if int(h.DataOffset) > len(data) {
		return 0, nil, &FormatError{Reason: "data offset past end of file"}
	}
	raw := data[h.DataOffset:]

	if h.LoadAddress != 0 {
		return h.LoadAddress, raw, nil
	}
	if len(raw) < 2 {
		return 0, nil, &FormatError{Reason: "missing embedded load address"}
	}
	loadAddr := binary.LittleEndian.Uint16(raw[0:2])
	return loadAddr, raw[2:], nil
}

// SecondSIDBase converts a version-2+ header's SecondSIDAddress byte into a
// full 16-bit address. The byte holds bits 4-11 of an address in
// $D000-$DFFF (PSID v2NG encoding); a value below $42, above $FE, or in the
// reserved $80-$DF range means "none". Odd values are accepted as given.
func (h Header) SecondSIDBase() (uint16, bool) {
	return sidPageAddress(h.SecondSIDAddress)
}

// ThirdSIDBase is ThirdSIDAddress's counterpart to SecondSIDBase.
func (h Header) ThirdSIDBase() (uint16, bool) {
	return sidPageAddress(h.ThirdSIDAddress)
}

func sidPageAddress(page byte) (uint16, bool) {
	if page < 0x42 || page > 0xFE {
		return 0, false
	}
	if page >= 0x80 && page <= 0xDF {
		return 0, false // reserved range, per the v2NG spec
	}
	return 0xD000 | uint16(page)<<4, true
}
