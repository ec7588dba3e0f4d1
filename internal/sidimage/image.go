// Package sidimage implements the engine's byte-addressed view of a loaded
// SID-WIZARD binary (spec.md §3's Image).
package sidimage

// Image is a mutable byte buffer addressed by absolute 16-bit address,
// anchored at a load base. The half-open range [Base, Base+Len) is the
// tune range.
type Image struct {
	base uint16
	data []byte
}

// New copies data into a fresh Image addressed starting at base.
func New(base uint16, data []byte) *Image {
	buf := make([]byte, len(data))
	copy(buf, data)
	return &Image{base: base, data: buf}
}

// Base returns the image's load address.
func (img *Image) Base() uint16 {
	return img.base
}

// Len returns the number of bytes in the image.
func (img *Image) Len() int {
	return len(img.data)
}

// End returns the address one past the last byte of the tune range.
func (img *Image) End() int {
	return int(img.base) + len(img.data)
}

// Contains reports whether addr lies in the tune range [Base, Base+Len).
func (img *Image) Contains(addr uint16) bool {
	off := int(addr) - int(img.base)
	return off >= 0 && off < len(img.data)
}

// ReadByte returns the byte at addr, or ok=false if addr is outside the
// tune range.
func (img *Image) ReadByte(addr uint16) (byte, bool) {
	off := int(addr) - int(img.base)
	if off < 0 || off >= len(img.data) {
		return 0, false
	}
	return img.data[off], true
}

// WriteByte writes value at addr. It reports false and does nothing if
// addr is outside the tune range.
func (img *Image) WriteByte(addr uint16, value byte) bool {
	off := int(addr) - int(img.base)
	if off < 0 || off >= len(img.data) {
		return false
	}
	img.data[off] = value
	return true
}

// Bytes returns a copy of the image's underlying buffer, suitable for
// writing verbatim to an output file.
func (img *Image) Bytes() []byte {
	out := make([]byte, len(img.data))
	copy(out, img.data)
	return out
}
