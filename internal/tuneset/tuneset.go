// Package tuneset holds the declarative batch configuration for a
// multi-tune relocation run, grounded in original_source's hardcoded
// TUNE_CONFIG table in sid_processor.py.
package tuneset

// Entry describes one tune's source file and relocation target within a
// batch job.
type Entry struct {
	SIDFile    string
	Label      string
	NewBase    uint16
	SIDOffset  uint16 // offset from $D400, e.g. 0x20 for the second SID
	OutputPath string
}

// SIDBase returns the entry's absolute new SID register base address.
func (e Entry) SIDBase() uint16 {
	const baseSIDAddress = 0xD400
	return baseSIDAddress + e.SIDOffset
}

// Default is the four-tune EVO64 Super Quattro batch configuration this
// engine was built to drive, one tune per SID chip.
var Default = []Entry{
	{
		SIDFile:    "sids/quadcore/tune_1.sid",
		Label:      "Quad Core (tune 1)",
		NewBase:    0x1000,
		SIDOffset:  0x00,
		OutputPath: "build/tune1.bin",
	},
	{
		SIDFile:    "sids/quadcore/tune_2.sid",
		Label:      "Quad Core (tune 2)",
		NewBase:    0x3000,
		SIDOffset:  0x20,
		OutputPath: "build/tune2.bin",
	},
	{
		SIDFile:    "sids/quadcore/tune_3.sid",
		Label:      "Quad Core (tune 3)",
		NewBase:    0x5000,
		SIDOffset:  0x40,
		OutputPath: "build/tune3.bin",
	},
	{
		SIDFile:    "sids/quadcore/tune_4.sid",
		Label:      "Quad Core (tune 4)",
		NewBase:    0x7000,
		SIDOffset:  0x60,
		OutputPath: "build/tune4.bin",
	},
}
