// Package diag defines the non-fatal diagnostics the engine accumulates
// while it runs, per spec.md §7.
package diag

// Kind identifies the category of a non-fatal diagnostic.
type Kind string

const (
	// AmbiguousTable marks a hi-byte table whose paired lo-byte table
	// could not be located within its data region; the table is left
	// unpatched.
	AmbiguousTable Kind = "ambiguous_table"

	// EmptyDetection marks a binary of non-trivial size for which neither
	// detector found any pointer table.
	EmptyDetection Kind = "empty_detection"

	// UnalignedInterleaved notes that an interleaved table's first
	// in-range pair did not start at an even offset from the base; this
	// is informational only, never an error (spec.md §7).
	UnalignedInterleaved Kind = "unaligned_interleaved"
)

// Diagnostic is a single non-fatal finding surfaced alongside the engine's
// output so the caller can log it.
type Diagnostic struct {
	Kind       Kind
	Message    string
	Address    uint16
	HasAddress bool
}

// New creates a diagnostic without an associated address.
func New(kind Kind, message string) Diagnostic {
	return Diagnostic{Kind: kind, Message: message}
}

// NewAt creates a diagnostic anchored to an address.
func NewAt(kind Kind, address uint16, message string) Diagnostic {
	return Diagnostic{Kind: kind, Message: message, Address: address, HasAddress: true}
}
