package diag

// Severity orders diagnostics by consequence. Only SevError blocks
// artifact generation; informational and warning diagnostics ride along
// in the bag and surface in reports without failing the compilation.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	// SevError marks membership, symbol, and translation problems
	// (the PK1xxx-PK4xxx error codes). A bag holding one fails the
	// compilation unit.
	SevError
)

// Blocking reports whether a diagnostic of this severity suppresses
// artifact generation.
func (s Severity) Blocking() bool {
	return s >= SevError
}

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
