// Package errmask defines the error-class bitmask threaded explicitly
// through the extractor and every processor (spec.md §6, §9: "thread the
// error mask explicitly... do not rely on ambient or process-wide state").
package errmask

// Mask configures which error classes are raised versus silently downgraded
// to a sentinel value.
type Mask uint8

const (
	// IgnoreInvalidTag downgrades a malformed/unrecognized tag to a skip
	// instead of propagating a ParseError.
	IgnoreInvalidTag Mask = 1 << iota
	// ExtraData downgrades trailing/unexpected data after a record to a
	// no-op instead of an error.
	ExtraData
	// UnprocessableData enables raising ProcessingInvalidData for
	// structural violations found by the timeline processor (missing or
	// unknown characterId on a new placement, modify of an empty depth,
	// missing ShowFrame). When unset, it recovers locally instead (spec.md
	// §7). The shape and morph processors do not read the mask: they always
	// recover locally, turning an unknown fill type into opaque black and a
	// bitmap id that isn't an image character into fill.EmptyImage.
	UnprocessableData
	// CircularReference enables raising CircularReference on re-entrant
	// sprite timeline materialization. When unset, re-entry instead yields
	// an empty Timeline sentinel (spec.md §5, §8).
	CircularReference
)

// Has reports whether every bit in want is set in m.
func (m Mask) Has(want Mask) bool { return m&want == want }
