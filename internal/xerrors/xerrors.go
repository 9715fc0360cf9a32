// Package xerrors holds the error kinds raised across swfx's extractor and
// processors (spec.md §7).
package xerrors

import (
	"errors"
	"fmt"
)

// ErrCircularReference is raised when sprite timeline materialization
// re-enters itself (spec.md §5, §7) and CircularReference is enabled in the
// error mask.
var ErrCircularReference = errors.New("swfx: circular sprite reference")

// ErrNameNotExported is raised by byName when the requested name has no
// exported mapping (spec.md §4.1, §7).
var ErrNameNotExported = errors.New("swfx: name not exported")

// ParseError wraps a malformed-tag-stream failure propagated from the
// upstream parser. Always fatal unless IgnoreInvalidTag is set.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string { return fmt.Sprintf("swfx: parse error: %v", e.Cause) }
func (e *ParseError) Unwrap() error { return e.Cause }

// ProcessingInvalidDataError reports a structural violation detected while
// building a timeline (spec.md §7): a new placement lacking a characterId
// or naming an unknown one, a modify against an empty depth, or a missing
// ShowFrame. The shape and morph processors never return it.
type ProcessingInvalidDataError struct {
	Reason string
}

func (e *ProcessingInvalidDataError) Error() string {
	return fmt.Sprintf("swfx: invalid data: %s", e.Reason)
}

// NewProcessingInvalidData constructs a ProcessingInvalidDataError with a
// formatted reason.
func NewProcessingInvalidData(format string, args ...any) *ProcessingInvalidDataError {
	return &ProcessingInvalidDataError{Reason: fmt.Sprintf(format, args...)}
}
