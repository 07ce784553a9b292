package gifcore

import "errors"

// Sentinel errors for the small, fixed set of structural and geometry
// failures this package's error taxonomy covers. Callers distinguish cases
// with errors.Is; a host layer embedding this package is expected to map
// these onto its own richer error kinds.
var (
	ErrNoColorMap       = errors.New("gifcore: no effective color map")
	ErrFrameOutOfBounds = errors.New("gifcore: frame rectangle outside canvas")
	ErrFrameIndex       = errors.New("gifcore: frame index out of range")
	ErrNotSlurped       = errors.New("gifcore: decoder has not been slurped")
	ErrEncoderConsumed  = errors.New("gifcore: encoder already flushed")
	ErrFrameTooLarge    = errors.New("gifcore: frame exceeds declared screen dimensions")
	ErrOutOfOrder       = errors.New("gifcore: frames must be encoded in ascending index order")
)
