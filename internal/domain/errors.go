package domain

import "errors"

// ErrInvalidInput marks caller mistakes (too few locations, malformed
// timestamps, oversized break lists). Planning aborts with no partial result.
var ErrInvalidInput = errors.New("invalid input")
