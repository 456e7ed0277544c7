package picker

import "errors"

// ErrInvalidInput marks caller mistakes such as a missing symbol. The API
// maps it to 400.
var ErrInvalidInput = errors.New("invalid input")
