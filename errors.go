package medquery

import "errors"

// ErrSynthesizerRequired indicates Ask was called on a client built without
// an answer synthesizer.
var ErrSynthesizerRequired = errors.New("answer synthesizer is required")
