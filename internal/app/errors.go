package app

import "errors"

// Error kinds surfaced by boundary validation and the scoring engine.
// Callers match them with errors.Is; messages carry the offending value.
var (
	ErrParse           = errors.New("parse error")
	ErrInvalidArgument = errors.New("invalid argument")
)
