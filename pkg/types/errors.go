/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: errors.go
Description: Sentinel error kinds shared across the loghound pipeline, matching
the error-kind table in the spec's error handling design. InputIO and
InvalidOptions are fatal and meant to be wrapped with fmt.Errorf("...: %w", ...)
at the boundary where they're detected; ParseError and DegenerateStats are
absorbed into returned artifacts rather than propagated.
*/

package types

import "errors"

var (
	// ErrInputIO marks a failure reading or locating the input file.
	ErrInputIO = errors.New("input_io")
	// ErrInvalidOptions marks a caller-supplied option outside its valid domain.
	ErrInvalidOptions = errors.New("invalid_options")
)
