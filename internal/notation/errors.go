// FILE: internal/notation/errors.go
package notation

import "errors"

// Typed parse/validation failures. None of these escapes the interpreter
// boundary as a panic; the caller decides fallback.
var (
	ErrUnparseable     = errors.New("unparseable move text")
	ErrIllegalMove     = errors.New("destination not in legal move set")
	ErrMissingPiece    = errors.New("no matching piece")
	ErrWrongColor      = errors.New("piece belongs to the opponent")
	ErrKingCapture     = errors.New("own king capture attempt")
	ErrUnresolvedCheck = errors.New("move does not resolve check")
)
