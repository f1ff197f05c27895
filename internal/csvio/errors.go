package csvio

import (
	"errors"
	"fmt"
)

var (
	// ErrUnterminatedQuote reports a quoted field still open at end of input.
	ErrUnterminatedQuote = errors.New("unterminated quoted field")

	// ErrRaggedRow reports a record whose width differs from the header.
	ErrRaggedRow = errors.New("record width differs from header")
)

// ParseError locates a malformed record in the input.
type ParseError struct {
	Line   int // 1-based line of the offending record
	Column int // 1-based rune column, 0 when the whole record is at fault
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("parse error on line %d, column %d: %v", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("parse error on line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
