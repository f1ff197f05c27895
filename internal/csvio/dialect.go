// Package csvio reads and writes delimited text with a configurable quote
// character. The editor's files quote with '|' rather than '"', which
// encoding/csv cannot express.
package csvio

import (
	"errors"
	"fmt"
	"strings"
)

// RaggedPolicy decides how records whose width differs from the header are
// normalised when a table is read.
type RaggedPolicy int

const (
	// RaggedPad widens the table to its widest record and pads the header and
	// every short record with empty strings.
	RaggedPad RaggedPolicy = iota
	// RaggedReject fails the read at the first record whose width differs from
	// the header.
	RaggedReject
)

func (p RaggedPolicy) String() string {
	switch p {
	case RaggedPad:
		return "pad"
	case RaggedReject:
		return "reject"
	default:
		return fmt.Sprintf("RaggedPolicy(%d)", int(p))
	}
}

// ParseRaggedPolicy maps a configured name onto a policy
func ParseRaggedPolicy(name string) (RaggedPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "pad":
		return RaggedPad, nil
	case "reject":
		return RaggedReject, nil
	default:
		return RaggedPad, fmt.Errorf("unknown ragged policy %q", name)
	}
}

// Dialect describes the on-disk format
type Dialect struct {
	Comma  rune
	Quote  rune
	Ragged RaggedPolicy
}

// DefaultDialect is comma separated, '|' quoted, ragged rows padded
func DefaultDialect() Dialect {
	return Dialect{Comma: ',', Quote: '|', Ragged: RaggedPad}
}

var errInvalidDialect = errors.New("invalid dialect")

// Validate rejects dialects the reader and writer cannot round trip
func (d Dialect) Validate() error {
	switch {
	case d.Comma == d.Quote:
		return fmt.Errorf("%w: delimiter and quote are both %q", errInvalidDialect, d.Comma)
	case d.Comma == '\r' || d.Comma == '\n' || d.Quote == '\r' || d.Quote == '\n':
		return fmt.Errorf("%w: line breaks cannot delimit or quote", errInvalidDialect)
	case d.Comma == 0 || d.Quote == 0:
		return fmt.Errorf("%w: delimiter and quote must be set", errInvalidDialect)
	}
	return nil
}
