package csvio

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"
)

const bom = "\uFEFF"

// Reader splits delimited text into records.
//
// A field opening with the quote character runs until the matching closing
// quote; inside it a doubled quote is a literal quote and delimiters and line
// breaks are data. A quote appearing anywhere else is an ordinary character.
// Blank lines are skipped and a leading UTF-8 BOM is dropped.
type Reader struct {
	dialect    Dialect
	r          *bufio.Reader
	line       int
	recordLine int
}

func NewReader(r io.Reader, d Dialect) *Reader {
	return &Reader{dialect: d, r: bufio.NewReader(r)}
}

// Line returns the line on which the most recently read record started.
func (r *Reader) Line() int {
	return r.recordLine
}

// Read returns the next record, or io.EOF once the input is exhausted.
func (r *Reader) Read() ([]string, error) {
	if err := r.dialect.Validate(); err != nil {
		return nil, err
	}

	for {
		line, err := r.readLine()
		if err != nil {
			return nil, err
		}
		if trimEOL(line) == "" {
			continue
		}
		return r.parseRecord(line)
	}
}

// ReadAll reads every remaining record.
func (r *Reader) ReadAll() ([][]string, error) {
	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}

func (r *Reader) readLine() (string, error) {
	line, err := r.r.ReadString('\n')
	if err == io.EOF && len(line) > 0 {
		err = nil
	}
	if err != nil {
		return "", err
	}
	if r.line == 0 {
		line = strings.TrimPrefix(line, bom)
	}
	r.line++
	return line, nil
}

func (r *Reader) parseRecord(line string) ([]string, error) {
	r.recordLine = r.line

	var (
		fields     []string
		field      strings.Builder
		quoted     bool
		fieldStart = true
		quoteLine  int
		quoteCol   int
	)

	for {
		content := trimEOL(line)
		col := 0
		for i := 0; i < len(content); {
			c, size := utf8.DecodeRuneInString(content[i:])
			col++

			switch {
			case quoted:
				if c == r.dialect.Quote {
					next, nsize := utf8.DecodeRuneInString(content[i+size:])
					if nsize > 0 && next == r.dialect.Quote {
						field.WriteRune(c)
						i += size + nsize
						col++
						continue
					}
					quoted = false
				} else {
					field.WriteRune(c)
				}
			case c == r.dialect.Comma:
				fields = append(fields, field.String())
				field.Reset()
				fieldStart = true
				i += size
				continue
			case c == r.dialect.Quote && fieldStart:
				quoted = true
				quoteLine, quoteCol = r.line, col
			default:
				field.WriteRune(c)
			}

			fieldStart = false
			i += size
		}

		if !quoted {
			break
		}

		// The record continues past this line break.
		eol := line[len(content):]
		if eol == "" {
			return nil, &ParseError{Line: quoteLine, Column: quoteCol, Err: ErrUnterminatedQuote}
		}
		field.WriteString(eol)

		next, err := r.readLine()
		if err == io.EOF {
			return nil, &ParseError{Line: quoteLine, Column: quoteCol, Err: ErrUnterminatedQuote}
		}
		if err != nil {
			return nil, err
		}
		line = next
		fieldStart = false
	}

	return append(fields, field.String()), nil
}

func trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
