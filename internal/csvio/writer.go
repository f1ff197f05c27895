package csvio

import (
	"bufio"
	"io"
	"strings"
)

// Writer emits records with minimal quoting: only fields containing the
// delimiter, the quote character or a line break are quoted. Records end
// with "\n".
type Writer struct {
	dialect Dialect
	w       *bufio.Writer
}

func NewWriter(w io.Writer, d Dialect) *Writer {
	return &Writer{dialect: d, w: bufio.NewWriter(w)}
}

// Write writes one record. Output is buffered until Flush.
func (w *Writer) Write(record []string) error {
	if err := w.dialect.Validate(); err != nil {
		return err
	}

	// A lone empty field would otherwise be a blank line, which readers skip.
	if len(record) == 1 && record[0] == "" {
		if _, err := w.w.WriteString(string([]rune{w.dialect.Quote, w.dialect.Quote})); err != nil {
			return err
		}
		return w.w.WriteByte('\n')
	}

	for i, field := range record {
		if i > 0 {
			if _, err := w.w.WriteRune(w.dialect.Comma); err != nil {
				return err
			}
		}
		if err := w.writeField(field); err != nil {
			return err
		}
	}
	return w.w.WriteByte('\n')
}

// WriteAll writes every record and flushes.
func (w *Writer) WriteAll(records [][]string) error {
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Flush writes buffered output to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

func (w *Writer) writeField(field string) error {
	if !w.needsQuotes(field) {
		_, err := w.w.WriteString(field)
		return err
	}

	quote := string(w.dialect.Quote)
	if _, err := w.w.WriteString(quote); err != nil {
		return err
	}
	if _, err := w.w.WriteString(strings.ReplaceAll(field, quote, quote+quote)); err != nil {
		return err
	}
	_, err := w.w.WriteString(quote)
	return err
}

func (w *Writer) needsQuotes(field string) bool {
	return strings.ContainsRune(field, w.dialect.Comma) ||
		strings.ContainsRune(field, w.dialect.Quote) ||
		strings.ContainsAny(field, "\r\n")
}
