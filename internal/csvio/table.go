package csvio

import (
	"fmt"
	"io"
)

// ReadTable reads a header record followed by data records and normalises
// their widths with the dialect's ragged policy. Empty input yields an empty
// table.
func ReadTable(r io.Reader, d Dialect) (headers []string, rows [][]string, err error) {
	cr := NewReader(r, d)

	headers, err = cr.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	var lines []int
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		rows = append(rows, rec)
		lines = append(lines, cr.Line())
	}

	headers, rows, err = Normalize(headers, rows, lines, d.Ragged)
	if err != nil {
		return nil, nil, err
	}
	return headers, rows, nil
}

// Normalize applies policy to rows read under headers. lines holds the source
// line of each row for error reporting and may be nil.
func Normalize(headers []string, rows [][]string, lines []int, policy RaggedPolicy) ([]string, [][]string, error) {
	switch policy {
	case RaggedReject:
		for i, row := range rows {
			if len(row) != len(headers) {
				line := i + 2
				if i < len(lines) {
					line = lines[i]
				}
				return nil, nil, &ParseError{
					Line: line,
					Err:  fmt.Errorf("%w: %d fields, header has %d", ErrRaggedRow, len(row), len(headers)),
				}
			}
		}
		return headers, rows, nil

	case RaggedPad:
		width := len(headers)
		for _, row := range rows {
			width = max(width, len(row))
		}
		headers = pad(headers, width)
		for i := range rows {
			rows[i] = pad(rows[i], width)
		}
		return headers, rows, nil

	default:
		return nil, nil, fmt.Errorf("unknown ragged policy %v", policy)
	}
}

// WriteTable writes headers verbatim followed by every row. Rows shorter than
// the header are completed with empty fields.
func WriteTable(w io.Writer, d Dialect, headers []string, rows [][]string) error {
	if len(headers) == 0 && len(rows) == 0 {
		return nil
	}

	cw := NewWriter(w, d)
	if err := cw.Write(headers); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(pad(row, len(headers))); err != nil {
			return err
		}
	}
	return cw.Flush()
}

func pad(fields []string, width int) []string {
	if len(fields) >= width {
		return fields
	}
	out := make([]string, width)
	copy(out, fields)
	return out
}
