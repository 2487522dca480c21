package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReadCSV reads delimited text with a header row. Bytes that are not
// valid UTF-8 are decoded through cs. Cells are typed per column: a
// column whose every non-empty cell is an integer becomes int64, and so
// on through float64, bool and time.Time, falling back to string. Empty
// cells are nil.
func ReadCSV(r io.Reader, comma rune, cs Charset) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoColumns
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = trimBOM(header[0])
	}
	for i := range header {
		header[i] = cs.Repair(header[i])
	}

	var raw [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		for i := range rec {
			rec[i] = cs.Repair(rec[i])
		}
		raw = append(raw, rec)
	}

	kinds := make([]cellKind, len(header))
	column := make([]string, len(raw))
	for c := range header {
		for i, rec := range raw {
			column[i] = ""
			if c < len(rec) {
				column[i] = rec[c]
			}
		}
		kinds[c] = inferKind(column)
	}

	t := &Table{Columns: uniqueColumns(header), Records: make([]Record, len(raw))}
	for i, rec := range raw {
		row := make(Record, len(header))
		for c := range header {
			if c < len(rec) {
				row[c] = convert(rec[c], kinds[c])
			}
		}
		t.Records[i] = row
	}
	return t, nil
}

func trimBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}
