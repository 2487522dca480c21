package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// ReadJSON reads an array of objects. Columns appear in the order their
// keys are first seen; objects missing a key read nil there. Nested
// values are kept as compact JSON text.
func ReadJSON(r io.Reader) (*Table, error) {
	var items []json.RawMessage
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode json array: %w", err)
	}

	var b objectBuilder
	for i, raw := range items {
		obj, err := decodeObject(raw)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		b.add(obj)
	}
	return b.table()
}

type field struct {
	key   string
	value any
}

// decodeObject decodes one JSON object keeping key order.
func decodeObject(raw json.RawMessage) ([]field, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var fields []field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		fields = append(fields, field{key: key, value: normalize(v)})
	}
	return fields, nil
}

// objectBuilder accumulates ordered objects into a Table.
type objectBuilder struct {
	columns []string
	index   map[string]int
	rows    [][]field
}

func (b *objectBuilder) add(obj []field) {
	if b.index == nil {
		b.index = make(map[string]int)
	}
	for _, f := range obj {
		if _, ok := b.index[f.key]; !ok {
			b.index[f.key] = len(b.columns)
			b.columns = append(b.columns, f.key)
		}
	}
	b.rows = append(b.rows, obj)
}

func (b *objectBuilder) table() (*Table, error) {
	if len(b.columns) == 0 && len(b.rows) > 0 {
		return nil, ErrNoColumns
	}
	t := &Table{Columns: uniqueColumns(b.columns), Records: make([]Record, len(b.rows))}
	for i, obj := range b.rows {
		rec := make(Record, len(b.columns))
		for _, f := range obj {
			rec[b.index[f.key]] = f.value
		}
		t.Records[i] = rec
	}
	return t, nil
}
