package source

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ReadYAML reads a sequence of mappings, with the same column rules as
// ReadJSON.
func ReadYAML(r io.Reader) (*Table, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	seq := &doc
	if seq.Kind == yaml.DocumentNode && len(seq.Content) > 0 {
		seq = seq.Content[0]
	}
	if seq.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a sequence of mappings", seq.Line)
	}

	var b objectBuilder
	for _, item := range seq.Content {
		if item.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("line %d: expected a mapping", item.Line)
		}
		obj := make([]field, 0, len(item.Content)/2)
		for i := 0; i+1 < len(item.Content); i += 2 {
			k, v := item.Content[i], item.Content[i+1]
			var val any
			if err := v.Decode(&val); err != nil {
				return nil, fmt.Errorf("line %d: key %q: %w", v.Line, k.Value, err)
			}
			obj = append(obj, field{key: k.Value, value: normalize(val)})
		}
		b.add(obj)
	}
	return b.table()
}
