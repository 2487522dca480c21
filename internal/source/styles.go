package source

import (
	"github.com/imgajeed76/datagrid/internal/grid"
)

// ValueStyles marks cells by the kind of value they hold: NULLs are muted
// and get the "null" class, negative numbers are red with "negative".
// Hosts map the style keys onto their own presentation.
func ValueStyles() grid.StyleProvider[Record] {
	return grid.StyleFuncs[Record]{
		Cell: func(r grid.Row[Record], c grid.Column[Record]) grid.StyleMap {
			switch valueClass(c.Value(r.Data)) {
			case "null":
				return grid.StyleMap{"color": "muted", "faint": "true"}
			case "negative":
				return grid.StyleMap{"color": "red"}
			}
			return nil
		},
		CellClasses: func(r grid.Row[Record], c grid.Column[Record]) string {
			return valueClass(c.Value(r.Data))
		},
	}
}

func valueClass(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case int64:
		if x < 0 {
			return "negative"
		}
	case int:
		if x < 0 {
			return "negative"
		}
	case float64:
		if x < 0 {
			return "negative"
		}
	}
	return ""
}
