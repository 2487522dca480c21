package grid

import (
	"fmt"
	"strconv"
)

type person struct {
	ID   int
	Name string
	Age  int
	City string
}

func personColumns() []Column[person] {
	return []Column[person]{
		{ID: "id", Accessor: func(p person) any { return p.ID }},
		{ID: "name", Header: "Name", Accessor: func(p person) any { return p.Name }},
		{ID: "age", Header: "Age", Accessor: func(p person) any { return p.Age }},
		{ID: "city", Header: "City", Accessor: func(p person) any { return p.City }, Filter: FilterSelect},
	}
}

func people() []Row[person] {
	return KeyedRows([]person{
		{ID: 1, Name: "Alice", Age: 30, City: "Oslo"},
		{ID: 2, Name: "bob", Age: 25, City: "Bergen"},
		{ID: 3, Name: "Carol", Age: 30, City: "Oslo"},
		{ID: 4, Name: "dave", Age: 41, City: "Tromsø"},
		{ID: 5, Name: "Eve", Age: 25, City: "Bergen"},
	}, func(p person) string { return strconv.Itoa(p.ID) })
}

// numbered returns n rows whose single "n" column holds the row index.
func numbered(n int) []Row[int] {
	data := make([]int, n)
	for i := range data {
		data[i] = i
	}
	return Rows(data)
}

func numberColumns() []Column[int] {
	return []Column[int]{{ID: "n", Accessor: func(v int) any { return v }}}
}

// wideColumns returns n columns id0..id<n-1> reading fmt.Sprint of the row.
func wideColumns(n int) []Column[int] {
	cols := make([]Column[int], n)
	for i := range cols {
		cols[i] = Column[int]{
			ID:       fmt.Sprintf("id%d", i),
			Header:   fmt.Sprintf("Header %d", i),
			Accessor: func(v int) any { return fmt.Sprintf("r%d-c%d", v, i) },
			Width:    100,
		}
	}
	return cols
}

func rowIDs[T any](rows []Row[T]) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

func renderIDs[T any](rows []RenderRow[T]) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}
