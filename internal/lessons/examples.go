package lessons

import (
	"github.com/Veraticus/aneurisk/internal/table"
)

// GlucoseTable returns the nine-row ages and glucose readings example.
func GlucoseTable() *table.Table {
	t, err := table.New(
		table.Column{Name: "age", Kind: table.KindInt},
		table.Column{Name: "glucose", Kind: table.KindInt},
	)
	if err != nil {
		panic(err)
	}
	rows := [][2]int{
		{45, 95},
		{52, 110},
		{38, 88},
		{67, 150},
		{29, 92},
		{55, 105},
		{41, 99},
		{33, 85},
		{48, 101},
	}
	for _, r := range rows {
		if err := t.Append(table.Int(r[0]), table.Int(r[1])); err != nil {
			panic(err)
		}
	}
	return t
}

// OlderThan returns the glucose readings of patients older than age.
func OlderThan(t *table.Table, age int) ([]float64, error) {
	older := t.Filter(func(r table.Row) bool {
		a, ok := r.Int("age")
		return ok && a > age
	})
	values, _, err := older.Floats("glucose")
	return values, err
}

// SalesTable returns the regional sales example.
func SalesTable() *table.Table {
	t, err := table.New(
		table.Column{Name: "region", Kind: table.KindString},
		table.Column{Name: "amount", Kind: table.KindFloat},
	)
	if err != nil {
		panic(err)
	}
	rows := []struct {
		region string
		amount float64
	}{
		{"North", 100},
		{"South", 90},
		{"North", 120},
		{"South", 130},
	}
	for _, r := range rows {
		if err := t.Append(table.String(r.region), table.Float(r.amount)); err != nil {
			panic(err)
		}
	}
	return t
}
