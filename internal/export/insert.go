package export

import (
	"fmt"
	"strings"
)

// Record exposes its exportable fields by lower-case column name.
type Record interface {
	Field(column string) (Value, bool)
}

// Row renders one parenthesised value tuple in column order.
func Row(r Record, columns []string) (string, error) {
	values := make([]string, 0, len(columns))
	for _, col := range columns {
		v, ok := r.Field(col)
		if !ok || v == nil {
			return "", fmt.Errorf("%w: unknown column %q", ErrUnsupportedValue, col)
		}
		lit, err := v.Literal()
		if err != nil {
			return "", fmt.Errorf("column %s: %w", col, err)
		}
		values = append(values, lit)
	}
	return "(" + strings.Join(values, ", ") + ")", nil
}

// InsertStatement builds a single multi-row INSERT for table. Column names are
// upper-cased in the column list; rows keep the order of records.
func InsertStatement[R Record](table string, columns []string, records []R) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("insert into %s: no rows", table)
	}

	rows := make([]string, 0, len(records))
	for i, r := range records {
		row, err := Row(r, columns)
		if err != nil {
			return "", fmt.Errorf("row %d: %w", i, err)
		}
		rows = append(rows, row)
	}

	upper := make([]string, len(columns))
	for i, col := range columns {
		upper[i] = strings.ToUpper(col)
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s;",
		table, strings.Join(upper, ", "), strings.Join(rows, ", ")), nil
}
