// Package catalog builds and owns the in-memory book store. The store is
// built once per load from catalogue source files, optionally enriched
// from a publication-info side table, and never mutated afterwards;
// reloads build a fresh store and swap it in atomically.
package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/librisapp/libris-server/internal/domain"
)

// Row is the fixed positional input contract for one catalogue record:
// [author, title, id, callNumber, year, copy]. The source widget has
// always emitted rows in this order and the loader treats the contract as
// frozen.
type Row struct {
	Author     string
	Title      string
	ID         string
	CallNumber string
	Year       string
	Copy       string
}

// rowWidth is the number of positional fields in a source row.
const rowWidth = 6

// ParseRow converts one raw JSON row into a Row. Source files store rows
// as arrays whose cells may be strings or numbers (years in particular
// arrive both ways), so every cell is coerced to a string. Rows narrower
// than the contract are rejected; extra trailing cells are ignored.
func ParseRow(raw []any) (Row, error) {
	if len(raw) < rowWidth {
		return Row{}, fmt.Errorf("row has %d fields, want %d", len(raw), rowWidth)
	}

	cells := make([]string, rowWidth)
	for i := range rowWidth {
		cells[i] = cellString(raw[i])
	}

	return Row{
		Author:     cells[0],
		Title:      cells[1],
		ID:         cells[2],
		CallNumber: cells[3],
		Year:       cells[4],
		Copy:       cells[5],
	}, nil
}

// cellString renders a JSON cell value as a string. Numbers are formatted
// without a decimal point when they are whole, matching how years appear
// in the source.
func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Book converts the row into a domain record tagged with its partition.
// A year cell that does not parse as an integer is treated as unknown.
func (r Row) Book(partition string) domain.Book {
	year := 0
	if y, err := strconv.Atoi(strings.TrimSpace(r.Year)); err == nil {
		year = y
	}

	return domain.Book{
		ID:         r.ID,
		Title:      r.Title,
		Author:     r.Author,
		CallNumber: r.CallNumber,
		Year:       year,
		Copy:       r.Copy,
		Partition:  partition,
	}
}
