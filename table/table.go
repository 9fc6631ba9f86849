/*
Package table lays out encoded parameters for display and for pasting into a
spreadsheet or the parameter editor of the optical simulation.

Parameters can be listed one per row or one per column. Either way the
serialized form is tab separated values with a single newline after every
line; that exact shape is what paste targets consume.
*/
package table

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bodgit/mems/param"
)

// Orientation selects whether parameters are laid out as rows or columns.
type Orientation int

// Table orientations
const (
	RowsPerParameter Orientation = iota
	ColumnsPerParameter
)

// Row labels, also used as the header of the rows layout
const (
	LabelParameter = "Parameter"
	LabelPixels    = "Pixels"
	LabelValue     = "Value"
)

// ErrOrientation is returned by ParseOrientation for unrecognised input
var ErrOrientation = errors.New("table: unknown orientation")

func (o Orientation) String() string {
	switch o {
	case RowsPerParameter:
		return "rows"
	case ColumnsPerParameter:
		return "columns"
	default:
		return "unknown"
	}
}

// ParseOrientation parses "rows" or "columns".
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rows", "row":
		return RowsPerParameter, nil
	case "columns", "column", "cols":
		return ColumnsPerParameter, nil
	}
	return RowsPerParameter, fmt.Errorf("%w: %q", ErrOrientation, s)
}

// Table is the formatted cell layout of a set of parameters.
type Table struct {
	Orientation Orientation
	Rows        [][]string
}

func fields(r param.Record) [3]string {
	return [3]string{
		strconv.Itoa(r.Index),
		r.Pixels(),
		strconv.FormatUint(r.Value, 10),
	}
}

// Format lays out records in the given orientation. With RowsPerParameter
// the first line is the header followed by one line per record. With
// ColumnsPerParameter the first line holds an empty corner cell and the
// parameter number of each column, followed by the Parameter, Pixels and
// Value rows.
func Format(records []param.Record, o Orientation) *Table {
	t := &Table{Orientation: o}

	if o == RowsPerParameter {
		t.Rows = make([][]string, 0, len(records)+1)
		t.Rows = append(t.Rows, []string{LabelParameter, LabelPixels, LabelValue})
		for _, r := range records {
			f := fields(r)
			t.Rows = append(t.Rows, f[:])
		}
		return t
	}

	header := make([]string, 1, len(records)+1)
	rows := [3][]string{
		append(make([]string, 0, len(records)+1), LabelParameter),
		append(make([]string, 0, len(records)+1), LabelPixels),
		append(make([]string, 0, len(records)+1), LabelValue),
	}
	for _, r := range records {
		f := fields(r)
		header = append(header, f[0])
		for i := range rows {
			rows[i] = append(rows[i], f[i])
		}
	}
	t.Rows = [][]string{header, rows[0], rows[1], rows[2]}

	return t
}

// TSV returns the table as tab separated values.
func (t *Table) TSV() string {
	var b strings.Builder
	t.WriteTo(&b)
	return b.String()
}

// WriteTo writes the table to w as tab separated values.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for _, row := range t.Rows {
		c, err := io.WriteString(w, strings.Join(row, "\t")+"\n")
		n += int64(c)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
