package table

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/bodgit/mems/grid"
	"github.com/bodgit/mems/param"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var records = []param.Record{
	{Index: 10, Start: 1, End: 15, Value: 4},
	{Index: 11, Start: 16, End: 30, Value: 0},
	{Index: 12, Start: 31, End: 42, Value: 531440},
}

func lines(s string) []string {
	l := strings.SplitAfter(s, "\n")
	return l[:len(l)-1]
}

func TestFormatRows(t *testing.T) {
	tsv := Format(records, RowsPerParameter).TSV()

	assert.Equal(t, "Parameter\tPixels\tValue\n"+
		"10\t1-15\t4\n"+
		"11\t16-30\t0\n"+
		"12\t31-42\t531440\n", tsv)
	assert.Len(t, lines(tsv), len(records)+1)
}

func TestFormatColumns(t *testing.T) {
	tsv := Format(records, ColumnsPerParameter).TSV()

	assert.Equal(t, "\t10\t11\t12\n"+
		"Parameter\t10\t11\t12\n"+
		"Pixels\t1-15\t16-30\t31-42\n"+
		"Value\t4\t0\t531440\n", tsv)

	l := lines(tsv)
	require.Len(t, l, 4)
	for _, line := range l {
		assert.True(t, strings.HasSuffix(line, "\n"))
		assert.Len(t, strings.Split(strings.TrimSuffix(line, "\n"), "\t"), len(records)+1)
	}
}

func TestFormatEmpty(t *testing.T) {
	assert.Equal(t, "Parameter\tPixels\tValue\n", Format(nil, RowsPerParameter).TSV())
	assert.Equal(t, "\nParameter\nPixels\nValue\n", Format(nil, ColumnsPerParameter).TSV())
}

func TestFormatDefaultGrid(t *testing.T) {
	all := param.Encode(grid.Default().Snapshot(), param.DefaultGroupSize)

	rows := Format(all, RowsPerParameter)
	assert.Len(t, rows.Rows, 207)
	assert.Equal(t, []string{"215", "3061-3072", "0"}, rows.Rows[206])

	cols := Format(all, ColumnsPerParameter)
	require.Len(t, cols.Rows, 4)
	for _, row := range cols.Rows {
		assert.Len(t, row, 207)
	}
}

func TestFormatIsPure(t *testing.T) {
	for _, o := range []Orientation{RowsPerParameter, ColumnsPerParameter} {
		assert.Equal(t, Format(records, o).TSV(), Format(records, o).TSV())
	}
}

func TestWriteTo(t *testing.T) {
	tab := Format(records, ColumnsPerParameter)

	var b bytes.Buffer
	n, err := tab.WriteTo(&b)
	require.NoError(t, err)
	assert.Equal(t, int64(b.Len()), n)
	assert.Equal(t, tab.TSV(), b.String())
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) {
	return 0, errors.New("write failed")
}

func TestWriteToError(t *testing.T) {
	_, err := Format(records, RowsPerParameter).WriteTo(failWriter{})
	assert.Error(t, err)
}

func TestParseOrientation(t *testing.T) {
	tables := []struct {
		input string
		o     Orientation
		err   error
	}{
		{"rows", RowsPerParameter, nil},
		{"Columns", ColumnsPerParameter, nil},
		{"cols", ColumnsPerParameter, nil},
		{"diagonal", RowsPerParameter, ErrOrientation},
	}

	for _, table := range tables {
		o, err := ParseOrientation(table.input)
		if table.err != nil {
			assert.ErrorIs(t, err, table.err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, table.o, o)
	}

	for _, o := range []Orientation{RowsPerParameter, ColumnsPerParameter} {
		p, err := ParseOrientation(o.String())
		require.NoError(t, err)
		assert.Equal(t, o, p)
	}
}
