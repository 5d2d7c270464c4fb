package citypay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func buildTable(t *testing.T) *Table {
	names, e := NewCol("name", []string{"c", "a", "b"})
	assert.Nil(t, e)

	pay, e1 := NewCol("pay", []float64{3, 1, 2})
	assert.Nil(t, e1)

	yr, e2 := NewCol("year", []int{2017, 2015, 2016})
	assert.Nil(t, e2)

	tbl, e3 := NewTable(names, pay, yr)
	assert.Nil(t, e3)

	return tbl
}

func TestNewTable(t *testing.T) {
	tbl := buildTable(t)

	assert.Equal(t, 3, tbl.RowCount())
	assert.Equal(t, 3, tbl.ColumnCount())
	assert.Equal(t, []string{"name", "pay", "year"}, tbl.ColumnNames())

	// unequal lengths
	short, _ := NewCol("short", []int{1})
	long, _ := NewCol("long", []int{1, 2})
	_, e := NewTable(short, long)
	assert.NotNil(t, e)

	// duplicate names
	a1, _ := NewCol("a", []int{1})
	a2, _ := NewCol("a", []int{2})
	_, e1 := NewTable(a1, a2)
	assert.NotNil(t, e1)
}

func TestTable_DropColumns(t *testing.T) {
	tbl := buildTable(t)

	assert.Nil(t, tbl.DropColumns("pay"))
	assert.Equal(t, []string{"name", "year"}, tbl.ColumnNames())
	assert.False(t, tbl.HasColumn("pay"))

	// dropping the head column
	assert.Nil(t, tbl.DropColumns("name"))
	assert.Equal(t, []string{"year"}, tbl.ColumnNames())

	assert.NotNil(t, tbl.DropColumns("missing"))
}

func TestTable_RenameColumn(t *testing.T) {
	tbl := buildTable(t)

	assert.Nil(t, tbl.RenameColumn("pay", "salary"))
	assert.True(t, tbl.HasColumn("salary"))
	assert.False(t, tbl.HasColumn("pay"))

	// values survive a rename
	col, e := tbl.Column("salary")
	assert.Nil(t, e)
	assert.Equal(t, []float64{3, 1, 2}, col.Data().([]float64))

	assert.NotNil(t, tbl.RenameColumn("missing", "x"))
	assert.NotNil(t, tbl.RenameColumn("salary", "year"))
}

func TestTable_KeepRows(t *testing.T) {
	tbl := buildTable(t)

	assert.Nil(t, tbl.KeepRows([]bool{true, false, true}))
	assert.Equal(t, 2, tbl.RowCount())

	col, _ := tbl.Column("name")
	assert.Equal(t, []string{"c", "b"}, col.Data().([]string))

	col, _ = tbl.Column("year")
	assert.Equal(t, []int{2017, 2016}, col.Data().([]int))

	assert.NotNil(t, tbl.KeepRows([]bool{true}))
}

func TestTable_AppendColumn(t *testing.T) {
	tbl := buildTable(t)

	dt, _ := NewCol("start", []time.Time{
		time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.Nil(t, tbl.AppendColumn(dt))
	assert.Equal(t, 4, tbl.ColumnCount())

	// duplicate name
	dup, _ := NewCol("name", []int{1, 2, 3})
	assert.NotNil(t, tbl.AppendColumn(dup))

	// length mismatch
	short, _ := NewCol("short", []int{1})
	assert.NotNil(t, tbl.AppendColumn(short))
}

func TestTable_Sort(t *testing.T) {
	tbl := buildTable(t)

	assert.Nil(t, tbl.Sort("name"))

	col, _ := tbl.Column("name")
	assert.Equal(t, []string{"a", "b", "c"}, col.Data().([]string))

	// companion columns move with the key
	col, _ = tbl.Column("year")
	assert.Equal(t, []int{2015, 2016, 2017}, col.Data().([]int))
}

func TestTable_Copy(t *testing.T) {
	tbl := buildTable(t)
	cp := tbl.Copy()

	assert.Nil(t, cp.KeepRows([]bool{true, false, false}))
	assert.Equal(t, 1, cp.RowCount())
	assert.Equal(t, 3, tbl.RowCount())
}

func TestCol_AsFloat(t *testing.T) {
	c, _ := NewCol("x", []int{1, 2})

	x, e := c.AsFloat()
	assert.Nil(t, e)
	assert.Equal(t, []float64{1, 2}, x)

	s, _ := NewCol("s", []string{"a"})
	_, e1 := s.AsFloat()
	assert.NotNil(t, e1)
}
