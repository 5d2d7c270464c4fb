package citypay

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const rawCSV = `employee_name,agency_name,fiscal_year,base_salary,agency_start_date
"SMITH JOHN","POLICE DEPARTMENT",2020,85000.00,2015-06-01
"DOE JANE","DEPT OF ED PER SESSION TEACHER",2020,,2018-09-15
"ROE RICHARD","FIRE DEPARTMENT",2021,72000.50,2010-01-20
`

func loadCSV(t *testing.T, contents string, opts ...FileOpt) *Table {
	fileName := filepath.Join(t.TempDir(), "payroll.csv")
	assert.Nil(t, os.WriteFile(fileName, []byte(contents), 0o644))

	f, e := NewFiles(opts...)
	assert.Nil(t, e)
	assert.Nil(t, f.Open(fileName))
	defer func() { _ = f.Close() }()

	tbl, e1 := FileLoad(f)
	assert.Nil(t, e1)

	return tbl
}

func TestFileLoad(t *testing.T) {
	tbl := loadCSV(t, rawCSV)

	assert.Equal(t, 3, tbl.RowCount())
	assert.Equal(t, []string{"employee_name", "agency_name", "fiscal_year", "base_salary", "agency_start_date"},
		tbl.ColumnNames())

	col, e := tbl.Column("fiscal_year")
	assert.Nil(t, e)
	assert.Equal(t, DTint, col.DataType())

	col, _ = tbl.Column("base_salary")
	assert.Equal(t, DTfloat, col.DataType())
	// missing value reads as zero
	assert.Equal(t, []float64{85000, 0, 72000.5}, col.Data().([]float64))

	col, _ = tbl.Column("agency_start_date")
	assert.Equal(t, DTdate, col.DataType())
	assert.Equal(t, time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC), col.Element(0))

	col, _ = tbl.Column("agency_name")
	assert.Equal(t, "DEPT OF ED PER SESSION TEACHER", col.Element(1))
}

func TestFileLoad_names(t *testing.T) {
	const noHeader = `"a",1,2.5
"b",2,3.5
`
	tbl := loadCSV(t, noHeader, FileNames("k", "n", "x"))

	assert.Equal(t, 2, tbl.RowCount())
	assert.Equal(t, []string{"k", "n", "x"}, tbl.ColumnNames())
}

func TestFiles_Save(t *testing.T) {
	tbl := loadCSV(t, rawCSV)

	f, e := NewFiles()
	assert.Nil(t, e)

	fileName := filepath.Join(t.TempDir(), "out.csv")
	assert.Nil(t, f.Save(fileName, tbl))

	// round trip
	f2, _ := NewFiles()
	assert.Nil(t, f2.Open(fileName))
	defer func() { _ = f2.Close() }()

	tbl2, e1 := FileLoad(f2)
	assert.Nil(t, e1)
	assert.Equal(t, tbl.RowCount(), tbl2.RowCount())
	assert.Equal(t, tbl.ColumnNames(), tbl2.ColumnNames())

	col, _ := tbl2.Column("employee_name")
	assert.Equal(t, "SMITH JOHN", col.Element(0))
}

func TestFileLoad_strict(t *testing.T) {
	const bad = `1,1.5
oops,2.5
`
	fileName := filepath.Join(t.TempDir(), "bad.csv")
	assert.Nil(t, os.WriteFile(fileName, []byte(bad), 0o644))

	f, _ := NewFiles(FileStrict(true), FileNames("n", "x"), FileTypes(DTint, DTfloat))
	assert.Nil(t, f.Open(fileName))
	defer func() { _ = f.Close() }()

	_, e := FileLoad(f)
	assert.NotNil(t, e)
}
