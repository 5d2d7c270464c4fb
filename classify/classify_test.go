package classify

import (
	"testing"
	"time"

	cp "github.com/invertedv/citypay"
	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	cases := []struct {
		days  int
		level string
	}{
		{0, LevelEntry},
		{1095, LevelEntry},
		{1096, LevelMid},
		{2190, LevelMid},
		{2191, LevelMidSenior},
		{3284, LevelMidSenior},
		{3285, LevelSenior}, // boundary goes to Senior
		{3286, LevelSenior},
		{-5, LevelOther},
	}

	for _, c := range cases {
		assert.Equal(t, c.level, Level(c.days), "days=%d", c.days)
	}
}

var refDate = time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC)

func cleanedTable(t *testing.T) *cp.Table {
	mk := func(name string, data any) *cp.Col {
		col, e := cp.NewCol(name, data)
		assert.Nil(t, e)
		return col
	}

	daysAgo := func(n int) time.Time { return refDate.AddDate(0, 0, -n) }

	// SMITH: salaried, two fiscal years
	// DOE: hourly agency, base_salary structurally zero
	// ROE: not ACTIVE
	// POE: zero income
	// LEE: missing start date
	tbl, e := cp.NewTable(
		mk(cp.EmployeeName, []string{"SMITH JOHN", "SMITH JOHN", "DOE JANE", "ROE RICHARD", "POE EDGAR", "LEE ANNA"}),
		mk(cp.AgencyName, []string{"FIRE DEPARTMENT", "FIRE DEPARTMENT", "DEPT OF ED PER SESSION TEACHER",
			"FIRE DEPARTMENT", "SANITATION", "SANITATION"}),
		mk(cp.LeaveStatus, []string{"ACTIVE", "ACTIVE", "ACTIVE", "CEASED", "ACTIVE", "ACTIVE"}),
		mk(cp.AgencyStartDate, []time.Time{daysAgo(2500), daysAgo(2500), daysAgo(500), daysAgo(4000), daysAgo(100), {}}),
		mk(cp.BaseSalary, []float64{80000, 84000, 0, 72000, 0, 55000}),
		mk(cp.RegularGrossPaid, []float64{78000, 82000, 31000, 70000, 0, 54000}),
	)
	assert.Nil(t, e)

	return tbl
}

func TestClassify(t *testing.T) {
	recs, e := Classify(cleanedTable(t), NewConfig(refDate))
	assert.Nil(t, e)

	// ROE (not ACTIVE), POE (income 0) and LEE (no start date) are excluded
	assert.Equal(t, 2, len(recs))

	// sorted by employee
	assert.Equal(t, "DOE JANE", recs[0].Employee)
	assert.Equal(t, "SMITH JOHN", recs[1].Employee)

	// hourly agency income comes from regular_gross_paid, never base_salary
	assert.Equal(t, 31000.0, recs[0].YearlyIncome)
	assert.Equal(t, LevelEntry, recs[0].Level)
	assert.Equal(t, 500, recs[0].DaysEmployed)

	// salaried income is the mean base salary over grouped records
	assert.Equal(t, 82000.0, recs[1].YearlyIncome)
	assert.Equal(t, LevelMidSenior, recs[1].Level)
	assert.Equal(t, 2500, recs[1].DaysEmployed)
}

func TestClassify_status(t *testing.T) {
	cfg := NewConfig(refDate)
	cfg.Status = "CEASED"

	recs, e := Classify(cleanedTable(t), cfg)
	assert.Nil(t, e)
	assert.Equal(t, 1, len(recs))
	assert.Equal(t, "ROE RICHARD", recs[0].Employee)
	assert.Equal(t, LevelSenior, recs[0].Level)
}

func TestClassify_noRefDate(t *testing.T) {
	_, e := Classify(cleanedTable(t), Config{})
	assert.NotNil(t, e)
}

func TestClassify_missingColumn(t *testing.T) {
	tbl := cleanedTable(t)
	assert.Nil(t, tbl.DropColumns(cp.BaseSalary))

	_, e := Classify(tbl, NewConfig(refDate))
	assert.NotNil(t, e)
}

func TestRecords_ToTable(t *testing.T) {
	recs, e := Classify(cleanedTable(t), NewConfig(refDate))
	assert.Nil(t, e)

	tbl, e1 := recs.ToTable()
	assert.Nil(t, e1)
	assert.Equal(t, len(recs), tbl.RowCount())
	assert.Equal(t, []string{cp.EmployeeName, cp.AgencyName, "days_employed", "yearly_income", "employee_level"},
		tbl.ColumnNames())

	col, e2 := tbl.Column("employee_level")
	assert.Nil(t, e2)
	assert.Equal(t, LevelEntry, col.Element(0))

	_, e3 := Records{}.ToTable()
	assert.NotNil(t, e3)
}
