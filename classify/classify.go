// Package classify derives per-employee tenure and income measures from the
// cleaned payroll table.  Classification is a pure read: it can be rerun any
// number of times against the same table.
package classify

import (
	"fmt"
	"sort"
	"time"

	cp "github.com/invertedv/citypay"
	"gonum.org/v1/gonum/stat"
)

// Seniority levels.
const (
	LevelEntry     = "Entry level"
	LevelMid       = "Mid level"
	LevelMidSenior = "Mid-senior"
	LevelSenior    = "Senior level"
	LevelOther     = "other"
)

// Tenure band edges, in days employed.
const (
	entryMax     = 1095
	midMax       = 2190
	midSeniorMax = 3285
)

// DefaultHourlyAgencies never populate base_salary; their income comes from
// regular_gross_paid instead.
var DefaultHourlyAgencies = []string{
	"DEPT OF ED PER SESSION TEACHER",
	"BOARD OF ELECTION POLL WORKERS",
	"DEPT OF ED HRLY SUPPORT STAFF",
}

type Config struct {
	// RefDate is the analysis cutoff tenure is measured against.
	RefDate time.Time

	// Status restricts classification to rows with this leave status.
	Status string

	// HourlyAgencies report income under regular_gross_paid.
	HourlyAgencies []string
}

func NewConfig(refDate time.Time) Config {
	return Config{
		RefDate:        refDate,
		Status:         "ACTIVE",
		HourlyAgencies: DefaultHourlyAgencies,
	}
}

// Record is the classification of one (employee, agency) pair.
type Record struct {
	Employee     string
	Agency       string
	DaysEmployed int
	YearlyIncome float64
	Level        string
}

type Records []Record

// Level buckets tenure.  Exactly 3285 days is Senior; the Mid-senior band is
// open at the top.
func Level(daysEmployed int) string {
	switch {
	case daysEmployed < 0:
		return LevelOther
	case daysEmployed <= entryMax:
		return LevelEntry
	case daysEmployed <= midMax:
		return LevelMid
	case daysEmployed < midSeniorMax:
		return LevelMidSenior
	default:
		return LevelSenior
	}
}

// Classify groups the table by (employee, agency) and derives tenure and
// yearly income for every group whose leave status matches cfg.Status.
// Groups with a missing start date or a derived income <= 0 are dropped --
// they are data-quality exclusions, not errors.
func Classify(t *cp.Table, cfg Config) (Records, error) {
	if cfg.RefDate.IsZero() {
		return nil, fmt.Errorf("no reference date in Classify")
	}

	var (
		names, agencies, status []string
		starts                  []time.Time
		base, gross             []float64
		e                       error
	)

	if names, e = stringColumn(t, cp.EmployeeName); e != nil {
		return nil, e
	}
	if agencies, e = stringColumn(t, cp.AgencyName); e != nil {
		return nil, e
	}
	if status, e = stringColumn(t, cp.LeaveStatus); e != nil {
		return nil, e
	}
	if starts, e = dateColumn(t, cp.AgencyStartDate); e != nil {
		return nil, e
	}
	if base, e = floatColumn(t, cp.BaseSalary); e != nil {
		return nil, e
	}
	if gross, e = floatColumn(t, cp.RegularGrossPaid); e != nil {
		return nil, e
	}

	type key struct {
		employee, agency string
	}

	type group struct {
		start   time.Time
		incomes []float64
	}

	groups := make(map[key]*group)
	var order []key

	for row := 0; row < t.RowCount(); row++ {
		if status[row] != cfg.Status {
			continue
		}

		k := key{employee: names[row], agency: agencies[row]}

		g, ok := groups[k]
		if !ok {
			g = &group{}
			groups[k] = g
			order = append(order, k)
		}

		if g.start.IsZero() && !starts[row].IsZero() {
			g.start = starts[row]
		}

		// hourly agencies never populate base_salary
		if has(k.agency, cfg.HourlyAgencies) {
			g.incomes = append(g.incomes, gross[row])
			continue
		}

		g.incomes = append(g.incomes, base[row])
	}

	var recs Records
	for _, k := range order {
		g := groups[k]

		if g.start.IsZero() {
			continue
		}

		income := stat.Mean(g.incomes, nil)
		if income <= 0 {
			continue
		}

		days := int(cfg.RefDate.Sub(g.start).Hours() / 24)

		recs = append(recs, Record{
			Employee:     k.employee,
			Agency:       k.agency,
			DaysEmployed: days,
			YearlyIncome: income,
			Level:        Level(days),
		})
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Employee != recs[j].Employee {
			return recs[i].Employee < recs[j].Employee
		}

		return recs[i].Agency < recs[j].Agency
	})

	return recs, nil
}

// ToTable converts the records to a Table for downstream aggregation.
func (recs Records) ToTable() (*cp.Table, error) {
	if len(recs) == 0 {
		return nil, fmt.Errorf("no records to convert")
	}

	n := len(recs)
	employees := make([]string, n)
	agencies := make([]string, n)
	days := make([]int, n)
	incomes := make([]float64, n)
	levels := make([]string, n)

	for ind := 0; ind < n; ind++ {
		employees[ind] = recs[ind].Employee
		agencies[ind] = recs[ind].Agency
		days[ind] = recs[ind].DaysEmployed
		incomes[ind] = recs[ind].YearlyIncome
		levels[ind] = recs[ind].Level
	}

	var cols []*cp.Col
	for _, cspec := range []struct {
		name string
		data any
	}{
		{cp.EmployeeName, employees},
		{cp.AgencyName, agencies},
		{"days_employed", days},
		{"yearly_income", incomes},
		{"employee_level", levels},
	} {
		var (
			col *cp.Col
			e   error
		)
		if col, e = cp.NewCol(cspec.name, cspec.data); e != nil {
			return nil, e
		}

		cols = append(cols, col)
	}

	return cp.NewTable(cols...)
}

// ***************** Helpers *****************

func stringColumn(t *cp.Table, name string) ([]string, error) {
	col, e := t.Column(name)
	if e != nil {
		return nil, e
	}

	return col.AsString()
}

func floatColumn(t *cp.Table, name string) ([]float64, error) {
	col, e := t.Column(name)
	if e != nil {
		return nil, e
	}

	return col.AsFloat()
}

func dateColumn(t *cp.Table, name string) ([]time.Time, error) {
	col, e := t.Column(name)
	if e != nil {
		return nil, e
	}

	return col.AsDate()
}

func has(needle string, haystack []string) bool {
	for _, straw := range haystack {
		if needle == straw {
			return true
		}
	}

	return false
}
