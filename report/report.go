// Package report holds the descriptive queries run against the cleaned
// payroll table.  Every report is an independent, read-only aggregation;
// none of them write back.
package report

import (
	"fmt"
	"sort"
	"time"

	cp "github.com/invertedv/citypay"
	"github.com/invertedv/citypay/classify"
	"gonum.org/v1/gonum/stat"
)

// ***************** Agency size *****************

type AgencyCount struct {
	Agency    string
	Headcount int
}

// AgencySize counts employees per agency for one fiscal year, largest first.
func AgencySize(t *cp.Table, fiscalYear int) ([]AgencyCount, error) {
	var (
		agencies []string
		years    []int
		e        error
	)
	if agencies, e = stringColumn(t, cp.AgencyName); e != nil {
		return nil, e
	}
	if years, e = intColumn(t, cp.FiscalYear); e != nil {
		return nil, e
	}

	counts := make(map[string]int)
	for row := 0; row < t.RowCount(); row++ {
		if years[row] != fiscalYear {
			continue
		}

		counts[agencies[row]]++
	}

	var out []AgencyCount
	for agency, n := range counts {
		out = append(out, AgencyCount{Agency: agency, Headcount: n})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Headcount != out[j].Headcount {
			return out[i].Headcount > out[j].Headcount
		}

		return out[i].Agency < out[j].Agency
	})

	return out, nil
}

// ***************** Budget variance *****************

type VarianceRow struct {
	Agency     string
	FiscalYear int
	Actual     float64
	Budget     float64
	Variance   float64
}

// BudgetVariance compares actual pay (regular gross + overtime + other) with
// budgeted pay (base salary) per agency and fiscal year.
func BudgetVariance(t *cp.Table) ([]VarianceRow, error) {
	var (
		agencies            []string
		years               []int
		gross, ot, oth, base []float64
		e                   error
	)
	if agencies, e = stringColumn(t, cp.AgencyName); e != nil {
		return nil, e
	}
	if years, e = intColumn(t, cp.FiscalYear); e != nil {
		return nil, e
	}
	if gross, e = floatColumn(t, cp.RegularGrossPaid); e != nil {
		return nil, e
	}
	if ot, e = floatColumn(t, cp.TotalOTPaid); e != nil {
		return nil, e
	}
	if oth, e = floatColumn(t, cp.TotalOtherPay); e != nil {
		return nil, e
	}
	if base, e = floatColumn(t, cp.BaseSalary); e != nil {
		return nil, e
	}

	type key struct {
		agency string
		year   int
	}

	actuals := make(map[key]float64)
	budgets := make(map[key]float64)
	for row := 0; row < t.RowCount(); row++ {
		k := key{agency: agencies[row], year: years[row]}
		actuals[k] += gross[row] + ot[row] + oth[row]
		budgets[k] += base[row]
	}

	var out []VarianceRow
	for k, actual := range actuals {
		out = append(out, VarianceRow{
			Agency:     k.agency,
			FiscalYear: k.year,
			Actual:     actual,
			Budget:     budgets[k],
			Variance:   actual - budgets[k],
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Agency != out[j].Agency {
			return out[i].Agency < out[j].Agency
		}

		return out[i].FiscalYear < out[j].FiscalYear
	})

	return out, nil
}

// ***************** Overtime *****************

type OvertimeRow struct {
	Agency       string
	OTHoursRatio float64
	OTPayShare   float64
}

// OvertimeReliance measures, per agency, overtime hours relative to regular
// hours and overtime pay relative to total pay.  Rows with no positive
// regular hours contribute to neither sum.
func OvertimeReliance(t *cp.Table) ([]OvertimeRow, error) {
	var (
		agencies               []string
		regHrs, otHrs, gross, otPay []float64
		e                      error
	)
	if agencies, e = stringColumn(t, cp.AgencyName); e != nil {
		return nil, e
	}
	if regHrs, e = floatColumn(t, cp.RegularHours); e != nil {
		return nil, e
	}
	if otHrs, e = floatColumn(t, cp.OTHours); e != nil {
		return nil, e
	}
	if gross, e = floatColumn(t, cp.RegularGrossPaid); e != nil {
		return nil, e
	}
	if otPay, e = floatColumn(t, cp.TotalOTPaid); e != nil {
		return nil, e
	}

	type sums struct {
		regHrs, otHrs, gross, otPay float64
	}

	byAgency := make(map[string]*sums)
	for row := 0; row < t.RowCount(); row++ {
		// ratio guard: skip rows that would divide by zero
		if regHrs[row] <= 0 {
			continue
		}

		s, ok := byAgency[agencies[row]]
		if !ok {
			s = &sums{}
			byAgency[agencies[row]] = s
		}

		s.regHrs += regHrs[row]
		s.otHrs += otHrs[row]
		s.gross += gross[row]
		s.otPay += otPay[row]
	}

	var out []OvertimeRow
	for agency, s := range byAgency {
		r := OvertimeRow{Agency: agency, OTHoursRatio: s.otHrs / s.regHrs}
		if tot := s.gross + s.otPay; tot > 0 {
			r.OTPayShare = s.otPay / tot
		}

		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].OTHoursRatio > out[j].OTHoursRatio })

	return out, nil
}

// ***************** Hourly wage *****************

// HourlyWage computes regular_gross_paid / regular_hours over rows with
// positive regular hours and returns the wage quantiles at probs.
func HourlyWage(t *cp.Table, probs []float64) ([]float64, error) {
	var (
		regHrs, gross []float64
		e             error
	)
	if regHrs, e = floatColumn(t, cp.RegularHours); e != nil {
		return nil, e
	}
	if gross, e = floatColumn(t, cp.RegularGrossPaid); e != nil {
		return nil, e
	}

	var wages []float64
	for row := 0; row < t.RowCount(); row++ {
		if regHrs[row] <= 0 {
			continue
		}

		wages = append(wages, gross[row]/regHrs[row])
	}

	if wages == nil {
		return nil, fmt.Errorf("no rows with positive regular hours")
	}

	sort.Float64s(wages)

	out := make([]float64, len(probs))
	for ind := 0; ind < len(probs); ind++ {
		if probs[ind] < 0 || probs[ind] > 1 {
			return nil, fmt.Errorf("quantile probability %v out of range", probs[ind])
		}

		out[ind] = stat.Quantile(probs[ind], stat.LinInterp, wages, nil)
	}

	return out, nil
}

// ***************** Hiring seasonality *****************

// HiringSeasonality counts hires by calendar month of the agency start date.
// Rows with a missing start date are skipped.
func HiringSeasonality(t *cp.Table) (map[time.Month]int, error) {
	var (
		starts []time.Time
		e      error
	)
	if starts, e = dateColumn(t, cp.AgencyStartDate); e != nil {
		return nil, e
	}

	out := make(map[time.Month]int)
	for row := 0; row < t.RowCount(); row++ {
		if starts[row].IsZero() {
			continue
		}

		out[starts[row].Month()]++
	}

	return out, nil
}

// ***************** Tenure vs leave *****************

type TenureRow struct {
	LeaveStatus string
	MeanDays    float64
	Count       int
}

// TenureByLeaveStatus averages days employed per leave status as of refDate.
func TenureByLeaveStatus(t *cp.Table, refDate time.Time) ([]TenureRow, error) {
	var (
		status []string
		starts []time.Time
		e      error
	)
	if status, e = stringColumn(t, cp.LeaveStatus); e != nil {
		return nil, e
	}
	if starts, e = dateColumn(t, cp.AgencyStartDate); e != nil {
		return nil, e
	}

	days := make(map[string][]float64)
	for row := 0; row < t.RowCount(); row++ {
		if starts[row].IsZero() {
			continue
		}

		days[status[row]] = append(days[status[row]], refDate.Sub(starts[row]).Hours()/24)
	}

	var out []TenureRow
	for st, d := range days {
		out = append(out, TenureRow{LeaveStatus: st, MeanDays: stat.Mean(d, nil), Count: len(d)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].LeaveStatus < out[j].LeaveStatus })

	return out, nil
}

// ***************** Level income *****************

type LevelIncomeRow struct {
	Level      string
	MeanIncome float64
	Count      int
}

// LevelIncome averages yearly income per seniority level.  Non-positive
// incomes were already excluded by Classify.
func LevelIncome(recs classify.Records) []LevelIncomeRow {
	incomes := make(map[string][]float64)
	for _, r := range recs {
		incomes[r.Level] = append(incomes[r.Level], r.YearlyIncome)
	}

	var out []LevelIncomeRow
	for level, inc := range incomes {
		out = append(out, LevelIncomeRow{Level: level, MeanIncome: stat.Mean(inc, nil), Count: len(inc)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Level < out[j].Level })

	return out
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

func intColumn(t *cp.Table, name string) ([]int, error) {
	col, e := t.Column(name)
	if e != nil {
		return nil, e
	}

	return col.AsInt()
}

func dateColumn(t *cp.Table, name string) ([]time.Time, error) {
	col, e := t.Column(name)
	if e != nil {
		return nil, e
	}

	return col.AsDate()
}
