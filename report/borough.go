package report

import (
	"fmt"

	cp "github.com/invertedv/citypay"
	"gonum.org/v1/gonum/stat"
)

// Borough is one row of the companion borough lookup table.
type Borough struct {
	WorkLocation string
	Population   int
	AvgHomeCost  float64
}

// BoroughsFromTable reads the lookup table (columns work_location,
// population, avg_home_cost).
func BoroughsFromTable(t *cp.Table) ([]Borough, error) {
	var (
		locations []string
		pops      []int
		costs     []float64
		e         error
	)
	if locations, e = stringColumn(t, cp.WorkLocation); e != nil {
		return nil, e
	}
	if pops, e = intColumn(t, "population"); e != nil {
		return nil, e
	}
	if costs, e = floatColumn(t, "avg_home_cost"); e != nil {
		return nil, e
	}

	var out []Borough
	for row := 0; row < t.RowCount(); row++ {
		out = append(out, Borough{WorkLocation: locations[row], Population: pops[row], AvgHomeCost: costs[row]})
	}

	return out, nil
}

type Correlation struct {
	IncomePopulation float64
	IncomeHomeCost   float64
}

// LocationCorrelation correlates mean regular gross pay per borough with the
// borough's population and average home cost.
func LocationCorrelation(t *cp.Table, boroughs []Borough) (Correlation, error) {
	var (
		locations []string
		gross     []float64
		e         error
	)
	if locations, e = stringColumn(t, cp.WorkLocation); e != nil {
		return Correlation{}, e
	}
	if gross, e = floatColumn(t, cp.RegularGrossPaid); e != nil {
		return Correlation{}, e
	}

	pay := make(map[string][]float64)
	for row := 0; row < t.RowCount(); row++ {
		pay[locations[row]] = append(pay[locations[row]], gross[row])
	}

	var income, pop, cost []float64
	for _, b := range boroughs {
		p, ok := pay[b.WorkLocation]
		if !ok {
			continue
		}

		income = append(income, stat.Mean(p, nil))
		pop = append(pop, float64(b.Population))
		cost = append(cost, b.AvgHomeCost)
	}

	if len(income) < 3 {
		return Correlation{}, fmt.Errorf("need at least 3 boroughs with payroll rows, have %d", len(income))
	}

	return Correlation{
		IncomePopulation: stat.Correlation(income, pop, nil),
		IncomeHomeCost:   stat.Correlation(income, cost, nil),
	}, nil
}
