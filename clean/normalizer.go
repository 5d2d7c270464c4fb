// Package clean reshapes the raw payroll table into the canonical schema
// the analysis packages assume.  The steps are ordered: later steps read
// column names and values earlier steps produce.
package clean

import (
	"fmt"
	"strings"

	cp "github.com/invertedv/citypay"
	"github.com/rs/zerolog"
)

// Step is one structural edit to the table.
type Step interface {
	Name() string
	Apply(t *cp.Table, lg zerolog.Logger) error
}

type Normalizer struct {
	steps []Step
	lg    zerolog.Logger
}

// NewNormalizer returns the citywide payroll pipeline:
//  1. drop mid_init, payroll_number
//  2. rename leave_status_as_of_june_thirty to leave_status
//  3. upper-case borough values matching Bronx/Manhattan/Queens/Richmond and
//     agency values matching Police Department
//  4. rename work_location_borough to work_location
//  5. delete rows whose work_location is not one of the five boroughs
//
// Brooklyn is absent from the casing match list; rows carrying a non-canonical
// Brooklyn spelling fall out at the scope filter.  Unmatched casing variants
// are removed, not repaired.
func NewNormalizer(lg zerolog.Logger) *Normalizer {
	return &Normalizer{
		lg: lg,
		steps: []Step{
			&Drop{Columns: []string{cp.RawMidInit, cp.RawPayrollNumber}},
			&Rename{From: cp.RawLeaveStatus, To: cp.LeaveStatus},
			&Upper{Column: cp.RawWorkLocation, Match: []string{"Bronx", "Manhattan", "Queens", "Richmond"}, IfExists: true},
			&Upper{Column: cp.AgencyName, Match: []string{"Police Department"}},
			&Rename{From: cp.RawWorkLocation, To: cp.WorkLocation},
			&Scope{Column: cp.WorkLocation, Allowed: cp.Boroughs},
		},
	}
}

// NewCustom builds a Normalizer from caller-supplied steps.
func NewCustom(lg zerolog.Logger, steps ...Step) *Normalizer {
	return &Normalizer{lg: lg, steps: steps}
}

// Run applies every step in order.  A structural error (a column a step
// requires is gone and was never produced) aborts the run; re-running on an
// already-clean table is a no-op.
func (n *Normalizer) Run(t *cp.Table) error {
	for ind := 0; ind < len(n.steps); ind++ {
		if e := n.steps[ind].Apply(t, n.lg); e != nil {
			return fmt.Errorf("step %s: %w", n.steps[ind].Name(), e)
		}
	}

	return nil
}

// ***************** Drop *****************

// Drop removes columns.  A missing column is skipped so the step is
// idempotent.
type Drop struct {
	Columns []string
}

func (s *Drop) Name() string {
	return "drop"
}

func (s *Drop) Apply(t *cp.Table, lg zerolog.Logger) error {
	dropped := 0
	for _, cName := range s.Columns {
		if !t.HasColumn(cName) {
			continue
		}

		if e := t.DropColumns(cName); e != nil {
			return e
		}
		dropped++
	}

	lg.Info().Str("step", s.Name()).Int("columns", dropped).Msg("dropped columns")

	return nil
}

// ***************** Rename *****************

// Rename changes a column identifier, preserving every row and value.  If
// only the target name exists the table is already renamed and the step is a
// no-op; if neither name exists the schema is broken and the step fails.
type Rename struct {
	From string
	To   string
}

func (s *Rename) Name() string {
	return "rename"
}

func (s *Rename) Apply(t *cp.Table, lg zerolog.Logger) error {
	if !t.HasColumn(s.From) {
		if t.HasColumn(s.To) {
			return nil
		}

		return fmt.Errorf("neither %s nor %s exists", s.From, s.To)
	}

	if t.HasColumn(s.To) {
		return fmt.Errorf("both %s and %s exist", s.From, s.To)
	}

	if e := t.RenameColumn(s.From, s.To); e != nil {
		return e
	}

	lg.Info().Str("step", s.Name()).Str("from", s.From).Str("to", s.To).Msg("renamed column")

	return nil
}

// ***************** Upper *****************

// Upper rewrites values matching the Match list case-insensitively to their
// upper-case form.  Values outside the list are left alone; the scope filter
// decides their fate.  With IfExists set, a missing column is a no-op (used
// for columns a later step renames).
type Upper struct {
	Column   string
	Match    []string
	IfExists bool
}

func (s *Upper) Name() string {
	return "upper"
}

func (s *Upper) Apply(t *cp.Table, lg zerolog.Logger) error {
	var (
		col *cp.Col
		e   error
	)
	if col, e = t.Column(s.Column); e != nil {
		if s.IfExists {
			return nil
		}

		return e
	}

	var vals []string
	if vals, e = col.AsString(); e != nil {
		return e
	}

	changed := 0
	for ind := 0; ind < len(vals); ind++ {
		for _, m := range s.Match {
			if strings.EqualFold(vals[ind], m) {
				if up := strings.ToUpper(m); vals[ind] != up {
					vals[ind] = up
					changed++
				}
				break
			}
		}
	}

	lg.Info().Str("step", s.Name()).Str("column", s.Column).Int("values", changed).Msg("canonicalized casing")

	return nil
}

// ***************** Scope *****************

// Scope deletes rows whose column value is not an exact (case-sensitive)
// member of Allowed.
type Scope struct {
	Column  string
	Allowed []string
}

func (s *Scope) Name() string {
	return "scope"
}

func (s *Scope) Apply(t *cp.Table, lg zerolog.Logger) error {
	var (
		col *cp.Col
		e   error
	)
	if col, e = t.Column(s.Column); e != nil {
		return e
	}

	var vals []string
	if vals, e = col.AsString(); e != nil {
		return e
	}

	keep := make([]bool, len(vals))
	deleted := 0
	for ind := 0; ind < len(vals); ind++ {
		keep[ind] = inList(vals[ind], s.Allowed)
		if !keep[ind] {
			deleted++
		}
	}

	if e = t.KeepRows(keep); e != nil {
		return e
	}

	lg.Info().Str("step", s.Name()).Str("column", s.Column).Int("rows", deleted).Msg("deleted out-of-scope rows")

	return nil
}

func inList(needle string, haystack []string) bool {
	for _, straw := range haystack {
		if needle == straw {
			return true
		}
	}

	return false
}
