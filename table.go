// Package citypay holds the tabular engine behind the NYC payroll cleaning
// and analysis pipeline.  A Table is a small, column-oriented, in-memory
// structure supporting the operations the pipeline needs: drop, rename,
// row filtering, sorting and typed access to column data.
package citypay

import (
	"fmt"
	"sort"
)

// Table is an ordered collection of equal-length columns.
type Table struct {
	head    *columnList
	current *columnList

	by []*Col
}

type columnList struct {
	col *Col

	prior *columnList
	next  *columnList
}

func NewTable(cols ...*Col) (*Table, error) {
	if cols == nil {
		return nil, fmt.Errorf("no columns in NewTable")
	}

	rowCount := cols[0].Len()

	var head, priorNode *columnList
	for ind := 0; ind < len(cols); ind++ {
		if cols[ind].Len() != rowCount {
			return nil, fmt.Errorf("length mismatch: %s has %d rows, %s has %d",
				cols[0].Name(), rowCount, cols[ind].Name(), cols[ind].Len())
		}

		node := &columnList{
			col: cols[ind],

			prior: priorNode,
			next:  nil,
		}

		if priorNode != nil {
			priorNode.next = node
		}

		priorNode = node

		if ind == 0 {
			head = node
		}
	}

	t := &Table{head: head}
	if dup := t.dupName(); dup != "" {
		return nil, fmt.Errorf("duplicate column name: %s", dup)
	}

	return t, nil
}

// Next iterates through the columns, returning nil after the last one.
func (t *Table) Next(reset bool) *Col {
	if reset || t.current == nil {
		t.current = t.head
		return t.current.col
	}

	if t.current.next == nil {
		t.current = nil
		return nil
	}

	t.current = t.current.next
	return t.current.col
}

func (t *Table) RowCount() int {
	if t.head == nil {
		return 0
	}

	return t.head.col.Len()
}

func (t *Table) ColumnCount() int {
	cols := 0
	for c := t.head; c != nil; c = c.next {
		cols++
	}

	return cols
}

func (t *Table) ColumnNames() []string {
	var names []string

	for h := t.head; h != nil; h = h.next {
		names = append(names, h.col.Name())
	}

	return names
}

func (t *Table) Column(colName string) (col *Col, err error) {
	for h := t.head; h != nil; h = h.next {
		if h.col.Name() == colName {
			return h.col, nil
		}
	}

	return nil, fmt.Errorf("column %s not found", colName)
}

func (t *Table) HasColumn(colName string) bool {
	_, e := t.Column(colName)
	return e == nil
}

func (t *Table) AppendColumn(col *Col) error {
	if has(col.Name(), t.ColumnNames()) {
		return fmt.Errorf("duplicate column name: %s", col.Name())
	}

	if col.Len() != t.RowCount() {
		return fmt.Errorf("length mismatch: table - %d, append col - %d", t.RowCount(), col.Len())
	}

	var tail *columnList
	for tail = t.head; tail.next != nil; tail = tail.next {
	}

	node := &columnList{
		col:   col,
		prior: tail,
		next:  nil,
	}

	tail.next = node

	return nil
}

func (t *Table) node(colName string) (node *columnList, err error) {
	for h := t.head; h != nil; h = h.next {
		if h.col.Name() == colName {
			return h, nil
		}
	}

	return nil, fmt.Errorf("column %s not found", colName)
}

func (t *Table) DropColumns(colNames ...string) error {
	for _, cName := range colNames {
		var (
			node *columnList
			e    error
		)

		if node, e = t.node(cName); e != nil {
			return fmt.Errorf("column %s not found", cName)
		}

		if node == t.head {
			if t.head.next == nil {
				t.head = nil
				return fmt.Errorf("no columns left")
			}

			t.head = t.head.next
			t.head.prior = nil
			continue
		}

		node.prior.next = node.next
		if node.next != nil {
			node.next.prior = node.prior
		}
	}

	return nil
}

// RenameColumn changes a column identifier.  Row data is untouched.
func (t *Table) RenameColumn(oldName, newName string) error {
	var (
		col *Col
		e   error
	)

	if col, e = t.Column(oldName); e != nil {
		return e
	}

	if t.HasColumn(newName) {
		return fmt.Errorf("column %s already exists", newName)
	}

	return col.Rename(newName)
}

// KeepRows retains the rows where keep is true, in every column.
func (t *Table) KeepRows(keep []bool) error {
	if len(keep) != t.RowCount() {
		return fmt.Errorf("keep mask has %d entries for %d rows", len(keep), t.RowCount())
	}

	for h := t.head; h != nil; h = h.next {
		h.col.keepRows(keep)
	}

	return nil
}

func (t *Table) Copy() *Table {
	var cols []*Col
	for h := t.head; h != nil; h = h.next {
		cols = append(cols, h.col.Copy())
	}

	tbl, e := NewTable(cols...)
	if e != nil {
		panic(e)
	}

	return tbl
}

// ***************** Sorting *****************

func (t *Table) Sort(keys ...string) error {
	var by []*Col

	for ind := 0; ind < len(keys); ind++ {
		var (
			c *Col
			e error
		)

		if c, e = t.Column(keys[ind]); e != nil {
			return e
		}

		by = append(by, c)
	}

	t.by = by
	sort.Sort(t)

	return nil
}

// Len is required by sort.Interface.
func (t *Table) Len() int {
	return t.RowCount()
}

func (t *Table) Less(i, j int) bool {
	for ind := 0; ind < len(t.by); ind++ {
		if !t.by[ind].less(i, j) {
			return false
		}

		// strictly less -- done
		if !t.by[ind].less(j, i) {
			return true
		}

		// equal -- keep checking
	}

	return true
}

func (t *Table) Swap(i, j int) {
	for h := t.head; h != nil; h = h.next {
		h.col.swap(i, j)
	}
}

func (t *Table) dupName() string {
	names := t.ColumnNames()
	for ind := 0; ind < len(names); ind++ {
		if position(names[ind], names) != ind {
			return names[ind]
		}
	}

	return ""
}
