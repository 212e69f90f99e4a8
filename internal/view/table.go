package view

import (
	"slices"
	"time"

	. "github.com/JimLiu0/provider-dashboard/internal/models"
)

// Table owns one viewer's record snapshot and ViewSpec. Rows are recomputed
// only after the records or the ViewSpec changes; the instant used for ages is
// read from the clock at recomputation. A Table is not safe for concurrent use.
type Table struct {
	records []Patient
	spec    ViewSpec
	clock   func() time.Time

	rows           []Row
	dirty          bool
	recomputations int
}

func NewTable(clock func() time.Time) *Table {
	if clock == nil {
		clock = time.Now
	}
	return &Table{
		spec:  DefaultViewSpec(),
		clock: clock,
		dirty: true,
	}
}

func (t *Table) Spec() ViewSpec {
	return t.spec
}

func (t *Table) Total() int {
	return len(t.records)
}

// SetRecords replaces the snapshot, typically after a refresh from the store.
func (t *Table) SetRecords(records []Patient) {
	t.records = slices.Clone(records)
	t.dirty = true
}

// ToggleSort sorts ascending by a newly selected field and flips the
// direction when the active field is selected again.
func (t *Table) ToggleSort(field Field) bool {
	if !IsSortable(field) {
		return false
	}

	if t.spec.Sort.Field == field {
		t.spec.Sort.Desc = !t.spec.Sort.Desc
	} else {
		t.spec.Sort = SortSpec{Field: field}
	}
	t.dirty = true
	return true
}

func (t *Table) SetSort(sort SortSpec) bool {
	if !IsSortable(sort.Field) {
		return false
	}
	if sort != t.spec.Sort {
		t.spec.Sort = sort
		t.dirty = true
	}
	return true
}

// ClearSort keeps the active sort: one sort key is always active.
func (t *Table) ClearSort() SortSpec {
	return t.spec.Sort
}

// SetFilterField switches the filter field and resets the operator and value
// to the defaults of the new field. Selecting the current field is a no-op.
func (t *Table) SetFilterField(field Field) bool {
	if OperatorsFor(field) == nil {
		return false
	}
	if field == t.spec.FilterField {
		return true
	}

	t.spec.FilterField = field
	t.spec.Operator = DefaultOperator(field)
	t.spec.FilterValue = ""
	t.dirty = true
	return true
}

func (t *Table) SetOperator(operator Operator) bool {
	if !slices.Contains(OperatorsFor(t.spec.FilterField), operator) {
		return false
	}
	if operator != t.spec.Operator {
		t.spec.Operator = operator
		t.dirty = true
	}
	return true
}

func (t *Table) SetFilterValue(value string) {
	if value != t.spec.FilterValue {
		t.spec.FilterValue = value
		t.dirty = true
	}
}

func (t *Table) Rows() []Row {
	if t.dirty {
		t.rows = Project(t.records, t.spec, t.clock())
		t.dirty = false
		t.recomputations++
	}
	return t.rows
}

func (t *Table) EmptyReason() EmptyReason {
	return Classify(len(t.records), len(t.Rows()))
}

// Recomputations counts how many times the pipeline actually ran.
func (t *Table) Recomputations() int {
	return t.recomputations
}
