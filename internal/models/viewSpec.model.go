package models

type Operator string

const (
	OperatorContains Operator = "contains"
	OperatorEquals   Operator = "equals"
	OperatorEq       Operator = "="
	OperatorGte      Operator = ">="
	OperatorLte      Operator = "<="
)

var (
	TextOperators = []Operator{OperatorContains, OperatorEquals}
	AgeOperators  = []Operator{OperatorEq, OperatorGte, OperatorLte}
)

type SortSpec struct {
	Field Field `json:"field"`
	Desc  bool  `json:"desc"`
}

// ViewSpec is the table's current sort and filter. It is a value: callers
// derive a new one instead of mutating a shared instance.
type ViewSpec struct {
	Sort        SortSpec `json:"sort"`
	FilterField Field    `json:"filterField"`
	Operator    Operator `json:"operator"`
	FilterValue string   `json:"filterValue"`
}

// DefaultViewSpec shows the newest patients first with no filter.
func DefaultViewSpec() ViewSpec {
	return ViewSpec{
		Sort:        SortSpec{Field: FieldCreatedAt, Desc: true},
		FilterField: FieldAll,
		Operator:    OperatorContains,
	}
}

// DefaultOperator is the operator selected when the filter field changes.
func DefaultOperator(field Field) Operator {
	if field == FieldAge {
		return OperatorEq
	}
	return OperatorContains
}

// OperatorsFor lists the operators a filter field accepts.
func OperatorsFor(field Field) []Operator {
	switch {
	case field == FieldAge:
		return AgeOperators
	case field == FieldAll:
		return []Operator{OperatorContains}
	case field.IsStored():
		return TextOperators
	default:
		return nil
	}
}

// SortableFields are the columns the table can order by.
var SortableFields = []Field{
	FieldFirstName,
	FieldMiddleName,
	FieldLastName,
	FieldDateOfBirth,
	FieldStatus,
	FieldStreetAddress,
	FieldCity,
	FieldState,
	FieldZipCode,
	FieldNotes,
	FieldCreatedAt,
}

func IsSortable(field Field) bool {
	for _, sortable := range SortableFields {
		if field == sortable {
			return true
		}
	}
	return false
}

// FilterFields are the choices of the filter field selector.
func FilterFields() []Field {
	fields := []Field{FieldAll}
	for _, field := range StoredFields {
		if field != FieldID {
			fields = append(fields, field)
		}
	}
	return append(fields, FieldAge)
}
