package view

import (
	"math"
	"strconv"
	"strings"
	"time"

	. "github.com/JimLiu0/provider-dashboard/internal/models"
)

// searchableFields are matched by the "all" filter. date_of_birth is
// searched only through the age filter, and id is never searched.
var searchableFields = []Field{
	FieldFirstName,
	FieldMiddleName,
	FieldLastName,
	FieldStatus,
	FieldStreetAddress,
	FieldCity,
	FieldState,
	FieldZipCode,
	FieldNotes,
	FieldCreatedAt,
}

// Filter returns the records matching spec. An empty filter value or an empty
// record set returns records itself.
func Filter(records []Patient, spec ViewSpec, now time.Time) []Patient {
	if spec.FilterValue == "" || len(records) == 0 {
		return records
	}

	m := newMatcher(spec, now)
	matched := make([]Patient, 0, len(records))
	for _, record := range records {
		if m.match(record) {
			matched = append(matched, record)
		}
	}
	return matched
}

type matcher struct {
	spec   ViewSpec
	needle string
	now    time.Time
	number float64
	valid  bool
}

func newMatcher(spec ViewSpec, now time.Time) matcher {
	m := matcher{
		spec:   spec,
		needle: strings.ToLower(spec.FilterValue),
		now:    now,
	}
	if spec.FilterField == FieldAge {
		m.number, m.valid = parseNumber(spec.FilterValue)
	}
	return m
}

func (m matcher) match(record Patient) bool {
	switch {
	case m.spec.FilterField == FieldAll:
		return m.matchAll(record)
	case m.spec.FilterField == FieldAge:
		return m.matchAge(record)
	case m.spec.FilterField.IsStored():
		return m.matchField(record, m.spec.FilterField)
	default:
		return false
	}
}

func (m matcher) matchAll(record Patient) bool {
	for _, field := range searchableFields {
		var value string
		if field == FieldCreatedAt {
			value = record.CreatedDate()
		} else {
			value, _ = record.Value(field)
		}
		if strings.Contains(strings.ToLower(value), m.needle) {
			return true
		}
	}
	return false
}

func (m matcher) matchAge(record Patient) bool {
	if !m.valid {
		return false
	}

	age, ok := ageOf(record, m.now)
	if !ok {
		return false
	}

	value := float64(age)
	switch m.spec.Operator {
	case OperatorEq:
		return value == m.number
	case OperatorGte:
		return value >= m.number
	case OperatorLte:
		return value <= m.number
	default:
		return false
	}
}

func (m matcher) matchField(record Patient, field Field) bool {
	value, ok := record.Value(field)
	if !ok {
		return false
	}
	value = strings.ToLower(value)

	switch m.spec.Operator {
	case OperatorContains:
		return strings.Contains(value, m.needle)
	case OperatorEquals:
		return value == m.needle
	default:
		return false
	}
}

func parseNumber(value string) (float64, bool) {
	number, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(number) {
		return 0, false
	}
	return number, true
}
