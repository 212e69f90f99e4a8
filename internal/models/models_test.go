package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Valid(t *testing.T) {
	for _, status := range Statuses {
		assert.True(t, status.Valid(), status)
	}
	assert.False(t, Status("active").Valid())
	assert.False(t, Status("").Valid())
}

func TestIsUSState(t *testing.T) {
	assert.Len(t, USStates, 50)
	assert.True(t, IsUSState("New Hampshire"))
	assert.False(t, IsUSState("new hampshire"))
	assert.False(t, IsUSState("District of Columbia"))
}

func TestBeforeCreate_AssignsIdentity(t *testing.T) {
	var model BaseUUIDModel
	require.NoError(t, model.BeforeCreate(nil))

	id, err := uuid.Parse(model.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.False(t, model.CreatedAt.IsZero())

	kept := BaseUUIDModel{ID: "fixed", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, kept.BeforeCreate(nil))
	assert.Equal(t, "fixed", kept.ID)
	assert.Equal(t, 2024, kept.CreatedAt.Year())
}

func TestPatient_Value(t *testing.T) {
	p := Patient{
		FirstName:   "Ada",
		DateOfBirth: "1985-12-10",
		Status:      StatusActive,
	}
	p.ID = "p-1"
	p.CreatedAt = time.Date(2025, 3, 1, 14, 5, 0, 0, time.FixedZone("EST", -5*3600))

	tests := []struct {
		field Field
		want  string
		ok    bool
	}{
		{FieldID, "p-1", true},
		{FieldFirstName, "Ada", true},
		{FieldStatus, "Active", true},
		{FieldDateOfBirth, "1985-12-10", true},
		{FieldCreatedAt, "2025-03-01T19:05:00Z", true},
		{FieldAge, "", false},
		{FieldAll, "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			got, ok := p.Value(tt.field)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "2025-03-01", p.CreatedDate())
}

func TestPatient_BirthDate(t *testing.T) {
	p := Patient{DateOfBirth: "1985-12-10"}
	date, ok := p.BirthDate()
	require.True(t, ok)
	assert.Equal(t, time.Date(1985, 12, 10, 0, 0, 0, 0, time.UTC), date)

	_, ok = Patient{DateOfBirth: "not a date"}.BirthDate()
	assert.False(t, ok)
}

func TestOperatorsFor(t *testing.T) {
	assert.Equal(t, AgeOperators, OperatorsFor(FieldAge))
	assert.Equal(t, []Operator{OperatorContains}, OperatorsFor(FieldAll))
	assert.Equal(t, TextOperators, OperatorsFor(FieldCity))
	assert.Nil(t, OperatorsFor(Field("ssn")))

	assert.Equal(t, OperatorEq, DefaultOperator(FieldAge))
	assert.Equal(t, OperatorContains, DefaultOperator(FieldLastName))
}

func TestSortableAndFilterFields(t *testing.T) {
	assert.True(t, IsSortable(FieldCreatedAt))
	assert.False(t, IsSortable(FieldID))
	assert.False(t, IsSortable(FieldAge))

	fields := FilterFields()
	assert.Equal(t, FieldAll, fields[0])
	assert.Equal(t, FieldAge, fields[len(fields)-1])
	assert.NotContains(t, fields, FieldID)
}

func TestDefaultViewSpec(t *testing.T) {
	spec := DefaultViewSpec()
	assert.Equal(t, SortSpec{Field: FieldCreatedAt, Desc: true}, spec.Sort)
	assert.Equal(t, FieldAll, spec.FilterField)
	assert.Equal(t, OperatorContains, spec.Operator)
	assert.Empty(t, spec.FilterValue)
}
