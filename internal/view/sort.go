package view

import (
	"slices"
	"strings"
	"time"

	. "github.com/JimLiu0/provider-dashboard/internal/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort returns a stably sorted copy of records. records is never reordered in
// place. A field that is not sortable leaves the order unchanged.
func Sort(records []Patient, spec SortSpec) []Patient {
	sorted := slices.Clone(records)
	if !IsSortable(spec.Field) || len(sorted) < 2 {
		return sorted
	}

	compare := comparatorFor(spec.Field)
	if spec.Desc {
		slices.SortStableFunc(sorted, func(a, b Patient) int { return compare(b, a) })
	} else {
		slices.SortStableFunc(sorted, compare)
	}
	return sorted
}

func comparatorFor(field Field) func(a, b Patient) int {
	switch field {
	case FieldCreatedAt:
		return func(a, b Patient) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	case FieldDateOfBirth:
		return func(a, b Patient) int {
			return birthDateOrZero(a).Compare(birthDateOrZero(b))
		}
	default:
		// Collators keep scratch buffers, so each sort gets its own.
		collator := collate.New(language.English)
		return func(a, b Patient) int {
			left, _ := a.Value(field)
			right, _ := b.Value(field)
			return collator.CompareString(strings.ToLower(left), strings.ToLower(right))
		}
	}
}

func birthDateOrZero(patient Patient) time.Time {
	date, _ := patient.BirthDate()
	return date
}
