// Package view turns the full patient set and a ViewSpec into the rows the
// dashboard displays. Everything here is pure: the same records, spec and
// instant always produce the same rows.
package view

import (
	"time"

	. "github.com/JimLiu0/provider-dashboard/internal/models"
)

type EmptyReason string

const (
	EmptyNone      EmptyReason = ""
	EmptyNoRecords EmptyReason = "no_records"
	EmptyNoMatch   EmptyReason = "no_match"
)

// Project filters, sorts and projects records for display.
func Project(records []Patient, spec ViewSpec, now time.Time) []Row {
	filtered := Filter(records, spec, now)
	sorted := Sort(filtered, spec.Sort)

	rows := make([]Row, len(sorted))
	for i, record := range sorted {
		rows[i] = toRow(record, now)
	}
	return rows
}

// Classify tells "nothing stored yet" apart from "nothing matches".
func Classify(total, shown int) EmptyReason {
	switch {
	case shown > 0:
		return EmptyNone
	case total == 0:
		return EmptyNoRecords
	default:
		return EmptyNoMatch
	}
}
