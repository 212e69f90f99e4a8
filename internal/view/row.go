package view

import (
	"math"
	"strconv"
	"time"

	. "github.com/JimLiu0/provider-dashboard/internal/models"
)

const (
	daysPerYear   = 365.25
	secondsPerDay = 24 * 60 * 60
)

// Row is a patient as displayed. Age and the created date are derived for
// display only and never written back to the store.
type Row struct {
	Patient
	Age         *int   `json:"age"`
	AgeLabel    string `json:"age_label"`
	CreatedDate string `json:"created_date"`
	// CreatedAtFull is shown as the created date's tooltip.
	CreatedAtFull string `json:"created_at_full"`
}

// AgeAt is the age in whole years, floor((now - dob) / 365.25 days). The
// difference is taken from Unix seconds so dates centuries apart do not
// saturate a time.Duration.
func AgeAt(dateOfBirth, now time.Time) int {
	seconds := float64(now.Unix()-dateOfBirth.Unix()) +
		float64(now.Nanosecond()-dateOfBirth.Nanosecond())/1e9
	days := seconds / secondsPerDay
	return int(math.Floor(days / daysPerYear))
}

func ageOf(patient Patient, now time.Time) (int, bool) {
	dateOfBirth, ok := patient.BirthDate()
	if !ok {
		return 0, false
	}
	return AgeAt(dateOfBirth, now), true
}

func AgeLabel(age int) string {
	return strconv.Itoa(age) + " yrs"
}

func toRow(patient Patient, now time.Time) Row {
	row := Row{
		Patient:       patient,
		CreatedDate:   patient.CreatedDate(),
		CreatedAtFull: patient.CreatedTimestamp(),
	}
	if age, ok := ageOf(patient, now); ok {
		row.Age = &age
		row.AgeLabel = AgeLabel(age)
	}
	return row
}
