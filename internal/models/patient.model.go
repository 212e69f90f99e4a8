package models

import (
	"time"
)

type Status string

const (
	StatusInquiry    Status = "Inquiry"
	StatusOnboarding Status = "Onboarding"
	StatusActive     Status = "Active"
	StatusChurned    Status = "Churned"
)

var Statuses = []Status{StatusInquiry, StatusOnboarding, StatusActive, StatusChurned}

func (s Status) Valid() bool {
	for _, status := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

var USStates = []string{
	"Alabama", "Alaska", "Arizona", "Arkansas", "California", "Colorado", "Connecticut",
	"Delaware", "Florida", "Georgia", "Hawaii", "Idaho", "Illinois", "Indiana", "Iowa",
	"Kansas", "Kentucky", "Louisiana", "Maine", "Maryland", "Massachusetts", "Michigan",
	"Minnesota", "Mississippi", "Missouri", "Montana", "Nebraska", "Nevada", "New Hampshire",
	"New Jersey", "New Mexico", "New York", "North Carolina", "North Dakota", "Ohio",
	"Oklahoma", "Oregon", "Pennsylvania", "Rhode Island", "South Carolina", "South Dakota",
	"Tennessee", "Texas", "Utah", "Vermont", "Virginia", "Washington", "West Virginia",
	"Wisconsin", "Wyoming",
}

var usStateSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(USStates))
	for _, state := range USStates {
		set[state] = struct{}{}
	}
	return set
}()

// IsUSState is an exact, case-sensitive membership check.
func IsUSState(name string) bool {
	_, ok := usStateSet[name]
	return ok
}

// DateLayout is the storage and display form of calendar dates.
const DateLayout = "2006-01-02"

// PatientDraft is a patient as collected by the form: raw strings, no id and no
// created_at.
type PatientDraft struct {
	FirstName     string `json:"first_name"`
	MiddleName    string `json:"middle_name"`
	LastName      string `json:"last_name"`
	DateOfBirth   string `json:"date_of_birth"`
	Status        string `json:"status"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zip_code"`
	Notes         string `json:"notes"`
}

type Patient struct {
	BaseUUIDModel
	FirstName  string `gorm:"type:varchar(255);not null" json:"first_name"`
	MiddleName string `gorm:"type:varchar(255)"          json:"middle_name"`
	LastName   string `gorm:"type:varchar(255);not null" json:"last_name"`
	// DateOfBirth is normalized to DateLayout before it is stored.
	DateOfBirth   string `gorm:"type:varchar(10);not null"  json:"date_of_birth"`
	Status        Status `gorm:"type:varchar(20);not null"  json:"status"`
	StreetAddress string `gorm:"type:varchar(255);not null" json:"street_address"`
	City          string `gorm:"type:varchar(255);not null" json:"city"`
	State         string `gorm:"type:varchar(32);not null"  json:"state"`
	ZipCode       string `gorm:"type:varchar(5);not null"   json:"zip_code"`
	Notes         string `gorm:"type:text"                  json:"notes"`
}

func (Patient) TableName() string {
	return "patients"
}

// BirthDate parses DateOfBirth as a UTC calendar date.
func (p Patient) BirthDate() (time.Time, bool) {
	date, err := time.Parse(DateLayout, p.DateOfBirth)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

func (p Patient) CreatedDate() string {
	return p.CreatedAt.UTC().Format(DateLayout)
}

func (p Patient) CreatedTimestamp() string {
	return p.CreatedAt.UTC().Format(time.RFC3339)
}

// Value returns the string form of a stored field. Derived fields such as age
// are not stored and report false.
func (p Patient) Value(field Field) (string, bool) {
	switch field {
	case FieldID:
		return p.ID, true
	case FieldFirstName:
		return p.FirstName, true
	case FieldMiddleName:
		return p.MiddleName, true
	case FieldLastName:
		return p.LastName, true
	case FieldDateOfBirth:
		return p.DateOfBirth, true
	case FieldStatus:
		return string(p.Status), true
	case FieldStreetAddress:
		return p.StreetAddress, true
	case FieldCity:
		return p.City, true
	case FieldState:
		return p.State, true
	case FieldZipCode:
		return p.ZipCode, true
	case FieldNotes:
		return p.Notes, true
	case FieldCreatedAt:
		return p.CreatedTimestamp(), true
	default:
		return "", false
	}
}
