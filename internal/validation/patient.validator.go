package validation

import (
	"regexp"
	"sort"
	"strings"
	"time"

	. "github.com/JimLiu0/provider-dashboard/internal/models"
	"github.com/JimLiu0/provider-dashboard/internal/utils"
)

type Code string

const (
	CodeRequired      Code = "REQUIRED"
	CodeInvalidDate   Code = "INVALID_DATE"
	CodeInvalidFormat Code = "INVALID_FORMAT"
)

const (
	MessageRequired    = "Required"
	MessageInvalidDate = "Must be a valid date in the past"
	MessageInvalidZip  = "Must be a 5-digit ZIP code"
)

var zipCodePattern = regexp.MustCompile(`^\d{5}$`)

type FieldError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// FieldErrors maps every rejected field to the reason it was rejected.
type FieldErrors map[Field]FieldError

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, string(field))
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+fe[Field(field)].Message)
	}
	return "invalid patient: " + strings.Join(parts, "; ")
}

// Result is either accepted, with Patient set, or rejected, with Errors set.
type Result struct {
	Patient *Patient
	Errors  FieldErrors
}

func (r Result) Accepted() bool {
	return len(r.Errors) == 0
}

// Err returns the field errors as an error, or nil when accepted.
func (r Result) Err() error {
	if r.Accepted() {
		return nil
	}
	return r.Errors
}

type Validator struct {
	dates *utils.DateValidator
}

func New() *Validator {
	return &Validator{dates: utils.NewDateValidator()}
}

var defaultValidator = New()

func Validate(draft PatientDraft, now time.Time) Result {
	return defaultValidator.Validate(draft, now)
}

// Validate checks every field independently so all violations are reported
// together. It never mutates draft and has no side effects.
func (v *Validator) Validate(draft PatientDraft, now time.Time) Result {
	errs := FieldErrors{}

	required := []struct {
		field Field
		value string
	}{
		{FieldFirstName, draft.FirstName},
		{FieldLastName, draft.LastName},
		{FieldStreetAddress, draft.StreetAddress},
		{FieldCity, draft.City},
	}
	for _, r := range required {
		if r.value == "" {
			errs[r.field] = FieldError{Code: CodeRequired, Message: MessageRequired}
		}
	}

	dateOfBirth, dobErr := v.validateDateOfBirth(draft.DateOfBirth, now)
	if dobErr != nil {
		errs[FieldDateOfBirth] = *dobErr
	}

	if !Status(draft.Status).Valid() {
		errs[FieldStatus] = FieldError{Code: CodeRequired, Message: MessageRequired}
	}

	if !IsUSState(draft.State) {
		errs[FieldState] = FieldError{Code: CodeRequired, Message: MessageRequired}
	}

	if !zipCodePattern.MatchString(draft.ZipCode) {
		errs[FieldZipCode] = FieldError{Code: CodeInvalidFormat, Message: MessageInvalidZip}
	}

	if len(errs) > 0 {
		return Result{Errors: errs}
	}

	return Result{Patient: &Patient{
		FirstName:     draft.FirstName,
		MiddleName:    draft.MiddleName,
		LastName:      draft.LastName,
		DateOfBirth:   dateOfBirth,
		Status:        Status(draft.Status),
		StreetAddress: draft.StreetAddress,
		City:          draft.City,
		State:         draft.State,
		ZipCode:       draft.ZipCode,
		Notes:         draft.Notes,
	}}
}

// validateDateOfBirth returns the normalized calendar date. The comparison
// with now is strict, so an instant equal to now is rejected.
func (v *Validator) validateDateOfBirth(value string, now time.Time) (string, *FieldError) {
	if value == "" {
		return "", &FieldError{Code: CodeRequired, Message: MessageRequired}
	}

	result := v.dates.ValidateAndConvert(value)
	if !result.IsValid || !result.ParsedTime.Before(now) {
		return "", &FieldError{Code: CodeInvalidDate, Message: MessageInvalidDate}
	}

	return result.StandardFormat, nil
}
