package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateValidator_ValidateAndConvert(t *testing.T) {
	dv := NewDateValidator()

	tests := []struct {
		name           string
		input          string
		isValid        bool
		expectedFormat DateFormat
		standard       string
	}{
		{"iso date", "1990-05-17", true, FormatISO8601Date, "1990-05-17"},
		{"rfc3339 with offset", "1990-05-17T23:30:00-05:00", true, FormatISO8601, "1990-05-17"},
		{"rfc3339 utc", "1990-05-17T08:00:00Z", true, FormatISO8601, "1990-05-17"},
		{"local datetime", "1990-05-17T08:00:00", true, FormatISO8601Local, "1990-05-17"},
		{"us date single digits", "5/7/1990", true, FormatUSDate, "1990-05-07"},
		{"us date padded", "05/07/1990", true, FormatUSDate, "1990-05-07"},
		{"full month name", "May 17, 1990", true, FormatMonthDay, "1990-05-17"},
		{"full month", "January 2, 2001", true, FormatMonthDay, "2001-01-02"},
		{"short month", "Jan 2, 2001", true, FormatShortMonth, "2001-01-02"},
		{"year month", "2001-02", true, FormatYearMonth, "2001-02-01"},
		{"surrounding whitespace", "  1990-05-17 ", true, FormatISO8601Date, "1990-05-17"},
		{"impossible day", "2023-02-30", false, "", ""},
		{"impossible month", "2023-13-01", false, "", ""},
		{"garbage", "not a date", false, "", ""},
		{"empty", "", false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := dv.ValidateAndConvert(tt.input)

			assert.Equal(t, tt.isValid, result.IsValid)
			assert.Equal(t, tt.input, result.OriginalValue)
			if tt.isValid {
				assert.Equal(t, tt.expectedFormat, result.DetectedFormat)
				assert.Equal(t, tt.standard, result.StandardFormat)
			}
		})
	}
}

func TestDateValidator_KeepsInputOffset(t *testing.T) {
	dv := NewDateValidator()

	zoneless := dv.ValidateAndConvert("1990-05-17T08:00:00")
	assert.Equal(t, time.UTC, zoneless.ParsedTime.Location())

	offset := dv.ValidateAndConvert("1990-05-01T01:00:00+05:00")
	_, seconds := offset.ParsedTime.Zone()
	assert.Equal(t, 5*3600, seconds)
	assert.Equal(t, "1990-05-01", offset.StandardFormat)
	assert.Equal(t, time.Date(1990, 4, 30, 20, 0, 0, 0, time.UTC), offset.ParsedTime.UTC())
}

func TestDateValidator_CustomFormat(t *testing.T) {
	dv := NewDateValidator()
	assert.False(t, dv.ValidateAndConvert("17.05.1990").IsValid)

	dv.AddCustomFormat("02.01.2006")
	result := dv.ValidateAndConvert("17.05.1990")

	assert.True(t, result.IsValid)
	assert.Equal(t, "1990-05-17", result.StandardFormat)
	assert.Contains(t, dv.GetSupportedFormats(), DateFormat("02.01.2006"))
}

func TestDateValidator_SetStandardFormat(t *testing.T) {
	dv := NewDateValidator()
	dv.SetStandardFormat(FormatISO8601)

	result := dv.ValidateAndConvert("1990-05-17")

	assert.Equal(t, "1990-05-17T00:00:00Z", result.StandardFormat)
}
