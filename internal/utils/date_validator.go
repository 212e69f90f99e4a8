package utils

import (
	"strings"
	"time"
)

type DateFormat string

const (
	FormatISO8601         DateFormat = time.RFC3339Nano
	FormatISO8601Date     DateFormat = "2006-01-02"
	FormatISO8601Local    DateFormat = "2006-01-02T15:04:05"
	FormatISO8601Minutes  DateFormat = "2006-01-02T15:04"
	FormatISO8601Space    DateFormat = "2006-01-02 15:04:05"
	FormatUSDate          DateFormat = "1/2/2006"
	FormatUSDateTime      DateFormat = "1/2/2006 15:04:05"
	FormatMonthDay        DateFormat = "January 2, 2006"
	FormatShortMonth      DateFormat = "Jan 2, 2006"
	FormatYearMonth       DateFormat = "2006-01"
	FormatSlashYearFirst  DateFormat = "2006/01/02"
	FormatRFC1123         DateFormat = time.RFC1123
	FormatRFC1123WithZone DateFormat = time.RFC1123Z
)

type DateValidator struct {
	supportedFormats []DateFormat
	standardFormat   DateFormat
}

type DateResult struct {
	IsValid        bool
	DetectedFormat DateFormat
	ParsedTime     time.Time
	StandardFormat string
	OriginalValue  string
}

// NewDateValidator accepts the date shapes browsers submit for a date input or
// users type by hand. Values without a zone are read as UTC, and the standard
// form is the calendar date.
func NewDateValidator() *DateValidator {
	return &DateValidator{
		supportedFormats: []DateFormat{
			FormatISO8601Date,
			FormatISO8601,
			FormatISO8601Local,
			FormatISO8601Minutes,
			FormatISO8601Space,
			FormatUSDate,
			FormatUSDateTime,
			FormatMonthDay,
			FormatShortMonth,
			FormatYearMonth,
			FormatSlashYearFirst,
			FormatRFC1123,
			FormatRFC1123WithZone,
		},
		standardFormat: FormatISO8601Date,
	}
}

func (dv *DateValidator) SetStandardFormat(format DateFormat) {
	dv.standardFormat = format
}

func (dv *DateValidator) ValidateAndConvert(input string) DateResult {
	result := DateResult{OriginalValue: input}

	input = strings.TrimSpace(input)
	if input == "" {
		return result
	}

	for _, format := range dv.supportedFormats {
		parsedTime, err := time.ParseInLocation(string(format), input, time.UTC)
		if err != nil {
			continue
		}

		result.IsValid = true
		result.DetectedFormat = format
		result.ParsedTime = parsedTime
		result.StandardFormat = parsedTime.Format(string(dv.standardFormat))
		return result
	}

	return result
}

func (dv *DateValidator) GetSupportedFormats() []DateFormat {
	return dv.supportedFormats
}

func (dv *DateValidator) AddCustomFormat(format DateFormat) {
	dv.supportedFormats = append(dv.supportedFormats, format)
}
