// Package pdfdate parses PDF date strings (PDF 32000-1 §7.9.4) into
// timestamps with timezone.
package pdfdate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// InvalidDateFormatError reports a date string that does not match the PDF
// date syntax at all.
type InvalidDateFormatError struct {
	Value string
}

func (e *InvalidDateFormatError) Error() string {
	return fmt.Sprintf("invalid PDF date format: %q", e.Value)
}

// datePattern matches the positional components of a PDF date. Everything
// after the year is optional; malformed producers routinely truncate the
// string at any component boundary.
var datePattern = regexp.MustCompile(
	`^(\d{4})` + // year
		`(\d{2})?` + // month
		`(\d{2})?` + // day
		`(\d{2})?` + // hour
		`(\d{2})?` + // minute
		`(\d{2})?` + // second
		`([+\-Z])?` + // tz sign
		`(\d{2})?'?(\d{2})?'?`, // tz hour, tz minute
)

// Parse converts a PDF date string such as "D:20230615120000+02'00'" into a
// time.Time. An empty input returns (nil, nil): the date is simply absent.
// Missing numeric components default to zero, except that a month or day of
// zero is coerced to 1 so a year-only date means January 1st.
func Parse(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	s := strings.TrimPrefix(value, "D:")

	m := datePattern.FindStringSubmatch(s)
	if m == nil {
		return nil, &InvalidDateFormatError{Value: value}
	}

	year := atoiDefault(m[1], 0)
	month := atoiDefault(m[2], 0)
	day := atoiDefault(m[3], 0)
	hour := atoiDefault(m[4], 0)
	minute := atoiDefault(m[5], 0)
	second := atoiDefault(m[6], 0)

	if month == 0 {
		month = 1
	}
	if day == 0 {
		day = 1
	}

	loc := time.UTC
	if sign := m[7]; sign == "+" || sign == "-" {
		tzHour := atoiDefault(m[8], 0)
		tzMinute := atoiDefault(m[9], 0)
		offset := tzHour*3600 + tzMinute*60
		if sign == "-" {
			offset = -offset
		}
		loc = time.FixedZone(fmt.Sprintf("UTC%s%02d:%02d", sign, tzHour, tzMinute), offset)
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, loc)
	return &t, nil
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
