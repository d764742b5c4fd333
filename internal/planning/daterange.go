package planning

import (
	"time"

	appErrors "github.com/formaplan/formaplan-api/pkg/errors"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date and rejects anything unparseable instead
// of letting a zero value leak into range comparisons.
func ParseDate(raw string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrInvalidDate.Code, appErrors.ErrInvalidDate.Status, "date must be formatted as YYYY-MM-DD")
	}
	return parsed, nil
}

// Noon normalizes a date to 12:00 local time. Comparing noon against
// start-of-day and end-of-day bounds keeps membership checks stable across
// timezone conversions at day boundaries.
func Noon(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, date.Location())
}

// StartOfDay truncates a date to 00:00:00.
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// EndOfDay extends a date to 23:59:59.999999999.
func EndOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), date.Location())
}

// InRange reports whether point falls within [start, end], inclusive on both
// ends. Time-of-day on the inputs is ignored.
func InRange(point, start, end time.Time) bool {
	p := Noon(point)
	return !p.Before(StartOfDay(start)) && !p.After(EndOfDay(end))
}
