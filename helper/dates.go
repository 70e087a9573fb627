package helper

import (
	"time"

	"github.com/pkg/errors"
	"github.com/seoreports/gscsync/constants"
)

// ParseDate parses a canonical YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(constants.TimeFormatDate, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid date %q - expected format %v", s, constants.TimeFormatDate)
	}
	return t, nil
}

// DatesInRange expands an inclusive start..end date range into one canonical
// date string per day. An end before start produces an error.
func DatesInRange(startDate string, endDate string) ([]string, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, errors.Errorf("end date %v is before start date %v", endDate, startDate)
	}
	dates := make([]string, 0)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(constants.TimeFormatDate))
	}
	return dates, nil
}
