// Package timeutil holds the HH:MM / epoch-seconds conversions shared by
// the converter and the repository — small enough that duplicating them
// would be worse than a shared leaf package.
package timeutil

import (
	"fmt"
	"time"
)

const DaySeconds int64 = 86400

// ToEpochSeconds combines a "YYYY-MM-DD" date and an "HH:MM" clock time
// into Unix epoch seconds (UTC, since the pipeline never crosses a real
// timezone boundary — all times are wall-clock within one day).
func ToEpochSeconds(date, hhmm string) (int64, error) {
	t, err := time.Parse("2006-01-02 15:04", date+" "+hhmm)
	if err != nil {
		return 0, fmt.Errorf("timeutil: invalid date/time %q %q: %w", date, hhmm, err)
	}
	return t.Unix(), nil
}

// FromEpochSeconds renders ts back to "HH:MM", in UTC.
func FromEpochSeconds(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("15:04")
}

// HHMMToMinutes converts "HH:MM" to minutes since midnight.
func HHMMToMinutes(hhmm string) (int, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, fmt.Errorf("timeutil: invalid HH:MM %q: %w", hhmm, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}
