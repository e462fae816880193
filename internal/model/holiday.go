package model

import "time"

// Holiday durations as stored in holidays.duration.
const (
	HolidayFullDay  = "full_day"
	HolidayHalfDay  = "half_day"
	HolidayExtended = "extended"
)

// ValidHolidayDuration reports whether the duration is a known value.
func ValidHolidayDuration(d string) bool {
	switch d {
	case HolidayFullDay, HolidayHalfDay, HolidayExtended:
		return true
	}
	return false
}

// Holiday mirrors the `holidays` table: a scheduled company event
// shown on the dashboard calendar. Holidays carry no contended state.
type Holiday struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Description *string   `json:"description"`
	Duration    string    `json:"duration"`
	CreatedAt   time.Time `json:"created_at"`
}
