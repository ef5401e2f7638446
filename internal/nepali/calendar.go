// Package nepali converts between Gregorian dates and the Bikram
// Sambat (BS) calendar. The conversion is display-only: storage and
// comparison always use Gregorian dates, and callers fall back to
// Gregorian rendering when a date lands outside the supported table.
package nepali

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrOutOfRange marks a date outside the embedded calendar table.
var ErrOutOfRange = errors.New("date outside supported Bikram Sambat range")

// Date is a civil date in the Bikram Sambat calendar.
type Date struct {
	Year  int
	Month int // 1-12, Baisakh = 1
	Day   int
}

// String renders the date as YYYY-MM-DD in BS.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Parse parses a BS date in YYYY-MM-DD form and checks it against the
// table.
func Parse(s string) (Date, error) {
	var d Date
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("malformed BS date %q", s)
	}
	if _, err := fmt.Sscanf(s, "%d-%d-%d", &d.Year, &d.Month, &d.Day); err != nil {
		return Date{}, fmt.Errorf("malformed BS date %q: %w", s, err)
	}
	if err := d.validate(); err != nil {
		return Date{}, err
	}
	return d, nil
}

func (d Date) validate() error {
	days, err := DaysInMonth(d.Year, d.Month)
	if err != nil {
		return err
	}
	if d.Day < 1 || d.Day > days {
		return fmt.Errorf("%w: day %d of %04d-%02d (month has %d days)", ErrOutOfRange, d.Day, d.Year, d.Month, days)
	}
	return nil
}

// DaysInMonth reports the number of days in a BS month.
func DaysInMonth(year, month int) (int, error) {
	if year < MinYear || year > MaxYear {
		return 0, fmt.Errorf("%w: year %d (supported %d-%d)", ErrOutOfRange, year, MinYear, MaxYear)
	}
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("invalid BS month %d", month)
	}
	return monthDays[year][month-1], nil
}

// FromGregorian converts a Gregorian date to its BS equivalent. Only
// the calendar day of t matters; time-of-day and zone are discarded.
func FromGregorian(t time.Time) (Date, error) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := int(day.Sub(epoch).Hours() / 24)
	if offset < 0 {
		return Date{}, fmt.Errorf("%w: %s is before %s", ErrOutOfRange, day.Format("2006-01-02"), epoch.Format("2006-01-02"))
	}
	for year := MinYear; year <= MaxYear; year++ {
		for month := 1; month <= 12; month++ {
			n := monthDays[year][month-1]
			if offset < n {
				return Date{Year: year, Month: month, Day: offset + 1}, nil
			}
			offset -= n
		}
	}
	return Date{}, fmt.Errorf("%w: %s is after the table end", ErrOutOfRange, day.Format("2006-01-02"))
}

// ToGregorian converts a BS date back to Gregorian (UTC midnight).
// It is the exact inverse of FromGregorian within the supported range.
func ToGregorian(d Date) (time.Time, error) {
	if err := d.validate(); err != nil {
		return time.Time{}, err
	}
	offset := 0
	for year := MinYear; year < d.Year; year++ {
		for _, n := range monthDays[year] {
			offset += n
		}
	}
	for month := 1; month < d.Month; month++ {
		offset += monthDays[d.Year][month-1]
	}
	offset += d.Day - 1
	return epoch.AddDate(0, 0, offset), nil
}
