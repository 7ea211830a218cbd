package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Period is the year-month bucket an entry is attributed to. It is a derived
// value, never stored on its own; an entry's period may differ from the
// calendar month of its occurrence date by design.
type Period struct {
	Year  int
	Month int // 1-12
}

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ParsePeriod parses a YYYY-MM period key.
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)
	if !periodPattern.MatchString(s) {
		return Period{}, ErrInvalidPeriod
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return Period{}, ErrInvalidPeriod
	}
	month, err := strconv.Atoi(s[5:])
	if err != nil {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Year: year, Month: month}, nil
}

func (p Period) Validate() error {
	if p.Year < 1 || p.Month < 1 || p.Month > 12 {
		return ErrInvalidPeriod
	}
	return nil
}

// String returns the YYYY-MM key used as the storage and filter value.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Previous returns the immediately preceding period, rolling January over to
// December of the prior year.
func (p Period) Previous() Period {
	if p.Month == 1 {
		return Period{Year: p.Year - 1, Month: 12}
	}
	return Period{Year: p.Year, Month: p.Month - 1}
}

// CurrentPeriod returns the period for the current calendar month.
func CurrentPeriod() Period {
	now := time.Now()
	return Period{Year: now.Year(), Month: int(now.Month())}
}

// MonthsOfYear returns the twelve periods of a year, January first. This is
// the selector list the presentation layer offers.
func MonthsOfYear(year int) []Period {
	out := make([]Period, 12)
	for m := 1; m <= 12; m++ {
		out[m-1] = Period{Year: year, Month: m}
	}
	return out
}
