package models

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// wireDateLayout is the date format the PrivatBank archive API expects
// in the request query and returns as the payload date label.
const wireDateLayout = "02.01.2006"

type ArchiveDate struct{ time.Time }

func NewArchiveDate(t time.Time) ArchiveDate {
	return ArchiveDate{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())}
}

// DatesBack returns the request sequence for the last days calendar days,
// most recent first.
func DatesBack(now time.Time, days int) []ArchiveDate {
	dates := make([]ArchiveDate, 0, days)
	for i := 0; i < days; i++ {
		dates = append(dates, NewArchiveDate(now.AddDate(0, 0, -i)))
	}
	return dates
}

func (d ArchiveDate) String() string { return d.Format(wireDateLayout) }

func (d ArchiveDate) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf("%q", d.String())), nil
}

func (d *ArchiveDate) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}

	s := strings.TrimSpace(strings.Trim(string(b), "\""))
	if s == "" {
		d.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(wireDateLayout, s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	d.Time = t
	return nil
}
