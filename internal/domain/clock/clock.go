// Package clock normalizes the calendar values used by schedules: civil dates and
// times of day. Times arrive in mixed formats ("10:00 AM", "10:00", "14:30:00") and
// are stored as minutes since midnight so they compare and bucket consistently.
package clock

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// TimeOfDay is minutes since midnight, 0..1439.
type TimeOfDay int

var timeLayouts = []string{"15:04", "15:04:05", "3:04PM", "3:04:05PM", "3PM"}

func ParseTime(raw string) (TimeOfDay, error) {
	value := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
	if value == "" {
		return 0, fmt.Errorf("time is empty")
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return TimeOfDay(parsed.Hour()*60 + parsed.Minute()), nil
		}
	}
	return 0, fmt.Errorf("unrecognized time %q", raw)
}

func MustTime(raw string) TimeOfDay {
	t, err := ParseTime(raw)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Label renders the 12-hour form shown on calendars and payslips.
func (t TimeOfDay) Label() string {
	h := t.Hour()
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	if h%12 == 0 {
		h = 12
	} else {
		h %= 12
	}
	return fmt.Sprintf("%d:%02d %s", h, t.Minute(), suffix)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseTime(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Date is a calendar day at UTC midnight.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate accepts YYYY-MM-DD or RFC3339.
func ParseDate(raw string) (Date, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Date{}, fmt.Errorf("date is empty")
	}
	if parsed, err := time.Parse(dateLayout, value); err == nil {
		return DateOf(parsed), nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return Date{}, fmt.Errorf("unrecognized date %q", raw)
	}
	return DateOf(parsed), nil
}

func MustDate(raw string) Date {
	d, err := ParseDate(raw)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool  { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool  { return d.Time.Equal(other.Time) }

// At combines the day with a time of day.
func (d Date) At(t TimeOfDay) time.Time {
	return d.Time.Add(time.Duration(t) * time.Minute)
}

// WeekStart returns the Monday on or before d.
func WeekStart(d Date) Date {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if strings.TrimSpace(raw) == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = DateOf(v)
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
	default:
		return fmt.Errorf("cannot scan %T into clock.Date", src)
	}
	return nil
}

// Range is an inclusive window of days; zero bounds are open.
type Range struct {
	From Date
	To   Date
}

func (r Range) Contains(d Date) bool {
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To) {
		return false
	}
	return true
}

func (r Range) Overlaps(start, end Date) bool {
	if !r.From.IsZero() && end.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && start.After(r.To) {
		return false
	}
	return true
}
