package shared

import (
	"net/http"
	"strings"
	"time"

	"gymhub/internal/domain/apperr"
	"gymhub/internal/domain/clock"
)

// ParseRange reads the optional from/to query parameters as YYYY-MM-DD dates.
func ParseRange(r *http.Request) (clock.Range, error) {
	var issues apperr.Issues
	var out clock.Range
	query := r.URL.Query()
	if raw := strings.TrimSpace(query.Get("from")); raw != "" {
		d, err := clock.ParseDate(raw)
		if err != nil {
			issues.Add("from", "must be a valid date in YYYY-MM-DD format")
		}
		out.From = d
	}
	if raw := strings.TrimSpace(query.Get("to")); raw != "" {
		d, err := clock.ParseDate(raw)
		if err != nil {
			issues.Add("to", "must be a valid date in YYYY-MM-DD format")
		}
		out.To = d
	}
	if !out.From.IsZero() && !out.To.IsZero() && out.To.Before(out.From) {
		issues.Add("from", "must be on or before to")
		issues.Add("to", "must be on or after from")
	}
	return out, issues.Err()
}

// ParseWeek reads the ?week= date, defaulting to today. Any day of the week may be passed.
func ParseWeek(r *http.Request, now time.Time) (clock.Date, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("week"))
	if raw == "" {
		return clock.DateOf(now), nil
	}
	d, err := clock.ParseDate(raw)
	if err != nil {
		return clock.Date{}, apperr.Invalid("week", "must be a valid date in YYYY-MM-DD format")
	}
	return d, nil
}
