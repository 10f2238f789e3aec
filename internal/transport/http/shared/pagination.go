package shared

import (
	"net/http"
	"strconv"
	"strings"

	"gymhub/internal/domain/apperr"
)

type Pagination struct {
	Limit  int
	Offset int
}

// ParsePagination reads ?limit and ?offset. Limits above maxLimit are clamped;
// malformed or negative values are a validation error.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) (Pagination, error) {
	var issues apperr.Issues
	page := Pagination{Limit: defaultLimit}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			issues.Add("limit", "must be a positive integer")
		} else {
			page.Limit = v
		}
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("offset")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			issues.Add("offset", "must be a non-negative integer")
		} else {
			page.Offset = v
		}
	}
	if maxLimit > 0 && page.Limit > maxLimit {
		page.Limit = maxLimit
	}
	return page, issues.Err()
}
