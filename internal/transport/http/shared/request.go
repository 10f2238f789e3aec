package shared

import (
	"net/http"
	"strconv"
	"strings"

	"gymhub/internal/domain/apperr"
	"gymhub/internal/transport/http/middleware"
)

// ExpectedVersion reads the caller's version from If-Match or ?version=.
// Zero means the caller did not ask for a version check.
func ExpectedVersion(r *http.Request) (int, error) {
	raw := strings.Trim(strings.TrimSpace(r.Header.Get("If-Match")), `"W/`)
	if raw == "" {
		raw = strings.TrimSpace(r.URL.Query().Get("version"))
	}
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, apperr.Invalid("version", "must be a non-negative integer")
	}
	return v, nil
}

func ClientIP(r *http.Request) string {
	return middleware.ClientIP(r)
}

func QueryBool(r *http.Request, key string) *bool {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}
