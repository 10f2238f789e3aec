package shared

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymhub/internal/domain/apperr"
)

type planPayload struct {
	Name         string `json:"name" validate:"required,max=20"`
	DurationDays int    `json:"durationDays" validate:"gt=0"`
	Email        string `json:"email" validate:"omitempty,email"`
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	var out []string
	for _, issue := range verr.Issues {
		out = append(out, issue.Field)
	}
	return out
}

func TestDecodeReportsJSONFieldNames(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name":"","durationDays":0,"email":"nope"}`))
	var p planPayload
	err := Decode(req, &p)
	assert.ElementsMatch(t, []string{"name", "durationDays", "email"}, fieldsOf(t, err))
}

func TestDecodeRejectsUnknownFieldsAndEmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name":"Gold","durationDays":30,"price":1}`))
	var p planPayload
	assert.Equal(t, []string{"body"}, fieldsOf(t, Decode(req, &p)))

	req = httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	assert.Equal(t, []string{"body"}, fieldsOf(t, Decode(req, &p)))
}

func TestDecodeOptionalAcceptsEmptyBody(t *testing.T) {
	var payload struct {
		Note string `json:"note" validate:"max=5"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	assert.NoError(t, DecodeOptional(req, &payload))

	req = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"note":"too long"}`))
	assert.Equal(t, []string{"note"}, fieldsOf(t, DecodeOptional(req, &payload)))
}

func TestExpectedVersion(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/?version=3", nil)
	v, err := ExpectedVersion(req)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	req = httptest.NewRequest(http.MethodPut, "/?version=3", nil)
	req.Header.Set("If-Match", `W/"7"`)
	v, err = ExpectedVersion(req)
	require.NoError(t, err)
	assert.Equal(t, 7, v, "If-Match wins over the query")

	req = httptest.NewRequest(http.MethodPut, "/?version=abc", nil)
	_, err = ExpectedVersion(req)
	assert.Equal(t, []string{"version"}, fieldsOf(t, err))

	v, err = ExpectedVersion(httptest.NewRequest(http.MethodPut, "/", nil))
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestParseRangeAndPagination(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?from=2024-05-01&to=2024-05-31&limit=900&offset=10", nil)
	rng, err := ParseRange(req)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", rng.From.String())
	page, err := ParsePagination(req, 50, 200)
	require.NoError(t, err)
	assert.Equal(t, Pagination{Limit: 200, Offset: 10}, page)

	req = httptest.NewRequest(http.MethodGet, "/?from=2024-06-01&to=2024-05-01&offset=-1", nil)
	_, err = ParseRange(req)
	assert.ElementsMatch(t, []string{"from", "to"}, fieldsOf(t, err))
	_, err = ParsePagination(req, 50, 200)
	assert.Equal(t, []string{"offset"}, fieldsOf(t, err))
}

func TestParseWeek(t *testing.T) {
	now := time.Date(2024, 5, 15, 9, 0, 0, 0, time.UTC)
	d, err := ParseWeek(httptest.NewRequest(http.MethodGet, "/", nil), now)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-15", d.String())

	d, err = ParseWeek(httptest.NewRequest(http.MethodGet, "/?week=2024-06-02", nil), now)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-02", d.String())

	_, err = ParseWeek(httptest.NewRequest(http.MethodGet, "/?week=june", nil), now)
	assert.Equal(t, []string{"week"}, fieldsOf(t, err))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.5:4431"
	assert.Equal(t, "10.0.0.5", ClientIP(req))
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "10.0.0.5", ClientIP(req), "forwarding headers are ignored without a trusted proxy")
}
