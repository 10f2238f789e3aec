package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gymhub/internal/app/server"
	"gymhub/internal/platform/config"
)

const (
	adminEmail    = "admin@test.local"
	adminPassword = "ChangeMe123!"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func (e envelope) object(t *testing.T) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(e.Data, &out))
	return out
}

func (e envelope) list(t *testing.T) []map[string]any {
	t.Helper()
	var out []map[string]any
	if len(e.Data) == 0 {
		return out
	}
	require.NoError(t, json.Unmarshal(e.Data, &out))
	return out
}

type testAPI struct {
	t      *testing.T
	server *httptest.Server
	client *http.Client
}

func testConfig() config.Config {
	return config.Config{
		Environment:        "test",
		LogLevel:           "error",
		JWTSecret:          "test-secret",
		TokenTTL:           time.Hour,
		RunSeed:            true,
		SeedAdminEmail:     adminEmail,
		SeedAdminPassword:  adminPassword,
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 10000,
		CheckinWindow:      time.Minute,
		Currency:           "USD",
	}
}

// newAPI starts the full router on in-memory stores.
func newAPI(t *testing.T) *testAPI {
	t.Helper()
	app, err := server.New(context.Background(), testConfig())
	require.NoError(t, err)
	ts := httptest.NewServer(app.Router)
	t.Cleanup(func() {
		ts.Close()
		app.Close()
	})
	return &testAPI{t: t, server: ts, client: ts.Client()}
}

func (a *testAPI) raw(method, path, token string, body any, headers map[string]string) *http.Response {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, a.server.URL+"/api/v1"+path, reader)
	require.NoError(a.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := a.client.Do(req)
	require.NoError(a.t, err)
	return resp
}

// call performs a JSON request and fails the test unless the status matches want.
func (a *testAPI) call(method, path, token string, body any, want int) envelope {
	a.t.Helper()
	resp := a.raw(method, path, token, body, nil)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	require.Equalf(a.t, want, resp.StatusCode, "%s %s: %s", method, path, data)
	var env envelope
	require.NoError(a.t, json.Unmarshal(data, &env), string(data))
	return env
}

func (a *testAPI) login(email, password string) string {
	a.t.Helper()
	env := a.call(http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": password}, http.StatusOK)
	token, _ := env.object(a.t)["token"].(string)
	require.NotEmpty(a.t, token)
	return token
}

func (a *testAPI) createStaff(token, name, email, role string, compensation map[string]any) string {
	a.t.Helper()
	env := a.call(http.MethodPost, "/staff", token, map[string]any{
		"fullName":     name,
		"email":        email,
		"position":     role,
		"role":         role,
		"compensation": compensation,
	}, http.StatusCreated)
	return env.object(a.t)["id"].(string)
}

func (a *testAPI) createMember(token, name, email string) string {
	a.t.Helper()
	env := a.call(http.MethodPost, "/members", token, map[string]any{"fullName": name, "email": email}, http.StatusCreated)
	return env.object(a.t)["id"].(string)
}

// account creates a login bound to a staff or member record and returns its token.
func (a *testAPI) account(adminToken, email, role, subjectID string) string {
	a.t.Helper()
	a.call(http.MethodPost, "/auth/users", adminToken, map[string]any{
		"email":     email,
		"password":  "Password123!",
		"role":      role,
		"subjectId": subjectID,
	}, http.StatusCreated)
	return a.login(email, "Password123!")
}
