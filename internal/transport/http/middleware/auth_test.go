package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymhub/internal/domain/auth"
	"gymhub/internal/domain/checkin"
	"gymhub/internal/domain/core"
)

type activeMember struct{}

func (activeMember) GetMember(_ context.Context, id string) (core.Member, error) {
	return core.Member{ID: id, FullName: "Mo Member", Status: core.MemberActive}, nil
}

func TestAuthMiddlewareSetsUser(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: "u1", Role: auth.RoleTrainer, SubjectID: "staff-1"}, time.Hour)
	require.NoError(t, err)

	called := false
	handler := Auth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		user, ok := GetUser(r.Context())
		require.True(t, ok, "expected user in context")
		assert.Equal(t, "u1", user.UserID)
		assert.Equal(t, auth.RoleTrainer, user.Role)
		assert.Equal(t, "staff-1", user.SubjectID)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, called)
}

func TestAuthMiddlewareIgnoresBadTokens(t *testing.T) {
	other, err := auth.GenerateToken("other-secret", auth.Claims{UserID: "u1", Role: auth.RoleAdmin}, time.Hour)
	require.NoError(t, err)

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer " + other} {
		handler := Auth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := GetUser(r.Context())
			assert.False(t, ok, "header %q must not authenticate", header)
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}

func TestCheckinPassIsNotABearerToken(t *testing.T) {
	secret := "shared-secret"
	pass, err := checkin.NewService(activeMember{}, secret, time.Minute).Issue(context.Background(), "m1")
	require.NoError(t, err)

	called := false
	handler := Auth(secret)(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})))

	req := httptest.NewRequest(http.MethodGet, "/menu", nil)
	req.Header.Set("Authorization", "Bearer "+pass.Token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUser(req.Context(), auth.UserContext{UserID: "u1", Role: auth.RoleMember}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequirePermission(t *testing.T) {
	perms := auth.NewStaticPermissions(auth.RolePermissions)
	handler := RequirePermission(auth.PermSalaryPay, perms)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		role   string
		status int
	}{
		{auth.RoleAdmin, http.StatusNoContent},
		{auth.RoleManager, http.StatusForbidden},
		{auth.RoleMember, http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/salaries/s1/pay", nil)
		req = req.WithContext(WithUser(req.Context(), auth.UserContext{UserID: "u", Role: tc.role}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, tc.status, rec.Code, tc.role)
	}
}
