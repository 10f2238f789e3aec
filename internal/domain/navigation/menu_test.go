package navigation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymhub/internal/domain/auth"
)

func TestDefaultMenusCoverEveryRole(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	for _, role := range auth.Roles {
		assert.NotEmpty(t, cfg.For(role), "role %s", role)
	}
	assert.Empty(t, cfg.For("Intruder"))
}

func TestForReturnsACopy(t *testing.T) {
	cfg := Default()
	items := cfg.For(auth.RoleMember)
	items[0].Label = "changed"
	assert.Equal(t, "Dashboard", cfg.For(auth.RoleMember)[0].Label)
}

func TestLoadOverridesWithEnvExpansion(t *testing.T) {
	t.Setenv("GYM_PORTAL", "/portal")
	path := filepath.Join(t.TempDir(), "menu.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
menus:
  Member:
    - label: Home
      path: ${GYM_PORTAL}/home
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	member := cfg.For(auth.RoleMember)
	require.Len(t, member, 1)
	assert.Equal(t, "/portal/home", member[0].Path)
	assert.NotEmpty(t, cfg.For(auth.RoleAdmin), "roles not in the file keep defaults")
}

func TestLoadRejectsUnknownRole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.yaml")
	require.NoError(t, os.WriteFile(path, []byte("menus:\n  Janitor:\n    - label: X\n      path: /x\n"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}
