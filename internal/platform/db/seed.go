package db

import (
	"context"

	"gymhub/internal/domain/auth"
	"gymhub/internal/platform/config"
	"gymhub/internal/platform/querier"
)

// Seed writes the permission catalogue, the role grants and the bootstrap admin account.
// Every step is idempotent so it can run on each start.
func Seed(ctx context.Context, q querier.Querier, users *auth.Service, cfg config.Config) error {
	if err := ensurePermissions(ctx, q); err != nil {
		return err
	}
	if err := ensureRolePermissions(ctx, q); err != nil {
		return err
	}
	return ensureAdminUser(ctx, users, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
}

func ensurePermissions(ctx context.Context, q querier.Querier) error {
	for _, perm := range auth.DefaultPermissions {
		_, err := q.Exec(ctx, "INSERT INTO permissions (key) VALUES ($1) ON CONFLICT (key) DO NOTHING", perm)
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureRolePermissions(ctx context.Context, q querier.Querier) error {
	for role, perms := range auth.RolePermissions {
		for _, perm := range perms {
			_, err := q.Exec(ctx, "INSERT INTO role_permissions (role, permission) VALUES ($1, $2) ON CONFLICT DO NOTHING", role, perm)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func ensureAdminUser(ctx context.Context, users *auth.Service, email, password string) error {
	return users.EnsureUser(ctx, auth.NewUser{Email: email, Password: password, Role: auth.RoleAdmin})
}
