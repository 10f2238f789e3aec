// Package navigation resolves the sidebar menu for a role from an explicit lookup table.
package navigation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"gymhub/internal/domain/auth"
)

type Item struct {
	Label string `yaml:"label" json:"label"`
	Path  string `yaml:"path" json:"path"`
	Icon  string `yaml:"icon,omitempty" json:"icon,omitempty"`
}

// RoleMenuConfig maps each role to its ordered menu.
type RoleMenuConfig struct {
	Menus map[string][]Item `yaml:"menus"`
}

// For returns the menu for role, or an empty menu for unknown roles.
func (c RoleMenuConfig) For(role string) []Item {
	items, ok := c.Menus[role]
	if !ok {
		return []Item{}
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

func (c RoleMenuConfig) Validate() error {
	for role, items := range c.Menus {
		if !auth.ValidRole(role) {
			return fmt.Errorf("menu for unknown role %q", role)
		}
		for i, item := range items {
			if item.Label == "" || item.Path == "" {
				return fmt.Errorf("menu %s item %d needs a label and a path", role, i)
			}
		}
	}
	return nil
}

// Load reads a YAML menu file, expanding ${VAR} references first. An empty path
// yields the built-in menus; roles missing from the file keep their defaults.
func Load(path string) (RoleMenuConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return RoleMenuConfig{}, fmt.Errorf("read menu config: %w", err)
	}
	var file RoleMenuConfig
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &file); err != nil {
		return RoleMenuConfig{}, fmt.Errorf("parse menu config: %w", err)
	}
	if err := file.Validate(); err != nil {
		return RoleMenuConfig{}, fmt.Errorf("validate menu config: %w", err)
	}
	for role, items := range file.Menus {
		cfg.Menus[role] = items
	}
	return cfg, nil
}

func Default() RoleMenuConfig {
	dashboard := Item{Label: "Dashboard", Path: "/dashboard", Icon: "home"}
	sessions := Item{Label: "Sessions", Path: "/sessions", Icon: "calendar"}
	roster := Item{Label: "Duty roster", Path: "/roster", Icon: "clock"}
	notices := Item{Label: "Notifications", Path: "/notifications", Icon: "bell"}
	return RoleMenuConfig{Menus: map[string][]Item{
		auth.RoleAdmin: {
			dashboard,
			{Label: "Staff", Path: "/staff", Icon: "users"},
			{Label: "Members", Path: "/members", Icon: "user"},
			{Label: "Plans", Path: "/plans", Icon: "tag"},
			{Label: "Plan requests", Path: "/plan-requests", Icon: "inbox"},
			sessions,
			roster,
			{Label: "Salaries", Path: "/salaries", Icon: "wallet"},
			{Label: "Audit log", Path: "/audit", Icon: "shield"},
		},
		auth.RoleManager: {
			dashboard,
			{Label: "Staff", Path: "/staff", Icon: "users"},
			{Label: "Members", Path: "/members", Icon: "user"},
			{Label: "Plan requests", Path: "/plan-requests", Icon: "inbox"},
			sessions,
			roster,
			{Label: "Salaries", Path: "/salaries", Icon: "wallet"},
		},
		auth.RoleTrainer: {
			dashboard,
			sessions,
			roster,
			{Label: "My salary", Path: "/salaries", Icon: "wallet"},
			notices,
		},
		auth.RoleStaff: {
			dashboard,
			{Label: "Check-in", Path: "/checkins", Icon: "qr"},
			roster,
			{Label: "My salary", Path: "/salaries", Icon: "wallet"},
			notices,
		},
		auth.RoleMember: {
			dashboard,
			{Label: "Plans", Path: "/plans", Icon: "tag"},
			{Label: "My sessions", Path: "/sessions", Icon: "calendar"},
			{Label: "Check-in pass", Path: "/checkin-pass", Icon: "qr"},
			notices,
		},
	}}
}
