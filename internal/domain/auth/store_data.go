package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"gymhub/internal/domain/apperr"
	"gymhub/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const userColumns = "id, email, password_hash, role, COALESCE(subject_id, ''), active, version, created_at, updated_at"

func (s *Store) FindByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return s.one(ctx, "user.find", email, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
}

func (s *Store) Get(ctx context.Context, id string) (User, error) {
	return s.one(ctx, "user.get", id, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (s *Store) Create(ctx context.Context, user User) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO users (id, email, password_hash, role, subject_id, active, version, created_at, updated_at)
    VALUES ($1,$2,$3,$4,NULLIF($5, ''),$6,$7,$8,$9)
  `, user.ID, user.Email, user.PasswordHash, user.Role, user.SubjectID, user.Active, user.Version, user.CreatedAt, user.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperr.Invalid("email", "is already registered")
	}
	return apperr.Persistence("user.create", err)
}

func (s *Store) one(ctx context.Context, op, key, query string, args ...any) (User, error) {
	var u User
	err := s.DB.QueryRow(ctx, query, args...).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.SubjectID, &u.Active, &u.Version, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFound("user", key)
	}
	if err != nil {
		return User{}, apperr.Persistence(op, err)
	}
	return u, nil
}

// PermissionStore answers permission checks from the role_permissions table.
type PermissionStore struct {
	DB querier.Querier
}

func NewPermissionStore(db querier.Querier) *PermissionStore {
	return &PermissionStore{DB: db}
}

func (s *PermissionStore) HasPermission(ctx context.Context, role, permission string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM role_permissions WHERE role = $1 AND permission = $2)", role, permission).Scan(&exists)
	if err != nil {
		return false, apperr.Persistence("permission.check", err)
	}
	return exists, nil
}
