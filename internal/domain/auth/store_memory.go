package auth

import (
	"context"
	"strings"

	"gymhub/internal/domain/apperr"
	"gymhub/internal/platform/memstore"
)

type MemoryStore struct {
	table *memstore.Table[User]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{table: memstore.NewTable("user",
		func(u User) string { return u.ID },
		func(u User) int { return u.Version },
	)}
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, ok := s.table.Find(func(u User) bool { return u.Email == email })
	if !ok {
		return User{}, apperr.NotFound("user", email)
	}
	return user, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (User, error) {
	return s.table.Get(id)
}

func (s *MemoryStore) Create(_ context.Context, user User) error {
	if _, ok := s.table.Find(func(u User) bool { return u.Email == user.Email }); ok {
		return apperr.Invalid("email", "is already registered")
	}
	return s.table.Insert(user)
}
