package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"gymhub/internal/domain/apperr"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	store    StoreAPI
	secret   string
	tokenTTL time.Duration
}

func NewService(store StoreAPI, secret string, tokenTTL time.Duration) *Service {
	return &Service{store: store, secret: secret, tokenTTL: tokenTTL}
}

func (s *Service) Login(ctx context.Context, email, password string) (string, User, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		return "", User{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", User{}, err
	}
	if !user.Active || CheckPassword(user.PasswordHash, password) != nil {
		return "", User{}, ErrInvalidCredentials
	}
	token, err := GenerateToken(s.secret, Claims{UserID: user.ID, Role: user.Role, SubjectID: user.SubjectID}, s.tokenTTL)
	if err != nil {
		return "", User{}, err
	}
	return token, user, nil
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) CreateUser(ctx context.Context, in NewUser) (User, error) {
	var issues apperr.Issues
	email := strings.ToLower(strings.TrimSpace(in.Email))
	issues.Required("email", email)
	if len(in.Password) < 8 {
		issues.Add("password", "must be at least 8 characters")
	}
	if !ValidRole(in.Role) {
		issues.Add("role", "is not a known role")
	}
	if err := issues.Err(); err != nil {
		return User{}, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return User{}, err
	}
	now := time.Now().UTC()
	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
		SubjectID:    in.SubjectID,
		Active:       true,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// EnsureUser creates the user unless the email is already registered.
func (s *Service) EnsureUser(ctx context.Context, in NewUser) error {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil
	}
	_, err := s.store.FindByEmail(ctx, in.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	_, err = s.CreateUser(ctx, in)
	return err
}
