package auth

import "context"

type StoreAPI interface {
	FindByEmail(ctx context.Context, email string) (User, error)
	Get(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, user User) error
}
