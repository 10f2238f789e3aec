package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	store StoreAPI
	Now   func() time.Time
}

func New(store StoreAPI) *Service {
	return &Service{store: store, Now: time.Now}
}

func (s *Service) Create(ctx context.Context, recipientID, ntype, title, body string) error {
	if recipientID == "" {
		return nil
	}
	return s.store.Create(ctx, Notification{
		ID:          uuid.NewString(),
		RecipientID: recipientID,
		Type:        ntype,
		Title:       title,
		Body:        body,
		CreatedAt:   s.Now().UTC(),
	})
}

func (s *Service) List(ctx context.Context, recipientID string, limit, offset int) ([]Notification, error) {
	return s.store.List(ctx, recipientID, limit, offset)
}

func (s *Service) Count(ctx context.Context, recipientID string) (int, error) {
	return s.store.Count(ctx, recipientID)
}

func (s *Service) MarkRead(ctx context.Context, recipientID, id string) error {
	return s.store.MarkRead(ctx, recipientID, id, s.Now().UTC())
}
