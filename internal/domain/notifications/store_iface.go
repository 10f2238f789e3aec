package notifications

import (
	"context"
	"time"
)

type StoreAPI interface {
	Create(ctx context.Context, n Notification) error
	List(ctx context.Context, recipientID string, limit, offset int) ([]Notification, error)
	Count(ctx context.Context, recipientID string) (int, error)
	MarkRead(ctx context.Context, recipientID, id string, at time.Time) error
}
