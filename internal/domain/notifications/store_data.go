package notifications

import (
	"context"
	"time"

	"gymhub/internal/domain/apperr"
	"gymhub/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, n Notification) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO notifications (id, recipient_id, type, title, body, created_at)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, n.ID, n.RecipientID, n.Type, n.Title, n.Body, n.CreatedAt)
	return apperr.Persistence("notification.create", err)
}

func (s *Store) List(ctx context.Context, recipientID string, limit, offset int) ([]Notification, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, recipient_id, type, title, body, read_at, created_at
    FROM notifications
    WHERE recipient_id = $1
    ORDER BY created_at DESC, id
    LIMIT $2 OFFSET $3
  `, recipientID, limit, offset)
	if err != nil {
		return nil, apperr.Persistence("notification.list", err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Type, &n.Title, &n.Body, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, apperr.Persistence("notification.list", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("notification.list", err)
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context, recipientID string) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM notifications WHERE recipient_id = $1", recipientID).Scan(&total); err != nil {
		return 0, apperr.Persistence("notification.count", err)
	}
	return total, nil
}

func (s *Store) MarkRead(ctx context.Context, recipientID, id string, at time.Time) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE notifications SET read_at = COALESCE(read_at, $3)
    WHERE recipient_id = $1 AND id = $2
  `, recipientID, id, at)
	if err != nil {
		return apperr.Persistence("notification.mark_read", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("notification", id)
	}
	return nil
}
