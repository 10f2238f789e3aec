package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type StoreAPI interface {
	Insert(ctx context.Context, evt Event) error
	List(ctx context.Context, filter Filter, includeDetails bool) ([]Event, error)
	Count(ctx context.Context, filter Filter) (int, error)
}

type Service struct {
	store StoreAPI
	Now   func() time.Time
}

func New(store StoreAPI) *Service {
	return &Service{store: store, Now: time.Now}
}

// Record appends one mutation to the trail. before and after are stored as JSON snapshots.
func (s *Service) Record(ctx context.Context, actorID, action, entityType, entityID, requestID, ip string, before, after any) error {
	evt := Event{
		ID:         uuid.NewString(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		RequestID:  requestID,
		IP:         ip,
		CreatedAt:  s.Now().UTC(),
	}
	var err error
	if evt.Before, err = snapshot(before); err != nil {
		return err
	}
	if evt.After, err = snapshot(after); err != nil {
		return err
	}
	return s.store.Insert(ctx, evt)
}

func (s *Service) List(ctx context.Context, filter Filter, includeDetails bool) ([]Event, error) {
	return s.store.List(ctx, filter, includeDetails)
}

func (s *Service) Count(ctx context.Context, filter Filter) (int, error) {
	return s.store.Count(ctx, filter)
}

func snapshot(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
