// Package memstore backs the in-memory persistence used when no DATABASE_URL is configured.
package memstore

import (
	"fmt"
	"sync"

	"gymhub/internal/domain/apperr"
)

// Table keeps rows in insertion order and enforces optimistic versioning on writes.
type Table[T any] struct {
	mu     sync.RWMutex
	entity string
	ids    []string
	rows   map[string]T
	key    func(T) string
	rev    func(T) int
}

func NewTable[T any](entity string, key func(T) string, rev func(T) int) *Table[T] {
	return &Table[T]{
		entity: entity,
		rows:   map[string]T{},
		key:    key,
		rev:    rev,
	}
}

func (t *Table[T]) Insert(row T) error {
	id := t.key(row)
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.rows[id]; exists {
		return apperr.Persistence(t.entity+".insert", fmt.Errorf("duplicate id %s", id))
	}
	t.rows[id] = row
	t.ids = append(t.ids, id)
	return nil
}

func (t *Table[T]) Get(id string) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, apperr.NotFound(t.entity, id)
	}
	return row, nil
}

// Replace stores row if the current revision equals expected.
func (t *Table[T]) Replace(row T, expected int) error {
	id := t.key(row)
	t.mu.Lock()
	defer t.mu.Unlock()
	current, ok := t.rows[id]
	if !ok {
		return apperr.NotFound(t.entity, id)
	}
	if t.rev(current) != expected {
		return apperr.Conflict(t.entity, id)
	}
	t.rows[id] = row
	return nil
}

// Delete removes the row; expected <= 0 skips the revision check.
func (t *Table[T]) Delete(id string, expected int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	current, ok := t.rows[id]
	if !ok {
		return apperr.NotFound(t.entity, id)
	}
	if expected > 0 && t.rev(current) != expected {
		return apperr.Conflict(t.entity, id)
	}
	delete(t.rows, id)
	for i, candidate := range t.ids {
		if candidate == id {
			t.ids = append(t.ids[:i], t.ids[i+1:]...)
			break
		}
	}
	return nil
}

func (t *Table[T]) List(match func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0, len(t.ids))
	for _, id := range t.ids {
		row := t.rows[id]
		if match == nil || match(row) {
			out = append(out, row)
		}
	}
	return out
}

func (t *Table[T]) Find(match func(T) bool) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, id := range t.ids {
		row := t.rows[id]
		if match(row) {
			return row, true
		}
	}
	var zero T
	return zero, false
}

// Page applies offset/limit to an already filtered list; limit <= 0 means no limit.
func Page[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	if offset > 0 {
		rows = rows[offset:]
	}
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}
