package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrInvalidState = errors.New("invalid state")
	ErrLocked       = errors.New("record locked")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("version conflict")
	ErrPersistence  = errors.New("persistence failure")
)

type FieldIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError carries every field issue found on one input.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Field+": "+issue.Reason)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Issues collects field issues and turns into a ValidationError when non-empty.
type Issues struct {
	list []FieldIssue
}

func (i *Issues) Add(field, reason string) {
	i.list = append(i.list, FieldIssue{Field: field, Reason: reason})
}

func (i *Issues) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		i.Add(field, "is required")
	}
}

func (i *Issues) Empty() bool {
	return len(i.list) == 0
}

func (i *Issues) Err() error {
	if len(i.list) == 0 {
		return nil
	}
	out := make([]FieldIssue, len(i.list))
	copy(out, i.list)
	return &ValidationError{Issues: out}
}

func Invalid(field, reason string) error {
	return &ValidationError{Issues: []FieldIssue{{Field: field, Reason: reason}}}
}

// StateError reports an action that the entity's current status does not allow.
type StateError struct {
	Entity string
	Status string
	Action string
	Locked bool
}

func (e *StateError) Error() string {
	if e.Locked {
		return fmt.Sprintf("%s: %s is %s and cannot be %s", ErrLocked, e.Entity, e.Status, e.Action)
	}
	return fmt.Sprintf("%s: cannot %s %s in status %s", ErrInvalidState, e.Action, e.Entity, e.Status)
}

func (e *StateError) Is(target error) bool {
	if target == ErrInvalidState {
		return true
	}
	return e.Locked && target == ErrLocked
}

func InvalidState(entity, status, action string) error {
	return &StateError{Entity: entity, Status: status, Action: action}
}

func Locked(entity, status, action string) error {
	return &StateError{Entity: entity, Status: status, Action: action, Locked: true}
}

func NotFound(entity, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, entity, id)
}

func Conflict(entity, id string) error {
	return fmt.Errorf("%w: %s %s was modified concurrently", ErrConflict, entity, id)
}

// PersistenceError wraps a storage failure; the cause stays reachable through errors.Is/As.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPersistence, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}

func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
