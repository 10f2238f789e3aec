// Package workflow holds the transition tables behind every approval-style record.
package workflow

import (
	"slices"
	"sort"

	"gymhub/internal/domain/apperr"
)

type Rule[S ~string] struct {
	From []S
	To   S
}

// Machine maps each action to the statuses it may fire from and the status it lands on.
// Each entity declares its own status and action types, so statuses never cross entities.
type Machine[S ~string, A ~string] struct {
	entity string
	rules  map[A]Rule[S]
}

func New[S ~string, A ~string](entity string, rules map[A]Rule[S]) Machine[S, A] {
	return Machine[S, A]{entity: entity, rules: rules}
}

// Next returns the status reached by applying action; on failure current is returned unchanged.
func (m Machine[S, A]) Next(current S, action A) (S, error) {
	rule, ok := m.rules[action]
	if !ok || !slices.Contains(rule.From, current) {
		return current, apperr.InvalidState(m.entity, string(current), string(action))
	}
	return rule.To, nil
}

func (m Machine[S, A]) Can(current S, action A) bool {
	rule, ok := m.rules[action]
	return ok && slices.Contains(rule.From, current)
}

func (m Machine[S, A]) Actions(current S) []A {
	var out []A
	for action, rule := range m.rules {
		if slices.Contains(rule.From, current) {
			out = append(out, action)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Terminal reports whether no action leaves status s.
func (m Machine[S, A]) Terminal(s S) bool {
	return len(m.Actions(s)) == 0
}

func (m Machine[S, A]) Entity() string {
	return m.entity
}
