package workflow

import (
	"errors"
	"testing"

	"gymhub/internal/domain/apperr"
)

type lightStatus string
type lightAction string

var lights = New("light", map[lightAction]Rule[lightStatus]{
	"go":   {From: []lightStatus{"red"}, To: "green"},
	"slow": {From: []lightStatus{"green"}, To: "amber"},
	"stop": {From: []lightStatus{"green", "amber"}, To: "red"},
	"kill": {From: []lightStatus{"red", "green", "amber"}, To: "off"},
})

func TestMachineNext(t *testing.T) {
	cases := []struct {
		from   lightStatus
		action lightAction
		want   lightStatus
		ok     bool
	}{
		{"red", "go", "green", true},
		{"green", "slow", "amber", true},
		{"amber", "stop", "red", true},
		{"red", "stop", "red", false},
		{"off", "go", "off", false},
		{"red", "fly", "red", false},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"/"+string(tc.action), func(t *testing.T) {
			got, err := lights.Next(tc.from, tc.action)
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && !errors.Is(err, apperr.ErrInvalidState) {
				t.Fatalf("expected invalid state, got %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestMachineActionsAndTerminal(t *testing.T) {
	actions := lights.Actions("green")
	if len(actions) != 3 || actions[0] != "kill" || actions[1] != "slow" || actions[2] != "stop" {
		t.Fatalf("unexpected actions %v", actions)
	}
	if !lights.Terminal("off") {
		t.Fatal("expected off to be terminal")
	}
	if lights.Terminal("red") {
		t.Fatal("expected red to be non-terminal")
	}
}
