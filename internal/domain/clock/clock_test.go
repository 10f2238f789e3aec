package clock

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseTimeNormalizesFormats(t *testing.T) {
	want := TimeOfDay(10 * 60)
	for _, raw := range []string{"10:00 AM", "10:00", "10:00:00", "10:00am", " 10 AM "} {
		got, err := ParseTime(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("expected %q to map to %v, got %v", raw, want, got)
		}
	}

	pm, err := ParseTime("2:30 PM")
	if err != nil {
		t.Fatalf("parse pm: %v", err)
	}
	if pm.String() != "14:30" {
		t.Fatalf("expected 14:30, got %s", pm)
	}
	if pm.Label() != "2:30 PM" {
		t.Fatalf("expected label 2:30 PM, got %s", pm.Label())
	}
	if MustTime("12:05 AM").String() != "00:05" {
		t.Fatal("expected midnight hour to normalize to 00")
	}
}

func TestParseTimeRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "25:00", "noon", "10:61"} {
		if _, err := ParseTime(raw); err == nil {
			t.Fatalf("expected %q to fail", raw)
		}
	}
}

func TestWeekStart(t *testing.T) {
	// 2024-05-01 is a Wednesday
	got := WeekStart(MustDate("2024-05-01"))
	if got.String() != "2024-04-29" {
		t.Fatalf("expected Monday 2024-04-29, got %s", got)
	}
	sunday := WeekStart(MustDate("2024-05-05"))
	if sunday.String() != "2024-04-29" {
		t.Fatalf("expected Sunday to fold into the previous Monday, got %s", sunday)
	}
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Day  Date      `json:"day"`
		Slot TimeOfDay `json:"slot"`
	}
	if err := json.Unmarshal([]byte(`{"day":"2024-05-01","slot":"10:00 AM"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Day.Weekday() != time.Wednesday {
		t.Fatalf("expected wednesday, got %v", payload.Day.Weekday())
	}
	out, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"day":"2024-05-01","slot":"10:00"}` {
		t.Fatalf("unexpected json %s", out)
	}
}

func TestRangeContains(t *testing.T) {
	r := Range{From: MustDate("2024-05-01"), To: MustDate("2024-05-31")}
	if !r.Contains(MustDate("2024-05-31")) {
		t.Fatal("expected inclusive upper bound")
	}
	if r.Contains(MustDate("2024-06-01")) {
		t.Fatal("expected date after range to be excluded")
	}
	if !(Range{}).Contains(MustDate("1999-01-01")) {
		t.Fatal("expected open range to contain everything")
	}
}
