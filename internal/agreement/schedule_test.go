package agreement

import (
	"strings"
	"testing"
	"time"
)

func TestMinMeetingDateIsTomorrow(t *testing.T) {
	now := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	min := MinMeetingDate(now)
	if min.Format(DateLayout) != "2026-03-11" {
		t.Fatalf("expected 2026-03-11, got %s", min.Format(DateLayout))
	}
	// Month rollover.
	now = time.Date(2026, 2, 28, 1, 0, 0, 0, time.UTC)
	if got := MinMeetingDate(now).Format(DateLayout); got != "2026-03-01" {
		t.Fatalf("expected 2026-03-01, got %s", got)
	}
}

func TestDateValidFloor(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		date string
		want bool
	}{
		{"2026-03-09", false},
		{"2026-03-10", false}, // today is not selectable
		{"2026-03-11", true},
		{"2026-04-01", true},
		{"", false},
		{"not-a-date", false},
	}
	for _, c := range cases {
		if got := dateValid(c.date, now); got != c.want {
			t.Fatalf("dateValid(%q) = %t, want %t", c.date, got, c.want)
		}
	}
}

func TestScheduleSummaryContainsTimeContract(t *testing.T) {
	for _, slot := range DefaultTimeSlots() {
		summary := ScheduleSummary("2026-03-11", slot)
		if !strings.Contains(summary, "at "+slot) {
			t.Fatalf("summary %q missing \"at %s\"", summary, slot)
		}
	}
	if got := ScheduleSummary("2026-03-11", "2:00 PM"); got != "Wednesday, March 11 at 2:00 PM" {
		t.Fatalf("unexpected summary: %q", got)
	}
}

func TestMeetingDatetime(t *testing.T) {
	if got := meetingDatetime("2026-03-11", "2:00 PM"); got != "2026-03-11T14:00" {
		t.Fatalf("unexpected datetime: %q", got)
	}
	if got := meetingDatetime("2026-03-11", "9:00 AM"); got != "2026-03-11T09:00" {
		t.Fatalf("unexpected datetime: %q", got)
	}
}
