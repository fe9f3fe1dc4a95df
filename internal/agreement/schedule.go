package agreement

import "time"

// DateLayout is the wire format for meeting dates.
const DateLayout = "2006-01-02"

const slotLayout = "3:04 PM"

// DefaultTimeSlots returns the fixed set of selectable meeting times.
func DefaultTimeSlots() []string {
	return []string{
		"9:00 AM", "10:00 AM", "11:00 AM", "12:00 PM",
		"1:00 PM", "2:00 PM", "3:00 PM", "4:00 PM", "5:00 PM", "6:00 PM",
	}
}

// MinMeetingDate is the earliest selectable meeting date: tomorrow, relative
// to now's calendar date.
func MinMeetingDate(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
}

// dateValid reports whether date parses and falls strictly after now's
// calendar date.
func dateValid(date string, now time.Time) bool {
	d, err := time.ParseInLocation(DateLayout, date, now.Location())
	if err != nil {
		return false
	}
	return !d.Before(MinMeetingDate(now))
}

// ScheduleSummary renders the human-readable schedule. The "at <slot>"
// suffix is a contract: callers pattern-match on it.
func ScheduleSummary(date, slot string) string {
	day := date
	if d, err := time.Parse(DateLayout, date); err == nil {
		day = d.Format("Monday, January 2")
	}
	return day + " at " + slot
}

// meetingDatetime combines date and slot into "2006-01-02T15:04" for the
// completion payload. Falls back to the raw date if the slot is malformed.
func meetingDatetime(date, slot string) string {
	t, err := time.Parse(slotLayout, slot)
	if err != nil {
		return date
	}
	return date + "T" + t.Format("15:04")
}

func slotKnown(slots []string, slot string) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}
