package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

// DayHours is a half-open [Open, Close) range in minutes after local midnight.
// Open == Close means the day is closed.
type DayHours struct {
	Open  int
	Close int
}

func (h DayHours) closed() bool {
	return h.Open >= h.Close
}

// Schedule holds opening hours indexed by time.Weekday.
type Schedule [7]DayHours

// DefaultSchedule accepts orders from Monday 06:00 until Thursday 17:00.
var DefaultSchedule = Schedule{
	time.Monday:    {Open: 6 * 60, Close: minutesPerDay},
	time.Tuesday:   {Open: 0, Close: minutesPerDay},
	time.Wednesday: {Open: 0, Close: minutesPerDay},
	time.Thursday:  {Open: 0, Close: 17 * 60},
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// ParseSchedule parses "mon=06:00-24:00,tue=00:00-24:00". Days that are not
// listed stay closed.
func ParseSchedule(raw string) (Schedule, error) {
	var schedule Schedule
	seen := make(map[time.Weekday]bool)

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		day, hours, ok := strings.Cut(part, "=")
		if !ok {
			return Schedule{}, fmt.Errorf("schedule entry %q: expected day=HH:MM-HH:MM", part)
		}
		weekday, ok := weekdayNames[strings.ToLower(strings.TrimSpace(day))]
		if !ok {
			return Schedule{}, fmt.Errorf("schedule entry %q: unknown day", part)
		}
		if seen[weekday] {
			return Schedule{}, fmt.Errorf("schedule entry %q: day listed twice", part)
		}
		from, to, ok := strings.Cut(strings.TrimSpace(hours), "-")
		if !ok {
			return Schedule{}, fmt.Errorf("schedule entry %q: expected HH:MM-HH:MM", part)
		}
		open, err := parseClock(from)
		if err != nil {
			return Schedule{}, fmt.Errorf("schedule entry %q: %w", part, err)
		}
		closeAt, err := parseClock(to)
		if err != nil {
			return Schedule{}, fmt.Errorf("schedule entry %q: %w", part, err)
		}
		if open >= closeAt || open == minutesPerDay {
			return Schedule{}, fmt.Errorf("schedule entry %q: opening must precede closing", part)
		}
		schedule[weekday] = DayHours{Open: open, Close: closeAt}
		seen[weekday] = true
	}

	return schedule, nil
}

// ParseWeeklyTime parses "sun 23:00" into a weekday and minute of day.
func ParseWeeklyTime(raw string) (time.Weekday, int, error) {
	fields := strings.Fields(raw)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("weekly time %q: expected \"day HH:MM\"", raw)
	}
	weekday, ok := weekdayNames[strings.ToLower(fields[0])]
	if !ok {
		return 0, 0, fmt.Errorf("weekly time %q: unknown day", raw)
	}
	minute, err := parseClock(fields[1])
	if err != nil || minute == minutesPerDay {
		return 0, 0, fmt.Errorf("weekly time %q: invalid clock", raw)
	}
	return weekday, minute, nil
}

func parseClock(raw string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock %q", raw)
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q", raw)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || len(m) != 2 {
		return 0, fmt.Errorf("invalid clock %q", raw)
	}
	total := hour*60 + minute
	if hour < 0 || minute < 0 || minute > 59 || total > minutesPerDay {
		return 0, fmt.Errorf("invalid clock %q", raw)
	}
	return total, nil
}

// WindowStatus is a human readable snapshot of the order window.
type WindowStatus struct {
	Open        bool
	NextOpening time.Time
	Message     string
}

// OrderWindow decides whether orders are accepted at a given instant. All
// evaluation happens in a pinned location so results do not depend on the
// host timezone.
type OrderWindow struct {
	schedule Schedule
	loc      *time.Location
}

// NewOrderWindow constructs OrderWindow. A nil location means UTC.
func NewOrderWindow(schedule Schedule, loc *time.Location) *OrderWindow {
	if loc == nil {
		loc = time.UTC
	}
	return &OrderWindow{schedule: schedule, loc: loc}
}

// Location returns the timezone the window is evaluated in.
func (w *OrderWindow) Location() *time.Location {
	return w.loc
}

// IsOpen reports whether orders are accepted at now.
func (w *OrderWindow) IsOpen(now time.Time) bool {
	local := now.In(w.loc)
	hours := w.schedule[local.Weekday()]
	minute := local.Hour()*60 + local.Minute()
	return !hours.closed() && minute >= hours.Open && minute < hours.Close
}

// NextOpening returns now when the window is open, otherwise the next instant
// it opens. The zero time is returned for a schedule without open days.
func (w *OrderWindow) NextOpening(now time.Time) time.Time {
	if w.IsOpen(now) {
		return now
	}
	local := now.In(w.loc)
	minute := local.Hour()*60 + local.Minute()

	for offset := 0; offset <= 7; offset++ {
		day := time.Date(local.Year(), local.Month(), local.Day()+offset, 0, 0, 0, 0, w.loc)
		hours := w.schedule[day.Weekday()]
		if hours.closed() {
			continue
		}
		if offset == 0 && minute >= hours.Open {
			continue
		}
		return time.Date(day.Year(), day.Month(), day.Day(), hours.Open/60, hours.Open%60, 0, 0, w.loc)
	}
	return time.Time{}
}

// Status describes the window at now for storefront banners.
func (w *OrderWindow) Status(now time.Time) WindowStatus {
	if w.IsOpen(now) {
		return WindowStatus{Open: true, NextOpening: now, Message: "Orders are currently being accepted!"}
	}

	next := w.NextOpening(now)
	status := WindowStatus{NextOpening: next, Message: "Orders are currently closed."}
	if next.IsZero() {
		return status
	}

	local := now.In(w.loc)
	clock := formatClock(next.Hour()*60 + next.Minute())
	if sameDay(local, next) {
		status.Message += fmt.Sprintf(" Orders will open at %s today.", clock)
	} else {
		status.Message += fmt.Sprintf(" Orders will reopen %s at %s.", next.Weekday(), clock)
	}
	return status
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func formatClock(minute int) string {
	hour, mins := minute/60, minute%60
	suffix := "am"
	if hour >= 12 {
		suffix = "pm"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	if mins == 0 {
		return fmt.Sprintf("%d%s", hour, suffix)
	}
	return fmt.Sprintf("%d:%02d%s", hour, mins, suffix)
}
