package progression

import "time"

// DayLayout is the canonical calendar-day format used for completion
// records. Completions are facts about a day, not an instant, so the day
// string is the unit of identity.
const DayLayout = "2006-01-02"

// DaySet is the set of days an item was completed on.
type DaySet map[string]struct{}

// NewDaySet builds a set from day strings, ignoring duplicates.
func NewDaySet(days ...string) DaySet {
	s := make(DaySet, len(days))
	for _, d := range days {
		s[d] = struct{}{}
	}
	return s
}

func (s DaySet) Has(day string) bool {
	_, ok := s[day]
	return ok
}

func (s DaySet) Add(day string)    { s[day] = struct{}{} }
func (s DaySet) Remove(day string) { delete(s, day) }

// FormatDay collapses a timestamp to its calendar day.
func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDay parses a canonical day string.
func ParseDay(day string) (time.Time, error) {
	return time.Parse(DayLayout, day)
}

// StreakLength counts consecutive completed days ending exactly at asOf.
// If asOf itself has no completion the streak is 0: a streak queried the
// day after it ended does not survive.
func StreakLength(days DaySet, asOf time.Time) int {
	n := 0
	for d := asOf; days.Has(FormatDay(d)); d = d.AddDate(0, 0, -1) {
		n++
	}
	return n
}

// CurrentStreak is the dashboard variant of StreakLength: an unfinished
// "today" does not zero an ongoing streak, so when today has no completion
// yet the streak is anchored at yesterday instead.
func CurrentStreak(days DaySet, today time.Time) int {
	if days.Has(FormatDay(today)) {
		return StreakLength(days, today)
	}
	return StreakLength(days, today.AddDate(0, 0, -1))
}

// CompletionRate is the fraction of calendar days in [start, end]
// (inclusive) that have a completion, in [0, 1]. An inverted or empty
// range rates 0.
func CompletionRate(days DaySet, start, end time.Time) float64 {
	startDay, err := ParseDay(FormatDay(start))
	if err != nil {
		return 0
	}
	endDay, err := ParseDay(FormatDay(end))
	if err != nil {
		return 0
	}
	if endDay.Before(startDay) {
		return 0
	}

	total := 0
	completed := 0
	for d := startDay; !d.After(endDay); d = d.AddDate(0, 0, 1) {
		total++
		if days.Has(FormatDay(d)) {
			completed++
		}
	}
	return float64(completed) / float64(total)
}
