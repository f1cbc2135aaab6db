package domain

import "sort"

// IsScheduled reports whether med applies on day. Tokens combine as a union:
// every day, the weekday of day, or the parity of its day of month.
func IsScheduled(med Medication, day string) bool {
	t, err := ParseDay(day)
	if err != nil || len(med.Days) == 0 {
		return false
	}
	even := t.Day()%2 == 0
	for _, tok := range med.Days {
		switch tok.Kind {
		case KindEveryDay:
			return true
		case KindWeekday:
			if tok.Weekday == t.Weekday() {
				return true
			}
		case KindEven:
			if even {
				return true
			}
		case KindOdd:
			if !even {
				return true
			}
		}
	}
	return false
}

// ScheduledOn returns the medications scheduled on day ordered by time of
// day. Missing times sort first; ties keep the input order.
func ScheduledOn(meds []Medication, day string) []Medication {
	out := make([]Medication, 0, len(meds))
	for _, m := range meds {
		if IsScheduled(m, day) {
			out = append(out, m)
		}
	}
	SortByTime(out)
	return out
}

// SortByTime sorts meds in place by their "HH:MM" time.
func SortByTime(meds []Medication) {
	sort.SliceStable(meds, func(i, j int) bool {
		return meds[i].Time < meds[j].Time
	})
}

// WeekOf returns the dates of the Monday-to-Sunday week containing day, or
// nil when day is invalid.
func WeekOf(day string) []string {
	t, err := ParseDay(day)
	if err != nil {
		return nil
	}
	sinceMonday := (int(t.Weekday()) + 6) % 7
	monday := AddDays(day, -sinceMonday)
	out := make([]string, 7)
	for i := range out {
		out[i] = AddDays(monday, i)
	}
	return out
}
