package domain

// RangeSummary aggregates scheduled doses over a set of days.
type RangeSummary struct {
	Scheduled int `json:"total"`
	Taken     int `json:"taken"`
	Missed    int `json:"missed"`
}

// Summarize counts scheduled doses and how many were taken. Orphaned intakes
// have no scheduled slot and are not counted.
func Summarize(days []DayOutcome) RangeSummary {
	var s RangeSummary
	for _, d := range days {
		for _, dose := range d.Scheduled {
			s.Scheduled++
			if dose.Taken != nil {
				s.Taken++
			}
		}
	}
	s.Missed = max(0, s.Scheduled-s.Taken)
	return s
}

// StatusFilter selects which scheduled doses a history view shows.
type StatusFilter string

const (
	StatusAll    StatusFilter = "all"
	StatusTaken  StatusFilter = "taken"
	StatusMissed StatusFilter = "missed"
)

// ParseStatusFilter maps unknown or empty values to StatusAll.
func ParseStatusFilter(s string) StatusFilter {
	switch StatusFilter(s) {
	case StatusTaken, StatusMissed:
		return StatusFilter(s)
	default:
		return StatusAll
	}
}

// FilterDays keeps the doses matching f. Orphaned intakes only survive
// StatusAll. Days left empty are dropped.
func FilterDays(days []DayOutcome, f StatusFilter) []DayOutcome {
	if f == StatusAll || f == "" {
		return days
	}
	out := make([]DayOutcome, 0, len(days))
	for _, d := range days {
		kept := make([]ScheduledDose, 0, len(d.Scheduled))
		for _, dose := range d.Scheduled {
			if (f == StatusTaken) == (dose.Taken != nil) {
				kept = append(kept, dose)
			}
		}
		if len(kept) == 0 {
			continue
		}
		out = append(out, DayOutcome{Date: d.Date, Scheduled: kept, Orphaned: []IntakeRecord{}})
	}
	return out
}
