package domain

// ScheduledDose pairs a scheduled medication with the intake record that
// satisfied it, if any.
type ScheduledDose struct {
	Med   Medication    `json:"med"`
	Taken *IntakeRecord `json:"takenRecord"`
}

// DayOutcome is the adherence breakdown of one date.
type DayOutcome struct {
	Date      string          `json:"date"`
	Scheduled []ScheduledDose `json:"scheduled"`
	Orphaned  []IntakeRecord  `json:"orphanedIntakes"`
}

// Reconcile matches intake records against the medications scheduled on each
// date of [from, to], newest date first.
//
// Each scheduled medication consumes at most one record for its id on that
// date, in the order the records were given. Records left over (deleted
// medication, or no scheduled slot that day) are reported as orphaned. Dates
// with neither scheduled doses nor orphans are omitted. Invalid or reversed
// windows yield nil.
func Reconcile(meds []Medication, intakes []IntakeRecord, from, to string) []DayOutcome {
	if !ValidDay(from) || !ValidDay(to) || to < from {
		return nil
	}

	byDate := make(map[string][]IntakeRecord)
	for _, rec := range intakes {
		byDate[rec.Date] = append(byDate[rec.Date], rec)
	}

	span := DaysBetween(from, to)
	var out []DayOutcome
	for offset := 0; offset <= span; offset++ {
		day := AddDays(to, -offset)
		if outcome, ok := reconcileDay(meds, byDate[day], day); ok {
			out = append(out, outcome)
		}
	}
	return out
}

func reconcileDay(meds []Medication, records []IntakeRecord, day string) (DayOutcome, bool) {
	pending := make(map[int64][]int, len(records))
	for i, rec := range records {
		pending[rec.MedID] = append(pending[rec.MedID], i)
	}
	consumed := make([]bool, len(records))

	scheduled := ScheduledOn(meds, day)
	outcome := DayOutcome{
		Date:      day,
		Scheduled: make([]ScheduledDose, 0, len(scheduled)),
		Orphaned:  []IntakeRecord{},
	}
	for _, med := range scheduled {
		dose := ScheduledDose{Med: med}
		if queue := pending[med.ID]; len(queue) > 0 {
			idx := queue[0]
			pending[med.ID] = queue[1:]
			consumed[idx] = true
			rec := records[idx]
			dose.Taken = &rec
		}
		outcome.Scheduled = append(outcome.Scheduled, dose)
	}
	for i, rec := range records {
		if !consumed[i] {
			outcome.Orphaned = append(outcome.Orphaned, rec)
		}
	}
	return outcome, len(outcome.Scheduled) > 0 || len(outcome.Orphaned) > 0
}
