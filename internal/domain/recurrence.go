package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// TokenKind distinguishes the recurrence token variants.
type TokenKind int

const (
	KindWeekday TokenKind = iota + 1
	KindEveryDay
	KindEven
	KindOdd
)

// Labels used on the wire and in storage.
const (
	LabelEveryDay = "Tutti i giorni"
	LabelEven     = "Pari"
	LabelOdd      = "Dispari"
)

// weekdayLabels is Sunday-indexed to line up with time.Weekday.
var weekdayLabels = [7]string{
	"Domenica",
	"Lunedì",
	"Martedì",
	"Mercoledì",
	"Giovedì",
	"Venerdì",
	"Sabato",
}

// ErrUnknownToken is returned when a recurrence label is not part of the vocabulary.
var ErrUnknownToken = errors.New("unknown recurrence token")

// RecurrenceToken is one value of the closed recurrence vocabulary:
// Weekday(n), EveryDay, Even or Odd.
type RecurrenceToken struct {
	Kind    TokenKind
	Weekday time.Weekday
}

// Token constructors.
var (
	EveryDay = RecurrenceToken{Kind: KindEveryDay}
	Even     = RecurrenceToken{Kind: KindEven}
	Odd      = RecurrenceToken{Kind: KindOdd}
)

// Weekday returns the token matching the given day of the week.
func Weekday(d time.Weekday) RecurrenceToken {
	return RecurrenceToken{Kind: KindWeekday, Weekday: d}
}

// ParseToken maps a label to its token.
func ParseToken(label string) (RecurrenceToken, error) {
	switch label {
	case LabelEveryDay:
		return EveryDay, nil
	case LabelEven:
		return Even, nil
	case LabelOdd:
		return Odd, nil
	}
	for i, l := range weekdayLabels {
		if l == label {
			return Weekday(time.Weekday(i)), nil
		}
	}
	return RecurrenceToken{}, fmt.Errorf("%w: %q", ErrUnknownToken, label)
}

// String returns the label of the token.
func (t RecurrenceToken) String() string {
	switch t.Kind {
	case KindEveryDay:
		return LabelEveryDay
	case KindEven:
		return LabelEven
	case KindOdd:
		return LabelOdd
	case KindWeekday:
		if t.Weekday >= time.Sunday && t.Weekday <= time.Saturday {
			return weekdayLabels[t.Weekday]
		}
	}
	return ""
}

// MarshalJSON encodes the token as its label.
func (t RecurrenceToken) MarshalJSON() ([]byte, error) {
	s := t.String()
	if s == "" {
		return nil, ErrUnknownToken
	}
	return json.Marshal(s)
}

// UnmarshalJSON decodes a label.
func (t *RecurrenceToken) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	tok, err := ParseToken(s)
	if err != nil {
		return err
	}
	*t = tok
	return nil
}

// Recurrence is the set of tokens attached to a medication.
type Recurrence []RecurrenceToken

// ParseRecurrence converts labels to tokens, dropping repeated labels.
func ParseRecurrence(labels []string) (Recurrence, error) {
	out := make(Recurrence, 0, len(labels))
	for _, l := range labels {
		tok, err := ParseToken(l)
		if err != nil {
			return nil, err
		}
		if !out.Has(tok) {
			out = append(out, tok)
		}
	}
	return out, nil
}

// Has reports whether tok is part of the recurrence.
func (r Recurrence) Has(tok RecurrenceToken) bool {
	for _, t := range r {
		if t == tok {
			return true
		}
	}
	return false
}

// Labels returns the storage labels in order.
func (r Recurrence) Labels() []string {
	out := make([]string, 0, len(r))
	for _, t := range r {
		out = append(out, t.String())
	}
	return out
}
