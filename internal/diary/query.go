package diary

import (
	"cmp"
	"fmt"
	"slices"
	"time"
)

// Order is the listing order by entry date.
type Order string

const (
	OrderLatest Order = "latest"
	OrderOldest Order = "oldest"
)

// Mood narrows a listing by emotion. Good covers codes up to 3.
type Mood string

const (
	MoodAll  Mood = "all"
	MoodGood Mood = "good"
	MoodBad  Mood = "bad"
)

// Query describes a listing view over the collection. The zero value lists
// everything, latest first.
type Query struct {
	Order Order
	Mood  Mood
	Month time.Time // zero means every month
}

// ParseOrder validates an order name. Empty selects OrderLatest.
func ParseOrder(s string) (Order, error) {
	switch Order(s) {
	case "", OrderLatest:
		return OrderLatest, nil
	case OrderOldest:
		return OrderOldest, nil
	}
	return "", fmt.Errorf("invalid order %q (use latest or oldest)", s)
}

// ParseMood validates a mood filter name. Empty selects MoodAll.
func ParseMood(s string) (Mood, error) {
	switch Mood(s) {
	case "", MoodAll:
		return MoodAll, nil
	case MoodGood, MoodBad:
		return Mood(s), nil
	}
	return "", fmt.Errorf("invalid mood %q (use all, good or bad)", s)
}

// ParseMonth parses a YYYY-MM month. Empty returns the zero time.
func ParseMonth(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q (use YYYY-MM)", s)
	}
	return t, nil
}

// Apply returns the entries matching q in the requested order. The input is
// not modified.
func (q Query) Apply(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if q.matches(e) {
			out = append(out, e)
		}
	}

	slices.SortStableFunc(out, func(a, b Entry) int {
		if q.Order == OrderOldest {
			return cmp.Compare(a.Date, b.Date)
		}
		return cmp.Compare(b.Date, a.Date)
	})
	return out
}

func (q Query) matches(e Entry) bool {
	switch q.Mood {
	case MoodGood:
		if e.Emotion > EmotionOkay {
			return false
		}
	case MoodBad:
		if e.Emotion <= EmotionOkay {
			return false
		}
	}

	if !q.Month.IsZero() {
		start := time.Date(q.Month.Year(), q.Month.Month(), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0)
		if e.Date < start.UnixMilli() || e.Date >= end.UnixMilli() {
			return false
		}
	}
	return true
}
