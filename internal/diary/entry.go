// Package diary holds the diary entry model and the state manager that keeps
// the in-memory entry list in step with persistent storage.
package diary

import (
	"errors"
	"time"
)

// ErrMalformedStore is wrapped by persisters when stored data cannot be decoded.
var ErrMalformedStore = errors.New("malformed diary store")

// Emotion is the mood code attached to an entry. The core does not validate it.
type Emotion int

// Known emotion codes, best to worst.
const (
	EmotionGreat Emotion = iota + 1
	EmotionGood
	EmotionOkay
	EmotionBad
	EmotionTerrible
)

var emotionLabels = map[Emotion]string{
	EmotionGreat:    "great",
	EmotionGood:     "good",
	EmotionOkay:     "okay",
	EmotionBad:      "bad",
	EmotionTerrible: "terrible",
}

// String returns the emotion label, or "unknown" for codes outside 1-5.
func (e Emotion) String() string {
	if s, ok := emotionLabels[e]; ok {
		return s
	}
	return "unknown"
}

// Entry is a single diary record.
type Entry struct {
	ID      int     `json:"id"`
	Content string  `json:"content"`
	Emotion Emotion `json:"emotion"`
	Date    int64   `json:"date"` // epoch milliseconds
}

// Time returns the entry date as a time.Time in UTC.
func (e Entry) Time() time.Time {
	return time.UnixMilli(e.Date).UTC()
}

// Timestamp normalizes t to the stored epoch-millisecond form.
func Timestamp(t time.Time) int64 {
	return t.UnixMilli()
}
