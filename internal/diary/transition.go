package diary

import "time"

// State is the diary collection plus the id the next created entry receives.
type State struct {
	Entries []Entry
	NextID  int
}

// Action is a state transition request. The set is closed to this package.
type Action interface {
	action()
}

// Init replaces the collection wholesale. NextID is left untouched.
type Init struct {
	Entries []Entry
}

// Create prepends a new entry and consumes NextID.
type Create struct {
	Date    time.Time
	Content string
	Emotion Emotion
}

// Remove drops every entry whose id matches TargetID.
type Remove struct {
	TargetID int
}

// Edit replaces every entry whose id matches TargetID, keeping the id.
type Edit struct {
	TargetID int
	Content  string
	Emotion  Emotion
	Date     time.Time
}

func (Init) action()   {}
func (Create) action() {}
func (Remove) action() {}
func (Edit) action()   {}

// mutates reports whether a must be written through to storage after it is
// applied. Init hydrates from storage and unknown actions change nothing.
func mutates(a Action) bool {
	switch a.(type) {
	case Create, Remove, Edit:
		return true
	default:
		return false
	}
}

// Reduce applies a to s and returns the new state. It never modifies the
// slice held by s.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case Init:
		return State{Entries: act.Entries, NextID: s.NextID}

	case Create:
		entry := Entry{
			ID:      s.NextID,
			Content: act.Content,
			Emotion: act.Emotion,
			Date:    Timestamp(act.Date),
		}
		entries := make([]Entry, 0, len(s.Entries)+1)
		entries = append(entries, entry)
		entries = append(entries, s.Entries...)
		return State{Entries: entries, NextID: s.NextID + 1}

	case Remove:
		entries := make([]Entry, 0, len(s.Entries))
		for _, e := range s.Entries {
			if e.ID != act.TargetID {
				entries = append(entries, e)
			}
		}
		return State{Entries: entries, NextID: s.NextID}

	case Edit:
		entries := make([]Entry, len(s.Entries))
		for i, e := range s.Entries {
			if e.ID == act.TargetID {
				e = Entry{
					ID:      act.TargetID,
					Content: act.Content,
					Emotion: act.Emotion,
					Date:    Timestamp(act.Date),
				}
			}
			entries[i] = e
		}
		return State{Entries: entries, NextID: s.NextID}

	default:
		return s
	}
}
