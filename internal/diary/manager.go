package diary

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// DefaultInitialID is the id given to the first entry of an empty diary.
const DefaultInitialID = 5

// SeedPolicy selects how NextID is derived from hydrated entries.
type SeedPolicy string

const (
	// SeedLargest seeds NextID from the largest stored id plus one.
	SeedLargest SeedPolicy = "largest"
	// SeedSmallest seeds NextID from the smallest stored id plus one. Kept
	// for diaries written by the legacy app; it can hand out duplicate ids.
	SeedSmallest SeedPolicy = "smallest"
)

// Persister loads and saves the full entry list.
type Persister interface {
	// Load returns ok=false when nothing has been stored yet.
	Load(ctx context.Context) (entries []Entry, ok bool, err error)
	Save(ctx context.Context, entries []Entry) error
}

// Manager owns the diary state. Every mutating transition is written through
// to the Persister before the next dispatch is admitted.
type Manager struct {
	mu    sync.Mutex
	state State
	store Persister

	seed           SeedPolicy
	resetMalformed bool
	logger         *slog.Logger

	pubMu   sync.Mutex
	subMu   sync.Mutex
	subs    map[int]func([]Entry)
	nextSub int
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for transition tracing.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithInitialID sets the id handed to the first entry of an empty diary.
func WithInitialID(id int) Option {
	return func(m *Manager) { m.state.NextID = id }
}

// WithSeedPolicy sets how Bootstrap derives NextID from stored entries.
func WithSeedPolicy(p SeedPolicy) Option {
	return func(m *Manager) { m.seed = p }
}

// WithMalformedReset makes Bootstrap start from an empty diary instead of
// failing when stored data cannot be decoded.
func WithMalformedReset(reset bool) Option {
	return func(m *Manager) { m.resetMalformed = reset }
}

// NewManager creates a Manager with an empty collection.
func NewManager(store Persister, opts ...Option) *Manager {
	m := &Manager{
		state:  State{Entries: []Entry{}, NextID: DefaultInitialID},
		store:  store,
		seed:   SeedLargest,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		subs:   make(map[int]func([]Entry)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Bootstrap hydrates the collection from storage. It runs once, before the
// first dispatch. An absent or empty store leaves the diary empty.
func (m *Manager) Bootstrap(ctx context.Context) error {
	entries, ok, err := m.store.Load(ctx)
	if err != nil {
		if m.resetMalformed && errors.Is(err, ErrMalformedStore) {
			m.logger.Warn("stored diary is malformed, starting empty", "error", err)
			return nil
		}
		return fmt.Errorf("load diary: %w", err)
	}
	if !ok || len(entries) == 0 {
		m.logger.Debug("no stored diary", "next_id", m.NextID())
		return nil
	}

	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int { return cmp.Compare(a.ID, b.ID) })

	m.mu.Lock()
	switch m.seed {
	case SeedSmallest:
		m.state.NextID = sorted[0].ID + 1
	default:
		m.state.NextID = sorted[len(sorted)-1].ID + 1
	}
	m.mu.Unlock()

	if err := m.Dispatch(ctx, Init{Entries: sorted}); err != nil {
		return err
	}
	m.logger.Info("diary loaded", "entries", len(sorted), "next_id", m.NextID(), "seed", string(m.seed))
	return nil
}

// Dispatch applies a to the current state. Mutating actions are persisted
// inline; subscribers see the new list once the write has been attempted.
// A failed write is returned but the in-memory state stays advanced.
func (m *Manager) Dispatch(ctx context.Context, a Action) error {
	_, err := m.apply(ctx, a)
	return err
}

func (m *Manager) apply(ctx context.Context, a Action) (State, error) {
	m.mu.Lock()
	next := Reduce(m.state, a)
	m.state = next

	var saveErr error
	if mutates(a) {
		if err := m.store.Save(ctx, next.Entries); err != nil {
			saveErr = fmt.Errorf("save diary: %w", err)
		}
	}

	// Hand over to pubMu before releasing mu so subscribers observe
	// transitions in commit order.
	m.pubMu.Lock()
	defer m.pubMu.Unlock()
	m.mu.Unlock()

	m.logger.Debug("transition applied",
		"action", actionName(a),
		"entries", len(next.Entries),
		"next_id", next.NextID,
	)

	switch a.(type) {
	case Init, Create, Remove, Edit:
		m.broadcast(next.Entries)
	}
	return next, saveErr
}

func actionName(a Action) string {
	switch a.(type) {
	case Init:
		return "init"
	case Create:
		return "create"
	case Remove:
		return "remove"
	case Edit:
		return "edit"
	default:
		return fmt.Sprintf("%T", a)
	}
}

// Create adds a new entry at the front of the diary and returns it.
func (m *Manager) Create(ctx context.Context, date time.Time, content string, emotion Emotion) (Entry, error) {
	next, err := m.apply(ctx, Create{Date: date, Content: content, Emotion: emotion})
	return next.Entries[0], err
}

// Remove deletes the entry with the given id. Missing ids are not an error.
func (m *Manager) Remove(ctx context.Context, id int) error {
	return m.Dispatch(ctx, Remove{TargetID: id})
}

// Edit replaces the content, emotion and date of the entry with the given id.
// Missing ids are not an error.
func (m *Manager) Edit(ctx context.Context, id int, content string, emotion Emotion, date time.Time) error {
	return m.Dispatch(ctx, Edit{TargetID: id, Content: content, Emotion: emotion, Date: date})
}

// Entries returns a copy of the current collection, most recent first.
func (m *Manager) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.state.Entries)
}

// Entry returns the entry with the given id.
func (m *Manager) Entry(id int) (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.state.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// NextID returns the id the next created entry will receive.
func (m *Manager) NextID() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.NextID
}

// Subscribe registers fn to receive the collection after every committed
// transition. fn must not dispatch. The returned func removes the
// subscription.
func (m *Manager) Subscribe(fn func([]Entry)) (cancel func()) {
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subMu.Unlock()

	return func() {
		m.subMu.Lock()
		delete(m.subs, id)
		m.subMu.Unlock()
	}
}

func (m *Manager) broadcast(entries []Entry) {
	m.subMu.Lock()
	fns := make([]func([]Entry), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(slices.Clone(entries))
	}
}
