package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/runnerr0/diary/internal/diary"
)

// DefaultDiaryKey is the slot the diary is stored under.
const DefaultDiaryKey = "diary"

// DiaryStore serializes the diary entry list as a JSON array into a single
// KV slot. It implements diary.Persister.
type DiaryStore struct {
	kv  KV
	key string
}

// NewDiaryStore returns a DiaryStore writing to key. An empty key selects
// DefaultDiaryKey.
func NewDiaryStore(kv KV, key string) *DiaryStore {
	if key == "" {
		key = DefaultDiaryKey
	}
	return &DiaryStore{kv: kv, key: key}
}

// Key returns the slot name.
func (s *DiaryStore) Key() string {
	return s.key
}

// Load reads the stored entry list. ok is false when the slot is absent.
// Undecodable content returns an error wrapping diary.ErrMalformedStore.
func (s *DiaryStore) Load(ctx context.Context) ([]diary.Entry, bool, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var entries []diary.Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, false, fmt.Errorf("%w: slot %q: %v", diary.ErrMalformedStore, s.key, err)
	}
	return entries, true, nil
}

// Save overwrites the slot with the full entry list.
func (s *DiaryStore) Save(ctx context.Context, entries []diary.Entry) error {
	if entries == nil {
		entries = []diary.Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode diary: %w", err)
	}
	return s.kv.Set(ctx, s.key, string(data))
}

// Raw returns the stored JSON text as-is.
func (s *DiaryStore) Raw(ctx context.Context) (string, error) {
	return s.kv.Get(ctx, s.key)
}

// Purge deletes the slot. A missing slot is not an error.
func (s *DiaryStore) Purge(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.key); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

// Stat describes the slot.
func (s *DiaryStore) Stat(ctx context.Context) (*SlotInfo, error) {
	return s.kv.Stat(ctx, s.key)
}
