package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/diary/internal/diary"
)

func TestDiaryStore_LoadAbsent(t *testing.T) {
	store := NewDiaryStore(NewMemoryKV(), "")

	entries, ok, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, entries)
	assert.Equal(t, DefaultDiaryKey, store.Key())
}

func TestDiaryStore_RoundTrip(t *testing.T) {
	kvImplementations(t, func(t *testing.T, kv KV) {
		store := NewDiaryStore(kv, "diary")
		ctx := context.Background()

		in := []diary.Entry{
			{ID: 9, Content: "newest", Emotion: diary.EmotionBad, Date: 1700000000000},
			{ID: 2, Content: "older\nmultiline \"quoted\"", Emotion: diary.EmotionGreat, Date: 1600000000000},
		}
		require.NoError(t, store.Save(ctx, in))

		out, ok, err := store.Load(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, in, out)
	})
}

func TestDiaryStore_WireFormat(t *testing.T) {
	kv := NewMemoryKV()
	store := NewDiaryStore(kv, "diary")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []diary.Entry{{ID: 5, Content: "hello", Emotion: 3, Date: 1700000000000}}))

	raw, err := kv.Get(ctx, "diary")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":5,"content":"hello","emotion":3,"date":1700000000000}]`, raw)
}

func TestDiaryStore_SaveNilWritesEmptyArray(t *testing.T) {
	kv := NewMemoryKV()
	store := NewDiaryStore(kv, "diary")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, nil))

	raw, err := store.Raw(ctx)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)

	entries, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, entries)
}

func TestDiaryStore_LoadMalformed(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, "diary", "{not json"))

	_, _, err := NewDiaryStore(kv, "diary").Load(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, diary.ErrMalformedStore)
}

func TestDiaryStore_Purge(t *testing.T) {
	kv := NewMemoryKV()
	store := NewDiaryStore(kv, "diary")
	ctx := context.Background()

	require.NoError(t, store.Purge(ctx), "purging an absent slot is fine")

	require.NoError(t, store.Save(ctx, []diary.Entry{{ID: 1}}))
	require.NoError(t, store.Purge(ctx))

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDiaryStore_DrivesManager(t *testing.T) {
	kv := openTestKV(t)
	ctx := context.Background()

	store := NewDiaryStore(kv, "diary")
	require.NoError(t, store.Save(ctx, []diary.Entry{
		{ID: 3, Content: "c", Emotion: 2, Date: 3},
		{ID: 1, Content: "a", Emotion: 1, Date: 1},
	}))

	m := diary.NewManager(store)
	require.NoError(t, m.Bootstrap(ctx))
	assert.Equal(t, []int{1, 3}, []int{m.Entries()[0].ID, m.Entries()[1].ID})

	e, err := m.Create(ctx, diary.Entry{Date: 10}.Time(), "d", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, e.ID)

	stored, ok, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, m.Entries(), stored)
}
