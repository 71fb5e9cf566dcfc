package session_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonMueller-OneAndOnly/blitz/core/session"
)

func TestMemoryStore_CRUD(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()

	expiresAt := time.Now().Add(time.Hour)
	rec := &session.Record{
		Handle:     "h1-opaque-token-simple",
		UserID:     "u1",
		ExpiresAt:  &expiresAt,
		PublicData: `{"userId":"u1"}`,
	}
	require.NoError(t, store.Create(ctx, rec))

	got, err := store.Get(ctx, rec.Handle)
	require.NoError(t, err)
	assert.Equal(t, rec.Handle, got.Handle)
	assert.False(t, got.CreatedAt.IsZero())

	newData := `{"userId":"u1","theme":"dark"}`
	require.NoError(t, store.Update(ctx, rec.Handle, session.RecordPatch{PublicData: &newData}))

	got, err = store.Get(ctx, rec.Handle)
	require.NoError(t, err)
	assert.Equal(t, newData, got.PublicData)

	require.NoError(t, store.Delete(ctx, rec.Handle))
	_, err = store.Get(ctx, rec.Handle)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestMemoryStore_NotFound(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, session.ErrNotFound)

	data := "{}"
	assert.ErrorIs(t, store.Update(ctx, "missing", session.RecordPatch{PublicData: &data}), session.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "missing"), session.ErrNotFound)
}

func TestMemoryStore_GetByUserID(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()

	for i := range 3 {
		require.NoError(t, store.Create(ctx, &session.Record{
			Handle: fmt.Sprintf("h%d-opaque-token-simple", i),
			UserID: "u1",
		}))
	}
	require.NoError(t, store.Create(ctx, &session.Record{Handle: "x-opaque-token-simple", UserID: "u2"}))

	recs, err := store.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, recs, 3)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &session.Record{Handle: "h", PublicData: "a"}))

	got, err := store.Get(ctx, "h")
	require.NoError(t, err)
	got.PublicData = "mutated"

	again, err := store.Get(ctx, "h")
	require.NoError(t, err)
	assert.Equal(t, "a", again.PublicData)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			handle := fmt.Sprintf("h%d-opaque-token-simple", i)
			_ = store.Create(ctx, &session.Record{Handle: handle, UserID: "u1"})
			_, _ = store.Get(ctx, handle)
			_, _ = store.GetByUserID(ctx, "u1")
			_ = store.Delete(ctx, handle)
		}()
	}
	wg.Wait()

	assert.Zero(t, store.Len())
}
