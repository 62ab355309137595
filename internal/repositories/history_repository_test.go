package repositories

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricep/internal/database"
	"pricep/internal/models"
)

func TestHistoryRepository_InsertAndListMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	repo := newHistoryRepository(openTestDB(t), stepClock())
	defer repo.Close()

	require.NoError(t, repo.Insert(ctx, &models.HistoryItem{RequestText: "milk price", ResponseText: "Milk: 79 RUB"}))
	require.NoError(t, repo.Insert(ctx, &models.HistoryItem{RequestText: "bread price", ResponseText: "Bread: 45 RUB"}))

	items, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "bread price", items[0].RequestText)
	assert.Equal(t, "Bread: 45 RUB", items[0].ResponseText)
	assert.Equal(t, "milk price", items[1].RequestText)
	assert.Equal(t, "Milk: 79 RUB", items[1].ResponseText)
}

func TestHistoryRepository_NInsertsDistinctIDsDescending(t *testing.T) {
	ctx := context.Background()
	repo := newHistoryRepository(openTestDB(t), stepClock())
	defer repo.Close()

	const n = 25
	for i := 0; i < n; i++ {
		require.NoError(t, repo.Insert(ctx, &models.HistoryItem{
			RequestText:  fmt.Sprintf("q%d", i),
			ResponseText: fmt.Sprintf("r%d", i),
		}))
	}

	items, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, n)

	seen := make(map[uint]bool, n)
	for i, it := range items {
		assert.False(t, seen[it.ID], "duplicate id %d", it.ID)
		seen[it.ID] = true
		if i > 0 {
			assert.GreaterOrEqual(t, items[i-1].Timestamp, it.Timestamp)
		}
	}

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(n), count)
}

func TestHistoryRepository_InsertAssignsIDAndKeepsTimestamp(t *testing.T) {
	ctx := context.Background()
	repo := newHistoryRepository(openTestDB(t), stepClock())
	defer repo.Close()

	item := &models.HistoryItem{ID: 999, RequestText: "a", ResponseText: "b", Timestamp: 42}
	require.NoError(t, repo.Insert(ctx, item))
	assert.NotEqual(t, uint(999), item.ID)
	assert.NotZero(t, item.ID)
	assert.Equal(t, int64(42), item.Timestamp)

	stamped := &models.HistoryItem{RequestText: "c", ResponseText: "d"}
	require.NoError(t, repo.Insert(ctx, stamped))
	assert.NotZero(t, stamped.Timestamp)
}

func TestHistoryRepository_SameTimestampOrdersByNewestID(t *testing.T) {
	ctx := context.Background()
	fixed := time.UnixMilli(1_700_000_000_000)
	repo := newHistoryRepository(openTestDB(t), func() time.Time { return fixed })
	defer repo.Close()

	require.NoError(t, repo.Insert(ctx, &models.HistoryItem{RequestText: "first"}))
	require.NoError(t, repo.Insert(ctx, &models.HistoryItem{RequestText: "second"}))

	items, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "second", items[0].RequestText)
}

func TestHistoryRepository_ClearAll(t *testing.T) {
	ctx := context.Background()
	repo := newHistoryRepository(openTestDB(t), stepClock())
	defer repo.Close()

	require.NoError(t, repo.ClearAll(ctx), "clearing an empty store succeeds")

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Insert(ctx, &models.HistoryItem{RequestText: "q"}))
	}
	require.NoError(t, repo.ClearAll(ctx))

	items, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)

	require.NoError(t, repo.ClearAll(ctx))
	items, err = repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestHistoryRepository_IDsNotReusedAfterClear(t *testing.T) {
	ctx := context.Background()
	repo := newHistoryRepository(openTestDB(t), stepClock())
	defer repo.Close()

	first := &models.HistoryItem{RequestText: "before"}
	require.NoError(t, repo.Insert(ctx, first))
	require.NoError(t, repo.ClearAll(ctx))

	second := &models.HistoryItem{RequestText: "after"}
	require.NoError(t, repo.Insert(ctx, second))
	assert.Greater(t, second.ID, first.ID)
}

func TestHistoryRepository_SubscribeDeliversSnapshots(t *testing.T) {
	ctx := context.Background()
	repo := newHistoryRepository(openTestDB(t), stepClock())
	defer repo.Close()

	sub, err := repo.Subscribe(ctx)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	assert.Empty(t, receive(t, sub.Updates()))

	require.NoError(t, repo.Insert(ctx, &models.HistoryItem{RequestText: "milk price", ResponseText: "Milk: 79 RUB"}))
	snap := receive(t, sub.Updates())
	require.Len(t, snap, 1)
	assert.Equal(t, "milk price", snap[0].RequestText)
	requireQuiet(t, sub.Updates())

	require.NoError(t, repo.Insert(ctx, &models.HistoryItem{RequestText: "bread price", ResponseText: "Bread: 45 RUB"}))
	snap = receive(t, sub.Updates())
	require.Len(t, snap, 2)
	assert.Equal(t, "bread price", snap[0].RequestText)
	requireQuiet(t, sub.Updates())

	require.NoError(t, repo.ClearAll(ctx))
	assert.Empty(t, receive(t, sub.Updates()))
}

func TestHistoryRepository_UnsubscribeStopsNotifications(t *testing.T) {
	ctx := context.Background()
	repo := newHistoryRepository(openTestDB(t), stepClock())
	defer repo.Close()

	sub, err := repo.Subscribe(ctx)
	require.NoError(t, err)
	receive(t, sub.Updates())

	sub.Unsubscribe()
	require.NoError(t, repo.Insert(ctx, &models.HistoryItem{RequestText: "q"}))

	_, ok := <-sub.Updates()
	assert.False(t, ok)
}

func TestHistoryRepository_ConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	repo := newHistoryRepository(openTestDB(t), stepClock())
	defer repo.Close()

	const workers, perWorker = 8, 10
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				assert.NoError(t, repo.Insert(ctx, &models.HistoryItem{RequestText: fmt.Sprintf("w%d-%d", w, i)}))
			}
		}(w)
	}
	wg.Wait()

	items, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, items, workers*perWorker)

	ids := make(map[uint]struct{}, len(items))
	for _, it := range items {
		ids[it.ID] = struct{}{}
	}
	assert.Len(t, ids, workers*perWorker)
}

func TestHistoryRepository_StorageFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := newHistoryRepository(db, stepClock())
	defer repo.Close()

	sub, err := repo.Subscribe(ctx)
	require.NoError(t, err)
	defer sub.Unsubscribe()
	receive(t, sub.Updates())

	require.NoError(t, database.Close(db))

	err = repo.Insert(ctx, &models.HistoryItem{RequestText: "q"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "insert history item", se.Op)

	assert.ErrorIs(t, repo.ClearAll(ctx), ErrStorageUnavailable)
	_, err = repo.ListAll(ctx)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	requireQuiet(t, sub.Updates())
}

func TestHistoryRepository_ClosedRepository(t *testing.T) {
	ctx := context.Background()
	repo := newHistoryRepository(openTestDB(t), stepClock())

	sub, err := repo.Subscribe(ctx)
	require.NoError(t, err)
	receive(t, sub.Updates())

	repo.Close()
	repo.Close()

	_, ok := <-sub.Updates()
	assert.False(t, ok)

	assert.ErrorIs(t, repo.Insert(ctx, &models.HistoryItem{}), ErrClosed)
	assert.ErrorIs(t, repo.ClearAll(ctx), ErrClosed)
	_, err = repo.Subscribe(ctx)
	assert.ErrorIs(t, err, ErrClosed)
}
