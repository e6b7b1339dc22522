package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fatali-fataliyev/expense_tracker/internal/item"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStorage(t *testing.T) {
	runBackendContract(t, NewInMemoryStorage())
}

func TestInMemoryStorageKeepsNanoseconds(t *testing.T) {
	ctx := context.Background()
	storage := NewInMemoryStorage()
	ts := time.Date(2024, time.July, 1, 13, 45, 12, 123456789, time.FixedZone("AZT", 4*60*60))

	saved := item.NewItem(ts)
	require.NoError(t, storage.SaveItem(ctx, saved))

	got, err := storage.GetItemById(ctx, saved.ID)
	require.NoError(t, err)
	require.Equal(t, ts.UTC(), got.Timestamp)
	require.Equal(t, time.UTC, got.Timestamp.Location())
}

func TestInMemoryStorageConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	storage := NewInMemoryStorage()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := storage.Register(ctx, item.Schema); err != nil {
				t.Error(err)
				return
			}
			saved := item.NewItem(time.Unix(int64(i), 0))
			if err := storage.SaveItem(ctx, saved); err != nil {
				t.Error(err)
				return
			}
			saved.Timestamp = saved.Timestamp.Add(time.Minute)
			if err := storage.UpdateItem(ctx, *saved); err != nil {
				t.Error(err)
			}
			if _, err := storage.GetFilteredItems(ctx, &item.ItemList{IsAllNil: true}); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	all, err := storage.GetFilteredItems(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 50)
}
