package storage

import (
	"context"
	"testing"
	"time"

	appErrors "github.com/fatali-fataliyev/expense_tracker/customErrors"
	"github.com/fatali-fataliyev/expense_tracker/internal/item"
	"github.com/stretchr/testify/require"
)

// runBackendContract checks the behaviour every Backend must share. The backend must start empty.
func runBackendContract(t *testing.T, backend Backend) {
	ctx := context.Background()
	feb28 := time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)
	epoch := time.Unix(0, 0).UTC()

	t.Run("Register", func(t *testing.T) {
		require.NoError(t, backend.Register(ctx, item.Schema))

		err := backend.Register(ctx, item.ModelSchema{Name: "item"})
		require.Equal(t, appErrors.ErrInvalidInput, appErrors.CodeOf(err))
	})

	t.Run("Save and read back", func(t *testing.T) {
		saved := item.NewItem(feb28)
		require.NoError(t, backend.SaveItem(ctx, saved))
		require.NotEmpty(t, saved.ID)

		got, err := backend.GetItemById(ctx, saved.ID)
		require.NoError(t, err)
		require.Equal(t, saved.ID, got.ID)
		require.True(t, got.Timestamp.Equal(feb28))
		require.Equal(t, "2025-02-28T00:00:00Z", got.Timestamp.Format(time.RFC3339))

		require.NoError(t, backend.DeleteItem(ctx, saved.ID))
	})

	t.Run("Same timestamp gives distinct items", func(t *testing.T) {
		first := item.NewItem(feb28)
		second := item.NewItem(feb28)
		require.NoError(t, backend.SaveItem(ctx, first))
		require.NoError(t, backend.SaveItem(ctx, second))
		require.NotEqual(t, first.ID, second.ID)

		require.NoError(t, backend.DeleteItem(ctx, first.ID))
		_, err := backend.GetItemById(ctx, second.ID)
		require.NoError(t, err)
		require.NoError(t, backend.DeleteItem(ctx, second.ID))
	})

	t.Run("Zero timestamp rejected", func(t *testing.T) {
		err := backend.SaveItem(ctx, item.NewItem(time.Time{}))
		require.Equal(t, appErrors.ErrInvalidInput, appErrors.CodeOf(err))
	})

	t.Run("Update to epoch", func(t *testing.T) {
		saved := item.NewItem(time.Now().UTC().Truncate(time.Microsecond))
		require.NoError(t, backend.SaveItem(ctx, saved))

		require.NoError(t, backend.UpdateItem(ctx, item.Item{ID: saved.ID, Timestamp: epoch}))
		got, err := backend.GetItemById(ctx, saved.ID)
		require.NoError(t, err)
		require.True(t, got.Timestamp.Equal(epoch))

		// unchanged value
		require.NoError(t, backend.UpdateItem(ctx, item.Item{ID: saved.ID, Timestamp: epoch}))

		err = backend.UpdateItem(ctx, item.Item{ID: saved.ID})
		require.Equal(t, appErrors.ErrInvalidInput, appErrors.CodeOf(err))

		err = backend.UpdateItem(ctx, item.Item{ID: "missing-item", Timestamp: epoch})
		require.Equal(t, appErrors.ErrNotFound, appErrors.CodeOf(err))

		require.NoError(t, backend.DeleteItem(ctx, saved.ID))
	})

	t.Run("Filtered enumeration", func(t *testing.T) {
		base := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
		var ids []string
		for i := 0; i < 5; i++ {
			saved := item.NewItem(base.Add(time.Duration(i) * time.Hour))
			require.NoError(t, backend.SaveItem(ctx, saved))
			ids = append(ids, saved.ID)
		}

		all, err := backend.GetFilteredItems(ctx, &item.ItemList{IsAllNil: true})
		require.NoError(t, err)
		require.Len(t, all, 5)
		for i := 1; i < len(all); i++ {
			require.False(t, all[i].Timestamp.After(all[i-1].Timestamp))
		}
		require.Equal(t, ids[4], all[0].ID)

		ranged, err := backend.GetFilteredItems(ctx, &item.ItemList{From: base.Add(time.Hour), To: base.Add(3 * time.Hour)})
		require.NoError(t, err)
		require.Len(t, ranged, 3)
		require.Equal(t, ids[3], ranged[0].ID)
		require.Equal(t, ids[1], ranged[2].ID)

		limited, err := backend.GetFilteredItems(ctx, &item.ItemList{From: base, Limit: 2})
		require.NoError(t, err)
		require.Len(t, limited, 2)
		require.Equal(t, ids[4], limited[0].ID)

		empty, err := backend.GetFilteredItems(ctx, &item.ItemList{To: base.Add(-time.Hour)})
		require.NoError(t, err)
		require.Empty(t, empty)

		for _, id := range ids {
			require.NoError(t, backend.DeleteItem(ctx, id))
		}
	})

	t.Run("Delete", func(t *testing.T) {
		saved := item.NewItem(feb28)
		require.NoError(t, backend.SaveItem(ctx, saved))
		require.NoError(t, backend.DeleteItem(ctx, saved.ID))

		_, err := backend.GetItemById(ctx, saved.ID)
		require.Equal(t, appErrors.ErrNotFound, appErrors.CodeOf(err))

		err = backend.DeleteItem(ctx, saved.ID)
		require.Equal(t, appErrors.ErrNotFound, appErrors.CodeOf(err))
	})
}
