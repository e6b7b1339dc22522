package item

import (
	"context"
	"fmt"
	"strings"
	"time"

	appErrors "github.com/fatali-fataliyev/expense_tracker/customErrors"
	"github.com/fatali-fataliyev/expense_tracker/internal/contextutil"
	"github.com/fatali-fataliyev/expense_tracker/logging"
)

type ItemTracker struct {
	storage     Storage
	StorageType string
	now         func() time.Time
}

// Storage is the persistence collaborator. It owns the collection, assigns IDs and serializes writes.
type Storage interface {
	Register(ctx context.Context, schema ModelSchema) error
	SaveItem(ctx context.Context, item *Item) error
	GetItemById(ctx context.Context, itemId string) (Item, error)
	GetFilteredItems(ctx context.Context, filters *ItemList) ([]Item, error)
	UpdateItem(ctx context.Context, item Item) error
	DeleteItem(ctx context.Context, itemId string) error
	GetStorageType() string
}

func NewItemTracker(ctx context.Context, s Storage) (*ItemTracker, error) {
	if err := s.Register(ctx, Schema); err != nil {
		return nil, fmt.Errorf("failed to register '%s' model with %s storage: %w", Schema.Name, s.GetStorageType(), err)
	}
	return &ItemTracker{
		storage:     s,
		StorageType: s.GetStorageType(),
		now:         time.Now,
	}, nil
}

func (it *ItemTracker) AddItem(ctx context.Context, req ItemRequest) (Item, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	timestamp := req.Timestamp
	if timestamp.IsZero() {
		timestamp = it.now().UTC()
	}

	newItem := NewItem(timestamp)
	if err := it.storage.SaveItem(ctx, newItem); err != nil {
		return Item{}, fmt.Errorf("failed to save item: %w", err)
	}

	logging.Logger.Debugf("[TraceID=%s] | item created, ID: %s", traceID, newItem.ID)
	return *newItem, nil
}

func (it *ItemTracker) GetItem(ctx context.Context, itemId string) (Item, error) {
	itemId = strings.TrimSpace(itemId)
	if itemId == "" {
		return Item{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Item ID cannot be empty!",
		}
	}

	found, err := it.storage.GetItemById(ctx, itemId)
	if err != nil {
		return Item{}, fmt.Errorf("failed to get item: %w", err)
	}
	return found, nil
}

func (it *ItemTracker) GetFilteredItems(ctx context.Context, filters *ItemList) ([]Item, error) {
	if filters == nil {
		filters = &ItemList{IsAllNil: true}
	}

	if !filters.IsAllNil {
		if filters.Limit < 0 {
			return nil, appErrors.ErrorResponse{
				Code:    appErrors.ErrInvalidInput,
				Message: "Limit cannot be negative!",
			}
		}
		if !filters.From.IsZero() && !filters.To.IsZero() && filters.From.After(filters.To) {
			return nil, appErrors.ErrorResponse{
				Code:    appErrors.ErrInvalidInput,
				Message: "Start of the range is after its end!",
			}
		}
	}

	items, err := it.storage.GetFilteredItems(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

func (it *ItemTracker) UpdateItemTimestamp(ctx context.Context, req UpdateItemRequest) (Item, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	if req.NewTimestamp.IsZero() {
		return Item{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Timestamp cannot be empty!",
		}
	}

	existing, err := it.GetItem(ctx, req.ID)
	if err != nil {
		return Item{}, err
	}

	existing.Timestamp = req.NewTimestamp
	if err := it.storage.UpdateItem(ctx, existing); err != nil {
		return Item{}, fmt.Errorf("failed to update item: %w", err)
	}

	logging.Logger.Debugf("[TraceID=%s] | item updated, ID: %s", traceID, existing.ID)
	return existing, nil
}

func (it *ItemTracker) DeleteItem(ctx context.Context, itemId string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	itemId = strings.TrimSpace(itemId)
	if itemId == "" {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Item ID cannot be empty!",
		}
	}

	if err := it.storage.DeleteItem(ctx, itemId); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	logging.Logger.Debugf("[TraceID=%s] | item deleted, ID: %s", traceID, itemId)
	return nil
}
