package storage

import (
	"context"
	"sync"

	"github.com/fatali-fataliyev/expense_tracker/internal/item"
)

type InMemoryStorage struct {
	mu    sync.RWMutex
	items map[string]item.Item
}

func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		items: make(map[string]item.Item),
	}
}

func (inMem *InMemoryStorage) GetStorageType() string {
	return "inmemory"
}

func (inMem *InMemoryStorage) Register(ctx context.Context, schema item.ModelSchema) error {
	return validateSchema(schema)
}

func (inMem *InMemoryStorage) SaveItem(ctx context.Context, it *item.Item) error {
	if err := validateItem(it); err != nil {
		return err
	}
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	it.ID = newItemID()
	it.Timestamp = it.Timestamp.UTC()
	inMem.items[it.ID] = *it
	return nil
}

func (inMem *InMemoryStorage) GetItemById(ctx context.Context, itemId string) (item.Item, error) {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()

	found, ok := inMem.items[itemId]
	if !ok {
		return item.Item{}, errItemNotFound
	}
	return found, nil
}

func (inMem *InMemoryStorage) GetFilteredItems(ctx context.Context, filters *item.ItemList) ([]item.Item, error) {
	inMem.mu.RLock()
	result := make([]item.Item, 0, len(inMem.items))
	for _, it := range inMem.items {
		if matchesFilters(it.Timestamp, filters) {
			result = append(result, it)
		}
	}
	inMem.mu.RUnlock()

	return sortAndLimit(result, filters), nil
}

func (inMem *InMemoryStorage) UpdateItem(ctx context.Context, it item.Item) error {
	if err := validateItem(&it); err != nil {
		return err
	}
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	if _, ok := inMem.items[it.ID]; !ok {
		return errItemNotFound
	}
	it.Timestamp = it.Timestamp.UTC()
	inMem.items[it.ID] = it
	return nil
}

func (inMem *InMemoryStorage) DeleteItem(ctx context.Context, itemId string) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	if _, ok := inMem.items[itemId]; !ok {
		return errItemNotFound
	}
	delete(inMem.items, itemId)
	return nil
}

func (inMem *InMemoryStorage) Close() error {
	return nil
}
