package storage

import (
	"sort"
	"strings"
	"time"

	appErrors "github.com/fatali-fataliyev/expense_tracker/customErrors"
	"github.com/fatali-fataliyev/expense_tracker/internal/item"
	"github.com/google/uuid"
)

// dbItem is the JSON document kept under item:<id> in Redis.
type dbItem struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func toDbItem(it item.Item) dbItem {
	return dbItem{ID: it.ID, Timestamp: it.Timestamp.UTC()}
}

func (d dbItem) toItem() item.Item {
	return item.Item{ID: d.ID, Timestamp: d.Timestamp.UTC()}
}

func newItemID() string {
	return uuid.New().String()
}

var errItemNotFound = appErrors.ErrorResponse{
	Code:    appErrors.ErrNotFound,
	Message: "Item not found.",
}

func validateSchema(schema item.ModelSchema) error {
	if strings.TrimSpace(schema.Name) == "" {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Model name cannot be empty!",
		}
	}
	if len(schema.Fields) == 0 {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Model '" + schema.Name + "' has no fields",
		}
	}
	for _, f := range schema.Fields {
		if strings.TrimSpace(f.Name) == "" {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrInvalidInput,
				Message: "Model '" + schema.Name + "' has a field without name",
			}
		}
	}
	return nil
}

func validateItem(it *item.Item) error {
	if it == nil || it.Timestamp.IsZero() {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Item timestamp cannot be empty!",
		}
	}
	return nil
}

// matchesFilters reports whether t is inside the inclusive [From, To] range of filters.
func matchesFilters(t time.Time, filters *item.ItemList) bool {
	if filters == nil || filters.IsAllNil {
		return true
	}
	if !filters.From.IsZero() && t.Before(filters.From) {
		return false
	}
	if !filters.To.IsZero() && t.After(filters.To) {
		return false
	}
	return true
}

// sortAndLimit orders newest first, ties broken by ID, and applies the filter limit.
func sortAndLimit(items []item.Item, filters *item.ItemList) []item.Item {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Timestamp.Equal(items[j].Timestamp) {
			return items[i].ID < items[j].ID
		}
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	if filters != nil && !filters.IsAllNil && filters.Limit > 0 && len(items) > filters.Limit {
		items = items[:filters.Limit]
	}
	return items
}
