package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	appErrors "github.com/fatali-fataliyev/expense_tracker/customErrors"
	"github.com/fatali-fataliyev/expense_tracker/internal/item"
)

// REQUESTS START:
type CreateItemRequest struct {
	Timestamp string `json:"timestamp"` // empty means now
}

type UpdateItemRequest struct {
	Timestamp string `json:"timestamp"`
}

//REQUESTS END:

//RESPONSES:

type ItemResponseItem struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
}

type ListItemsResponse struct {
	Items []ItemResponseItem `json:"items"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

func httpStatusFromError(err error) int {
	switch appErrors.CodeOf(err) {
	case appErrors.ErrNotFound:
		return 404 // not found
	case appErrors.ErrInvalidInput:
		return 400 // bad request
	case appErrors.ErrAuth:
		return 401 // unauthorized
	case appErrors.ErrConflict:
		return 409 // conflict
	default:
		return 500 //internal error
	}
}

func ItemToHttp(it item.Item) ItemResponseItem {
	return ItemResponseItem{
		ID:        it.ID,
		Timestamp: it.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}

func parseTimestamp(field string, value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("invalid %s: '%s', expected RFC3339 e.g: 2025-02-28T00:00:00Z", field, value),
		}
	}
	return parsed, nil
}

func ItemListCheckParams(params url.Values) (*item.ItemList, error) {
	var filters item.ItemList
	if len(params) == 0 {
		filters.IsAllNil = true
		return &filters, nil
	}

	if fromStr := params.Get("from"); fromStr != "" {
		from, err := parseTimestamp("from", fromStr)
		if err != nil {
			return nil, err
		}
		filters.From = from
	}

	if toStr := params.Get("to"); toStr != "" {
		to, err := parseTimestamp("to", toStr)
		if err != nil {
			return nil, err
		}
		filters.To = to
	}

	if limitStr := params.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, appErrors.ErrorResponse{
				Code:    appErrors.ErrInvalidInput,
				Message: fmt.Sprintf("invalid limit: '%s'", limitStr),
			}
		}
		filters.Limit = limit
	}

	return &filters, nil
}
