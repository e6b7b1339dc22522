package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/0xcafe-io/iz"
	appErrors "github.com/fatali-fataliyev/expense_tracker/customErrors"
	"github.com/fatali-fataliyev/expense_tracker/internal/contextutil"
	"github.com/fatali-fataliyev/expense_tracker/internal/item"
	"github.com/fatali-fataliyev/expense_tracker/logging"
)

const itemPathPrefix = "/api/item/"

type Api struct {
	Service *item.ItemTracker
}

func NewApi(service *item.ItemTracker) *Api {
	return &Api{
		Service: service,
	}
}

// requestContext derives from the request's own context so a dropped client or a server shutdown
// cancels in-flight storage calls.
func requestContext(r *iz.Request) context.Context {
	if traceID := r.Header.Get(TraceIDHeader); traceID != "" {
		return contextutil.WithTraceID(r.Context(), traceID)
	}
	return contextutil.NewTraceContext(r.Context())
}

func itemIdFromPath(r *iz.Request) string {
	return strings.TrimPrefix(r.URL.Path, itemPathPrefix)
}

func errorResponder(err error) iz.Responder {
	return iz.Respond().Status(httpStatusFromError(err)).Text(appErrors.MessageOf(err))
}

func (api *Api) SaveItemHandler(r *iz.Request) iz.Responder {
	ctx := requestContext(r)

	var newItemReq CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&newItemReq); err != nil && !errors.Is(err, io.EOF) {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}

	var req item.ItemRequest
	if newItemReq.Timestamp != "" {
		timestamp, err := parseTimestamp("timestamp", newItemReq.Timestamp)
		if err != nil {
			return errorResponder(err)
		}
		req.Timestamp = timestamp
	}

	created, err := api.Service.AddItem(ctx, req)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to create item: %v", contextutil.TraceIDFromContext(ctx), err)
		return errorResponder(err)
	}
	return iz.Respond().Status(201).JSON(ItemToHttp(created))
}

func (api *Api) GetFilteredItemsHandler(r *iz.Request) iz.Responder {
	ctx := requestContext(r)

	filters, err := ItemListCheckParams(r.URL.Query())
	if err != nil {
		return errorResponder(err)
	}

	items, err := api.Service.GetFilteredItems(ctx, filters)
	if err != nil {
		return errorResponder(err)
	}

	resp := ListItemsResponse{Items: make([]ItemResponseItem, 0, len(items))}
	for _, it := range items {
		resp.Items = append(resp.Items, ItemToHttp(it))
	}
	return iz.Respond().Status(200).JSON(resp)
}

func (api *Api) GetItemByIdHandler(r *iz.Request) iz.Responder {
	ctx := requestContext(r)

	found, err := api.Service.GetItem(ctx, itemIdFromPath(r))
	if err != nil {
		return errorResponder(err)
	}
	return iz.Respond().Status(200).JSON(ItemToHttp(found))
}

func (api *Api) UpdateItemHandler(r *iz.Request) iz.Responder {
	ctx := requestContext(r)

	var updateReq UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(400).Text(msg)
	}
	if updateReq.Timestamp == "" {
		return iz.Respond().Status(400).Text("timestamp is required")
	}

	timestamp, err := parseTimestamp("timestamp", updateReq.Timestamp)
	if err != nil {
		return errorResponder(err)
	}

	updated, err := api.Service.UpdateItemTimestamp(ctx, item.UpdateItemRequest{
		ID:           itemIdFromPath(r),
		NewTimestamp: timestamp,
	})
	if err != nil {
		return errorResponder(err)
	}
	return iz.Respond().Status(200).JSON(ItemToHttp(updated))
}

func (api *Api) DeleteItemHandler(r *iz.Request) iz.Responder {
	ctx := requestContext(r)

	if err := api.Service.DeleteItem(ctx, itemIdFromPath(r)); err != nil {
		return errorResponder(err)
	}
	return iz.Respond().Status(200).Text("item successfully deleted")
}

func (api *Api) HealthHandler(r *iz.Request) iz.Responder {
	return iz.Respond().Status(200).JSON(HealthResponse{
		Status:  "ok",
		Storage: api.Service.StorageType,
	})
}
