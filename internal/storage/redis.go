package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	appErrors "github.com/fatali-fataliyev/expense_tracker/customErrors"
	"github.com/fatali-fataliyev/expense_tracker/internal/config"
	"github.com/fatali-fataliyev/expense_tracker/internal/contextutil"
	"github.com/fatali-fataliyev/expense_tracker/internal/item"
	"github.com/fatali-fataliyev/expense_tracker/logging"
	"github.com/go-redis/redis/v8"
)

const redisItemsKey = "items"

// RedisStorage keeps each item as JSON under item:<id> and indexes ids in the "items" sorted set,
// scored by the timestamp in unix microseconds.
type RedisStorage struct {
	client *redis.Client
}

func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client}
}

func InitRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	logging.Logger.Infof("Connecting to Redis at %s...", cfg.RedisAddr)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logging.Logger.Info("Connected to Redis successfully")
	return client, nil
}

func redisItemKey(id string) string {
	return fmt.Sprintf("item:%s", id)
}

func redisSchemaKey(name string) string {
	return fmt.Sprintf("schema:%s", name)
}

func redisInternalError(traceID string, where string, err error, msg string) error {
	logging.Logger.Errorf("[TraceID=%s] | %s in Storage.%s() function | Error: %v", traceID, msg, where, err)
	return appErrors.ErrorResponse{
		Code:    appErrors.ErrInternal,
		Message: "Failed to access items, try again later.",
	}
}

func (r *RedisStorage) GetStorageType() string {
	return "Redis"
}

// Register stores the field list of schema under schema:<name>.
func (r *RedisStorage) Register(ctx context.Context, schema item.ModelSchema) error {
	traceID := contextutil.TraceIDFromContext(ctx)
	if err := validateSchema(schema); err != nil {
		return err
	}

	values := make([]interface{}, 0, len(schema.Fields)*2)
	for _, f := range schema.Fields {
		kind := string(f.Kind)
		if f.Required {
			kind += ",required"
		}
		values = append(values, f.Name, kind)
	}

	if err := r.client.HSet(ctx, redisSchemaKey(schema.Name), values...).Err(); err != nil {
		return redisInternalError(traceID, "Register", err, "failed to store schema")
	}
	return nil
}

func queueItemWrite(ctx context.Context, pipe redis.Pipeliner, it item.Item, data []byte) {
	pipe.Set(ctx, redisItemKey(it.ID), data, 0)
	pipe.ZAdd(ctx, redisItemsKey, &redis.Z{
		Score:  float64(it.Timestamp.UnixMicro()),
		Member: it.ID,
	})
}

func (r *RedisStorage) writeItem(ctx context.Context, it item.Item) error {
	data, err := json.Marshal(toDbItem(it))
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		queueItemWrite(ctx, pipe, it, data)
		return nil
	})
	return err
}

func (r *RedisStorage) SaveItem(ctx context.Context, it *item.Item) error {
	traceID := contextutil.TraceIDFromContext(ctx)
	if err := validateItem(it); err != nil {
		return err
	}

	saved := item.Item{ID: newItemID(), Timestamp: it.Timestamp.UTC()}
	if err := r.writeItem(ctx, saved); err != nil {
		return redisInternalError(traceID, "SaveItem", err, "failed to save item")
	}

	*it = saved
	return nil
}

func (r *RedisStorage) GetItemById(ctx context.Context, itemId string) (item.Item, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	data, err := r.client.Get(ctx, redisItemKey(itemId)).Result()
	if err != nil {
		if err == redis.Nil {
			return item.Item{}, errItemNotFound
		}
		return item.Item{}, redisInternalError(traceID, "GetItemById", err, "failed to get item")
	}

	var stored dbItem
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		return item.Item{}, redisInternalError(traceID, "GetItemById", err, "failed to decode item")
	}
	return stored.toItem(), nil
}

// scoreRange converts the filter bounds to sorted set scores. Scores are truncated to microseconds,
// so the bounds are widened and results are filtered again on the exact timestamps.
func scoreRange(filters *item.ItemList) (string, string) {
	minScore, maxScore := "-inf", "+inf"
	if filters == nil || filters.IsAllNil {
		return minScore, maxScore
	}
	if !filters.From.IsZero() {
		minScore = strconv.FormatInt(filters.From.UnixMicro()-1, 10)
	}
	if !filters.To.IsZero() {
		maxScore = strconv.FormatInt(filters.To.UnixMicro()+1, 10)
	}
	return minScore, maxScore
}

func (r *RedisStorage) GetFilteredItems(ctx context.Context, filters *item.ItemList) ([]item.Item, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	minScore, maxScore := scoreRange(filters)
	ids, err := r.client.ZRevRangeByScore(ctx, redisItemsKey, &redis.ZRangeBy{Min: minScore, Max: maxScore}).Result()
	if err != nil {
		return nil, redisInternalError(traceID, "GetFilteredItems", err, "failed to read item index")
	}
	if len(ids) == 0 {
		return []item.Item{}, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, redisItemKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, redisInternalError(traceID, "GetFilteredItems", err, "failed to get items")
	}

	items := make([]item.Item, 0, len(ids))
	for _, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, redisInternalError(traceID, "GetFilteredItems", err, "failed to get item")
		}
		var stored dbItem
		if err := json.Unmarshal([]byte(data), &stored); err != nil {
			return nil, redisInternalError(traceID, "GetFilteredItems", err, "failed to decode item")
		}
		it := stored.toItem()
		if matchesFilters(it.Timestamp, filters) {
			items = append(items, it)
		}
	}

	return sortAndLimit(items, filters), nil
}

const maxUpdateRetries = 5

// UpdateItem rewrites an existing item. The existence check and the write run under WATCH on item:<id>,
// so a delete that lands in between aborts the transaction instead of resurrecting the item.
func (r *RedisStorage) UpdateItem(ctx context.Context, it item.Item) error {
	traceID := contextutil.TraceIDFromContext(ctx)
	if err := validateItem(&it); err != nil {
		return err
	}

	data, err := json.Marshal(toDbItem(it))
	if err != nil {
		return redisInternalError(traceID, "UpdateItem", err, "failed to encode item")
	}

	key := redisItemKey(it.ID)
	update := func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists == 0 {
			return errItemNotFound
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			queueItemWrite(ctx, pipe, it, data)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err = r.client.Watch(ctx, update, key)
		if err == nil {
			return nil
		}
		if err == errItemNotFound {
			return errItemNotFound
		}
		if err != redis.TxFailedErr {
			return redisInternalError(traceID, "UpdateItem", err, "failed to update item")
		}
	}
	return redisInternalError(traceID, "UpdateItem", err, "item kept changing during update")
}

func (r *RedisStorage) DeleteItem(ctx context.Context, itemId string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, redisItemKey(itemId))
	pipe.ZRem(ctx, redisItemsKey, itemId)
	if _, err := pipe.Exec(ctx); err != nil {
		return redisInternalError(traceID, "DeleteItem", err, "failed to delete item")
	}
	if del.Val() == 0 {
		return errItemNotFound
	}
	return nil
}

func (r *RedisStorage) Close() error {
	return r.client.Close()
}
