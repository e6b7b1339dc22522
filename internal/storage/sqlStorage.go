package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	appErrors "github.com/fatali-fataliyev/expense_tracker/customErrors"
	"github.com/fatali-fataliyev/expense_tracker/internal/contextutil"
	"github.com/fatali-fataliyev/expense_tracker/internal/item"
	"github.com/fatali-fataliyev/expense_tracker/logging"
)

// sqlQueries holds the statements that differ between MySQL and Postgres.
type sqlQueries struct {
	columns      string
	insert       string
	selectById   string
	selectAll    string
	timestampCol string
	update       string
	delete       string
	exists       string
	placeholder  func(n int) string
}

var mysqlQueries = sqlQueries{
	columns:      "SELECT COLUMN_NAME FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?;",
	insert:       "INSERT INTO item (id, `timestamp`) VALUES (?, ?);",
	selectById:   "SELECT id, `timestamp` FROM item WHERE id = ?;",
	selectAll:    "SELECT id, `timestamp` FROM item WHERE 1 = 1",
	timestampCol: "`timestamp`",
	update:       "UPDATE item SET `timestamp` = ? WHERE id = ?;",
	delete:       "DELETE FROM item WHERE id = ?;",
	exists:       "SELECT COUNT(*) FROM item WHERE id = ?;",
	placeholder:  func(int) string { return "?" },
}

var postgresQueries = sqlQueries{
	columns:      "SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1;",
	insert:       `INSERT INTO item (id, "timestamp") VALUES ($1, $2);`,
	selectById:   `SELECT id, "timestamp" FROM item WHERE id = $1;`,
	selectAll:    `SELECT id, "timestamp" FROM item WHERE 1 = 1`,
	timestampCol: `"timestamp"`,
	update:       `UPDATE item SET "timestamp" = $1 WHERE id = $2;`,
	delete:       `DELETE FROM item WHERE id = $1;`,
	exists:       `SELECT COUNT(*) FROM item WHERE id = $1;`,
	placeholder:  func(n int) string { return "$" + strconv.Itoa(n) },
}

type sqlStorage struct {
	db   *sql.DB
	q    sqlQueries
	kind string
}

func newSQLStorage(db *sql.DB, q sqlQueries, kind string) sqlStorage {
	return sqlStorage{db: db, q: q, kind: kind}
}

func (s *sqlStorage) GetStorageType() string {
	return s.kind
}

// Register checks that the migrated table has a column for every schema field.
func (s *sqlStorage) Register(ctx context.Context, schema item.ModelSchema) error {
	traceID := contextutil.TraceIDFromContext(ctx)
	if err := validateSchema(schema); err != nil {
		return err
	}

	rows, err := s.db.QueryContext(ctx, s.q.columns, schema.Name)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to read columns of '%s' in Storage.Register() function | Error: %v", traceID, schema.Name, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to register model, try again later.",
		}
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan column in Storage.Register() function | Error: %v", traceID, err)
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrInternal,
				Message: "Failed to register model, try again later.",
			}
		}
		columns[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate columns in Storage.Register() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to register model, try again later.",
		}
	}

	if len(columns) == 0 {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrConflict,
			Message: fmt.Sprintf("Table '%s' does not exist, run migrations first.", schema.Name),
		}
	}
	for _, field := range schema.Fields {
		if !columns[strings.ToLower(field.Name)] {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: fmt.Sprintf("Table '%s' has no '%s' column.", schema.Name, field.Name),
			}
		}
	}
	return nil
}

func (s *sqlStorage) SaveItem(ctx context.Context, it *item.Item) error {
	traceID := contextutil.TraceIDFromContext(ctx)
	if err := validateItem(it); err != nil {
		return err
	}

	id := newItemID()
	timestamp := it.Timestamp.UTC()
	if _, err := s.db.ExecContext(ctx, s.q.insert, id, timestamp); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to save item in Storage.SaveItem() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to save item, try again later.",
		}
	}

	it.ID = id
	it.Timestamp = timestamp
	return nil
}

func (s *sqlStorage) GetItemById(ctx context.Context, itemId string) (item.Item, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	var found item.Item
	err := s.db.QueryRowContext(ctx, s.q.selectById, itemId).Scan(&found.ID, &found.Timestamp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return item.Item{}, errItemNotFound
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to scan row in Storage.GetItemById() function | Error: %v", traceID, err)
		return item.Item{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to get item, try again later.",
		}
	}

	found.Timestamp = found.Timestamp.UTC()
	return found, nil
}

// buildFilteredQuery returns the enumeration statement and its arguments for filters.
func (s *sqlStorage) buildFilteredQuery(filters *item.ItemList) (string, []interface{}) {
	query := s.q.selectAll
	args := []interface{}{}

	if filters != nil && !filters.IsAllNil {
		if !filters.From.IsZero() {
			args = append(args, filters.From.UTC())
			query += " AND " + s.q.timestampCol + " >= " + s.q.placeholder(len(args))
		}
		if !filters.To.IsZero() {
			args = append(args, filters.To.UTC())
			query += " AND " + s.q.timestampCol + " <= " + s.q.placeholder(len(args))
		}
	}

	query += " ORDER BY " + s.q.timestampCol + " DESC, id ASC"

	if filters != nil && !filters.IsAllNil && filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += " LIMIT " + s.q.placeholder(len(args))
	}
	return query + ";", args
}

func (s *sqlStorage) GetFilteredItems(ctx context.Context, filters *item.ItemList) ([]item.Item, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query, args := s.buildFilteredQuery(filters)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get items from Storage.GetFilteredItems() function | Error: %v", traceID, err)
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to get items, try again later.",
		}
	}

	return s.processItemRows(ctx, rows)
}

func (s *sqlStorage) processItemRows(ctx context.Context, rows *sql.Rows) ([]item.Item, error) {
	traceID := contextutil.TraceIDFromContext(ctx)
	defer rows.Close()

	items := []item.Item{}
	for rows.Next() {
		var it item.Item
		if err := rows.Scan(&it.ID, &it.Timestamp); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan row in Storage.processItemRows() | Error: %v", traceID, err)
			return nil, appErrors.ErrorResponse{
				Code:    appErrors.ErrInternal,
				Message: "Failed to process items, try again later.",
			}
		}
		it.Timestamp = it.Timestamp.UTC()
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate rows in Storage.processItemRows() | Error: %v", traceID, err)
		return nil, appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to process items, try again later.",
		}
	}
	return items, nil
}

func (s *sqlStorage) UpdateItem(ctx context.Context, it item.Item) error {
	traceID := contextutil.TraceIDFromContext(ctx)
	if err := validateItem(&it); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, s.q.update, it.Timestamp.UTC(), it.ID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to update item in Storage.UpdateItem() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to update item, try again later.",
		}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to read affected rows in Storage.UpdateItem() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to update item, try again later.",
		}
	}
	if affected > 0 {
		return nil
	}

	// MySQL reports 0 affected rows when the value did not change.
	var count int
	if err := s.db.QueryRowContext(ctx, s.q.exists, it.ID).Scan(&count); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to check item existence in Storage.UpdateItem() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to update item, try again later.",
		}
	}
	if count == 0 {
		return errItemNotFound
	}
	return nil
}

func (s *sqlStorage) DeleteItem(ctx context.Context, itemId string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	result, err := s.db.ExecContext(ctx, s.q.delete, itemId)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete item in Storage.DeleteItem() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to delete item, try again later.",
		}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to read affected rows in Storage.DeleteItem() function | Error: %v", traceID, err)
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Failed to delete item, try again later.",
		}
	}
	if affected == 0 {
		return errItemNotFound
	}
	return nil
}

func (s *sqlStorage) Close() error {
	return s.db.Close()
}
