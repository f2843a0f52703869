package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"mercator-hq/unifiedllm/pkg/history"
)

// MemoryPath opens a private in-memory SQLite database.
const MemoryPath = ":memory:"

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path, or MemoryPath.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 4
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 2
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "history.db",
		MaxOpenConns: 4,
		MaxIdleConns: 2,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore implements history.Store using the pure-Go modernc SQLite
// driver.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore opens (creating if needed) the database and its schema.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Path == "" {
		return nil, history.NewStorageError("sqlite", "open", errors.New("database path is required"))
	}

	logger := slog.Default().With("component", "history.storage.sqlite")

	inMemory := config.Path == MemoryPath
	if !inMemory {
		if dir := filepath.Dir(config.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, history.NewStorageError("sqlite", "create_dir", err)
			}
		}
	}

	db, err := sql.Open("sqlite", sqliteDSN(config, inMemory))
	if err != nil {
		return nil, history.NewStorageError("sqlite", "open", err)
	}

	// Each connection to :memory: is its own database.
	if inMemory {
		db.SetMaxOpenConns(1)
	} else {
		if config.MaxOpenConns > 0 {
			db.SetMaxOpenConns(config.MaxOpenConns)
		}
		if config.MaxIdleConns > 0 {
			db.SetMaxIdleConns(config.MaxIdleConns)
		}
	}

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("SQLite history store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode && !inMemory,
	)

	return s, nil
}

// sqliteDSN sets pragmas through the DSN so every pooled connection gets
// them, not only the one that ran the statement.
func sqliteDSN(config *SQLiteConfig, inMemory bool) string {
	pragmas := []string{fmt.Sprintf("_pragma=busy_timeout(%d)", config.BusyTimeout.Milliseconds())}
	if config.WALMode && !inMemory {
		pragmas = append(pragmas, "_pragma=journal_mode(WAL)")
	}
	return config.Path + "?" + strings.Join(pragmas, "&")
}

// initialize creates the schema and verifies its version.
func (s *SQLiteStore) initialize() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return history.NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return history.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return history.NewStorageError("sqlite", "get_schema_version", err)
	}

	if version != SchemaVersion {
		return history.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Save persists a record.
func (s *SQLiteStore) Save(ctx context.Context, record *history.Record) error {
	query := `INSERT INTO calls (` + callColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		record.ID, record.Timestamp.UTC().UnixNano(),
		record.Provider, record.Model, record.MessageCount, record.Prompt,
		record.Outcome, record.StatusCode, record.Latency.Milliseconds(),
		nullString(record.Response), nullString(record.RequestID),
		nullInt(record.PromptTokens), nullInt(record.CompletionTokens), nullInt(record.TotalTokens),
		nullString(record.Error),
	)
	if err != nil {
		return history.NewStorageError("sqlite", "save", err)
	}

	return nil
}

// Query retrieves records matching the filters, newest first.
func (s *SQLiteStore) Query(ctx context.Context, query *history.Query) ([]*history.Record, error) {
	whereClause, args := buildWhereClause(query)

	sqlQuery := "SELECT " + callColumns + " FROM calls"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}
	sqlQuery += " ORDER BY created_at DESC, id DESC"

	if query != nil && (query.Limit > 0 || query.Offset > 0) {
		limit := -1
		if query.Limit > 0 {
			limit = query.Limit
		}
		sqlQuery += fmt.Sprintf(" LIMIT %d", limit)
		if query.Offset > 0 {
			sqlQuery += fmt.Sprintf(" OFFSET %d", query.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, history.NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	records := []*history.Record{}
	for rows.Next() {
		record, err := scanRow(rows)
		if err != nil {
			return nil, history.NewStorageError("sqlite", "scan", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, history.NewStorageError("sqlite", "query", err)
	}

	return records, nil
}

// Count returns the number of records matching the filters.
func (s *SQLiteStore) Count(ctx context.Context, query *history.Query) (int64, error) {
	whereClause, args := buildWhereClause(query)

	sqlQuery := "SELECT COUNT(*) FROM calls"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, history.NewStorageError("sqlite", "count", err)
	}

	return count, nil
}

// Delete removes records matching the filters.
func (s *SQLiteStore) Delete(ctx context.Context, query *history.Query) (int64, error) {
	whereClause, args := buildWhereClause(query)

	sqlQuery := "DELETE FROM calls"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	result, err := s.db.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return 0, history.NewStorageError("sqlite", "delete", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, history.NewStorageError("sqlite", "delete", err)
	}

	return count, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return history.NewStorageError("sqlite", "close", err)
	}

	s.logger.Debug("SQLite history store closed")
	return nil
}

// buildWhereClause builds a SQL WHERE clause (without the keyword) and its
// arguments from the query filters.
func buildWhereClause(query *history.Query) (string, []any) {
	if query == nil {
		return "", nil
	}

	var conditions []string
	var args []any

	if query.Provider != "" {
		conditions = append(conditions, "provider = ?")
		args = append(args, query.Provider)
	}
	if query.Model != "" {
		conditions = append(conditions, "model = ?")
		args = append(args, query.Model)
	}
	if query.Outcome != "" {
		conditions = append(conditions, "outcome = ?")
		args = append(args, query.Outcome)
	}
	if query.Since != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, query.Since.UTC().UnixNano())
	}
	if query.Before != nil {
		conditions = append(conditions, "created_at < ?")
		args = append(args, query.Before.UTC().UnixNano())
	}
	if len(query.IDs) > 0 {
		placeholders := make([]string, len(query.IDs))
		for i, id := range query.IDs {
			placeholders[i] = "?"
			args = append(args, id)
		}
		conditions = append(conditions, "id IN ("+strings.Join(placeholders, ", ")+")")
	}

	return strings.Join(conditions, " AND "), args
}

// scanRow scans a database row into a Record.
func scanRow(rows *sql.Rows) (*history.Record, error) {
	var (
		record                                      history.Record
		createdAt, latencyMS                        int64
		statusCode                                  sql.NullInt64
		prompt, response, requestID, errorText      sql.NullString
		promptTokens, completionTokens, totalTokens sql.NullInt64
	)

	err := rows.Scan(
		&record.ID, &createdAt,
		&record.Provider, &record.Model, &record.MessageCount, &prompt,
		&record.Outcome, &statusCode, &latencyMS, &response, &requestID,
		&promptTokens, &completionTokens, &totalTokens,
		&errorText,
	)
	if err != nil {
		return nil, err
	}

	record.Timestamp = time.Unix(0, createdAt).UTC()
	record.Latency = time.Duration(latencyMS) * time.Millisecond
	record.StatusCode = int(statusCode.Int64)
	record.Prompt = prompt.String
	record.Response = response.String
	record.RequestID = requestID.String
	record.Error = errorText.String
	record.PromptTokens = intPtr(promptTokens)
	record.CompletionTokens = intPtr(completionTokens)
	record.TotalTokens = intPtr(totalTokens)

	return &record, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
