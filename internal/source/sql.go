package source

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mattn/go-sqlite3"
)

// IsPostgresURL reports whether dsn names a PostgreSQL server rather than
// a SQLite file.
func IsPostgresURL(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Query runs a read query against dsn and loads the result. PostgreSQL
// URLs go through pgx; anything else is opened as a SQLite database
// file (":memory:" included). Both run on read-only connections, so a
// write hidden in a multi-statement query fails instead of committing.
func Query(ctx context.Context, dsn, query string) (*Table, error) {
	if IsPostgresURL(dsn) {
		return QueryPostgres(ctx, dsn, query)
	}
	return QuerySQLite(ctx, dsn, query)
}

// ConnectLite opens a single-connection pool for one-off reads.
func ConnectLite(ctx context.Context, url string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("invalid connection URL: %w", err)
	}

	config.MaxConns = 1
	config.MinConns = 0
	config.MaxConnLifetime = time.Minute
	config.MaxConnIdleTime = 10 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// QueryPostgres runs query on a PostgreSQL server inside a read-only
// transaction that is always rolled back.
func QueryPostgres(ctx context.Context, url, query string) (*Table, error) {
	pool, err := ConnectLite(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	defer pool.Close()

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("begin read-only transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	names := make([]string, len(fields))
	for i, fd := range fields {
		names[i] = fd.Name
	}

	t := &Table{Columns: uniqueColumns(names)}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		rec := make(Record, len(values))
		for i, v := range values {
			rec[i] = normalize(v)
		}
		t.Records = append(t.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// QuerySQLite opens a SQLite database read-only and runs query on it. A
// missing file is an error rather than a new empty database.
func QuerySQLite(ctx context.Context, path, query string) (*Table, error) {
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
	}
	db, err := sql.Open("sqlite3", sqliteReadOnly(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()
	return QueryDB(ctx, db, query)
}

// sqliteReadOnly sets the query_only pragma on every connection opened
// from dsn.
func sqliteReadOnly(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_query_only=true"
}

// QueryDB runs query on an open database/sql handle.
func QueryDB(ctx context.Context, db *sql.DB, query string, args ...any) (*Table, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	t := &Table{Columns: uniqueColumns(names)}
	for rows.Next() {
		values := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rec := make(Record, len(values))
		for i, v := range values {
			rec[i] = normalize(v)
		}
		t.Records = append(t.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return t, nil
}
