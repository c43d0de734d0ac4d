package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"voxdesk/internal/logger"
)

const pingMaxElapsed = 20 * time.Second

// DB wraps the sql.DB connection
type DB struct {
	Conn   *sql.DB
	Driver string
}

// New opens the database named by dsn, waits for it to answer and runs
// migrations. postgres:// and postgresql:// DSNs use lib/pq, anything
// else is treated as a sqlite file path.
func New(ctx context.Context, dsn string, log *logger.Logger) (*DB, error) {
	driver := DriverFor(dsn)
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ping(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{Conn: conn, Driver: driver}

	if err := db.runMigrations(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Infow("database initialized", "driver", driver)
	return db, nil
}

// DriverFor picks the sql driver name for dsn
func DriverFor(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "postgres"
	}
	return "sqlite3"
}

func ping(ctx context.Context, conn *sql.DB) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 500 * time.Millisecond
	exp.MaxInterval = 5 * time.Second

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, conn.PingContext(ctx)
	}, backoff.WithBackOff(exp), backoff.WithMaxElapsedTime(pingMaxElapsed))
	return err
}

func (db *DB) runMigrations(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS contacts (
    id TEXT PRIMARY KEY,
    sub_account_id TEXT NOT NULL,
    created_by TEXT NOT NULL DEFAULT '',
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    phone TEXT NOT NULL DEFAULT '',
    company TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'new',
    lead_source TEXT NOT NULL DEFAULT '',
    score DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contacts_tenant ON contacts(sub_account_id);
CREATE INDEX IF NOT EXISTS idx_contacts_tenant_email ON contacts(sub_account_id, email);
`
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema: %w", err)
		}
	}
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.Conn.Close()
}
