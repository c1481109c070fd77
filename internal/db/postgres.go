package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"
)

type PostgresDB struct {
	Conn *sql.DB
}

// NewPostgresDB resolves the connection descriptor, opens a lib/pq handle and
// pings it.
func NewPostgresDB(ctx context.Context, databaseURL string) (*PostgresDB, error) {
	info, err := ParseDatabaseURL(databaseURL)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open("postgres", info.DSN())
	if err != nil {
		return nil, &ConnectionError{Target: info.String(), Err: err}
	}

	// Test connection
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, &ConnectionError{Target: info.String(), Err: err}
	}

	log.Printf("✅ Connected to PostgreSQL at %s", info)
	return &PostgresDB{Conn: conn}, nil
}

func (db *PostgresDB) Ping(ctx context.Context) error {
	if err := db.Conn.PingContext(ctx); err != nil {
		return &ConnectionError{Err: err}
	}
	return nil
}

func (db *PostgresDB) Close() error {
	return db.Conn.Close()
}

// ConnectionError is returned when the database cannot be reached.
type ConnectionError struct {
	Target string
	Err    error
}

func (e *ConnectionError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("failed to connect to database: %v", e.Err)
	}
	return fmt.Sprintf("failed to connect to database %s: %v", e.Target, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// QueryError wraps a failed statement with the operation that issued it.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
