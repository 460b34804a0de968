package database

import (
	"context"
	"errors"
	"fmt"
)

// Standard errors for database operations.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConnection indicates a failure to connect to or talk to the database.
	ErrConnection = errors.New("database connection error")

	// ErrQuery indicates a statement failed (syntax error, constraint, ...).
	ErrQuery = errors.New("query error")
)

// Result is the outcome of one statement of a query.
type Result struct {
	Status string
	Result interface{}
}

// Database defines the operations the store adapter needs.
type Database interface {
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query executes a query and returns one Result per statement.
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]Result, error)

	// QueryOne returns the first record of the first statement.
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)

	// Execute runs a query and discards its results.
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
}

// Config holds SurrealDB connection settings.
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}

// Endpoint returns the websocket endpoint.
func (c Config) Endpoint() string {
	return fmt.Sprintf("ws://%s:%s", c.Host, c.Port)
}

// FirstRecord unwraps the first record of the first statement result.
func FirstRecord(results []Result) (interface{}, error) {
	if len(results) == 0 {
		return nil, ErrNotFound
	}
	switch rows := results[0].Result.(type) {
	case []interface{}:
		if len(rows) == 0 {
			return nil, ErrNotFound
		}
		return rows[0], nil
	case nil:
		return nil, ErrNotFound
	default:
		return rows, nil
	}
}
