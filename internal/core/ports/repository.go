package ports

import (
	"context"
)

// Connector opens a database session for the load phase.
type Connector interface {
	Connect(ctx context.Context) (Session, error)
}

// Session is a single pinned database connection.
// Session-scoped settings (SET IDENTITY_INSERT) live as long as the session.
type Session interface {
	// Exec runs a statement without parameters.
	Exec(ctx context.Context, query string) error
	// Prepare compiles a parameterized statement for repeated execution.
	Prepare(ctx context.Context, query string) (Statement, error)
	Close() error
}

// Statement is a prepared statement bound to a Session.
type Statement interface {
	Exec(ctx context.Context, args ...any) error
	Close() error
}

// Counter reports how many rows a table holds.
type Counter interface {
	Count(ctx context.Context, table string) (int64, error)
}
