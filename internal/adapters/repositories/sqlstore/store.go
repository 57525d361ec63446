package sqlstore

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/microsoft/go-mssqldb"

	"github.com/terratensor/altnames/internal/core/ports"
)

var (
	_ ports.Connector = (*Store)(nil)
	_ ports.Counter   = (*Store)(nil)
)

// Store opens sessions against one database.
type Store struct {
	dialect *Dialect
	dsn     string
}

func New(dialect *Dialect, dsn string) *Store {
	return &Store{dialect: dialect, dsn: dsn}
}

// Dialect returns the store's dialect.
func (s *Store) Dialect() *Dialect {
	return s.dialect
}

func (s *Store) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open(s.dialect.Driver, s.dsn)
	if err != nil {
		return nil, wrapError("open connection", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, wrapError("ping database", err)
	}
	return db, nil
}

// Connect opens the database and pins one connection, so session settings
// such as IDENTITY_INSERT apply to every statement of the session.
func (s *Store) Connect(ctx context.Context) (ports.Session, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		return nil, wrapError("acquire connection", err)
	}

	return &session{db: db, conn: conn}, nil
}

// Count returns the number of rows in table.
func (s *Store) Count(ctx context.Context, table string) (int64, error) {
	db, err := s.open(ctx)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	var n int64
	if err := db.QueryRowContext(ctx, s.dialect.CountSQL(table)).Scan(&n); err != nil {
		return 0, wrapError("count "+table, err)
	}
	return n, nil
}

type session struct {
	db   *sql.DB
	conn *sql.Conn
}

func (s *session) Exec(ctx context.Context, query string) error {
	if _, err := s.conn.ExecContext(ctx, query); err != nil {
		return wrapError("exec", err)
	}
	return nil
}

func (s *session) Prepare(ctx context.Context, query string) (ports.Statement, error) {
	stmt, err := s.conn.PrepareContext(ctx, query)
	if err != nil {
		return nil, wrapError("prepare", err)
	}
	return &statement{stmt: stmt}, nil
}

func (s *session) Close() error {
	connErr := s.conn.Close()
	if err := s.db.Close(); err != nil {
		return wrapError("close database", err)
	}
	return wrapError("close connection", connErr)
}

type statement struct {
	stmt *sql.Stmt
}

func (st *statement) Exec(ctx context.Context, args ...any) error {
	if _, err := st.stmt.ExecContext(ctx, args...); err != nil {
		return wrapError("insert", err)
	}
	return nil
}

func (st *statement) Close() error {
	return wrapError("close statement", st.stmt.Close())
}
