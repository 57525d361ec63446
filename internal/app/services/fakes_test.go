package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/terratensor/altnames/internal/core/domain"
	"github.com/terratensor/altnames/internal/core/ports"
)

const (
	toggleOn  = "SET IDENTITY_INSERT AlternateNames ON"
	toggleOff = "SET IDENTITY_INSERT AlternateNames OFF"
)

var testStatements = ports.LoadStatements{
	IdentityInsertOn:  toggleOn,
	IdentityInsertOff: toggleOff,
	Insert:            "INSERT INTO AlternateNames VALUES (...)",
	ParamNames: []string{
		"ID", "GeoNameId", "ISOLanguage", "AlternateName", "IsPreferredName",
		"IsShortName", "IsColloquial", "IsHistoric", "FromDate", "ToDate",
	},
}

// fakeDB records calls to verify loader behavior.
type fakeDB struct {
	callLog []string

	connectErr error
	execErr    map[string]error
	// failInsertAt makes the n-th insert attempt (1-based) fail.
	failInsertAt int

	attempts int
	inserted []int64
	args     [][]any
}

func newFakeDB() *fakeDB {
	return &fakeDB{execErr: make(map[string]error)}
}

func (f *fakeDB) logCall(format string, a ...any) {
	f.callLog = append(f.callLog, fmt.Sprintf(format, a...))
}

func (f *fakeDB) Connect(context.Context) (ports.Session, error) {
	f.logCall("connect")
	if f.connectErr != nil {
		return nil, f.connectErr
	}
	return &fakeSession{db: f}, nil
}

func (f *fakeDB) count(prefix string) int {
	n := 0
	for _, c := range f.callLog {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

type fakeSession struct {
	db *fakeDB
}

func (s *fakeSession) Exec(_ context.Context, query string) error {
	s.db.logCall("exec %s", query)
	return s.db.execErr[query]
}

func (s *fakeSession) Prepare(context.Context, string) (ports.Statement, error) {
	s.db.logCall("prepare")
	return &fakeStmt{db: s.db}, nil
}

func (s *fakeSession) Close() error {
	s.db.logCall("close")
	return nil
}

type fakeStmt struct {
	db *fakeDB
}

func (st *fakeStmt) Exec(_ context.Context, args ...any) error {
	db := st.db
	db.attempts++

	// Набор параметров переиспользуется, поэтому копируем
	snapshot := make([]any, len(args))
	copy(snapshot, args)
	db.args = append(db.args, snapshot)

	id := argValue(args[0]).(int64)
	db.logCall("insert %d", id)

	if db.attempts == db.failInsertAt {
		return &domain.DatabaseError{Op: "insert", Code: "2627", Err: errors.New("violation of PRIMARY KEY constraint")}
	}
	db.inserted = append(db.inserted, id)
	return nil
}

func (st *fakeStmt) Close() error {
	st.db.logCall("close stmt")
	return nil
}

func argValue(a any) any {
	if named, ok := a.(sql.NamedArg); ok {
		return named.Value
	}
	return a
}

type fakeDownloader struct {
	calls int
	err   error
	// write is extracted into destDir when set.
	write map[string]string
}

func (d *fakeDownloader) Download(_ context.Context, _ string, destDir string) error {
	d.calls++
	if d.err != nil {
		return d.err
	}
	for name, body := range d.write {
		if err := os.WriteFile(filepath.Join(destDir, name), []byte(body), 0644); err != nil {
			return err
		}
	}
	return nil
}

type fakeFailedWriter struct {
	ids    []int64
	closed bool
}

func (w *fakeFailedWriter) WriteFailed(rec *domain.AlternateName, _ error) error {
	w.ids = append(w.ids, rec.ID)
	return nil
}

func (w *fakeFailedWriter) Close() error {
	w.closed = true
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func records(ids ...int64) []*domain.AlternateName {
	recs := make([]*domain.AlternateName, len(ids))
	for i, id := range ids {
		recs[i] = &domain.AlternateName{ID: id, GeonameID: id * 100, ISOLanguage: "en", Name: fmt.Sprintf("name %d", id)}
	}
	return recs
}

func seqOf(recs []*domain.AlternateName) iter.Seq[*domain.AlternateName] {
	return func(yield func(*domain.AlternateName) bool) {
		for _, r := range recs {
			if !yield(r) {
				return
			}
		}
	}
}

func newTestLoader(t *testing.T, db *fakeDB, progress ProgressReporter, opts LoaderOptions) *BulkLoader {
	t.Helper()
	l, err := NewBulkLoader(db, testStatements, progress, discardLogger(), opts)
	require.NoError(t, err)
	return l
}
