package services

import (
	"context"
	"database/sql"
	"iter"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/terratensor/altnames/internal/core/domain"
	"github.com/terratensor/altnames/internal/core/ports"
)

// insertColumns is the number of bound parameters of the insert statement.
const insertColumns = 10

// LoaderOptions tune how the loader reacts to failed rows.
type LoaderOptions struct {
	// ContinueOnError logs a failed row and moves on instead of aborting.
	ContinueOnError bool
	// Failed receives failed rows when ContinueOnError is set. Optional.
	Failed ports.FailedRowWriter
}

// LoadStats counts what happened to the rows handed to Load.
type LoadStats struct {
	Inserted int64
	Failed   int64
}

// BulkLoader inserts alternate names one row at a time, keeping their IDs.
type BulkLoader struct {
	connector  ports.Connector
	statements ports.LoadStatements
	progress   ProgressReporter
	log        *slog.Logger
	opts       LoaderOptions
}

func NewBulkLoader(
	connector ports.Connector,
	statements ports.LoadStatements,
	progress ProgressReporter,
	log *slog.Logger,
	opts LoaderOptions,
) (*BulkLoader, error) {
	if n := len(statements.ParamNames); n != 0 && n != insertColumns {
		return nil, errors.Errorf("insert statement has %d parameter names, want %d", n, insertColumns)
	}
	if progress == nil {
		progress = nopReporter{}
	}
	return &BulkLoader{
		connector:  connector,
		statements: statements,
		progress:   progress,
		log:        log,
		opts:       opts,
	}, nil
}

// Load writes records in sequence order. The connection is closed on every
// path. Identity-insert toggles are best effort. Unless ContinueOnError is
// set, the first failed insert stops the load with an *domain.InsertError and
// the toggle is left on.
func (l *BulkLoader) Load(ctx context.Context, records iter.Seq[*domain.AlternateName]) (LoadStats, error) {
	var stats LoadStats

	sess, err := l.connector.Connect(ctx)
	if err != nil {
		return stats, errors.Wrap(err, "open connection")
	}
	defer func() {
		if err := sess.Close(); err != nil {
			l.log.Warn("close connection", slog.String("error", err.Error()))
		}
	}()

	l.log.Info("Populating alternate names...")

	l.warnToggle(l.setIdentityInsert(ctx, sess, l.statements.IdentityInsertOn))

	stmt, err := sess.Prepare(ctx, l.statements.Insert)
	if err != nil {
		return stats, errors.Wrap(err, "prepare insert")
	}
	defer stmt.Close()

	params := newInsertParams(l.statements.ParamNames)
	for rec := range records {
		params.bind(rec)

		if err := stmt.Exec(ctx, params.args...); err != nil {
			if !l.opts.ContinueOnError {
				return stats, &domain.InsertError{ID: rec.ID, Err: err}
			}
			stats.Failed++
			l.recordFailure(rec, err)
			continue
		}

		stats.Inserted++
		l.progress.Inserted(rec.ID)
	}
	l.progress.Done()

	l.warnToggle(l.setIdentityInsert(ctx, sess, l.statements.IdentityInsertOff))

	return stats, nil
}

// setIdentityInsert runs a toggle statement; an empty statement is a no-op.
func (l *BulkLoader) setIdentityInsert(ctx context.Context, sess ports.Session, query string) error {
	if query == "" {
		return nil
	}
	return errors.Wrapf(sess.Exec(ctx, query), "%s", query)
}

// warnToggle logs a failed toggle and drops it; the load goes on without it.
func (l *BulkLoader) warnToggle(err error) {
	if err == nil {
		return
	}
	l.log.Warn("SQL exception occurred",
		slog.String("error_code", errorCode(err)),
		slog.String("error", err.Error()))
}

func (l *BulkLoader) recordFailure(rec *domain.AlternateName, err error) {
	l.log.Warn("insert failed, continuing",
		slog.String("record", rec.String()),
		slog.String("error_code", errorCode(err)),
		slog.String("error", err.Error()))

	if l.opts.Failed == nil {
		return
	}
	if werr := l.opts.Failed.WriteFailed(rec, err); werr != nil {
		l.log.Warn("write failed row", slog.Int64("id", rec.ID), slog.String("error", werr.Error()))
	}
}

// errorCode extracts the vendor code of a wrapped *domain.DatabaseError.
func errorCode(err error) string {
	var dbErr *domain.DatabaseError
	if errors.As(err, &dbErr) {
		return dbErr.Code
	}
	return ""
}

// insertParams is the bound parameter set of the insert statement. The same
// slots are overwritten for every row; nothing is allocated per row.
type insertParams struct {
	names  []string
	values [insertColumns]any
	named  [insertColumns]sql.NamedArg
	args   []any
}

func newInsertParams(names []string) *insertParams {
	p := &insertParams{names: names, args: make([]any, insertColumns)}
	for i, name := range names {
		p.named[i].Name = name
	}
	return p
}

func (p *insertParams) bind(rec *domain.AlternateName) {
	p.values = [insertColumns]any{
		rec.ID,
		rec.GeonameID,
		nullString(rec.ISOLanguage),
		nullString(rec.Name),
		rec.IsPreferredName,
		rec.IsShortName,
		rec.IsColloquial,
		rec.IsHistoric,
		nullTime(rec.From),
		nullTime(rec.To),
	}

	for i, v := range p.values {
		if p.names == nil {
			p.args[i] = v
			continue
		}
		p.named[i].Value = v
		p.args[i] = p.named[i]
	}
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
