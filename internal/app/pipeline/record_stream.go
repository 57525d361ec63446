package pipeline

import (
	"cmp"
	"context"
	"iter"
	"log/slog"
	"slices"

	"github.com/terratensor/altnames/internal/core/domain"
)

// RecordStream turns alternateNamesV2.txt into records ordered by ID.
type RecordStream struct {
	parser *AlternateNameParser
	log    *slog.Logger
}

func NewRecordStream(parser *AlternateNameParser, log *slog.Logger) *RecordStream {
	return &RecordStream{parser: parser, log: log}
}

// Read parses path and sorts the records by ID. Records sharing an ID keep
// their file order.
func (s *RecordStream) Read(ctx context.Context, path string) (*Records, ParseStats, error) {
	recs, stats, err := s.parser.ParseFile(ctx, path)
	if err != nil {
		return nil, stats, err
	}

	slices.SortStableFunc(recs, func(a, b *domain.AlternateName) int {
		return cmp.Compare(a.ID, b.ID)
	})

	s.log.Info("alternate names sorted", slog.Int("records", len(recs)))
	return &Records{items: recs}, stats, nil
}

// Records is a single-pass sequence of parsed records.
type Records struct {
	items    []*domain.AlternateName
	consumed bool
}

// NewRecords wraps already ordered records.
func NewRecords(items []*domain.AlternateName) *Records {
	return &Records{items: items}
}

// Len is the number of records not yet consumed.
func (r *Records) Len() int {
	if r.consumed {
		return 0
	}
	return len(r.items)
}

// All yields the records in order. The sequence can be ranged over once;
// yielded records are released as iteration advances.
func (r *Records) All() iter.Seq[*domain.AlternateName] {
	return func(yield func(*domain.AlternateName) bool) {
		if r.consumed {
			return
		}
		r.consumed = true

		items := r.items
		r.items = nil
		for i, rec := range items {
			items[i] = nil
			if !yield(rec) {
				return
			}
		}
	}
}
