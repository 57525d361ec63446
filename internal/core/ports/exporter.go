package ports

import "github.com/terratensor/altnames/internal/core/domain"

// FailedRowWriter records rows that could not be inserted.
type FailedRowWriter interface {
	WriteFailed(rec *domain.AlternateName, cause error) error
	Close() error
}
