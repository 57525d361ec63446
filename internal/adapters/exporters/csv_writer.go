package exporters

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/terratensor/altnames/internal/core/domain"
	"github.com/terratensor/altnames/internal/core/ports"
)

var _ ports.FailedRowWriter = (*CSVWriter)(nil)

// failedColumns is the header of a failed-rows file.
var failedColumns = []string{
	"id",
	"geonameid",
	"isolanguage",
	"alternatename",
	"error_code",
	"error",
}

// CSVWriter writes rows that failed to insert, one CSV line each.
type CSVWriter struct {
	writer *csv.Writer
}

// NewCSVWriter writes the header immediately.
func NewCSVWriter(w io.Writer) (*CSVWriter, error) {
	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(failedColumns); err != nil {
		return nil, errors.Wrap(err, "write header")
	}
	return &CSVWriter{writer: csvWriter}, nil
}

func (w *CSVWriter) WriteFailed(rec *domain.AlternateName, cause error) error {
	code := ""
	var dbErr *domain.DatabaseError
	if errors.As(cause, &dbErr) {
		code = dbErr.Code
	}

	row := []string{
		strconv.FormatInt(rec.ID, 10),
		strconv.FormatInt(rec.GeonameID, 10),
		rec.ISOLanguage,
		rec.Name,
		code,
		cause.Error(),
	}
	if err := w.writer.Write(row); err != nil {
		return err
	}
	// Сбрасываем сразу: при падении процесса файл должен быть полным
	w.writer.Flush()
	return w.writer.Error()
}

func (w *CSVWriter) Close() error {
	w.writer.Flush()
	return w.writer.Error()
}
