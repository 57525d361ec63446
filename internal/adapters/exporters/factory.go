package exporters

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/terratensor/altnames/internal/core/ports"
)

// CreateFileWriter создает CSV файл для строк, которые не удалось вставить
func CreateFileWriter(filePath string) (ports.FailedRowWriter, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, errors.Wrap(err, "create failed rows dir")
	}

	file, err := os.Create(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "create failed rows file")
	}

	writer, err := NewCSVWriter(file)
	if err != nil {
		file.Close()
		return nil, err
	}

	// Возвращаем composite writer который закроет и файл
	return &fileWriter{
		CSVWriter: writer,
		file:      file,
	}, nil
}

type fileWriter struct {
	*CSVWriter
	file *os.File
}

func (w *fileWriter) Close() error {
	if err := w.CSVWriter.Close(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
