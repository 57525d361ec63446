package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/terratensor/altnames/internal/core/domain"
)

// minFields is id, geonameid, isolanguage, alternate name.
const minFields = 4

// ParseStats summarises one pass over alternateNamesV2.txt.
type ParseStats struct {
	Lines           int64
	Records         int64
	Malformed       int64
	UnparsedPeriods int64
}

// AlternateNameParser handles parsing of alternateNamesV2.txt
type AlternateNameParser struct {
	*BaseParser
	log *slog.Logger
}

func NewAlternateNameParser(log *slog.Logger, out io.Writer) *AlternateNameParser {
	return &AlternateNameParser{
		BaseParser: NewBaseParser(out),
		log:        log,
	}
}

// ParseFile reads every record of the file in file order.
// Malformed lines are skipped and counted.
func (p *AlternateNameParser) ParseFile(ctx context.Context, filePath string) ([]*domain.AlternateName, ParseStats, error) {
	var stats ParseStats

	file, err := os.Open(filePath)
	if err != nil {
		return nil, stats, errors.Wrap(err, "open file")
	}
	defer file.Close()

	p.log.Info("parsing alternate names file", slog.String("file", filepath.Base(filePath)))

	bar, err := p.ProgressBar(file, fmt.Sprintf("Parsing %s", filepath.Base(filePath)))
	if err != nil {
		return nil, stats, err
	}

	// Читаем файл построчно, CSV reader ломается на кавычках в именах
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var records []*domain.AlternateName
	for scanner.Scan() {
		line := scanner.Text()
		stats.Lines++
		_ = bar.Add(len(line) + 1)
		line = strings.TrimSuffix(line, "\r")

		if stats.Lines%100000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
		}

		// Пропускаем пустые строки и комментарии
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rec, periodsOK, err := p.parseLine(line)
		if err != nil {
			stats.Malformed++
			p.log.Warn("skipping malformed line",
				slog.Int64("line", stats.Lines),
				slog.String("error", err.Error()))
			continue
		}
		if !periodsOK {
			stats.UnparsedPeriods++
		}

		records = append(records, rec)
		stats.Records++
	}

	if err := scanner.Err(); err != nil {
		return nil, stats, errors.Wrap(err, "read file")
	}
	_ = bar.Finish()

	if stats.Malformed > 0 || stats.UnparsedPeriods > 0 {
		p.log.Warn("alternate names parsed with problems",
			slog.Int64("malformed", stats.Malformed),
			slog.Int64("unparsed_periods", stats.UnparsedPeriods))
	}

	return records, stats, nil
}

// parseLine splits one tab separated line into an AlternateName.
// Columns: id, geonameid, isolanguage, alternate name, isPreferredName,
// isShortName, isColloquial, isHistoric, from, to.
func (p *AlternateNameParser) parseLine(line string) (*domain.AlternateName, bool, error) {
	// Разделяем строку вручную, сохраняя пустые поля
	fields := strings.Split(line, "\t")
	if len(fields) < minFields {
		return nil, false, errors.Errorf("expected at least %d fields, got %d", minFields, len(fields))
	}

	id, err := p.ParseID(fields[0])
	if err != nil {
		return nil, false, errors.Wrapf(err, "invalid id %q", fields[0])
	}

	geonameID, err := p.ParseID(fields[1])
	if err != nil {
		return nil, false, errors.Wrapf(err, "invalid geonameid %q", fields[1])
	}

	from, fromOK := p.ParsePeriod(safeField(fields, 8))
	to, toOK := p.ParsePeriod(safeField(fields, 9))

	return &domain.AlternateName{
		ID:              id,
		GeonameID:       geonameID,
		ISOLanguage:     strings.TrimSpace(safeField(fields, 2)),
		Name:            safeField(fields, 3),
		IsPreferredName: p.ParseFlag(safeField(fields, 4)),
		IsShortName:     p.ParseFlag(safeField(fields, 5)),
		IsColloquial:    p.ParseFlag(safeField(fields, 6)),
		IsHistoric:      p.ParseFlag(safeField(fields, 7)),
		From:            from,
		To:              to,
	}, fromOK && toOK, nil
}
