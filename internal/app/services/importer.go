package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/terratensor/altnames/internal/adapters/exporters"
	"github.com/terratensor/altnames/internal/app/pipeline"
	"github.com/terratensor/altnames/internal/config"
	"github.com/terratensor/altnames/internal/core/domain"
	"github.com/terratensor/altnames/internal/core/ports"
)

// Summary describes one populate run.
type Summary struct {
	Parse    pipeline.ParseStats
	Skipped  int64
	Load     LoadStats
	Duration time.Duration
}

// Importer runs provision → parse → filter → load for alternate names.
type Importer struct {
	cfg         *config.Config
	log         *slog.Logger
	out         io.Writer
	provisioner *SourceProvisioner
	stream      *pipeline.RecordStream
	connector   ports.Connector
	statements  ports.LoadStatements
}

func NewImporter(
	cfg *config.Config,
	log *slog.Logger,
	out io.Writer,
	downloader ports.Downloader,
	connector ports.Connector,
	statements ports.StatementBuilder,
) *Importer {
	parser := pipeline.NewAlternateNameParser(log, out)
	return &Importer{
		cfg:         cfg,
		log:         log,
		out:         out,
		provisioner: NewSourceProvisioner(downloader, config.AlternateNamesArchive, log),
		stream:      pipeline.NewRecordStream(parser, log),
		connector:   connector,
		statements:  statements.LoadStatements(cfg.Table),
	}
}

// Fetch only makes sure the source file is present.
func (i *Importer) Fetch(ctx context.Context) (string, error) {
	return i.provisioner.Ensure(ctx, i.cfg.AlternateNamesPath())
}

// Run populates the alternate names table.
func (i *Importer) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	var summary Summary

	i.log.Info("Getting ready to populate alternate names...")

	path, err := i.Fetch(ctx)
	if err != nil {
		return summary, err
	}

	records, parseStats, err := i.stream.Read(ctx, path)
	summary.Parse = parseStats
	if err != nil {
		return summary, errors.Wrap(err, "read alternate names")
	}

	allow := pipeline.ParseAllowSet(i.cfg.LanguageCodes)
	if len(allow) > 0 {
		i.log.Info("filtering by language", slog.Int("languages", len(allow)))
	}
	filtered := pipeline.Filter(records.All(), allow, func(*domain.AlternateName) {
		summary.Skipped++
	})

	opts := LoaderOptions{ContinueOnError: i.cfg.ContinueOnError}
	if i.cfg.FailedRowsPath != "" {
		failed, err := exporters.CreateFileWriter(i.cfg.FailedRowsPath)
		if err != nil {
			return summary, err
		}
		defer func() {
			if err := failed.Close(); err != nil {
				i.log.Warn("close failed rows file", slog.String("error", err.Error()))
			}
		}()
		opts.Failed = failed
	}

	progress := NewProgressReporter(i.cfg.Progress, i.out, int64(records.Len()))
	loader, err := NewBulkLoader(i.connector, i.statements, progress, i.log, opts)
	if err != nil {
		return summary, err
	}

	summary.Load, err = loader.Load(ctx, filtered)
	summary.Duration = time.Since(start)
	if err != nil {
		return summary, err
	}

	i.log.Info("alternate names populated",
		slog.Int64("parsed", summary.Parse.Records),
		slog.Int64("skipped", summary.Skipped),
		slog.Int64("inserted", summary.Load.Inserted),
		slog.Int64("failed", summary.Load.Failed),
		slog.Duration("duration", summary.Duration))

	return summary, nil
}
