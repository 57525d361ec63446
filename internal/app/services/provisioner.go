package services

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/terratensor/altnames/internal/core/domain"
	"github.com/terratensor/altnames/internal/core/ports"
)

// SourceProvisioner makes sure the raw dump is on disk before parsing.
type SourceProvisioner struct {
	downloader ports.Downloader
	archive    string
	log        *slog.Logger
}

func NewSourceProvisioner(downloader ports.Downloader, archive string, log *slog.Logger) *SourceProvisioner {
	return &SourceProvisioner{downloader: downloader, archive: archive, log: log}
}

// Ensure returns path, downloading and extracting the archive into its
// directory first when the file is absent. Every failure is an
// *domain.AcquisitionError.
func (p *SourceProvisioner) Ensure(ctx context.Context, path string) (string, error) {
	dataDir, fileName := filepath.Split(path)
	if dataDir == "" {
		dataDir = "."
	}

	_, err := os.Stat(path)
	if err == nil {
		return path, nil
	}
	if !os.IsNotExist(err) {
		return "", &domain.AcquisitionError{Path: path, Err: err}
	}

	p.log.Info("Downloading alternate names data...", slog.String("archive", p.archive))
	if err := p.downloader.Download(ctx, p.archive, dataDir); err != nil {
		return "", &domain.AcquisitionError{Path: path, Err: err}
	}

	if _, err := os.Stat(path); err != nil {
		return "", &domain.AcquisitionError{
			Path: path,
			Err:  errors.Wrapf(err, "%s missing after extracting %s", fileName, p.archive),
		}
	}
	return path, nil
}
