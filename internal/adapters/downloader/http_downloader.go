package downloader

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"

	"github.com/terratensor/altnames/internal/config"
	"github.com/terratensor/altnames/internal/core/ports"
)

var _ ports.Downloader = (*Downloader)(nil)

// Downloader fetches GeoNames dump archives over HTTP and unpacks them.
type Downloader struct {
	client  *http.Client
	baseURL string
	log     *slog.Logger
	out     io.Writer
}

func New(cfg *config.Config, log *slog.Logger) *Downloader {
	return &Downloader{
		client: &http.Client{
			Timeout: cfg.DownloadTimeout,
		},
		baseURL: cfg.GeonamesBaseURL,
		log:     log,
		out:     os.Stdout,
	}
}

// WithOutput redirects the progress bar.
func (d *Downloader) WithOutput(w io.Writer) *Downloader {
	d.out = w
	return d
}

// Download fetches archiveName into destDir and, for .zip archives,
// extracts it next to the archive.
func (d *Downloader) Download(ctx context.Context, archiveName, destDir string) error {
	localPath, err := d.DownloadFile(ctx, archiveName, destDir)
	if err != nil {
		return err
	}

	if filepath.Ext(archiveName) != ".zip" {
		return nil
	}
	files, err := d.ExtractZip(localPath, destDir)
	if err != nil {
		return err
	}
	d.log.Info("archive ready", slog.String("archive", archiveName), slog.Int("files", len(files)))
	return nil
}

// DownloadFile saves baseURL+filename to destDir and returns the local path.
// An existing file is reused.
func (d *Downloader) DownloadFile(ctx context.Context, filename, destDir string) (string, error) {
	url := d.baseURL + filename
	localPath := filepath.Join(destDir, filename)

	// Создаём директорию если не существует
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", errors.Wrap(err, "create data dir")
	}

	// Проверяем существует ли уже файл
	if _, err := os.Stat(localPath); err == nil {
		return localPath, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrap(err, "create request")
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "download")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("download %s: bad status: %s", url, resp.Status)
	}

	// Пишем во временный файл, чтобы оборванная загрузка не выглядела готовой
	partPath := localPath + ".part"
	out, err := os.Create(partPath)
	if err != nil {
		return "", errors.Wrap(err, "create file")
	}

	bar := progressbar.NewOptions64(
		resp.ContentLength,
		progressbar.OptionSetWriter(d.out),
		progressbar.OptionSetDescription(fmt.Sprintf("Downloading %s", filename)),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(d.out)
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
	)

	_, err = io.Copy(io.MultiWriter(out, bar), resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(partPath)
		return "", errors.Wrap(err, "save file")
	}

	if err := os.Rename(partPath, localPath); err != nil {
		return "", errors.Wrap(err, "finalize file")
	}

	d.log.Info("downloaded", slog.String("file", localPath))
	return localPath, nil
}

// ExtractZip распаковывает zip архив в destDir и возвращает список распакованных файлов
func (d *Downloader) ExtractZip(zipPath, destDir string) ([]string, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, errors.Wrap(err, "open zip")
	}
	defer reader.Close()

	var extractedFiles []string

	for _, zipFile := range reader.File {
		if zipFile.FileInfo().IsDir() {
			continue
		}

		if !filepath.IsLocal(zipFile.Name) {
			return nil, errors.Errorf("zip entry %q escapes %s", zipFile.Name, destDir)
		}
		destPath := filepath.Join(destDir, zipFile.Name)

		// Проверяем существует ли уже распакованный файл
		if _, err := os.Stat(destPath); err == nil {
			extractedFiles = append(extractedFiles, destPath)
			continue
		}

		if err := extractFile(zipFile, destPath); err != nil {
			return nil, err
		}

		extractedFiles = append(extractedFiles, destPath)
		d.log.Info("extracted", slog.String("file", destPath))
	}

	return extractedFiles, nil
}

func extractFile(zipFile *zip.File, destPath string) error {
	rc, err := zipFile.Open()
	if err != nil {
		return errors.Wrapf(err, "open %s in zip", zipFile.Name)
	}
	defer rc.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return errors.Wrap(err, "create output dir")
	}

	out, err := os.Create(destPath)
	if err != nil {
		return errors.Wrapf(err, "create output file %s", destPath)
	}

	_, err = io.Copy(out, rc)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(destPath)
		return errors.Wrapf(err, "extract %s", zipFile.Name)
	}
	return nil
}
