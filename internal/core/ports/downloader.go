package ports

import "context"

// Downloader fetches a GeoNames archive and extracts it into destDir.
type Downloader interface {
	Download(ctx context.Context, archiveName, destDir string) error
}
