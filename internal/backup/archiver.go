package backup

import (
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"doksutils/internal/models"
	"doksutils/pkg/utils"
)

// Archiver packages a bucket's downloaded objects into a timestamped tar.gz
// in the output directory, then removes the staging directory.
type Archiver struct {
	outputDir string
}

func NewArchiver(outputDir string) *Archiver {
	if outputDir == "" {
		outputDir = "."
	}
	return &Archiver{outputDir: outputDir}
}

// Archive produces <bucket>_<timestamp>.tar.gz from the units that reached
// Done. The archive contains exactly those objects, so a Failed key's
// leftovers can never sneak in. On any failure the staging directory is
// left in place for manual recovery; it is removed only after the archive
// has been fully written.
func (a *Archiver) Archive(stagingPath, bucketName string, timestamp time.Time, units []models.DownloadUnit) (*models.ArchiveResult, error) {
	var entries []utils.ArchiveEntry
	var failedKeys []string
	for _, unit := range units {
		switch unit.Status {
		case models.UnitDone:
			// Directory placeholder keys stage a directory, not a file.
			if strings.HasSuffix(unit.Key, "/") {
				continue
			}
			entries = append(entries, utils.ArchiveEntry{
				LocalPath: unit.LocalPath,
				Name:      path.Join(bucketName, unit.Key),
			})
		case models.UnitFailed:
			failedKeys = append(failedKeys, unit.Key)
		}
	}

	if len(entries) == 0 {
		return nil, &ArchiveError{BucketName: bucketName, Err: ErrEmptyStaging}
	}

	archivePath := filepath.Join(a.outputDir, utils.ArchiveName(bucketName, timestamp))
	info, err := utils.CreateArchive(entries, archivePath)
	if err != nil {
		// Never leave a truncated archive next to good ones.
		if removeErr := os.Remove(archivePath); removeErr != nil && !os.IsNotExist(removeErr) {
			slog.Warn("failed to remove partial archive", "path", archivePath, "error", removeErr)
		}
		return nil, &ArchiveError{BucketName: bucketName, Err: err}
	}

	if err := os.RemoveAll(stagingPath); err != nil {
		slog.Warn("failed to remove staging directory", "path", stagingPath, "error", err)
	}

	return &models.ArchiveResult{
		BucketName:     bucketName,
		ArchivePath:    archivePath,
		ObjectCount:    info.FileCount,
		FailedKeys:     failedKeys,
		TotalSizeBytes: info.CompressedSize,
		TotalSizeHuman: utils.FormatBytes(info.CompressedSize),
		OperationTime:  utils.FormatTime(timestamp),
	}, nil
}
