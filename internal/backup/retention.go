package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"doksutils/internal/models"
	"doksutils/pkg/utils"
)

// isArtifact reports whether a file name looks like one of this tool's
// backup artifacts: a bucket archive or a database dump.
func isArtifact(name string) bool {
	return strings.HasSuffix(name, ".tar.gz") ||
		(strings.HasPrefix(name, "db_dump_") && strings.HasSuffix(name, ".sql"))
}

// PruneArtifacts deletes backup artifacts in outputDir older than daysOld
// days. With dryRun it only reports what would be deleted. Other files in
// the directory are never touched.
func PruneArtifacts(outputDir string, daysOld int, dryRun bool, now time.Time) (*models.PruneResult, error) {
	if daysOld < 1 {
		return nil, fmt.Errorf("days must be greater than 0")
	}

	cutoffDate := now.AddDate(0, 0, -daysOld)

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read output directory %s: %w", outputDir, err)
	}

	var deletedFiles []string
	var totalSize int64

	for _, entry := range entries {
		if entry.IsDir() || !isArtifact(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}
		if !info.ModTime().Before(cutoffDate) {
			continue
		}

		if !dryRun {
			if err := os.Remove(filepath.Join(outputDir, entry.Name())); err != nil {
				return nil, fmt.Errorf("failed to delete %s: %w", entry.Name(), err)
			}
		}
		deletedFiles = append(deletedFiles, entry.Name())
		totalSize += info.Size()
	}

	return &models.PruneResult{
		OutputDir:      outputDir,
		DaysOld:        daysOld,
		DeletedFiles:   deletedFiles,
		DeletedCount:   len(deletedFiles),
		TotalSizeBytes: totalSize,
		TotalSizeHuman: utils.FormatBytes(totalSize),
		OperationTime:  utils.FormatTime(now),
		CutoffDate:     utils.FormatTime(cutoffDate),
	}, nil
}
