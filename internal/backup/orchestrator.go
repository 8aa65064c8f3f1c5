package backup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"doksutils/internal/models"
)

// KeyLister enumerates every object key in a bucket.
type KeyLister interface {
	ListObjectKeys(ctx context.Context, bucketName string) ([]string, error)
}

// BucketFetcher downloads a key set into a staging directory.
type BucketFetcher interface {
	Fetch(ctx context.Context, bucketName string, keys []string, stagingPath string) []models.DownloadUnit
}

// BucketArchiver packages a staging directory into an archive.
type BucketArchiver interface {
	Archive(stagingPath, bucketName string, timestamp time.Time, units []models.DownloadUnit) (*models.ArchiveResult, error)
}

// Orchestrator runs the list -> fetch -> archive cycle for each requested
// bucket. Buckets are processed one at a time; concurrency lives inside the
// fetcher. A bucket that fails entirely is recorded and the run moves on.
type Orchestrator struct {
	lister      KeyLister
	fetcher     BucketFetcher
	archiver    BucketArchiver
	downloadDir string
	now         func() time.Time
}

func NewOrchestrator(lister KeyLister, fetcher BucketFetcher, archiver BucketArchiver, downloadDir string) *Orchestrator {
	return &Orchestrator{
		lister:      lister,
		fetcher:     fetcher,
		archiver:    archiver,
		downloadDir: downloadDir,
		now:         time.Now,
	}
}

// Run backs up each named bucket and returns one report per name, in order.
func (o *Orchestrator) Run(ctx context.Context, bucketNames []string) []models.BucketReport {
	reports := make([]models.BucketReport, 0, len(bucketNames))
	for _, bucketName := range bucketNames {
		reports = append(reports, o.runBucket(ctx, bucketName))
	}
	return reports
}

func (o *Orchestrator) runBucket(ctx context.Context, bucketName string) models.BucketReport {
	report := models.BucketReport{BucketName: bucketName}

	keys, err := o.lister.ListObjectKeys(ctx, bucketName)
	if err != nil {
		listErr := &ListError{BucketName: bucketName, Err: err}
		slog.Error("bucket listing failed", "bucket", bucketName, "error", err)
		report.Error = listErr.Error()
		return report
	}

	stagingPath := filepath.Join(o.downloadDir, bucketName)
	if err := os.MkdirAll(stagingPath, 0o755); err != nil {
		report.Error = fmt.Sprintf("failed to create staging directory %s: %v", stagingPath, err)
		return report
	}

	units := o.fetcher.Fetch(ctx, bucketName, keys, stagingPath)

	result, err := o.archiver.Archive(stagingPath, bucketName, o.now(), units)
	if err != nil {
		slog.Error("bucket archiving failed", "bucket", bucketName, "error", err)
		report.Error = err.Error()
		return report
	}

	report.Archive = result
	return report
}

// Summarize rolls per-bucket reports into a run summary.
func Summarize(reports []models.BucketReport, duration time.Duration) models.RunSummary {
	failed := 0
	for _, report := range reports {
		if report.Failed() {
			failed++
		}
	}
	return models.RunSummary{
		Reports:     reports,
		FailedCount: failed,
		Duration:    duration.String(),
	}
}
