package backup

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"doksutils/internal/models"
)

// ObjectDownloader fetches one object's bytes into a local file.
type ObjectDownloader interface {
	DownloadObject(ctx context.Context, bucketName, key, localPath string) error
}

// Fetcher downloads a bucket's objects into a staging directory with a
// bounded pool of workers. A failed object is recorded and skipped; it never
// aborts the batch.
type Fetcher struct {
	downloader ObjectDownloader
	workers    int
	observer   ProgressObserver
}

// NewFetcher builds a fetcher with the given pool size. The observer may be
// nil, in which case progress is simply not reported.
func NewFetcher(downloader ObjectDownloader, workers int, observer ProgressObserver) *Fetcher {
	if workers < 1 {
		workers = 1
	}
	return &Fetcher{
		downloader: downloader,
		workers:    workers,
		observer:   observer,
	}
}

// Fetch downloads every key into stagingPath, mirroring key structure as
// directories. Every returned unit is in a terminal state: Done, or Failed
// with a reason. When the context is cancelled, in-flight transfers abort
// and unclaimed keys are marked Failed with the context error.
func (f *Fetcher) Fetch(ctx context.Context, bucketName string, keys []string, stagingPath string) []models.DownloadUnit {
	units := make([]models.DownloadUnit, len(keys))
	for i, key := range keys {
		units[i] = models.DownloadUnit{
			Key:        key,
			BucketName: bucketName,
			LocalPath:  filepath.Join(stagingPath, filepath.FromSlash(key)),
			Status:     models.UnitPending,
		}
	}

	var mu sync.Mutex
	completed := 0

	finish := func(i int, status models.UnitStatus, reason string) {
		mu.Lock()
		defer mu.Unlock()
		units[i].Status = status
		units[i].Reason = reason
		completed++
		if f.observer != nil {
			f.observer.UnitCompleted(units[i], completed, len(units))
		}
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < f.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				mu.Lock()
				units[i].Status = models.UnitInProgress
				mu.Unlock()

				if err := f.downloadUnit(ctx, bucketName, &units[i]); err != nil {
					finish(i, models.UnitFailed, err.Error())
				} else {
					finish(i, models.UnitDone, "")
				}
			}
		}()
	}

feed:
	for i := range units {
		select {
		case jobs <- i:
		case <-ctx.Done():
			// Stop handing out work; whatever was never claimed fails with
			// the context error so every unit still reaches a terminal state.
			for j := i; j < len(units); j++ {
				finish(j, models.UnitFailed, ctx.Err().Error())
			}
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	return units
}

func (f *Fetcher) downloadUnit(ctx context.Context, bucketName string, unit *models.DownloadUnit) error {
	// Keys ending in "/" are directory placeholders; they carry no body.
	if strings.HasSuffix(unit.Key, "/") {
		return os.MkdirAll(unit.LocalPath, 0o755)
	}
	if err := f.downloader.DownloadObject(ctx, bucketName, unit.Key, unit.LocalPath); err != nil {
		// A failed key must leave no file in staging; a stray partial file
		// would otherwise be archived.
		if removeErr := os.Remove(unit.LocalPath); removeErr != nil && !os.IsNotExist(removeErr) {
			slog.Warn("failed to remove partial download", "key", unit.Key, "error", removeErr)
		}
		return err
	}
	return nil
}
