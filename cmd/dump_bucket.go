package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"doksutils/internal/backup"
	"doksutils/internal/models"
	"doksutils/internal/s3client"
	"doksutils/pkg/utils"
)

var dumpBucketCmd = &cobra.Command{
	Use:     "dump-bucket <bucket>...",
	Aliases: []string{"dump_bucket"},
	Short:   "Download S3 buckets into timestamped tar.gz archives",
	Long: `Download the full contents of one or more S3 buckets.

Each bucket is processed in turn: its keys are listed, its objects are
downloaded concurrently into a staging directory, and the staging directory
is packaged into <bucket>_<timestamp>.tar.gz in the output directory.

A failed object is recorded and left out of the archive; it does not abort
the bucket. A bucket whose listing or archiving fails is recorded and the
run continues with the remaining buckets. The command exits non-zero only
when at least one bucket produced no archive at all.`,
	Example: `  # Back up a single bucket
  doksutils dump-bucket my-bucket

  # Back up several buckets in one run
  doksutils dump-bucket assets logs uploads

  # Control concurrency and output location
  doksutils dump-bucket my-bucket --workers 8 --output /backups`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := backupBuckets(cmd, args)
		if err != nil {
			utils.PrintError(err, "dump-bucket")
			return err
		}

		if err := utils.PrintJSON(summary); err != nil {
			utils.PrintError(err, "dump-bucket")
			return err
		}

		if summary.FailedCount > 0 {
			return fmt.Errorf("%d of %d buckets failed", summary.FailedCount, len(summary.Reports))
		}
		return nil
	},
}

// backupBuckets runs the full list -> fetch -> archive cycle for each
// bucket name and returns the run summary. The returned error covers setup
// failures only; per-bucket failures land in the summary.
func backupBuckets(cmd *cobra.Command, bucketNames []string) (models.RunSummary, error) {
	if err := cfg.ValidateS3(); err != nil {
		return models.RunSummary{}, err
	}

	client, err := s3client.New(cfg)
	if err != nil {
		return models.RunSummary{}, err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	workers, _ := cmd.Flags().GetInt("workers")
	if workers <= 0 {
		workers = cfg.Workers
	}

	var observer backup.ProgressObserver
	if !isQuiet(cmd) {
		observer = backup.NewConsoleProgress()
	}

	if isVerbose(cmd) {
		cmd.Printf("Starting bucket backup...\n")
		cmd.Printf("  Buckets: %v\n", bucketNames)
		cmd.Printf("  Workers: %d\n", workers)
		cmd.Printf("  Output: %s\n", getOutputDir(cmd))
	}

	fetcher := backup.NewFetcher(client, workers, observer)
	archiver := backup.NewArchiver(getOutputDir(cmd))
	orchestrator := backup.NewOrchestrator(client, fetcher, archiver, cfg.DownloadDir)

	start := time.Now()
	reports := orchestrator.Run(ctx, bucketNames)
	return backup.Summarize(reports, time.Since(start)), nil
}

func isQuiet(cmd *cobra.Command) bool {
	quiet, _ := cmd.Flags().GetBool("quiet")
	return quiet
}

func init() {
	dumpBucketCmd.Flags().IntP("workers", "w", 0, "Concurrent downloads per bucket (default: WORKER_COUNT from config)")
	dumpBucketCmd.Flags().Bool("quiet", false, "Suppress the download progress indicator")
}
