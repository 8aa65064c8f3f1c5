package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"doksutils/pkg/utils"
)

var dumpAllCmd = &cobra.Command{
	Use:     "dump-all <bucket>...",
	Aliases: []string{"dump_all"},
	Short:   "Back up S3 buckets and then dump the database",
	Long: `Run the bucket backup for every named bucket, then dump the
configured PostgreSQL database.

The database dump always runs, even when some buckets failed; the exit
status is non-zero when any part of the run failed.`,
	Example: `  # Full backup: two buckets plus the database
  doksutils dump-all assets uploads

  # Everything into one directory
  doksutils dump-all assets --output /backups`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Dumping specified S3 buckets...")
		summary, bucketErr := backupBuckets(cmd, args)
		if bucketErr != nil {
			utils.PrintError(bucketErr, "dump-all")
		} else {
			if err := utils.PrintJSON(summary); err != nil {
				utils.PrintError(err, "dump-all")
				return err
			}
			if summary.FailedCount > 0 {
				bucketErr = fmt.Errorf("%d of %d buckets failed", summary.FailedCount, len(summary.Reports))
			}
		}

		fmt.Println("Dumping database...")
		result, dbErr := dumpDatabase(cmd)
		if dbErr != nil {
			utils.PrintError(dbErr, "dump-all")
		} else if err := utils.PrintJSON(result); err != nil {
			utils.PrintError(err, "dump-all")
			return err
		}

		if bucketErr != nil {
			return bucketErr
		}
		return dbErr
	},
}

func init() {
	dumpAllCmd.Flags().IntP("workers", "w", 0, "Concurrent downloads per bucket (default: WORKER_COUNT from config)")
	dumpAllCmd.Flags().Bool("quiet", false, "Suppress the download progress indicator")
}
