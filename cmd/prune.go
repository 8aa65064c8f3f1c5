package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"doksutils/internal/backup"
	"doksutils/pkg/utils"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete local backup artifacts older than specified days",
	Long: `Delete bucket archives (*.tar.gz) and database dumps (db_dump_*.sql)
in the output directory that are older than the specified number of days.
Other files in the directory are never touched.

WARNING: This operation is irreversible. Deleted backups cannot be recovered.`,
	Example: `  # Delete artifacts older than 30 days
  doksutils prune --days 30

  # See what would be deleted first
  doksutils prune --days 30 --dry-run

  # Prune a specific backup directory
  doksutils prune --days 7 --output /backups --confirm`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPrune(cmd)
	},
}

func runPrune(cmd *cobra.Command) error {
	days, _ := cmd.Flags().GetInt("days")
	confirm, _ := cmd.Flags().GetBool("confirm")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if days <= 0 {
		err := fmt.Errorf("days must be greater than 0")
		utils.PrintError(err, "prune")
		return err
	}

	outputDir := getOutputDir(cmd)

	if !confirm && !dryRun {
		cutoffDate := time.Now().AddDate(0, 0, -days)
		fmt.Printf("WARNING: This will permanently delete backup artifacts older than %d days (%s) from '%s'\n",
			days, cutoffDate.Format("2006-01-02"), outputDir)
		fmt.Print("Are you sure? (yes/no): ")

		var response string
		fmt.Scanln(&response)
		if response != "yes" && response != "y" && response != "YES" {
			fmt.Println("Operation cancelled.")
			return nil
		}
	}

	if isVerbose(cmd) {
		cmd.Printf("Pruning artifacts older than %d days from: %s\n", days, outputDir)
		if dryRun {
			cmd.Println("DRY RUN MODE: No files will actually be deleted")
		}
	}

	result, err := backup.PruneArtifacts(outputDir, days, dryRun, time.Now())
	if err != nil {
		utils.PrintError(err, "prune")
		return err
	}

	if err := utils.PrintJSON(result); err != nil {
		utils.PrintError(err, "prune")
		return err
	}

	if isVerbose(cmd) {
		cmd.Println("Prune operation completed successfully")
	}
	return nil
}

func init() {
	pruneCmd.Flags().IntP("days", "d", 0, "Delete artifacts older than this many days (required)")
	if err := pruneCmd.MarkFlagRequired("days"); err != nil {
		utils.PrintError(err, "prune")
	}

	pruneCmd.Flags().Bool("confirm", false, "Skip confirmation prompt")
	pruneCmd.Flags().Bool("dry-run", false, "Show what would be deleted without actually deleting")
}
