package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"doksutils/internal/s3client"
	"doksutils/pkg/utils"
)

var bucketInfoCmd = &cobra.Command{
	Use:   "bucket-info <bucket>",
	Short: "Get comprehensive bucket information",
	Long: `Get detailed information about an S3 bucket: object count, total
size, creation date and last modification. Useful for sizing a backup
before running it.`,
	Example: `  # Inspect a bucket before backing it up
  doksutils bucket-info my-bucket

  # Verbose output
  doksutils bucket-info my-bucket --verbose`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBucketInfo(cmd, args[0])
	},
}

func runBucketInfo(cmd *cobra.Command, bucketName string) error {
	if err := cfg.ValidateS3(); err != nil {
		utils.PrintError(err, "bucket-info")
		return err
	}

	client, err := s3client.New(cfg)
	if err != nil {
		utils.PrintError(err, "bucket-info")
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if isVerbose(cmd) {
		cmd.Printf("Getting bucket information for: %s\n", bucketName)
	}

	info, err := client.GetBucketInfo(ctx, bucketName)
	if err != nil {
		utils.PrintError(err, "bucket-info")
		return err
	}

	if err := utils.PrintJSON(info); err != nil {
		utils.PrintError(err, "bucket-info")
		return err
	}

	if isVerbose(cmd) {
		cmd.Printf("Bucket info retrieved successfully\n")
	}
	return nil
}
