package cmd

import (
	"github.com/spf13/cobra"

	"doksutils/config"
)

var (
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "doksutils",
	Short: "Backup tool for S3 buckets and PostgreSQL databases",
	Long: `doksutils is a command-line tool for one-shot backups.
It downloads S3 buckets concurrently into timestamped tar.gz archives and
produces PostgreSQL dumps via pg_dump.
Configuration is loaded from doks_utils.env or environment variables`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute(config *config.Config) error {
	cfg = config
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(dumpBucketCmd)
	rootCmd.AddCommand(dumpDbCmd)
	rootCmd.AddCommand(dumpAllCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(bucketInfoCmd)
	rootCmd.AddCommand(pruneCmd)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Override output directory from config")
}

func isVerbose(cmd *cobra.Command) bool {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return verbose
}

func getOutputDir(cmd *cobra.Command) string {
	output, _ := cmd.Flags().GetString("output")
	if output != "" {
		return output
	}
	return cfg.OutputDir
}
