package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"doksutils/config"
	"doksutils/pkg/utils"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write a configuration template",
	Long: `Write a template environment configuration file (doks_utils.env)
with the S3 and PostgreSQL keys the other commands read. Fill it out and
re-run your backup command.`,
	Example: `  # Create doks_utils.env in the current directory
  doksutils config

  # Overwrite an existing file
  doksutils config --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		path := os.Getenv("DOKS_ENV_FILE")
		if path == "" {
			path = config.DefaultEnvFile
		}

		if !force {
			if _, err := os.Stat(path); err == nil {
				err := fmt.Errorf("%s already exists; use --force to overwrite", path)
				utils.PrintError(err, "config")
				return err
			}
		}

		if err := config.WriteTemplate(path); err != nil {
			utils.PrintError(err, "config")
			return err
		}

		fmt.Printf("Template configuration created at %s. Fill it out and retry.\n", path)
		return nil
	},
}

func init() {
	configCmd.Flags().Bool("force", false, "Overwrite an existing configuration file")
}
