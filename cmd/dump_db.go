package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"doksutils/internal/models"
	"doksutils/internal/pgdump"
	"doksutils/pkg/utils"
)

var dumpDbCmd = &cobra.Command{
	Use:     "dump-db",
	Aliases: []string{"dump_db"},
	Short:   "Dump the configured PostgreSQL database",
	Long: `Create a compressed PostgreSQL dump using pg_dump.

Connection parameters come from the environment configuration
(POSTGRES_DB, POSTGRES_USER, POSTGRES_PASSWORD, POSTGRES_HOST,
POSTGRES_PORT). The dump is written to the output directory as
db_dump_<timestamp>.sql in pg_dump's custom format.`,
	Example: `  # Dump the configured database
  doksutils dump-db

  # Dump into a specific directory
  doksutils dump-db --output /backups`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := dumpDatabase(cmd)
		if err != nil {
			utils.PrintError(err, "dump-db")
			return err
		}

		if err := utils.PrintJSON(result); err != nil {
			utils.PrintError(err, "dump-db")
			return err
		}
		return nil
	},
}

func dumpDatabase(cmd *cobra.Command) (*models.DumpResult, error) {
	if err := cfg.ValidatePostgres(); err != nil {
		return nil, err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if isVerbose(cmd) {
		cmd.Printf("Dumping database: %s\n", cfg.PostgresDB)
	}

	dumpCfg := *cfg
	dumpCfg.OutputDir = getOutputDir(cmd)

	return pgdump.New(&dumpCfg).Dump(ctx)
}
