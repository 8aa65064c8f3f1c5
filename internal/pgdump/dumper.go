package pgdump

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	appConfig "doksutils/config"
	"doksutils/internal/models"
	"doksutils/pkg/utils"
)

// Dumper shells out to pg_dump to produce a compressed (custom-format)
// dump of the configured database.
type Dumper struct {
	config    *appConfig.Config
	binary    string
	outputDir string
	now       func() time.Time
}

func New(cfg *appConfig.Config) *Dumper {
	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	return &Dumper{
		config:    cfg,
		binary:    "pg_dump",
		outputDir: outputDir,
		now:       time.Now,
	}
}

// Dump runs pg_dump and writes db_dump_<timestamp>.sql into the output
// directory. The database password travels to the child process via
// PGPASSWORD and is never logged.
func (d *Dumper) Dump(ctx context.Context) (*models.DumpResult, error) {
	if err := d.config.ValidatePostgres(); err != nil {
		return nil, err
	}

	timestamp := d.now()
	dumpPath := filepath.Join(d.outputDir, utils.DumpFileName(timestamp))

	cmd := exec.CommandContext(ctx, d.binary, d.buildArgs(dumpPath)...)
	cmd.Env = append(os.Environ(), "PGPASSWORD="+d.config.PostgresPassword)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("pg_dump failed: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("pg_dump failed: %w", err)
	}
	duration := time.Since(start)

	info, err := os.Stat(dumpPath)
	if err != nil {
		return nil, fmt.Errorf("pg_dump reported success but dump file is missing: %w", err)
	}

	return &models.DumpResult{
		Database:      d.config.PostgresDB,
		DumpPath:      dumpPath,
		SizeBytes:     info.Size(),
		SizeHuman:     utils.FormatBytes(info.Size()),
		DumpDuration:  duration.String(),
		OperationTime: utils.FormatTime(timestamp),
	}, nil
}

func (d *Dumper) buildArgs(dumpPath string) []string {
	return []string{
		"-h", d.config.PostgresHost,
		"-p", d.config.PostgresPort,
		"-U", d.config.PostgresUser,
		"-F", "c",
		"-f", dumpPath,
		d.config.PostgresDB,
	}
}
