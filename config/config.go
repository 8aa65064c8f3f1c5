package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is the env file the tool reads by default; override with
// DOKS_ENV_FILE.
const DefaultEnvFile = "doks_utils.env"

type Config struct {
	Profile   string
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string

	DownloadDir string
	OutputDir   string
	Workers     int

	PostgresDB       string
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     string
}

func Load() (*Config, error) {
	envFile := getEnv("DOKS_ENV_FILE", DefaultEnvFile)
	if err := godotenv.Load(envFile); err != nil {
		slog.Warn("env file not found, using environment variables only", "file", envFile)
	}

	config := &Config{
		Profile:   getEnv("AWS_PROFILE", ""),
		AccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		Region:    getEnv("AWS_REGION", "us-east-1"),
		Endpoint:  getEnv("AWS_ENDPOINT_URL", ""),

		DownloadDir: getEnv("LOCAL_DOWNLOAD_DIR", "./download"),
		OutputDir:   getEnv("OUTPUT_DIR", "."),
		Workers:     getEnvInt("WORKER_COUNT", defaultWorkers()),

		PostgresDB:       getEnv("POSTGRES_DB", ""),
		PostgresUser:     getEnv("POSTGRES_USER", ""),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
	}

	if config.Workers < 1 {
		config.Workers = 1
	}

	return config, nil
}

// ValidateS3 checks that the configuration carries enough to build an S3
// session: either a static key pair or a shared-config profile.
func (c *Config) ValidateS3() error {
	if c.AccessKey != "" && c.SecretKey != "" {
		return nil
	}
	if c.Profile != "" {
		return nil
	}
	return errors.New("provide AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY or AWS_PROFILE in your env file (run 'config' to create a template)")
}

func (c *Config) ValidatePostgres() error {
	if c.PostgresDB == "" || c.PostgresUser == "" || c.PostgresPassword == "" {
		return errors.New("POSTGRES_DB, POSTGRES_USER, and POSTGRES_PASSWORD must be set in your env file")
	}
	return nil
}

const envTemplate = `# S3 Configuration
AWS_PROFILE=default
AWS_ACCESS_KEY_ID=
AWS_SECRET_ACCESS_KEY=
AWS_REGION=us-east-1
AWS_ENDPOINT_URL=
LOCAL_DOWNLOAD_DIR=./download
OUTPUT_DIR=.
WORKER_COUNT=

# PostgreSQL Configuration
POSTGRES_DB=my-db-name
POSTGRES_USER=my-username
POSTGRES_PASSWORD=my-password
POSTGRES_HOST=localhost
POSTGRES_PORT=5432
`

// WriteTemplate writes a commented configuration template to path.
func WriteTemplate(path string) error {
	if err := os.WriteFile(path, []byte(envTemplate), 0o644); err != nil {
		return fmt.Errorf("failed to write template to %s: %w", path, err)
	}
	return nil
}

func defaultWorkers() int {
	workers := runtime.NumCPU() - 2
	if workers < 1 {
		workers = 1
	}
	return workers
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("invalid integer value, using default", "key", key, "value", value)
		return defaultValue
	}
	return parsed
}
