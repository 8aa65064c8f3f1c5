package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetEnv(t *testing.T) {
	os.Setenv("TEST_VAR", "test_value")
	defer os.Unsetenv("TEST_VAR")

	result := getEnv("TEST_VAR", "default_value")
	if result != "test_value" {
		t.Errorf("getEnv() = %s, want %s", result, "test_value")
	}

	result = getEnv("NON_EXISTENT_VAR", "default_value")
	if result != "default_value" {
		t.Errorf("getEnv() = %s, want %s", result, "default_value")
	}

	os.Setenv("EMPTY_VAR", "")
	defer os.Unsetenv("EMPTY_VAR")

	result = getEnv("EMPTY_VAR", "default_value")
	if result != "default_value" {
		t.Errorf("getEnv() = %s, want %s", result, "default_value")
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int
	}{
		{"Valid integer", "8", 8},
		{"Empty value", "", 4},
		{"Garbage value", "not-a-number", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value == "" {
				os.Unsetenv("TEST_INT_VAR")
			} else {
				os.Setenv("TEST_INT_VAR", tt.value)
				defer os.Unsetenv("TEST_INT_VAR")
			}

			result := getEnvInt("TEST_INT_VAR", 4)
			if result != tt.expected {
				t.Errorf("getEnvInt() = %d, want %d", result, tt.expected)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	vars := []string{
		"AWS_PROFILE", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY",
		"AWS_REGION", "AWS_ENDPOINT_URL", "LOCAL_DOWNLOAD_DIR", "OUTPUT_DIR",
		"WORKER_COUNT", "POSTGRES_DB", "POSTGRES_USER", "POSTGRES_PASSWORD",
		"POSTGRES_HOST", "POSTGRES_PORT",
	}

	originalVars := make(map[string]string, len(vars))
	for _, key := range vars {
		originalVars[key] = os.Getenv(key)
	}

	defer func() {
		for key, value := range originalVars {
			if value == "" {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, value)
			}
		}
	}()

	testVars := map[string]string{
		"AWS_ACCESS_KEY_ID":     "test-access-key",
		"AWS_SECRET_ACCESS_KEY": "test-secret-key",
		"AWS_REGION":            "eu-central-1",
		"AWS_ENDPOINT_URL":      "https://storage.example.com",
		"LOCAL_DOWNLOAD_DIR":    "/tmp/staging",
		"WORKER_COUNT":          "6",
		"POSTGRES_DB":           "test-db",
		"POSTGRES_USER":         "test-user",
		"POSTGRES_PASSWORD":     "test-password",
	}

	for _, key := range vars {
		os.Unsetenv(key)
	}
	for key, value := range testVars {
		os.Setenv(key, value)
	}

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if config.AccessKey != testVars["AWS_ACCESS_KEY_ID"] {
		t.Errorf("config.AccessKey = %s, want %s", config.AccessKey, testVars["AWS_ACCESS_KEY_ID"])
	}

	if config.SecretKey != testVars["AWS_SECRET_ACCESS_KEY"] {
		t.Errorf("config.SecretKey = %s, want %s", config.SecretKey, testVars["AWS_SECRET_ACCESS_KEY"])
	}

	if config.Region != testVars["AWS_REGION"] {
		t.Errorf("config.Region = %s, want %s", config.Region, testVars["AWS_REGION"])
	}

	if config.Endpoint != testVars["AWS_ENDPOINT_URL"] {
		t.Errorf("config.Endpoint = %s, want %s", config.Endpoint, testVars["AWS_ENDPOINT_URL"])
	}

	if config.DownloadDir != testVars["LOCAL_DOWNLOAD_DIR"] {
		t.Errorf("config.DownloadDir = %s, want %s", config.DownloadDir, testVars["LOCAL_DOWNLOAD_DIR"])
	}

	if config.Workers != 6 {
		t.Errorf("config.Workers = %d, want %d", config.Workers, 6)
	}

	if config.PostgresDB != testVars["POSTGRES_DB"] {
		t.Errorf("config.PostgresDB = %s, want %s", config.PostgresDB, testVars["POSTGRES_DB"])
	}

	for key := range testVars {
		os.Unsetenv(key)
	}

	config, err = Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if config.Region != "us-east-1" {
		t.Errorf("config.Region = %s, want %s", config.Region, "us-east-1")
	}

	if config.DownloadDir != "./download" {
		t.Errorf("config.DownloadDir = %s, want %s", config.DownloadDir, "./download")
	}

	if config.OutputDir != "." {
		t.Errorf("config.OutputDir = %s, want %s", config.OutputDir, ".")
	}

	if config.PostgresHost != "localhost" {
		t.Errorf("config.PostgresHost = %s, want %s", config.PostgresHost, "localhost")
	}

	if config.PostgresPort != "5432" {
		t.Errorf("config.PostgresPort = %s, want %s", config.PostgresPort, "5432")
	}

	if config.Workers < 1 {
		t.Errorf("config.Workers = %d, want >= 1", config.Workers)
	}
}

func TestValidateS3(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
	}{
		{"Static credentials", Config{AccessKey: "key", SecretKey: "secret"}, false},
		{"Profile only", Config{Profile: "default"}, false},
		{"Access key without secret", Config{AccessKey: "key"}, true},
		{"Nothing set", Config{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.ValidateS3()
			if (err != nil) != tt.expectError {
				t.Errorf("ValidateS3() error = %v, expectError %v", err, tt.expectError)
			}
		})
	}
}

func TestValidatePostgres(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
	}{
		{"All set", Config{PostgresDB: "db", PostgresUser: "u", PostgresPassword: "p"}, false},
		{"Missing password", Config{PostgresDB: "db", PostgresUser: "u"}, true},
		{"Missing database", Config{PostgresUser: "u", PostgresPassword: "p"}, true},
		{"Nothing set", Config{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.ValidatePostgres()
			if (err != nil) != tt.expectError {
				t.Errorf("ValidatePostgres() error = %v, expectError %v", err, tt.expectError)
			}
		})
	}
}

func TestWriteTemplate(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	path := filepath.Join(tempDir, "doks_utils.env")
	if err := WriteTemplate(path); err != nil {
		t.Fatalf("WriteTemplate() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read template: %v", err)
	}

	content := string(data)
	for _, key := range []string{
		"AWS_PROFILE", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY",
		"AWS_REGION", "LOCAL_DOWNLOAD_DIR", "POSTGRES_DB", "POSTGRES_USER",
		"POSTGRES_PASSWORD", "POSTGRES_HOST", "POSTGRES_PORT",
	} {
		if !strings.Contains(content, key) {
			t.Errorf("Template missing key %s", key)
		}
	}
}
