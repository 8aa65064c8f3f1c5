package backup

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"doksutils/internal/models"
)

func archiveEntries(t *testing.T, path string) map[string]bool {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open archive: %v", err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		t.Fatalf("Failed to open gzip stream: %v", err)
	}
	defer gzipReader.Close()

	entries := make(map[string]bool)
	tarReader := tar.NewReader(gzipReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Failed to read tar entry: %v", err)
		}
		entries[header.Name] = true
	}
	return entries
}

func stageFile(t *testing.T, stagingDir, key, content string) string {
	t.Helper()
	path := filepath.Join(stagingDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create staging dirs: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to stage file: %v", err)
	}
	return path
}

func TestArchiveEmptyStaging(t *testing.T) {
	outputDir := t.TempDir()
	stagingDir := t.TempDir()

	archiver := NewArchiver(outputDir)
	timestamp := time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)

	_, err := archiver.Archive(stagingDir, "empty", timestamp, nil)
	if err == nil {
		t.Fatal("Archive() succeeded on empty staging, want error")
	}

	var archiveErr *ArchiveError
	if !errors.As(err, &archiveErr) {
		t.Errorf("Archive() error type = %T, want *ArchiveError", err)
	}
	if !errors.Is(err, ErrEmptyStaging) {
		t.Errorf("Archive() error = %v, want wrapped ErrEmptyStaging", err)
	}

	// No zero-byte archive may be left behind.
	files, err := os.ReadDir(outputDir)
	if err != nil {
		t.Fatalf("Failed to read output dir: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("Output dir has %d files after failed archive, want 0", len(files))
	}

	if _, err := os.Stat(stagingDir); err != nil {
		t.Errorf("Staging dir removed after failed archive: %v", err)
	}
}

func TestArchiveSuccess(t *testing.T) {
	outputDir := t.TempDir()
	stagingDir := t.TempDir()

	units := []models.DownloadUnit{
		{Key: "a.txt", Status: models.UnitDone, LocalPath: stageFile(t, stagingDir, "a.txt", "alpha")},
		{Key: "sub/b.txt", Status: models.UnitDone, LocalPath: stageFile(t, stagingDir, "sub/b.txt", "bravo")},
		{Key: "sub/in/c.txt", Status: models.UnitDone, LocalPath: stageFile(t, stagingDir, "sub/in/c.txt", "charlie")},
		{Key: "sub/missing.txt", Status: models.UnitFailed, Reason: "simulated transfer error"},
	}

	archiver := NewArchiver(outputDir)
	timestamp := time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)

	result, err := archiver.Archive(stagingDir, "logs", timestamp, units)
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	wantPath := filepath.Join(outputDir, "logs_2024-03-15_10-30-45.tar.gz")
	if result.ArchivePath != wantPath {
		t.Errorf("ArchivePath = %s, want %s", result.ArchivePath, wantPath)
	}
	if _, err := os.Stat(wantPath); err != nil {
		t.Fatalf("Archive file missing: %v", err)
	}

	if result.ObjectCount != 3 {
		t.Errorf("ObjectCount = %d, want 3", result.ObjectCount)
	}

	if len(result.FailedKeys) != 1 || result.FailedKeys[0] != "sub/missing.txt" {
		t.Errorf("FailedKeys = %v, want [sub/missing.txt]", result.FailedKeys)
	}

	entries := archiveEntries(t, wantPath)
	for _, name := range []string{"logs/a.txt", "logs/sub/b.txt", "logs/sub/in/c.txt"} {
		if !entries[name] {
			t.Errorf("Archive missing entry %s", name)
		}
	}
	if entries["logs/sub/missing.txt"] {
		t.Error("Failed key's content appears in the archive")
	}

	if _, err := os.Stat(stagingDir); !os.IsNotExist(err) {
		t.Errorf("Staging dir still present after successful archive")
	}
}

func TestArchiveIgnoresStrayFiles(t *testing.T) {
	outputDir := t.TempDir()
	stagingDir := t.TempDir()

	units := []models.DownloadUnit{
		{Key: "good.txt", Status: models.UnitDone, LocalPath: stageFile(t, stagingDir, "good.txt", "good")},
		{Key: "bad.txt", Status: models.UnitFailed, Reason: "simulated transfer error"},
	}

	// A leftover partial file for the failed key must not be picked up.
	stageFile(t, stagingDir, "bad.txt", "partial")
	stageFile(t, stagingDir, "unrelated.tmp", "junk")

	archiver := NewArchiver(outputDir)
	timestamp := time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)

	result, err := archiver.Archive(stagingDir, "logs", timestamp, units)
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	if result.ObjectCount != 1 {
		t.Errorf("ObjectCount = %d, want 1", result.ObjectCount)
	}

	entries := archiveEntries(t, result.ArchivePath)
	if !entries["logs/good.txt"] {
		t.Error("Archive missing entry logs/good.txt")
	}
	if entries["logs/bad.txt"] {
		t.Error("Failed key's partial file appears in the archive")
	}
	if entries["logs/unrelated.tmp"] {
		t.Error("Stray file appears in the archive")
	}
}

func TestArchiveAllUnitsFailed(t *testing.T) {
	outputDir := t.TempDir()
	stagingDir := t.TempDir()

	units := []models.DownloadUnit{
		{Key: "k0", Status: models.UnitFailed, Reason: "simulated transfer error"},
		{Key: "k1", Status: models.UnitFailed, Reason: "simulated transfer error"},
	}

	// Even with leftover zero-byte files in staging, a bucket with zero
	// successful downloads must not produce an archive.
	stageFile(t, stagingDir, "k0", "")
	stageFile(t, stagingDir, "k1", "")

	archiver := NewArchiver(outputDir)

	_, err := archiver.Archive(stagingDir, "logs", time.Now(), units)
	if !errors.Is(err, ErrEmptyStaging) {
		t.Fatalf("Archive() error = %v, want wrapped ErrEmptyStaging", err)
	}

	files, readErr := os.ReadDir(outputDir)
	if readErr != nil {
		t.Fatalf("Failed to read output dir: %v", readErr)
	}
	if len(files) != 0 {
		t.Errorf("Output dir has %d files, want 0", len(files))
	}
}

func TestArchiveDirectoryPlaceholderUnits(t *testing.T) {
	outputDir := t.TempDir()
	stagingDir := t.TempDir()

	units := []models.DownloadUnit{
		{Key: "logs/", Status: models.UnitDone, LocalPath: filepath.Join(stagingDir, "logs")},
		{Key: "logs/app.log", Status: models.UnitDone, LocalPath: stageFile(t, stagingDir, "logs/app.log", "entry")},
	}

	archiver := NewArchiver(outputDir)

	result, err := archiver.Archive(stagingDir, "data", time.Now(), units)
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	if result.ObjectCount != 1 {
		t.Errorf("ObjectCount = %d, want 1", result.ObjectCount)
	}

	entries := archiveEntries(t, result.ArchivePath)
	if !entries["data/logs/app.log"] {
		t.Error("Archive missing entry data/logs/app.log")
	}
}

func TestArchiveOutputDirDefaults(t *testing.T) {
	archiver := NewArchiver("")
	if archiver.outputDir != "." {
		t.Errorf("outputDir = %s, want .", archiver.outputDir)
	}
}
