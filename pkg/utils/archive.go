package utils

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"time"

	"doksutils/internal/models"
)

// ArchiveEntry names one local file and the path it takes inside the
// archive.
type ArchiveEntry struct {
	LocalPath string
	Name      string
}

// CreateArchive packages the given entries into a gzip-compressed tar
// archive at outputPath. Only the listed files are included; anything else
// on disk is ignored.
func CreateArchive(entries []ArchiveEntry, outputPath string) (*models.ArchiveInfo, error) {
	outFile, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive file: %w", err)
	}
	defer outFile.Close()

	gzipWriter := gzip.NewWriter(outFile)
	tarWriter := tar.NewWriter(gzipWriter)

	var originalSize int64
	createdAt := time.Now()

	for _, entry := range entries {
		size, err := addEntry(tarWriter, entry)
		if err != nil {
			return nil, fmt.Errorf("failed to add %s to archive: %w", entry.Name, err)
		}
		originalSize += size
	}

	if err := tarWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize tar stream: %w", err)
	}
	if err := gzipWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize gzip stream: %w", err)
	}

	fileInfo, err := outFile.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get archive info: %w", err)
	}
	compressedSize := fileInfo.Size()

	compressionRatio := 0.0
	if originalSize > 0 {
		compressionRatio = float64(compressedSize) / float64(originalSize)
	}

	return &models.ArchiveInfo{
		ArchivePath:      outputPath,
		FileCount:        len(entries),
		CompressedSize:   compressedSize,
		OriginalSize:     originalSize,
		CompressionRatio: compressionRatio,
		CreatedAt:        createdAt,
	}, nil
}

func addEntry(tarWriter *tar.Writer, entry ArchiveEntry) (int64, error) {
	info, err := os.Stat(entry.LocalPath)
	if err != nil {
		return 0, err
	}

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return 0, err
	}
	header.Name = entry.Name

	if err := tarWriter.WriteHeader(header); err != nil {
		return 0, err
	}

	file, err := os.Open(entry.LocalPath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	if _, err := io.Copy(tarWriter, file); err != nil {
		return 0, err
	}

	return info.Size(), nil
}

// ArchiveName builds the archive file name for a bucket at a given time.
func ArchiveName(bucketName string, timestamp time.Time) string {
	return fmt.Sprintf("%s_%s.tar.gz", bucketName, FormatTimestamp(timestamp))
}

// DumpFileName builds the database dump file name for a given time.
func DumpFileName(timestamp time.Time) string {
	return fmt.Sprintf("db_dump_%s.sql", FormatTimestamp(timestamp))
}

// FormatTimestamp renders a time the way artifact names embed it.
func FormatTimestamp(t time.Time) string {
	return t.Format("2006-01-02_15-04-05")
}
