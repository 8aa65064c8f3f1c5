package models

import "time"

// UnitStatus tracks a single object download through its lifecycle.
type UnitStatus string

const (
	UnitPending    UnitStatus = "pending"
	UnitInProgress UnitStatus = "in_progress"
	UnitDone       UnitStatus = "done"
	UnitFailed     UnitStatus = "failed"
)

// DownloadUnit is the per-key record produced by a bucket fetch. Reason is
// set only when Status is UnitFailed.
type DownloadUnit struct {
	Key        string     `json:"key"`
	BucketName string     `json:"bucket_name"`
	LocalPath  string     `json:"local_path"`
	Status     UnitStatus `json:"status"`
	Reason     string     `json:"reason,omitempty"`
}

// Terminal reports whether the unit has finished, successfully or not.
func (u DownloadUnit) Terminal() bool {
	return u.Status == UnitDone || u.Status == UnitFailed
}

type ArchiveResult struct {
	BucketName     string   `json:"bucket_name"`
	ArchivePath    string   `json:"archive_path"`
	ObjectCount    int      `json:"object_count"`
	FailedKeys     []string `json:"failed_keys,omitempty"`
	TotalSizeBytes int64    `json:"total_size_bytes"`
	TotalSizeHuman string   `json:"total_size_human"`
	OperationTime  string   `json:"operation_time"`
}

// BucketReport is the per-bucket outcome of a run: either an archive result
// or the reason the whole bucket failed.
type BucketReport struct {
	BucketName string         `json:"bucket_name"`
	Archive    *ArchiveResult `json:"archive,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// Failed reports whether the bucket produced no archive at all. Partial
// per-object failures inside a produced archive do not count.
func (r BucketReport) Failed() bool {
	return r.Archive == nil
}

type RunSummary struct {
	Reports     []BucketReport `json:"reports"`
	FailedCount int            `json:"failed_count"`
	Duration    string         `json:"duration"`
}

type DumpResult struct {
	Database      string `json:"database"`
	DumpPath      string `json:"dump_path"`
	SizeBytes     int64  `json:"size_bytes"`
	SizeHuman     string `json:"size_human"`
	DumpDuration  string `json:"dump_duration"`
	OperationTime string `json:"operation_time"`
}

type ArchiveInfo struct {
	ArchivePath      string    `json:"archive_path"`
	FileCount        int       `json:"file_count"`
	CompressedSize   int64     `json:"compressed_size"`
	OriginalSize     int64     `json:"original_size"`
	CompressionRatio float64   `json:"compression_ratio"`
	CreatedAt        time.Time `json:"created_at"`
}
