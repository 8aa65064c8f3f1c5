package backup

import (
	"errors"
	"fmt"
)

// ErrEmptyStaging is reported when a bucket yields zero downloaded objects,
// so there is nothing to archive.
var ErrEmptyStaging = errors.New("no objects were downloaded")

// ListError means the bucket listing itself failed (unreachable bucket,
// rejected credentials). It is fatal for that bucket's backup.
type ListError struct {
	BucketName string
	Err        error
}

func (e *ListError) Error() string {
	return fmt.Sprintf("failed to list bucket %s: %v", e.BucketName, e.Err)
}

func (e *ListError) Unwrap() error {
	return e.Err
}

// ArchiveError means packaging the staging directory failed. The staging
// directory is preserved so the operator can recover the files manually.
type ArchiveError struct {
	BucketName string
	Err        error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("failed to archive bucket %s: %v", e.BucketName, e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}
