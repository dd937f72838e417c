package domain

import (
	"context"
	"io"
	"time"
)

// BlobInfo describes one stored object.
type BlobInfo struct {
	Path         string    `json:"path"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// BlobWriter uploads objects to blob storage. PutMultipart is used for
// payloads large enough that a single-shot upload is unreasonable; the
// partSize is a hint the implementation may clamp.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
	PutMultipart(ctx context.Context, path string, data io.Reader, partSize int64) error
}

// BlobReader downloads and enumerates objects in blob storage.
type BlobReader interface {
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	List(ctx context.Context, prefix string) ([]BlobInfo, error)
}

// DatasetArchiver snapshots refreshed datasets to durable storage for
// offline analysis and backfill. ArchiveDataset returns the object path it
// wrote.
type DatasetArchiver interface {
	ArchiveDataset(ctx context.Context, ds *Dataset) (string, error)
}
