package s3blob

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/defijosh/ronintracker/internal/domain"
)

const (
	// Compressed snapshots above this size switch to a multipart upload.
	multipartThreshold = 32 << 20
	multipartPartSize  = 8 << 20
)

// DatasetArchive implements domain.DatasetArchiver by serializing each
// dataset to gzipped JSON and uploading it under a per-key, per-timestamp
// object path. Archives are append-only; nothing here deletes or rewrites
// existing objects.
type DatasetArchive struct {
	writer domain.BlobWriter
	prefix string
	now    func() time.Time
}

// NewDatasetArchive creates a DatasetArchive writing under the given key
// prefix (e.g. "datasets").
func NewDatasetArchive(writer domain.BlobWriter, prefix string) *DatasetArchive {
	if prefix == "" {
		prefix = "datasets"
	}
	return &DatasetArchive{
		writer: writer,
		prefix: prefix,
		now:    time.Now,
	}
}

// ArchiveDataset uploads one dataset snapshot and returns the object path,
// shaped as <prefix>/<key>/<timestamp>.json.gz.
func (a *DatasetArchive) ArchiveDataset(ctx context.Context, ds *domain.Dataset) (string, error) {
	if ds == nil {
		return "", fmt.Errorf("s3blob: archive dataset: nil dataset")
	}

	path := fmt.Sprintf("%s/%s/%s.json.gz", a.prefix, ds.Key, a.now().UTC().Format("2006-01-02T15-04-05Z"))

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if err := json.NewEncoder(gz).Encode(ds); err != nil {
		return "", fmt.Errorf("s3blob: encode dataset %s: %w", ds.Key, err)
	}
	if err := gz.Close(); err != nil {
		return "", fmt.Errorf("s3blob: compress dataset %s: %w", ds.Key, err)
	}

	if int64(buf.Len()) >= multipartThreshold {
		if err := a.writer.PutMultipart(ctx, path, &buf, multipartPartSize); err != nil {
			return "", fmt.Errorf("s3blob: archive dataset %s: %w", ds.Key, err)
		}
		return path, nil
	}

	if err := a.writer.Put(ctx, path, &buf, "application/gzip"); err != nil {
		return "", fmt.Errorf("s3blob: archive dataset %s: %w", ds.Key, err)
	}
	return path, nil
}
