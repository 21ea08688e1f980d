package main

import (
	"context"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

type ObjectInfo struct {
	ModTime time.Time
	Size    int64
	ETag    string
}

// ObjectStore is what the handler needs from the archive's bucket.
type ObjectStore interface {
	HeadObject(ctx context.Context, bucket string, key string) (ObjectInfo, error)
	GetObject(ctx context.Context, bucket string, key string) ([]byte, error)
}

type UploadOptions struct {
	ACL         string
	ContentType string
}

type BucketClient interface {
	ObjectStore
	ListObjects(ctx context.Context, bucket string) (map[string]ObjectInfo, error)
	UploadFile(ctx context.Context, bucket string, key string, file *os.File, opts UploadOptions) error
	DeleteObject(ctx context.Context, bucket string, key string) error
}

// contentTypeFor guesses from the extension first, the way the CLIs do, and
// falls back to sniffing the file contents.
func contentTypeFor(path string) string {
	if byExt := mime.TypeByExtension(filepath.Ext(path)); byExt != "" {
		return byExt
	}
	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return "application/octet-stream"
	}

	return detected.String()
}
