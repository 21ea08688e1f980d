package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

type GCSClient struct {
	Client *storage.Client
}

func NewGCSBucketClient(ctx context.Context) (BucketClient, error) {
	var bucketClient BucketClient

	gcsClient, err := storage.NewClient(ctx)
	if err != nil {
		return bucketClient, fmt.Errorf("Error creating gcs client: %w", err)
	}
	bucketClient = &GCSClient{Client: gcsClient}

	return bucketClient, nil
}

func (s *GCSClient) HeadObject(ctx context.Context, bucketName, key string) (ObjectInfo, error) {
	attrs, err := s.Client.Bucket(bucketName).Object(key).Attrs(ctx)
	if err != nil {
		return ObjectInfo{}, err
	}

	return ObjectInfo{ModTime: attrs.Updated, Size: attrs.Size, ETag: attrs.Etag}, nil
}

func (s *GCSClient) GetObject(ctx context.Context, bucketName, key string) ([]byte, error) {
	reader, err := s.Client.Bucket(bucketName).Object(key).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}

func (s *GCSClient) ListObjects(ctx context.Context, bucketName string) (map[string]ObjectInfo, error) {
	objectMap := make(map[string]ObjectInfo)
	objIter := s.Client.Bucket(bucketName).Objects(ctx, nil)
	for {
		attrs, err := objIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return objectMap, fmt.Errorf("Bucket(%q).Objects: %w", bucketName, err)
		}
		objectMap[attrs.Name] = ObjectInfo{ModTime: attrs.Updated, Size: attrs.Size, ETag: attrs.Etag}
	}

	return objectMap, nil
}

// UploadFile takes GCS predefined ACL names (publicRead, bucketOwnerRead, ...).
func (s *GCSClient) UploadFile(ctx context.Context, bucketName, key string, file *os.File, opts UploadOptions) error {
	object := s.Client.Bucket(bucketName).Object(key)
	// cancelling the writer's context abandons the upload, Close would commit it
	uploadCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	objWriter := object.NewWriter(uploadCtx)
	if opts.ACL != "" {
		objWriter.PredefinedACL = opts.ACL
	}
	if opts.ContentType != "" {
		objWriter.ContentType = opts.ContentType
	}
	if _, uploadErr := io.Copy(objWriter, file); uploadErr != nil {
		cancel()
		objWriter.Close()
		return uploadErr
	}
	if closeErr := objWriter.Close(); closeErr != nil {
		return closeErr
	}

	return nil
}

func (s *GCSClient) DeleteObject(ctx context.Context, bucket string, key string) error {
	object := s.Client.Bucket(bucket).Object(key)

	if err := object.Delete(ctx); err != nil {
		return err
	}

	return nil
}
