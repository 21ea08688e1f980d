package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type S3Client struct {
	Client *s3.Client
}

func NewS3BucketClient(ctx context.Context, appConfig AppConfig) (BucketClient, error) {
	var bucketClient BucketClient

	cfg, err := config.LoadDefaultConfig(ctx, awsConfigOptions(appConfig.Provider.Profile, appConfig.Provider.Region)...)
	if err != nil {
		return bucketClient, fmt.Errorf("Error creating s3 client: %w", err)
	}
	awsS3Client := s3.NewFromConfig(cfg)
	bucketClient = &S3Client{Client: awsS3Client}

	return bucketClient, nil
}

func awsConfigOptions(profile, region string) []func(*config.LoadOptions) error {
	opts := make([]func(*config.LoadOptions) error, 0)
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	return opts
}

func (s *S3Client) HeadObject(ctx context.Context, bucketName, key string) (ObjectInfo, error) {
	headResp, headErr := s.Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(key),
	})
	if headErr != nil {
		return ObjectInfo{}, headErr
	}

	return ObjectInfo{
		ModTime: aws.ToTime(headResp.LastModified),
		Size:    headResp.ContentLength,
		ETag:    aws.ToString(headResp.ETag),
	}, nil
}

// GetObject buffers the whole object in memory instead of spooling it to
// local disk, which is small and capped on function runtimes.
func (s *S3Client) GetObject(ctx context.Context, bucketName, key string) ([]byte, error) {
	downloader := manager.NewDownloader(s.Client)
	buf := manager.NewWriteAtBuffer([]byte{})
	_, getErr := downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(key),
	})
	if getErr != nil {
		return nil, getErr
	}

	return buf.Bytes(), nil
}

func (s *S3Client) ListObjects(ctx context.Context, bucketName string) (map[string]ObjectInfo, error) {
	bucketFiles := make(map[string]ObjectInfo)
	listParams := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucketName),
	}
	paginator := s3.NewListObjectsV2Paginator(s.Client, listParams, func(o *s3.ListObjectsV2PaginatorOptions) {})
	for paginator.HasMorePages() {
		currentPage, pageErr := paginator.NextPage(ctx)
		if pageErr != nil {
			return bucketFiles, pageErr
		}
		for _, object := range currentPage.Contents {
			bucketFiles[aws.ToString(object.Key)] = ObjectInfo{
				ModTime: aws.ToTime(object.LastModified),
				Size:    object.Size,
				ETag:    aws.ToString(object.ETag),
			}
		}
	}

	return bucketFiles, nil
}

func (s *S3Client) UploadFile(ctx context.Context, bucketName, key string, file *os.File, opts UploadOptions) error {
	putReq := &s3.PutObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(key),
		Body:   file,
	}
	if opts.ACL != "" {
		putReq.ACL = types.ObjectCannedACL(opts.ACL)
	}
	if opts.ContentType != "" {
		putReq.ContentType = aws.String(opts.ContentType)
	}

	uploader := manager.NewUploader(s.Client)
	_, putErr := uploader.Upload(ctx, putReq)

	return putErr
}

func (s *S3Client) DeleteObject(ctx context.Context, bucket string, key string) error {
	delReq := &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	_, delErr := s.Client.DeleteObject(ctx, delReq)

	return delErr
}
